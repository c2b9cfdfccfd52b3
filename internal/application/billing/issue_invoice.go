package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	domfiscal "github.com/fluxocaixa/fiscal-api/internal/domain/fiscal"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

// IssueInvoiceUseCase orquestra a emissão unitária de NFS-e:
//
//	guarda de estado → processing (persistido ANTES da chamada externa) →
//	cálculo de impostos → gateway → issued | rejected
//
// Persistir processing antes do gateway garante que uma queda no meio da
// chamada deixa um estado "preso" visível e recuperável via reconciliação,
// nunca uma perda silenciosa. Falha de rede deixa a nota em processing e o
// erro sobe para o operador decidir (reconciliar ou reemitir); não há retry
// automático — reenvio de emissão que na verdade foi aceita gera documento
// fiscal duplicado.
type IssueInvoiceUseCase struct {
	txRepo       repository.TransactionRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	configRepo   repository.FiscalConfigRepository
	codeRepo     repository.ServiceCodeRepository
	gateway      Gateway
	log          *logger.Logger
}

var _ SingleIssuer = (*IssueInvoiceUseCase)(nil)

// NewIssueInvoiceUseCase constrói o caso de uso com todas as dependências.
func NewIssueInvoiceUseCase(
	txRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	configRepo repository.FiscalConfigRepository,
	codeRepo repository.ServiceCodeRepository,
	gateway Gateway,
	log *logger.Logger,
) *IssueInvoiceUseCase {
	return &IssueInvoiceUseCase{
		txRepo:       txRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		configRepo:   configRepo,
		codeRepo:     codeRepo,
		gateway:      gateway,
		log:          log,
	}
}

// Issue emite a NFS-e do lançamento. Pré-condições: nenhum ciclo de emissão
// ativo (guarda da máquina de estados) e código de serviço com alíquota
// conhecida. O ambiente é lido UMA vez, carimbado junto com processing e
// reutilizado na conclusão — trocar o ambiente do tenant no meio do voo não
// promove esta nota.
func (uc *IssueInvoiceUseCase) Issue(ctx context.Context, companyID, transactionID string, in IssueInput) (*IssueOutcome, error) {
	txn, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("emitir: obter lançamento: %w", err)
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	if txn.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// Guarda: no máximo uma emissão ativa por lançamento.
	if err := invoice.BeginIssuance(txn.InvoiceStatus); err != nil {
		return nil, err
	}

	serviceCode := in.ServiceCode
	if serviceCode == "" {
		serviceCode = txn.ServiceCode
	}
	if serviceCode == "" {
		return nil, fmt.Errorf("%w: código de serviço obrigatório", domain.ErrInvalidInput)
	}
	code, err := uc.codeRepo.GetByCode(ctx, serviceCode)
	if err != nil {
		return nil, fmt.Errorf("emitir: consultar código de serviço: %w", err)
	}
	if code == nil {
		return nil, fmt.Errorf("%w: código de serviço %q desconhecido", domain.ErrInvalidInput, serviceCode)
	}

	if txn.CustomerID == "" {
		return nil, fmt.Errorf("%w: lançamento sem tomador vinculado", domain.ErrInvalidInput)
	}
	customer, err := uc.customerRepo.GetByID(txn.CustomerID)
	if err != nil || customer == nil {
		return nil, fmt.Errorf("emitir: tomador %s não encontrado: %w", txn.CustomerID, domain.ErrNotFound)
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, fmt.Errorf("emitir: empresa %s não encontrada: %w", companyID, domain.ErrNotFound)
	}

	cfg, err := uc.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("emitir: obter configuração fiscal: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: empresa sem configuração fiscal (defina o ambiente primeiro)", domain.ErrInvalidInput)
	}
	if !cfg.CredentialsComplete() {
		return nil, fmt.Errorf("%w: credenciais do gateway incompletas", domain.ErrInvalidInput)
	}

	// Alíquota: padrão do código de serviço, sobreposta pela alíquota
	// explícita do lançamento quando informada.
	rate := code.DefaultRate
	if txn.ISSRate.IsPositive() {
		rate = txn.ISSRate
	}
	taxes, err := domfiscal.Calculate(txn.GrossAmount, rate)
	if err != nil {
		return nil, err
	}
	withheld, err := domfiscal.Withholdings(txn.GrossAmount, domfiscal.WithholdingRates{
		PIS: txn.PISRate, COFINS: txn.COFINSRate, CSLL: txn.CSLLRate,
		IRPJ: txn.IRPJRate, INSS: txn.INSSRate,
	})
	if err != nil {
		return nil, err
	}

	description := in.Description
	if description == "" {
		description = txn.Description
	}

	// Transição otimista para processing, persistida antes da chamada
	// externa, junto com o ambiente congelado para esta emissão.
	expected := txn.InvoiceStatus
	txn.InvoiceStatus = invoice.StatusProcessing
	txn.InvoiceEnvironment = cfg.Environment
	txn.InvoiceRejection = ""
	txn.NetAmount = taxes.NetAmount
	txn.ServiceCode = serviceCode
	txn.UpdatedAt = time.Now()
	applied, err := uc.txRepo.UpdateInvoiceIf(ctx, txn, expected)
	if err != nil {
		return nil, fmt.Errorf("emitir: persistir processing: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: outra emissão iniciou para este lançamento", domain.ErrConflict)
	}

	result, err := uc.gateway.Issue(ctx, GatewayIssueRequest{
		Ref:           txn.ID,
		Environment:   cfg.Environment,
		Credentials:   credentials(cfg),
		CompanyCNPJ:   company.CNPJ,
		ServiceCode:   serviceCode,
		CNAE:          code.CNAE,
		Description:   description,
		CustomerTaxID: customer.TaxID,
		CustomerName:  customer.Name,
		GrossAmount:   txn.GrossAmount,
		ISSAmount:     taxes.TaxAmount,
		NetAmount:     taxes.NetAmount,
		Withholdings:  withheld,
		IssueDate:     time.Now(),
	})
	if err != nil {
		// Sem veredito: a nota fica em processing, visível para reconciliação.
		uc.log.Warn().Err(err).Str("transaction_id", txn.ID).Msg("gateway indisponível, nota permanece em processing")
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	return uc.applyVerdict(ctx, txn, result)
}

// applyVerdict grava o desfecho reportado pelo gateway sobre uma nota em
// processing. Compartilhado com o reconciliador: a escrita é sempre um UPDATE
// condicional sobre processing, nunca uma sobrescrita cega.
func (uc *IssueInvoiceUseCase) applyVerdict(ctx context.Context, txn *entity.Transaction, result *GatewayResult) (*IssueOutcome, error) {
	switch result.Verdict {
	case VerdictAuthorized:
		if err := invoice.Confirm(txn.InvoiceStatus, result.Number); err != nil {
			return nil, err
		}
		now := time.Now()
		txn.InvoiceStatus = invoice.StatusIssued
		txn.InvoiceNumber = result.Number
		txn.InvoiceKey = result.VerificationCode
		txn.InvoicePDFURL = result.PDFURL
		txn.InvoiceXMLURL = result.XMLURL
		txn.InvoiceIssuedAt = &now
		txn.UpdatedAt = now
		applied, err := uc.txRepo.UpdateInvoiceIf(ctx, txn, invoice.StatusProcessing)
		if err != nil {
			return nil, fmt.Errorf("emitir: persistir issued: %w", err)
		}
		if !applied {
			return nil, fmt.Errorf("%w: estado da nota mudou durante a emissão", domain.ErrConflict)
		}
		uc.log.Info().Str("transaction_id", txn.ID).Str("invoice_number", result.Number).
			Str("environment", string(txn.InvoiceEnvironment)).Msg("NFS-e emitida")

	case VerdictRejected:
		if err := invoice.Reject(txn.InvoiceStatus, result.RejectionReason); err != nil {
			return nil, err
		}
		txn.InvoiceStatus = invoice.StatusRejected
		txn.InvoiceRejection = result.RejectionReason
		txn.UpdatedAt = time.Now()
		applied, err := uc.txRepo.UpdateInvoiceIf(ctx, txn, invoice.StatusProcessing)
		if err != nil {
			return nil, fmt.Errorf("emitir: persistir rejected: %w", err)
		}
		if !applied {
			return nil, fmt.Errorf("%w: estado da nota mudou durante a emissão", domain.ErrConflict)
		}
		uc.log.Info().Str("transaction_id", txn.ID).Str("reason", result.RejectionReason).Msg("NFS-e rejeitada pelo gateway")

	case VerdictPending:
		// Protocolo recebido, prefeitura ainda processando: a nota permanece
		// em processing e o ciclo termina pela reconciliação.
		uc.log.Info().Str("transaction_id", txn.ID).Msg("emissão pendente de confirmação da prefeitura")

	default:
		return nil, fmt.Errorf("%w: veredito desconhecido %q", domain.ErrGatewayUnavailable, result.Verdict)
	}

	return &IssueOutcome{
		TransactionID: txn.ID,
		Status:        txn.InvoiceStatus,
		Number:        txn.InvoiceNumber,
		Environment:   txn.InvoiceEnvironment,
		Key:           txn.InvoiceKey,
		Rejection:     txn.InvoiceRejection,
	}, nil
}

func outcomeOf(txn *entity.Transaction) *IssueOutcome {
	return &IssueOutcome{
		TransactionID: txn.ID,
		Status:        txn.InvoiceStatus,
		Number:        txn.InvoiceNumber,
		Environment:   txn.InvoiceEnvironment,
		Key:           txn.InvoiceKey,
		Rejection:     txn.InvoiceRejection,
	}
}

func credentials(cfg *entity.FiscalConfig) GatewayCredentials {
	return GatewayCredentials{
		Token:                 cfg.GatewayToken,
		MunicipalRegistration: cfg.MunicipalRegistration,
		RPSSeries:             cfg.RPSSeries,
	}
}
