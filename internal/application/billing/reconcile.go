package billing

import (
	"context"
	"fmt"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

// ReconcileUseCase consulta o gateway pelo desfecho de notas presas em
// processing (queda no meio da emissão ou prefeitura lenta) e grava o
// veredito. O refresh é disparado pelo operador; não há polling automático.
//
// Sobre estados terminais a reconciliação é idempotente: reconfirma o estado
// persistido sem nova escrita e sem chamada ao gateway.
type ReconcileUseCase struct {
	txRepo     repository.TransactionRepository
	configRepo repository.FiscalConfigRepository
	gateway    Gateway
	issuer     *IssueInvoiceUseCase
	log        *logger.Logger
}

// NewReconcileUseCase constrói o caso de uso. issuer fornece o applyVerdict
// compartilhado: o mesmo mapeamento de veredito da emissão.
func NewReconcileUseCase(
	txRepo repository.TransactionRepository,
	configRepo repository.FiscalConfigRepository,
	gateway Gateway,
	issuer *IssueInvoiceUseCase,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		txRepo:     txRepo,
		configRepo: configRepo,
		gateway:    gateway,
		issuer:     issuer,
		log:        log,
	}
}

// Refresh consulta o status da nota do lançamento e aplica o veredito.
// A consulta usa o ambiente CARIMBADO na nota, nunca o ambiente corrente do
// tenant: uma nota de homologação é consultada em homologação para sempre.
func (uc *ReconcileUseCase) Refresh(ctx context.Context, companyID, transactionID string) (*IssueOutcome, error) {
	txn, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("reconciliar: obter lançamento: %w", err)
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	if txn.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	switch txn.InvoiceStatus {
	case invoice.StatusIssued, invoice.StatusRejected, invoice.StatusCancelled:
		// Terminal: nada a reconciliar, reconfirma sem tocar no registro.
		return outcomeOf(txn), nil
	case invoice.StatusProcessing:
		// segue para a consulta
	default:
		return nil, fmt.Errorf("%w: lançamento sem emissão em andamento", domain.ErrConflict)
	}

	cfg, err := uc.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("reconciliar: obter configuração fiscal: %w", err)
	}
	if cfg == nil || !cfg.CredentialsComplete() {
		return nil, fmt.Errorf("%w: credenciais do gateway incompletas", domain.ErrInvalidInput)
	}

	result, err := uc.gateway.Status(ctx, txn.ID, txn.InvoiceEnvironment, credentials(cfg))
	if err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", txn.ID).Msg("gateway indisponível durante reconciliação")
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	return uc.issuer.applyVerdict(ctx, txn, result)
}
