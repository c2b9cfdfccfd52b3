package billing

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
	pkgfiscal "github.com/fluxocaixa/fiscal-api/pkg/fiscal"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

// DefaultBatchCategory nome da categoria padrão dos lançamentos criados pelo
// lote; resolvida por tenant e criada de forma preguiçosa quando ausente.
const DefaultBatchCategory = "Receitas de serviços"

// BatchIssueUseCase dirige a emissão em massa a partir de linhas de planilha
// já tipadas. A garantia central é a independência entre linhas: a falha de
// uma linha nunca aborta, desfaz ou corrompe o progresso das demais, e o
// operador recebe um desfecho por linha ao final.
//
// O processamento é estritamente sequencial: previsibilidade de carga sobre o
// gateway, cache de tomadores sem corrida e progresso determinístico. A linha
// N+1 não inicia antes do desfecho terminal da linha N.
//
// Cada linha gera escritas em stores distintos (tomador, lançamento, gateway)
// sem fronteira transacional comum; atomicidade por linha não é alcançável e
// o desenho otimiza visibilidade: efeitos parciais de uma linha que falhou
// permanecem persistidos e inspecionáveis, nunca são desfeitos.
type BatchIssueUseCase struct {
	issuer       SingleIssuer
	customerRepo repository.CustomerRepository
	categoryRepo repository.CategoryRepository
	txRepo       repository.TransactionRepository
	log          *logger.Logger
}

// NewBatchIssueUseCase constrói o caso de uso.
func NewBatchIssueUseCase(
	issuer SingleIssuer,
	customerRepo repository.CustomerRepository,
	categoryRepo repository.CategoryRepository,
	txRepo repository.TransactionRepository,
	log *logger.Logger,
) *BatchIssueUseCase {
	return &BatchIssueUseCase{
		issuer:       issuer,
		customerRepo: customerRepo,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		log:          log,
	}
}

// Run processa o lote: valida todas as linhas, depois emite sequencialmente
// as que passaram. Lote vazio (zero linhas válidas) é um no-op reportado como
// zero sucesso / zero erro sobre as linhas recebidas.
func (uc *BatchIssueUseCase) Run(ctx context.Context, companyID string, rows []dto.BatchRowInput) (*dto.BatchIssueResponse, error) {
	results := make([]dto.BatchRowResult, len(rows))

	// Fase 1: validação independente de cada linha. Linha inválida é marcada
	// error imediatamente e nunca segue para o processamento.
	for i, row := range rows {
		results[i] = dto.BatchRowResult{Index: i, Status: dto.BatchRowPending}
		if msg := validateRow(row); msg != "" {
			results[i].Status = dto.BatchRowError
			results[i].Message = msg
		}
	}

	// Cache de tomadores por CPF/CNPJ normalizado: duas linhas com o mesmo
	// documento resolvem para o mesmo registro dentro do próprio lote.
	customerCache := make(map[string]string)
	var categoryID string

	// Fase 2: processamento sequencial das linhas válidas.
	for i := range rows {
		if results[i].Status == dto.BatchRowError {
			continue
		}
		results[i].Status = dto.BatchRowProcessing
		uc.log.Info().Int("row", i).Int("total", len(rows)).Msg("processando linha do lote")

		// a) Resolver tomador (upsert por documento no escopo do tenant).
		customerID, err := uc.resolveCustomer(companyID, rows[i], customerCache)
		if err != nil {
			uc.failRow(&results[i], err)
			continue
		}
		results[i].CustomerID = customerID

		// b) Categoria padrão (resolvida uma vez, preguiçosamente).
		if categoryID == "" {
			categoryID, err = uc.resolveDefaultCategory(companyID)
			if err != nil {
				uc.failRow(&results[i], err)
				continue
			}
		}

		// c) Lançamento rascunho (a receber). Se a emissão falhar adiante, o
		// rascunho permanece persistido no estado parcial para inspeção.
		txnID, err := uc.createDraftTransaction(ctx, companyID, customerID, categoryID, rows[i])
		if err != nil {
			uc.failRow(&results[i], err)
			continue
		}
		results[i].TransactionID = txnID

		// d) Emissor unitário: exatamente o mesmo caminho da emissão avulsa.
		outcome, err := uc.issuer.Issue(ctx, companyID, txnID, IssueInput{
			ServiceCode: rows[i].ServiceCode,
			Description: rows[i].Description,
		})
		if err != nil {
			uc.failRow(&results[i], err)
			continue
		}

		switch outcome.Status {
		case invoice.StatusIssued:
			results[i].Status = dto.BatchRowSuccess
			results[i].InvoiceNumber = outcome.Number
		case invoice.StatusProcessing:
			// Protocolo aceito, veredito pendente: não é sucesso nem erro;
			// o operador conclui pela reconciliação.
			results[i].Status = dto.BatchRowProcessing
			results[i].Message = "emissão pendente de confirmação da prefeitura"
		default:
			results[i].Status = dto.BatchRowError
			results[i].Message = outcome.Rejection
		}
	}

	resp := &dto.BatchIssueResponse{Total: len(rows), Rows: results}
	for _, r := range results {
		switch r.Status {
		case dto.BatchRowSuccess:
			resp.SuccessCount++
		case dto.BatchRowError:
			resp.ErrorCount++
		}
	}
	uc.log.Info().Int("total", resp.Total).Int("success", resp.SuccessCount).
		Int("error", resp.ErrorCount).Msg("lote concluído")
	return resp, nil
}

// failRow marca a linha como error com a mensagem da exceção e deixa o loop
// seguir para a próxima linha.
func (uc *BatchIssueUseCase) failRow(r *dto.BatchRowResult, err error) {
	r.Status = dto.BatchRowError
	r.Message = err.Error()
	uc.log.Warn().Int("row", r.Index).Err(err).Msg("linha do lote falhou")
}

// validateRow aplica as regras de campos obrigatórios. Devolve a mensagem de
// erro ou vazio quando a linha é válida.
func validateRow(row dto.BatchRowInput) string {
	switch {
	case strings.TrimSpace(row.Description) == "":
		return "descrição do serviço obrigatória"
	case !row.Amount.IsPositive():
		return "valor deve ser maior que zero"
	case pkgfiscal.Digits(row.CustomerTaxID) == "":
		return "CPF/CNPJ do tomador obrigatório"
	case strings.TrimSpace(row.CustomerName) == "":
		return "nome do tomador obrigatório"
	case strings.TrimSpace(row.ServiceCode) == "":
		return "código de serviço obrigatório"
	}
	return ""
}

// resolveCustomer faz o upsert do tomador por CPF/CNPJ normalizado: consulta
// o cache do lote, depois o repositório, e só então cria. O tipo de pessoa é
// inferido pelo tamanho do documento (≤ 11 dígitos ⇒ pessoa física).
func (uc *BatchIssueUseCase) resolveCustomer(companyID string, row dto.BatchRowInput, cache map[string]string) (string, error) {
	taxID := pkgfiscal.Digits(row.CustomerTaxID)
	if id, ok := cache[taxID]; ok {
		return id, nil
	}

	existing, err := uc.customerRepo.GetByCompanyAndTaxID(companyID, taxID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if !strings.EqualFold(normalizeName(existing.Name), normalizeName(row.CustomerName)) {
			uc.log.Warn().Str("tax_id", taxID).Str("existing", existing.Name).
				Str("row", row.CustomerName).Msg("nome do tomador diverge do cadastro; mantendo o cadastro")
		}
		cache[taxID] = existing.ID
		return existing.ID, nil
	}

	personType := entity.PersonOrganization
	if pkgfiscal.IsIndividual(taxID) {
		personType = entity.PersonIndividual
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       strings.TrimSpace(row.CustomerName),
		TaxID:      taxID,
		PersonType: personType,
		Email:      row.CustomerEmail,
		Address:    row.CustomerAddress,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return "", err
	}
	cache[taxID] = customer.ID
	return customer.ID, nil
}

func (uc *BatchIssueUseCase) resolveDefaultCategory(companyID string) (string, error) {
	existing, err := uc.categoryRepo.GetByCompanyAndName(companyID, DefaultBatchCategory)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	now := time.Now()
	category := &entity.Category{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      DefaultBatchCategory,
		Type:      entity.TransactionReceivable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return "", err
	}
	return category.ID, nil
}

func (uc *BatchIssueUseCase) createDraftTransaction(ctx context.Context, companyID, customerID, categoryID string, row dto.BatchRowInput) (string, error) {
	now := time.Now()
	txn := &entity.Transaction{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Type:          entity.TransactionReceivable,
		CategoryID:    categoryID,
		CustomerID:    customerID,
		Description:   strings.TrimSpace(row.Description),
		GrossAmount:   row.Amount,
		NetAmount:     row.Amount, // recalculado na emissão
		ServiceCode:   strings.TrimSpace(row.ServiceCode),
		ISSRate:       decimal.Zero,
		DueDate:       row.DueDate,
		InvoiceStatus: invoice.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.txRepo.Create(ctx, txn); err != nil {
		return "", err
	}
	return txn.ID, nil
}

// normalizeName remove acentos e colapsa espaços para comparar o nome da
// linha com o cadastro existente (ex.: "João" ≍ "JOAO").
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}
