package billing

import (
	"context"
	"fmt"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

// EspelhoUseCase gera localmente o espelho (representação gráfica) de uma
// NFS-e emitida. Distinto dos artefatos hospedados no gateway: o espelho é
// produzido aqui, sem chamada externa, e não tem valor fiscal.
type EspelhoUseCase struct {
	txRepo       repository.TransactionRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	generator    EspelhoPDFGenerator
}

// NewEspelhoUseCase constrói o caso de uso.
func NewEspelhoUseCase(
	txRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	generator EspelhoPDFGenerator,
) *EspelhoUseCase {
	return &EspelhoUseCase{
		txRepo:       txRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		generator:    generator,
	}
}

// Generate devolve os bytes do PDF do espelho. Somente notas emitidas.
func (uc *EspelhoUseCase) Generate(ctx context.Context, companyID, transactionID string) ([]byte, error) {
	txn, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("espelho: obter lançamento: %w", err)
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	if txn.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if txn.InvoiceStatus != invoice.StatusIssued {
		return nil, fmt.Errorf("%w: espelho existe somente para notas emitidas", domain.ErrConflict)
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, fmt.Errorf("espelho: empresa %s não encontrada: %w", companyID, domain.ErrNotFound)
	}
	customer, err := uc.customerRepo.GetByID(txn.CustomerID)
	if err != nil || customer == nil {
		return nil, fmt.Errorf("espelho: tomador %s não encontrado: %w", txn.CustomerID, domain.ErrNotFound)
	}

	pdf, err := uc.generator.GenerateEspelhoPDF(ctx, txn, company, customer)
	if err != nil {
		return nil, fmt.Errorf("espelho: gerar PDF: %w", err)
	}
	return pdf, nil
}
