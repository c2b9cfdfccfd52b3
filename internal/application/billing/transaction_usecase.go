package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

// TransactionUseCase CRUD de lançamentos financeiros. A nota fiscal vive nos
// campos Invoice* do próprio lançamento; um lançamento recém-criado com
// tomador e código de serviço nasce com nota pending (pronta para emitir),
// os demais nascem sem nota (none).
type TransactionUseCase struct {
	repo repository.TransactionRepository
}

// NewTransactionUseCase constrói o caso de uso.
func NewTransactionUseCase(repo repository.TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{repo: repo}
}

// Create registra um lançamento a receber ou a pagar.
func (uc *TransactionUseCase) Create(ctx context.Context, companyID string, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if req.Type != entity.TransactionReceivable && req.Type != entity.TransactionPayable {
		return nil, fmt.Errorf("%w: tipo %q (usar receivable ou payable)", domain.ErrInvalidInput, req.Type)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: descrição obrigatória", domain.ErrInvalidInput)
	}
	if !req.GrossAmount.IsPositive() {
		return nil, fmt.Errorf("%w: valor deve ser maior que zero", domain.ErrInvalidInput)
	}

	status := invoice.StatusNone
	if req.Type == entity.TransactionReceivable && req.CustomerID != "" && req.ServiceCode != "" {
		status = invoice.StatusPending
	}

	now := time.Now()
	txn := &entity.Transaction{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		CustomerID:    req.CustomerID,
		SupplierID:    req.SupplierID,
		Description:   strings.TrimSpace(req.Description),
		GrossAmount:   req.GrossAmount,
		NetAmount:     req.GrossAmount, // recalculado na emissão
		ServiceCode:   req.ServiceCode,
		ISSRate:       req.ISSRate,
		PISRate:       req.PISRate,
		COFINSRate:    req.COFINSRate,
		CSLLRate:      req.CSLLRate,
		IRPJRate:      req.IRPJRate,
		INSSRate:      req.INSSRate,
		DueDate:       req.DueDate,
		InvoiceStatus: status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("criar lançamento: %w", err)
	}
	return TransactionResponse(txn), nil
}

// Get devolve o lançamento pelo id, restrito ao tenant.
func (uc *TransactionUseCase) Get(ctx context.Context, companyID, id string) (*dto.TransactionResponse, error) {
	txn, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obter lançamento: %w", err)
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	if txn.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return TransactionResponse(txn), nil
}

// List devolve os lançamentos do tenant paginados.
func (uc *TransactionUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.TransactionResponse, error) {
	page.DefaultPage()
	txns, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar lançamentos: %w", err)
	}
	out := make([]*dto.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionResponse(t))
	}
	return out, nil
}

// TransactionResponse projeta o lançamento para a resposta HTTP.
func TransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:                 t.ID,
		CompanyID:          t.CompanyID,
		Type:               t.Type,
		CategoryID:         t.CategoryID,
		CustomerID:         t.CustomerID,
		SupplierID:         t.SupplierID,
		Description:        t.Description,
		GrossAmount:        t.GrossAmount,
		NetAmount:          t.NetAmount,
		ServiceCode:        t.ServiceCode,
		DueDate:            t.DueDate,
		InvoiceStatus:      string(t.InvoiceStatus),
		InvoiceNumber:      t.InvoiceNumber,
		InvoiceEnvironment: string(t.InvoiceEnvironment),
		InvoiceKey:         t.InvoiceKey,
		InvoicePDFURL:      t.InvoicePDFURL,
		InvoiceXMLURL:      t.InvoiceXMLURL,
		InvoiceRejection:   t.InvoiceRejection,
	}
}
