package repository

import (
	"context"

	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

// TransactionRepository persistência de lançamentos financeiros.
// GetByID devolve nil, nil quando não encontrado.
type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Transaction, error)
	// ListByInvoiceStatus lista lançamentos da empresa com nota em um status
	// específico (usado pelo reconciliador para achar notas presas em processing).
	ListByInvoiceStatus(ctx context.Context, companyID string, status invoice.Status, limit int) ([]*entity.Transaction, error)
	Update(ctx context.Context, t *entity.Transaction) error
	// UpdateInvoiceIf aplica os campos de nota de t somente se o status de nota
	// persistido ainda for expected (UPDATE condicional, nunca sobrescrita cega).
	// Retorna false quando outro chamador venceu a corrida.
	UpdateInvoiceIf(ctx context.Context, t *entity.Transaction, expected invoice.Status) (bool, error)
}
