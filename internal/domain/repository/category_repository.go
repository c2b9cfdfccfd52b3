package repository

import "github.com/fluxocaixa/fiscal-api/internal/domain/entity"

// CategoryRepository persistência do plano de contas simplificado.
type CategoryRepository interface {
	Create(category *entity.Category) error
	// GetByCompanyAndName resolve a categoria padrão do lote por nome.
	GetByCompanyAndName(companyID, name string) (*entity.Category, error)
	ListByCompany(companyID string) ([]*entity.Category, error)
}
