package repository

import "github.com/fluxocaixa/fiscal-api/internal/domain/entity"

// CompanyRepository persistência de empresas (tenants).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}
