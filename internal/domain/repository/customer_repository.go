package repository

import "github.com/fluxocaixa/fiscal-api/internal/domain/entity"

// CustomerRepository persistência de clientes (tomadores).
// Métodos Get* devolvem nil, nil quando não encontrado.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetByCompanyAndTaxID é a consulta do upsert do lote: CPF/CNPJ já
	// normalizado (somente dígitos), escopo do tenant.
	GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
