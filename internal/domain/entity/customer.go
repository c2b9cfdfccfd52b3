package entity

import "time"

// Tipos de pessoa do tomador (inferidos pelo tamanho do documento:
// CPF com 11 dígitos ⇒ física, CNPJ com 14 ⇒ jurídica).
const (
	PersonIndividual   = "individual"   // pessoa física (CPF)
	PersonOrganization = "organization" // pessoa jurídica (CNPJ)
)

// Customer representa um cliente/tomador de serviço da empresa.
// TaxID é único por tenant, não globalmente.
type Customer struct {
	ID         string
	CompanyID  string
	Name       string
	TaxID      string // CPF ou CNPJ, somente dígitos
	PersonType string // individual | organization
	Email      string
	Phone      string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Supplier representa um fornecedor (contas a pagar).
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
