package entity

import "time"

// Company representa uma empresa/tenant do sistema (multi-tenant, foco Brasil).
type Company struct {
	ID        string
	Name      string
	CNPJ      string // CNPJ do prestador, somente dígitos
	Address   string
	City      string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
