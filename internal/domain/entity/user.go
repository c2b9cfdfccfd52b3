package entity

import "time"

// Papéis de usuário dentro do tenant.
const (
	RoleAdmin     = "admin"     // pode trocar ambiente fiscal e cancelar notas
	RoleFinancial = "financial" // opera lançamentos e emissões
)

// User representa um usuário da aplicação, vinculado a uma empresa.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string // ver constantes Role*
	Status       string // active, blocked
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
