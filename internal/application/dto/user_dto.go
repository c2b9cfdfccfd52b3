package dto

import "time"

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	CompanyID string `json:"company_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuário em respostas (nunca inclui o hash).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token JWT + usuário autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CompanyResponse empresa em respostas.
type CompanyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Status  string `json:"status"`
}
