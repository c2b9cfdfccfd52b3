package repository

import "github.com/fluxocaixa/fiscal-api/internal/domain/entity"

// UserRepository persistência de usuários.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
}
