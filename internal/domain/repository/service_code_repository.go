package repository

import (
	"context"

	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
)

// ServiceCodeRepository consulta somente-leitura da tabela LC 116/2003.
type ServiceCodeRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.ServiceCode, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ServiceCode, error)
}
