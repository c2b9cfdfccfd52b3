package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

var _ repository.ServiceCodeRepository = (*ServiceCodeRepo)(nil)

// ServiceCodeRepo consulta somente-leitura da tabela LC 116/2003, populada
// pelo comando de seed.
type ServiceCodeRepo struct {
	pool *pgxpool.Pool
}

// NewServiceCodeRepository constrói o adaptador.
func NewServiceCodeRepository(pool *pgxpool.Pool) *ServiceCodeRepo {
	return &ServiceCodeRepo{pool: pool}
}

// GetByCode obtém um código de serviço. Devolve nil, nil quando não existe.
func (r *ServiceCodeRepo) GetByCode(ctx context.Context, code string) (*entity.ServiceCode, error) {
	query := `
		SELECT code, cnae, description, default_rate
		FROM service_codes WHERE code = $1`
	var sc entity.ServiceCode
	err := r.pool.QueryRow(ctx, query, code).Scan(&sc.Code, &sc.CNAE, &sc.Description, &sc.DefaultRate)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service code: %w", err)
	}
	return &sc, nil
}

// List devolve códigos de serviço ordenados, com paginação.
func (r *ServiceCodeRepo) List(ctx context.Context, limit, offset int) ([]*entity.ServiceCode, error) {
	query := `
		SELECT code, cnae, description, default_rate
		FROM service_codes ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list service codes: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceCode
	for rows.Next() {
		var sc entity.ServiceCode
		if err := rows.Scan(&sc.Code, &sc.CNAE, &sc.Description, &sc.DefaultRate); err != nil {
			return nil, fmt.Errorf("scan service code: %w", err)
		}
		list = append(list, &sc)
	}
	return list, rows.Err()
}
