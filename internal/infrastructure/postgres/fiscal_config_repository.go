package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

var _ repository.FiscalConfigRepository = (*FiscalConfigRepo)(nil)

// FiscalConfigRepo implementação de FiscalConfigRepository sobre PostgreSQL.
// Uma linha por empresa (constraint única em company_id).
type FiscalConfigRepo struct {
	pool *pgxpool.Pool
}

// NewFiscalConfigRepository constrói o adaptador.
func NewFiscalConfigRepository(pool *pgxpool.Pool) *FiscalConfigRepo {
	return &FiscalConfigRepo{pool: pool}
}

// GetByCompany obtém a configuração fiscal do tenant. Devolve nil, nil quando
// o tenant ainda não configurou o módulo fiscal.
func (r *FiscalConfigRepo) GetByCompany(ctx context.Context, companyID string) (*entity.FiscalConfig, error) {
	query := `
		SELECT id, company_id, environment, gateway_token, municipal_registration, rps_series, created_at, updated_at
		FROM fiscal_configs WHERE company_id = $1`
	var cfg entity.FiscalConfig
	var environment string
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&cfg.ID, &cfg.CompanyID, &environment, &cfg.GatewayToken,
		&cfg.MunicipalRegistration, &cfg.RPSSeries, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal config: %w", err)
	}
	cfg.Environment = invoice.Environment(environment)
	return &cfg, nil
}

// Upsert cria ou atualiza a linha singleton da empresa.
func (r *FiscalConfigRepo) Upsert(ctx context.Context, cfg *entity.FiscalConfig) error {
	query := `
		INSERT INTO fiscal_configs (id, company_id, environment, gateway_token, municipal_registration, rps_series, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id) DO UPDATE SET
			environment = EXCLUDED.environment,
			gateway_token = EXCLUDED.gateway_token,
			municipal_registration = EXCLUDED.municipal_registration,
			rps_series = EXCLUDED.rps_series,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		cfg.ID, cfg.CompanyID, string(cfg.Environment), cfg.GatewayToken,
		cfg.MunicipalRegistration, cfg.RPSSeries, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert fiscal config: %w", err)
	}
	return nil
}
