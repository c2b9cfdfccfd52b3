package repository

import (
	"context"

	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
)

// FiscalConfigRepository persistência da configuração fiscal do tenant.
// Uma linha por empresa; GetByCompany devolve nil, nil quando o tenant ainda
// não configurou o módulo fiscal.
type FiscalConfigRepository interface {
	GetByCompany(ctx context.Context, companyID string) (*entity.FiscalConfig, error)
	// Upsert cria ou atualiza a linha singleton da empresa (ON CONFLICT por company_id).
	Upsert(ctx context.Context, cfg *entity.FiscalConfig) error
}
