package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

// FiscalConfigUseCase administra o ambiente e as credenciais fiscais do
// tenant. A troca de ambiente governa somente as emissões FUTURAS: notas já
// emitidas carregam o ambiente carimbado na emissão e nunca são promovidas ou
// rebaixadas retroativamente.
type FiscalConfigUseCase struct {
	configRepo repository.FiscalConfigRepository
	log        *logger.Logger
}

// NewFiscalConfigUseCase constrói o caso de uso.
func NewFiscalConfigUseCase(configRepo repository.FiscalConfigRepository, log *logger.Logger) *FiscalConfigUseCase {
	return &FiscalConfigUseCase{configRepo: configRepo, log: log}
}

// SetEnvironment troca o ambiente corrente do tenant. PRODUCTION exige
// confirmação explícita (confirmed=true): a partir da troca toda emissão
// gera documento fiscal com efeito legal. A linha de configuração é criada
// preguiçosamente na primeira troca, com credenciais placeholder.
func (uc *FiscalConfigUseCase) SetEnvironment(ctx context.Context, companyID, environment string, confirmed bool) (*dto.FiscalConfigResponse, error) {
	env, err := invoice.ParseEnvironment(environment)
	if err != nil {
		return nil, err
	}
	if env == invoice.EnvProduction && !confirmed {
		return nil, domain.ErrConfirmationRequired
	}

	cfg, err := uc.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("ambiente: obter configuração fiscal: %w", err)
	}
	now := time.Now()
	if cfg == nil {
		cfg = &entity.FiscalConfig{
			ID:                    uuid.New().String(),
			CompanyID:             companyID,
			GatewayToken:          entity.PlaceholderCredential,
			MunicipalRegistration: entity.PlaceholderCredential,
			RPSSeries:             "1",
			CreatedAt:             now,
		}
	}
	cfg.Environment = env
	cfg.UpdatedAt = now
	if err := uc.configRepo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("ambiente: persistir configuração fiscal: %w", err)
	}
	uc.log.Info().Str("company_id", companyID).Str("environment", string(env)).Msg("ambiente fiscal alterado")

	return configResponse(cfg), nil
}

// UpdateCredentials substitui as credenciais placeholder pelas credenciais
// reais do intermediário fiscal.
func (uc *FiscalConfigUseCase) UpdateCredentials(ctx context.Context, companyID, token, municipalRegistration, rpsSeries string) (*dto.FiscalConfigResponse, error) {
	if token == "" || municipalRegistration == "" {
		return nil, fmt.Errorf("%w: token e inscrição municipal obrigatórios", domain.ErrInvalidInput)
	}
	cfg, err := uc.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("credenciais: obter configuração fiscal: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: empresa sem configuração fiscal (defina o ambiente primeiro)", domain.ErrInvalidInput)
	}
	cfg.GatewayToken = token
	cfg.MunicipalRegistration = municipalRegistration
	if rpsSeries != "" {
		cfg.RPSSeries = rpsSeries
	}
	cfg.UpdatedAt = time.Now()
	if err := uc.configRepo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("credenciais: persistir configuração fiscal: %w", err)
	}
	return configResponse(cfg), nil
}

// Get devolve a configuração fiscal corrente (sem expor o token).
func (uc *FiscalConfigUseCase) Get(ctx context.Context, companyID string) (*dto.FiscalConfigResponse, error) {
	cfg, err := uc.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("configuração fiscal: %w", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return configResponse(cfg), nil
}

func configResponse(cfg *entity.FiscalConfig) *dto.FiscalConfigResponse {
	return &dto.FiscalConfigResponse{
		CompanyID:             cfg.CompanyID,
		Environment:           string(cfg.Environment),
		MunicipalRegistration: cfg.MunicipalRegistration,
		RPSSeries:             cfg.RPSSeries,
		CredentialsComplete:   cfg.CredentialsComplete(),
	}
}
