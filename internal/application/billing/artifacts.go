package billing

import (
	"context"
	"fmt"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

// ArtifactUseCase obtém do gateway a URL transitória (assinada) do PDF ou do
// XML de uma nota emitida. Sem estado: a URL expira e nunca é persistida.
type ArtifactUseCase struct {
	txRepo     repository.TransactionRepository
	configRepo repository.FiscalConfigRepository
	gateway    Gateway
}

// NewArtifactUseCase constrói o caso de uso.
func NewArtifactUseCase(
	txRepo repository.TransactionRepository,
	configRepo repository.FiscalConfigRepository,
	gateway Gateway,
) *ArtifactUseCase {
	return &ArtifactUseCase{txRepo: txRepo, configRepo: configRepo, gateway: gateway}
}

// Get devolve a URL do artefato pedido. Somente notas em issued têm
// artefatos; format aceita pdf ou xml.
func (uc *ArtifactUseCase) Get(ctx context.Context, companyID, transactionID, format string) (*dto.ArtifactResponse, error) {
	if format != FormatPDF && format != FormatXML {
		return nil, fmt.Errorf("%w: formato %q (usar pdf ou xml)", domain.ErrInvalidInput, format)
	}

	txn, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("artefato: obter lançamento: %w", err)
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	if txn.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if txn.InvoiceStatus != invoice.StatusIssued {
		return nil, fmt.Errorf("%w: artefatos existem somente para notas emitidas", domain.ErrConflict)
	}

	cfg, err := uc.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("artefato: obter configuração fiscal: %w", err)
	}
	if cfg == nil || !cfg.CredentialsComplete() {
		return nil, fmt.Errorf("%w: credenciais do gateway incompletas", domain.ErrInvalidInput)
	}

	url, err := uc.gateway.Download(ctx, txn.ID, format, txn.InvoiceEnvironment, credentials(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	return &dto.ArtifactResponse{TransactionID: txn.ID, Format: format, URL: url}, nil
}
