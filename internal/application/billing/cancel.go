package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

// CancelInvoiceUseCase cancela uma NFS-e emitida. A justificativa (mínimo de
// 15 caracteres, exigência da prefeitura) é validada ANTES de qualquer
// chamada externa; falha do gateway deixa a nota intocada em issued — o
// cancelamento local sem o cancelamento na prefeitura criaria divergência
// fiscal.
type CancelInvoiceUseCase struct {
	txRepo     repository.TransactionRepository
	configRepo repository.FiscalConfigRepository
	gateway    Gateway
	log        *logger.Logger
}

// NewCancelInvoiceUseCase constrói o caso de uso.
func NewCancelInvoiceUseCase(
	txRepo repository.TransactionRepository,
	configRepo repository.FiscalConfigRepository,
	gateway Gateway,
	log *logger.Logger,
) *CancelInvoiceUseCase {
	return &CancelInvoiceUseCase{
		txRepo:     txRepo,
		configRepo: configRepo,
		gateway:    gateway,
		log:        log,
	}
}

// Cancel executa o cancelamento. A nota mantém o número original após
// cancelada (auditoria); o cancelamento é definitivo, não há reativação.
func (uc *CancelInvoiceUseCase) Cancel(ctx context.Context, companyID, transactionID, justification string) (*IssueOutcome, error) {
	txn, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("cancelar: obter lançamento: %w", err)
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	if txn.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// Guarda do domínio: justificativa primeiro, depois o status.
	if err := invoice.Cancel(txn.InvoiceStatus, justification); err != nil {
		return nil, err
	}

	cfg, err := uc.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("cancelar: obter configuração fiscal: %w", err)
	}
	if cfg == nil || !cfg.CredentialsComplete() {
		return nil, fmt.Errorf("%w: credenciais do gateway incompletas", domain.ErrInvalidInput)
	}

	// O cancelamento vai para o ambiente onde a nota FOI emitida, não para o
	// ambiente corrente do tenant.
	if err := uc.gateway.Cancel(ctx, txn.ID, justification, txn.InvoiceEnvironment, credentials(cfg)); err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", txn.ID).Msg("gateway recusou ou falhou o cancelamento; nota permanece emitida")
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	txn.InvoiceStatus = invoice.StatusCancelled
	txn.UpdatedAt = time.Now()
	applied, err := uc.txRepo.UpdateInvoiceIf(ctx, txn, invoice.StatusIssued)
	if err != nil {
		return nil, fmt.Errorf("cancelar: persistir cancelled: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: estado da nota mudou durante o cancelamento", domain.ErrConflict)
	}
	uc.log.Info().Str("transaction_id", txn.ID).Str("invoice_number", txn.InvoiceNumber).Msg("NFS-e cancelada")

	return outcomeOf(txn), nil
}
