package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

func newCancel(f *fixture) *billing.CancelInvoiceUseCase {
	return billing.NewCancelInvoiceUseCase(f.txRepo, f.configRepo, f.gateway, testLogger())
}

func seedIssued(f *fixture, id string) {
	txn := f.seedTransaction(id, "1000.00", invoice.StatusIssued)
	txn.InvoiceNumber = "SBX-1"
	txn.InvoiceEnvironment = invoice.EnvSandbox
	f.txRepo.Update(context.Background(), txn)
}

func TestCancel_OK(t *testing.T) {
	f := newFixture()
	seedIssued(f, "tx-1")
	uc := newCancel(f)

	out, err := uc.Cancel(context.Background(), testCompanyID, "tx-1", "emitida com o tomador errado")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusCancelled, out.Status)
	// O número original permanece para auditoria.
	assert.Equal(t, "SBX-1", out.Number)
	assert.Equal(t, 1, f.gateway.cancelCalls)

	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Equal(t, invoice.StatusCancelled, persisted.InvoiceStatus)
	assert.Equal(t, "SBX-1", persisted.InvoiceNumber)
}

func TestCancel_ShortJustificationNeverReachesGateway(t *testing.T) {
	f := newFixture()
	seedIssued(f, "tx-1")
	uc := newCancel(f)

	// 14 caracteres: um a menos que o mínimo.
	_, err := uc.Cancel(context.Background(), testCompanyID, "tx-1", "12345678901234")
	require.ErrorIs(t, err, domain.ErrJustificationTooShort)
	assert.Zero(t, f.gateway.cancelCalls)

	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Equal(t, invoice.StatusIssued, persisted.InvoiceStatus)
}

func TestCancel_ExactMinimumJustification(t *testing.T) {
	f := newFixture()
	seedIssued(f, "tx-1")
	uc := newCancel(f)

	// Exatamente 15 caracteres.
	_, err := uc.Cancel(context.Background(), testCompanyID, "tx-1", "123456789012345")
	require.NoError(t, err)
}

func TestCancel_NotIssued(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "100.00", invoice.StatusPending)
	uc := newCancel(f)

	_, err := uc.Cancel(context.Background(), testCompanyID, "tx-1", "justificativa suficientemente longa")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, f.gateway.cancelCalls)
}

func TestCancel_GatewayFailureKeepsIssued(t *testing.T) {
	f := newFixture()
	seedIssued(f, "tx-1")
	f.gateway.cancelErr = errors.New("prefeitura indisponível")
	uc := newCancel(f)

	_, err := uc.Cancel(context.Background(), testCompanyID, "tx-1", "emitida com o tomador errado")
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)

	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Equal(t, invoice.StatusIssued, persisted.InvoiceStatus)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	txn := f.seedTransaction("tx-1", "100.00", invoice.StatusCancelled)
	txn.InvoiceNumber = "SBX-1"
	f.txRepo.Update(context.Background(), txn)
	uc := newCancel(f)

	// Cancelamento é definitivo: segunda tentativa é transição ilegal.
	_, err := uc.Cancel(context.Background(), testCompanyID, "tx-1", "justificativa suficientemente longa")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}
