package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

func newFiscalConfig(f *fixture) *billing.FiscalConfigUseCase {
	return billing.NewFiscalConfigUseCase(f.configRepo, testLogger())
}

func TestSetEnvironment_ProductionRequiresConfirmation(t *testing.T) {
	f := newFixture()
	uc := newFiscalConfig(f)

	_, err := uc.SetEnvironment(context.Background(), testCompanyID, "PRODUCTION", false)
	require.ErrorIs(t, err, domain.ErrConfirmationRequired)

	// O ambiente corrente não foi alterado.
	cfg, _ := f.configRepo.GetByCompany(context.Background(), testCompanyID)
	assert.Equal(t, invoice.EnvSandbox, cfg.Environment)
}

func TestSetEnvironment_ProductionConfirmed(t *testing.T) {
	f := newFixture()
	uc := newFiscalConfig(f)

	resp, err := uc.SetEnvironment(context.Background(), testCompanyID, "PRODUCTION", true)
	require.NoError(t, err)
	assert.Equal(t, "PRODUCTION", resp.Environment)
}

func TestSetEnvironment_SandboxNeedsNoConfirmation(t *testing.T) {
	f := newFixture()
	uc := newFiscalConfig(f)

	resp, err := uc.SetEnvironment(context.Background(), testCompanyID, "sandbox", false)
	require.NoError(t, err)
	assert.Equal(t, "SANDBOX", resp.Environment)
}

func TestSetEnvironment_LazyConfigCreation(t *testing.T) {
	f := newFixture()
	delete(f.configRepo.configs, testCompanyID)
	uc := newFiscalConfig(f)

	resp, err := uc.SetEnvironment(context.Background(), testCompanyID, "SANDBOX", false)
	require.NoError(t, err)
	assert.False(t, resp.CredentialsComplete)

	cfg, _ := f.configRepo.GetByCompany(context.Background(), testCompanyID)
	require.NotNil(t, cfg)
	assert.Equal(t, entity.PlaceholderCredential, cfg.GatewayToken)
}

func TestSetEnvironment_Invalid(t *testing.T) {
	f := newFixture()
	uc := newFiscalConfig(f)

	_, err := uc.SetEnvironment(context.Background(), testCompanyID, "STAGING", true)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetEnvironment_DoesNotTouchIssuedInvoices(t *testing.T) {
	f := newFixture()
	seedIssued(f, "tx-1") // emitida em SANDBOX
	uc := newFiscalConfig(f)

	_, err := uc.SetEnvironment(context.Background(), testCompanyID, "PRODUCTION", true)
	require.NoError(t, err)

	// A nota emitida preserva o ambiente carimbado na emissão.
	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Equal(t, invoice.EnvSandbox, persisted.InvoiceEnvironment)
}

func TestUpdateCredentials(t *testing.T) {
	f := newFixture()
	uc := newFiscalConfig(f)

	resp, err := uc.UpdateCredentials(context.Background(), testCompanyID, "tok-real", "98765", "2")
	require.NoError(t, err)
	assert.True(t, resp.CredentialsComplete)
	assert.Equal(t, "98765", resp.MunicipalRegistration)
	assert.Equal(t, "2", resp.RPSSeries)
}

func TestUpdateCredentials_RequiresEnvironmentFirst(t *testing.T) {
	f := newFixture()
	delete(f.configRepo.configs, testCompanyID)
	uc := newFiscalConfig(f)

	_, err := uc.UpdateCredentials(context.Background(), testCompanyID, "tok", "123", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
