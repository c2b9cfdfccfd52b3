package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

func TestArtifact_PDF(t *testing.T) {
	f := newFixture()
	seedIssued(f, "tx-1")
	f.gateway.downloadURL = "https://gw.example/signed/SBX-1.pdf"
	uc := billing.NewArtifactUseCase(f.txRepo, f.configRepo, f.gateway)

	resp, err := uc.Get(context.Background(), testCompanyID, "tx-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf", resp.Format)
	assert.Equal(t, "https://gw.example/signed/SBX-1.pdf", resp.URL)
}

func TestArtifact_InvalidFormat(t *testing.T) {
	f := newFixture()
	seedIssued(f, "tx-1")
	uc := billing.NewArtifactUseCase(f.txRepo, f.configRepo, f.gateway)

	_, err := uc.Get(context.Background(), testCompanyID, "tx-1", "docx")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestArtifact_OnlyForIssued(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "100.00", invoice.StatusProcessing)
	uc := billing.NewArtifactUseCase(f.txRepo, f.configRepo, f.gateway)

	_, err := uc.Get(context.Background(), testCompanyID, "tx-1", "xml")
	require.ErrorIs(t, err, domain.ErrConflict)
}
