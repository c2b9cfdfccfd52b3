package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

func TestIssueInvoice_Authorized(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "1000.00", invoice.StatusPending)
	f.gateway.scriptIssue(&billing.GatewayResult{
		Verdict:          billing.VerdictAuthorized,
		Number:           "SBX-1",
		VerificationCode: "ABCD1234",
		PDFURL:           "https://gw.example/pdf/SBX-1",
		XMLURL:           "https://gw.example/xml/SBX-1",
	}, nil)

	out, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusIssued, out.Status)
	assert.Equal(t, "SBX-1", out.Number)
	assert.Equal(t, invoice.EnvSandbox, out.Environment)

	// Persistência: número, código de verificação e ambiente carimbado.
	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Equal(t, invoice.StatusIssued, persisted.InvoiceStatus)
	assert.Equal(t, "SBX-1", persisted.InvoiceNumber)
	assert.Equal(t, "ABCD1234", persisted.InvoiceKey)
	assert.Equal(t, invoice.EnvSandbox, persisted.InvoiceEnvironment)
	require.NotNil(t, persisted.InvoiceIssuedAt)

	// Valores enviados ao gateway: ISS 5% de 1000.00.
	require.Len(t, f.gateway.issueCalls, 1)
	call := f.gateway.issueCalls[0]
	assert.Equal(t, "tx-1", call.Ref)
	assert.Equal(t, "50", call.ISSAmount.String())
	assert.Equal(t, "950", call.NetAmount.String())
	assert.Equal(t, invoice.EnvSandbox, call.Environment)
}

func TestIssueInvoice_Rejected(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "500.00", invoice.StatusPending)
	f.gateway.scriptIssue(&billing.GatewayResult{
		Verdict:         billing.VerdictRejected,
		RejectionReason: "E178: inscrição municipal não habilitada para o código de serviço",
	}, nil)

	out, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusRejected, out.Status)
	assert.Contains(t, out.Rejection, "E178")

	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Equal(t, invoice.StatusRejected, persisted.InvoiceStatus)
	assert.Empty(t, persisted.InvoiceNumber)
}

func TestIssueInvoice_RejectedCanRetry(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "500.00", invoice.StatusRejected)
	f.gateway.scriptIssue(&billing.GatewayResult{Verdict: billing.VerdictAuthorized, Number: "SBX-2"}, nil)

	out, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusIssued, out.Status)

	// A reemissão limpa o motivo de rejeição anterior.
	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Empty(t, persisted.InvoiceRejection)
}

func TestIssueInvoice_GatewayDownLeavesProcessing(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "100.00", invoice.StatusPending)
	f.gateway.scriptIssue(nil, errors.New("timeout"))

	_, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)

	// Sem veredito a nota fica presa em processing, nunca volta sozinha.
	persisted, _ := f.txRepo.GetByID(context.Background(), "tx-1")
	assert.Equal(t, invoice.StatusProcessing, persisted.InvoiceStatus)
	assert.Equal(t, invoice.EnvSandbox, persisted.InvoiceEnvironment)
}

func TestIssueInvoice_PendingVerdictStaysProcessing(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "100.00", invoice.StatusPending)
	f.gateway.scriptIssue(&billing.GatewayResult{Verdict: billing.VerdictPending}, nil)

	out, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusProcessing, out.Status)
}

func TestIssueInvoice_AlreadyIssued(t *testing.T) {
	f := newFixture()
	txn := f.seedTransaction("tx-1", "100.00", invoice.StatusIssued)
	txn.InvoiceNumber = "123"
	f.txRepo.Update(context.Background(), txn)

	_, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.gateway.issueCalls)
}

func TestIssueInvoice_UnknownServiceCode(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "100.00", invoice.StatusPending)

	_, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{ServiceCode: "99.99"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.gateway.issueCalls)
}

func TestIssueInvoice_MissingFiscalConfig(t *testing.T) {
	f := newFixture()
	delete(f.configRepo.configs, testCompanyID)
	f.seedTransaction("tx-1", "100.00", invoice.StatusPending)

	_, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.gateway.issueCalls)
}

func TestIssueInvoice_WrongTenant(t *testing.T) {
	f := newFixture()
	f.seedTransaction("tx-1", "100.00", invoice.StatusPending)

	_, err := f.issuer.Issue(context.Background(), "outra-empresa", "tx-1", billing.IssueInput{})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestIssueInvoice_TransactionRateOverridesDefault(t *testing.T) {
	f := newFixture()
	txn := f.seedTransaction("tx-1", "1000.00", invoice.StatusPending)
	txn.ISSRate = decimal.NewFromInt(2)
	f.txRepo.Update(context.Background(), txn)
	f.gateway.scriptIssue(&billing.GatewayResult{Verdict: billing.VerdictAuthorized, Number: "SBX-3"}, nil)

	_, err := f.issuer.Issue(context.Background(), testCompanyID, "tx-1", billing.IssueInput{})
	require.NoError(t, err)
	require.Len(t, f.gateway.issueCalls, 1)
	assert.Equal(t, "20", f.gateway.issueCalls[0].ISSAmount.String())
}
