package nfse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/pkg/config"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.NFSEConfig{
		SandboxBaseURL:    srv.URL,
		ProductionBaseURL: srv.URL,
		TimeoutSeconds:    5,
	}, logger.New(logger.Config{Env: "production", Level: "error"}))
	return client, srv
}

func sampleIssueRequest() billing.GatewayIssueRequest {
	return billing.GatewayIssueRequest{
		Ref:         "tx-1",
		Environment: invoice.EnvSandbox,
		Credentials: billing.GatewayCredentials{
			Token:                 "tok",
			MunicipalRegistration: "12345",
			RPSSeries:             "1",
		},
		CompanyCNPJ:   "11444777000161",
		ServiceCode:   "01.07",
		Description:   "Consultoria em software",
		CustomerTaxID: "52998224725",
		CustomerName:  "João da Silva",
		GrossAmount:   decimal.RequireFromString("1000.00"),
		ISSAmount:     decimal.RequireFromString("50.00"),
		NetAmount:     decimal.RequireFromString("950.00"),
		IssueDate:     time.Now(),
	}
}

func TestClient_IssueAuthorized(t *testing.T) {
	var got issuePayload
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "tx-1", r.URL.Query().Get("ref"))
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "tok", user)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(statusPayload{
			Status:            "autorizado",
			Numero:            "202600000123",
			CodigoVerificacao: "ABCD-1234",
			URLDanfse:         "https://gw.example/danfse/123",
		})
	}))

	result, err := client.Issue(context.Background(), sampleIssueRequest())
	require.NoError(t, err)
	assert.Equal(t, billing.VerdictAuthorized, result.Verdict)
	assert.Equal(t, "202600000123", result.Number)
	assert.Equal(t, "ABCD-1234", result.VerificationCode)

	// Valores vão formatados com duas casas.
	assert.Equal(t, "1000.00", got.ValorServicos)
	assert.Equal(t, "50.00", got.ValorISS)
	assert.Equal(t, "950.00", got.ValorLiquido)
	assert.Equal(t, "12345", got.InscricaoMunicipal)
}

func TestClient_IssueRejectedFromABRASFXML(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(statusPayload{
			Status:     "erro_autorizacao",
			XMLRetorno: returnErrorXML,
		})
	}))

	result, err := client.Issue(context.Background(), sampleIssueRequest())
	require.NoError(t, err)
	assert.Equal(t, billing.VerdictRejected, result.Verdict)
	assert.Contains(t, result.RejectionReason, "E178")
	assert.Contains(t, result.RejectionReason, "E10")
}

func TestClient_StatusPending(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/nfse/tx-1", r.URL.Path)
		json.NewEncoder(w).Encode(statusPayload{Status: "processando_autorizacao"})
	}))

	result, err := client.Status(context.Background(), "tx-1", invoice.EnvSandbox, billing.GatewayCredentials{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, billing.VerdictPending, result.Verdict)
}

func TestClient_Cancel(t *testing.T) {
	var got cancelPayload
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	err := client.Cancel(context.Background(), "tx-1", "emitida com o tomador errado", invoice.EnvSandbox, billing.GatewayCredentials{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "emitida com o tomador errado", got.Justificativa)
}

func TestClient_DownloadRequiresTerminalStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(statusPayload{Status: "processando_autorizacao"})
	}))

	_, err := client.Download(context.Background(), "tx-1", billing.FormatPDF, invoice.EnvSandbox, billing.GatewayCredentials{Token: "tok"})
	require.Error(t, err)
}

func TestClient_ServerErrorBubblesUp(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))

	_, err := client.Issue(context.Background(), sampleIssueRequest())
	require.Error(t, err)
}
