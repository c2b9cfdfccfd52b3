package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
)

func newBatch(f *fixture) *billing.BatchIssueUseCase {
	return billing.NewBatchIssueUseCase(f.issuer, f.customerRepo, f.categoryRepo, f.txRepo, testLogger())
}

func row(desc, amount, taxID, name string) dto.BatchRowInput {
	return dto.BatchRowInput{
		Description:   desc,
		Amount:        decimal.RequireFromString(amount),
		CustomerTaxID: taxID,
		CustomerName:  name,
		ServiceCode:   "01.07",
	}
}

func TestBatch_RowIndependence(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)

	rows := []dto.BatchRowInput{
		row("Consultoria janeiro", "1000.00", "529.982.247-25", "João da Silva"),
		row("Consultoria fevereiro", "0", "529.982.247-25", "João da Silva"), // valor inválido
		row("Consultoria março", "2000.00", "11.444.777/0001-61", "Acme Consultoria"),
	}

	resp, err := batch.Run(context.Background(), testCompanyID, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.SuccessCount)
	assert.Equal(t, 1, resp.ErrorCount)

	assert.Equal(t, dto.BatchRowSuccess, resp.Rows[0].Status)
	assert.Equal(t, dto.BatchRowError, resp.Rows[1].Status)
	assert.Contains(t, resp.Rows[1].Message, "valor")
	assert.Equal(t, dto.BatchRowSuccess, resp.Rows[2].Status)

	// Linha inválida nunca chega ao gateway.
	assert.Len(t, f.gateway.issueCalls, 2)
}

func TestBatch_DuplicateTaxIDResolvesOneCustomer(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)

	rows := []dto.BatchRowInput{
		row("Serviço A", "100.00", "529.982.247-25", "João da Silva"),
		row("Serviço B", "200.00", "52998224725", "JOAO DA SILVA"), // mesmo CPF, sem máscara
	}

	resp, err := batch.Run(context.Background(), testCompanyID, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SuccessCount)

	// Um único cadastro criado; as duas linhas apontam para ele.
	assert.Equal(t, 1, f.customerRepo.creates)
	assert.Equal(t, resp.Rows[0].CustomerID, resp.Rows[1].CustomerID)
}

func TestBatch_ReusesExistingCustomer(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)

	// Tomador já cadastrado no fixture com o CNPJ 11444777000161.
	rows := []dto.BatchRowInput{
		row("Serviço", "100.00", "11.444.777/0001-61", "Acme Consultoria"),
	}
	resp, err := batch.Run(context.Background(), testCompanyID, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, testCustomerID, resp.Rows[0].CustomerID)
	assert.Zero(t, f.customerRepo.creates)
}

func TestBatch_EmptyIsNoOp(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)

	resp, err := batch.Run(context.Background(), testCompanyID, nil)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.Zero(t, resp.SuccessCount)
	assert.Zero(t, resp.ErrorCount)
	assert.Empty(t, f.gateway.issueCalls)
}

func TestBatch_GatewayFailureMidBatchContinues(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)

	// Linha 0 falha no gateway; linha 1 deve prosseguir normalmente.
	f.gateway.scriptIssue(nil, errors.New("timeout"))
	f.gateway.scriptIssue(&billing.GatewayResult{Verdict: billing.VerdictAuthorized, Number: "SBX-9"}, nil)

	rows := []dto.BatchRowInput{
		row("Serviço A", "100.00", "529.982.247-25", "João da Silva"),
		row("Serviço B", "200.00", "11.444.777/0001-61", "Acme Consultoria"),
	}
	resp, err := batch.Run(context.Background(), testCompanyID, rows)
	require.NoError(t, err)
	assert.Equal(t, dto.BatchRowError, resp.Rows[0].Status)
	assert.Equal(t, dto.BatchRowSuccess, resp.Rows[1].Status)
	assert.Equal(t, "SBX-9", resp.Rows[1].InvoiceNumber)

	// Efeito parcial da linha que falhou permanece persistido (lançamento
	// rascunho com nota presa em processing), nunca é desfeito.
	require.NotEmpty(t, resp.Rows[0].TransactionID)
	leftover, _ := f.txRepo.GetByID(context.Background(), resp.Rows[0].TransactionID)
	require.NotNil(t, leftover)
}

func TestBatch_RejectionMarksRowError(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)
	f.gateway.scriptIssue(&billing.GatewayResult{
		Verdict:         billing.VerdictRejected,
		RejectionReason: "E178: código de serviço não habilitado",
	}, nil)

	resp, err := batch.Run(context.Background(), testCompanyID, []dto.BatchRowInput{
		row("Serviço", "100.00", "529.982.247-25", "João da Silva"),
	})
	require.NoError(t, err)
	assert.Equal(t, dto.BatchRowError, resp.Rows[0].Status)
	assert.Contains(t, resp.Rows[0].Message, "E178")
}

func TestBatch_PendingVerdictMarksRowProcessing(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)
	f.gateway.scriptIssue(&billing.GatewayResult{Verdict: billing.VerdictPending}, nil)

	resp, err := batch.Run(context.Background(), testCompanyID, []dto.BatchRowInput{
		row("Serviço", "100.00", "529.982.247-25", "João da Silva"),
	})
	require.NoError(t, err)
	assert.Equal(t, dto.BatchRowProcessing, resp.Rows[0].Status)
	assert.Zero(t, resp.SuccessCount)
	assert.Zero(t, resp.ErrorCount)
}

func TestBatch_CreatesDefaultCategoryOnce(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)

	_, err := batch.Run(context.Background(), testCompanyID, []dto.BatchRowInput{
		row("Serviço A", "100.00", "529.982.247-25", "João da Silva"),
		row("Serviço B", "200.00", "11.444.777/0001-61", "Acme Consultoria"),
	})
	require.NoError(t, err)

	cat, err := f.categoryRepo.GetByCompanyAndName(testCompanyID, billing.DefaultBatchCategory)
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Len(t, f.categoryRepo.categories, 1)
}

func TestBatch_ValidationMessages(t *testing.T) {
	f := newFixture()
	batch := newBatch(f)

	rows := []dto.BatchRowInput{
		{Amount: decimal.NewFromInt(10), CustomerTaxID: "52998224725", CustomerName: "X", ServiceCode: "01.07"},
		{Description: "ok", Amount: decimal.NewFromInt(10), CustomerName: "X", ServiceCode: "01.07"},
		{Description: "ok", Amount: decimal.NewFromInt(10), CustomerTaxID: "52998224725", ServiceCode: "01.07"},
		{Description: "ok", Amount: decimal.NewFromInt(10), CustomerTaxID: "52998224725", CustomerName: "X"},
	}
	resp, err := batch.Run(context.Background(), testCompanyID, rows)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.ErrorCount)
	assert.Contains(t, resp.Rows[0].Message, "descrição")
	assert.Contains(t, resp.Rows[1].Message, "CPF/CNPJ")
	assert.Contains(t, resp.Rows[2].Message, "nome")
	assert.Contains(t, resp.Rows[3].Message, "código de serviço")
}
