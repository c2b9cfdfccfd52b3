package fiscal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/fiscal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Vetor de referência do fluxo completo: R$ 1.000,00 com ISS 5% ⇒
// imposto R$ 50,00 e líquido R$ 950,00.
func TestCalculate_VetorReferencia(t *testing.T) {
	r, err := fiscal.Calculate(dec("1000.00"), dec("5"))
	require.NoError(t, err)
	assert.True(t, r.TaxAmount.Equal(dec("50.00")), "ISS esperado 50.00, obtido %s", r.TaxAmount)
	assert.True(t, r.NetAmount.Equal(dec("950.00")), "líquido esperado 950.00, obtido %s", r.NetAmount)
}

func TestCalculate_TabelaDeCasos(t *testing.T) {
	cases := []struct {
		name             string
		gross, rate      string
		wantTax, wantNet string
	}{
		{"aliquota zero", "100.00", "0", "0.00", "100.00"},
		{"aliquota cheia", "100.00", "100", "100.00", "0.00"},
		{"bruto zero", "0", "5", "0.00", "0.00"},
		{"arredondamento meio para cima", "33.33", "2", "0.67", "32.66"},
		{"aliquota fracionaria", "1234.56", "2.5", "30.86", "1203.70"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := fiscal.Calculate(dec(tc.gross), dec(tc.rate))
			require.NoError(t, err)
			assert.True(t, r.TaxAmount.Equal(dec(tc.wantTax)), "imposto: esperado %s, obtido %s", tc.wantTax, r.TaxAmount)
			assert.True(t, r.NetAmount.Equal(dec(tc.wantNet)), "líquido: esperado %s, obtido %s", tc.wantNet, r.NetAmount)
		})
	}
}

// Propriedade: para qualquer bruto ≥ 0 e alíquota em [0,100],
// líquido + imposto == bruto (sem perda por arredondamento).
func TestCalculate_SomaFecha(t *testing.T) {
	grosses := []string{"0", "0.01", "1", "19.99", "100", "999.99", "1000000", "123456.78"}
	rates := []string{"0", "2", "2.5", "3.37", "5", "11.33", "50", "99.99", "100"}
	for _, g := range grosses {
		for _, a := range rates {
			r, err := fiscal.Calculate(dec(g), dec(a))
			require.NoError(t, err)
			soma := r.NetAmount.Add(r.TaxAmount)
			assert.True(t, soma.Equal(dec(g)),
				"bruto %s alíquota %s: líquido %s + imposto %s = %s", g, a, r.NetAmount, r.TaxAmount, soma)
		}
	}
}

func TestCalculate_EntradaForaDoContrato(t *testing.T) {
	_, err := fiscal.Calculate(dec("-1"), dec("5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fiscal.Calculate(dec("100"), dec("100.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fiscal.Calculate(dec("100"), dec("-0.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Retenções federais ────────────────────────────────────────────────────────

func TestWithholdings_SomaEIndependenciaDoLiquido(t *testing.T) {
	gross := dec("1000.00")
	w, err := fiscal.Withholdings(gross, fiscal.WithholdingRates{
		PIS:    dec("0.65"),
		COFINS: dec("3"),
		CSLL:   dec("1"),
		IRPJ:   dec("1.5"),
		INSS:   dec("0"),
	})
	require.NoError(t, err)

	assert.True(t, w.PIS.Equal(dec("6.50")))
	assert.True(t, w.COFINS.Equal(dec("30.00")))
	assert.True(t, w.CSLL.Equal(dec("10.00")))
	assert.True(t, w.IRPJ.Equal(dec("15.00")))
	assert.True(t, w.INSS.Equal(dec("0.00")))
	assert.True(t, w.Total.Equal(dec("61.50")), "total esperado 61.50, obtido %s", w.Total)

	// As retenções não alteram o líquido derivado do ISS.
	iss, err := fiscal.Calculate(gross, dec("5"))
	require.NoError(t, err)
	assert.True(t, iss.NetAmount.Equal(dec("950.00")))
}

func TestWithholdings_BrutoNegativo(t *testing.T) {
	_, err := fiscal.Withholdings(dec("-10"), fiscal.WithholdingRates{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
