// Package fiscal implementa o cálculo de impostos sobre serviços: ISS (que
// deriva o valor líquido da nota) e as retenções federais (PIS, COFINS, CSLL,
// IRPJ, INSS), somadas à parte apenas para exibição.
//
// Funções puras, sem efeitos colaterais. Entrada numérica malformada (NaN)
// deve ser barrada pelo chamador antes de chegar aqui.
package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
)

var cem = decimal.NewFromInt(100)

// TaxResult resultado do cálculo do ISS sobre o valor bruto.
// Invariante: NetAmount + TaxAmount == bruto (o imposto é arredondado a 2
// casas e o líquido é a diferença exata).
type TaxResult struct {
	TaxAmount decimal.Decimal // ISS devido
	NetAmount decimal.Decimal // valor líquido usado nos totais da nota
}

// WithholdingRates alíquotas percentuais (0–100) das retenções federais.
type WithholdingRates struct {
	PIS    decimal.Decimal
	COFINS decimal.Decimal
	CSLL   decimal.Decimal
	IRPJ   decimal.Decimal
	INSS   decimal.Decimal
}

// WithholdingResult valores retidos por tributo, mais o total.
// As retenções não alteram o líquido derivado do ISS.
type WithholdingResult struct {
	PIS    decimal.Decimal
	COFINS decimal.Decimal
	CSLL   decimal.Decimal
	IRPJ   decimal.Decimal
	INSS   decimal.Decimal
	Total  decimal.Decimal
}

// Calculate aplica a alíquota de ISS (percentual, 0–100) sobre o valor bruto.
// Retorna erro para bruto negativo ou alíquota fora de [0, 100]; a função não
// tolera entrada fora do contrato porque o resultado vira documento fiscal.
func Calculate(gross, rate decimal.Decimal) (TaxResult, error) {
	if gross.IsNegative() {
		return TaxResult{}, fmt.Errorf("%w: valor bruto negativo", domain.ErrInvalidInput)
	}
	if rate.IsNegative() || rate.GreaterThan(cem) {
		return TaxResult{}, fmt.Errorf("%w: alíquota %s fora do intervalo 0–100", domain.ErrInvalidInput, rate)
	}
	tax := gross.Mul(rate).Div(cem).Round(2)
	return TaxResult{
		TaxAmount: tax,
		NetAmount: gross.Sub(tax),
	}, nil
}

// Withholdings calcula cada retenção federal da mesma forma que o ISS
// (bruto × alíquota / 100, arredondado a 2 casas) e soma o total.
func Withholdings(gross decimal.Decimal, rates WithholdingRates) (WithholdingResult, error) {
	if gross.IsNegative() {
		return WithholdingResult{}, fmt.Errorf("%w: valor bruto negativo", domain.ErrInvalidInput)
	}
	one := func(rate decimal.Decimal) decimal.Decimal {
		return gross.Mul(rate).Div(cem).Round(2)
	}
	r := WithholdingResult{
		PIS:    one(rates.PIS),
		COFINS: one(rates.COFINS),
		CSLL:   one(rates.CSLL),
		IRPJ:   one(rates.IRPJ),
		INSS:   one(rates.INSS),
	}
	r.Total = r.PIS.Add(r.COFINS).Add(r.CSLL).Add(r.IRPJ).Add(r.INSS)
	return r, nil
}
