// Package pdf implementa a geração do espelho da NFS-e: a representação
// gráfica local de uma nota emitida. O espelho não tem valor fiscal; o
// documento oficial é o PDF hospedado pela prefeitura.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razão Social + CNPJ  │  N° NFS-e + Data de emissão │
//	│  ───────────────────────────────────────────────────────────│
//	│  PRESTADOR: Endereço / Tel / Email                          │
//	│  TOMADOR: Nome + CPF/CNPJ + contato                         │
//	│  ───────────────────────────────────────────────────────────│
//	│  SERVIÇO: código LC 116 + discriminação                     │
//	│  ───────────────────────────────────────────────────────────│
//	│  VALORES: Bruto / ISS / Líquido                             │
//	│  ───────────────────────────────────────────────────────────│
//	│  RODAPÉ: código de verificação + QR + aviso de homologação  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

var _ billing.EspelhoPDFGenerator = (*EspelhoGenerator)(nil)

// ── Paleta de cores ────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 180, Green: 70, Blue: 0}
)

// EspelhoGenerator implementa billing.EspelhoPDFGenerator usando Maroto v2.
type EspelhoGenerator struct{}

// NewEspelhoGenerator constrói o gerador.
func NewEspelhoGenerator() *EspelhoGenerator { return &EspelhoGenerator{} }

// GenerateEspelhoPDF gera o PDF do espelho e devolve os bytes.
func (g *EspelhoGenerator) GenerateEspelhoPDF(
	_ context.Context,
	txn *entity.Transaction,
	company *entity.Company,
	customer *entity.Customer,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Espelho de NFS-e", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(txn, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(prestadorRow(company))
	m.AddRows(tomadorRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(servicoRows(txn)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(valoresRow(txn))
	m.AddRows(row.New(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(rodapeRows(txn)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ─────────────────────────────────────────────────────────────────

// headerRow: razão social + CNPJ (esq) e número + data de emissão (dir).
func headerRow(txn *entity.Transaction, company *entity.Company) core.Row {
	data := "—"
	if txn.InvoiceIssuedAt != nil {
		data = txn.InvoiceIssuedAt.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+formatCNPJ(company.CNPJ), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NOTA FISCAL DE SERVIÇOS ELETRÔNICA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Nº "+txn.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emissão: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// prestadorRow: dados do prestador (empresa emissora).
func prestadorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PRESTADOR DE SERVIÇOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Endereço: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tomadorRow: dados do tomador.
func tomadorRow(customer *entity.Customer) core.Row {
	doc := customer.TaxID
	if customer.PersonType == entity.PersonOrganization {
		doc = formatCNPJ(doc)
	} else {
		doc = formatCPF(doc)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TOMADOR DE SERVIÇOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CPF/CNPJ: %s   |   Email: %s   |   Tel: %s",
				doc,
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// servicoRows: código do serviço e discriminação.
func servicoRows(txn *entity.Transaction) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DISCRIMINAÇÃO DOS SERVIÇOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New("Item da lista de serviços (LC 116/2003): "+txn.ServiceCode, props.Text{
				Size: 8, Top: 1, Color: colorGray,
			}),
		)),
		row.New(12).Add(col.New(12).Add(
			text.New(txn.Description, props.Text{Size: 9, Top: 2}),
		)),
	}
}

// valoresRow: bloco de valores alinhado à direita.
func valoresRow(txn *entity.Transaction) core.Row {
	iss := txn.GrossAmount.Sub(txn.NetAmount)

	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Valor dos serviços:", 1),
			label("ISS:", 8),
			text.New("VALOR LÍQUIDO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 17,
			}),
		),
		col.New(3).Add(
			value("R$ "+txn.GrossAmount.StringFixed(2), 1),
			value("R$ "+iss.StringFixed(2), 8),
			text.New("R$ "+txn.NetAmount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 17,
			}),
		),
		col.New(2),
	)
}

// rodapeRows: código de verificação + QR + aviso de homologação.
func rodapeRows(txn *entity.Transaction) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("AUTENTICIDADE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if txn.InvoiceKey != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Código de verificação: "+txn.InvoiceKey, props.Text{
				Size: 8, Top: 1, Left: 2, Color: colorGray,
			}),
		)))
		rows = append(rows, row.New(40).Add(
			col.New(4).Add(code.NewQr(txn.InvoiceKey, props.Rect{
				Percent: 90,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Consulte a autenticidade desta nota no portal da prefeitura com o código de verificação.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	}

	if txn.InvoiceEnvironment == invoice.EnvSandbox {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("EMITIDA EM AMBIENTE DE HOMOLOGAÇÃO — SEM VALOR FISCAL", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center,
				Color: colorWarn, Top: 2,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Este espelho é uma representação gráfica gerada pelo sistema. "+
				"O documento fiscal oficial é o emitido pela prefeitura.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatCNPJ aplica a máscara 00.000.000/0000-00 quando o valor tem 14 dígitos.
func formatCNPJ(s string) string {
	if len(s) != 14 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", s[0:2], s[2:5], s[5:8], s[8:12], s[12:14])
}

// formatCPF aplica a máscara 000.000.000-00 quando o valor tem 11 dígitos.
func formatCPF(s string) string {
	if len(s) != 11 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s-%s", s[0:3], s[3:6], s[6:9], s[9:11])
}
