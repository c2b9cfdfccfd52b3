package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

// Tipos de lançamento financeiro.
const (
	TransactionReceivable = "receivable" // conta a receber
	TransactionPayable    = "payable"    // conta a pagar
)

// Transaction representa um lançamento financeiro do tenant. Os campos de
// nota fiscal (Invoice*) vivem no próprio lançamento: a NFS-e é uma entidade
// lógica, identificada pelo número uma vez emitida.
//
// Invariantes: status issued exige InvoiceNumber não vazio; cancelamento
// mantém o número original para auditoria; lançamento com nota vinculada
// nunca é excluído.
type Transaction struct {
	ID             string
	CompanyID      string
	Type           string // receivable | payable
	CategoryID     string
	CustomerID     string // tomador do serviço (vazio em payable)
	SupplierID     string // fornecedor (vazio em receivable)
	Description    string
	GrossAmount    decimal.Decimal
	NetAmount      decimal.Decimal // derivado do ISS na emissão
	ServiceCode    string          // código LC 116/2003
	ISSRate        decimal.Decimal // se > 0, sobrepõe a alíquota padrão do código de serviço
	PISRate        decimal.Decimal
	COFINSRate     decimal.Decimal
	CSLLRate       decimal.Decimal
	IRPJRate       decimal.Decimal
	INSSRate       decimal.Decimal
	DueDate        *time.Time

	InvoiceStatus      invoice.Status
	InvoiceNumber      string              // número definitivo devolvido pela prefeitura
	InvoiceEnvironment invoice.Environment // carimbado no início da emissão, nunca reescrito
	InvoiceKey         string              // código de verificação da NFS-e
	InvoicePDFURL      string
	InvoiceXMLURL      string
	InvoiceRejection   string // motivo de rejeição devolvido pelo gateway
	InvoiceIssuedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category agrupa lançamentos no plano de contas simplificado.
type Category struct {
	ID        string
	CompanyID string
	Name      string
	Type      string // receivable | payable
	CreatedAt time.Time
	UpdatedAt time.Time
}
