package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status de linha do lote. A linha é efêmera: existe só durante a execução
// de um lote e nunca é persistida como entidade própria.
const (
	BatchRowPending    = "pending"
	BatchRowProcessing = "processing"
	BatchRowSuccess    = "success"
	BatchRowError      = "error"
)

// BatchRowInput uma linha da planilha de emissão em massa, já tipada pelo
// parser (este subsistema não lê o arquivo em si).
type BatchRowInput struct {
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	CustomerTaxID   string          `json:"customer_tax_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerAddress string          `json:"customer_address,omitempty"`
	ServiceCode     string          `json:"service_code"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
}

// BatchIssueRequest body para POST /api/invoices/batch.
type BatchIssueRequest struct {
	Rows []BatchRowInput `json:"rows"`
}

// BatchRowResult desfecho de uma linha: status terminal, mensagem de erro
// (quando houver) e número da nota emitida (quando sucesso).
type BatchRowResult struct {
	Index         int    `json:"index"` // posição da linha na planilha (0-based)
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}

// BatchIssueResponse agregado do lote: contagens + desfecho por linha.
type BatchIssueResponse struct {
	Total        int              `json:"total"`
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Rows         []BatchRowResult `json:"rows"`
}
