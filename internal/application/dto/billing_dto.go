package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CustomerResponse cliente em respostas.
type CustomerResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	Name       string `json:"name"`
	TaxID      string `json:"tax_id"`
	PersonType string `json:"person_type"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
}

// CreateTransactionRequest body para POST /api/transactions.
type CreateTransactionRequest struct {
	Type        string          `json:"type"` // receivable | payable
	CategoryID  string          `json:"category_id,omitempty"`
	CustomerID  string          `json:"customer_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	Description string          `json:"description"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	ServiceCode string          `json:"service_code,omitempty"`
	ISSRate     decimal.Decimal `json:"iss_rate,omitempty"` // sobrepõe a alíquota padrão do código
	PISRate     decimal.Decimal `json:"pis_rate,omitempty"`
	COFINSRate  decimal.Decimal `json:"cofins_rate,omitempty"`
	CSLLRate    decimal.Decimal `json:"csll_rate,omitempty"`
	IRPJRate    decimal.Decimal `json:"irpj_rate,omitempty"`
	INSSRate    decimal.Decimal `json:"inss_rate,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// TransactionResponse lançamento com os campos de nota fiscal.
type TransactionResponse struct {
	ID                 string          `json:"id"`
	CompanyID          string          `json:"company_id"`
	Type               string          `json:"type"`
	CategoryID         string          `json:"category_id,omitempty"`
	CustomerID         string          `json:"customer_id,omitempty"`
	SupplierID         string          `json:"supplier_id,omitempty"`
	Description        string          `json:"description"`
	GrossAmount        decimal.Decimal `json:"gross_amount"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	ServiceCode        string          `json:"service_code,omitempty"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	InvoiceStatus      string          `json:"invoice_status"`
	InvoiceNumber      string          `json:"invoice_number,omitempty"`
	InvoiceEnvironment string          `json:"invoice_environment,omitempty"`
	InvoiceKey         string          `json:"invoice_key,omitempty"`
	InvoicePDFURL      string          `json:"invoice_pdf_url,omitempty"`
	InvoiceXMLURL      string          `json:"invoice_xml_url,omitempty"`
	InvoiceRejection   string          `json:"invoice_rejection,omitempty"`
}

// IssueInvoiceRequest body para POST /api/transactions/:id/invoice.
type IssueInvoiceRequest struct {
	ServiceCode string `json:"service_code"`
	Description string `json:"description,omitempty"` // padrão: descrição do lançamento
}

// CancelInvoiceRequest body para POST /api/transactions/:id/invoice/cancel.
type CancelInvoiceRequest struct {
	Justification string `json:"justification"`
}

// InvoiceStatusResponse resposta leve para emissão/refresh de status.
// O frontend consulta o refresh até invoice_status ser "issued" ou "rejected".
type InvoiceStatusResponse struct {
	TransactionID      string `json:"transaction_id"`
	InvoiceStatus      string `json:"invoice_status"`
	InvoiceNumber      string `json:"invoice_number,omitempty"`
	InvoiceEnvironment string `json:"invoice_environment,omitempty"`
	InvoiceKey         string `json:"invoice_key,omitempty"`
	Rejection          string `json:"rejection,omitempty"`
}

// ArtifactResponse URL transitória (assinada pelo gateway) de PDF/XML.
// Não deve ser persistida pelo cliente.
type ArtifactResponse struct {
	TransactionID string `json:"transaction_id"`
	Format        string `json:"format"` // pdf | xml
	URL           string `json:"url"`
}

// SetEnvironmentRequest body para PUT /api/fiscal-config/environment.
// Confirmed deve ser true para PRODUCTION: a troca muda o efeito legal de
// todas as emissões seguintes.
type SetEnvironmentRequest struct {
	Environment string `json:"environment"` // SANDBOX | PRODUCTION
	Confirmed   bool   `json:"confirmed"`
}

// UpdateCredentialsRequest body para PUT /api/fiscal-config/credentials.
type UpdateCredentialsRequest struct {
	GatewayToken          string `json:"gateway_token"`
	MunicipalRegistration string `json:"municipal_registration"`
	RPSSeries             string `json:"rps_series,omitempty"`
}

// FiscalConfigResponse configuração fiscal do tenant (sem expor o token).
type FiscalConfigResponse struct {
	CompanyID             string `json:"company_id"`
	Environment           string `json:"environment"`
	MunicipalRegistration string `json:"municipal_registration"`
	RPSSeries             string `json:"rps_series"`
	CredentialsComplete   bool   `json:"credentials_complete"`
}

// ServiceCodeResponse item da tabela LC 116/2003.
type ServiceCodeResponse struct {
	Code        string          `json:"code"`
	CNAE        string          `json:"cnae"`
	Description string          `json:"description"`
	DefaultRate decimal.Decimal `json:"default_rate"`
}
