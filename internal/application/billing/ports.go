package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/fiscal"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

// Formatos de artefato disponíveis no gateway.
const (
	FormatPDF = "pdf"
	FormatXML = "xml"
)

// GatewayCredentials credenciais do tenant no intermediário fiscal.
type GatewayCredentials struct {
	Token                 string
	MunicipalRegistration string
	RPSSeries             string
}

// GatewayIssueRequest pedido de emissão de NFS-e.
// Ref (id do lançamento) funciona como chave de idempotência por ambiente no
// intermediário: reenvio do mesmo Ref não gera nota duplicada.
type GatewayIssueRequest struct {
	Ref           string
	Environment   invoice.Environment
	Credentials   GatewayCredentials
	CompanyCNPJ   string
	ServiceCode   string
	CNAE          string
	Description   string
	CustomerTaxID string
	CustomerName  string
	GrossAmount   decimal.Decimal
	ISSAmount     decimal.Decimal
	NetAmount     decimal.Decimal
	Withholdings  fiscal.WithholdingResult
	IssueDate     time.Time
}

// GatewayVerdict veredito do gateway sobre uma nota.
type GatewayVerdict string

const (
	VerdictAuthorized GatewayVerdict = "authorized" // nota emitida, tem número
	VerdictPending    GatewayVerdict = "pending"    // aguardando a prefeitura
	VerdictRejected   GatewayVerdict = "rejected"   // rejeitada com motivo
)

// GatewayResult resposta do gateway para emissão ou consulta de status.
type GatewayResult struct {
	Verdict          GatewayVerdict
	Number           string // número definitivo da NFS-e (somente em authorized)
	VerificationCode string
	PDFURL           string
	XMLURL           string
	RejectionReason  string // somente em rejected
}

// Gateway define o porto de saída para o intermediário fiscal (emissão,
// consulta, cancelamento e download de NFS-e). A implementação concreta usa
// HTTP; para testes injeta-se um stub.
type Gateway interface {
	Issue(ctx context.Context, req GatewayIssueRequest) (*GatewayResult, error)
	Status(ctx context.Context, ref string, env invoice.Environment, creds GatewayCredentials) (*GatewayResult, error)
	// Cancel exige a justificativa já validada pelo chamador (≥ 15 caracteres).
	Cancel(ctx context.Context, ref, justification string, env invoice.Environment, creds GatewayCredentials) error
	// Download devolve uma URL transitória (assinada) do artefato pedido.
	Download(ctx context.Context, ref, format string, env invoice.Environment, creds GatewayCredentials) (string, error)
}

// SingleIssuer interface do emissor unitário, consumida pelo lote.
// O emissor em lote dirige exatamente o mesmo caminho de emissão linha a linha.
type SingleIssuer interface {
	Issue(ctx context.Context, companyID, transactionID string, in IssueInput) (*IssueOutcome, error)
}

// IssueInput entrada do emissor unitário.
type IssueInput struct {
	ServiceCode string
	Description string // padrão: descrição do lançamento
}

// IssueOutcome resultado de uma emissão (ou tentativa).
type IssueOutcome struct {
	TransactionID string
	Status        invoice.Status
	Number        string
	Environment   invoice.Environment
	Key           string
	Rejection     string
}

// EspelhoPDFGenerator porto para a geração do espelho (representação gráfica)
// de uma NFS-e emitida.
type EspelhoPDFGenerator interface {
	GenerateEspelhoPDF(ctx context.Context, t *entity.Transaction, company *entity.Company, customer *entity.Customer) ([]byte, error)
}
