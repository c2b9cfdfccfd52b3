package postgres

import (
	"context"
	"fmt"

	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `
	id, company_id, type, category_id, customer_id, supplier_id, description,
	gross_amount, net_amount, service_code, iss_rate, pis_rate, cofins_rate,
	csll_rate, irpj_rate, inss_rate, due_date,
	invoice_status, invoice_number, invoice_environment, invoice_key,
	invoice_pdf_url, invoice_xml_url, invoice_rejection, invoice_issued_at,
	created_at, updated_at`

// TransactionRepo implementação de TransactionRepository sobre PostgreSQL
// (usável com pool ou tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste um novo lançamento.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7,
			$8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.Type, t.CategoryID, t.CustomerID, t.SupplierID, t.Description,
		t.GrossAmount, t.NetAmount, t.ServiceCode, t.ISSRate, t.PISRate, t.COFINSRate,
		t.CSLLRate, t.IRPJRate, t.INSSRate, t.DueDate,
		string(t.InvoiceStatus), t.InvoiceNumber, string(t.InvoiceEnvironment), t.InvoiceKey,
		t.InvoicePDFURL, t.InvoiceXMLURL, t.InvoiceRejection, t.InvoiceIssuedAt,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtém um lançamento por ID. Devolve nil, nil quando não existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListByCompany lista lançamentos da empresa, mais recentes primeiro.
func (r *TransactionRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByInvoiceStatus lista lançamentos com nota em um status específico.
// Usado pelo reconciliador para encontrar notas presas em processing.
func (r *TransactionRepo) ListByInvoiceStatus(ctx context.Context, companyID string, status invoice.Status, limit int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions WHERE company_id = $1 AND invoice_status = $2
		ORDER BY updated_at ASC LIMIT $3`
	rows, err := r.q.Query(ctx, query, companyID, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions by invoice status: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update atualiza os campos editáveis do lançamento (não os de nota fiscal;
// para esses ver UpdateInvoiceIf).
func (r *TransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	query := `
		UPDATE transactions SET
			category_id = NULLIF($2, ''), description = $3, gross_amount = $4,
			net_amount = $5, service_code = $6, iss_rate = $7, due_date = $8,
			invoice_status = $9, invoice_number = $10, invoice_environment = $11,
			invoice_key = $12, invoice_pdf_url = $13, invoice_xml_url = $14,
			invoice_rejection = $15, invoice_issued_at = $16, updated_at = $17
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CategoryID, t.Description, t.GrossAmount,
		t.NetAmount, t.ServiceCode, t.ISSRate, t.DueDate,
		string(t.InvoiceStatus), t.InvoiceNumber, string(t.InvoiceEnvironment),
		t.InvoiceKey, t.InvoicePDFURL, t.InvoiceXMLURL,
		t.InvoiceRejection, t.InvoiceIssuedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// UpdateInvoiceIf aplica os campos de nota de t somente se o status
// persistido ainda for expected (compare-and-set no WHERE). Devolve false
// quando outro chamador venceu a corrida; o chamador decide o que fazer.
func (r *TransactionRepo) UpdateInvoiceIf(ctx context.Context, t *entity.Transaction, expected invoice.Status) (bool, error) {
	query := `
		UPDATE transactions SET
			invoice_status = $3, invoice_number = $4, invoice_environment = $5,
			invoice_key = $6, invoice_pdf_url = $7, invoice_xml_url = $8,
			invoice_rejection = $9, invoice_issued_at = $10,
			net_amount = $11, service_code = $12, updated_at = $13
		WHERE id = $1 AND invoice_status = $2`
	cmd, err := r.q.Exec(ctx, query,
		t.ID, string(expected),
		string(t.InvoiceStatus), t.InvoiceNumber, string(t.InvoiceEnvironment),
		t.InvoiceKey, t.InvoicePDFURL, t.InvoiceXMLURL,
		t.InvoiceRejection, t.InvoiceIssuedAt,
		t.NetAmount, t.ServiceCode, t.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("conditional update invoice: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TransactionRepo) scanOne(row rowScanner) (*entity.Transaction, error) {
	var t entity.Transaction
	var categoryID, customerID, supplierID *string
	var status, environment string
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Type, &categoryID, &customerID, &supplierID, &t.Description,
		&t.GrossAmount, &t.NetAmount, &t.ServiceCode, &t.ISSRate, &t.PISRate, &t.COFINSRate,
		&t.CSLLRate, &t.IRPJRate, &t.INSSRate, &t.DueDate,
		&status, &t.InvoiceNumber, &environment, &t.InvoiceKey,
		&t.InvoicePDFURL, &t.InvoiceXMLURL, &t.InvoiceRejection, &t.InvoiceIssuedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		t.CategoryID = *categoryID
	}
	if customerID != nil {
		t.CustomerID = *customerID
	}
	if supplierID != nil {
		t.SupplierID = *supplierID
	}
	t.InvoiceStatus = invoice.Status(status)
	t.InvoiceEnvironment = invoice.Environment(environment)
	return &t, nil
}

func (r *TransactionRepo) scanAll(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	for rows.Next() {
		t, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
