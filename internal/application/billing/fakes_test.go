package billing_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

// Fakes em memória para os repositórios e um stub programável do gateway.
// Sem framework de mocks: o comportamento fica explícito no próprio teste.

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ── transações ──────────────────────────────────────────────────────────────

type fakeTxRepo struct {
	txns map[string]*entity.Transaction
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txns: make(map[string]*entity.Transaction)}
}

func (r *fakeTxRepo) Create(_ context.Context, t *entity.Transaction) error {
	cp := *t
	r.txns[t.ID] = &cp
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTxRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range r.txns {
		if t.CompanyID == companyID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) ListByInvoiceStatus(_ context.Context, companyID string, status invoice.Status, limit int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range r.txns {
		if t.CompanyID == companyID && t.InvoiceStatus == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) Update(_ context.Context, t *entity.Transaction) error {
	cp := *t
	r.txns[t.ID] = &cp
	return nil
}

func (r *fakeTxRepo) UpdateInvoiceIf(_ context.Context, t *entity.Transaction, expected invoice.Status) (bool, error) {
	current, ok := r.txns[t.ID]
	if !ok {
		return false, errors.New("lançamento inexistente")
	}
	if current.InvoiceStatus != expected {
		return false, nil
	}
	cp := *t
	r.txns[t.ID] = &cp
	return true, nil
}

// ── clientes ───────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
	creates   int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	r.creates++
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.CompanyID == companyID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

// ── empresas, categorias, configuração fiscal, códigos de serviço ──────────

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]*entity.Company)}
}

func (r *fakeCompanyRepo) Create(c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories map[string]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*entity.Category)}
}

func (r *fakeCategoryRepo) Create(c *entity.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) GetByCompanyAndName(companyID, name string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.CompanyID == companyID && c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) ListByCompany(companyID string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeConfigRepo struct {
	configs map[string]*entity.FiscalConfig // por company_id
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[string]*entity.FiscalConfig)}
}

func (r *fakeConfigRepo) GetByCompany(_ context.Context, companyID string) (*entity.FiscalConfig, error) {
	cfg, ok := r.configs[companyID]
	if !ok {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (r *fakeConfigRepo) Upsert(_ context.Context, cfg *entity.FiscalConfig) error {
	cp := *cfg
	r.configs[cfg.CompanyID] = &cp
	return nil
}

type fakeCodeRepo struct {
	codes map[string]*entity.ServiceCode
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[string]*entity.ServiceCode)}
}

func (r *fakeCodeRepo) GetByCode(_ context.Context, code string) (*entity.ServiceCode, error) {
	c, ok := r.codes[code]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCodeRepo) List(_ context.Context, limit, offset int) ([]*entity.ServiceCode, error) {
	var out []*entity.ServiceCode
	for _, c := range r.codes {
		out = append(out, c)
	}
	return out, nil
}

// ── gateway ────────────────────────────────────────────────────────────────

// stubGateway devolve respostas programadas e registra as chamadas feitas.
type stubGateway struct {
	issueResults []issueScript
	issueCalls   []billing.GatewayIssueRequest

	statusResult *billing.GatewayResult
	statusErr    error

	cancelErr   error
	cancelCalls int

	downloadURL string
	downloadErr error
}

type issueScript struct {
	result *billing.GatewayResult
	err    error
}

func (g *stubGateway) scriptIssue(result *billing.GatewayResult, err error) {
	g.issueResults = append(g.issueResults, issueScript{result: result, err: err})
}

func (g *stubGateway) Issue(_ context.Context, req billing.GatewayIssueRequest) (*billing.GatewayResult, error) {
	g.issueCalls = append(g.issueCalls, req)
	if len(g.issueResults) == 0 {
		return &billing.GatewayResult{Verdict: billing.VerdictAuthorized, Number: "1"}, nil
	}
	s := g.issueResults[0]
	if len(g.issueResults) > 1 {
		g.issueResults = g.issueResults[1:]
	}
	return s.result, s.err
}

func (g *stubGateway) Status(_ context.Context, ref string, env invoice.Environment, creds billing.GatewayCredentials) (*billing.GatewayResult, error) {
	return g.statusResult, g.statusErr
}

func (g *stubGateway) Cancel(_ context.Context, ref, justification string, env invoice.Environment, creds billing.GatewayCredentials) error {
	g.cancelCalls++
	return g.cancelErr
}

func (g *stubGateway) Download(_ context.Context, ref, format string, env invoice.Environment, creds billing.GatewayCredentials) (string, error) {
	return g.downloadURL, g.downloadErr
}

// ── cenário padrão ─────────────────────────────────────────────────────────

type fixture struct {
	txRepo       *fakeTxRepo
	customerRepo *fakeCustomerRepo
	companyRepo  *fakeCompanyRepo
	categoryRepo *fakeCategoryRepo
	configRepo   *fakeConfigRepo
	codeRepo     *fakeCodeRepo
	gateway      *stubGateway
	issuer       *billing.IssueInvoiceUseCase
}

const (
	testCompanyID  = "co-1"
	testCustomerID = "cust-1"
)

// newFixture monta um tenant pronto para emitir: empresa, tomador, código de
// serviço 01.07 (alíquota 5%) e configuração fiscal SANDBOX com credenciais
// completas.
func newFixture() *fixture {
	f := &fixture{
		txRepo:       newFakeTxRepo(),
		customerRepo: newFakeCustomerRepo(),
		companyRepo:  newFakeCompanyRepo(),
		categoryRepo: newFakeCategoryRepo(),
		configRepo:   newFakeConfigRepo(),
		codeRepo:     newFakeCodeRepo(),
		gateway:      &stubGateway{},
	}
	f.companyRepo.Create(&entity.Company{
		ID:   testCompanyID,
		Name: "Fluxo Caixa Serviços LTDA",
		CNPJ: "11444777000161",
	})
	f.customerRepo.Create(&entity.Customer{
		ID:         testCustomerID,
		CompanyID:  testCompanyID,
		Name:       "Acme Consultoria",
		TaxID:      "11444777000161",
		PersonType: entity.PersonOrganization,
	})
	// O tomador semeado acima não conta como criação feita pelo caso de uso.
	f.customerRepo.creates = 0
	f.codeRepo.codes["01.07"] = &entity.ServiceCode{
		Code:        "01.07",
		CNAE:        "6209-1/00",
		Description: "Suporte técnico em informática",
		DefaultRate: decimal.NewFromInt(5),
	}
	f.configRepo.Upsert(context.Background(), &entity.FiscalConfig{
		ID:                    "cfg-1",
		CompanyID:             testCompanyID,
		Environment:           invoice.EnvSandbox,
		GatewayToken:          "tok-sandbox",
		MunicipalRegistration: "12345",
		RPSSeries:             "1",
	})
	f.issuer = billing.NewIssueInvoiceUseCase(
		f.txRepo, f.customerRepo, f.companyRepo, f.configRepo, f.codeRepo, f.gateway, testLogger(),
	)
	return f
}

// seedTransaction insere um lançamento a receber pronto para emissão.
func (f *fixture) seedTransaction(id string, gross string, status invoice.Status) *entity.Transaction {
	txn := &entity.Transaction{
		ID:            id,
		CompanyID:     testCompanyID,
		Type:          entity.TransactionReceivable,
		CustomerID:    testCustomerID,
		Description:   "Consultoria em software",
		GrossAmount:   decimal.RequireFromString(gross),
		NetAmount:     decimal.RequireFromString(gross),
		ServiceCode:   "01.07",
		InvoiceStatus: status,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.txRepo.Create(context.Background(), txn)
	return txn
}
