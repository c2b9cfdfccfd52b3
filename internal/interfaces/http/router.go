package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxocaixa/fiscal-api/internal/application/auth"
	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/application/usecase"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	ServiceCodeUC *usecase.ServiceCodeUseCase
	CustomerUC    *billing.CustomerUseCase
	TransactionUC *billing.TransactionUseCase
	IssueUC       *billing.IssueInvoiceUseCase
	ReconcileUC   *billing.ReconcileUseCase
	CancelUC      *billing.CancelInvoiceUseCase
	ArtifactUC    *billing.ArtifactUseCase
	EspelhoUC     *billing.EspelhoUseCase
	BatchUC       *billing.BatchIssueUseCase
	FiscalCfgUC   *billing.FiscalConfigUseCase
	JWTSecret     string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público para onboarding; o restante exige Bearer Token)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Tabela LC 116/2003 (protegido, somente leitura)
	codes := protected.Group("/service-codes")
	serviceCodeHandler := NewServiceCodeHandler(deps.ServiceCodeUC)
	codes.Get("/", serviceCodeHandler.List)
	codes.Get("/:code", serviceCodeHandler.GetByCode)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Transactions + ciclo de vida da NFS-e (protegido)
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.TransactionUC)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)

	invoiceHandler := NewInvoiceHandler(deps.IssueUC, deps.ReconcileUC, deps.CancelUC, deps.ArtifactUC, deps.EspelhoUC)
	transactions.Post("/:id/invoice", invoiceHandler.Issue)
	transactions.Post("/:id/invoice/refresh", invoiceHandler.Refresh)
	transactions.Post("/:id/invoice/cancel", RequireRole(entity.RoleAdmin), invoiceHandler.Cancel)
	transactions.Get("/:id/invoice/artifact", invoiceHandler.Artifact)
	transactions.Get("/:id/invoice/espelho", invoiceHandler.Espelho)

	// Emissão em lote (protegido)
	batchHandler := NewBatchHandler(deps.BatchUC)
	protected.Post("/invoices/batch", batchHandler.Run)

	// Configuração fiscal (protegido; escrita restrita a admin)
	fiscalCfg := protected.Group("/fiscal-config")
	fiscalCfgHandler := NewFiscalConfigHandler(deps.FiscalCfgUC)
	fiscalCfg.Get("/", fiscalCfgHandler.Get)
	fiscalCfg.Put("/environment", RequireRole(entity.RoleAdmin), fiscalCfgHandler.SetEnvironment)
	fiscalCfg.Put("/credentials", RequireRole(entity.RoleAdmin), fiscalCfgHandler.UpdateCredentials)
}
