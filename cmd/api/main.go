package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/fluxocaixa/fiscal-api/internal/application/auth"
	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/application/usecase"
	"github.com/fluxocaixa/fiscal-api/internal/infrastructure/nfse"
	infrapdf "github.com/fluxocaixa/fiscal-api/internal/infrastructure/pdf"
	"github.com/fluxocaixa/fiscal-api/internal/infrastructure/postgres"
	httpRouter "github.com/fluxocaixa/fiscal-api/internal/interfaces/http"
	"github.com/fluxocaixa/fiscal-api/pkg/config"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	configRepo := postgres.NewFiscalConfigRepository(pool)
	codeRepo := postgres.NewServiceCodeRepository(pool)

	gateway := nfse.NewClient(cfg.NFSE, log)

	issueUC := billing.NewIssueInvoiceUseCase(
		txRepo, customerRepo, companyRepo, configRepo, codeRepo, gateway, log,
	)
	reconcileUC := billing.NewReconcileUseCase(txRepo, configRepo, gateway, issueUC, log)
	cancelUC := billing.NewCancelInvoiceUseCase(txRepo, configRepo, gateway, log)
	artifactUC := billing.NewArtifactUseCase(txRepo, configRepo, gateway)
	batchUC := billing.NewBatchIssueUseCase(issueUC, customerRepo, categoryRepo, txRepo, log)
	fiscalCfgUC := billing.NewFiscalConfigUseCase(configRepo, log)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	transactionUC := billing.NewTransactionUseCase(txRepo)

	// PDF: espelho da NFS-e (representação gráfica, sem valor fiscal)
	espelhoUC := billing.NewEspelhoUseCase(
		txRepo, customerRepo, companyRepo, infrapdf.NewEspelhoGenerator(),
	)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	serviceCodeUC := usecase.NewServiceCodeUseCase(codeRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     companyUC,
		ServiceCodeUC: serviceCodeUC,
		CustomerUC:    customerUC,
		TransactionUC: transactionUC,
		IssueUC:       issueUC,
		ReconcileUC:   reconcileUC,
		CancelUC:      cancelUC,
		ArtifactUC:    artifactUC,
		EspelhoUC:     espelhoUC,
		BatchUC:       batchUC,
		FiscalCfgUC:   fiscalCfgUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação finalizada")
}
