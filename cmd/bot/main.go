package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/application/auth"
	"github.com/adamugarba/thanledger/internal/application/inventory"
	"github.com/adamugarba/thanledger/internal/application/ledger"
	"github.com/adamugarba/thanledger/internal/application/stock"
	"github.com/adamugarba/thanledger/internal/application/workflow"
	"github.com/adamugarba/thanledger/internal/domain/repository"
	"github.com/adamugarba/thanledger/internal/domain/risk"
	"github.com/adamugarba/thanledger/internal/infrastructure/chat"
	"github.com/adamugarba/thanledger/internal/infrastructure/intent"
	"github.com/adamugarba/thanledger/internal/infrastructure/memory"
	"github.com/adamugarba/thanledger/internal/infrastructure/postgres"
	httpRouter "github.com/adamugarba/thanledger/internal/interfaces/http"
	"github.com/adamugarba/thanledger/pkg/config"
	"github.com/adamugarba/thanledger/pkg/logger"
)

// repos groups one backend's repository set.
type repos struct {
	thans     repository.ThanRepository
	approvals repository.ApprovalRepository
	entries   repository.LedgerRepository
	movements repository.StockMovementRepository
	customers repository.CustomerRepository
	users     repository.UserRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()

	// DATABASE_URL selects PostgreSQL; otherwise the in-memory backend
	// keeps development and demos self-contained.
	var r repos
	if cfg.DB.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("PostgreSQL connection")
		}
		defer pool.Close()
		r = repos{
			thans:     postgres.NewThanRepository(pool),
			approvals: postgres.NewApprovalRepository(pool),
			entries:   postgres.NewLedgerRepository(pool),
			movements: postgres.NewStockMovementRepository(pool),
			customers: postgres.NewCustomerRepository(pool),
			users:     postgres.NewUserRepository(pool),
		}
		log.Info().Msg("using PostgreSQL backend")
	} else {
		r = repos{
			thans:     memory.NewThanRepository(),
			approvals: memory.NewApprovalRepository(),
			entries:   memory.NewLedgerRepository(),
			movements: memory.NewStockMovementRepository(),
			customers: memory.NewCustomerRepository(),
			users:     memory.NewUserRepository(),
		}
		log.Warn().Msg("no database configured, using in-memory backend")
	}

	store := inventory.NewStore(r.thans, cfg.Chat.MutationRetries)
	posting := ledger.NewPostingService(r.entries)
	stockLog := stock.NewLog(r.movements, log)

	saleLimit, err := decimal.NewFromString(cfg.Risk.SaleLimit)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Risk.SaleLimit).Msg("RISK_SALE_LIMIT must be a decimal")
	}
	riskCfg := risk.Config{
		Policy:    risk.Policy(cfg.Risk.Policy),
		SaleLimit: saleLimit,
	}

	var notifier workflow.Notifier
	if cfg.Chat.WebhookURL != "" {
		notifier = chat.NewWebhookNotifier(cfg.Chat.WebhookURL, time.Duration(cfg.Chat.TimeoutSeconds)*time.Second)
	} else {
		notifier = chat.NewLogNotifier(log)
	}

	dupes := workflow.NewDuplicateGuard(time.Duration(cfg.Chat.IdempotencyTTL) * time.Second)
	orchestrator := workflow.NewOrchestrator(
		store, r.approvals, r.customers, posting, stockLog, notifier, riskCfg, dupes, log,
	)

	classifier := intent.NewGeminiClassifier(cfg.Intent.APIKey, cfg.Intent.Model)

	authUC := auth.NewAuthUseCase(r.users, auth.JWTConfig{
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Orchestrator: orchestrator,
		Classifier:   classifier,
		Store:        store,
		Posting:      posting,
		StockLog:     stockLog,
		Customers:    r.customers,
		JWTSecret:    cfg.JWT.Secret,
		Confidence:   cfg.Intent.ConfidenceThreshold,
		ChatTimeout:  time.Duration(cfg.Chat.TimeoutSeconds) * time.Second,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
