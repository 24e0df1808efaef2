package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adamugarba/thanledger/internal/application/auth"
	"github.com/adamugarba/thanledger/internal/application/inventory"
	"github.com/adamugarba/thanledger/internal/application/ledger"
	"github.com/adamugarba/thanledger/internal/application/ports"
	"github.com/adamugarba/thanledger/internal/application/stock"
	"github.com/adamugarba/thanledger/internal/application/workflow"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

// RouterDeps carries everything the routes need.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Orchestrator *workflow.Orchestrator
	Classifier   ports.IntentClassifier
	Store        *inventory.Store
	Posting      *ledger.PostingService
	StockLog     *stock.Log
	Customers    repository.CustomerRepository
	JWTSecret    string
	Confidence   float64
	ChatTimeout  time.Duration
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Everything else requires a Bearer token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Chat bridge: one endpoint, the conversation drives the rest
	chatHandler := NewChatHandler(deps.Classifier, deps.Orchestrator, deps.Confidence, deps.ChatTimeout)
	protected.Post("/chat/message", chatHandler.Message)

	// Approvals (admin)
	approvals := protected.Group("/approvals", RequireRole(entity.RoleAdmin))
	approvalHandler := NewApprovalHandler(deps.Orchestrator)
	approvals.Get("/pending", approvalHandler.ListPending)
	approvals.Post("/:id/approve", approvalHandler.Approve)
	approvals.Post("/:id/reject", approvalHandler.Reject)

	// Stock intake (admin)
	intake := protected.Group("/inventory", RequireRole(entity.RoleAdmin))
	inventoryHandler := NewInventoryHandler(deps.Store, deps.StockLog)
	intake.Post("/thans", inventoryHandler.ReceiveThan)

	// Read side
	reportHandler := NewReportHandler(deps.Store, deps.Posting, deps.StockLog, deps.Customers)
	protected.Get("/packages/:packageNo", reportHandler.GetPackage)
	protected.Get("/thans", reportHandler.FindThans)
	protected.Get("/stock", reportHandler.GetStock)
	protected.Get("/stock/movements", reportHandler.GetStockMovements)
	protected.Get("/ledger/trial-balance", reportHandler.TrialBalance)
	protected.Get("/ledger/transactions/:txnID", reportHandler.GetTransaction)
	protected.Get("/customers", reportHandler.ListCustomers)
}
