package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/application/dto"
	"github.com/adamugarba/thanledger/internal/application/inventory"
	"github.com/adamugarba/thanledger/internal/application/ledger"
	"github.com/adamugarba/thanledger/internal/application/stock"
	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
)

// ReportHandler serves the read side: package views, than lookups, stock
// levels, ledger transactions and the trial balance.
type ReportHandler struct {
	store     *inventory.Store
	posting   *ledger.PostingService
	stockLog  *stock.Log
	customers repository.CustomerRepository
}

func NewReportHandler(store *inventory.Store, posting *ledger.PostingService, stockLog *stock.Log, customers repository.CustomerRepository) *ReportHandler {
	return &ReportHandler{store: store, posting: posting, stockLog: stockLog, customers: customers}
}

type packageView struct {
	PackageNo      string          `json:"package_no"`
	TotalThans     int             `json:"total_thans"`
	AvailableThans int             `json:"available_thans"`
	SoldThans      int             `json:"sold_thans"`
	TotalYards     decimal.Decimal `json:"total_yards"`
	AvailableYards decimal.Decimal `json:"available_yards"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Warehouses     []string        `json:"warehouses"`
	Thans          []thanView      `json:"thans,omitempty"`
}

type thanView struct {
	PackageNo    string          `json:"package_no"`
	ThanNo       int             `json:"than_no"`
	Design       string          `json:"design"`
	Shade        string          `json:"shade"`
	Yards        decimal.Decimal `json:"yards"`
	Status       string          `json:"status"`
	Warehouse    string          `json:"warehouse"`
	PricePerYard decimal.Decimal `json:"price_per_yard"`
	SoldTo       string          `json:"sold_to,omitempty"`
	SoldDate     *time.Time      `json:"sold_date,omitempty"`
}

func toThanView(t *entity.Than) thanView {
	return thanView{
		PackageNo:    t.PackageNo,
		ThanNo:       t.ThanNo,
		Design:       t.Design,
		Shade:        t.Shade,
		Yards:        t.Yards,
		Status:       t.Status,
		Warehouse:    t.Warehouse,
		PricePerYard: t.PricePerYard,
		SoldTo:       t.SoldTo,
		SoldDate:     t.SoldDate,
	}
}

// GetPackage returns the aggregate view plus the per-than rows.
func (h *ReportHandler) GetPackage(c *fiber.Ctx) error {
	packageNo := c.Params("packageNo")
	summary, err := h.store.Package(packageNo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "package not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	thans, err := h.store.Find(entity.ThanFilter{PackageNo: packageNo})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	view := packageView{
		PackageNo:      summary.PackageNo,
		TotalThans:     summary.TotalThans,
		AvailableThans: summary.AvailableThans,
		SoldThans:      summary.SoldThans,
		TotalYards:     summary.TotalYards,
		AvailableYards: summary.AvailableYards,
		TotalValue:     summary.TotalValue,
		Warehouses:     summary.Warehouses,
	}
	for _, t := range thans {
		view.Thans = append(view.Thans, toThanView(t))
	}
	return c.JSON(view)
}

// FindThans lists than rows filtered by query params (package_no, design,
// shade, warehouse, status).
func (h *ReportHandler) FindThans(c *fiber.Ctx) error {
	filter := entity.ThanFilter{
		PackageNo: c.Query("package_no"),
		Design:    c.Query("design"),
		Shade:     c.Query("shade"),
		Warehouse: c.Query("warehouse"),
		Status:    c.Query("status"),
	}
	thans, err := h.store.Find(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	views := make([]thanView, 0, len(thans))
	for _, t := range thans {
		views = append(views, toThanView(t))
	}
	return c.JSON(fiber.Map{"total": len(views), "thans": views})
}

// GetStock returns the running balance for one (item, branch) pair.
func (h *ReportHandler) GetStock(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	branch := c.Query("branch")
	if itemID == "" || branch == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id and branch are required"})
	}
	qty, err := h.stockLog.Stock(itemID, branch)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"item_id": itemID, "branch": branch, "quantity": qty})
}

// GetStockMovements lists the raw movement log for one (item, branch) pair.
func (h *ReportHandler) GetStockMovements(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	branch := c.Query("branch")
	if itemID == "" || branch == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id and branch are required"})
	}
	movements, err := h.stockLog.Movements(itemID, branch)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	type movementView struct {
		ID          string          `json:"id"`
		Type        string          `json:"type"`
		QtyIn       decimal.Decimal `json:"qty_in"`
		QtyOut      decimal.Decimal `json:"qty_out"`
		ReferenceID string          `json:"reference_id"`
		CreatedAt   time.Time       `json:"created_at"`
	}
	views := make([]movementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, movementView{
			ID: m.ID, Type: m.Type, QtyIn: m.QtyIn, QtyOut: m.QtyOut,
			ReferenceID: m.ReferenceID, CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(views), "movements": views})
}

// TrialBalance returns per-account totals over the whole journal.
func (h *ReportHandler) TrialBalance(c *fiber.Ctx) error {
	balances, err := h.posting.TrialBalance()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	type balanceView struct {
		AccountCode string          `json:"account_code"`
		AccountName string          `json:"account_name"`
		TotalDebit  decimal.Decimal `json:"total_debit"`
		TotalCredit decimal.Decimal `json:"total_credit"`
		Balance     decimal.Decimal `json:"balance"`
	}
	views := make([]balanceView, 0, len(balances))
	for _, b := range balances {
		views = append(views, balanceView{
			AccountCode: b.AccountCode, AccountName: b.AccountName,
			TotalDebit: b.TotalDebit, TotalCredit: b.TotalCredit, Balance: b.Balance,
		})
	}
	return c.JSON(fiber.Map{"accounts": views})
}

// GetTransaction returns the journal lines of one transaction.
func (h *ReportHandler) GetTransaction(c *fiber.Ctx) error {
	entries, err := h.posting.EntriesByTxn(c.Params("txnID"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if len(entries) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transaction not found"})
	}
	type entryView struct {
		AccountCode string          `json:"account_code"`
		AccountName string          `json:"account_name"`
		Debit       decimal.Decimal `json:"debit"`
		Credit      decimal.Decimal `json:"credit"`
		Narration   string          `json:"narration"`
		Date        time.Time       `json:"date"`
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{
			AccountCode: e.AccountCode, AccountName: entity.AccountName(e.AccountCode),
			Debit: e.Debit, Credit: e.Credit, Narration: e.Narration, Date: e.Date,
		})
	}
	return c.JSON(fiber.Map{"txn_id": c.Params("txnID"), "entries": views})
}

// ListCustomers returns counterparties with their outstanding balances.
func (h *ReportHandler) ListCustomers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	customers, err := h.customers.List(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	type customerView struct {
		ID                 string          `json:"id"`
		Name               string          `json:"name"`
		OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
		CreditLimit        decimal.Decimal `json:"credit_limit"`
	}
	views := make([]customerView, 0, len(customers))
	for _, cu := range customers {
		views = append(views, customerView{
			ID: cu.ID, Name: cu.Name,
			OutstandingBalance: cu.OutstandingBalance, CreditLimit: cu.CreditLimit,
		})
	}
	return c.JSON(fiber.Map{"total": len(views), "customers": views})
}
