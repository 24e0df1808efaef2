package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/application/dto"
	"github.com/adamugarba/thanledger/internal/application/inventory"
	"github.com/adamugarba/thanledger/internal/application/stock"
	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/entity"
)

// InventoryHandler handles stock intake: registering newly arrived thans.
// Intake is an admin surface, not a chat action.
type InventoryHandler struct {
	store    *inventory.Store
	stockLog *stock.Log
}

func NewInventoryHandler(store *inventory.Store, stockLog *stock.Log) *InventoryHandler {
	return &InventoryHandler{store: store, stockLog: stockLog}
}

type receiveThanRequest struct {
	PackageNo    string          `json:"package_no"`
	ThanNo       int             `json:"than_no"`
	Design       string          `json:"design"`
	Shade        string          `json:"shade"`
	Yards        decimal.Decimal `json:"yards"`
	Warehouse    string          `json:"warehouse"`
	PricePerYard decimal.Decimal `json:"price_per_yard"`
	ReferenceID  string          `json:"reference_id"`
}

// ReceiveThan registers one arrived than and logs the purchase_in movement.
func (h *InventoryHandler) ReceiveThan(c *fiber.Ctx) error {
	var in receiveThanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	than := &entity.Than{
		PackageNo:    in.PackageNo,
		ThanNo:       in.ThanNo,
		Design:       in.Design,
		Shade:        in.Shade,
		Yards:        in.Yards,
		Warehouse:    in.Warehouse,
		PricePerYard: in.PricePerYard,
		Status:       entity.ThanStatusAvailable,
		UpdatedAt:    time.Now(),
	}
	if err := h.store.Receive(than); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if err := h.stockLog.RecordPurchaseIn(than.ItemID(), than.PackageNo, than.Warehouse, than.Yards, in.ReferenceID); err != nil {
		// The than row stands; the missing movement is reported, not rolled back.
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "than registered",
			"warning": "stock movement not recorded: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "than registered"})
}
