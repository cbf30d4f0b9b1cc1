package handlers

import (
	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/core/services"
	"coopwelfare/internal/pkg/pagination"
	"coopwelfare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LedgerHandler handles fund ledger endpoints
type LedgerHandler struct {
	ledgerService *services.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List returns ledger entries page by page
// @Summary List ledger entries
// @Description List fund ledger entries, newest first
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /ledger [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.ledgerService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list ledger entries")
	}

	return response.Success(c, "Ledger entries retrieved successfully", pagination.NewResponse(entries, params, total))
}

// ListByReference returns the entries tied to one source entity
// @Summary List ledger entries by reference
// @Description List ledger entries tied to a contribution, loan or repayment
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Param type path string true "Reference type" Enums(contribution, loan, loan_repayment)
// @Param id path int true "Reference ID"
// @Success 200 {object} response.Response
// @Router /ledger/{type}/{id} [get]
func (h *LedgerHandler) ListByReference(c *fiber.Ctx) error {
	refType := c.Params("type")
	switch refType {
	case models.ReferenceContribution, models.ReferenceLoan, models.ReferenceLoanRepayment:
	default:
		return response.BadRequest(c, "Invalid reference type")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid reference id")
	}

	entries, err := h.ledgerService.ListByReference(c.Context(), refType, uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to list ledger entries")
	}

	return response.Success(c, "Ledger entries retrieved successfully", entries)
}

// Summary returns the aggregated fund position
// @Summary Fund summary
// @Description Total inflows, outflows and net fund balance
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /ledger/summary [get]
func (h *LedgerHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.ledgerService.Summary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute fund summary")
	}

	return response.Success(c, "Fund summary retrieved successfully", summary)
}
