package handlers

import (
	"errors"

	"coopwelfare/internal/core/domain"
	"coopwelfare/internal/core/services"
	"coopwelfare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EligibilityHandler handles eligibility check endpoints
type EligibilityHandler struct {
	eligibilityService *services.EligibilityService
}

// NewEligibilityHandler creates a new eligibility handler
func NewEligibilityHandler(eligibilityService *services.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{eligibilityService: eligibilityService}
}

// CheckMember evaluates a member's health benefit eligibility
// @Summary Check member eligibility
// @Description Evaluate a member against all health benefit rules
// @Tags Eligibility
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/eligibility [get]
func (h *EligibilityHandler) CheckMember(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	result, err := h.eligibilityService.CheckMember(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to check eligibility")
	}

	return response.Success(c, result.Explanation(), result)
}

// CheckDependent evaluates a dependent's health benefit eligibility
// @Summary Check dependent eligibility
// @Description Evaluate a dependent against the member and age rules
// @Tags Eligibility
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dependent ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /dependents/{id}/eligibility [get]
func (h *EligibilityHandler) CheckDependent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid dependent id")
	}

	result, err := h.eligibilityService.CheckDependent(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDependentNotFound):
			return response.NotFound(c, "Dependent not found")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to check eligibility")
		}
	}

	return response.Success(c, result.Explanation(), result)
}
