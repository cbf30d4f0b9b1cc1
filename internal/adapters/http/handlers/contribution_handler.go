package handlers

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"coopwelfare/internal/core/domain"
	"coopwelfare/internal/core/services"
	"coopwelfare/internal/pkg/pagination"
	"coopwelfare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// MaxReceiptSize caps uploaded receipt files at 5 MB
const MaxReceiptSize = 5 * 1024 * 1024

// ContributionHandler handles contribution endpoints
type ContributionHandler struct {
	contributionService *services.ContributionService
	authService         *services.AuthService
}

// NewContributionHandler creates a new contribution handler
func NewContributionHandler(contributionService *services.ContributionService, authService *services.AuthService) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
		authService:         authService,
	}
}

// ReviewContributionRequest represents a review decision
type ReviewContributionRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Submit handles a member's own contribution submission. Multipart
// form with an optional receipt file.
// @Summary Submit contribution
// @Description Submit a contribution as the logged-in member
// @Tags Contributions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /contributions/submit [post]
func (h *ContributionHandler) Submit(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetUser(c.Context(), userID)
	if err != nil || user.MemberID == nil {
		return response.Forbidden(c, "No member profile linked to this account")
	}

	planID, err := strconv.Atoi(c.FormValue("plan_id"))
	if err != nil || planID < 1 {
		return response.BadRequest(c, "Invalid plan id")
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return response.BadRequest(c, "Invalid amount")
	}

	paymentDate, err := time.Parse("2006-01-02", c.FormValue("payment_date"))
	if err != nil {
		return response.BadRequest(c, "Invalid payment date, expected YYYY-MM-DD")
	}

	input := services.SubmitContributionInput{
		MemberID:      *user.MemberID,
		PlanID:        uint(planID),
		Amount:        amount,
		PaymentMethod: c.FormValue("payment_method"),
		PaymentDate:   paymentDate,
		ReceiptNotes:  c.FormValue("receipt_notes"),
	}

	if ref := c.FormValue("payment_ref"); ref != "" {
		input.PaymentRef = &ref
	}

	receipt, ext, err := readReceiptFile(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	input.Receipt = receipt
	input.ReceiptExt = ext

	contribution, err := h.contributionService.Submit(c.Context(), input)
	if err != nil {
		return h.contributionError(c, err, "Failed to submit contribution")
	}

	return response.Created(c, "Contribution submitted successfully", contribution.ToResponse())
}

// Record handles a staff-recorded contribution. It bypasses review, so
// the response carries a paid contribution.
// @Summary Record contribution
// @Description Record a paid contribution on behalf of a member
// @Tags Contributions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /contributions [post]
func (h *ContributionHandler) Record(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	memberID, err := strconv.Atoi(c.FormValue("member_id"))
	if err != nil || memberID < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	planID, err := strconv.Atoi(c.FormValue("plan_id"))
	if err != nil || planID < 1 {
		return response.BadRequest(c, "Invalid plan id")
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return response.BadRequest(c, "Invalid amount")
	}

	paymentDate, err := time.Parse("2006-01-02", c.FormValue("payment_date"))
	if err != nil {
		return response.BadRequest(c, "Invalid payment date, expected YYYY-MM-DD")
	}

	input := services.RecordContributionInput{
		MemberID:      uint(memberID),
		PlanID:        uint(planID),
		Amount:        amount,
		PaymentMethod: c.FormValue("payment_method"),
		PaymentDate:   paymentDate,
		RecordedBy:    userID,
		ReceiptNotes:  c.FormValue("receipt_notes"),
	}

	if ref := c.FormValue("payment_ref"); ref != "" {
		input.PaymentRef = &ref
	}

	receipt, ext, err := readReceiptFile(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	input.Receipt = receipt
	input.ReceiptExt = ext

	contribution, err := h.contributionService.Record(c.Context(), input)
	if err != nil {
		return h.contributionError(c, err, "Failed to record contribution")
	}

	return response.Created(c, "Contribution recorded successfully", contribution.ToResponse())
}

// Review applies an approve or reject decision
// @Summary Review contribution
// @Description Approve or reject a contribution awaiting review
// @Tags Contributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contribution ID"
// @Param body body ReviewContributionRequest true "Review decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /contributions/{id}/review [post]
func (h *ContributionHandler) Review(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid contribution id")
	}

	var req ReviewContributionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	contribution, err := h.contributionService.Review(c.Context(), services.ReviewContributionInput{
		ContributionID: uint(id),
		ReviewedBy:     userID,
		Decision:       req.Decision,
		Reason:         req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrContributionNotFound):
			return response.NotFound(c, "Contribution not found")
		case errors.Is(err, domain.ErrInvalidDecision):
			return response.BadRequest(c, "Review decision must be approve or reject")
		case errors.Is(err, domain.ErrInvalidReason):
			return response.BadRequest(c, "Rejection reason is required")
		case errors.Is(err, domain.ErrInvalidState):
			return response.UnprocessableEntity(c, "Contribution is not awaiting review")
		default:
			return response.InternalServerError(c, "Failed to review contribution")
		}
	}

	return response.Success(c, "Contribution reviewed successfully", contribution.ToResponse())
}

// Get returns a single contribution
// @Summary Get contribution
// @Description Get a contribution by id
// @Tags Contributions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contribution ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contributions/{id} [get]
func (h *ContributionHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid contribution id")
	}

	contribution, err := h.contributionService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrContributionNotFound) {
			return response.NotFound(c, "Contribution not found")
		}
		return response.InternalServerError(c, "Failed to get contribution")
	}

	return response.Success(c, "Contribution retrieved successfully", contribution.ToResponse())
}

// ListByMember returns a member's contribution history
// @Summary List member contributions
// @Description List a member's contributions with pagination
// @Tags Contributions
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /members/{memberId}/contributions [get]
func (h *ContributionHandler) ListByMember(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("memberId")
	if err != nil || memberID < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	params := pagination.GetParams(c)

	contributions, total, err := h.contributionService.ListByMember(c.Context(), uint(memberID), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list contributions")
	}

	items := make([]interface{}, 0, len(contributions))
	for _, contribution := range contributions {
		items = append(items, contribution.ToResponse())
	}

	return response.Success(c, "Contributions retrieved successfully", pagination.NewResponse(items, params, total))
}

// ListPendingReview returns contributions awaiting review
// @Summary List pending contributions
// @Description List contributions awaiting a review decision
// @Tags Contributions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /contributions/pending [get]
func (h *ContributionHandler) ListPendingReview(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	contributions, total, err := h.contributionService.ListPendingReview(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list contributions")
	}

	items := make([]interface{}, 0, len(contributions))
	for _, contribution := range contributions {
		items = append(items, contribution.ToResponse())
	}

	return response.Success(c, "Contributions retrieved successfully", pagination.NewResponse(items, params, total))
}

// ListPlans returns the active contribution plans
// @Summary List contribution plans
// @Description List active contribution plans
// @Tags Contributions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /contributions/plans [get]
func (h *ContributionHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.contributionService.ListPlans(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list contribution plans")
	}

	return response.Success(c, "Contribution plans retrieved successfully", plans)
}

// readReceiptFile pulls the optional "receipt" upload out of a
// multipart form. Returns nil bytes when no file was sent.
func readReceiptFile(c *fiber.Ctx) ([]byte, string, error) {
	file, err := c.FormFile("receipt")
	if err != nil {
		return nil, "", nil
	}
	if file.Size > MaxReceiptSize {
		return nil, "", errors.New("Receipt file too large")
	}
	src, err := file.Open()
	if err != nil {
		return nil, "", errors.New("Failed to read receipt file")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", errors.New("Failed to read receipt file")
	}
	return data, filepath.Ext(file.Filename), nil
}

// contributionError maps creation errors to HTTP responses
func (h *ContributionHandler) contributionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		return response.NotFound(c, "Member not found")
	case errors.Is(err, domain.ErrPlanNotFound):
		return response.NotFound(c, "Contribution plan not found")
	case errors.Is(err, domain.ErrDuplicatePaymentRef):
		return response.Conflict(c, "Payment reference already exists")
	case errors.Is(err, domain.ErrDuplicateContribution):
		return response.Conflict(c, "A similar contribution already exists within the last 3 days")
	default:
		return response.InternalServerError(c, fallback)
	}
}
