package handlers

import (
	"errors"
	"time"

	"coopwelfare/internal/core/domain"
	"coopwelfare/internal/core/services"
	"coopwelfare/internal/pkg/pagination"
	"coopwelfare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
	authService *services.AuthService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService, authService *services.AuthService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		authService: authService,
	}
}

// ApplyLoanRequest represents a loan application
type ApplyLoanRequest struct {
	MemberID              uint   `json:"member_id"`
	Amount                string `json:"amount"`
	Purpose               string `json:"purpose"`
	RepaymentPeriodMonths *int   `json:"repayment_period_months"`
}

// ApproveLoanRequest represents an approval decision
type ApproveLoanRequest struct {
	ApprovedAmount        *string `json:"approved_amount"`
	InterestRate          *string `json:"interest_rate"`
	RepaymentPeriodMonths *int    `json:"repayment_period_months"`
	DueDate               *string `json:"due_date"`
	Remarks               string  `json:"remarks"`
}

// DisburseLoanRequest represents a disbursement
type DisburseLoanRequest struct {
	DisbursedDate string `json:"disbursed_date"`
}

// DefaultLoanRequest represents a default marking
type DefaultLoanRequest struct {
	Reason string `json:"reason"`
}

// Apply handles a loan application
// @Summary Apply for loan
// @Description Create a pending loan application
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyLoanRequest true "Loan application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	var req ApplyLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	memberID := req.MemberID

	// Members apply for themselves; staff supply the member id
	role, _ := c.Locals("role").(string)
	if role == "MEMBER" {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		user, err := h.authService.GetUser(c.Context(), userID)
		if err != nil || user.MemberID == nil {
			return response.Forbidden(c, "No member profile linked to this account")
		}
		memberID = *user.MemberID
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return response.BadRequest(c, "Invalid amount")
	}

	loan, err := h.loanService.Apply(c.Context(), services.ApplyLoanInput{
		MemberID:              memberID,
		Amount:                amount,
		Purpose:               req.Purpose,
		RepaymentPeriodMonths: req.RepaymentPeriodMonths,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid loan application")
		default:
			return response.InternalServerError(c, "Failed to apply for loan")
		}
	}

	return response.Created(c, "Loan application submitted successfully", loan.ToResponse(loan.Principal()))
}

// Approve approves a pending loan
// @Summary Approve loan
// @Description Approve a pending loan application
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body ApproveLoanRequest true "Approval decision"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/approve [post]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan id")
	}

	var req ApproveLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := services.ApproveLoanInput{
		LoanID:     uint(id),
		ApprovedBy: userID,
		Remarks:    req.Remarks,
	}

	if req.ApprovedAmount != nil {
		amount, err := decimal.NewFromString(*req.ApprovedAmount)
		if err != nil {
			return response.BadRequest(c, "Invalid approved amount")
		}
		input.ApprovedAmount = &amount
	}
	if req.InterestRate != nil {
		rate, err := decimal.NewFromString(*req.InterestRate)
		if err != nil || rate.IsNegative() {
			return response.BadRequest(c, "Invalid interest rate")
		}
		input.InterestRate = &rate
	}
	if req.RepaymentPeriodMonths != nil {
		if *req.RepaymentPeriodMonths < 1 {
			return response.BadRequest(c, "Invalid repayment period")
		}
		input.RepaymentPeriodMonths = req.RepaymentPeriodMonths
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return response.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
		}
		input.DueDate = &due
	}

	loan, err := h.loanService.Approve(c.Context(), input)
	if err != nil {
		return h.loanError(c, err, "Failed to approve loan")
	}

	return response.Success(c, "Loan approved successfully", loan.ToResponse(loan.Principal()))
}

// Disburse pays out an approved loan
// @Summary Disburse loan
// @Description Disburse an approved loan and record the fund outflow
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body DisburseLoanRequest true "Disbursement data"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/disburse [post]
func (h *LoanHandler) Disburse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan id")
	}

	var req DisburseLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := services.DisburseLoanInput{
		LoanID:      uint(id),
		DisbursedBy: userID,
	}

	if req.DisbursedDate != "" {
		date, err := time.Parse("2006-01-02", req.DisbursedDate)
		if err != nil {
			return response.BadRequest(c, "Invalid disbursed date, expected YYYY-MM-DD")
		}
		input.DisbursedDate = date
	}

	loan, err := h.loanService.Disburse(c.Context(), input)
	if err != nil {
		return h.loanError(c, err, "Failed to disburse loan")
	}

	return response.Success(c, "Loan disbursed successfully", loan.ToResponse(loan.Principal()))
}

// RecordRepayment records a repayment against a loan. Multipart form
// with an optional receipt file.
// @Summary Record repayment
// @Description Record a repayment and its fund inflow
// @Tags Loans
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/repayments [post]
func (h *LoanHandler) RecordRepayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan id")
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return response.BadRequest(c, "Invalid amount")
	}

	paymentDate, err := time.Parse("2006-01-02", c.FormValue("payment_date"))
	if err != nil {
		return response.BadRequest(c, "Invalid payment date, expected YYYY-MM-DD")
	}

	input := services.RecordRepaymentInput{
		LoanID:        uint(id),
		Amount:        amount,
		PaymentDate:   paymentDate,
		PaymentMethod: c.FormValue("payment_method"),
		Notes:         c.FormValue("notes"),
		CreatedBy:     userID,
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

	repayment, err := h.loanService.RecordRepayment(c.Context(), input)
	if err != nil {
		return h.loanError(c, err, "Failed to record repayment")
	}

	return response.Created(c, "Repayment recorded successfully", repayment)
}

// ListRepayments returns the repayment history of a loan
// @Summary List repayments
// @Description List repayments of a loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Router /loans/{id}/repayments [get]
func (h *LoanHandler) ListRepayments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan id")
	}

	repayments, err := h.loanService.ListRepayments(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to list repayments")
	}

	return response.Success(c, "Repayments retrieved successfully", repayments)
}

// MarkAsDefaulted flags an overdue loan
// @Summary Mark loan as defaulted
// @Description Flag a disbursed loan as defaulted
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body DefaultLoanRequest true "Default reason"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/default [post]
func (h *LoanHandler) MarkAsDefaulted(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan id")
	}

	var req DefaultLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.MarkAsDefaulted(c.Context(), uint(id), req.Reason)
	if err != nil {
		return h.loanError(c, err, "Failed to mark loan as defaulted")
	}

	return response.Success(c, "Loan marked as defaulted", loan.ToResponse(loan.Principal()))
}

// Get returns a single loan with its outstanding balance
// @Summary Get loan
// @Description Get a loan by id with outstanding balance
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan id")
	}

	loan, err := h.loanService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	balance, err := h.loanService.Balance(c.Context(), loan.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute loan balance")
	}

	return response.Success(c, "Loan retrieved successfully", loan.ToResponse(balance))
}

// List returns loans page by page
// @Summary List loans
// @Description List loans with pagination
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", pagination.NewResponse(loans, params, total))
}

// ListByMember returns a member's loans
// @Summary List member loans
// @Description List all loans of a member
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /members/{memberId}/loans [get]
func (h *LoanHandler) ListByMember(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("memberId")
	if err != nil || memberID < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	loans, err := h.loanService.ListByMember(c.Context(), uint(memberID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", loans)
}

// loanError maps lifecycle errors to HTTP responses
func (h *LoanHandler) loanError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrMemberNotFound):
		return response.NotFound(c, "Member not found")
	case errors.Is(err, domain.ErrInvalidState):
		return response.UnprocessableEntity(c, "Operation not allowed in the loan's current state")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	default:
		return response.InternalServerError(c, fallback)
	}
}
