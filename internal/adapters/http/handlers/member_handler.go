package handlers

import (
	"errors"
	"time"

	"coopwelfare/internal/core/domain"
	"coopwelfare/internal/core/services"
	"coopwelfare/internal/pkg/pagination"
	"coopwelfare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member and dependent endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMemberRequest represents member registration request body
type CreateMemberRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	MiddleName       string  `json:"middle_name"`
	DateOfBirth      string  `json:"date_of_birth"`
	Gender           string  `json:"gender"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	StateID          *uint   `json:"state_id"`
	LgaID            *uint   `json:"lga_id"`
	RegistrationDate string  `json:"registration_date"`
	Nin              *string `json:"nin"`
	Notes            string  `json:"notes"`
}

// UpdateMemberRequest represents member update request body
type UpdateMemberRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	MiddleName *string `json:"middle_name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	StateID    *uint   `json:"state_id"`
	LgaID      *uint   `json:"lga_id"`
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
}

// CreateDependentRequest represents dependent registration request body
type CreateDependentRequest struct {
	Name         string  `json:"name"`
	DateOfBirth  string  `json:"date_of_birth"`
	Relationship string  `json:"relationship"`
	Nin          *string `json:"nin"`
}

// Create handles member registration
// @Summary Register member
// @Description Register a new cooperative member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMemberRequest true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.FirstName == "" || req.LastName == "" {
		return response.BadRequest(c, "First name and last name are required")
	}

	input := services.CreateMemberInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Gender:     req.Gender,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		StateID:    req.StateID,
		LgaID:      req.LgaID,
		Nin:        req.Nin,
		Notes:      req.Notes,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return response.BadRequest(c, "Invalid date of birth, expected YYYY-MM-DD")
		}
		input.DateOfBirth = &dob
	}
	if req.RegistrationDate != "" {
		regDate, err := time.Parse("2006-01-02", req.RegistrationDate)
		if err != nil {
			return response.BadRequest(c, "Invalid registration date, expected YYYY-MM-DD")
		}
		input.RegistrationDate = regDate
	}

	member, err := h.memberService.Create(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Invalid member data")
		}
		return response.InternalServerError(c, "Failed to register member")
	}

	return response.Created(c, "Member registered successfully", member)
}

// Get returns a single member
// @Summary Get member
// @Description Get a member by id
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	member, err := h.memberService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", member)
}

// List returns members page by page
// @Summary List members
// @Description List members with pagination
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.memberService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewResponse(members, params, total))
}

// Search finds members by name or registration number
// @Summary Search members
// @Description Search members by name or registration number
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {object} response.Response
// @Router /members/search [get]
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return response.BadRequest(c, "Search query is required")
	}

	members, err := h.memberService.Search(c.Context(), query, 20)
	if err != nil {
		return response.InternalServerError(c, "Failed to search members")
	}

	return response.Success(c, "Members retrieved successfully", members)
}

// Update handles member profile updates
// @Summary Update member
// @Description Update a member's profile or status
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body UpdateMemberRequest true "Member changes"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	var req UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.Context(), uint(id), services.UpdateMemberInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		StateID:    req.StateID,
		LgaID:      req.LgaID,
		Status:     req.Status,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid member data")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, "Member updated successfully", member)
}

// Delete removes a member
// @Summary Delete member
// @Description Soft-delete a member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	if err := h.memberService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to delete member")
	}

	return response.Success(c, "Member deleted successfully", nil)
}

// AddDependent registers a dependent under a member
// @Summary Add dependent
// @Description Register a dependent under a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body CreateDependentRequest true "Dependent data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/dependents [post]
func (h *MemberHandler) AddDependent(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("id")
	if err != nil || memberID < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	var req CreateDependentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Dependent name is required")
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return response.BadRequest(c, "Invalid date of birth, expected YYYY-MM-DD")
	}

	dependent, err := h.memberService.AddDependent(c.Context(), services.CreateDependentInput{
		MemberID:     uint(memberID),
		Name:         req.Name,
		DateOfBirth:  dob,
		Relationship: req.Relationship,
		Nin:          req.Nin,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid dependent data")
		default:
			return response.InternalServerError(c, "Failed to add dependent")
		}
	}

	return response.Created(c, "Dependent added successfully", dependent)
}

// ListDependents returns a member's dependents
// @Summary List dependents
// @Description List a member's dependents
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/dependents [get]
func (h *MemberHandler) ListDependents(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("id")
	if err != nil || memberID < 1 {
		return response.BadRequest(c, "Invalid member id")
	}

	dependents, err := h.memberService.ListDependents(c.Context(), uint(memberID))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to list dependents")
	}

	return response.Success(c, "Dependents retrieved successfully", dependents)
}

// RemoveDependent removes a dependent
// @Summary Remove dependent
// @Description Soft-delete a dependent
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param dependentId path int true "Dependent ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/dependents/{dependentId} [delete]
func (h *MemberHandler) RemoveDependent(c *fiber.Ctx) error {
	dependentID, err := c.ParamsInt("dependentId")
	if err != nil || dependentID < 1 {
		return response.BadRequest(c, "Invalid dependent id")
	}

	if err := h.memberService.RemoveDependent(c.Context(), uint(dependentID)); err != nil {
		if errors.Is(err, domain.ErrDependentNotFound) {
			return response.NotFound(c, "Dependent not found")
		}
		return response.InternalServerError(c, "Failed to remove dependent")
	}

	return response.Success(c, "Dependent removed successfully", nil)
}
