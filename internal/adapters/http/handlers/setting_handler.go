package handlers

import (
	"errors"

	"coopwelfare/internal/core/domain"
	"coopwelfare/internal/core/services"
	"coopwelfare/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingHandler handles settings endpoints
type SettingHandler struct {
	settingService *services.SettingService
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(settingService *services.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// UpdateSettingRequest represents a setting change
type UpdateSettingRequest struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// List returns all settings
// @Summary List settings
// @Description List all runtime settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings [get]
func (h *SettingHandler) List(c *fiber.Ctx) error {
	settings, err := h.settingService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list settings")
	}

	return response.Success(c, "Settings retrieved successfully", settings)
}

// Get returns one setting by key
// @Summary Get setting
// @Description Get a setting by key
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /settings/{key} [get]
func (h *SettingHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return response.BadRequest(c, "Setting key is required")
	}

	setting, err := h.settingService.Get(c.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Setting not found")
		}
		return response.InternalServerError(c, "Failed to get setting")
	}

	return response.Success(c, "Setting retrieved successfully", setting)
}

// Update changes a setting's value
// @Summary Update setting
// @Description Update a setting, validating the value against its type
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param body body UpdateSettingRequest true "New value"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /settings/{key} [put]
func (h *SettingHandler) Update(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return response.BadRequest(c, "Setting key is required")
	}

	var req UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	setting, err := h.settingService.Update(c.Context(), key, req.Value, req.Type)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Invalid setting value for the declared type")
		}
		return response.InternalServerError(c, "Failed to update setting")
	}

	return response.Success(c, "Setting updated successfully", setting)
}
