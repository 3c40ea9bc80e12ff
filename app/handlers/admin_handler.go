package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/app/middleware"
	businessflow "github.com/link360/pool-api/business_flow"
)

// AdminHandlerInterface defines the contract for back-office handlers
type AdminHandlerInterface interface {
	Login(c fiber.Ctx) error
	ListPledges(c fiber.Ctx) error
	UpdatePledgeStatus(c fiber.Ctx) error
	GetSettings(c fiber.Ctx) error
	UpdateSettings(c fiber.Ctx) error
}

// AdminHandler implements AdminHandlerInterface
type AdminHandler struct {
	authFlow     businessflow.AdminAuthFlow
	pledgeFlow   businessflow.AdminPledgeFlow
	settingsFlow businessflow.AdminSettingsFlow
	validator    *validator.Validate
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	authFlow businessflow.AdminAuthFlow,
	pledgeFlow businessflow.AdminPledgeFlow,
	settingsFlow businessflow.AdminSettingsFlow,
) AdminHandlerInterface {
	return &AdminHandler{
		authFlow:     authFlow,
		pledgeFlow:   pledgeFlow,
		settingsFlow: settingsFlow,
		validator:    newValidator(),
	}
}

// ErrorResponse standard JSON error
func (h *AdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse standard JSON success
func (h *AdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Login authenticates an operator with username/password
// @Summary Admin login
// @Description Authenticate an admin and return a bearer token
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 401 {object} dto.APIResponse "Incorrect credentials"
// @Failure 403 {object} dto.APIResponse "Admin inactive"
// @Router /api/v1/admin/login [post]
func (h *AdminHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.authFlow.Login(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsAdminInactive(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Admin inactive", "ADMIN_INACTIVE", nil)
		}
		if businessflow.IsIncorrectPassword(err) || businessflow.IsAdminNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Incorrect username or password", "INCORRECT_CREDENTIALS", nil)
		}
		log.Println("Admin login failed", err)
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// ListPledges returns pledges for the back office
// @Summary List pledges
// @Description List pledges, optionally narrowed to a pool and status
// @Tags Admin
// @Produce json
// @Param pool_id query string false "Pool UUID"
// @Param status query string false "Pledge status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=dto.ListPledgesResponse} "Pledges listed"
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Failure 404 {object} dto.APIResponse "Pool not found"
// @Router /api/v1/admin/pledges [get]
func (h *AdminHandler) ListPledges(c fiber.Ctx) error {
	filter := businessflow.AdminPledgeFilter{
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if poolID := c.Query("pool_id"); poolID != "" {
		filter.PoolUUID = &poolID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.pledgeFlow.ListPledges(ctx, filter, clientMetadata(c))
	if err != nil {
		if businessflow.IsPoolNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pool not found", "POOL_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidSubmission(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter", "INVALID_FILTER", err.Error())
		}
		log.Println("Pledge listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list pledges", "PLEDGE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pledges listed", result)
}

// UpdatePledgeStatus applies an operator's status change to a pledge
// @Summary Update pledge status
// @Description Move a pledge through its lifecycle (confirmed, withdrawn, shipped)
// @Tags Admin
// @Accept json
// @Produce json
// @Param uuid path string true "Pledge UUID"
// @Param request body dto.UpdatePledgeStatusRequest true "Status change"
// @Success 200 {object} dto.APIResponse{data=dto.UpdatePledgeStatusResponse} "Pledge updated"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 404 {object} dto.APIResponse "Pledge not found"
// @Failure 409 {object} dto.APIResponse "Disallowed status transition"
// @Router /api/v1/admin/pledges/{uuid} [patch]
func (h *AdminHandler) UpdatePledgeStatus(c fiber.Ctx) error {
	var req dto.UpdatePledgeStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	adminID, ok := middleware.GetAdminIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin authentication required", "ADMIN_AUTHENTICATION_REQUIRED", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.pledgeFlow.UpdatePledgeStatus(ctx, c.Params("uuid"), &req, adminID, clientMetadata(c))
	if err != nil {
		if businessflow.IsPledgeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pledge not found", "PLEDGE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidStatusChange(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Disallowed status transition", "INVALID_STATUS_CHANGE", err.Error())
		}
		if businessflow.IsInvalidSubmission(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request", "INVALID_REQUEST", err.Error())
		}
		log.Println("Pledge status update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update pledge", "PLEDGE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pledge updated", result)
}

// GetSettings returns the effective pricing knobs
// @Summary Get pricing settings
// @Description Fetch the pricing knobs quotes are currently computed with
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PricingSettingsDTO} "Settings fetched"
// @Router /api/v1/admin/settings [get]
func (h *AdminHandler) GetSettings(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.settingsFlow.GetSettings(ctx)
	if err != nil {
		log.Println("Settings fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch settings", "SETTINGS_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Settings fetched", result)
}

// UpdateSettings validates and persists new pricing knobs
// @Summary Update pricing settings
// @Description Persist new pricing knobs and invalidate the pricing cache
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.PricingSettingsDTO true "New pricing knobs"
// @Success 200 {object} dto.APIResponse{data=dto.UpdatePricingSettingsResponse} "Settings updated"
// @Failure 400 {object} dto.APIResponse "Invalid settings"
// @Router /api/v1/admin/settings [put]
func (h *AdminHandler) UpdateSettings(c fiber.Ctx) error {
	var req dto.PricingSettingsDTO
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	adminID, ok := middleware.GetAdminIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin authentication required", "ADMIN_AUTHENTICATION_REQUIRED", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.settingsFlow.UpdateSettings(ctx, &req, adminID, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidPricingSettings(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pricing settings", "INVALID_SETTINGS", err.Error())
		}
		log.Println("Settings update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update settings", "SETTINGS_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Settings updated", result)
}

// queryInt reads an integer query parameter with a default
func queryInt(c fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
