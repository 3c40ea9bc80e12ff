package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/app/middleware"
	businessflow "github.com/link360/pool-api/business_flow"
)

// PledgeHandlerInterface defines the contract for pledge intake handlers
type PledgeHandlerInterface interface {
	SubmitPledge(c fiber.Ctx) error
	PreviewQuote(c fiber.Ctx) error
}

// PledgeHandler implements PledgeHandlerInterface
type PledgeHandler struct {
	flow      businessflow.PledgeFlow
	validator *validator.Validate
}

// NewPledgeHandler creates a new pledge handler
func NewPledgeHandler(flow businessflow.PledgeFlow) PledgeHandlerInterface {
	return &PledgeHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

// ErrorResponse standard JSON error
func (h *PledgeHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *PledgeHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SubmitPledge accepts a pledge for a pool, recomputing the quote server-side
// @Summary Submit pledge
// @Description Validate the cargo description, price it, and record the pledge
// @Tags Pledges
// @Accept json
// @Produce json
// @Param request body dto.SubmitPledgeRequest true "Pledge intake data"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitPledgeResponse} "Pledge accepted"
// @Failure 400 {object} dto.APIResponse "Invalid request or cargo description"
// @Failure 404 {object} dto.APIResponse "Pool not found"
// @Failure 409 {object} dto.APIResponse "Duplicate pledge or pool closed"
// @Failure 429 {object} dto.APIResponse "Too many submissions"
// @Router /api/v1/pledges [post]
func (h *PledgeHandler) SubmitPledge(c fiber.Ctx) error {
	var req dto.SubmitPledgeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		middleware.RecordPledgeSubmission("rejected")
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	metadata := clientMetadata(c)
	result, err := h.flow.SubmitPledge(ctx, &req, metadata)
	if err != nil {
		switch {
		case businessflow.IsTooManyRequests(err):
			middleware.RecordPledgeSubmission("rate_limited")
			return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Too many submissions, slow down", "TOO_MANY_REQUESTS", nil)
		case businessflow.IsPoolNotFound(err):
			middleware.RecordPledgeSubmission("rejected")
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pool not found", "POOL_NOT_FOUND", nil)
		case businessflow.IsPoolNotAcceptingPledges(err):
			middleware.RecordPledgeSubmission("rejected")
			return h.ErrorResponse(c, fiber.StatusConflict, "Pool is not accepting pledges", "POOL_NOT_ACCEPTING_PLEDGES", nil)
		case businessflow.IsDuplicatePledge(err):
			middleware.RecordPledgeSubmission("duplicate")
			return h.ErrorResponse(c, fiber.StatusConflict, "A pledge for this email already exists in this pool", "DUPLICATE_PLEDGE", nil)
		case businessflow.IsInvalidCargoSpec(err), businessflow.IsInvalidSubmission(err):
			middleware.RecordPledgeSubmission("rejected")
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid cargo description", "INVALID_CARGO_SPEC", err.Error())
		}
		log.Println("Pledge submission failed", err)
		middleware.RecordPledgeSubmission("failed")
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Pledge submission failed", "PLEDGE_SUBMISSION_FAILED", nil)
	}

	middleware.RecordPledgeSubmission("accepted")
	return h.SuccessResponse(c, fiber.StatusCreated, "Pledge accepted", result)
}

// PreviewQuote prices a cargo description without recording anything
// @Summary Preview quote
// @Description Compute the estimated shipping cost and pickup fee for a cargo description
// @Tags Pledges
// @Accept json
// @Produce json
// @Param request body dto.QuotePreviewRequest true "Quotation input"
// @Success 200 {object} dto.APIResponse{data=dto.QuotePreviewResponse} "Quote computed"
// @Failure 400 {object} dto.APIResponse "Invalid cargo description"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /api/v1/quotes/preview [post]
func (h *PledgeHandler) PreviewQuote(c fiber.Ctx) error {
	var req dto.QuotePreviewRequest
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

	metadata := clientMetadata(c)
	result, err := h.flow.PreviewQuote(ctx, &req, metadata)
	if err != nil {
		switch {
		case businessflow.IsTooManyRequests(err):
			return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Too many requests, slow down", "TOO_MANY_REQUESTS", nil)
		case businessflow.IsInvalidCargoSpec(err), businessflow.IsInvalidSubmission(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid cargo description", "INVALID_CARGO_SPEC", err.Error())
		}
		log.Println("Quote preview failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote preview failed", "QUOTE_PREVIEW_FAILED", nil)
	}

	middleware.RecordQuotePreview()
	return h.SuccessResponse(c, fiber.StatusOK, "Quote computed", result)
}

// clientMetadata collects the request's client information for audit logging
// and rate limiting
func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		metadata.SetRequestID(requestID)
	}
	return metadata
}

// requestContext bounds downstream work to a fixed budget per request
func requestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	return ctx, cancel
}
