package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/link360/pool-api/app/dto"
	businessflow "github.com/link360/pool-api/business_flow"
)

// PoolHandlerInterface defines the contract for public pool handlers
type PoolHandlerInterface interface {
	ListPools(c fiber.Ctx) error
	GetPool(c fiber.Ctx) error
}

// PoolHandler implements PoolHandlerInterface
type PoolHandler struct {
	flow businessflow.PoolFlow
}

// NewPoolHandler creates a new pool handler
func NewPoolHandler(flow businessflow.PoolFlow) PoolHandlerInterface {
	return &PoolHandler{flow: flow}
}

// ErrorResponse standard JSON error
func (h *PoolHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *PoolHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListPools returns the publicly visible pools with their fill stats
// @Summary List pools
// @Description List public pools with pledge counts and fill percentages
// @Tags Pools
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListPoolsResponse} "Pools listed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pools [get]
func (h *PoolHandler) ListPools(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.ListPools(ctx, clientMetadata(c))
	if err != nil {
		log.Println("Pool listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list pools", "POOL_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pools listed", result)
}

// GetPool returns a single pool by UUID
// @Summary Get pool
// @Description Fetch one pool with its fill stats
// @Tags Pools
// @Produce json
// @Param uuid path string true "Pool UUID"
// @Success 200 {object} dto.APIResponse{data=dto.PoolDTO} "Pool found"
// @Failure 404 {object} dto.APIResponse "Pool not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pools/{uuid} [get]
func (h *PoolHandler) GetPool(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.flow.GetPool(ctx, c.Params("uuid"), clientMetadata(c))
	if err != nil {
		if businessflow.IsPoolNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pool not found", "POOL_NOT_FOUND", nil)
		}
		log.Println("Pool lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch pool", "POOL_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pool found", result)
}
