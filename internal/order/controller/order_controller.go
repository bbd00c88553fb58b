package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"restaurant/internal/dto"
	apperrors "restaurant/internal/errors"
)

const (
	requestIDHeader      = "X-Request-Id"
	idempotencyKeyHeader = "Idempotency-Key"
)

type CreateOrderUseCase interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error)
}

type GetOrderUseCase interface {
	GetOrder(ctx context.Context, id uint) (*dto.OrderView, error)
}

type OrderController struct {
	createUseCase CreateOrderUseCase
	getUseCase    GetOrderUseCase
	logger        *zap.Logger
}

func NewOrderController(createUseCase CreateOrderUseCase, getUseCase GetOrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		logger:        logger,
	}
}

func (c *OrderController) Routes(r chi.Router) {
	r.Post("/api/orders", c.CreateOrder)
	r.Get("/api/orders/{id}", c.GetOrder)
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := traceIDFrom(r)
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	resp, err := c.createUseCase.CreateOrder(r.Context(), req, r.Header.Get(idempotencyKeyHeader))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, resp)
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := traceIDFrom(r)
	logger := c.logger.With(zap.String("traceId", traceID))

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		logger.Warn("invalid order id in path", zap.String("id", idStr))
		c.writeValidationError(w, traceID, "invalid order id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return
	}

	view, err := c.getUseCase.GetOrder(r.Context(), uint(id))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, view)
}

func (c *OrderController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, dto.ErrorResponse{Error: "NOT_FOUND", Message: nfe.Message, TraceID: traceID})
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, dto.ErrorResponse{Error: "CONFLICT", Message: ce.Message, TraceID: traceID})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
		TraceID: traceID,
	})
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeError(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
		TraceID: traceID,
	})
}

func (c *OrderController) writeError(w http.ResponseWriter, status int, resp dto.ErrorResponse) {
	c.writeJSON(w, status, resp)
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func traceIDFrom(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" {
		return id
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.New().String()
}
