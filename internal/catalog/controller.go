package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"restaurant/internal/domain"
	"restaurant/internal/dto"
	apperrors "restaurant/internal/errors"
)

type Controller struct {
	useCase MenuUseCase
	logger  *zap.Logger
}

func NewController(useCase MenuUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Get("/api/menu", c.HandleGetMenu)
	r.Get("/api/menu/quote", c.HandleQuote)
}

func (c *Controller) HandleGetMenu(w http.ResponseWriter, r *http.Request) {
	resp, err := c.useCase.GetMenu(r.Context())
	if err != nil {
		c.logger.Error("get menu failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

// HandleQuote prices a selection: ?item=C1&size=Large&sides=Fried Rice
func (c *Controller) HandleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := QuoteRequest{
		Item:  q.Get("item"),
		Size:  q.Get("size"),
		Sides: domain.ParseSides(q.Get("sides")),
	}

	if req.Item == "" {
		c.writeValidationError(w, "item is required", apperrors.ValidationDetail{
			Field:   "item",
			Message: "item is required",
		})
		return
	}

	resp, err := c.useCase.Quote(r.Context(), req)
	if err != nil {
		if ve, ok := apperrors.IsValidationError(err); ok {
			c.writeValidationError(w, ve.Message, ve.Details...)
			return
		}
		if nfe, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "NOT_FOUND", Message: nfe.Message})
			return
		}
		c.logger.Error("quote failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
