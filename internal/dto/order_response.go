package dto

import (
	"time"

	"restaurant/internal/domain"
	apperrors "restaurant/internal/errors"
)

type CreateOrderResponse struct {
	OrderID            uint        `json:"orderId"`
	ConfirmationNumber string      `json:"confirmation_number"`
	Name               string      `json:"name"`
	Phone              string      `json:"phone"`
	Items              []OrderLine `json:"items"`
	Subtotal           float64     `json:"subtotal"`
	Tax                float64     `json:"tax"`
	Total              float64     `json:"total"`
}

// OrderView is the stored order header spread with its items and totals
// recomputed from those items.
type OrderView struct {
	ID                 uint            `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	StoredTotal        float64         `json:"stored_total"`
	Time               time.Time       `json:"time"`
	ConfirmationNumber string          `json:"confirmation_number"`
	Items              []OrderItemView `json:"items"`
	Subtotal           float64         `json:"subtotal"`
	Tax                float64         `json:"tax"`
	Total              float64         `json:"total"`
}

type OrderItemView struct {
	ID       uint         `json:"id"`
	OrderID  uint         `json:"order_id"`
	Item     string       `json:"item"`
	Quantity int          `json:"quantity"`
	Size     string       `json:"size"`
	Sides    domain.Sides `json:"sides"`
	Price    float64      `json:"price"`
}

type ErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
	TraceID string                       `json:"traceId,omitempty"`
}
