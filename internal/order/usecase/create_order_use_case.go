package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restaurant/internal/domain"
	"restaurant/internal/dto"
	apperrors "restaurant/internal/errors"
	"restaurant/internal/order/events"
	"restaurant/internal/pricing"
)

const (
	maxOrderItems   = 100
	maxItemQuantity = 999

	// Column limits of the orders and order_items tables.
	maxNameLength     = 100
	maxPhoneLength    = 30
	maxItemNameLength = 255
	maxSizeLength     = 50
	priceDecimals     = 2

	releaseTimeout = 2 * time.Second
)

// maxAmount is the largest value a DECIMAL(10,2) column holds.
var maxAmount = decimal.RequireFromString("99999999.99")

type OrderPersistenceService interface {
	SaveOrder(ctx context.Context, name, phone string, total decimal.Decimal, items []domain.OrderItem) (*domain.Order, []domain.OrderItem, error)
}

type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, ev events.OrderCreated) error
}

type CreateOrderUseCase struct {
	persistence OrderPersistenceService
	idempotency IdempotencyStore
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewCreateOrderUseCase wires the use case. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewCreateOrderUseCase(
	persistence OrderPersistenceService,
	idempotency IdempotencyStore,
	publisher EventPublisher,
	logger *zap.Logger,
) *CreateOrderUseCase {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CreateOrderUseCase{
		persistence: persistence,
		idempotency: idempotency,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error) {
	if err := validateCreateOrderRequest(req); err != nil {
		uc.logger.Warn("order rejected", zap.Error(err))
		return nil, err
	}

	if idempotencyKey != "" && uc.idempotency != nil {
		reserved, err := uc.idempotency.Reserve(ctx, idempotencyKey)
		switch {
		case err != nil:
			// Redis trouble must not block checkout.
			uc.logger.Warn("idempotency check skipped", zap.String("idempotencyKey", idempotencyKey), zap.Error(err))
			idempotencyKey = ""
		case !reserved:
			uc.logger.Warn("duplicate order submission", zap.String("idempotencyKey", idempotencyKey))
			return nil, apperrors.NewConflictError("an order with this Idempotency-Key was already submitted")
		}
	}

	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)

	items := make([]domain.OrderItem, len(req.Items))
	for i, line := range req.Items {
		sides := line.Sides
		if sides == nil {
			sides = domain.Sides{}
		}
		items[i] = domain.OrderItem{
			Name:     strings.TrimSpace(line.Item),
			Size:     strings.TrimSpace(line.Size),
			Sides:    sides,
			Quantity: line.Quantity,
			Price:    pricing.Price(line.Price),
		}
	}

	totals := pricing.Compute(domain.PricingLines(items))

	order, stored, err := uc.persistence.SaveOrder(ctx, name, phone, totals.Total, items)
	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		uc.logger.Error("order creation failed", zap.String("name", name), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create order", err)
	}

	uc.logger.Info("order created",
		zap.Uint("orderId", order.ID),
		zap.String("confirmationNumber", order.ConfirmationNumber),
		zap.String("total", totals.Total.StringFixed(2)),
	)

	lines := toOrderLines(stored)
	resp := &dto.CreateOrderResponse{
		OrderID:            order.ID,
		ConfirmationNumber: order.ConfirmationNumber,
		Name:               order.Name,
		Phone:              order.Phone,
		Items:              lines,
		Subtotal:           totals.SubtotalFloat(),
		Tax:                totals.TaxFloat(),
		Total:              totals.TotalFloat(),
	}

	ev := events.OrderCreated{
		OrderID:            order.ID,
		ConfirmationNumber: order.ConfirmationNumber,
		Name:               order.Name,
		Items:              lines,
		Subtotal:           resp.Subtotal,
		Tax:                resp.Tax,
		Total:              resp.Total,
		Timestamp:          order.CreatedAt,
	}
	if err := uc.publisher.PublishOrderCreated(ctx, ev); err != nil {
		uc.logger.Warn("failed to publish order created event", zap.Uint("orderId", order.ID), zap.Error(err))
	}

	return resp, nil
}

// releaseKey frees the key even when the request context is already done.
func (uc *CreateOrderUseCase) releaseKey(ctx context.Context, key string) {
	if key == "" || uc.idempotency == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := uc.idempotency.Release(ctx, key); err != nil {
		uc.logger.Warn("failed to release idempotency key", zap.String("idempotencyKey", key), zap.Error(err))
	}
}

func toOrderLines(items []domain.OrderItem) []dto.OrderLine {
	lines := make([]dto.OrderLine, len(items))
	for i, item := range items {
		lines[i] = dto.OrderLine{
			Item:     item.Name,
			Quantity: item.Quantity,
			Size:     item.Size,
			Sides:    item.Sides,
			Price:    item.Price.InexactFloat64(),
		}
	}
	return lines
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	case utf8.RuneCountInString(name) > maxNameLength:
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: fmt.Sprintf("name must be at most %d characters", maxNameLength),
		})
	}

	phone := strings.TrimSpace(req.Phone)
	switch {
	case phone == "":
		details = append(details, apperrors.ValidationDetail{
			Field:   "phone",
			Message: "phone is required",
		})
	case utf8.RuneCountInString(phone) > maxPhoneLength:
		details = append(details, apperrors.ValidationDetail{
			Field:   "phone",
			Message: fmt.Sprintf("phone must be at most %d characters", maxPhoneLength),
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxOrderItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: fmt.Sprintf("items exceeds maximum of %d", maxOrderItems),
		})
	}

	itemsValid := true
	for idx, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", idx)
		before := len(details)

		itemName := strings.TrimSpace(item.Item)
		switch {
		case itemName == "":
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".item",
				Message: "item is required",
			})
		case utf8.RuneCountInString(itemName) > maxItemNameLength:
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".item",
				Message: fmt.Sprintf("item must be at most %d characters", maxItemNameLength),
			})
		}

		if utf8.RuneCountInString(strings.TrimSpace(item.Size)) > maxSizeLength {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".size",
				Message: fmt.Sprintf("size must be at most %d characters", maxSizeLength),
			})
		}

		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".quantity",
				Message: fmt.Sprintf("quantity must be between 1 and %d", maxItemQuantity),
			})
		}

		if msg := checkPrice(item.Price); msg != "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".price",
				Message: msg,
			})
		}

		if len(details) > before {
			itemsValid = false
		}
	}

	// The stored total must fit the same column type as the prices.
	if itemsValid && len(req.Items) > 0 && len(req.Items) <= maxOrderItems {
		items := make([]domain.OrderItem, len(req.Items))
		for i, line := range req.Items {
			items[i] = domain.OrderItem{Quantity: line.Quantity, Price: pricing.Price(line.Price)}
		}
		if pricing.Compute(domain.PricingLines(items)).Total.GreaterThan(maxAmount) {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items",
				Message: fmt.Sprintf("order total must not exceed %s", maxAmount.StringFixed(priceDecimals)),
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

// checkPrice returns why price cannot be stored exactly in a DECIMAL(10,2)
// column, or "" when it can.
func checkPrice(price float64) string {
	if price < 0 {
		return "price must be non-negative"
	}
	p := pricing.Price(price)
	if p.GreaterThan(maxAmount) {
		return fmt.Sprintf("price must not exceed %s", maxAmount.StringFixed(priceDecimals))
	}
	if p.Exponent() < -priceDecimals {
		return fmt.Sprintf("price must have at most %d decimal places", priceDecimals)
	}
	return ""
}
