package usecase

import (
	"context"

	"go.uber.org/zap"

	"restaurant/internal/domain"
	"restaurant/internal/dto"
	"restaurant/internal/pricing"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
}

type OrderItemRepository interface {
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type GetOrderUseCase struct {
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	logger        *zap.Logger
}

func NewGetOrderUseCase(orderRepo OrderRepository, orderItemRepo OrderItemRepository, logger *zap.Logger) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		logger:        logger,
	}
}

// GetOrder returns the stored header with its items. Subtotal, tax and total
// are recomputed from the items; the header total is reported as StoredTotal.
func (uc *GetOrderUseCase) GetOrder(ctx context.Context, id uint) (*dto.OrderView, error) {
	order, err := uc.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := uc.orderItemRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	totals := pricing.Compute(domain.PricingLines(items))
	if !totals.Total.Equal(order.Total) {
		uc.logger.Warn("stored order total differs from items",
			zap.Uint("orderId", order.ID),
			zap.String("storedTotal", order.Total.StringFixed(2)),
			zap.String("computedTotal", totals.Total.StringFixed(2)),
		)
	}

	views := make([]dto.OrderItemView, len(items))
	for i, item := range items {
		views[i] = dto.OrderItemView{
			ID:       item.ID,
			OrderID:  item.OrderID,
			Item:     item.Name,
			Quantity: item.Quantity,
			Size:     item.Size,
			Sides:    item.Sides,
			Price:    item.Price.InexactFloat64(),
		}
	}

	return &dto.OrderView{
		ID:                 order.ID,
		Name:               order.Name,
		Phone:              order.Phone,
		StoredTotal:        order.Total.InexactFloat64(),
		Time:               order.CreatedAt,
		ConfirmationNumber: order.ConfirmationNumber,
		Items:              views,
		Subtotal:           totals.SubtotalFloat(),
		Tax:                totals.TaxFloat(),
		Total:              totals.TotalFloat(),
	}, nil
}
