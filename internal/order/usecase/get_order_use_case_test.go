package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"restaurant/internal/domain"
	apperrors "restaurant/internal/errors"
)

type mockOrderRepository struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Order, error)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockOrderItemRepository struct {
	FindByOrderIDFunc func(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

func (m *mockOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	return m.FindByOrderIDFunc(ctx, orderID)
}

func storedOrder(total string) *mockOrderRepository {
	return &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{
				ID:                 id,
				Name:               "John",
				Phone:              "5551234567",
				Total:              decimal.RequireFromString(total),
				CreatedAt:          time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC),
				ConfirmationNumber: "ORD-1710441000000-123",
			}, nil
		},
	}
}

func storedItems() *mockOrderItemRepository {
	return &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			return []domain.OrderItem{
				{ID: 1, OrderID: orderID, Name: "1. Pho", Size: "Large", Sides: domain.Sides{"Rice"}, Quantity: 2, Price: decimal.RequireFromString("10.00")},
				{ID: 2, OrderID: orderID, Name: "2. Spring Rolls", Sides: domain.Sides{}, Quantity: 1, Price: decimal.RequireFromString("5.00")},
			}, nil
		},
	}
}

func TestGetOrder_RecomputesTotals(t *testing.T) {
	uc := NewGetOrderUseCase(storedOrder("27.00"), storedItems(), zap.NewNop())

	view, err := uc.GetOrder(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, uint(42), view.ID)
	assert.Equal(t, "John", view.Name)
	assert.Equal(t, "ORD-1710441000000-123", view.ConfirmationNumber)
	assert.Equal(t, 27.0, view.StoredTotal)
	assert.Equal(t, 25.0, view.Subtotal)
	assert.Equal(t, 2.0, view.Tax)
	assert.Equal(t, 27.0, view.Total)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "1. Pho", view.Items[0].Item)
	assert.Equal(t, uint(42), view.Items[0].OrderID)
	assert.Equal(t, 10.0, view.Items[0].Price)
}

func TestGetOrder_WarnsOnStoredTotalMismatch(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	uc := NewGetOrderUseCase(storedOrder("30.00"), storedItems(), zap.New(core))

	view, err := uc.GetOrder(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 30.0, view.StoredTotal)
	assert.Equal(t, 27.0, view.Total)
	assert.Equal(t, 1, logs.FilterMessage("stored order total differs from items").Len())
}

func TestGetOrder_NotFound(t *testing.T) {
	orderRepo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order with id 9999 not found")
		},
	}
	itemRepo := &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			t.Fatal("items must not be loaded for a missing order")
			return nil, nil
		},
	}

	view, err := NewGetOrderUseCase(orderRepo, itemRepo, zap.NewNop()).GetOrder(context.Background(), 9999)
	assert.Nil(t, view)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestGetOrder_ItemsError(t *testing.T) {
	itemRepo := &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			return nil, errors.New("timeout")
		},
	}

	_, err := NewGetOrderUseCase(storedOrder("27.00"), itemRepo, zap.NewNop()).GetOrder(context.Background(), 1)
	assert.EqualError(t, err, "timeout")
}

func TestGetOrder_MatchesCreationTotals(t *testing.T) {
	calls := 0
	create := NewCreateOrderUseCase(savingPersistence(&calls), nil, nil, zap.NewNop())
	created, err := create.CreateOrder(context.Background(), referenceRequest(), "")
	require.NoError(t, err)

	view, err := NewGetOrderUseCase(storedOrder("27.00"), storedItems(), zap.NewNop()).GetOrder(context.Background(), created.OrderID)
	require.NoError(t, err)

	assert.Equal(t, created.Subtotal, view.Subtotal)
	assert.Equal(t, created.Tax, view.Tax)
	assert.Equal(t, created.Total, view.Total)
}
