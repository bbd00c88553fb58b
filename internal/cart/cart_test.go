package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant/internal/domain"
	"restaurant/internal/dto"
	apperrors "restaurant/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type mockSubmitter struct {
	SubmitOrderFunc func(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error)
	keys            []string
}

func (m *mockSubmitter) SubmitOrder(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error) {
	m.keys = append(m.keys, idempotencyKey)
	return m.SubmitOrderFunc(ctx, req, idempotencyKey)
}

func TestAdd_MergesIdenticalSelections(t *testing.T) {
	c := New()

	first := c.Add("1. Pho", "Large", domain.Sides{"Rice"}, d("10.00"))
	second := c.Add("1. Pho", "Large", domain.Sides{"Rice"}, d("10.00"))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.Count())
}

func TestAdd_DistinctSelectionsAppend(t *testing.T) {
	c := New()

	a := c.Add("1. Pho", "Large", domain.Sides{"Rice"}, d("10.00"))
	b := c.Add("1. Pho", "Small", domain.Sides{"Rice"}, d("8.00"))
	e := c.Add("1. Pho", "Large", domain.Sides{"Noodles"}, d("10.00"))
	f := c.Add("1. Pho", "Large", nil, d("10.00"))

	assert.Len(t, c.Items(), 4)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, e.ID)
	assert.Equal(t, domain.Sides{}, f.Sides)
	assert.Equal(t, 4, c.Count())
}

func TestAdd_SideOrderMatters(t *testing.T) {
	c := New()
	c.Add("C1. Combo", "Regular", domain.Sides{"Rice", "Egg Roll"}, d("10"))
	c.Add("C1. Combo", "Regular", domain.Sides{"Egg Roll", "Rice"}, d("10"))

	assert.Len(t, c.Items(), 2)
}

func TestAdd_CopiesSides(t *testing.T) {
	c := New()
	sides := domain.Sides{"Rice"}
	c.Add("1. Pho", "", sides, d("10"))
	sides[0] = "Changed"

	assert.Equal(t, domain.Sides{"Rice"}, c.Items()[0].Sides)
}

func TestChangeQuantity(t *testing.T) {
	c := New()
	line := c.Add("1. Pho", "", nil, d("10"))

	updated, ok := c.ChangeQuantity(line.ID, 2)
	require.True(t, ok)
	assert.Equal(t, 3, updated.Quantity)

	updated, ok = c.ChangeQuantity(line.ID, -1)
	require.True(t, ok)
	assert.Equal(t, 2, updated.Quantity)
}

func TestChangeQuantity_RemovesAtZero(t *testing.T) {
	for _, delta := range []int{-1, -5} {
		c := New()
		line := c.Add("1. Pho", "", nil, d("10"))

		_, ok := c.ChangeQuantity(line.ID, delta)
		assert.False(t, ok)
		assert.True(t, c.IsEmpty())
	}
}

func TestChangeQuantity_UnknownID(t *testing.T) {
	c := New()
	c.Add("1. Pho", "", nil, d("10"))

	_, ok := c.ChangeQuantity(99, 1)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Count())
}

func TestRemove(t *testing.T) {
	c := New()
	a := c.Add("1. Pho", "", nil, d("10"))
	b := c.Add("2. Rolls", "", nil, d("5"))

	assert.True(t, c.Remove(a.ID))
	assert.False(t, c.Remove(a.ID))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestIDsNotReusedAfterRemove(t *testing.T) {
	c := New()
	a := c.Add("1. Pho", "", nil, d("10"))
	c.Remove(a.ID)
	b := c.Add("2. Rolls", "", nil, d("5"))

	assert.NotEqual(t, a.ID, b.ID)
}

func TestTotals_ReferenceScenario(t *testing.T) {
	c := New()
	c.Add("1. Pho", "Large", nil, d("10.00"))
	c.Add("1. Pho", "Large", nil, d("10.00"))
	c.Add("2. Spring Rolls", "", nil, d("5.00"))

	totals := c.Totals()
	assert.True(t, totals.Subtotal.Equal(d("25.00")))
	assert.True(t, totals.Tax.Equal(d("2.00")))
	assert.True(t, totals.Total.Equal(d("27.00")))
	assert.True(t, c.Items()[0].Total().Equal(d("20")))
}

func TestTotals_Empty(t *testing.T) {
	totals := New().Totals()
	assert.True(t, totals.Total.IsZero())
}

func TestValidateCheckout(t *testing.T) {
	c := New()
	c.Add("1. Pho", "", nil, d("10"))

	name, phone, err := c.ValidateCheckout("  Jo  ", "(555) 123-4567")
	require.NoError(t, err)
	assert.Equal(t, "Jo", name)
	assert.Equal(t, "5551234567", phone)
}

func TestValidateCheckout_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		cust    string
		phone   string
		empty   bool
		field   string
		message string
	}{
		{name: "short name", cust: " J ", phone: "5551234567", field: "name", message: "Please enter a valid name (at least 2 characters)."},
		{name: "nine digits", cust: "Jo", phone: "555-123-456", field: "phone", message: "Please enter exactly 10 digits for phone number."},
		{name: "eleven digits", cust: "Jo", phone: "1 555 123 4567", field: "phone", message: "Please enter exactly 10 digits for phone number."},
		{name: "letters only", cust: "Jo", phone: "call me", field: "phone", message: "Please enter exactly 10 digits for phone number."},
		{name: "empty cart", cust: "Jo", phone: "5551234567", empty: true, field: "items", message: "Your cart is empty. Please add items before checkout."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			if !tt.empty {
				c.Add("1. Pho", "", nil, d("10"))
			}

			_, _, err := c.ValidateCheckout(tt.cust, tt.phone)
			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, ve.Message)
			assert.Equal(t, tt.field, ve.Details[0].Field)
		})
	}
}

func TestCheckout_SubmitsAndResets(t *testing.T) {
	c := New()
	c.Add("1. Pho", "Large", domain.Sides{"Rice"}, d("10.00"))
	c.Add("1. Pho", "Large", domain.Sides{"Rice"}, d("10.00"))
	c.Add("2. Spring Rolls", "Regular", nil, d("5.00"))

	var got dto.CreateOrderRequest
	sub := &mockSubmitter{
		SubmitOrderFunc: func(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error) {
			got = req
			return &dto.CreateOrderResponse{OrderID: 7, ConfirmationNumber: "ORD-1-001", Total: 27}, nil
		},
	}

	resp, err := c.Checkout(context.Background(), "John", "555.123.4567", sub)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1-001", resp.ConfirmationNumber)
	assert.Equal(t, "John", got.Name)
	assert.Equal(t, "5551234567", got.Phone)
	require.Len(t, got.Items, 2)
	assert.Equal(t, dto.OrderLine{Item: "1. Pho", Quantity: 2, Size: "Large", Sides: domain.Sides{"Rice"}, Price: 10}, got.Items[0])
	assert.NotEmpty(t, sub.keys[0])
	assert.True(t, c.IsEmpty())
}

func TestCheckout_FailureKeepsCartAndKey(t *testing.T) {
	c := New()
	c.Add("1. Pho", "", nil, d("10"))

	calls := 0
	sub := &mockSubmitter{
		SubmitOrderFunc: func(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection reset")
			}
			return &dto.CreateOrderResponse{OrderID: 1}, nil
		},
	}

	_, err := c.Checkout(context.Background(), "John", "5551234567", sub)
	assert.Error(t, err)
	assert.Equal(t, 1, c.Count())

	_, err = c.Checkout(context.Background(), "John", "5551234567", sub)
	require.NoError(t, err)
	require.Len(t, sub.keys, 2)
	assert.Equal(t, sub.keys[0], sub.keys[1])
}

func TestCheckout_ChangedCartGetsNewKey(t *testing.T) {
	c := New()
	c.Add("1. Pho", "", nil, d("10"))

	sub := &mockSubmitter{
		SubmitOrderFunc: func(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error) {
			return nil, errors.New("timeout")
		},
	}

	_, _ = c.Checkout(context.Background(), "John", "5551234567", sub)
	c.Add("2. Rolls", "", nil, d("5"))
	_, _ = c.Checkout(context.Background(), "John", "5551234567", sub)

	require.Len(t, sub.keys, 2)
	assert.NotEqual(t, sub.keys[0], sub.keys[1])
}

func TestCheckout_InvalidDoesNotSubmit(t *testing.T) {
	c := New()
	c.Add("1. Pho", "", nil, d("10"))

	sub := &mockSubmitter{
		SubmitOrderFunc: func(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error) {
			t.Fatal("must not submit an invalid checkout")
			return nil, nil
		},
	}

	_, err := c.Checkout(context.Background(), "J", "5551234567", sub)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.Count())
}
