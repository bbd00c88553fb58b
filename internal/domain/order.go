package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"restaurant/internal/pricing"
)

// Order is a finalized purchase. Orders are immutable once stored.
type Order struct {
	ID                 uint
	Name               string
	Phone              string
	Total              decimal.Decimal
	CreatedAt          time.Time
	ConfirmationNumber string
}

type OrderItem struct {
	ID       uint
	OrderID  uint
	Name     string
	Size     string
	Sides    Sides
	Quantity int
	Price    decimal.Decimal
}

func (i OrderItem) PricingLine() pricing.Line {
	return pricing.Line{UnitPrice: i.Price, Quantity: i.Quantity}
}

func PricingLines(items []OrderItem) []pricing.Line {
	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		lines[i] = item.PricingLine()
	}
	return lines
}
