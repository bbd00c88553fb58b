package dto

import "restaurant/internal/domain"

type CreateOrderRequest struct {
	Name  string      `json:"name"`
	Phone string      `json:"phone"`
	Items []OrderLine `json:"items"`
}

// OrderLine is one line of an order as it travels over the wire.
type OrderLine struct {
	Item     string       `json:"item"`
	Quantity int          `json:"quantity"`
	Size     string       `json:"size"`
	Sides    domain.Sides `json:"sides"`
	Price    float64      `json:"price"`
}
