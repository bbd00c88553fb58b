// Package cart holds the customer's in-progress selections for one ordering
// session and hands them to the order API at checkout.
package cart

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant/internal/domain"
	"restaurant/internal/dto"
	apperrors "restaurant/internal/errors"
	"restaurant/internal/pricing"
)

const (
	minNameLength = 2
	phoneDigits   = 10
)

type Line struct {
	ID        int
	Name      string
	Size      string
	Sides     domain.Sides
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Total() decimal.Decimal {
	return pricing.LineTotal(l.pricingLine())
}

func (l Line) pricingLine() pricing.Line {
	return pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
}

func (l Line) matches(name, size string, sides domain.Sides) bool {
	return l.Name == name && l.Size == size && l.Sides.Equal(sides)
}

// Submitter sends a finished order to the order API.
type Submitter interface {
	SubmitOrder(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error)
}

// Cart is not safe for concurrent use; each session owns its own.
type Cart struct {
	lines  []Line
	nextID int
	// checkoutKey is reused across retries of an unchanged cart so the
	// server can reject a double submission.
	checkoutKey string
}

func New() *Cart {
	return &Cart{nextID: 1}
}

// Add puts one unit of a selection in the cart. A line with the same name,
// size and sides gains one unit instead of a new line being appended.
func (c *Cart) Add(name, size string, sides domain.Sides, price decimal.Decimal) Line {
	if sides == nil {
		sides = domain.Sides{}
	}
	c.checkoutKey = ""

	for i := range c.lines {
		if c.lines[i].matches(name, size, sides) {
			c.lines[i].Quantity++
			return c.lines[i]
		}
	}

	line := Line{
		ID:        c.nextID,
		Name:      name,
		Size:      size,
		Sides:     append(domain.Sides{}, sides...),
		UnitPrice: price,
		Quantity:  1,
	}
	c.nextID++
	c.lines = append(c.lines, line)
	return line
}

func (c *Cart) Remove(id int) bool {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.checkoutKey = ""
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// ChangeQuantity adds delta to a line. The line is removed when its quantity
// drops to zero or below; the second result reports whether it still exists.
func (c *Cart) ChangeQuantity(id, delta int) (Line, bool) {
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		c.checkoutKey = ""
		c.lines[i].Quantity += delta
		line := c.lines[i]
		if line.Quantity <= 0 {
			c.Remove(id)
			return line, false
		}
		return line, true
	}
	return Line{}, false
}

func (c *Cart) Items() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the number of units in the cart, not the number of lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Totals() pricing.Totals {
	lines := make([]pricing.Line, len(c.lines))
	for i, l := range c.lines {
		lines[i] = l.pricingLine()
	}
	return pricing.Compute(lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Reset() {
	c.lines = nil
	c.checkoutKey = ""
}

// ValidateCheckout returns the trimmed name and the phone reduced to its digits.
func (c *Cart) ValidateCheckout(name, phone string) (string, string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return "", "", apperrors.NewValidationError("Please enter a valid name (at least 2 characters).", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must be at least 2 characters",
		})
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) != phoneDigits {
		return "", "", apperrors.NewValidationError("Please enter exactly 10 digits for phone number.", apperrors.ValidationDetail{
			Field:   "phone",
			Message: "phone must contain exactly 10 digits",
		})
	}

	if c.IsEmpty() {
		return "", "", apperrors.NewValidationError("Your cart is empty. Please add items before checkout.", apperrors.ValidationDetail{
			Field:   "items",
			Message: "cart is empty",
		})
	}

	return name, digits, nil
}

// Request builds the order payload for the current cart contents.
func (c *Cart) Request(name, phone string) dto.CreateOrderRequest {
	items := make([]dto.OrderLine, len(c.lines))
	for i, l := range c.lines {
		items[i] = dto.OrderLine{
			Item:     l.Name,
			Quantity: l.Quantity,
			Size:     l.Size,
			Sides:    l.Sides,
			Price:    l.UnitPrice.InexactFloat64(),
		}
	}
	return dto.CreateOrderRequest{Name: name, Phone: phone, Items: items}
}

// Checkout validates the customer details, submits the order and empties the
// cart once the order API accepts it. On failure the cart is left intact.
func (c *Cart) Checkout(ctx context.Context, name, phone string, submitter Submitter) (*dto.CreateOrderResponse, error) {
	name, digits, err := c.ValidateCheckout(name, phone)
	if err != nil {
		return nil, err
	}

	if c.checkoutKey == "" {
		c.checkoutKey = uuid.NewString()
	}

	resp, err := submitter.SubmitOrder(ctx, c.Request(name, digits), c.checkoutKey)
	if err != nil {
		return nil, err
	}

	c.Reset()
	return resp, nil
}
