// Package kiosk is a line-oriented ordering terminal: it browses the menu,
// fills a cart and checks out against the order API.
package kiosk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restaurant/internal/cart"
	"restaurant/internal/catalog"
	"restaurant/internal/domain"
	"restaurant/internal/dto"
	apperrors "restaurant/internal/errors"
	"restaurant/internal/pricing"
)

const (
	minAddQuantity = 1
	maxAddQuantity = 99
	prompt         = "> "
)

const helpText = `commands:
  menu                                    show the menu
  add <item> [| size] [| sides] [| qty]   add an item, e.g. add C1 | | Fried Rice, Egg Roll | 2
  qty <line> <+n|-n>                      change a line's quantity
  rm <line>                               remove a line
  cart                                    show the cart and totals
  checkout <name> | <phone>               place the order
  status [order id]                       look up an order, the last one placed by default
  help                                    show this help
  quit                                    leave
`

// OrderAPI is the part of the order API the kiosk talks to.
type OrderAPI interface {
	cart.Submitter
	GetOrder(ctx context.Context, id uint) (*dto.OrderView, error)
}

type Kiosk struct {
	catalog     *catalog.Catalog
	cart        *cart.Cart
	orders      OrderAPI
	out         io.Writer
	logger      *zap.Logger
	lastOrderID uint
}

func New(c *catalog.Catalog, orders OrderAPI, out io.Writer, logger *zap.Logger) *Kiosk {
	return &Kiosk{
		catalog: c,
		cart:    cart.New(),
		orders:  orders,
		out:     out,
		logger:  logger,
	}
}

// Run reads commands from in until quit, EOF or ctx is done.
func (k *Kiosk) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(k.out, prompt)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !k.Exec(ctx, scanner.Text()) {
			return nil
		}
		fmt.Fprint(k.out, prompt)
	}
	return scanner.Err()
}

// Exec runs one command line. It returns false when the session should end.
func (k *Kiosk) Exec(ctx context.Context, line string) bool {
	cmd, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(cmd) {
	case "":
	case "help", "?":
		fmt.Fprint(k.out, helpText)
	case "menu":
		k.printMenu()
	case "add":
		k.add(args)
	case "qty":
		k.changeQuantity(args)
	case "rm", "remove":
		k.remove(args)
	case "cart":
		k.printCart()
	case "checkout":
		k.checkout(ctx, args)
	case "status":
		k.status(ctx, args)
	case "quit", "exit":
		fmt.Fprintln(k.out, "bye")
		return false
	default:
		fmt.Fprintf(k.out, "unknown command %q, type help\n", cmd)
	}
	return true
}

func (k *Kiosk) printMenu() {
	for _, cat := range k.catalog.Categories {
		fmt.Fprintf(k.out, "== %s ==\n", cat.Name)
		for _, item := range k.catalog.Items {
			if item.Category != cat.Name {
				continue
			}
			fmt.Fprintf(k.out, "  %-36s %s\n", item.DisplayName(), itemPrice(item))
			if item.Description != "" {
				fmt.Fprintf(k.out, "      %s\n", item.Description)
			}
		}
	}
	printSides(k.out, "main sides", k.catalog.MainSides)
	printSides(k.out, "combo sides", k.catalog.ComboSides)
}

func itemPrice(item catalog.MenuItem) string {
	var s string
	if len(item.Sizes) == 0 {
		s = priceOrAsk(item.Price)
	} else {
		parts := make([]string, len(item.Sizes))
		for i, size := range item.Sizes {
			parts[i] = size.Size + " " + priceOrAsk(size.Price)
		}
		s = strings.Join(parts, " / ")
	}
	if item.HasSides() {
		s += " (with sides)"
	}
	return s
}

func priceOrAsk(p *decimal.Decimal) string {
	if p == nil {
		return "ask staff"
	}
	return money(*p)
}

func printSides(out io.Writer, title string, sides []domain.Side) {
	if len(sides) == 0 {
		return
	}
	fmt.Fprintf(out, "== %s ==\n", title)
	for _, s := range sides {
		if s.Price.IsZero() {
			fmt.Fprintf(out, "  %s\n", s.Name)
			continue
		}
		fmt.Fprintf(out, "  %s +%s\n", s.Name, money(s.Price))
	}
}

func (k *Kiosk) add(args string) {
	fields := splitPipe(args)
	if len(fields) == 0 || fields[0] == "" {
		fmt.Fprintln(k.out, "usage: add <item> [| size] [| sides] [| qty]")
		return
	}

	var size, sides string
	quantity := minAddQuantity
	if len(fields) > 1 {
		size = fields[1]
	}
	if len(fields) > 2 {
		sides = fields[2]
	}
	if len(fields) > 3 && fields[3] != "" {
		n, err := strconv.Atoi(fields[3])
		if err != nil {
			fmt.Fprintf(k.out, "invalid quantity %q\n", fields[3])
			return
		}
		quantity = clampQuantity(n)
	}

	sel, err := k.catalog.Quote(fields[0], size, domain.ParseSides(sides))
	if err != nil {
		k.printError(err)
		return
	}

	line := k.cart.Add(sel.Name, sel.Size, sel.Sides, sel.UnitPrice)
	if quantity > 1 {
		line, _ = k.cart.ChangeQuantity(line.ID, quantity-1)
	}
	fmt.Fprintf(k.out, "added %d x %s, cart has %d items\n", quantity, describe(line), k.cart.Count())
}

func clampQuantity(n int) int {
	return max(minAddQuantity, min(n, maxAddQuantity))
}

func (k *Kiosk) changeQuantity(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		fmt.Fprintln(k.out, "usage: qty <line> <+n|-n>")
		return
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		fmt.Fprintf(k.out, "invalid line %q\n", fields[0])
		return
	}
	delta, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(k.out, "invalid quantity change %q\n", fields[1])
		return
	}

	line, ok := k.cart.ChangeQuantity(id, delta)
	switch {
	case line.ID == 0:
		fmt.Fprintf(k.out, "no line %d in cart\n", id)
	case !ok:
		fmt.Fprintf(k.out, "removed %s\n", line.Name)
	default:
		fmt.Fprintf(k.out, "%s now x %d\n", line.Name, line.Quantity)
	}
}

func (k *Kiosk) remove(args string) {
	id, err := strconv.Atoi(args)
	if err != nil {
		fmt.Fprintln(k.out, "usage: rm <line>")
		return
	}
	if !k.cart.Remove(id) {
		fmt.Fprintf(k.out, "no line %d in cart\n", id)
		return
	}
	fmt.Fprintf(k.out, "removed line %d\n", id)
}

func (k *Kiosk) printCart() {
	if k.cart.IsEmpty() {
		fmt.Fprintln(k.out, "Your cart is empty.")
		return
	}
	for _, l := range k.cart.Items() {
		fmt.Fprintf(k.out, "#%d %d x %s  %s\n", l.ID, l.Quantity, describe(l), money(l.Total()))
	}
	totals := k.cart.Totals()
	fmt.Fprintf(k.out, "Subtotal: %s\nTax: %s\nTotal: %s\n", money(totals.Subtotal), money(totals.Tax), money(totals.Total))
}

func (k *Kiosk) checkout(ctx context.Context, args string) {
	fields := splitPipe(args)
	if len(fields) != 2 {
		fmt.Fprintln(k.out, "usage: checkout <name> | <phone>")
		return
	}

	resp, err := k.cart.Checkout(ctx, fields[0], fields[1], k.orders)
	if err != nil {
		if _, ok := apperrors.IsValidationError(err); !ok {
			k.logger.Warn("checkout failed", zap.Error(err))
		}
		k.printError(err)
		return
	}

	k.lastOrderID = resp.OrderID
	k.logger.Info("order placed",
		zap.Uint("orderId", resp.OrderID),
		zap.String("confirmationNumber", resp.ConfirmationNumber),
	)
	fmt.Fprintf(k.out, "Thank you, %s! Your order has been placed.\nConfirmation number: %s\nTotal: $%.2f\n",
		resp.Name, resp.ConfirmationNumber, resp.Total)
}

func (k *Kiosk) status(ctx context.Context, args string) {
	id := k.lastOrderID
	if args != "" {
		n, err := strconv.ParseUint(args, 10, 32)
		if err != nil || n == 0 {
			fmt.Fprintf(k.out, "invalid order id %q\n", args)
			return
		}
		id = uint(n)
	}
	if id == 0 {
		fmt.Fprintln(k.out, "no order placed yet, usage: status <order id>")
		return
	}

	view, err := k.orders.GetOrder(ctx, id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			k.logger.Warn("order lookup failed", zap.Uint("orderId", id), zap.Error(err))
		}
		k.printError(err)
		return
	}

	fmt.Fprintf(k.out, "Order #%d %s for %s\n", view.ID, view.ConfirmationNumber, view.Name)
	for _, item := range view.Items {
		line := pricing.Line{UnitPrice: pricing.Price(item.Price), Quantity: item.Quantity}
		desc := describe(cart.Line{Name: item.Item, Size: item.Size, Sides: item.Sides})
		fmt.Fprintf(k.out, "  %d x %s  %s\n", item.Quantity, desc, money(pricing.LineTotal(line)))
	}
	fmt.Fprintf(k.out, "Subtotal: $%.2f\nTax: $%.2f\nTotal: $%.2f\n", view.Subtotal, view.Tax, view.Total)
}

func (k *Kiosk) printError(err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		fmt.Fprintln(k.out, ve.Message)
		for _, d := range ve.Details {
			fmt.Fprintf(k.out, "  %s\n", d.Message)
		}
		return
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		fmt.Fprintln(k.out, nfe.Message)
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		fmt.Fprintln(k.out, "This order was already submitted.")
		return
	}
	fmt.Fprintln(k.out, "Sorry, something went wrong. Please try again.")
}

func describe(l cart.Line) string {
	s := l.Name + " (" + l.Size
	if len(l.Sides) > 0 {
		s += "; " + l.Sides.String()
	}
	return s + ")"
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func splitPipe(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
