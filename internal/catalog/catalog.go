// Package catalog turns the restaurant's menu spreadsheets into the
// structured menu shown to customers and prices their selections.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant/internal/domain"
	apperrors "restaurant/internal/errors"
)

// DefaultSize is the size recorded for items sold in a single size.
const DefaultSize = "Regular"

const sidesFlag = "YES"

type Category struct {
	Name   string
	Anchor string
}

// SizeOption is one size of an item. A nil Price means price on request.
type SizeOption struct {
	Size  string
	Price *decimal.Decimal
}

type MenuItem struct {
	Category    string
	Alias       string
	Name        string
	Description string
	// Sizes is empty for items sold in one size; Price applies then.
	Sizes     []SizeOption
	Price     *decimal.Decimal
	MainSide  bool
	ComboSide bool
}

// DisplayName is the label carried by cart lines and order items.
func (i MenuItem) DisplayName() string {
	return DisplayName(i.Alias, i.Name)
}

func (i MenuItem) HasSides() bool {
	return i.MainSide || i.ComboSide
}

// BasePrice returns the price for size, or the first size when size is empty.
func (i MenuItem) BasePrice(size string) (*decimal.Decimal, string, error) {
	if len(i.Sizes) == 0 {
		if size != "" && !strings.EqualFold(size, DefaultSize) {
			return nil, "", apperrors.NewNotFoundError(fmt.Sprintf("%s has no size %q", i.DisplayName(), size))
		}
		return i.Price, DefaultSize, nil
	}

	if size == "" {
		return i.Sizes[0].Price, i.Sizes[0].Size, nil
	}
	for _, s := range i.Sizes {
		if strings.EqualFold(s.Size, size) {
			return s.Price, s.Size, nil
		}
	}
	return nil, "", apperrors.NewNotFoundError(fmt.Sprintf("%s has no size %q", i.DisplayName(), size))
}

type Catalog struct {
	Categories []Category
	Items      []MenuItem
	MainSides  []domain.Side
	ComboSides []domain.Side
}

func DisplayName(alias, item string) string {
	return alias + ". " + item
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Anchor turns a category name into a URL fragment: "Chef's Specials" -> "chef-s-specials".
func Anchor(category string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(category), "-"), "-")
}

type groupKey struct {
	category, alias, item, description, mainSide, comboSide string
}

// Build groups menu rows into items. Rows sharing category, alias, item,
// description and side flags are one item; rows with a Size become its
// size options. Items keep the order in which they first appear.
func Build(rows []domain.MenuRow, mainSides, comboSides []domain.Side) (*Catalog, error) {
	index := make(map[groupKey]int)
	items := make([]MenuItem, 0, len(rows))
	categories := make(map[string]struct{})

	for _, row := range rows {
		if row.Item == "" {
			continue
		}
		if row.Category != "" {
			categories[row.Category] = struct{}{}
		}

		price, err := parsePrice(row.Price)
		if err != nil {
			return nil, fmt.Errorf("menu line %d (%s): %w", row.Line, row.Item, err)
		}

		key := groupKey{row.Category, row.Alias, row.Item, row.Description, row.MainSide, row.ComboSide}
		i, ok := index[key]
		if !ok {
			items = append(items, MenuItem{
				Category:    row.Category,
				Alias:       row.Alias,
				Name:        row.Item,
				Description: row.Description,
				MainSide:    strings.EqualFold(row.MainSide, sidesFlag),
				ComboSide:   strings.EqualFold(row.ComboSide, sidesFlag),
			})
			i = len(items) - 1
			index[key] = i
		}

		item := &items[i]
		switch {
		case row.Size != "":
			item.Sizes = append(item.Sizes, SizeOption{Size: row.Size, Price: price})
			item.Price = nil
		case len(item.Sizes) == 0:
			item.Price = price
		}
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	cats := make([]Category, len(names))
	for i, name := range names {
		cats[i] = Category{Name: name, Anchor: Anchor(name)}
	}

	return &Catalog{
		Categories: cats,
		Items:      items,
		MainSides:  mainSides,
		ComboSides: comboSides,
	}, nil
}

// parsePrice returns nil for an empty or "Ask" price.
func parsePrice(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	if raw == "" || strings.EqualFold(raw, "ask") {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", raw)
	}
	return &price, nil
}

// Find looks an item up by display name ("C1. General Tso's Chicken") or by
// alias alone ("C1"), ignoring case.
func (c *Catalog) Find(name string) (*MenuItem, bool) {
	name = strings.TrimSpace(name)
	for i := range c.Items {
		item := &c.Items[i]
		if strings.EqualFold(item.DisplayName(), name) || (item.Alias != "" && strings.EqualFold(item.Alias, name)) {
			return item, true
		}
	}
	return nil, false
}

// Selection is a fully priced choice ready to go into a cart.
type Selection struct {
	Name      string
	Size      string
	Sides     domain.Sides
	UnitPrice decimal.Decimal
}

// Quote prices one unit of item in size with the chosen sides: the size (or
// flat) price plus each side's price. An empty size picks the first size.
// An item with side flags gets exactly one side from each flagged list; a
// list the customer did not choose from defaults to its first side.
func (c *Catalog) Quote(name, size string, sides []string) (*Selection, error) {
	item, ok := c.Find(name)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item %q not found", name))
	}

	base, resolvedSize, err := item.BasePrice(strings.TrimSpace(size))
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, apperrors.NewValidationError("price on request", apperrors.ValidationDetail{
			Field:   "price",
			Message: fmt.Sprintf("%s is priced on request, ask staff", item.DisplayName()),
		})
	}

	if len(sides) > 0 && !item.HasSides() {
		return nil, apperrors.NewValidationError("sides not offered", apperrors.ValidationDetail{
			Field:   "sides",
			Message: fmt.Sprintf("%s does not come with sides", item.DisplayName()),
		})
	}

	groups := c.sideGroups(item)
	chosen := make([]*domain.Side, len(groups))
	for _, s := range sides {
		gi, side, ok := findSide(groups, s)
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("side %q not offered with %s", s, item.DisplayName()))
		}
		if chosen[gi] != nil {
			return nil, apperrors.NewValidationError("one side per choice", apperrors.ValidationDetail{
				Field:   "sides",
				Message: fmt.Sprintf("choose one %s for %s", groups[gi].label, item.DisplayName()),
			})
		}
		chosen[gi] = side
	}

	unit := *base
	picked := make(domain.Sides, 0, len(groups))
	for gi, g := range groups {
		side := chosen[gi]
		if side == nil {
			if len(g.sides) == 0 {
				continue
			}
			side = &g.sides[0]
		}
		unit = unit.Add(side.Price)
		picked = append(picked, side.Name)
	}

	return &Selection{
		Name:      item.DisplayName(),
		Size:      resolvedSize,
		Sides:     picked,
		UnitPrice: unit,
	}, nil
}

type sideGroup struct {
	label string
	sides []domain.Side
}

// sideGroups lists the side lists item draws from, main before combo.
func (c *Catalog) sideGroups(item *MenuItem) []sideGroup {
	var groups []sideGroup
	if item.MainSide {
		groups = append(groups, sideGroup{label: "main side", sides: c.MainSides})
	}
	if item.ComboSide {
		groups = append(groups, sideGroup{label: "combo side", sides: c.ComboSides})
	}
	return groups
}

// findSide locates name in groups, ignoring case.
func findSide(groups []sideGroup, name string) (int, *domain.Side, bool) {
	name = strings.TrimSpace(name)
	for gi := range groups {
		for si := range groups[gi].sides {
			if strings.EqualFold(groups[gi].sides[si].Name, name) {
				return gi, &groups[gi].sides[si], true
			}
		}
	}
	return 0, nil, false
}
