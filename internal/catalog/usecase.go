package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"restaurant/internal/domain"
	"restaurant/internal/pricing"
)

type menuUseCase struct {
	catalog *Catalog
}

func NewMenuUseCase(catalog *Catalog) MenuUseCase {
	return &menuUseCase{catalog: catalog}
}

func (uc *menuUseCase) GetMenu(ctx context.Context) (*MenuResponse, error) {
	categories := make([]CategoryDTO, len(uc.catalog.Categories))
	for i, c := range uc.catalog.Categories {
		categories[i] = CategoryDTO{Name: c.Name, Anchor: c.Anchor}
	}

	items := make([]MenuItemDTO, 0, len(uc.catalog.Items))
	for _, item := range uc.catalog.Items {
		sizes := make([]SizeDTO, len(item.Sizes))
		onRequest := len(item.Sizes) == 0 && item.Price == nil
		for i, s := range item.Sizes {
			sizes[i] = SizeDTO{Size: s.Size, Price: toFloat(s.Price)}
			if s.Price == nil {
				onRequest = true
			}
		}

		items = append(items, MenuItemDTO{
			Category:       item.Category,
			Alias:          item.Alias,
			Item:           item.Name,
			DisplayName:    item.DisplayName(),
			Description:    item.Description,
			Sizes:          sizes,
			Price:          toFloat(item.Price),
			PriceOnRequest: onRequest,
			MainSide:       item.MainSide,
			ComboSide:      item.ComboSide,
		})
	}

	return &MenuResponse{
		Categories: categories,
		Items:      items,
		MainSides:  toSideDTOs(uc.catalog.MainSides),
		ComboSides: toSideDTOs(uc.catalog.ComboSides),
		TaxRate:    pricing.TaxRate,
	}, nil
}

func (uc *menuUseCase) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	sel, err := uc.catalog.Quote(req.Item, req.Size, req.Sides)
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		Item:  sel.Name,
		Size:  sel.Size,
		Sides: sel.Sides,
		Price: sel.UnitPrice.InexactFloat64(),
	}, nil
}

func toFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func toSideDTOs(sides []domain.Side) []SideDTO {
	out := make([]SideDTO, len(sides))
	for i, s := range sides {
		out[i] = SideDTO{Name: s.Name, Price: s.Price.InexactFloat64()}
	}
	return out
}
