package catalog

import (
	"context"

	"restaurant/internal/domain"
)

type MenuUseCase interface {
	GetMenu(ctx context.Context) (*MenuResponse, error)
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
}

type Service interface {
	Load(ctx context.Context) (*Catalog, error)
}

type Repository interface {
	MenuRows(ctx context.Context) ([]domain.MenuRow, error)
	MainSides(ctx context.Context) ([]domain.Side, error)
	ComboSides(ctx context.Context) ([]domain.Side, error)
}
