package catalog

import (
	"context"
	"os"

	"go.uber.org/zap"

	"restaurant/internal/catalog/repository"
)

// LoadDir reads menu.csv, main_sides.csv and combo_sides.csv from dir.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	repo := repository.NewCSVRepository(os.DirFS(dir))
	return NewService(repo).Load(ctx)
}

func NewModule(ctx context.Context, dir string, logger *zap.Logger) (*Controller, error) {
	catalog, err := LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	logger.Info("menu loaded",
		zap.String("dir", dir),
		zap.Int("items", len(catalog.Items)),
		zap.Int("categories", len(catalog.Categories)),
	)

	uc := NewMenuUseCase(catalog)
	return NewController(uc, logger), nil
}
