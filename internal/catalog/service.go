package catalog

import (
	"context"
	"fmt"
)

type catalogService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &catalogService{repo: repo}
}

func (s *catalogService) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.repo.MenuRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading menu: %w", err)
	}

	mainSides, err := s.repo.MainSides(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading main sides: %w", err)
	}

	comboSides, err := s.repo.ComboSides(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading combo sides: %w", err)
	}

	return Build(rows, mainSides, comboSides)
}
