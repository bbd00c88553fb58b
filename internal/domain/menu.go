package domain

import "github.com/shopspring/decimal"

// MenuRow is one row of menu.csv, cells already trimmed.
type MenuRow struct {
	Line        int
	Category    string
	Alias       string
	Item        string
	Description string
	Size        string
	Price       string
	MainSide    string
	ComboSide   string
}

// Side is an add-on offered with items that allow main or combo sides.
type Side struct {
	Name  string
	Price decimal.Decimal
}
