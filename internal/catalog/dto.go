package catalog

import "restaurant/internal/domain"

type MenuResponse struct {
	Categories []CategoryDTO `json:"categories"`
	Items      []MenuItemDTO `json:"items"`
	MainSides  []SideDTO     `json:"mainSides"`
	ComboSides []SideDTO     `json:"comboSides"`
	TaxRate    float64       `json:"taxRate"`
}

type CategoryDTO struct {
	Name   string `json:"name"`
	Anchor string `json:"anchor"`
}

type MenuItemDTO struct {
	Category       string    `json:"category"`
	Alias          string    `json:"alias"`
	Item           string    `json:"item"`
	DisplayName    string    `json:"displayName"`
	Description    string    `json:"description"`
	Sizes          []SizeDTO `json:"sizes"`
	Price          *float64  `json:"price"`
	PriceOnRequest bool      `json:"priceOnRequest"`
	MainSide       bool      `json:"mainSide"`
	ComboSide      bool      `json:"comboSide"`
}

type SizeDTO struct {
	Size  string   `json:"size"`
	Price *float64 `json:"price"`
}

type SideDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type QuoteRequest struct {
	Item  string
	Size  string
	Sides domain.Sides
}

type QuoteResponse struct {
	Item  string       `json:"item"`
	Size  string       `json:"size"`
	Sides domain.Sides `json:"sides"`
	Price float64      `json:"price"`
}
