package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant/internal/domain"
)

const (
	MenuFile       = "menu.csv"
	MainSidesFile  = "main_sides.csv"
	ComboSidesFile = "combo_sides.csv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVRepository reads the menu spreadsheets exported by the restaurant.
type CSVRepository struct {
	fsys fs.FS
}

func NewCSVRepository(fsys fs.FS) *CSVRepository {
	return &CSVRepository{fsys: fsys}
}

// MenuRows returns every row of menu.csv that names an item.
func (r *CSVRepository) MenuRows(ctx context.Context) ([]domain.MenuRow, error) {
	records, err := r.readFile(ctx, MenuFile)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.MenuRow, 0, len(records))
	for _, rec := range records {
		row := domain.MenuRow{
			Line:        rec.line,
			Category:    rec.get("Category"),
			Alias:       rec.get("Alias"),
			Item:        rec.get("Item"),
			Description: rec.get("Description"),
			Size:        rec.get("Size"),
			Price:       rec.get("Price"),
			MainSide:    rec.get("Main_Side"),
			ComboSide:   rec.get("Combo_Side"),
		}
		if row.Item == "" {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (r *CSVRepository) MainSides(ctx context.Context) ([]domain.Side, error) {
	return r.sides(ctx, MainSidesFile)
}

func (r *CSVRepository) ComboSides(ctx context.Context) ([]domain.Side, error) {
	return r.sides(ctx, ComboSidesFile)
}

func (r *CSVRepository) sides(ctx context.Context, name string) ([]domain.Side, error) {
	records, err := r.readFile(ctx, name)
	if err != nil {
		return nil, err
	}

	sides := make([]domain.Side, 0, len(records))
	for _, rec := range records {
		sideName := rec.get("Name")
		if sideName == "" {
			continue
		}

		price := decimal.Zero
		if raw := strings.TrimPrefix(rec.get("Price"), "$"); raw != "" {
			price, err = decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid price %q", name, rec.line, rec.get("Price"))
			}
		}

		sides = append(sides, domain.Side{Name: sideName, Price: price})
	}

	return sides, nil
}

type record struct {
	line   int
	header map[string]int
	cells  []string
}

func (r record) get(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r *CSVRepository) readFile(ctx context.Context, name string) ([]record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", name, err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.TrimSpace(col)] = i
	}

	var records []record
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		if blank(cells) {
			continue
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, header: columns, cells: cells})
	}

	return records, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
