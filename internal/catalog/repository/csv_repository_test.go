package repository

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestNewCSVRepository(t *testing.T) {
	fsys := fstest.MapFS{}
	repo := NewCSVRepository(fsys)

	assert.NotNil(t, repo)
}

func TestMenuRows_ParsesAndTrims(t *testing.T) {
	repo := NewCSVRepository(menuFS(map[string]string{
		MenuFile: "\ufeffCategory,Alias,Item,Description,Size,Price,Main_Side,Combo_Side\n" +
			"Soups , 1 , Wonton Soup , Pork dumplings in broth, Small, 3.50, ,\n" +
			"Soups,1,Wonton Soup,Pork dumplings in broth,Large,5.95,,\n" +
			"\n" +
			",,,,,,,\n" +
			"Entrees,C1,General Tso's Chicken,\"Spicy, crispy\",,10.95,YES,\n",
	}))

	rows, err := repo.MenuRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Soups", rows[0].Category)
	assert.Equal(t, "1", rows[0].Alias)
	assert.Equal(t, "Wonton Soup", rows[0].Item)
	assert.Equal(t, "Small", rows[0].Size)
	assert.Equal(t, "3.50", rows[0].Price)
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "Spicy, crispy", rows[2].Description)
	assert.Equal(t, "YES", rows[2].MainSide)
	assert.Equal(t, "", rows[2].ComboSide)
}

func TestMenuRows_SkipsRowsWithoutItem(t *testing.T) {
	repo := NewCSVRepository(menuFS(map[string]string{
		MenuFile: "Category,Alias,Item,Description,Size,Price,Main_Side,Combo_Side\n" +
			"Soups,1,,header only,,,,\n" +
			"Soups,2,Egg Drop Soup,,,2.50,,\n",
	}))

	rows, err := repo.MenuRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Egg Drop Soup", rows[0].Item)
}

func TestMenuRows_ShortRows(t *testing.T) {
	repo := NewCSVRepository(menuFS(map[string]string{
		MenuFile: "Category,Alias,Item,Description,Size,Price,Main_Side,Combo_Side\n" +
			"Drinks,D1,Soda\n",
	}))

	rows, err := repo.MenuRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Price)
}

func TestMenuRows_MissingFile(t *testing.T) {
	_, err := NewCSVRepository(fstest.MapFS{}).MenuRows(context.Background())
	assert.ErrorContains(t, err, "reading menu.csv")
}

func TestMenuRows_EmptyFile(t *testing.T) {
	rows, err := NewCSVRepository(menuFS(map[string]string{MenuFile: ""})).MenuRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSides(t *testing.T) {
	repo := NewCSVRepository(menuFS(map[string]string{
		MainSidesFile:  "\ufeffName,Price\nWhite Rice,0\nFried Rice, 1.50\n,2.00\nLo Mein,$2\n",
		ComboSidesFile: "Name,Price\nEgg Roll,\n",
	}))

	main, err := repo.MainSides(context.Background())
	require.NoError(t, err)
	require.Len(t, main, 3)
	assert.Equal(t, "White Rice", main[0].Name)
	assert.True(t, main[0].Price.IsZero())
	assert.Equal(t, "1.5", main[1].Price.String())
	assert.Equal(t, "Lo Mein", main[2].Name)
	assert.Equal(t, "2", main[2].Price.String())

	combo, err := repo.ComboSides(context.Background())
	require.NoError(t, err)
	require.Len(t, combo, 1)
	assert.True(t, combo[0].Price.IsZero())
}

func TestSides_InvalidPrice(t *testing.T) {
	repo := NewCSVRepository(menuFS(map[string]string{
		MainSidesFile: "Name,Price\nWhite Rice,free\n",
	}))

	_, err := repo.MainSides(context.Background())
	assert.ErrorContains(t, err, `main_sides.csv line 2: invalid price "free"`)
}

func TestReadFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVRepository(fstest.MapFS{}).MenuRows(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
