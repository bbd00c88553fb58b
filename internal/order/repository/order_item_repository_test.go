package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant/internal/domain"
	"restaurant/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderItemRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderItemRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestOrderItemRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items (order_id, item_name, quantity, size, sides, price) VALUES (?, ?, ?, ?, ?, ?)`)).
		WithArgs(100, "12. Combo Plate", 2, "Large", `["Rice","Beans"]`, "10.50").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	item, err := NewMySQLOrderItemRepository(db).Insert(context.Background(), tx, domain.OrderItem{
		OrderID:  100,
		Name:     "12. Combo Plate",
		Size:     "Large",
		Sides:    domain.Sides{"Rice", "Beans"},
		Quantity: 2,
		Price:    decimal.RequireFromString("10.5"),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint(5), item.ID)
	assert.Equal(t, uint(100), item.OrderID)
	assert.Equal(t, domain.Sides{"Rice", "Beans"}, item.Sides)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemRepository_Insert_NilSidesStoredAsEmptyArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(1, "3. Soda", 1, "", "[]", "2.00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	item, err := NewMySQLOrderItemRepository(db).Insert(context.Background(), tx, domain.OrderItem{
		OrderID:  1,
		Name:     "3. Soda",
		Quantity: 1,
		Price:    decimal.RequireFromString("2"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Sides{}, item.Sides)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemRepository_Insert_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = NewMySQLOrderItemRepository(db).Insert(context.Background(), tx, domain.OrderItem{OrderID: 1, Name: "x", Quantity: 1})
	assert.ErrorContains(t, err, "inserting order item")
	require.NoError(t, tx.Rollback())
}

func TestOrderItemRepository_FindByOrderID_Mocked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "order_id", "item_name", "quantity", "size", "sides", "price"}).
		AddRow(1, 7, "1. Pho", 2, "Large", []byte(`["Extra Noodles"]`), "10.00").
		AddRow(2, 7, "2. Spring Rolls", 1, "", []byte(`[]`), "5.00")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WithArgs(7).
		WillReturnRows(rows)

	items, err := NewMySQLOrderItemRepository(db).FindByOrderID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1. Pho", items[0].Name)
	assert.Equal(t, domain.Sides{"Extra Noodles"}, items[0].Sides)
	assert.Equal(t, "10", items[0].Price.String())
	assert.Equal(t, domain.Sides{}, items[1].Sides)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemRepository_FindByOrderID_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "item_name", "quantity", "size", "sides", "price"}))

	items, err := NewMySQLOrderItemRepository(db).FindByOrderID(context.Background(), 8)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

// Integration Tests

func TestOrderItemRepository_InsertAndFindByOrderID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t)
	defer testutil.CleanupTestDB(t, db)

	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	order, err := NewMySQLOrderRepository(db).Insert(ctx, tx, "Jane", "5559876543", decimal.RequireFromString("16.20"), "ORD-TEST-ITEMS")
	require.NoError(t, err)

	repo := NewMySQLOrderItemRepository(db)
	_, err = repo.Insert(ctx, tx, domain.OrderItem{
		OrderID: order.ID, Name: "1. Pho", Size: "Large", Sides: domain.Sides{"Extra Noodles"},
		Quantity: 1, Price: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, tx, domain.OrderItem{
		OrderID: order.ID, Name: "2. Spring Rolls", Quantity: 1, Price: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	items, err := repo.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1. Pho", items[0].Name)
	assert.Equal(t, domain.Sides{"Extra Noodles"}, items[0].Sides)
	assert.Equal(t, "2. Spring Rolls", items[1].Name)
	assert.Equal(t, domain.Sides{}, items[1].Sides)
}
