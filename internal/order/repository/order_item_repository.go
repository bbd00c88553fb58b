package repository

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (*domain.OrderItem, error) {
	query := `INSERT INTO order_items (order_id, item_name, quantity, size, sides, price) VALUES (?, ?, ?, ?, ?, ?)`

	sides, err := item.Sides.Value()
	if err != nil {
		return nil, fmt.Errorf("encoding sides: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, item.OrderID, item.Name, item.Quantity, item.Size, sides, item.Price.StringFixed(2))
	if err != nil {
		return nil, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	stored := item
	stored.ID = uint(lastInsertID)
	if stored.Sides == nil {
		stored.Sides = domain.Sides{}
	}
	return &stored, nil
}

// FindByOrderID returns the items of an order in insertion order.
func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, item_name, quantity, size, sides, price
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.Name, &item.Quantity,
			&item.Size, &item.Sides, &item.Price,
		); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
