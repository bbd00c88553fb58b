package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"restaurant/internal/domain"
	apperrors "restaurant/internal/errors"
)

type MySQLOrderRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, now: time.Now}
}

// Insert stores an order header inside tx. The creation time is assigned
// here, not by the caller.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, name, phone string, total decimal.Decimal, confirmationNumber string) (*domain.Order, error) {
	query := `INSERT INTO orders (name, phone, total, time, confirmation_number) VALUES (?, ?, ?, ?, ?)`

	createdAt := r.now().UTC().Truncate(time.Millisecond)

	result, err := tx.ExecContext(ctx, query, name, phone, total.StringFixed(2), createdAt, confirmationNumber)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	return &domain.Order{
		ID:                 uint(lastInsertID),
		Name:               name,
		Phone:              phone,
		Total:              total,
		CreatedAt:          createdAt,
		ConfirmationNumber: confirmationNumber,
	}, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT id, name, phone, total, time, confirmation_number
		FROM orders
		WHERE id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.Name, &order.Phone, &order.Total,
		&order.CreatedAt, &order.ConfirmationNumber,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}
