package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restaurant/internal/domain"
	"restaurant/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, name, phone string, total decimal.Decimal, confirmationNumber string) (*domain.Order, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (*domain.OrderItem, error)
}

// ConfirmationNumber formats a customer facing order code: ORD-<unix millis>-<000..999>.
func ConfirmationNumber(now time.Time, suffix int) string {
	return fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), suffix%1000)
}

func randomConfirmationNumber() string {
	return ConfirmationNumber(time.Now(), rand.IntN(1000))
}

// OrderService writes an order header and its items atomically.
type OrderService struct {
	db               TransactionManager
	orderRepo        OrderRepository
	orderItemRepo    OrderItemRepository
	logger           *zap.Logger
	txTimeout        time.Duration
	maxAttempts      int
	nextConfirmation func() string
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxAttempts int,
) *OrderService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &OrderService{
		db:               db,
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		logger:           logger,
		txTimeout:        txTimeout,
		maxAttempts:      maxAttempts,
		nextConfirmation: randomConfirmationNumber,
	}
}

// SaveOrder stores the header and every item in one transaction. A
// confirmation number collision is retried with a fresh code; any other
// failure rolls back and nothing is visible.
func (s *OrderService) SaveOrder(
	ctx context.Context,
	name, phone string,
	total decimal.Decimal,
	items []domain.OrderItem,
) (*domain.Order, []domain.OrderItem, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		confirmation := s.nextConfirmation()

		order, stored, err := s.saveOnce(ctx, name, phone, total, confirmation, items)
		if err == nil {
			s.logger.Info("order persisted",
				zap.Uint("orderId", order.ID),
				zap.String("confirmationNumber", order.ConfirmationNumber),
				zap.Int("itemCount", len(stored)),
			)
			return order, stored, nil
		}

		if !mysql.IsDuplicateKey(err) {
			return nil, nil, err
		}

		lastErr = err
		s.logger.Warn("confirmation number collision, regenerating",
			zap.String("confirmationNumber", confirmation),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", s.maxAttempts),
		)
	}

	return nil, nil, fmt.Errorf("confirmation number still taken after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *OrderService) saveOnce(
	ctx context.Context,
	name, phone string,
	total decimal.Decimal,
	confirmation string,
	items []domain.OrderItem,
) (*domain.Order, []domain.OrderItem, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, nil, err
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	order, err := s.orderRepo.Insert(txCtx, tx, name, phone, total, confirmation)
	if err != nil {
		if !mysql.IsDuplicateKey(err) {
			s.logger.Error("failed to insert order", zap.Error(err))
		}
		return nil, nil, err
	}

	stored := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = order.ID
		saved, err := s.orderItemRepo.Insert(txCtx, tx, item)
		if err != nil {
			s.logger.Error("failed to insert order item",
				zap.Uint("orderId", order.ID),
				zap.String("item", item.Name),
				zap.Error(err),
			)
			return nil, nil, err
		}
		stored = append(stored, *saved)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", order.ID), zap.Error(err))
		return nil, nil, err
	}

	return order, stored, nil
}
