package order

import (
	"database/sql"

	"go.uber.org/zap"

	"restaurant/internal/config"
	"restaurant/internal/order/controller"
	orderrepo "restaurant/internal/order/repository"
	"restaurant/internal/order/service"
	"restaurant/internal/order/usecase"
)

// NewModule builds the order HTTP controller. idempotency and publisher are
// optional and may be nil.
func NewModule(
	db *sql.DB,
	cfg *config.Config,
	logger *zap.Logger,
	idempotency usecase.IdempotencyStore,
	publisher usecase.EventPublisher,
) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)

	orderSvc := service.NewOrderService(
		db,
		orderRepo,
		orderItemRepo,
		logger,
		cfg.Order.TxTimeout,
		cfg.Order.MaxConfirmationAttempts,
	)

	createUC := usecase.NewCreateOrderUseCase(orderSvc, idempotency, publisher, logger)
	getUC := usecase.NewGetOrderUseCase(orderRepo, orderItemRepo, logger)

	return controller.NewOrderController(createUC, getUC, logger)
}
