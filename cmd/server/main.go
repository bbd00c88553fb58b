package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"restaurant/internal/catalog"
	"restaurant/internal/commons"
	"restaurant/internal/config"
	"restaurant/internal/infrastructure/broker"
	"restaurant/internal/infrastructure/logger"
	"restaurant/internal/infrastructure/migrations"
	"restaurant/internal/infrastructure/mysql"
	"restaurant/internal/infrastructure/redis"
	"restaurant/internal/order"
	"restaurant/internal/order/events"
	"restaurant/internal/order/usecase"
	"restaurant/internal/server"
)

func main() {
	configPath := pflag.String("config", "", "YAML config file applied on top of the environment")
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log, "restaurant-api")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Database.AutoMigrate {
		if err := migrations.Run(mysql.DSN(cfg.Database), zapLogger); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	startCtx, startCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer startCancel()

	var idempotency usecase.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(startCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer client.Close()
		idempotency = redis.NewIdempotencyStore(client, cfg.Order.IdempotencyTTL)
		zapLogger.Info("idempotency keys enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher usecase.EventPublisher
	if cfg.Broker.URL != "" {
		conn, err := broker.Dial(cfg.Broker.URL)
		if err != nil {
			zapLogger.Fatal("connecting to broker", zap.Error(err))
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			zapLogger.Fatal("creating order event publisher", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub
		zapLogger.Info("order events enabled", zap.String("queue", events.OrderCreatedQueue))
	}

	modules := []server.Module{
		order.NewModule(db, cfg, zapLogger, idempotency, publisher),
	}

	if cfg.Menu.Dir != "" {
		menuCtrl, err := catalog.NewModule(startCtx, cfg.Menu.Dir, zapLogger)
		if err != nil {
			zapLogger.Fatal("loading menu", zap.String("dir", cfg.Menu.Dir), zap.Error(err))
		}
		modules = append(modules, menuCtrl)
	}

	router := server.NewRouter(zapLogger, cfg.Server.CORSOrigins, modules...)
	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
