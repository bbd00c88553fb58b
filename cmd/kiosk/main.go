package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"restaurant/internal/catalog"
	"restaurant/internal/client"
	"restaurant/internal/config"
	"restaurant/internal/infrastructure/logger"
	"restaurant/internal/kiosk"
)

func main() {
	menuDir := pflag.String("menu", "menu", "directory holding menu.csv, main_sides.csv and combo_sides.csv")
	apiURL := pflag.String("api", "http://localhost:8080", "order API base URL")
	timeout := pflag.Duration("timeout", 10*time.Second, "order API request timeout")
	logLevel := pflag.String("log-level", "info", "log level")
	logFile := pflag.String("log-file", "kiosk.log", "log file, empty for stderr")
	pflag.Parse()

	zapLogger, err := logger.New(config.LogConfig{Level: *logLevel, Format: "console", Output: *logFile}, "restaurant-kiosk")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	menu, err := catalog.LoadDir(ctx, *menuDir)
	if err != nil {
		zapLogger.Fatal("loading menu", zap.String("dir", *menuDir), zap.Error(err))
	}

	orders, err := client.NewOrderClient(*apiURL, &http.Client{Timeout: *timeout})
	if err != nil {
		zapLogger.Fatal("creating order client", zap.Error(err))
	}

	fmt.Printf("Welcome! %d items on the menu. Type help for commands.\n", len(menu.Items))

	k := kiosk.New(menu, orders, os.Stdout, zapLogger)
	if err := k.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		zapLogger.Fatal("kiosk stopped", zap.Error(err))
	}
}
