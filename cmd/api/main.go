package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paypal-utils/client"
	dbclient "paypal-utils/internal/client"
	"paypal-utils/internal/config"
	"paypal-utils/internal/logger"
	"paypal-utils/internal/repository"
	"paypal-utils/internal/server"
	"paypal-utils/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := dbclient.InitDBClient(&cfg.Database)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	paypalClient := client.NewPaypalClient(
		client.Options{
			IsSandbox: cfg.Paypal.Sandbox,
			Credentials: client.Credentials{
				ClientID:     cfg.Paypal.ClientID,
				ClientSecret: cfg.Paypal.ClientSecret,
			},
		},
		client.WithLogger(log.Named("paypal")),
	)

	paypalService := service.NewPaypalService(
		db,
		log,
		paypalClient,
		cfg.Paypal.Sandbox,
		repository.NewOrderRepository(db),
		repository.NewCaptureRepository(db),
	)

	serverAddr := cfg.HTTP.Address()

	// Init HTTP server
	srv := server.NewServer(log, paypalService)

	log.Info("starting HTTP server",
		zap.String("address", serverAddr),
		zap.String("environment", cfg.Environment.Name),
		zap.String("paypal_base_url", paypalClient.BaseURL()),
	)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}
