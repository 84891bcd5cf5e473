package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/balance"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/config"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/handler"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/integrations/cbr"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/middleware"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/notification"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/repository"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/service"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	balances := balance.NewService(repo, logger)
	aggregator := notification.NewAggregator(repo, logger)

	var mailer notification.Mailer
	if cfg.DigestEnabled() {
		mailer = email.NewSender(cfg, logger)
	}
	refresher := notification.NewRefresher(aggregator, repo, mailer, cfg.DigestEmail, logger)
	if err := refresher.Start(cfg.NotifySchedule); err != nil {
		logger.Fatalf("Failed to schedule notifications: %v", err)
	}
	defer refresher.Stop()

	cbrClient := cbr.NewCBRClient(cfg, logger)
	svc := service.NewService(repo, balances, refresher, cbrClient, logger)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	h.Routes(r, middleware.AuthMiddleware(cfg))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      middleware.CORS(cfg.CORSOrigins)(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
		return
	case <-quit:
		logger.Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
}
