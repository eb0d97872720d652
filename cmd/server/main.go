package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ayush3323/printingbackend/internal/address"
	"github.com/Ayush3323/printingbackend/internal/catalog"
	"github.com/Ayush3323/printingbackend/internal/config"
	"github.com/Ayush3323/printingbackend/internal/db"
	"github.com/Ayush3323/printingbackend/internal/design"
	"github.com/Ayush3323/printingbackend/internal/handler"
	"github.com/Ayush3323/printingbackend/internal/logger"
	"github.com/Ayush3323/printingbackend/internal/middleware"
	"github.com/Ayush3323/printingbackend/internal/order"
	"github.com/Ayush3323/printingbackend/internal/printjob"
	"github.com/Ayush3323/printingbackend/internal/shipment"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	catalogRepo := catalog.NewRepository(database)

	designRepo := design.NewRepository(database)
	designClient := design.NewClient(cfg.DesignAPIURL, cfg.DesignClientID, cfg.DesignSecretKey)

	addressRepo := address.NewRepository(database)
	addressSvc := address.NewService(addressRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, catalogRepo, designRepo, addressSvc, designClient)

	printJobRepo := printjob.NewRepository(database)
	printJobSvc := printjob.NewService(printJobRepo)

	shipmentRepo := shipment.NewRepository(database)
	shipmentSvc := shipment.NewService(shipmentRepo)

	handler.RegisterMetrics()

	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Ops-Key"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.AuthMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	checkout := handler.NewCheckoutHandler(orderSvc, addressSvc)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		checkout.Init(r)
	})

	operations := handler.NewOperationsHandler(orderSvc, printJobSvc, shipmentSvc)
	r.Route("/ops", func(r chi.Router) {
		r.Use(middleware.RequireOperator)
		operations.Init(r)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The render token expires hourly; refresh ahead of that so no
	// checkout ever waits on the token endpoint.
	c := cron.New()
	if _, err := c.AddFunc("@every 45m", func() {
		if err := designClient.RefreshToken(context.Background()); err != nil {
			log.Warn("design token refresh failed", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("failed to schedule token refresh", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	consumer := handler.NewKafkaHandler(cfg, orderSvc)
	go consumer.Consume(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	if err := consumer.Close(); err != nil {
		log.Error("failed to close kafka consumer", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}
