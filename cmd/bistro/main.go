package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bistro/internal/config"
	"bistro/internal/handler"
	"bistro/internal/service"
	"bistro/internal/storage"
	"bistro/internal/storage/postgres"
	"bistro/internal/storage/sqlite"
	"bistro/internal/worker"
	"bistro/internal/ws"
)

func main() {
	cfg := config.New()

	var (
		store storage.OrderStore
		err   error
	)
	if cfg.UsePostgres() {
		store, err = postgres.New(cfg.DatabaseURI)
	} else {
		store, err = sqlite.New(cfg.DatabaseURI)
	}
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Services
	orderSvc := service.NewOrderService(store)
	hub := ws.NewHub()

	// Worker
	notifier := worker.NewNotifier(orderSvc.Events(), hub)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/order", handler.CreateOrderHandler(orderSvc))
	r.Get("/api/orders", handler.ListOrdersHandler(orderSvc))
	r.Get("/api/debug", handler.DebugHandler(hub, store, cfg.DatabaseURI))
	r.Get("/ws/orders", ws.OrdersHandler(hub, orderSvc))

	// No global write timeout: /ws/orders connections are long-lived.
	srv := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go notifier.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop notifier
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	hub.Shutdown()

	slog.Info("server stopped")
}
