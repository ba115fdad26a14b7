package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	invoicerHttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/invoicer/internal/http/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/importbatch"
	invoiceHandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	logoHandler "github.com/MrJamesThe3rd/invoicer/internal/http/logo"
	templateHandler "github.com/MrJamesThe3rd/invoicer/internal/http/template"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	svc, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start services", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	var (
		invoiceH  = invoiceHandler.NewHandler(svc.Documents)
		logoH     = logoHandler.NewHandler()
		templateH = templateHandler.NewHandler(svc.Templates)
		importH   = importbatch.NewHandler(svc.Importer, svc.Templates)
		exportH   = exportHandler.NewHandler(svc.Export, svc.Templates)
	)

	router := invoicerHttp.New(invoicerHttp.Options{
		Origins: cfg.CORS.Origins,
		Timeout: cfg.Server.Timeout,
		Auth:    auth.New(cfg.Auth.JWTSecret, cfg.Store.Slot),
	}, invoiceH, logoH, templateH, importH, exportH)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", server.Addr, "store", cfg.Store.Backend)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("server failed", "error", err)
		return
	case <-quit:
		slog.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
