package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	svc, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start services", "error", err)
		os.Exit(1)
	}

	r := &runner{
		svc:       svc,
		slot:      cfg.Store.Slot,
		outputDir: cfg.Output.Dir,
		now:       time.Now,
	}

	err = newApp(r).RunContext(ctx, os.Args)
	svc.Close()

	if err != nil {
		slog.Error("invoicegen failed", "error", err)
		os.Exit(1)
	}
}
