package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"marketplace-api/internal/config"
	"marketplace-api/internal/db"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	lg, err := logger.New("seed", cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		_, _ = os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, lg); err != nil {
		lg.Fatal("seed apply", zap.Error(err))
	}
}
