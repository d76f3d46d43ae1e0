package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"marketplace-api/internal/config"
	"marketplace-api/internal/db"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	lg, err := logger.New("migrate", cfg.Log.Level, cfg.Log.Development)
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

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		lg.Fatal("apply migrations", zap.Error(err))
	}
	lg.Info("migrations applied", zap.Uint("version", version))
}
