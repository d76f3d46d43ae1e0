package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"marketplace-api/internal/config"
	"marketplace-api/internal/db"
	"marketplace-api/internal/importer"
	"marketplace-api/internal/logger"
	categoryrepo "marketplace-api/internal/repository/category"
	customerrepo "marketplace-api/internal/repository/customer"
	productrepo "marketplace-api/internal/repository/product"
	categorysvc "marketplace-api/internal/service/category"
	productsvc "marketplace-api/internal/service/product"
)

func main() {
	var (
		filePath string
		sellerID int64
	)
	flag.StringVar(&filePath, "file", "", "Path to product catalog CSV (.csv or .csv.gz)")
	flag.Int64Var(&sellerID, "seller", 0, "Customer id that sells the imported products")
	flag.Parse()

	if filePath == "" || sellerID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	lg, err := logger.New("importer", cfg.Log.Level, cfg.Log.Development)
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

	if _, err := customerrepo.NewPostgres(pool, lg).GetByID(ctx, sellerID); err != nil {
		lg.Fatal("resolve seller", zap.Int64("seller_id", sellerID), zap.Error(err))
	}

	rc, err := importer.Open(filePath)
	if err != nil {
		lg.Fatal("open catalog", zap.Error(err))
	}
	defer rc.Close()

	imp := importer.NewCSVImporter(rc,
		productsvc.New(productrepo.NewPostgres(pool, lg)),
		categorysvc.New(categoryrepo.NewPostgres(pool)),
		sellerID, lg)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		lg.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	fmt.Printf("Imported %d products for seller %d in %s\n", count, sellerID, time.Since(start).Truncate(time.Millisecond))
}
