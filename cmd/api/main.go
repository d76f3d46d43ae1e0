package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"marketplace-api/internal/config"
	"marketplace-api/internal/db"
	"marketplace-api/internal/httpserver"
	"marketplace-api/internal/logger"
	categoryrepo "marketplace-api/internal/repository/category"
	customerrepo "marketplace-api/internal/repository/customer"
	orderrepo "marketplace-api/internal/repository/order"
	paymentrepo "marketplace-api/internal/repository/payment"
	productrepo "marketplace-api/internal/repository/product"
	socialrepo "marketplace-api/internal/repository/social"
	storerepo "marketplace-api/internal/repository/store"
	tokenrepo "marketplace-api/internal/repository/token"
	categorysvc "marketplace-api/internal/service/category"
	customersvc "marketplace-api/internal/service/customer"
	ordersvc "marketplace-api/internal/service/order"
	paymentsvc "marketplace-api/internal/service/payment"
	productsvc "marketplace-api/internal/service/product"
	reportsvc "marketplace-api/internal/service/report"
	socialsvc "marketplace-api/internal/service/social"
	storesvc "marketplace-api/internal/service/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	lg, err := logger.New("api", cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		_, _ = os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	threshold, err := cfg.Reports.Threshold()
	if err != nil {
		return err
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to db")
	}
	defer dbpool.Close()

	customerRepo := customerrepo.NewPostgres(dbpool, lg)
	productRepo := productrepo.NewPostgres(dbpool, lg)
	paymentRepo := paymentrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, lg)
	socialRepo := socialrepo.NewPostgres(dbpool)

	srv := httpserver.New(cfg.HTTPAddr, lg, dbpool, httpserver.Deps{
		CustomerSvc: customersvc.New(customerRepo, tokenrepo.NewPostgres(dbpool), cfg.Auth.TokenTTL),
		OrderSvc:    ordersvc.New(orderRepo, productRepo, paymentRepo, lg),
		ReportSvc:   reportsvc.New(orderRepo, productRepo, threshold),
		ProductSvc:  productsvc.New(productRepo),
		CategorySvc: categorysvc.New(categoryrepo.NewPostgres(dbpool)),
		PaymentSvc:  paymentsvc.New(paymentRepo),
		StoreSvc:    storesvc.New(storerepo.NewPostgres(dbpool), productRepo, socialRepo),
		SocialSvc:   socialsvc.New(socialRepo, productRepo, customerRepo),
	}, httpserver.Options{
		CORSOrigins:      cfg.CORS.Origins,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		lg.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return errors.Wrap(err, "serve")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	lg.Info("server stopped")
	return nil
}
