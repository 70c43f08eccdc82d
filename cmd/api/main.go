// @title Bizlytic API
// @version 1.0
// @description Sales, expenses, reports and subscriptions for small businesses.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/pratik-mahalle/bizlytic/docs"
	"github.com/pratik-mahalle/bizlytic/internal/api/handlers"
	"github.com/pratik-mahalle/bizlytic/internal/api/router"
	"github.com/pratik-mahalle/bizlytic/internal/config"
	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
	"github.com/pratik-mahalle/bizlytic/internal/providers"
	"github.com/pratik-mahalle/bizlytic/internal/realtime"
	"github.com/pratik-mahalle/bizlytic/internal/repository/sqlstore"
	"github.com/pratik-mahalle/bizlytic/internal/services"
	"github.com/pratik-mahalle/bizlytic/internal/worker"
	"github.com/pratik-mahalle/bizlytic/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	if err := run(cfg, log); err != nil {
		log.ErrorWithErr(err, "Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := sqlstore.RunMigrations(db, migrations.GetFS())
	if err != nil {
		return err
	}
	log.With("driver", cfg.Database.Driver).Infof("Database ready, %d migrations applied", applied)

	// Repositories
	userRepo := sqlstore.NewUserRepository(db)
	saleRepo := sqlstore.NewSaleRepository(db)
	expenseRepo := sqlstore.NewExpenseRepository(db)
	calendarRepo := sqlstore.NewCalendarRepository(db)
	reportRepo := sqlstore.NewReportRepository(db)

	hub := realtime.NewHub(log, cfg.Realtime.SessionBuffer)
	go hub.Run(ctx)

	exportOpts := services.ExportOptions{
		Prefix: cfg.Export.Prefix,
		TTL:    cfg.Export.PresignExpiry,
	}
	if cfg.Export.Enabled() {
		store, err := providers.NewS3Store(ctx, cfg.Export)
		if err != nil {
			return fmt.Errorf("failed to configure export storage: %w", err)
		}
		exportOpts.Store = store
		log.With("bucket", cfg.Export.Bucket).Info("Report exports go to S3")
	}

	// Services
	userService := services.NewUserService(userRepo, cfg.Auth.BCryptCost, log)
	saleService := services.NewSaleService(saleRepo, hub, log)
	expenseService := services.NewExpenseService(expenseRepo, hub, log)
	calendarService := services.NewCalendarService(calendarRepo, hub, log)
	reportService := services.NewReportService(reportRepo, saleRepo, expenseRepo, exportOpts, log)

	var billingService billing.Service
	if cfg.Billing.Enabled() {
		provider := providers.NewStripeProvider(cfg.Billing.SecretKey, cfg.Billing.WebhookSecret, nil)
		billingService = services.NewBillingService(userRepo, provider, cfg.Billing, cfg.Server.FrontendURL, log)

		if cfg.Billing.SyncEnabled {
			sync, err := worker.NewSubscriptionSync(billingService, userRepo, cfg.Billing.SyncSchedule, log)
			if err != nil {
				return err
			}
			if err := sync.Start(ctx); err != nil {
				return err
			}
			defer sync.Stop()
		}
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, billing endpoints are disabled")
	}

	val := validator.New()
	handler := router.New(cfg, log, userService, &router.Handlers{
		Health:   handlers.NewHealthHandler(db.DB, log),
		Auth:     handlers.NewAuthHandler(userService, cfg, log, val),
		User:     handlers.NewUserHandler(userService, log, val),
		Sale:     handlers.NewSaleHandler(saleService, reportService, log, val),
		Expense:  handlers.NewExpenseHandler(expenseService, reportService, log, val),
		Calendar: handlers.NewCalendarHandler(calendarService, log, val),
		Report:   handlers.NewReportHandler(reportService, log),
		Billing:  handlers.NewBillingHandler(billingService, log, val),
		Stream:   handlers.NewStreamHandler(hub, cfg.Realtime.HeartbeatInterval, log),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.With("addr", srv.Addr).With("environment", cfg.Server.Environment).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
