package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arjunmehta/stitchbook-backend/api/routes"
	"github.com/arjunmehta/stitchbook-backend/internal/auth"
	"github.com/arjunmehta/stitchbook-backend/internal/bills"
	"github.com/arjunmehta/stitchbook-backend/internal/expenses"
	"github.com/arjunmehta/stitchbook-backend/internal/ledger"
	"github.com/arjunmehta/stitchbook-backend/internal/measurements"
	"github.com/arjunmehta/stitchbook-backend/internal/orders"
	"github.com/arjunmehta/stitchbook-backend/internal/profit"
	"github.com/arjunmehta/stitchbook-backend/internal/reports"
	"github.com/arjunmehta/stitchbook-backend/internal/users"
	"github.com/arjunmehta/stitchbook-backend/internal/workers"
	"github.com/arjunmehta/stitchbook-backend/pkg/auth/session"
	"github.com/arjunmehta/stitchbook-backend/pkg/config"
	"github.com/arjunmehta/stitchbook-backend/pkg/db"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
	"github.com/arjunmehta/stitchbook-backend/pkg/metrics"
	"github.com/arjunmehta/stitchbook-backend/pkg/migrate"
	"github.com/arjunmehta/stitchbook-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	ledgerMetrics := metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()), ledgerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	expensesService, err := expenses.NewService(expenses.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create expenses service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	ordersService, err := orders.NewService(ordersRepo, ledgerService, logg, ledgerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	billsService, err := bills.NewService(bills.NewRepository(dbClient.DB()), ordersRepo, ledgerService, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create bills service", err)
		os.Exit(1)
	}

	profitCalculator, err := profit.NewCalculator(ledgerService, expensesService, ordersRepo, ledgerMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create profit calculator", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(profitCalculator, ledgerService, expensesService, ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	workersService, err := workers.NewService(workers.NewRepository(dbClient.DB()), ordersRepo, expensesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create workers service", err)
		os.Exit(1)
	}

	measurementsService, err := measurements.NewService(measurements.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create measurements service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:           dbClient,
			Redis:        redisClient,
			Limiter:      redisClient,
			Sessions:     sessionManager,
			Auth:         authService,
			Profit:       profitCalculator,
			Reports:      reportsService,
			Bills:        billsService,
			Orders:       ordersService,
			Workers:      workersService,
			Expenses:     expensesService,
			Measurements: measurementsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
