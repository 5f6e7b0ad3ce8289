package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunmehta/stitchbook-backend/api/controllers"
	"github.com/arjunmehta/stitchbook-backend/api/middleware"
	"github.com/arjunmehta/stitchbook-backend/internal/auth"
	"github.com/arjunmehta/stitchbook-backend/internal/bills"
	"github.com/arjunmehta/stitchbook-backend/internal/expenses"
	"github.com/arjunmehta/stitchbook-backend/internal/measurements"
	"github.com/arjunmehta/stitchbook-backend/internal/orders"
	"github.com/arjunmehta/stitchbook-backend/internal/profit"
	"github.com/arjunmehta/stitchbook-backend/internal/reports"
	"github.com/arjunmehta/stitchbook-backend/internal/workers"
	"github.com/arjunmehta/stitchbook-backend/pkg/auth/session"
	"github.com/arjunmehta/stitchbook-backend/pkg/config"
	"github.com/arjunmehta/stitchbook-backend/pkg/db"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
)

type rateLimiter interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Deps bundles everything the router wires into handlers. DB and Redis are
// the readiness pingers; Limiter backs the login throttle and may be nil in
// tests.
type Deps struct {
	DB           db.Pinger
	Redis        db.Pinger
	Limiter      rateLimiter
	Sessions     session.AccessSessionChecker
	Auth         auth.Service
	Profit       profit.Calculator
	Reports      reports.Service
	Bills        bills.Service
	Orders       orders.Service
	Workers      workers.Service
	Expenses     expenses.Service
	Measurements measurements.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleOwner), logg))
			r.Post("/staff", controllers.AuthCreateStaff(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/profit", controllers.ReportsProfit(deps.Profit, logg))
			r.Get("/weekly", controllers.ReportsWeekly(deps.Reports, logg))
			r.Get("/monthly", controllers.ReportsMonthly(deps.Reports, logg))
		})

		r.Route("/bills", func(r chi.Router) {
			r.Post("/", controllers.BillCreate(deps.Bills, logg))
			r.Get("/", controllers.BillList(deps.Bills, logg))
			r.Get("/number", controllers.BillCurrentNumber(deps.Bills, logg))
			r.Get("/{billId}", controllers.BillDetail(deps.Bills, logg))
			r.Patch("/by-number/{billNumber}/payment-status", controllers.BillMarkPaidByNumber(deps.Orders, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Patch("/{orderId}", controllers.OrderUpdateDetails(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.OrderUpdateDeliveryStatus(deps.Orders, logg))
			r.Patch("/{orderId}/payment-status", controllers.OrderUpdatePaymentStatus(deps.Orders, logg))
			r.Post("/{orderId}/payments/final", controllers.OrderFinalPayment(deps.Orders, logg))
			r.Post("/{orderId}/workers", controllers.OrderAssignWorkers(deps.Workers, logg))
			r.Get("/{orderId}/workers", controllers.OrderWorkers(deps.Workers, logg))
		})

		r.Route("/workers", func(r chi.Router) {
			r.Post("/", controllers.WorkerCreate(deps.Workers, logg))
			r.Get("/", controllers.WorkerList(deps.Workers, logg))
			r.Get("/{workerId}", controllers.WorkerDetail(deps.Workers, logg))
			r.Put("/{workerId}", controllers.WorkerUpdate(deps.Workers, logg))
			r.Delete("/{workerId}", controllers.WorkerDelete(deps.Workers, logg))
			r.Get("/{workerId}/weekly-pay", controllers.WorkerWeeklyPay(deps.Workers, logg))
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Route("/daily", func(r chi.Router) {
				r.Post("/", controllers.DailyExpenseCreate(deps.Expenses, logg))
				r.Get("/", controllers.DailyExpenseList(deps.Expenses, logg))
				r.Put("/{expenseId}", controllers.DailyExpenseUpdate(deps.Expenses, logg))
				r.Delete("/{expenseId}", controllers.DailyExpenseDelete(deps.Expenses, logg))
			})
			r.Route("/worker", func(r chi.Router) {
				r.Post("/", controllers.WorkerExpenseCreate(deps.Expenses, logg))
				r.Get("/", controllers.WorkerExpenseList(deps.Expenses, logg))
				r.Delete("/{expenseId}", controllers.WorkerExpenseDelete(deps.Expenses, logg))
			})
		})

		r.Route("/measurements", func(r chi.Router) {
			r.Get("/", controllers.MeasurementList(deps.Measurements, logg))
			r.Get("/{mobileNumber}", controllers.MeasurementGet(deps.Measurements, logg))
			r.Put("/{mobileNumber}", controllers.MeasurementPut(deps.Measurements, logg))
		})
	})

	return r
}
