package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pratik-mahalle/bizlytic/internal/api/handlers"
	"github.com/pratik-mahalle/bizlytic/internal/api/middleware"
	"github.com/pratik-mahalle/bizlytic/internal/config"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Sale     *handlers.SaleHandler
	Expense  *handlers.ExpenseHandler
	Calendar *handlers.CalendarHandler
	Report   *handlers.ReportHandler
	Billing  *handlers.BillingHandler
	Stream   *handlers.StreamHandler
}

// New wires every route. users backs the pro-plan gate.
func New(cfg *config.Config, log *logger.Logger, users middleware.UserLookup, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, errors.NotFound("Route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorMessage(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// Operational endpoints
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	requireAuth := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	requirePro := middleware.RequirePro(users, log)

	r.Route("/api/v1", func(r chi.Router) {
		// The event stream is long-lived and stays outside the request timeout
		r.With(requireAuth, requirePro).Get("/events/stream", h.Stream.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

			// Public
			r.Post("/auth/register", h.Auth.Register)
			r.Post("/auth/login", h.Auth.Login)
			r.Post("/auth/refresh", h.Auth.RefreshToken)
			r.Post("/auth/logout", h.Auth.Logout)
			r.Post("/payments/webhook", h.Billing.Webhook)

			// Protected
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				if cfg.RateLimit.Enabled {
					r.Use(middleware.UserRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
				}

				r.Get("/auth/me", h.Auth.Me)

				r.Route("/users", func(r chi.Router) {
					r.Put("/profile", h.User.UpdateProfile)
					r.Put("/password", h.User.ChangePassword)
				})

				r.Route("/sales", func(r chi.Router) {
					r.Get("/", h.Sale.List)
					r.Post("/", h.Sale.Create)
					r.Get("/stats/summary", h.Sale.Summary)
					r.Get("/{id}", h.Sale.Get)
					r.Put("/{id}", h.Sale.Update)
					r.Delete("/{id}", h.Sale.Delete)
				})

				r.Route("/expenses", func(r chi.Router) {
					r.Get("/", h.Expense.List)
					r.Post("/", h.Expense.Create)
					r.Get("/stats/summary", h.Expense.Summary)
					r.Get("/{id}", h.Expense.Get)
					r.Put("/{id}", h.Expense.Update)
					r.Delete("/{id}", h.Expense.Delete)
				})

				r.Route("/calendar", func(r chi.Router) {
					r.Get("/", h.Calendar.List)
					r.Post("/", h.Calendar.Create)
					r.Get("/upcoming", h.Calendar.Upcoming)
					r.Get("/today", h.Calendar.Today)
					r.Get("/{id}", h.Calendar.Get)
					r.Put("/{id}", h.Calendar.Update)
					r.Delete("/{id}", h.Calendar.Delete)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/profit-loss", h.Report.ProfitLoss)
					r.Get("/sales-analysis", h.Report.SalesAnalysis)
					r.Get("/expense-breakdown", h.Report.ExpenseBreakdown)
					r.With(requirePro).Get("/export", h.Report.Export)
				})

				r.Get("/dashboard/recent-transactions", h.Report.RecentTransactions)

				r.Route("/payments", func(r chi.Router) {
					r.Post("/create-checkout-session", h.Billing.CreateCheckoutSession)
					r.Post("/create-portal-session", h.Billing.CreatePortalSession)
					r.Get("/subscription-status", h.Billing.SubscriptionStatus)
					r.Post("/cancel-subscription", h.Billing.CancelSubscription)
				})
			})
		})
	})

	return r
}
