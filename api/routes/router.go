package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mocharil/savora-backend/api/controllers"
	webhookcontrollers "github.com/mocharil/savora-backend/api/controllers/webhooks"
	"github.com/mocharil/savora-backend/api/middleware"
	"github.com/mocharil/savora-backend/internal/auth"
	"github.com/mocharil/savora-backend/internal/orders"
	"github.com/mocharil/savora-backend/internal/payments"
	"github.com/mocharil/savora-backend/internal/stores"
	"github.com/mocharil/savora-backend/internal/tables"
	"github.com/mocharil/savora-backend/pkg/auth/session"
	"github.com/mocharil/savora-backend/pkg/config"
	"github.com/mocharil/savora-backend/pkg/enums"
	"github.com/mocharil/savora-backend/pkg/logger"
	"github.com/mocharil/savora-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Params collects everything the router needs wired in.
type Params struct {
	Config          *config.Config
	Logger          *logger.Logger
	Redis           *redis.Client
	SessionManager  sessionManager
	ReadinessProbes map[string]controllers.Pinger
	AuthService     auth.Service
	OrdersService   orders.Service
	PaymentsService payments.Service
	TablesService   tables.Service
	StoresService   stores.Service
	WebhookService  webhookcontrollers.MidtransWebhookService
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.ReadinessProbes))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.With(middleware.Idempotency(p.Redis, logg)).
			Post("/orders", controllers.PublicCreateOrder(p.OrdersService, logg))
		r.Get("/orders/{orderId}", controllers.PublicOrderStatus(p.OrdersService, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/midtrans", webhookcontrollers.MidtransWebhook(p.WebhookService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(p.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.OrdersService, logg))
			r.Post("/{orderId}/status", controllers.AdvanceOrderStatus(p.OrdersService, logg))
			r.With(middleware.RequireAnyRole(logg, string(enums.MemberRoleTenantAdmin), string(enums.MemberRoleOutletAdmin))).
				Post("/{orderId}/payment-status", controllers.SetOrderPaymentStatus(p.PaymentsService, logg))
		})

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", controllers.TablesList(p.TablesService, logg))
			r.Post("/{tableId}/release", controllers.TableRelease(p.TablesService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/me", controllers.StoreProfile(p.StoresService, logg))
			r.With(middleware.RequireAnyRole(logg, string(enums.MemberRoleTenantAdmin))).
				Put("/me", controllers.StoreUpdate(p.StoresService, logg))
		})
	})

	return r
}
