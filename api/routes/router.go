package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shaivan19/rentease-payments/api/controllers"
	"github.com/Shaivan19/rentease-payments/api/middleware"
	"github.com/Shaivan19/rentease-payments/pkg/config"
	"github.com/Shaivan19/rentease-payments/pkg/db"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
	pkgredis "github.com/Shaivan19/rentease-payments/pkg/redis"
)

type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	CachePinger     pkgredis.Pinger
	IdempotencyKeys pkgredis.IdempotencyStore
	Payments        controllers.PaymentsService
	Earnings        controllers.EarningsService
	MetricsRegistry prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, params.CachePinger))
	})

	if params.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(params.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(params.IdempotencyKeys, logg))

		r.Route("/payments", func(r chi.Router) {
			r.Post("/orders", controllers.CreateOrder(params.Payments, logg))
			r.Post("/orders/{orderID}/abandon", controllers.AbandonOrder(params.Payments, logg))
			r.Post("/verify", controllers.VerifyPayment(params.Payments, logg))
			r.Get("/history/{userType}/{userID}", controllers.PaymentHistory(params.Payments, logg))
		})

		r.Route("/earnings", func(r chi.Router) {
			r.Get("/{landlordID}", controllers.EarningsOverview(params.Earnings, logg))
		})
	})

	return r
}
