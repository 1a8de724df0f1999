package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notifyhub/callqueue/internal/api/handler"
	apimw "github.com/notifyhub/callqueue/internal/api/middleware"
	"github.com/notifyhub/callqueue/internal/service"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route of the local control API.
func NewRouter(
	svc *service.QueueService,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestSize(64 << 10))
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	qh := handler.NewQueueHandler(svc)
	sh := handler.NewSettingsHandler(svc, logger)
	ah := handler.NewAlertHandler(svc)
	hh := handler.NewHealthHandler()

	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/queue", qh.List)
		r.Post("/queue/{id}/accept", qh.Accept)

		r.Get("/settings", sh.Get)
		r.Put("/settings", sh.Put)

		r.Post("/alerts/test-sound", ah.TestSound)
		r.Post("/alerts/test-vibration", ah.TestVibration)
		r.Delete("/alerts", ah.Stop)
	})

	return r
}
