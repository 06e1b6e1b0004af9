package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"beanbags/internal/beanbag/controller"
	"beanbags/internal/metrics"
)

func NewRouter(beanBags *controller.Controller, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/beanbags", func(r chi.Router) {
		r.Post("/", beanBags.AddBeanBags)
		r.Get("/", beanBags.ListBeanBags)
		r.Get("/{id}", beanBags.GetBeanBag)
		r.Put("/{id}/price", beanBags.SetPrice)
		r.Post("/{id}/sales", beanBags.SellBeanBags)
		r.Post("/{id}/reservations", beanBags.ReserveBeanBags)
		r.Put("/{id}/replace", beanBags.ReplaceID)
	})

	r.Post("/reservations/{reservationId}/sale", beanBags.SellReservation)
	r.Delete("/reservations/{reservationId}", beanBags.CancelReservation)

	r.Get("/stats", beanBags.Stats)
	r.Post("/store/empty", beanBags.EmptyStore)
	r.Post("/store/reset-sales", beanBags.ResetSales)

	r.Post("/snapshots/{name}", beanBags.SaveSnapshot)
	r.Post("/snapshots/{name}/load", beanBags.LoadSnapshot)

	logger.Debug("routes registered")
	return r
}
