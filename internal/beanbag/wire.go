package beanbag

import (
	"go.uber.org/zap"

	"beanbags/internal/beanbag/controller"
	"beanbags/internal/metrics"
	"beanbags/internal/store"
)

// NewModule wraps st for concurrent use and builds the HTTP controller around it.
func NewModule(st store.BeanBagStore, m *metrics.Metrics, logger *zap.Logger) *controller.Controller {
	return controller.NewController(store.NewGuarded(st), m, logger)
}
