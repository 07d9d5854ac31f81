package cycle

import (
	"context"

	"stock-sync/core/metrics"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the cycle feature. Cycles triggered over HTTP run under
// base.
func NewFeature(base context.Context, service *Service, m *metrics.Registry) *Feature {
	return &Feature{service: service, handler: NewHandler(base, service, m)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "cycle"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
