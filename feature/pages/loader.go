package pages

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements loader.Feature for the page routes.
type Feature struct {
	manager *Manager
	logger  *zap.Logger
}

// NewFeature creates the pages feature over an existing manager.
func NewFeature(manager *Manager, logger *zap.Logger) *Feature {
	return &Feature{manager: manager, logger: logger}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "pages"
}

// IsEnabled reports whether a manager was supplied.
func (f *Feature) IsEnabled() bool {
	return f.manager != nil
}

// Load registers the page routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.manager, f.logger).RegisterRoutes(app)
	return nil
}
