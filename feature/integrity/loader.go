package integrity

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements loader.Feature for the integrity routes.
type Feature struct {
	service *Service
}

// NewFeature creates the integrity feature.
func NewFeature(lister Lister, logger *zap.Logger) *Feature {
	return &Feature{service: NewService(lister, logger)}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled reports whether the feature has a key source.
func (f *Feature) IsEnabled() bool {
	return f.service.lister != nil
}

// Load registers the integrity routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
