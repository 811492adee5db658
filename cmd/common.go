package cmd

import (
	"fmt"
	"strings"

	"page-store/core/config"
	"page-store/core/logger"
	"page-store/feature/pages"

	"go.uber.org/zap"
)

// bootstrap loads the configuration and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// withManager runs fn against an open manager and closes it afterwards.
func withManager(fn func(m *pages.Manager, logg *zap.Logger) error) error {
	cfg, logg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()

	mgr, err := pages.NewManager(cfg.Storage, logg)
	if err != nil {
		return err
	}
	return mgr.Scoped(func(m *pages.Manager) error {
		return fn(m, logg)
	})
}

// parseMetadata turns repeated key=value flags into object metadata.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid metadata %q, expected key=value", pair)
		}
		meta[k] = v
	}
	return meta, nil
}
