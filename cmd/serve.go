package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"page-store/core/loader"
	"page-store/core/logger"
	"page-store/core/middleware/auth"
	"page-store/core/middleware/rayid"
	"page-store/feature/integrity"
	"page-store/feature/pages"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the page store HTTP server",
	Long:  `Opens the store handle, starts the HTTP server and keeps the handle open until shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration and logger
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Page manager, open for the lifetime of the process
		mgr, err := pages.NewManager(cfg.Storage, logg)
		if err != nil {
			return err
		}
		if err := mgr.Open(); err != nil {
			return err
		}
		defer func() {
			if err := mgr.Close(); err != nil {
				logg.Warn("Failed to close store client", zap.Error(err))
			}
		}()

		// 3. Fiber app
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 4. Features
		features := loader.NewManager()
		features.Register(pages.NewFeature(mgr, logg))
		features.Register(integrity.NewFeature(mgr, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := features.LoadAll(app); err != nil {
			return err
		}
		for _, f := range features.Features() {
			logg.Info("Feature registered", zap.String("name", f.Name()), zap.Bool("enabled", f.IsEnabled()))
		}

		// 5. Start server
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()), zap.String("bucket", mgr.Bucket()))
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		// 6. Graceful shutdown
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
			logg.Info("Shutting down server...")
			return app.Shutdown()
		case err := <-errCh:
			logg.Error("Server failed", zap.Error(err))
			return err
		}
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
