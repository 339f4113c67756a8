package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/runtime"
	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// shutdownTimeout bounds the graceful stop of the runtime
const shutdownTimeout = 30 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stored documentation over HTTP",
	Long: `Start the read API. Stored records are served at /api/docs and
/api/docs/{id}, next to health probes, status, version, metrics and the
Swagger UI. The process runs until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configManager, err := loadConfig(configPath())
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg := configManager.Get()
			cfg.API.Port = servePort
			configManager.SetConfig(cfg)
		}

		logs, err := newLoggerManager(configManager)
		if err != nil {
			return err
		}
		defer logs.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, configManager, logs)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default api.port)")
}

// runServe starts the runtime and blocks until ctx is done, then stops it
func runServe(ctx context.Context, configManager *config.Manager, logs *logger.Manager) error {
	cfg := configManager.Get()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	log := logs.WithContext(logger.LogContext{Component: "app", Module: "serve", Operation: "run"})

	factory := runtime.NewDefaultRuntimeFactory(logs, runtime.WithConfigManager(configManager))
	rt, err := factory.CreateRuntime(cfg)
	if err != nil {
		return fmt.Errorf("failed to create runtime: %w", err)
	}

	if err := rt.Start(ctx); err != nil {
		return fmt.Errorf("runtime start failed: %w", err)
	}
	log.WithField("port", cfg.API.Port).Info("RouteScribe API is running")

	<-ctx.Done()
	log.Info("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := rt.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Error during shutdown")
		return fmt.Errorf("runtime stop failed: %w", err)
	}

	log.Info("RouteScribe stopped")
	return nil
}
