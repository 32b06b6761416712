package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/police-log-etl/internal/app"
	"github.com/JakeFAU/police-log-etl/internal/config"
	"github.com/JakeFAU/police-log-etl/internal/ingest"
	"github.com/JakeFAU/police-log-etl/internal/logging"
	"github.com/JakeFAU/police-log-etl/internal/telemetry"
)

// envKeyType is the key for storing the loaded environment in the context.
type envKeyType string

const envKey envKeyType = "env"

// environment is what PersistentPreRunE hands to subcommands.
type environment struct {
	cfg    config.Config
	logger *zap.Logger
	tracer *sdktrace.TracerProvider
}

// application is the subset of *app.App the commands use. Tests swap in a fake
// through newApp.
type application interface {
	Handle(ctx context.Context, event any) (ingest.Response, error)
	Close() error
}

var newApp = func(ctx context.Context, cfg config.Config, logger *zap.Logger) (application, error) {
	return app.New(ctx, cfg, logger)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "police-log-etl",
		Short: "Turns the daily police dispatch log into a CSV of incidents.",
		Long: `police-log-etl downloads the plain-text dispatch log, splits it into
incidents, extracts the fixed set of fields from each, and uploads the result
as a dated CSV to object storage.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["skip-config"] == "true" {
				return nil
			}
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)
			tp, err := telemetry.InitTracerProvider(cmd.Context(), logging.Service)
			if err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey, &environment{cfg: cfg, logger: logger, tracer: tp}))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if env, ok := cmd.Context().Value(envKey).(*environment); ok && env != nil {
				if err := env.tracer.Shutdown(context.Background()); err != nil {
					env.logger.Warn("tracer shutdown", zap.Error(err))
				}
				_ = env.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newParseCmd())

	return cmd
}

func resolveEnv(ctx context.Context) (*environment, error) {
	env, ok := ctx.Value(envKey).(*environment)
	if !ok || env == nil {
		return nil, errors.New("configuration not loaded")
	}
	return env, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
