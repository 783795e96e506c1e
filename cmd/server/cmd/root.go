package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eventhall/booking-api/internal/pkg/config"
	"github.com/eventhall/booking-api/pkg/logger"
)

const serviceName = "booking-api"

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	serve := newServeCommand(&logLevel)
	root := &cobra.Command{
		Use:   "server",
		Short: "Event hall booking API server",
		Long: `Event hall booking API server.

Serves the administrator, user, employee history and package catalog
endpoints. Configuration is read from the environment and an optional
.env file in the working directory.`,
		SilenceUsage: true,
		// Run the serve command by default if no subcommand is specified.
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(serve)
	root.AddCommand(newCreateAdminCommand(&logLevel))
	root.AddCommand(newVersionCommand())
	return root
}

// setup loads the configuration and initialises the logger.
func setup(ctx context.Context, logLevel string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg, log, nil
}
