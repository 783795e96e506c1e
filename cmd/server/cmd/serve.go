package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eventhall/booking-api/docs"
	"github.com/eventhall/booking-api/internal/app"
)

func newServeCommand(logLevel *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and begin accepting API requests.

The server connects to MongoDB and Redis, creates the collection indexes,
and shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, err := setup(ctx, *logLevel)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			docs.SwaggerInfo.BasePath = cfg.BasePath()
			docs.SwaggerInfo.Version = Version

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.Background()); err != nil {
					log.Error().Err(err).Msg("shutdown error")
				}
			}()

			return a.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port; overrides PORT")
	return cmd
}
