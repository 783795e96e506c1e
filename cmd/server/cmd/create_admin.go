package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventhall/booking-api/internal/core/ports"
	"github.com/eventhall/booking-api/internal/core/service"
	mongodb "github.com/eventhall/booking-api/internal/infrastructure/db/mongo"
	"github.com/eventhall/booking-api/internal/infrastructure/security"
	"github.com/eventhall/booking-api/internal/infrastructure/storage"
)

type createAdminOptions struct {
	name     string
	contact  string
	email    string
	password string
}

func newCreateAdminCommand(logLevel *string) *cobra.Command {
	var opts createAdminOptions

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator directly in MongoDB.

Administrator registration over HTTP requires an administrator token, so the
first account is created with this command.

Example:
  server create-admin --name "Jane Doe" --contact 555-0100 --email jane@example.com --password s3cret!`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return runCreateAdmin(ctx, cmd, *logLevel, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.contact, "contact", "", "contact number")
	cmd.Flags().StringVar(&opts.email, "email", "", "email address (login)")
	cmd.Flags().StringVar(&opts.password, "password", "", "password (at least 6 characters)")
	for _, name := range []string{"name", "contact", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runCreateAdmin(ctx context.Context, cmd *cobra.Command, logLevel string, opts createAdminOptions) error {
	cfg, log, err := setup(ctx, logLevel)
	if err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	admins := mongodb.NewAdminRepository(db)
	history := mongodb.NewHistoryRepository(db)
	if err := mongodb.EnsureIndexes(ctx, admins); err != nil {
		return err
	}

	svc := service.NewAdminService(
		admins,
		history,
		security.NewBcryptHasher(cfg.BcryptCost),
		storage.NewImageStore(cfg.UploadDir, log),
		log,
	)
	admin, err := svc.Register(ctx, ports.RegisterInput{
		FullName:      opts.name,
		ContactNumber: opts.contact,
		EmailAddress:  opts.email,
		Password:      opts.password,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "administrator %s created (id %s)\n", admin.EmailAddress, admin.ID)
	return nil
}
