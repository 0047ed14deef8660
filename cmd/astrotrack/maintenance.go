package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/astrotrack/astrotrack/internal/bootstrap"
	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	mq "github.com/astrotrack/astrotrack/internal/infra/queue"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres documents table",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if a.cfg.Database.Backend != config.BackendPostgres {
			a.log.Sugar().Infow("nothing to migrate", "backend", a.cfg.Database.Backend)
			return nil
		}
		db, err := do.Invoke[*gorm.DB](a.inj)
		if err != nil {
			return err
		}
		if err := docstore.Migrate(db); err != nil {
			return fmt.Errorf("migrate documents table: %w", err)
		}
		a.log.Info("documents table migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the built-in system catalogues",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := do.Invoke[service.CatalogueService](a.inj)
		if err != nil {
			return err
		}
		return bootstrap.EnsureSystemCatalogues(cmd.Context(), svc, a.log)
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Session maintenance",
}

var clearExpiredCmd = &cobra.Command{
	Use:   "clear-expired",
	Short: "Delete expired auth sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := do.Invoke[service.AuthService](a.inj)
		if err != nil {
			return err
		}
		n, err := svc.ClearExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d expired sessions\n", n)
		return nil
	},
}

var (
	tailQueue   string
	tailBinding string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect domain events",
}

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print domain events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if !a.cfg.RabbitMQ.Enabled {
			return fmt.Errorf("rabbitmq is disabled")
		}
		conn, err := do.Invoke[*amqp.Connection](a.inj)
		if err != nil {
			return err
		}
		consumer, err := mq.NewConsumer(conn, tailQueue, tailBinding, 0, a.log, a.cfg)
		if err != nil {
			return err
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		err = consumer.Handle(ctx, func(ctx context.Context, routingKey string, body []byte) error {
			_, err := fmt.Fprintf(out, "%s %s\n", routingKey, body)
			return err
		})
		if ctx.Err() != nil {
			a.log.Info("events tail stopped", zap.String("queue", tailQueue))
			return nil
		}
		return err
	},
}

func init() {
	authCmd.AddCommand(clearExpiredCmd)

	tailCmd.Flags().StringVar(&tailQueue, "queue", "", "durable queue to consume; empty uses a temporary queue")
	tailCmd.Flags().StringVar(&tailBinding, "binding", "#", "routing key pattern, e.g. session.*")
	eventsCmd.AddCommand(tailCmd)
}
