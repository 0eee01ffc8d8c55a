package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/services"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/application"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/configuration"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/eventbus"
)

const migrationsDir = "infrastructure/persistence/schema"

func main() {
	root := &cobra.Command{
		Use:           "staffing",
		Short:         "Functional-status engine administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), seedCmd(), statusCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Apply schema migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			db, err := sql.Open("pgx", conf.Database.Opts)
			if err != nil {
				return err
			}
			defer db.Close()

			goose.SetBaseFS(&staffing.MigrationFiles)
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			direction := "up"
			if len(args) > 0 {
				direction = args[0]
			}
			switch direction {
			case "up":
				return goose.Up(db, migrationsDir)
			case "down":
				return goose.Down(db, migrationsDir)
			case "status":
				return goose.Status(db, migrationsDir)
			default:
				return fmt.Errorf("unknown migrate direction %q", direction)
			}
		},
	}
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load development fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, pool, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			return app.Seed(ctx)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report seat availability across all positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, pool, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			vacancies := app.Service(&services.VacancyService{}).(*services.VacancyService)
			rows, err := vacancies.ListAvailablePositions(ctx, "", "")
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Printf("%-40s %s\t%d free of %d\n",
					row.Position.Name, row.Position.Nature, row.Available, row.Position.Quota)
			}
			return nil
		},
	}
}

func setup(ctx context.Context) (context.Context, application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, nil, nil, err
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := modules.Load(app); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return composables.WithPool(ctx, pool), app, pool, nil
}
