package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rendizy/channelsync"
	"github.com/rendizy/channelsync/internal/store/postgres"
	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/staysnet"
	"github.com/rendizy/channelsync/pkg/sync"
)

const flagDateFormat = "2006-01-02"

// newSyncCommand creates the sync command, the main entry point of the CLI.
func (a *App) newSyncCommand() *cobra.Command {
	var (
		properties  []string
		fromStr     string
		toStr       string
		dryRun      bool
		concurrency int
		planPath    string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a full sync from the channel manager",
		Long: `Sync imports guests, properties, and reservations from Stays.net into
the local store, in that order. Re-runs are idempotent: records matched by
their dedup keys are updated instead of duplicated.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			opts, err := a.syncOptions(properties, fromStr, toStr, dryRun, concurrency, planPath)
			if err != nil {
				return err
			}

			if a.config.DatabaseURL == "" {
				return errors.NewConfigError("sync", "DATABASE_URL is required", nil)
			}
			store, err := postgres.Open(ctx, a.config.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			client, err := a.newClient(store)
			if err != nil {
				return err
			}

			result, err := client.Sync(ctx, opts...)
			if err != nil {
				return err
			}

			fmt.Println(result.Summary())
			for _, e := range result.Errors {
				fmt.Printf("  error: %s\n", e)
			}
			if !result.Success {
				return fmt.Errorf("sync run %s failed", result.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&properties, "properties", nil, "restrict to these property external ids")
	cmd.Flags().StringVar(&fromStr, "from", "", "reservation window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "reservation window end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and map everything, write nothing")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "per-phase worker pool size")
	cmd.Flags().StringVar(&planPath, "plan", "", "YAML run plan file")

	return cmd
}

// syncOptions assembles run options from the plan file and flags; flags win.
func (a *App) syncOptions(properties []string, fromStr, toStr string, dryRun bool, concurrency int, planPath string) ([]sync.Option, error) {
	var opts []sync.Option

	if planPath != "" {
		plan, err := sync.LoadPlan(planPath)
		if err != nil {
			return nil, err
		}
		planOpts, err := plan.Options()
		if err != nil {
			return nil, err
		}
		opts = append(opts, planOpts...)
	}

	if len(properties) > 0 {
		opts = append(opts, sync.WithProperties(properties...))
	}
	if fromStr != "" || toStr != "" {
		from, to, err := parseWindow(fromStr, toStr)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sync.WithDateRange(from, to))
	}
	if dryRun {
		opts = append(opts, sync.WithDryRun(true))
	}
	if concurrency > 0 {
		opts = append(opts, sync.WithConcurrency(concurrency))
	}
	return opts, nil
}

func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, errors.NewConfigError("sync", "--from and --to must be given together", nil)
	}
	from, err := time.Parse(flagDateFormat, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewConfigError("sync", "invalid --from date", err)
	}
	to, err := time.Parse(flagDateFormat, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewConfigError("sync", "invalid --to date", err)
	}
	return from, to, nil
}

// newClient builds the sync client from the loaded configuration.
func (a *App) newClient(store *postgres.Store) (channelsync.Client, error) {
	if a.config.TenantID == "" {
		return nil, errors.NewConfigError("sync", "ORGANIZATION_ID is required", nil)
	}
	if a.config.StaysBaseURL == "" || a.config.StaysClientID == "" || a.config.StaysClientSecret == "" {
		return nil, errors.NewConfigError("sync", "STAYSNET_BASE_URL, STAYSNET_CLIENT_ID, and STAYSNET_CLIENT_SECRET are required", nil)
	}

	return channelsync.New(
		channelsync.WithTenant(a.config.TenantID),
		channelsync.WithChannelClient(staysnet.NewHTTPClient(
			a.config.StaysBaseURL,
			a.config.StaysClientID,
			a.config.StaysClientSecret,
		)),
		channelsync.WithStore(store),
		channelsync.WithConcurrency(a.config.Concurrency),
	)
}

// newMigrateCommand creates the migrate command.
func (a *App) newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the sync target tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.config.DatabaseURL == "" {
				return errors.NewConfigError("migrate", "DATABASE_URL is required", nil)
			}
			store, err := postgres.Open(ctx, a.config.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			a.logger.Info().Msg("migrations applied")
			return nil
		},
	}
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("channelsync %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
