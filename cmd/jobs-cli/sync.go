package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"job-ledger-go/internal/ledger"
	"job-ledger-go/internal/storage"
)

func newSyncCmd(a *app) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror deduplicated jobs to Supabase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if table != "" {
				a.cfg.Database.Table = table
			}
			if err := a.cfg.ValidateSync(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			mirror, err := storage.NewSupabaseMirror(a.cfg.Database.SupabaseURL, a.cfg.Database.SupabaseKey)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSync(ctx, cmd, a, mirror)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Supabase table (default from config)")

	return cmd
}

func runSync(ctx context.Context, cmd *cobra.Command, a *app, mirror storage.Mirror) error {
	out := cmd.OutOrStdout()
	file := a.cfg.Storage.JobsFile

	records, found, err := storage.Load(file)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(out, "%s not found.\n", file)
		return nil
	}

	unique := ledger.Deduplicate(records, a.cfg.Storage.DedupKey)

	syncer := ledger.NewSyncer(mirror, ledger.SyncOptions{
		Table:     a.cfg.Database.Table,
		BatchSize: a.cfg.Sync.BatchSize,
		RateLimit: a.cfg.Sync.RateLimit,
		Retry: ledger.RetryConfig{
			MaxRetries:    a.cfg.Sync.RetryAttempts,
			InitialDelay:  a.cfg.Sync.RetryDelay.Std(),
			MaxDelay:      a.cfg.Sync.MaxRetryDelay.Std(),
			BackoffFactor: 2.0,
		},
	}, a.logger)

	metrics, err := syncer.Sync(ctx, unique)

	fmt.Fprintln(out, "=== Sync Results ===")
	fmt.Fprintf(out, "Records: %d\n", metrics.TotalRecords)
	fmt.Fprintf(out, "Saved: %d\n", metrics.TotalSaved)
	fmt.Fprintf(out, "Failed: %d\n", metrics.TotalFailed)
	fmt.Fprintf(out, "Batches: %d (%d fell back to single inserts)\n", metrics.Batches, metrics.FallbackBatches)
	fmt.Fprintf(out, "Duration: %v\n", metrics.Duration)

	return err
}
