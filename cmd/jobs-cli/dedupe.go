package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"job-ledger-go/internal/ledger"
	"job-ledger-go/internal/storage"
)

func newDedupeCmd(a *app) *cobra.Command {
	var (
		file   string
		key    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove records with a repeated key value",
		Long: `Keeps the first record for every value of the key field and rewrites the file.
Records without the key are always kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = a.cfg.Storage.JobsFile
			}
			if key == "" {
				key = a.cfg.Storage.DedupKey
			}
			return runDedupe(cmd, a, file, key, dryRun)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Record file (default from config)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Dedup key field (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report counts without rewriting the file")

	return cmd
}

func runDedupe(cmd *cobra.Command, a *app, file, key string, dryRun bool) error {
	out := cmd.OutOrStdout()

	records, found, err := storage.Load(file)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(out, "%s not found.\n", file)
		return nil
	}

	unique := ledger.Deduplicate(records, key)
	removed := len(records) - len(unique)

	if !dryRun {
		if err := storage.Save(file, unique); err != nil {
			return err
		}
	}

	a.logger.Debug("Deduplicated records",
		slog.String("file", file),
		slog.String("key", key),
		slog.Int("removed", removed),
		slog.Bool("dry_run", dryRun))

	fmt.Fprintln(out, "De-duplication complete.")
	fmt.Fprintf(out, "Original: %d\n", len(records))
	fmt.Fprintf(out, "Unique: %d\n", len(unique))
	fmt.Fprintf(out, "Removed: %d\n", removed)
	return nil
}
