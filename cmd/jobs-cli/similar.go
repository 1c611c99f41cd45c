package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"job-ledger-go/internal/ledger"
	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

func newSimilarCmd(a *app) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Report near-duplicate jobs",
		Long:  `Lists job pairs whose title, company and location are similar but not identical.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			pairs := ledger.FindSimilar(records, ledger.DefaultSimilarityFields, threshold)

			fmt.Fprintf(out, "Found %d similar pairs (threshold %.2f)\n", len(pairs), threshold)
			for _, p := range pairs {
				first := models.JobFromRecord(p.First)
				second := models.JobFromRecord(p.Second)
				fmt.Fprintf(out, "- %.2f  %q @ %s  <->  %q @ %s\n",
					p.Similarity, first.Title, first.Company, second.Title, second.Company)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "Minimum similarity (0-1)")

	return cmd
}
