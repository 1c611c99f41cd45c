package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"job-ledger-go/internal/ledger"
	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

func newEliteCmd(a *app) *cobra.Command {
	var (
		platform string
		minScore float64
		limit    int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "elite",
		Short: "List high-scoring jobs for one platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("platform") {
				platform = a.cfg.Elite.Platform
			}
			if !cmd.Flags().Changed("min-score") {
				minScore = a.cfg.Elite.MinScore
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Elite.Limit
			}

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

			matches := slices.Collect(ledger.Limit(
				ledger.FilterBy(records, ledger.EliteJobs(platform, minScore)), limit))

			jobs := make([]models.Job, 0, len(matches))
			for _, r := range matches {
				jobs = append(jobs, models.JobFromRecord(r))
			}

			if output == "json" {
				return outputJSON(out, jobs)
			}

			fmt.Fprintf(out, "Found %d elite %s jobs (score >= %s)\n", len(jobs), platform, formatScore(&minScore))
			for _, job := range jobs {
				fmt.Fprintf(out, "- [%s] %s (score: %s)\n  %s\n", job.ID, job.Title, formatScore(job.Score), job.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "Upwork", "Platform to match")
	cmd.Flags().Float64Var(&minScore, "min-score", 80, "Minimum score")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum jobs to print (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", "console", "Output format: console, json")

	return cmd
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}
