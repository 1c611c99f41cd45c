package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			masked := *a.cfg
			masked.Database.SupabaseURL = maskString(masked.Database.SupabaseURL)
			masked.Database.SupabaseKey = maskString(masked.Database.SupabaseKey)

			if output == "json" {
				return outputJSON(out, masked)
			}

			fmt.Fprintln(out, "Current Configuration:")
			fmt.Fprintf(out, "Jobs File: %s\n", masked.Storage.JobsFile)
			fmt.Fprintf(out, "Chat File: %s\n", masked.Storage.ChatFile)
			fmt.Fprintf(out, "Applied Ledger: %s\n", masked.Storage.AppliedLedgerFile)
			fmt.Fprintf(out, "Dedup Key: %s\n", masked.Storage.DedupKey)
			fmt.Fprintf(out, "Elite Filter: platform=%s min_score=%v limit=%d\n",
				masked.Elite.Platform, masked.Elite.MinScore, masked.Elite.Limit)
			fmt.Fprintf(out, "Database URL: %s\n", masked.Database.SupabaseURL)
			fmt.Fprintf(out, "Database Key: %s\n", masked.Database.SupabaseKey)
			fmt.Fprintf(out, "Sync Table: %s (batch %d, %d req/min)\n",
				masked.Database.Table, masked.Sync.BatchSize, masked.Sync.RateLimit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "console", "Output format: console, json")

	return cmd
}

func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
