package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"job-ledger-go/internal/ledger"
	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

func newInsertCmd(a *app) *cobra.Command {
	var (
		score     float64
		reasoning string
	)

	cmd := &cobra.Command{
		Use:   "insert [record-json | -]",
		Short: "Add a job unless it was applied to or is already stored",
		Long: `Reads one JSON object from the argument or stdin and appends it to the job file.
Jobs whose id is in the applied ledger, or whose id or url is already stored, are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}

			if math.IsNaN(score) || math.IsInf(score, 0) {
				return fmt.Errorf("invalid --score %v: must be a finite number", score)
			}

			record, err := readRecord(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			var assessment *ledger.Assessment
			if cmd.Flags().Changed("score") || cmd.Flags().Changed("reasoning") {
				assessment = &ledger.Assessment{Score: score, Reasoning: reasoning}
			}

			ingester := ledger.NewIngester(
				storage.NewFileStore(a.cfg.Storage.JobsFile),
				a.cfg.Storage.AppliedLedgerFile,
			)

			outcome, stored, err := ingester.Ingest(record, assessment)
			if err != nil {
				return err
			}

			a.logger.Debug("Ingested record",
				slog.String("outcome", outcome.String()),
				slog.String("url", record.String(models.FieldURL)))

			out := cmd.OutOrStdout()
			switch outcome {
			case ledger.Inserted:
				fmt.Fprintf(out, "Inserted job %s\n", stored.String(models.FieldID))
			default:
				fmt.Fprintf(out, "Skipped: %s\n", outcome)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&score, "score", 0, "Score to stamp on the job")
	cmd.Flags().StringVar(&reasoning, "reasoning", "", "Reasoning to stamp on the job")

	return cmd
}

// readRecord parses one JSON object from arg, or from stdin when arg is "-"
func readRecord(stdin io.Reader, arg string) (models.Record, error) {
	var src io.Reader = strings.NewReader(arg)
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		src = bytes.NewReader(data)
	}

	decoder := json.NewDecoder(src)
	decoder.UseNumber()

	var record models.Record
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("invalid record JSON: want an object")
	}
	return record, nil
}
