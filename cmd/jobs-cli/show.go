package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"job-ledger-go/internal/ledger"
	"job-ledger-go/internal/storage"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one job by id",
		Long: `Prints the first job whose id equals <id>. An argument that is a JSON number
matches numeric ids only; quote it as a JSON string ('"42"') to match a string id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := a.cfg.Storage.JobsFile

			records, found, err := storage.Load(file)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s not found", file)
			}

			record, ok := ledger.FindByID(records, parseID(args[0]))
			if !ok {
				return fmt.Errorf("lead %s not found in %s", args[0], file)
			}
			return outputJSON(cmd.OutOrStdout(), record)
		},
	}
}

// parseID reads arg as a JSON string or number literal, falling back to the
// raw text
func parseID(arg string) any {
	decoder := json.NewDecoder(bytes.NewReader([]byte(arg)))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil || decoder.More() {
		return arg
	}
	switch v.(type) {
	case string, json.Number:
		return v
	default:
		return arg
	}
}
