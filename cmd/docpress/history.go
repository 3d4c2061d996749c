// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/history"
	"github.com/pdiddy/docpress/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent builds",
	Long: `History lists recorded build units, newest first: the whole-project
build and every section build, with their status and output file.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	target, _ := cmd.Flags().GetString("target")
	status, _ := cmd.Flags().GetString("status")
	format, _ := cmd.Flags().GetString("format")
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		format = string(history.FormatJSON)
	}

	p, err := loadProject()
	if err != nil {
		return err
	}
	store, err := history.Open(historyPath(p))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), history.Query{
		Target: types.Target(target),
		Status: types.BuildStatus(status),
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 && format == string(history.FormatTable) {
		fmt.Fprintln(cmd.OutOrStdout(), "No builds recorded.")
		return nil
	}
	return history.Write(cmd.OutOrStdout(), records, history.Format(format))
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 20, "maximum number of builds to show")
	historyCmd.Flags().String("target", "", "filter by target: pdf, docx, tex")
	historyCmd.Flags().String("status", "", "filter by status: succeeded, failed")
	historyCmd.Flags().String("format", "table", "output format: table, json or yaml")
	historyCmd.Flags().Bool("json", false, "output as JSON (same as --format json)")
}
