// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter project",
	Long: `Init writes a starter docpress.yaml and src/index.md into dir (default
the current directory). Existing files are kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	written, err := project.Init(dir, force)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Project already initialized; use --force to overwrite.")
		return nil
	}
	for _, path := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "overwrite existing files")
}
