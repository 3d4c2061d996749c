// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/pandoc"
	"github.com/pdiddy/docpress/internal/runner"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that pandoc is installed",
	Long: `Doctor resolves the pandoc executable configured in the project file
(or "pandoc" without a project) and prints its location and version.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	tool := pandoc.DefaultPath
	p, err := loadProject()
	switch {
	case err == nil:
		tool = p.Config.Backend.Pandoc.PandocPath
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(cmd.ErrOrStderr(), "no project file found, checking the default pandoc")
	default:
		return err
	}

	path, ver, err := runner.NewShell().Check(cmd.Context(), tool)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pandoc:  %s\nversion: %s\n", path, ver)
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
