// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/project"
	"github.com/pdiddy/docpress/internal/sections"
	"github.com/pdiddy/docpress/internal/slug"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the sections of the project",
	Long: `Sections lists every section found in the chapters: the main section of
each chapter and every heading followed by a <meta> block. Sections with
a pandoc block are built on their own; their output slug is shown.`,
	Args: cobra.NoArgs,
	RunE: runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	chapters, err := project.Chapters(p.Config, p.SrcDir())
	if err != nil {
		return err
	}
	secs, err := sections.Load(p.SrcDir(), chapters)
	if err != nil {
		return err
	}

	resolver := slug.New()
	base := p.Config.Backend.Pandoc

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMAIN\tBUILT\tTITLE\tSLUG")
	for _, s := range secs {
		built, name := "no", "-"
		if s.Override != nil {
			built = "yes"
			sl, err := resolver.Section(project.Merge(base, s.Override), s, p.Config)
			if err != nil {
				name = "error: " + err.Error()
			} else {
				name = sl.Display
			}
		}
		isMain := "no"
		if s.Main {
			isMain = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, isMain, built, s.Title, name)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
