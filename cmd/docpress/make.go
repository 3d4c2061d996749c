// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docpress/internal/build"
	"github.com/pdiddy/docpress/internal/history"
	"github.com/pdiddy/docpress/internal/pandoc"
	"github.com/pdiddy/docpress/internal/runner"
	"github.com/pdiddy/docpress/internal/watch"
	"github.com/pdiddy/docpress/pkg/types"
)

var makeCmd = &cobra.Command{
	Use:   "make <pdf|docx|tex>...",
	Short: "Build the project into one or more targets",
	Long: `Make copies the sources into the working directory, builds the whole
project (unless build_whole_project is false) and then every section with
its own pandoc block. The paths of the produced files are printed, one per
line.

With --watch, make keeps running and rebuilds whenever a chapter or the
project file changes. With --dry-run, the pandoc commands are printed
instead of run.`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{string(types.TargetPDF), string(types.TargetDOCX), string(types.TargetTeX)},
	RunE:      runMake,
}

// makeOptions are the flags of one make invocation.
type makeOptions struct {
	targets   []types.Target
	dryRun    bool
	noHistory bool
}

func runMake(cmd *cobra.Command, args []string) error {
	opts := makeOptions{}
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.noHistory, _ = cmd.Flags().GetBool("no-history")
	targets, err := parseTargets(args)
	if err != nil {
		return err
	}
	opts.targets = targets
	watchMode, _ := cmd.Flags().GetBool("watch")

	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if !watchMode {
		return makeTargets(ctx, opts, stdout, stderr)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := loadProject()
	if err != nil {
		return err
	}
	if err := makeTargets(ctx, opts, stdout, stderr); err != nil {
		slog.Error("build failed", slog.Any("error", err))
	}

	debounce := viper.GetDuration("watch_debounce")
	roots := []string{p.SrcDir(), viper.GetString("project")}
	fmt.Fprintf(stderr, "watching %s for changes (Ctrl-C to stop)\n", p.SrcDir())
	return watch.Watch(ctx, roots, debounce, slog.Default(), func(ctx context.Context, changed []string) {
		slog.Info("sources changed", slog.Int("files", len(changed)))
		if err := makeTargets(ctx, opts, stdout, stderr); err != nil {
			slog.Error("build failed", slog.Any("error", err))
		}
	})
}

// parseTargets rejects the whole invocation when any target is unsupported,
// so nothing is built for a partly valid list.
func parseTargets(args []string) ([]types.Target, error) {
	targets := make([]types.Target, 0, len(args))
	for _, a := range args {
		target := types.Target(strings.ToLower(a))
		if !target.Valid() {
			return nil, fmt.Errorf("build failed: %w: pandoc cannot make %q", pandoc.ErrUnsupportedTarget, target)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// makeTargets reloads the project and builds every target in order. It
// stops at the first failing target.
func makeTargets(ctx context.Context, opts makeOptions, stdout, stderr io.Writer) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	var r runner.Runner = runner.NewShell()
	if opts.dryRun {
		r = &runner.DryRun{W: stdout}
	}

	b := build.New(p, r)
	b.Logger = slog.Default()
	b.Out = stderr

	if !opts.dryRun && !opts.noHistory {
		store, err := history.Open(historyPath(p))
		if err != nil {
			slog.Warn("build history disabled", slog.Any("error", err))
		} else {
			defer store.Close()
			b.History = store
		}
	}

	for _, target := range opts.targets {
		outputs, err := b.Make(ctx, target)
		if len(outputs) > 0 {
			fmt.Fprintln(stdout, strings.Join(outputs, "\n"))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(makeCmd)

	makeCmd.Flags().BoolP("watch", "w", false, "rebuild when sources change")
	makeCmd.Flags().Bool("dry-run", false, "print pandoc commands instead of running them")
	makeCmd.Flags().Bool("no-history", false, "do not record builds in the history database")
}
