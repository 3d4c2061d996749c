// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build drives pandoc over a project: one whole-project build from
// the flattened chapters and one build per section carrying a pandoc
// override.
// Implements: docs/ARCHITECTURE § Build Orchestration.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/docpress/internal/flatten"
	"github.com/pdiddy/docpress/internal/pandoc"
	"github.com/pdiddy/docpress/internal/project"
	"github.com/pdiddy/docpress/internal/runner"
	"github.com/pdiddy/docpress/internal/sections"
	"github.com/pdiddy/docpress/internal/slug"
	"github.com/pdiddy/docpress/internal/workdir"
	"github.com/pdiddy/docpress/pkg/types"
)

// Recorder stores the outcome of each build unit.
type Recorder interface {
	Record(ctx context.Context, rec types.BuildRecord) (types.BuildRecord, error)
}

// Builder runs builds for one project. Directories are absolute.
type Builder struct {
	Project   types.ProjectConfig
	Root      string
	SrcDir    string
	WorkDir   string
	CacheDir  string
	OutputDir string

	Runner runner.Runner
	Slugs  *slug.Resolver
	Logger *slog.Logger
	// Out receives one status line per build unit. Nil discards them.
	Out io.Writer
	// History is optional.
	History Recorder
}

// New returns a Builder for p that runs commands with r.
func New(p *project.Project, r runner.Runner) *Builder {
	return &Builder{
		Project:   p.Config,
		Root:      p.Root,
		SrcDir:    p.SrcDir(),
		WorkDir:   p.TmpDir(),
		CacheDir:  p.CacheDir(),
		OutputDir: p.OutputDir(),
		Runner:    r,
		Slugs:     slug.New(),
	}
}

// unit is one pandoc invocation.
type unit struct {
	scope  string
	slug   slug.Slug
	src    string
	dir    string
	config types.PandocConfig
}

// Make builds target and returns the produced files: the whole-project
// output first, then section outputs in document order. The first failure
// stops the build; files already produced are left in place.
func (b *Builder) Make(ctx context.Context, target types.Target) ([]string, error) {
	if !target.Valid() {
		return nil, failed(fmt.Errorf("%w: pandoc cannot make %q", pandoc.ErrUnsupportedTarget, target))
	}
	logger := b.logger()
	commands := pandoc.NewBuilder(logger)

	if err := b.prepare(); err != nil {
		return nil, failed(err)
	}

	chapters, err := project.Chapters(b.Project, b.SrcDir)
	if err != nil {
		return nil, failed(err)
	}
	secs, err := sections.Load(b.WorkDir, chapters)
	if err != nil {
		return nil, failed(err)
	}

	base := b.Project.Backend.Pandoc
	var outputs []string

	if base.WholeProject() {
		flat, err := flatten.Flatten(b.WorkDir, chapters, flatten.Options{KeepSources: true})
		if err != nil {
			return outputs, failed(err)
		}
		s, err := b.Slugs.Project(base, b.Project)
		if err != nil {
			return outputs, failed(fmt.Errorf("%w: %w", project.ErrInvalidConfig, err))
		}
		out, err := b.run(ctx, commands, target, unit{
			scope:  types.ScopeProject,
			slug:   s,
			src:    flat,
			dir:    b.Root,
			config: base,
		})
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}

	for _, sec := range secs {
		if sec.Override == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return outputs, failed(err)
		}

		merged := project.Merge(base, sec.Override)
		if err := merged.Validate(); err != nil {
			return outputs, failed(fmt.Errorf("%w: section %s: %w", project.ErrInvalidConfig, sec.ID, err))
		}
		s, err := b.Slugs.Section(merged, sec, b.Project)
		if err != nil {
			return outputs, failed(fmt.Errorf("%w: section %s: %w", project.ErrInvalidConfig, sec.ID, err))
		}

		src := sec.Chapter
		if !sec.Main {
			if src, err = sections.Serialize(sec, s.Display); err != nil {
				return outputs, failed(err)
			}
		}

		out, err := b.run(ctx, commands, target, unit{
			scope:  sec.ID,
			slug:   s,
			src:    src,
			dir:    filepath.Dir(src),
			config: merged,
		})
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// run builds and executes one unit inside its directory and records the
// outcome.
func (b *Builder) run(ctx context.Context, commands *pandoc.Builder, target types.Target, u unit) (string, error) {
	command, err := commands.Command(target, u.src, u.slug.Command, u.config, b.OutputDir)
	if err != nil {
		return "", failed(err)
	}
	output := filepath.Join(b.OutputDir, u.slug.Display+target.Ext())

	logger := b.logger().With(slog.String("target", string(target)), slog.String("scope", u.scope))
	logger.Info("running pandoc", slog.String("output", output))

	started := time.Now()
	err = workdir.Within(u.dir, func() error {
		return b.Runner.Run(ctx, command)
	})
	elapsed := time.Since(started)

	rec := types.BuildRecord{
		Target:    target,
		Scope:     u.scope,
		Slug:      u.slug.Display,
		Output:    output,
		Command:   command,
		Status:    types.BuildSucceeded,
		StartedAt: started,
		Duration:  elapsed,
	}
	if err != nil {
		err = failed(err)
		rec.Status = types.BuildFailed
		rec.Output = ""
		rec.Error = err.Error()
		logger.Error("pandoc failed", slog.Any("error", err))
		b.printf("failed  %s (%s): %v\n", u.scope, target, firstLine(err.Error()))
	} else {
		logger.Debug("pandoc finished", slog.Duration("elapsed", elapsed))
		b.printf("built   %s\n", output)
	}
	b.record(ctx, rec)

	if err != nil {
		return "", err
	}
	return output, nil
}

// prepare clears the cache directory and replaces the working directory
// with a fresh copy of the sources.
func (b *Builder) prepare() error {
	for _, d := range []string{b.WorkDir, b.CacheDir} {
		if overlaps(d, b.SrcDir) || within(b.Root, d) {
			return fmt.Errorf("%w: %s overlaps the source or project directory", project.ErrInvalidConfig, d)
		}
	}

	if err := os.RemoveAll(b.CacheDir); err != nil {
		return fmt.Errorf("clearing cache directory: %w", err)
	}
	if err := os.MkdirAll(b.CacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	if err := os.RemoveAll(b.WorkDir); err != nil {
		return fmt.Errorf("clearing working directory: %w", err)
	}
	if err := os.CopyFS(b.WorkDir, os.DirFS(b.SrcDir)); err != nil {
		return fmt.Errorf("copying sources to %s: %w", b.WorkDir, err)
	}
	return nil
}

func (b *Builder) record(ctx context.Context, rec types.BuildRecord) {
	if b.History == nil {
		return
	}
	if _, err := b.History.Record(ctx, rec); err != nil {
		b.logger().Warn("recording build history", slog.Any("error", err))
	}
}

func (b *Builder) printf(format string, args ...any) {
	if b.Out != nil {
		fmt.Fprintf(b.Out, format, args...)
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// failed prefixes err with "build failed". Tool errors already carry the
// prefix and the tool's output.
func failed(err error) error {
	var toolErr *runner.ToolError
	if errors.As(err, &toolErr) {
		return err
	}
	return fmt.Errorf("build failed: %w", err)
}

// overlaps reports whether one of a and b contains the other.
func overlaps(a, b string) bool {
	return within(a, b) || within(b, a)
}

// within reports whether path is dir or inside it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
