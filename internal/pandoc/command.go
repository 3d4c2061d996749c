// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc assembles pandoc command lines from a PandocConfig.
// Commands are single strings meant for `sh -c`. Every user-supplied value
// is quoted or escaped on the way in; option names are emitted as given and
// must pass PandocConfig.Validate first.
// Implements: docs/ARCHITECTURE § Pandoc Commands.
package pandoc

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docpress/internal/shell"
	"github.com/pdiddy/docpress/pkg/types"
)

const (
	// DefaultPath is the pandoc executable used when none is configured.
	DefaultPath = "pandoc"
	// DefaultFlavor is the input format used when none is configured.
	DefaultFlavor = "markdown"
)

// ErrUnsupportedTarget is returned for targets other than pdf, docx and tex.
var ErrUnsupportedTarget = errors.New("unsupported target")

// Builder turns a pandoc configuration into command lines.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder returns a Builder that logs every command at debug level.
// A nil logger discards the logs.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{logger: logger}
}

// Command returns the shell command that converts src into target. slug
// must already be escaped for use inside double quotes; the output file is
// slug plus the target extension, inside outDir when outDir is not empty.
func (b *Builder) Command(target types.Target, src, slug string, cfg types.PandocConfig, outDir string) (string, error) {
	if !target.Valid() {
		return "", fmt.Errorf("%w: pandoc cannot make %q", ErrUnsupportedTarget, target)
	}

	tool := cfg.PandocPath
	if tool == "" {
		tool = DefaultPath
	}
	components := []string{shell.Arg(tool)}

	switch target {
	case types.TargetPDF, types.TargetTeX:
		if cfg.Template != "" {
			components = append(components, "--template="+shell.Quote(cfg.Template))
		}
	case types.TargetDOCX:
		if cfg.ReferenceDocx != "" {
			components = append(components, "--reference-doc="+shell.Quote(cfg.ReferenceDocx))
		}
	}

	components = append(components, `--output "`+outputName(outDir, slug, target)+`"`)

	if target != types.TargetDOCX {
		components = append(components, Variables(cfg.Vars))
	}
	components = append(components,
		Metadata(cfg.Meta),
		Filters(cfg.Filters),
		Params(cfg.Params),
		"-f "+From(cfg.MarkdownFlavor, cfg.MarkdownExtensions)+" "+shell.Arg(src),
	)

	command := joinNonEmpty(components)
	b.logger.Debug("pandoc command", slog.String("target", string(target)), slog.String("command", command))
	return command, nil
}

// outputName joins the escaped output directory with the already escaped
// slug.
func outputName(outDir, slug string, target types.Target) string {
	name := slug + target.Ext()
	if outDir == "" {
		return name
	}
	return shell.Escape(strings.TrimSuffix(outDir, string(filepath.Separator))) + string(filepath.Separator) + name
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
