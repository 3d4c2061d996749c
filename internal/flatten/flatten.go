// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package flatten concatenates a project's chapters into one Markdown
// file for whole-project builds.
// Implements: docs/ARCHITECTURE § Flattening.
package flatten

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/docpress/internal/sections"
)

// FileName is the flat source written into the working directory.
const FileName = "__all__.md"

// imageRef matches inline Markdown images: ![alt](dest "title").
var imageRef = regexp.MustCompile(`(!\[[^\]]*\]\()\s*([^)\s]+)((?:\s+"[^"]*")?\s*\))`)

// Options controls flattening.
type Options struct {
	// KeepSources leaves the chapter copies in place. Per-section builds
	// read them, so the build orchestrator always keeps them.
	KeepSources bool
}

// Flatten writes the chapters, in order, into workDir/__all__.md and
// returns its path. Frontmatter and <meta> blocks are dropped and
// relative image paths are rewritten to absolute paths, so the flat file
// builds from any working directory.
func Flatten(workDir string, chapters []string, opts Options) (string, error) {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", workDir, err)
	}
	workDir = abs

	var buf bytes.Buffer
	for i, ch := range chapters {
		data, err := os.ReadFile(filepath.Join(workDir, ch))
		if err != nil {
			return "", fmt.Errorf("reading chapter %s: %w", ch, err)
		}
		body, err := sections.Strip(data)
		if err != nil {
			return "", fmt.Errorf("chapter %s: %w", ch, err)
		}
		body = rewriteImages(body, filepath.Dir(filepath.Join(workDir, ch)))

		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.Write(bytes.TrimRight(body, "\n"))
	}
	buf.WriteByte('\n')

	out := filepath.Join(workDir, FileName)
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}

	if !opts.KeepSources {
		for _, ch := range chapters {
			if err := os.Remove(filepath.Join(workDir, ch)); err != nil {
				return "", fmt.Errorf("removing chapter %s: %w", ch, err)
			}
		}
	}
	return out, nil
}

// rewriteImages resolves relative image destinations against dir, the
// chapter's absolute directory. Destinations with spaces are wrapped in
// angle brackets.
func rewriteImages(body []byte, dir string) []byte {
	return imageRef.ReplaceAllFunc(body, func(match []byte) []byte {
		parts := imageRef.FindSubmatch(match)
		dest := string(parts[2])
		if !isRelative(dest) {
			return match
		}
		rewritten := filepath.ToSlash(filepath.Join(dir, filepath.FromSlash(dest)))
		if strings.ContainsAny(rewritten, " \t") {
			rewritten = "<" + rewritten + ">"
		}
		return []byte(string(parts[1]) + rewritten + string(parts[3]))
	})
}

// isRelative reports whether dest is a path relative to its chapter.
func isRelative(dest string) bool {
	switch {
	case strings.HasPrefix(dest, "/"), strings.HasPrefix(dest, "#"), strings.HasPrefix(dest, "<"):
		return false
	case strings.Contains(dest, "://"), strings.HasPrefix(dest, "data:"), strings.HasPrefix(dest, "mailto:"):
		return false
	}
	return true
}
