// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slug resolves the base name of build outputs.
//
// An explicit slug always wins. Otherwise the slug is generated from the
// title, an optional version and the build date:
//
//	My_Doc-2.0-2024-01-01
//
// Implements: docs/ARCHITECTURE § Slugs.
package slug

import (
	"errors"
	"strings"
	"time"

	"github.com/pdiddy/docpress/internal/shell"
	"github.com/pdiddy/docpress/pkg/types"
)

// dateLayout is the date suffix of generated slugs.
const dateLayout = "2006-01-02"

// ErrMissingTitle is returned when a slug must be generated but there is
// no title to generate it from.
var ErrMissingTitle = errors.New("title is required when no slug is configured")

// titleReplacer turns a title into a file-name-safe stem.
var titleReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_", "\x00", "")

// Slug is a resolved output base name.
type Slug struct {
	// Display is the file name stem as it appears on disk.
	Display string
	// Command is Display escaped for use inside a double-quoted argument.
	Command string
}

func newSlug(s string) Slug {
	return Slug{Display: s, Command: shell.Escape(s)}
}

// Resolver resolves slugs against a fixed clock.
type Resolver struct {
	// Now returns the build date. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Resolver using the wall clock.
func New() *Resolver {
	return &Resolver{Now: time.Now}
}

// Project resolves the slug of a whole-project build: the pandoc block's
// slug, then the project slug, then a generated one.
func (r *Resolver) Project(cfg types.PandocConfig, project types.ProjectConfig) (Slug, error) {
	if cfg.Slug != "" {
		return newSlug(cfg.Slug), nil
	}
	if project.Slug != "" {
		return newSlug(project.Slug), nil
	}
	return r.generate(project.Title, project.Version)
}

// Section resolves the slug of a per-section build. cfg is the section's
// override already merged over the project block. The version is taken
// from the section, then from the "version" variable, then from the
// project.
func (r *Resolver) Section(cfg types.PandocConfig, s types.Section, project types.ProjectConfig) (Slug, error) {
	if cfg.Slug != "" {
		return newSlug(cfg.Slug), nil
	}

	version := s.Version
	if version == "" {
		if v, ok := cfg.Vars.Lookup("version"); ok {
			if str, ok := v.(string); ok {
				version = str
			}
		}
	}
	if version == "" {
		version = project.Version
	}
	return r.generate(s.Title, version)
}

func (r *Resolver) generate(title, version string) (Slug, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Slug{}, ErrMissingTitle
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	components := []string{titleReplacer.Replace(title)}
	if version != "" {
		components = append(components, titleReplacer.Replace(version))
	}
	components = append(components, now().Format(dateLayout))
	return newSlug(strings.Join(components, "-")), nil
}
