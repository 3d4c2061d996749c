// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project loads and validates docpress project files.
//
// A project is a directory holding docpress.yaml and a source tree of
// Markdown chapters:
//
//	docpress.yaml
//	.env            (optional, exported before ${VAR} expansion)
//	src/
//	    01-intro.md
//	    02-setup.md
//
// Implements: docs/ARCHITECTURE § Project Configuration.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docpress/internal/pandoc"
	"github.com/pdiddy/docpress/pkg/types"
)

const (
	// DefaultFile is the project file name looked up in the current directory.
	DefaultFile = "docpress.yaml"

	defaultSrcDir    = "src"
	defaultTmpDir    = "__docpress_tmp__"
	defaultCacheDir  = ".docpresscache"
	defaultOutputDir = "."
	envFile          = ".env"
)

// ErrInvalidConfig marks errors caused by the project file itself.
var ErrInvalidConfig = errors.New("invalid project configuration")

// Project is a loaded project file plus the directory it was loaded from.
type Project struct {
	Config types.ProjectConfig
	// Root is the absolute directory holding the project file.
	Root string
}

// Load reads the project file at path, expands ${VAR} references, applies
// defaults and validates the result.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	root := filepath.Dir(abs)

	if err := loadEnv(root); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	cfg, err := Parse(expandEnv(data))
	if err != nil {
		return nil, err
	}
	return &Project{Config: *cfg, Root: root}, nil
}

// Parse decodes a project file, applies defaults and validates it.
func Parse(data []byte) (*types.ProjectConfig, error) {
	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing project file: %w", ErrInvalidConfig, err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset optional field with its documented
// default.
func ApplyDefaults(cfg *types.ProjectConfig) {
	if cfg.SrcDir == "" {
		cfg.SrcDir = defaultSrcDir
	}
	if cfg.TmpDir == "" {
		cfg.TmpDir = defaultTmpDir
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}

	p := &cfg.Backend.Pandoc
	if p.PandocPath == "" {
		p.PandocPath = pandoc.DefaultPath
	}
	if p.MarkdownFlavor == "" {
		p.MarkdownFlavor = pandoc.DefaultFlavor
	}
	if p.BuildWholeProject == nil {
		whole := true
		p.BuildWholeProject = &whole
	}
}

// envRef matches ${NAME} and its escaped form $${NAME}.
var envRef = regexp.MustCompile(`\$(\$?)\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} with the variable's value, or nothing when it
// is unset. $${NAME} yields a literal ${NAME}. Any other $ is kept.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(match []byte) []byte {
		m := envRef.FindSubmatch(match)
		if len(m[1]) > 0 {
			return match[1:]
		}
		return []byte(os.Getenv(string(m[2])))
	})
}

// loadEnv exports variables from root/.env without overriding variables
// already set in the environment. A missing file is not an error.
func loadEnv(root string) error {
	path := filepath.Join(root, envFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Dir resolves a project-relative directory to an absolute path.
func (p *Project) Dir(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.Root, rel)
}

// SrcDir returns the absolute source directory.
func (p *Project) SrcDir() string { return p.Dir(p.Config.SrcDir) }

// TmpDir returns the absolute working directory.
func (p *Project) TmpDir() string { return p.Dir(p.Config.TmpDir) }

// CacheDir returns the absolute cache directory.
func (p *Project) CacheDir() string { return p.Dir(p.Config.CacheDir) }

// OutputDir returns the absolute output directory.
func (p *Project) OutputDir() string { return p.Dir(p.Config.OutputDir) }

// Chapters returns chapter paths relative to the source directory, in
// document order. Configured chapters are returned as given; otherwise
// every *.md file under srcDir is listed in lexical order.
func Chapters(cfg types.ProjectConfig, srcDir string) ([]string, error) {
	if len(cfg.Chapters) > 0 {
		out := make([]string, len(cfg.Chapters))
		for i, c := range cfg.Chapters {
			clean := filepath.Clean(filepath.FromSlash(c))
			if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
				return nil, fmt.Errorf("%w: chapter %q is outside %s", ErrInvalidConfig, c, cfg.SrcDir)
			}
			out[i] = clean
		}
		return out, nil
	}

	var files []string
	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing chapters in %s: %w", srcDir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Merge returns base with every field set in override replacing the
// corresponding base field. Option maps and lists are replaced whole.
func Merge(base types.PandocConfig, override *types.PandocConfig) types.PandocConfig {
	if override == nil {
		return base
	}
	merged := base
	if override.PandocPath != "" {
		merged.PandocPath = override.PandocPath
	}
	if override.Template != "" {
		merged.Template = override.Template
	}
	if override.ReferenceDocx != "" {
		merged.ReferenceDocx = override.ReferenceDocx
	}
	if override.MarkdownFlavor != "" {
		merged.MarkdownFlavor = override.MarkdownFlavor
	}
	if override.MarkdownExtensions != nil {
		merged.MarkdownExtensions = override.MarkdownExtensions
	}
	if override.Vars != nil {
		merged.Vars = override.Vars
	}
	if override.Meta != nil {
		merged.Meta = override.Meta
	}
	if override.Filters != nil {
		merged.Filters = override.Filters
	}
	if override.Params != nil {
		merged.Params = override.Params
	}
	// Sections never inherit the project block's slug; it names the
	// whole-project output.
	merged.Slug = override.Slug
	return merged
}
