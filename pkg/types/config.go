// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProjectConfig is the decoded project file (docpress.yaml). Paths are
// relative to the directory holding the project file unless absolute.
type ProjectConfig struct {
	// Title is the document title. Required when no slug is configured.
	Title string `json:"title" yaml:"title"`

	// Version is appended to generated slugs when set.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Slug overrides the generated output base name for whole-project builds.
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`

	// SrcDir holds the Markdown chapters (default "src").
	SrcDir string `json:"src_dir" yaml:"src_dir"`

	// TmpDir is the working directory sources are copied into before a
	// build (default "__docpress_tmp__").
	TmpDir string `json:"tmp_dir" yaml:"tmp_dir"`

	// CacheDir is the scratch directory cleared at the start of every
	// build (default ".docpresscache").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// OutputDir receives the built documents (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Chapters lists chapter files relative to SrcDir, in document order.
	// When empty, every *.md file in SrcDir is used in lexical order.
	Chapters []string `json:"chapters,omitempty" yaml:"chapters,omitempty"`

	// Backend holds per-backend settings.
	Backend BackendConfig `json:"backend_config" yaml:"backend_config"`
}

// BackendConfig groups backend blocks. Only pandoc is supported.
type BackendConfig struct {
	Pandoc PandocConfig `json:"pandoc" yaml:"pandoc"`
}

// PandocConfig controls how pandoc commands are assembled. The same shape
// is used for the project-wide block and for per-section overrides.
type PandocConfig struct {
	// PandocPath is the pandoc executable (default "pandoc").
	PandocPath string `json:"pandoc_path,omitempty" yaml:"pandoc_path,omitempty"`

	// Template is passed as --template for PDF and TeX targets.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// ReferenceDocx is passed as --reference-doc for DOCX targets.
	ReferenceDocx string `json:"reference_docx,omitempty" yaml:"reference_docx,omitempty"`

	// MarkdownFlavor is the pandoc input format (default "markdown").
	MarkdownFlavor string `json:"markdown_flavor,omitempty" yaml:"markdown_flavor,omitempty"`

	// MarkdownExtensions are appended to the flavor with "+".
	MarkdownExtensions []string `json:"markdown_extensions,omitempty" yaml:"markdown_extensions,omitempty"`

	// Vars become --variable flags (PDF and TeX only).
	Vars Options `json:"vars,omitempty" yaml:"vars,omitempty"`

	// Meta become --metadata flags.
	Meta Options `json:"meta,omitempty" yaml:"meta,omitempty"`

	// Filters become --filter flags, in order.
	Filters []string `json:"filters,omitempty" yaml:"filters,omitempty"`

	// Params are free-form pandoc flags; underscores map to hyphens.
	Params Options `json:"params,omitempty" yaml:"params,omitempty"`

	// Slug overrides the output base name.
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`

	// BuildWholeProject toggles the flattened whole-project build
	// (default true). Ignored inside section overrides.
	BuildWholeProject *bool `json:"build_whole_project,omitempty" yaml:"build_whole_project,omitempty"`
}

// WholeProject reports whether the whole-project build is enabled.
func (c PandocConfig) WholeProject() bool {
	return c.BuildWholeProject == nil || *c.BuildWholeProject
}
