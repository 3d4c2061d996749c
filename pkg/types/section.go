// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Section is an addressable unit of document content: either a whole
// chapter (the main section) or a heading-delimited part of one.
type Section struct {
	// ID is unique within a project: the chapter path, plus "#" and the
	// heading line for sub-sections.
	ID string `json:"id" yaml:"id"`

	// Title is the section heading or the chapter title.
	Title string `json:"title" yaml:"title"`

	// Version is the section-local version string, if any.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Data is the section metadata as written in the source.
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`

	// Override is the section's pandoc block, if any. Only sections with
	// an override are built on their own.
	Override *PandocConfig `json:"pandoc,omitempty" yaml:"pandoc,omitempty"`

	// Chapter is the path of the chapter file holding the section.
	Chapter string `json:"chapter" yaml:"chapter"`

	// Main is true when the section spans its entire chapter file.
	Main bool `json:"main" yaml:"main"`

	// Source returns the section's Markdown content.
	Source func() ([]byte, error) `json:"-" yaml:"-"`
}

// Content returns the section's Markdown content.
func (s Section) Content() ([]byte, error) {
	if s.Source == nil {
		return nil, nil
	}
	return s.Source()
}
