// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProject() ProjectConfig {
	return ProjectConfig{
		Title:     "Book",
		SrcDir:    "src",
		TmpDir:    "tmp",
		CacheDir:  "cache",
		OutputDir: ".",
	}
}

func TestProjectConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ProjectConfig)
		wantMsg string
	}{
		{name: "defaults", mutate: func(*ProjectConfig) {}},
		{name: "missing src", mutate: func(c *ProjectConfig) { c.SrcDir = "" }, wantMsg: "src_dir"},
		{name: "empty chapter", mutate: func(c *ProjectConfig) { c.Chapters = []string{"a.md", ""} }, wantMsg: "chapters"},
		{name: "dot slug", mutate: func(c *ProjectConfig) { c.Slug = ".." }, wantMsg: "slug"},
		{
			name:    "pandoc block",
			mutate:  func(c *ProjectConfig) { c.Backend.Pandoc.Filters = []string{""} },
			wantMsg: "backend_config.pandoc: filters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProject()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPandocConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PandocConfig
		wantMsg string
	}{
		{name: "empty override", cfg: PandocConfig{}},
		{
			name: "full",
			cfg: PandocConfig{
				MarkdownFlavor:     "gfm",
				MarkdownExtensions: []string{"footnotes", "pipe_tables"},
				Vars:               Options{{Name: "authors", Value: []any{"Ann", "Bob"}}},
				Params:             Options{{Name: "pdf_engine", Value: "xelatex"}, {Name: "toc_depth", Value: "2"}},
			},
		},
		{
			name:    "bad extension",
			cfg:     PandocConfig{MarkdownExtensions: []string{"+footnotes"}},
			wantMsg: "markdown_extensions",
		},
		{
			name:    "empty option name",
			cfg:     PandocConfig{Meta: Options{{Name: "", Value: "x"}}},
			wantMsg: "names must not be empty",
		},
		{
			name:    "shell command in var name",
			cfg:     PandocConfig{Vars: Options{{Name: "x; touch pwned; echo", Value: "v"}}},
			wantMsg: "may only contain",
		},
		{
			name:    "quote in meta name",
			cfg:     PandocConfig{Meta: Options{{Name: `a"b`, Value: "v"}}},
			wantMsg: "may only contain",
		},
		{
			name:    "leading dash in param name",
			cfg:     PandocConfig{Params: Options{{Name: "-x", Value: "v"}}},
			wantMsg: "may only contain",
		},
		{
			name: "dotted and hyphenated names",
			cfg:  PandocConfig{Meta: Options{{Name: "header-includes", Value: "x"}, {Name: "link.color", Value: "blue"}}},
		},
		{
			name:    "nil list item",
			cfg:     PandocConfig{Meta: Options{{Name: "k", Value: []any{"a", nil}}}},
			wantMsg: "empty list item",
		},
		{
			name:    "short reserved flag",
			cfg:     PandocConfig{Params: Options{{Name: "o", Value: "x.pdf"}}},
			wantMsg: "set by docpress",
		},
		{
			name:    "write flag",
			cfg:     PandocConfig{Params: Options{{Name: "write", Value: "html"}}},
			wantMsg: "set by docpress",
		},
		{
			name:    "reference doc conflict",
			cfg:     PandocConfig{ReferenceDocx: "ref.docx", Params: Options{{Name: "reference_doc", Value: "other.docx"}}},
			wantMsg: "conflicts with the reference_docx",
		},
		{
			name: "template param without template",
			cfg:  PandocConfig{Params: Options{{Name: "template", Value: "t.tex"}}},
		},
		{
			name:    "slug with backslash",
			cfg:     PandocConfig{Slug: `a\b`},
			wantMsg: "slug",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestWholeProject(t *testing.T) {
	off := false
	assert.True(t, PandocConfig{}.WholeProject())
	assert.False(t, PandocConfig{BuildWholeProject: &off}.WholeProject())
}
