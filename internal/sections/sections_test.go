// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docpress/internal/project"
	"github.com/pdiddy/docpress/pkg/types"
)

const guide = `---
title: User Guide
version: 2.0
---

# Guide

Intro text.

## Installation
<meta>
title: Install Handout
pandoc:
  template: handout.tex
  vars:
    toc: true
</meta>

Run the installer.

### Linux

Use the package.

` + "```" + `
# not a heading
` + "```" + `

## Usage

Plain section without meta.
`

func writeChapter(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func content(t *testing.T, s types.Section) string {
	t.Helper()
	b, err := s.Content()
	require.NoError(t, err)
	return string(b)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeChapter(t, dir, "guide.md", guide)
	writeChapter(t, dir, "notes/plain.md", "Just text.\n")

	secs, err := Load(dir, []string{"guide.md", filepath.Join("notes", "plain.md")})
	require.NoError(t, err)
	require.Len(t, secs, 3)

	main := secs[0]
	assert.Equal(t, "guide.md", main.ID)
	assert.True(t, main.Main)
	assert.Equal(t, "User Guide", main.Title)
	assert.Equal(t, "2.0", main.Version)
	assert.Nil(t, main.Override)
	assert.Equal(t, filepath.Join(dir, "guide.md"), main.Chapter)
	assert.NotContains(t, content(t, main), "title: User Guide")
	assert.Contains(t, content(t, main), "# Guide")

	sub := secs[1]
	assert.Equal(t, "guide.md#10", sub.ID)
	assert.False(t, sub.Main)
	assert.Equal(t, "Install Handout", sub.Title)
	require.NotNil(t, sub.Override)
	assert.Equal(t, "handout.tex", sub.Override.Template)
	assert.Equal(t, types.Options{{Name: "toc", Value: true}}, sub.Override.Vars)
	assert.Equal(t, "Install Handout", sub.Data["title"])
	assert.Equal(t, "## Installation\n\nRun the installer.\n\n### Linux\n\nUse the package.\n\n```\n# not a heading\n```\n\n", content(t, sub))

	plain := secs[2]
	assert.Equal(t, "notes/plain.md", plain.ID)
	assert.Equal(t, "plain", plain.Title)
	assert.True(t, plain.Main)
}

func TestLoadMetaWithBlankLineAndComments(t *testing.T) {
	dir := t.TempDir()
	writeChapter(t, dir, "a.md", `# Top

## Part
<meta>
version: "3"

# a YAML comment
pandoc:
  slug: part
</meta>
Body.

## Next
`)

	secs, err := Load(dir, []string{"a.md"})
	require.NoError(t, err)
	require.Len(t, secs, 2)

	part := secs[1]
	assert.Equal(t, "Part", part.Title)
	assert.Equal(t, "3", part.Version)
	require.NotNil(t, part.Override)
	assert.Equal(t, "part", part.Override.Slug)
	assert.Equal(t, "## Part\nBody.\n\n", content(t, part))
}

func TestLoadFrontmatterOverride(t *testing.T) {
	dir := t.TempDir()
	writeChapter(t, dir, "c.md", "---\npandoc:\n  reference_docx: ref.docx\n---\nText\n")

	secs, err := Load(dir, []string{"c.md"})
	require.NoError(t, err)
	require.Len(t, secs, 1)
	require.NotNil(t, secs[0].Override)
	assert.Equal(t, "ref.docx", secs[0].Override.ReferenceDocx)
	assert.Equal(t, "Text\n", content(t, secs[0]))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unclosed meta", "# A\n<meta>\ntitle: x\n", "unclosed <meta> block"},
		{"bad frontmatter", "---\ntitle: [x\n---\n", "frontmatter"},
		{"scalar meta", "# A\n<meta>\njust text\n</meta>\n", "must be a mapping"},
		{"invalid override", "# A\n<meta>\npandoc:\n  params:\n    output: x\n</meta>\n", "set by docpress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeChapter(t, dir, "x.md", tt.content)
			_, err := Load(dir, []string{"x.md"})
			require.Error(t, err)
			assert.ErrorIs(t, err, project.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadMissingChapter(t *testing.T) {
	_, err := Load(t.TempDir(), []string{"missing.md"})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantFM   string
		wantBody string
	}{
		{"none", "# Title\n", "", "# Title\n"},
		{"closed", "---\na: 1\n---\nbody\n", "a: 1\n", "body\n"},
		{"unclosed", "---\na: 1\nbody\n", "", "---\na: 1\nbody\n"},
		{"thematic break later", "text\n---\nmore\n", "", "text\n---\nmore\n"},
		{"closing at eof", "---\na: 1\n---", "a: 1\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, _ := splitFrontmatter([]byte(tt.in))
			assert.Equal(t, tt.wantFM, string(fm))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestStrip(t *testing.T) {
	got, err := Strip([]byte(guide))
	require.NoError(t, err)
	assert.NotContains(t, string(got), "title: User Guide")
	assert.NotContains(t, string(got), "<meta>")
	assert.NotContains(t, string(got), "handout.tex")
	assert.Contains(t, string(got), "## Installation\n\nRun the installer.")
	assert.Contains(t, string(got), "## Usage")

	_, err = Strip([]byte("---\na: 1\n---\n# A\n<meta>\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4: unclosed <meta> block")
}
