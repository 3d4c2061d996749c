// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flatten

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChapter(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFlatten(t *testing.T) {
	dir := t.TempDir()
	writeChapter(t, dir, "intro.md", "---\ntitle: Intro\n---\n# Intro\n\n![logo](logo.png)\n")
	writeChapter(t, dir, "guide/setup.md", "# Setup\n<meta>\npandoc:\n  slug: setup\n</meta>\n\n![shot](img/shot.png \"Shot\")\n\n![up](../logo.png)\n")

	chapters := []string{"intro.md", filepath.Join("guide", "setup.md")}
	out, err := Flatten(dir, chapters, Options{KeepSources: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), out)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	want := "# Intro\n\n![logo](" + dir + "/logo.png)\n\n" +
		"# Setup\n\n![shot](" + dir + "/guide/img/shot.png \"Shot\")\n\n![up](" + dir + "/logo.png)\n"
	assert.Equal(t, want, string(got))

	for _, ch := range chapters {
		assert.FileExists(t, filepath.Join(dir, ch))
	}
}

func TestFlattenRemovesSources(t *testing.T) {
	dir := t.TempDir()
	writeChapter(t, dir, "a.md", "A\n")
	writeChapter(t, dir, "b.md", "B\n")

	_, err := Flatten(dir, []string{"a.md", "b.md"}, Options{})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "a.md"))
	assert.NoFileExists(t, filepath.Join(dir, "b.md"))

	got, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "A\n\nB\n", string(got))
}

func TestFlattenMissingChapter(t *testing.T) {
	_, err := Flatten(t.TempDir(), []string{"nope.md"}, Options{KeepSources: true})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRewriteImages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "![a](x.png)", "![a](/w/ch/x.png)"},
		{"dot slash", "![a](./x.png)", "![a](/w/ch/x.png)"},
		{"parent", "![a](../x.png)", "![a](/w/x.png)"},
		{"absolute", "![a](/abs/x.png)", "![a](/abs/x.png)"},
		{"url", "![a](https://example.com/x.png)", "![a](https://example.com/x.png)"},
		{"data uri", "![a](data:image/png;base64,AAA)", "![a](data:image/png;base64,AAA)"},
		{"link untouched", "[a](x.png)", "[a](x.png)"},
		{"with title", `![a](x.png "T")`, `![a](/w/ch/x.png "T")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(rewriteImages([]byte(tt.in), "/w/ch")))
		})
	}
}

func TestRewriteImagesSpaces(t *testing.T) {
	got := rewriteImages([]byte("![a](x.png)"), "/my book/ch")
	assert.Equal(t, "![a](</my book/ch/x.png>)", string(got))
}
