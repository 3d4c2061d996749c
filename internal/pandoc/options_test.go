// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/docpress/pkg/types"
)

func TestVariables(t *testing.T) {
	tests := []struct {
		name string
		vars types.Options
		want string
	}{
		{
			name: "true renders bare flag",
			vars: types.Options{{Name: "toc", Value: true}},
			want: "--variable toc",
		},
		{
			name: "false is omitted",
			vars: types.Options{{Name: "toc", Value: false}, {Name: "lang", Value: "en"}},
			want: `--variable lang="en"`,
		},
		{
			name: "value is escaped",
			vars: types.Options{{Name: "title", Value: `The "$5" book`}},
			want: `--variable title="The \"\$5\" book"`,
		},
		{
			name: "names keep underscores",
			vars: types.Options{{Name: "main_font", Value: "DejaVu Serif"}},
			want: `--variable main_font="DejaVu Serif"`,
		},
		{
			name: "list repeats the flag",
			vars: types.Options{{Name: "header-includes", Value: []any{"a", "b"}}},
			want: `--variable header-includes="a" --variable header-includes="b"`,
		},
		{
			name: "order follows configuration",
			vars: types.Options{{Name: "z", Value: "1"}, {Name: "a", Value: "2"}, {Name: "m", Value: true}},
			want: `--variable z="1" --variable a="2" --variable m`,
		},
		{
			name: "empty",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Variables(tt.vars))
		})
	}
}

func TestMetadata(t *testing.T) {
	meta := types.Options{
		{Name: "author", Value: "Ann `Lee`"},
		{Name: "draft", Value: false},
		{Name: "link-citations", Value: true},
	}
	assert.Equal(t, "--metadata author=\"Ann \\`Lee\\`\" --metadata link-citations", Metadata(meta))
}

func TestFilters(t *testing.T) {
	assert.Equal(t, "--filter pandoc-crossref --filter citeproc", Filters([]string{"pandoc-crossref", "citeproc"}))
	assert.Equal(t, `--filter "my filter.lua"`, Filters([]string{"my filter.lua"}))
	assert.Equal(t, "", Filters(nil))
}

func TestParams(t *testing.T) {
	tests := []struct {
		name   string
		params types.Options
		want   string
	}{
		{
			name:   "underscores become hyphens",
			params: types.Options{{Name: "pdf_engine", Value: "xelatex"}},
			want:   "--pdf-engine=xelatex",
		},
		{
			name:   "true renders bare flag",
			params: types.Options{{Name: "number_sections", Value: true}},
			want:   "--number-sections",
		},
		{
			name:   "false is omitted",
			params: types.Options{{Name: "toc", Value: false}, {Name: "standalone", Value: true}},
			want:   "--standalone",
		},
		{
			name:   "value needing quotes is quoted",
			params: types.Options{{Name: "css", Value: "my style.css"}},
			want:   `--css="my style.css"`,
		},
		{
			name:   "numeric text kept verbatim",
			params: types.Options{{Name: "toc_depth", Value: "3"}},
			want:   "--toc-depth=3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Params(tt.params))
		})
	}
}

func TestFalseNeverRendered(t *testing.T) {
	opts := types.Options{
		{Name: "alpha", Value: false},
		{Name: "beta", Value: true},
		{Name: "gamma", Value: false},
	}
	for _, out := range []string{Variables(opts), Metadata(opts), Params(opts)} {
		assert.NotContains(t, out, "alpha")
		assert.NotContains(t, out, "gamma")
		assert.NotContains(t, out, "false")
		assert.Contains(t, out, "beta")
	}
}

func TestFrom(t *testing.T) {
	assert.Equal(t, "markdown", From("", nil))
	assert.Equal(t, "gfm", From("gfm", nil))
	assert.Equal(t, "markdown+simple_tables+footnotes", From("markdown", []string{"simple_tables", "footnotes"}))
	assert.False(t, strings.Contains(From("markdown", nil), "+"))
}

func TestRenderersLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	Variables(types.Options{{Name: "toc", Value: true}})
	From("markdown", []string{"smart"})

	out := buf.String()
	assert.Contains(t, out, "kind=variables")
	assert.Contains(t, out, `rendered="--variable toc"`)
	assert.Contains(t, out, "kind=from rendered=markdown+smart")
}
