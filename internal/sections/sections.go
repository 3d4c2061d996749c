// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections splits chapter files into addressable sections.
//
// Every chapter is a main section whose data is the YAML frontmatter.
// A heading directly followed by a <meta> block opens a sub-section that
// runs to the next heading of the same or a higher level:
//
//	## Installation
//	<meta>
//	pandoc:
//	  template: handout.tex
//	</meta>
//
// A pandoc key in section data is that section's build override.
// Implements: docs/ARCHITECTURE § Sections.
package sections

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/docpress/internal/project"
	"github.com/pdiddy/docpress/pkg/types"
)

var (
	metaOpen  = []byte("<meta>")
	metaClose = []byte("</meta>")
)

// Load reads every chapter under workDir and returns its sections in
// document order: each chapter's main section followed by its
// sub-sections.
func Load(workDir string, chapters []string) ([]types.Section, error) {
	var out []types.Section
	for _, ch := range chapters {
		path := filepath.Join(workDir, ch)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading chapter %s: %w", ch, err)
		}
		secs, err := parseChapter(filepath.ToSlash(ch), path, data)
		if err != nil {
			return nil, err
		}
		out = append(out, secs...)
	}
	return out, nil
}

// heading is a top-level heading located in a chapter body.
type heading struct {
	level int
	title string
	start int // offset of the heading's first line
	node  *gmast.Heading
}

func parseChapter(id, path string, data []byte) ([]types.Section, error) {
	fm, body, offset := splitFrontmatter(data)
	fmData, fmHeader, err := decodeData(fm)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: frontmatter: %w", project.ErrInvalidConfig, id, err)
	}

	headings := findHeadings(body)

	title := fmHeader.Title
	if title == "" && len(headings) > 0 {
		title = headings[0].title
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	out := []types.Section{{
		ID:       id,
		Title:    title,
		Version:  fmHeader.Version,
		Data:     fmData,
		Override: fmHeader.Pandoc,
		Chapter:  path,
		Main:     true,
		Source:   contentOf(body),
	}}

	metas, err := findMeta(body, headings)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%w", project.ErrInvalidConfig, id, lineError(data, offset, err))
	}
	for _, m := range metas {
		h := headings[m.idx]
		line := offsetLine(data, offset+h.start)

		secData, secHeader, err := decodeData(m.yaml)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: meta: %w", project.ErrInvalidConfig, id, line, err)
		}

		end := len(body)
		for _, next := range headings[m.idx+1:] {
			if next.start >= m.end && next.level <= h.level {
				end = next.start
				break
			}
		}

		secTitle := secHeader.Title
		if secTitle == "" {
			secTitle = h.title
		}

		content := make([]byte, 0, end-h.start)
		content = append(content, body[h.start:m.start]...)
		content = append(content, body[m.end:end]...)

		out = append(out, types.Section{
			ID:       fmt.Sprintf("%s#%d", id, line),
			Title:    secTitle,
			Version:  secHeader.Version,
			Data:     secData,
			Override: secHeader.Pandoc,
			Chapter:  path,
			Source:   contentOf(content),
		})
	}
	return out, nil
}

// Strip returns chapter text without its frontmatter and <meta> blocks.
func Strip(data []byte) ([]byte, error) {
	_, body, offset := splitFrontmatter(data)
	metas, err := findMeta(body, findHeadings(body))
	if err != nil {
		return nil, lineError(data, offset, err)
	}

	out := make([]byte, 0, len(body))
	pos := 0
	for _, m := range metas {
		out = append(out, body[pos:m.start]...)
		pos = m.end
	}
	return append(out, body[pos:]...), nil
}

// metaBlock is a <meta> block directly following a heading.
type metaBlock struct {
	idx   int    // index of the owning heading
	start int    // offset of the <meta> line
	end   int    // offset just past the </meta> line
	yaml  []byte // text between the tags
}

// unclosedError reports a <meta> block without a closing tag.
type unclosedError struct{ pos int }

func (e *unclosedError) Error() string { return "unclosed <meta> block" }

// lineError prefixes an unclosedError with its line number in data.
func lineError(data []byte, offset int, err error) error {
	var u *unclosedError
	if errors.As(err, &u) {
		return fmt.Errorf("%d: %w", offsetLine(data, offset+u.pos), err)
	}
	return err
}

// findMeta locates the <meta> blocks of body in document order.
func findMeta(body []byte, headings []heading) ([]metaBlock, error) {
	var out []metaBlock
	// Lines starting with # inside a meta block are YAML comments, not
	// section boundaries.
	skipUntil := 0
	for i, h := range headings {
		if h.start < skipUntil {
			continue
		}
		html, ok := h.node.NextSibling().(*gmast.HTMLBlock)
		if !ok || html.Lines().Len() == 0 {
			continue
		}
		metaStart := lineStart(body, html.Lines().At(0).Start)
		first := bytes.ToLower(bytes.TrimSpace(body[metaStart:lineEnd(body, metaStart)]))
		if !bytes.HasPrefix(first, metaOpen) {
			continue
		}

		openAt := metaStart + bytes.Index(bytes.ToLower(body[metaStart:]), metaOpen)
		closeRel := bytes.Index(bytes.ToLower(body[openAt:]), metaClose)
		if closeRel < 0 {
			return nil, &unclosedError{pos: h.start}
		}
		closeAt := openAt + closeRel
		m := metaBlock{
			idx:   i,
			start: metaStart,
			end:   lineEnd(body, closeAt+len(metaClose)),
			yaml:  body[openAt+len(metaOpen) : closeAt],
		}
		skipUntil = m.end
		out = append(out, m)
	}
	return out, nil
}

// findHeadings returns the top-level headings of body. Headings nested in
// lists, quotes or code blocks are not section boundaries.
func findHeadings(body []byte) []heading {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var out []heading
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		var title bytes.Buffer
		for i := 0; i < h.Lines().Len(); i++ {
			seg := h.Lines().At(i)
			if i > 0 {
				title.WriteByte(' ')
			}
			title.Write(bytes.TrimSpace(seg.Value(body)))
		}
		out = append(out, heading{
			level: h.Level,
			title: title.String(),
			start: lineStart(body, h.Lines().At(0).Start),
			node:  h,
		})
	}
	return out
}

func contentOf(b []byte) func() ([]byte, error) {
	return func() ([]byte, error) {
		return bytes.Clone(b), nil
	}
}

// lineStart returns the offset of the first byte of the line holding pos.
func lineStart(b []byte, pos int) int {
	return bytes.LastIndexByte(b[:pos], '\n') + 1
}

// lineEnd returns the offset just past the newline ending the line
// holding pos, or len(b).
func lineEnd(b []byte, pos int) int {
	i := bytes.IndexByte(b[pos:], '\n')
	if i < 0 {
		return len(b)
	}
	return pos + i + 1
}

// offsetLine returns the 1-based line number of pos.
func offsetLine(b []byte, pos int) int {
	return bytes.Count(b[:pos], []byte("\n")) + 1
}
