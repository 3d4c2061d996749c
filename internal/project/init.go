// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const starterConfig = `title: My Document
version: "1.0"

src_dir: src
chapters:
  - index.md

backend_config:
  pandoc:
    markdown_flavor: markdown
    markdown_extensions:
      - simple_tables
    vars:
      toc: true
      papersize: a4
    params:
      pdf_engine: xelatex
      standalone: true
`

const starterChapter = `---
title: My Document
---

# Introduction

Write your first chapter here.
`

// Init writes a starter project into dir. Existing files are kept unless
// force is set. It returns the paths it wrote.
func Init(dir string, force bool) ([]string, error) {
	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, DefaultFile), starterConfig},
		{filepath.Join(dir, defaultSrcDir, "index.md"), starterChapter},
	}

	var written []string
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && !force {
			continue
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return written, fmt.Errorf("checking %s: %w", f.path, err)
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return written, fmt.Errorf("creating %s: %w", filepath.Dir(f.path), err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}
