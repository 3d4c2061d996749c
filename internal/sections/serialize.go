// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/docpress/pkg/types"
)

// maxSerializeAttempts bounds the search for a free file name.
const maxSerializeAttempts = 1000

// Serialize writes the section's content next to its chapter so relative
// asset paths keep resolving, and returns the new file's path. The first
// choice is <slug>._md; when taken, <slug>2.md, <slug>3.md and so on are
// tried. Existing files are never overwritten.
func Serialize(s types.Section, slug string) (string, error) {
	content, err := s.Content()
	if err != nil {
		return "", fmt.Errorf("reading section %s: %w", s.ID, err)
	}
	dir := filepath.Dir(s.Chapter)

	for n := 1; n <= maxSerializeAttempts; n++ {
		path := filepath.Join(dir, serializedName(slug, n))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating %s: %w", path, err)
		}
		if _, err := f.Write(content); err != nil {
			f.Close()
			return "", fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free file name for section %s in %s", s.ID, dir)
}

func serializedName(slug string, n int) string {
	if n == 1 {
		return slug + "._md"
	}
	return slug + strconv.Itoa(n) + ".md"
}
