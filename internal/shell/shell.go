// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shell quotes user-supplied strings for POSIX shell command lines.
// Implements: docs/ARCHITECTURE § Pandoc Commands.
package shell

import (
	"regexp"
	"strings"
)

// escaper neutralizes every character that keeps a special meaning inside
// double quotes.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"`", "\\`",
)

// bareword matches strings that need no quoting at all.
var bareword = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Escape returns s escaped for embedding inside a double-quoted shell
// argument.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Quote returns s as a double-quoted shell argument.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}

// Arg returns s unchanged when it is a plain word, and quoted otherwise.
func Arg(s string) string {
	if bareword.MatchString(s) {
		return s
	}
	return Quote(s)
}
