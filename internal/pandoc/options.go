// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/docpress/internal/shell"
	"github.com/pdiddy/docpress/pkg/types"
)

// Variables renders template variables as --variable flags. True renders
// the bare flag and false omits the option.
func Variables(vars types.Options) string {
	return logged("variables", keyValueFlags("--variable", vars))
}

// Metadata renders document metadata as --metadata flags, with the same
// true/false handling as Variables.
func Metadata(meta types.Options) string {
	return logged("metadata", keyValueFlags("--metadata", meta))
}

// Filters renders one --filter flag per filter, in order.
func Filters(filters []string) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, "--filter "+shell.Arg(f))
	}
	return logged("filters", strings.Join(parts, " "))
}

// Params renders free-form pandoc flags. Underscores in names become
// hyphens, true renders --name, false omits the flag, and anything else
// renders --name=value.
func Params(params types.Options) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		name := "--" + strings.ReplaceAll(p.Name, "_", "-")
		switch v := p.Value.(type) {
		case bool:
			if v {
				parts = append(parts, name)
			}
		default:
			parts = append(parts, name+"="+shell.Arg(valueString(v)))
		}
	}
	return logged("params", strings.Join(parts, " "))
}

// From joins the markdown flavor and its extensions into a pandoc input
// format specifier, e.g. "markdown+simple_tables".
func From(flavor string, extensions []string) string {
	if flavor == "" {
		flavor = DefaultFlavor
	}
	return logged("from", strings.Join(append([]string{flavor}, extensions...), "+"))
}

// logged writes a rendered fragment to the default logger at debug level.
func logged(kind, rendered string) string {
	slog.Debug("pandoc options", slog.String("kind", kind), slog.String("rendered", rendered))
	return rendered
}

func keyValueFlags(flag string, opts types.Options) string {
	parts := make([]string, 0, len(opts))
	for _, opt := range opts {
		switch v := opt.Value.(type) {
		case bool:
			if v {
				parts = append(parts, flag+" "+opt.Name)
			}
		case []any:
			for _, item := range v {
				parts = append(parts, flag+" "+opt.Name+"="+shell.Quote(valueString(item)))
			}
		default:
			parts = append(parts, flag+" "+opt.Name+"="+shell.Quote(valueString(v)))
		}
	}
	return strings.Join(parts, " ")
}

func valueString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
