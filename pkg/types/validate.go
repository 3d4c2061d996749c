// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// formatName matches pandoc reader and extension names.
var formatName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// optionName matches names that are safe to place unquoted on a shell
// command line.
var optionName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// reservedParams are flags the command builder always emits itself.
var reservedParams = map[string]bool{
	"output": true, "o": true,
	"from": true, "f": true, "read": true, "r": true,
	"to": true, "t": true, "write": true, "w": true,
}

// Validate checks the project file after defaults have been applied.
func (c *ProjectConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Slug, validation.By(fileSafe)),
		validation.Field(&c.SrcDir, validation.Required),
		validation.Field(&c.TmpDir, validation.Required),
		validation.Field(&c.CacheDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Chapters, validation.Each(validation.Required)),
	); err != nil {
		return err
	}
	if err := c.Backend.Pandoc.Validate(); err != nil {
		return fmt.Errorf("backend_config.pandoc: %w", err)
	}
	return nil
}

// Validate checks a pandoc block. Empty fields are allowed so the same
// rules apply to section overrides.
func (c *PandocConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Slug, validation.By(fileSafe)),
		validation.Field(&c.MarkdownFlavor, validation.Match(formatName)),
		validation.Field(&c.MarkdownExtensions, validation.Each(validation.Required, validation.Match(formatName))),
		validation.Field(&c.Filters, validation.Each(validation.Required)),
		validation.Field(&c.Vars, validation.By(optionValues(true))),
		validation.Field(&c.Meta, validation.By(optionValues(true))),
		validation.Field(&c.Params, validation.By(optionValues(false)), validation.By(c.paramNames)),
	)
}

// fileSafe rejects slugs that would escape the output directory.
func fileSafe(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if strings.ContainsAny(s, `/\`+"\x00") || s == "." || s == ".." {
		return errors.New("must be a file name without path separators")
	}
	return nil
}

// optionValues rejects unsafe names, null values and, unless allowed, lists.
func optionValues(allowLists bool) validation.RuleFunc {
	return func(value any) error {
		opts, _ := value.(Options)
		for _, opt := range opts {
			if opt.Name == "" {
				return errors.New("option names must not be empty")
			}
			if !optionName.MatchString(opt.Name) {
				return fmt.Errorf("option name %q may only contain letters, digits, '_', '.' and '-'", opt.Name)
			}
			switch v := opt.Value.(type) {
			case nil:
				return fmt.Errorf("option %q has no value", opt.Name)
			case []any:
				if !allowLists {
					return fmt.Errorf("option %q: lists are not supported here", opt.Name)
				}
				for _, item := range v {
					if item == nil {
						return fmt.Errorf("option %q has an empty list item", opt.Name)
					}
				}
			}
		}
		return nil
	}
}

// paramNames rejects params that would duplicate a flag the command
// builder emits.
func (c *PandocConfig) paramNames(value any) error {
	opts, _ := value.(Options)
	for _, opt := range opts {
		flag := strings.ReplaceAll(opt.Name, "_", "-")
		switch {
		case reservedParams[flag]:
			return fmt.Errorf("param %q is set by docpress and cannot be overridden", opt.Name)
		case flag == "template" && c.Template != "":
			return errors.New(`param "template" conflicts with the template setting`)
		case flag == "reference-doc" && c.ReferenceDocx != "":
			return errors.New(`param "reference_doc" conflicts with the reference_docx setting`)
		}
	}
	return nil
}
