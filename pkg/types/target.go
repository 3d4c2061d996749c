// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Target is an output format docpress can produce.
type Target string

const (
	TargetPDF  Target = "pdf"
	TargetDOCX Target = "docx"
	TargetTeX  Target = "tex"
)

// Targets lists the supported targets in display order.
var Targets = []Target{TargetPDF, TargetDOCX, TargetTeX}

// Valid reports whether t is a supported target.
func (t Target) Valid() bool {
	switch t {
	case TargetPDF, TargetDOCX, TargetTeX:
		return true
	}
	return false
}

// Ext returns the output file extension, including the dot.
func (t Target) Ext() string {
	return "." + string(t)
}
