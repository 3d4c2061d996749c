// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BuildStatus is the outcome of one build unit.
type BuildStatus string

const (
	BuildSucceeded BuildStatus = "succeeded"
	BuildFailed    BuildStatus = "failed"
)

// BuildRecord describes one pandoc invocation, successful or not.
type BuildRecord struct {
	ID        string        `json:"id" yaml:"id"`
	Target    Target        `json:"target" yaml:"target"`
	Scope     string        `json:"scope" yaml:"scope"`
	Slug      string        `json:"slug" yaml:"slug"`
	Output    string        `json:"output" yaml:"output"`
	Command   string        `json:"command" yaml:"command"`
	Status    BuildStatus   `json:"status" yaml:"status"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// ScopeProject is the scope of whole-project builds. Section builds use
// the section ID as scope.
const ScopeProject = "project"
