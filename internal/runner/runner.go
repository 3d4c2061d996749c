// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes pandoc command lines through the system shell.
// Implements: docs/ARCHITECTURE § Tool Execution.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	shellBin  = "sh"
	shellFlag = "-c"
)

// Runner executes one shell command line and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, command string) error
}

// ToolError reports a command that exited non-zero. Output holds the
// command's combined stdout and stderr, verbatim.
type ToolError struct {
	Command  string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *ToolError) Error() string {
	return "build failed: " + string(e.Output)
}

func (e *ToolError) Unwrap() error { return e.Err }

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Shell runs commands with `sh -c` in the process working directory.
type Shell struct {
	exec executor
}

var defaultExec = &osExecutor{}

// NewShell returns a Shell backed by os/exec.
func NewShell() *Shell {
	return &Shell{exec: defaultExec}
}

// Run executes command and blocks until it exits. A non-zero exit is
// returned as *ToolError.
func (s *Shell) Run(ctx context.Context, command string) error {
	out, err := s.exec.CombinedOutput(ctx, shellBin, shellFlag, command)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ToolError{
			Command:  command,
			ExitCode: exitErr.ExitCode(),
			Output:   out,
			Err:      err,
		}
	}
	return fmt.Errorf("running %s: %w", shellBin, err)
}

// Check resolves tool on PATH and returns the first line of
// `tool --version`.
func (s *Shell) Check(ctx context.Context, tool string) (path, version string, err error) {
	path, err = s.exec.LookPath(tool)
	if err != nil {
		return "", "", fmt.Errorf("%s not found on PATH: %w", tool, err)
	}

	out, err := s.exec.CombinedOutput(ctx, path, "--version")
	if err != nil {
		return path, "", fmt.Errorf("running %s --version: %w", path, err)
	}

	line, _, _ := bufio.NewReader(bytes.NewReader(out)).ReadLine()
	return path, strings.TrimSpace(string(line)), nil
}

// DryRun prints commands instead of running them.
type DryRun struct {
	W io.Writer
}

// Run writes command to the underlying writer.
func (d *DryRun) Run(_ context.Context, command string) error {
	_, err := fmt.Fprintln(d.W, command)
	return err
}
