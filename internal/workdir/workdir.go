// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workdir scopes changes of the process working directory.
//
// The working directory is process-wide state. Within is the only place
// docpress changes it, and it always changes it back.
// Implements: docs/ARCHITECTURE § Tool Execution.
package workdir

import (
	"errors"
	"fmt"
	"os"
)

// Within runs fn with dir as the working directory and restores the
// previous working directory afterwards, also when fn fails or panics.
func Within(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("entering %s: %w", dir, err)
	}

	defer func() {
		if restoreErr := os.Chdir(prev); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring working directory %s: %w", prev, restoreErr))
		}
	}()

	return fn()
}
