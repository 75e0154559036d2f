// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInterpreter is returned if no interpreter is found in an ELF file.
	ErrNoInterpreter = errors.New("no interpreter in ELF file")

	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrNoKernel is returned if no kernel modules directory is found.
	ErrNoKernel = errors.New("no kernel found")

	// ErrKernelNotExist is returned if the modules directory of a requested
	// kernel does not exist.
	ErrKernelNotExist = errors.New("kernel modules do not exist")

	// ErrProgramNotFound is returned if a program is not found in any of the
	// binary directories.
	ErrProgramNotFound = errors.New("program not found")

	// ErrUdevNotFound is returned if udevd is not found in any of the known
	// locations.
	ErrUdevNotFound = errors.New("udev not found")

	// ErrLibNotFound is returned if a needed shared object is not found in
	// any of the library directories.
	ErrLibNotFound = errors.New("shared object not found")

	// ErrTooManySymlinks is returned if resolving a path takes too many
	// symbolic links.
	ErrTooManySymlinks = errors.New("too many levels of symbolic links")
)

// CommandError wraps any error occurring while running an external command.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
