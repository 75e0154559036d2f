// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sys/unix"
)

// ModulesDir is the directory with the modules of all installed kernels.
const ModulesDir = "/lib/modules"

// LatestKernel returns the name of the most recently modified kernel in the
// given modules directory.
//
// Only directories are considered. It returns [ErrNoKernel] if there is none.
func LatestKernel(modulesDir string) (string, error) {
	entries, err := os.ReadDir(modulesDir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoKernel, err)
	}

	type kernel struct {
		name    string
		modTime time.Time
	}

	kernels := make([]kernel, 0, len(entries))

	for _, entry := range entries {
		// Follow symbolic links, so a linked kernel directory counts.
		info, err := os.Stat(filepath.Join(modulesDir, entry.Name()))
		if err != nil || !info.IsDir() {
			continue
		}

		kernels = append(kernels, kernel{entry.Name(), info.ModTime()})
	}

	if len(kernels) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoKernel, modulesDir)
	}

	slices.SortStableFunc(kernels, func(a, b kernel) int {
		return b.modTime.Compare(a.modTime)
	})

	return kernels[0].name, nil
}

// ValidateKernel checks that the modules directory of the given kernel
// exists.
func ValidateKernel(modulesDir, name string) error {
	info, err := os.Stat(filepath.Join(modulesDir, name))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrKernelNotExist, name)
	}

	return nil
}

// RunningKernel returns the release of the running kernel.
func RunningKernel() (string, error) {
	var uts unix.Utsname

	err := unix.Uname(&uts)
	if err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}

	return unix.ByteSliceToString(uts.Release[:]), nil
}
