// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"
	"path/filepath"
)

// BinaryDirs are the directories programs are looked up in, in order.
//
//nolint:gochecknoglobals
var BinaryDirs = []string{
	"/usr/local/sbin",
	"/usr/local/bin",
	"/usr/sbin",
	"/usr/bin",
	"/sbin",
	"/bin",
}

// UdevPaths are the known locations of the udev daemon, in order.
//
//nolint:gochecknoglobals
var UdevPaths = []string{
	"/usr/lib/systemd/systemd-udevd",
	"/lib/systemd/systemd-udevd",
	"/sbin/udevd",
}

// ProgramPath returns the path of the executable with the given name as seen
// from within root.
//
// The first executable regular file found in [BinaryDirs] is returned. It
// returns [ErrProgramNotFound] if there is none.
func ProgramPath(root, name string) (string, error) {
	for _, dir := range BinaryDirs {
		path := filepath.Join(dir, name)

		info, err := os.Stat(filepath.Join(root, path))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		if info.Mode().Perm()&0o111 == 0 {
			continue
		}

		return path, nil
	}

	return "", fmt.Errorf("%w: %s", ErrProgramNotFound, name)
}

// UdevPath returns the path of the udev daemon as seen from within root.
//
// The first regular file of [UdevPaths] is returned. It returns
// [ErrUdevNotFound] if there is none.
func UdevPath(root string) (string, error) {
	for _, path := range UdevPaths {
		if isRegular(filepath.Join(root, path)) {
			return path, nil
		}
	}

	return "", ErrUdevNotFound
}
