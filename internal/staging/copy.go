// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	errNotRegular   = errors.New("not a regular file")
	errNotDirectory = errors.New("not a directory")
	errUnsupported  = errors.New("unsupported file type")
)

// copyPath copies source to target and verifies the result.
func copyPath(source, target string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}

	switch {
	case info.IsDir():
		err = os.MkdirAll(target, dirMode)
		if err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	case info.Mode().IsRegular():
		err = copyRegular(source, target, info.Mode().Perm())
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", errUnsupported, info.Mode().Type())
	}

	return verify(target, info.IsDir())
}

func copyRegular(source, target string, perm fs.FileMode) error {
	existing, err := os.Lstat(target)
	if err == nil && existing.Mode().IsRegular() {
		err = os.Remove(target)
		if err != nil {
			return fmt.Errorf("remove existing: %w", err)
		}
	}

	err = os.MkdirAll(filepath.Dir(target), dirMode)
	if err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}

	_, err = io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy content: %w", err)
	}

	// Make sure the mode is not masked by umask.
	err = dst.Chmod(perm)
	if err != nil {
		_ = dst.Close()
		return fmt.Errorf("chmod: %w", err)
	}

	err = dst.Close()
	if err != nil {
		return fmt.Errorf("close target: %w", err)
	}

	return nil
}

func verify(target string, isDir bool) error {
	info, err := os.Lstat(target)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	switch {
	case isDir && !info.IsDir():
		return errNotDirectory
	case !isDir && !info.Mode().IsRegular():
		return errNotRegular
	}

	return nil
}
