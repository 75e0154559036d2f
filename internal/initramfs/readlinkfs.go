// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// ReadLinkFS is a [fs.FS] with an additional method for reading the target of
// a symbolic link.
//
// Replace with [fs.ReadLinkFS] once available (planned for 1.25). See
// https://github.com/golang/go/issues/49580
type ReadLinkFS interface {
	fs.FS

	ReadLink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)
}

// ReadLink returns the destination a symbolic links points to.
//
// The given [fs.FS], must implement [ReadLinkFS], otherwise [ErrFileInvalid]
// is returned.
func ReadLink(fsys fs.FS, name string) (string, error) {
	rlFS, ok := fsys.(ReadLinkFS)
	if !ok {
		return "", &PathError{
			Op:   "readlink",
			Path: name,
			Err:  ErrFileInvalid,
		}
	}

	return rlFS.ReadLink(name) //nolint:wrapcheck
}

type dirFS struct {
	fs.FS
	dir string
}

// DirFS returns a [ReadLinkFS] for the tree rooted at dir, like [os.DirFS].
func DirFS(dir string) ReadLinkFS {
	return &dirFS{
		FS:  os.DirFS(dir),
		dir: dir,
	}
}

func (fsys *dirFS) join(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &PathError{Op: op, Path: name, Err: ErrFileInvalid}
	}

	return filepath.Join(fsys.dir, filepath.FromSlash(name)), nil
}

// ReadLink implements [ReadLinkFS].
func (fsys *dirFS) ReadLink(name string) (string, error) {
	path, err := fsys.join("readlink", name)
	if err != nil {
		return "", err
	}

	return os.Readlink(path) //nolint:wrapcheck
}

// Lstat implements [ReadLinkFS].
func (fsys *dirFS) Lstat(name string) (fs.FileInfo, error) {
	path, err := fsys.join("lstat", name)
	if err != nil {
		return nil, err
	}

	return os.Lstat(path) //nolint:wrapcheck
}
