// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"errors"
	"io/fs"
)

var (
	// ErrFileInvalid is returned if a file is invalid for the requested
	// operation.
	ErrFileInvalid = fs.ErrInvalid

	// ErrNotRegularFile is returned if the source is not a regular file.
	ErrNotRegularFile = errors.New("source is not a regular file")

	// ErrUnsupportedFileType is returned for files that can not be added to
	// an archive, like sockets or device nodes.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrUnknownCompression is returned for unknown compression names.
	ErrUnknownCompression = errors.New("unknown compression")
)

// PathError records an error and the operation and file path that caused it.
type PathError = fs.PathError
