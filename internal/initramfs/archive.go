// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// WriteArchive writes the directory tree rooted at dir as compressed CPIO
// archive into the file output.
//
// The output file is created or truncated. It is removed again if writing
// fails.
func WriteArchive(dir, output string, compression Compression) error {
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}

	err = writeArchive(file, DirFS(dir), compression)
	if err != nil {
		_ = os.Remove(output)
		return err
	}

	slog.Debug("Archive written",
		slog.String("path", output),
		slog.String("compression", compression.String()),
	)

	return nil
}

func writeArchive(file *os.File, fsys fs.FS, compression Compression) error {
	compressor, err := compression.NewWriter(file)
	if err != nil {
		_ = file.Close()
		return err
	}

	writer := NewCPIOWriter(compressor)

	err = WriteFS(writer, fsys)

	// Close inner writers first, so all buffered data reaches the file.
	return errors.Join(
		err,
		writer.Close(),
		closeErr("close compressor", compressor.Close()),
		closeErr("close file", file.Close()),
	)
}

func closeErr(msg string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}

	return nil
}

// WriteFS writes all files of the given [fs.FS] into the given [Writer].
//
// Regular files keep their permission bits. Symbolic links are written as
// links, so the given [fs.FS] must implement [ReadLinkFS] if it contains any.
func WriteFS(writer Writer, fsys fs.FS) error {
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == "." {
			return nil
		}

		switch d.Type() {
		case fs.ModeDir:
			return writer.WriteDirectory(path)
		case fs.ModeSymlink:
			target, err := ReadLink(fsys, path)
			if err != nil {
				return err
			}

			return writer.WriteLink(path, target)
		case 0:
			return writeRegular(writer, fsys, path)
		default:
			return &PathError{
				Op:   "archive",
				Path: path,
				Err:  ErrUnsupportedFileType,
			}
		}
	})
	if err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return nil
}

func writeRegular(writer Writer, fsys fs.FS, path string) error {
	file, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	return writer.WriteRegular(path, file, info.Mode().Perm())
}
