// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// ReadInterpreter fetches the ELF interpreter path from the ELF file.
//
// If the file does not have an ELF magic number, [ErrNotELFFile] is returned.
// If no interpreter path is found, [ErrNoInterpreter] is returned. This is
// the case for statically linked binaries.
func ReadInterpreter(path string) (string, error) {
	elfFile, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) || errors.Is(err, io.EOF) {
			return "", ErrNotELFFile
		}

		return "", fmt.Errorf("open: %w", err)
	}
	defer elfFile.Close()

	for _, prog := range elfFile.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}

		buf := make([]byte, prog.Filesz)

		_, err := prog.ReadAt(buf, 0)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read interpreter: %w", err)
		}

		// Only terminate if the found path is not empty. If there is no other
		// prog with a valid path, it will result in the final
		// ErrNoInterpreter.
		interpreter := unix.ByteSliceToString(buf)
		if interpreter != "" {
			return interpreter, nil
		}
	}

	return "", ErrNoInterpreter
}
