// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const lddTimeout = 5 * time.Second

// Ldd gathers the required shared objects of the ELF file with the given path.
//
// The objects are listed by the ELF interpreter of the file itself, like
// glibc's ldd did before version 2.27. So, only use it for trusted binaries.
// The dynamic linker consumes LD_LIBRARY_PATH from the environment.
//
// [ErrNotELFFile] or [ErrNoInterpreter] is returned for files that are not
// dynamically linked ELF files. A failing interpreter is returned as
// [CommandError].
func Ldd(ctx context.Context, path string) ([]string, error) {
	interpreter, err := ReadInterpreter(path)
	if err != nil {
		return nil, err
	}

	ctx, stop := context.WithTimeout(ctx, lddTimeout)
	defer stop()

	lines, err := Run(ctx, interpreter, "--list", path)
	if err != nil {
		return nil, fmt.Errorf("list shared objects: %w", err)
	}

	var infos ldInfos

	infos.parseFrom(lines)
	paths := infos.realPaths()

	// Make sure the interpreter itself is present. Usually, it is already
	// pulled in by libc.
	if !slices.Contains(paths, interpreter) {
		paths = append(paths, interpreter)
	}

	return paths, nil
}

type ldInfos []ldInfo

// parseFrom processes each line of the ldd output and adds an [ldInfo] to
// the list.
func (l *ldInfos) parseFrom(lines []string) {
	for _, line := range lines {
		var info ldInfo

		info.parseFrom(line)

		*l = append(*l, info)
	}
}

// realPaths returns all shared objects that are a real file in the file system.
// So, everything except vdso.
func (l *ldInfos) realPaths() []string {
	var paths []string

	for _, i := range *l {
		switch {
		case i.path != "":
			paths = append(paths, i.path)
		case filepath.IsAbs(i.name):
			paths = append(paths, i.name)
		}
	}

	return paths
}

type ldInfo struct {
	name  string
	path  string
	start uint
}

// parseFrom sets the fields from a single line of ldd output.
func (l *ldInfo) parseFrom(line string) {
	line = strings.TrimSpace(line)

	// Format for shared objects that reference an absolute path.
	// From glibc rtld.c: _dl_printf ("\t%s => %s (0x%0*zx)\n",
	_, err := fmt.Sscanf(line, "%s => %s (0x%x)", &l.name, &l.path, &l.start)
	if err == nil {
		return
	}

	// Format for shared objects that do not reference anything and might be
	// an absolute path already.
	// From glibc rtld.c: _dl_printf ("\t%s (0x%0*zx)\n"
	l.path = ""
	_, _ = fmt.Sscanf(line, "%s (0x%x)", &l.name, &l.start)
}
