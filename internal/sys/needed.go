// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bufio"
	"debug/elf"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	ldSoConf    = "/etc/ld.so.conf"
	maxSymlinks = 40
)

// defaultLibDirs are searched after the directories configured in
// /etc/ld.so.conf.
//
//nolint:gochecknoglobals
var defaultLibDirs = []string{
	"/lib64",
	"/usr/lib64",
	"/lib",
	"/usr/lib",
}

// ResolveLibs gathers the required shared objects of the ELF file with the
// given path by walking the DT_NEEDED entries, like the dynamic linker would
// do if root was the file system root.
//
// Other than [Ldd], nothing is executed and only files within root are
// considered. Run paths of the objects and the directories listed in root's
// /etc/ld.so.conf are searched before the default directories. Objects of a
// different ELF class or machine than the given file are skipped. The
// returned paths include root.
//
// [ErrNotELFFile] or [ErrNoInterpreter] is returned for files that are not
// dynamically linked ELF files. If a shared object is not found, an error
// wrapping [ErrLibNotFound] is returned.
func ResolveLibs(root, path string) ([]string, error) {
	origin, err := ResolveInRoot(root, RootedPath(root, path))
	if err != nil {
		return nil, err
	}

	interpreter, err := ReadInterpreter(filepath.Join(root, origin))
	if err != nil {
		return nil, err
	}

	file, err := elf.Open(filepath.Join(root, origin))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	r := libResolver{
		root:    root,
		class:   file.Class,
		machine: file.Machine,
		dirs:    append(readLdSoConf(root), defaultLibDirs...),
		found:   make(map[string]struct{}),
	}

	err = r.resolve(file, origin)

	_ = file.Close()

	if err != nil {
		return nil, err
	}

	interpreter = filepath.Join(root, interpreter)
	if !slices.Contains(r.paths, interpreter) {
		r.paths = append(r.paths, interpreter)
	}

	return r.paths, nil
}

type libResolver struct {
	root    string
	class   elf.Class
	machine elf.Machine
	dirs    []string
	found   map[string]struct{}
	paths   []string
}

// resolve adds all shared objects needed by the given file recursively.
// The origin is the resolved path of the file within the root.
func (r *libResolver) resolve(file *elf.File, origin string) error {
	needed, err := file.DynString(elf.DT_NEEDED)
	if err != nil {
		return fmt.Errorf("read needed: %w", err)
	}

	dirs := slices.Concat(runPaths(file, filepath.Dir(origin)), r.dirs)

	for _, name := range needed {
		if _, exists := r.found[name]; exists {
			continue
		}

		libPath, resolved, lib, err := r.find(name, dirs)
		if err != nil {
			return err
		}

		r.found[name] = struct{}{}
		r.paths = append(r.paths, filepath.Join(r.root, libPath))

		err = r.resolve(lib, resolved)

		_ = lib.Close()

		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// find returns the path within the root, its resolved path and the opened file
// of the first matching shared object with the given name.
func (r *libResolver) find(name string, dirs []string) (string, string, *elf.File, error) {
	candidates := dirs
	if strings.Contains(name, "/") {
		candidates = []string{""}
	}

	for _, dir := range candidates {
		candidate := filepath.Join("/", dir, name)

		resolved, err := ResolveInRoot(r.root, candidate)
		if err != nil {
			continue
		}

		lib, err := elf.Open(filepath.Join(r.root, resolved))
		if err != nil {
			continue
		}

		if lib.Class != r.class || lib.Machine != r.machine {
			_ = lib.Close()
			continue
		}

		return candidate, resolved, lib, nil
	}

	return "", "", nil, fmt.Errorf("%w: %s", ErrLibNotFound, name)
}

// runPaths returns the DT_RUNPATH entries of the file, or the DT_RPATH
// entries if there are none, with $ORIGIN replaced by origin.
func runPaths(file *elf.File, origin string) []string {
	entries, _ := file.DynString(elf.DT_RUNPATH)
	if len(entries) == 0 {
		entries, _ = file.DynString(elf.DT_RPATH)
	}

	replacer := strings.NewReplacer("${ORIGIN}", origin, "$ORIGIN", origin)

	var dirs []string

	for _, entry := range entries {
		for dir := range strings.SplitSeq(entry, ":") {
			if dir != "" {
				dirs = append(dirs, replacer.Replace(dir))
			}
		}
	}

	return dirs
}

// readLdSoConf returns the library directories configured in root's
// /etc/ld.so.conf including all files it includes. Missing or unreadable
// files are ignored.
func readLdSoConf(root string) []string {
	var dirs []string

	seen := make(map[string]struct{})

	var read func(path string)

	read = func(path string) {
		if _, exists := seen[path]; exists {
			return
		}

		seen[path] = struct{}{}

		file, err := os.Open(filepath.Join(root, path))
		if err != nil {
			return
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line, _, _ := strings.Cut(scanner.Text(), "#")
			line = strings.TrimSpace(line)

			pattern, isInclude := strings.CutPrefix(line, "include")

			switch {
			case line == "":
			case isInclude && pattern != strings.TrimSpace(pattern):
				pattern = strings.TrimSpace(pattern)
				if !filepath.IsAbs(pattern) {
					pattern = filepath.Join(filepath.Dir(path), pattern)
				}

				matches, _ := filepath.Glob(filepath.Join(root, pattern))
				for _, match := range matches {
					read(RootedPath(root, match))
				}
			case filepath.IsAbs(line):
				dirs = append(dirs, line)
			}
		}
	}

	read(ldSoConf)

	return dirs
}

// ResolveInRoot follows symbolic links of the last element of the given path
// as if root was the file system root. Absolute link targets are interpreted
// relative to root. The returned path is relative to root.
func ResolveInRoot(root, path string) (string, error) {
	path = filepath.Join("/", path)

	for range maxSymlinks {
		full := filepath.Join(root, path)

		info, err := os.Lstat(full)
		if err != nil {
			return "", fmt.Errorf("resolve: %w", err)
		}

		if info.Mode().Type() != fs.ModeSymlink {
			return path, nil
		}

		target, err := os.Readlink(full)
		if err != nil {
			return "", fmt.Errorf("resolve: %w", err)
		}

		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}

		path = filepath.Join("/", target)
	}

	return "", &fs.PathError{Op: "resolve", Path: path, Err: ErrTooManySymlinks}
}
