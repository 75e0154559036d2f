// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package build

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

//nolint:gochecknoglobals
var moduleExtensions = []string{
	".ko",
	".ko.gz",
	".ko.xz",
	".ko.zst",
}

// moduleIndex maps normalized kernel module names to their paths relative to
// the modules directory of a kernel.
type moduleIndex map[string]string

// normalizeModuleName returns the name as used by the kernel. Dashes and
// underscores are interchangeable in module names.
func normalizeModuleName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// moduleName returns the normalized module name of the given file name and
// true, or false if it is not a kernel module file.
func moduleName(fileName string) (string, bool) {
	for _, ext := range moduleExtensions {
		name, found := strings.CutSuffix(fileName, ext)
		if found && name != "" {
			return normalizeModuleName(name), true
		}
	}

	return "", false
}

// indexModules walks the modules directory of a kernel and indexes all kernel
// modules found. If a module is present more than once, the first one found
// in lexical order wins.
func indexModules(fsys fs.FS) (moduleIndex, error) {
	index := make(moduleIndex)

	err := fs.WalkDir(fsys, ".", func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		name, ok := moduleName(path.Base(file))
		if !ok {
			return nil
		}

		if _, exists := index[name]; !exists {
			index[name] = file
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index modules: %w", err)
	}

	return index, nil
}

// lookup returns the path of the module with the given name.
func (i moduleIndex) lookup(name string) (string, error) {
	file, exists := i[normalizeModuleName(name)]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	return file, nil
}

// moduleIndexFiles returns the names of the modules.* files in the modules
// directory of a kernel. Those are required by modprobe.
func moduleIndexFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read modules dir: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasPrefix(entry.Name(), "modules.") {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}
