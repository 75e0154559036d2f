// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"path/filepath"
	"slices"
)

// LibCollection is a deduplicated collection of dynamically linked libraries.
type LibCollection struct {
	libs map[string]int
}

// Libs returns an iterator that iterates all libraries sorted by path.
func (c *LibCollection) Libs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range slices.Sorted(maps.Keys(c.libs)) {
			if !yield(name) {
				return
			}
		}
	}
}

// Len returns the number of libraries in the collection.
func (c *LibCollection) Len() int {
	return len(c.libs)
}

// CollectLibsFor resolves the dynamically linked shared objects of all given
// ELF files located in root.
//
// For the root "/", the objects are listed by the ELF interpreter with [Ldd].
// For any other root, they are resolved within the root by [ResolveLibs], so
// the libraries of the host are never mixed in.
//
// Files that are not dynamically linked ELF files are ignored.
func CollectLibsFor(
	ctx context.Context,
	root string,
	files ...string,
) (LibCollection, error) {
	collection := LibCollection{
		libs: make(map[string]int),
	}

	for _, name := range files {
		err := collectLibsFor(ctx, filepath.Clean(root), collection.libs, name)
		if err != nil {
			return collection, fmt.Errorf("[%s]: %w", name, err)
		}
	}

	return collection, nil
}

func collectLibsFor(
	ctx context.Context,
	root string,
	libs map[string]int,
	name string,
) error {
	var (
		paths []string
		err   error
	)

	if root == string(filepath.Separator) {
		paths, err = Ldd(ctx, name)
	} else {
		paths, err = ResolveLibs(root, name)
	}

	if err != nil {
		if errors.Is(err, ErrNotELFFile) ||
			errors.Is(err, ErrNoInterpreter) {
			return nil
		}

		return err
	}

	for _, p := range paths {
		absPath, err := AbsolutePath(p)
		if err != nil {
			return err
		}

		libs[absPath]++
	}

	return nil
}
