// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/zinitramfs/internal/console"
	"github.com/aibor/zinitramfs/internal/sys"
)

const dirMode = 0o755

// Staging is a temporary directory files are copied into.
type Staging struct {
	root    string
	dir     string
	home    string
	printer *console.Printer
}

// New creates a new staging directory in tmpDir. If tmpDir is empty, the
// default directory for temporary files is used.
//
// Files are copied from root. The current working directory is recorded, so
// [Staging.Clean] can return to it.
func New(root, tmpDir string, printer *console.Printer) (*Staging, error) {
	home, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working dir: %w", err)
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}

	dir, err := os.MkdirTemp(tmpDir, "zinitramfs-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	slog.Debug("Staging directory created", slog.String("path", dir))

	return &Staging{
		root:    root,
		dir:     dir,
		home:    home,
		printer: printer,
	}, nil
}

// Dir returns the path of the staging directory.
func (s *Staging) Dir() string {
	return s.dir
}

// Root returns the path files are copied from.
func (s *Staging) Root() string {
	return s.root
}

// Path returns the path of the given elements within the staging directory.
func (s *Staging) Path(elem ...string) string {
	return filepath.Join(append([]string{s.dir}, elem...)...)
}

// SourcePath returns the path of the given elements within the root.
func (s *Staging) SourcePath(elem ...string) string {
	return filepath.Join(append([]string{s.root}, elem...)...)
}

// MkdirAll creates the given directories with all parents in the staging
// directory.
func (s *Staging) MkdirAll(dirs ...string) error {
	for _, dir := range dirs {
		err := os.MkdirAll(s.Path(dir), dirMode)
		if err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	return nil
}

// Symlink creates a symbolic link with the given name pointing to target.
//
// An existing file with the name is replaced.
func (s *Staging) Symlink(target, name string) error {
	path := s.Path(name)

	err := os.MkdirAll(filepath.Dir(path), dirMode)
	if err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing: %w", err)
	}

	err = os.Symlink(target, path)
	if err != nil {
		return fmt.Errorf("create link: %w", err)
	}

	return nil
}

// WriteFile writes data into the file with the given name in the staging
// directory.
func (s *Staging) WriteFile(name string, data []byte, mode fs.FileMode) error {
	path := s.Path(name)

	err := os.MkdirAll(filepath.Dir(path), dirMode)
	if err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	err = os.WriteFile(path, data, mode)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	// Make sure the mode is not masked by umask.
	err = os.Chmod(path, mode)
	if err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	return nil
}

// Copy copies the file with the given name from the root into the staging
// directory.
//
// Symbolic links are dereferenced within the root, so absolute link targets
// never point to the host. For directories, only the directory itself
// is created. An already present regular file is replaced. Missing parent
// directories are created.
//
// If the file is not present at the target afterwards, an error wrapping
// [ErrNotCopied] is returned. With [DontFail], a warning is printed instead.
func (s *Staging) Copy(file string, opts ...CopyOption) error {
	var o copyOptions
	for _, opt := range opts {
		opt(&o)
	}

	source := s.SourcePath(o.prefix, file)
	target := s.Path(o.prefix, file)

	resolved, err := sys.ResolveInRoot(s.root, filepath.Join(o.prefix, file))
	if err == nil {
		source = s.SourcePath(resolved)
	}

	err = copyPath(source, target)
	if err == nil {
		return nil
	}

	name := filepath.Join(o.prefix, file)

	if o.dontFail {
		slog.Debug("Copy failed", slog.String("file", name), slog.Any("error", err))
		s.printer.Warn("Unable to copy %s", name)

		return nil
	}

	return &fs.PathError{
		Op:   "copy",
		Path: name,
		Err:  fmt.Errorf("%w: %w", ErrNotCopied, err),
	}
}

// SafeCopy copies the source file into targetDir. The file is named name, or
// like the source if name is empty.
//
// Other than [Staging.Copy], paths are not relative to the root or the
// staging directory. If the source does not exist, an error wrapping
// [ErrSourceNotExist] is returned and no target file is created.
func (*Staging) SafeCopy(source, targetDir, name string) error {
	if name == "" {
		name = filepath.Base(source)
	}

	target := filepath.Join(targetDir, name)

	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrSourceNotExist
		}

		return &fs.PathError{Op: "safe copy", Path: source, Err: err}
	}

	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "safe copy", Path: source, Err: ErrNotCopied}
	}

	err = copyPath(source, target)
	if err != nil {
		_ = os.Remove(target)

		return &fs.PathError{
			Op:   "safe copy",
			Path: target,
			Err:  fmt.Errorf("%w: %w", ErrNotCopied, err),
		}
	}

	return nil
}

// CopyConfigOrWarn copies the given config file if it exists in the root.
// Otherwise a warning is printed that the default settings will be used.
func (s *Staging) CopyConfigOrWarn(file string) error {
	info, err := os.Stat(s.SourcePath(file))
	if err != nil || !info.Mode().IsRegular() {
		s.printer.Warn("%s was not detected on this system. "+
			"The default settings will be used.", file)

		return nil
	}

	s.printer.Flag("Copying %s from the current system...", file)

	return s.Copy(file)
}

// Clean removes the staging directory after changing back to the working
// directory recorded on creation.
//
// If the directory still exists afterwards, [ErrCleanIncomplete] is returned.
func (s *Staging) Clean() error {
	var errs []error

	err := os.Chdir(s.home)
	if err != nil {
		errs = append(errs, fmt.Errorf("change dir: %w", err))
	}

	err = os.RemoveAll(s.dir)
	if err != nil {
		errs = append(errs, fmt.Errorf("remove: %w", err))
	}

	_, err = os.Lstat(s.dir)
	if !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, &fs.PathError{
			Op:   "clean",
			Path: s.dir,
			Err:  ErrCleanIncomplete,
		})
	}

	return errors.Join(errs...)
}
