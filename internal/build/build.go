// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/aibor/zinitramfs/internal/console"
	"github.com/aibor/zinitramfs/internal/hook"
	"github.com/aibor/zinitramfs/internal/initramfs"
	"github.com/aibor/zinitramfs/internal/staging"
	"github.com/aibor/zinitramfs/internal/sys"
)

//nolint:gochecknoglobals
var (
	// baseDirs are created in every initramfs.
	baseDirs = []string{
		"bin",
		"dev",
		"etc",
		"lib",
		"mnt/root",
		"proc",
		"run",
		"sbin",
		"sys",
		"tmp",
		"usr/bin",
		"usr/sbin",
	}

	// kmodLinks are the kmod applets linked to the kmod binary.
	kmodLinks = []string{
		"depmod",
		"insmod",
		"lsmod",
		"modinfo",
		"modprobe",
		"rmmod",
	}
)

// Spec describes the initramfs to build.
type Spec struct {
	// Kernel is the release of the kernel the modules are copied for.
	Kernel string

	// Root is the directory all files are copied from.
	Root string

	// Output is the path of the archive file. Defaults to "initrd-<kernel>".
	Output string

	// TmpDir is the directory the staging directory is created in. Defaults
	// to [os.TempDir].
	TmpDir string

	// Keep the staging directory instead of removing it.
	Keep bool

	Settings Settings
	Hooks    hook.Set
}

// OutputPath returns the path of the archive file.
func (s Spec) OutputPath() string {
	if s.Output != "" {
		return s.Output
	}

	return "initrd-" + s.Kernel
}

// Build builds the initramfs as described by the given [Spec] and returns the
// path of the archive file.
//
// The staging directory is removed in any case, unless [Spec.Keep] is set.
func Build(ctx context.Context, spec Spec, printer *console.Printer) (string, error) {
	if spec.Root == "" {
		spec.Root = "/"
	}

	err := sys.ValidateKernel(filepath.Join(spec.Root, sys.ModulesDir), spec.Kernel)
	if err != nil {
		return "", err
	}

	stage, err := staging.New(spec.Root, spec.TmpDir, printer)
	if err != nil {
		return "", err
	}

	b := builder{
		spec:     spec,
		stage:    stage,
		printer:  printer,
		copied:   make(map[string]struct{}),
		programs: make(map[string]string),
	}

	err = b.build(ctx)

	if spec.Keep {
		printer.Info("Keeping the staging directory %s", stage.Dir())
	} else if cleanErr := stage.Clean(); cleanErr != nil {
		if err != nil {
			printer.Warn("%v", cleanErr)
		} else {
			err = cleanErr
		}
	}

	if err != nil {
		return "", err
	}

	return spec.OutputPath(), nil
}

type builder struct {
	spec    Spec
	stage   *staging.Staging
	printer *console.Printer

	// copied holds all files already present in the staging directory.
	copied map[string]struct{}

	// programs maps program names to their paths within the root.
	programs map[string]string

	// binaries are the source paths of all copied executables.
	binaries []string
}

func (b *builder) build(ctx context.Context) error {
	err := b.stage.MkdirAll(baseDirs...)
	if err != nil {
		return fmt.Errorf("create layout: %w", err)
	}

	for _, h := range b.spec.Hooks.Enabled() {
		b.printer.Flag("Using %s", h.Name())

		err := b.copyHook(h)
		if err != nil {
			return fmt.Errorf("%s: %w", h.Name(), err)
		}
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"luks", b.copyLuksFiles},
		{"firmware", b.copyAllFirmware},
		{"udev", b.copyUdev},
		{"libraries", func() error { return b.copyLibs(ctx) }},
		{"kernel modules", b.copyModules},
		{"kmod links", b.linkKmod},
		{"init", b.installInit},
	}

	for _, step := range steps {
		err := step.fn()
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	b.printer.Info("Creating the initramfs with %s compression...",
		b.spec.Settings.Compression)

	return initramfs.WriteArchive(
		b.stage.Dir(),
		b.spec.OutputPath(),
		b.spec.Settings.Compression,
	)
}

// copyFile copies the file with the given path within the root unless it has
// been copied already.
func (b *builder) copyFile(path string, opts ...staging.CopyOption) error {
	return b.copyFileIn("", path, opts...)
}

// copyFileIn copies the file with the given path relative to prefix unless it
// has been copied already.
func (b *builder) copyFileIn(prefix, path string, opts ...staging.CopyOption) error {
	key := filepath.Join("/", prefix, path)
	if b.isCopied(key) {
		return nil
	}

	opts = append(opts, staging.WithPrefix(prefix))

	err := b.stage.Copy(path, opts...)
	if err != nil {
		return err //nolint:wrapcheck
	}

	b.copied[key] = struct{}{}

	return nil
}

func (b *builder) isCopied(path string) bool {
	_, exists := b.copied[filepath.Join("/", path)]
	return exists
}

func (b *builder) copyProgram(name, path string) error {
	err := b.copyFile(path)
	if err != nil {
		return err
	}

	b.programs[name] = path
	b.binaries = append(b.binaries, b.stage.SourcePath(path))

	return nil
}

func (b *builder) copyHook(h hook.Hook) error {
	for _, name := range h.Programs() {
		path, err := sys.ProgramPath(b.spec.Root, name)
		if err != nil {
			return err //nolint:wrapcheck
		}

		err = b.copyProgram(name, path)
		if err != nil {
			return err
		}
	}

	for _, file := range h.Files() {
		err := b.copyFile(file)
		if err != nil {
			return err
		}
	}

	for _, file := range h.ConfigFiles() {
		if b.isCopied(file) {
			continue
		}

		err := b.stage.CopyConfigOrWarn(file)
		if err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func (b *builder) copyLuksFiles() error {
	luks := b.spec.Hooks.Luks
	if !luks.Enabled() {
		return nil
	}

	files := []struct {
		enabled bool
		path    string
		key     string
		name    string
	}{
		{luks.IsKeyfileEnabled(), luks.KeyfilePath(), "keyfile_path", "keyfile"},
		{luks.IsDetachedHeaderEnabled(), luks.DetachedHeaderPath(), "detached_header_path", "header"},
	}

	for _, file := range files {
		if !file.enabled {
			continue
		}

		if file.path == "" {
			return fmt.Errorf("%w: [Luks] %s must not be empty", ErrInvalidSetting, file.key)
		}

		b.printer.Flag("Embedding %s as /etc/%s", file.path, file.name)

		err := b.stage.SafeCopy(b.stage.SourcePath(file.path), b.stage.Path("etc"), file.name)
		if err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func (b *builder) copyAllFirmware() error {
	firmware := b.spec.Hooks.Firmware
	if !firmware.Enabled() || !firmware.IsCopyAllEnabled() {
		return nil
	}

	b.printer.Flag("Copying all firmware from %s...", hook.FirmwareDir)

	fsys := os.DirFS(b.stage.SourcePath(hook.FirmwareDir))

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		return b.copyFileIn(hook.FirmwareDir, path, staging.DontFail())
	})
}

func (b *builder) copyUdev() error {
	path, err := sys.UdevPath(b.spec.Root)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return b.copyProgram("udevd", path)
}

func (b *builder) copyLibs(ctx context.Context) error {
	libs, err := sys.CollectLibsFor(ctx, b.stage.Root(), b.binaries...)
	if err != nil {
		return err //nolint:wrapcheck
	}

	slog.Debug("Shared libraries collected", slog.Int("count", libs.Len()))

	for lib := range libs.Libs() {
		err := b.copyFile(sys.RootedPath(b.stage.Root(), lib))
		if err != nil {
			return err
		}
	}

	return nil
}

// requestedModules returns the names of the kernel modules of all enabled
// hooks in order.
func (b *builder) requestedModules() []string {
	var modules []string
	for _, h := range b.spec.Hooks.Enabled() {
		modules = append(modules, h.Modules()...)
	}

	return lo.Uniq(modules)
}

func (b *builder) copyModules() error {
	kernelDir := filepath.Join(sys.ModulesDir, b.spec.Kernel)
	sourceDir := b.stage.SourcePath(kernelDir)

	modules := b.requestedModules()
	if len(modules) > 0 {
		index, err := indexModules(os.DirFS(sourceDir))
		if err != nil {
			return err
		}

		for _, name := range modules {
			path, err := index.lookup(name)
			if err != nil {
				return err
			}

			slog.Debug("Kernel module found", slog.String("name", name), slog.String("path", path))

			err = b.copyFileIn(kernelDir, path)
			if err != nil {
				return err
			}
		}
	}

	indexFiles, err := moduleIndexFiles(sourceDir)
	if err != nil {
		return err
	}

	for _, file := range indexFiles {
		err := b.copyFileIn(kernelDir, file)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) linkKmod() error {
	kmod, exists := b.programs["kmod"]
	if !exists {
		return nil
	}

	for _, name := range kmodLinks {
		err := b.stage.Symlink(kmod, filepath.Join("sbin", name))
		if err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func (b *builder) installInit() error {
	if b.spec.Settings.Init != "" {
		b.printer.Flag("Using custom init %s", b.spec.Settings.Init)

		return b.stage.SafeCopy( //nolint:wrapcheck
			b.stage.SourcePath(b.spec.Settings.Init),
			b.stage.Dir(),
			"init",
		)
	}

	hooks := b.spec.Hooks

	data := initData{
		Busybox: b.programs["busybox"],
		Udevd:   b.programs["udevd"],
		Udevadm: b.programs["udevadm"],
		Modules: b.requestedModules(),
		ZFS:     hooks.ZFS.Enabled(),
		Luks:    hooks.Luks.Enabled(),
	}

	if data.Luks {
		data.Keyfile = hooks.Luks.IsKeyfileEnabled()
		data.KeyfileGPG = data.Keyfile && strings.HasSuffix(hooks.Luks.KeyfilePath(), ".gpg")
		data.Header = hooks.Luks.IsDetachedHeaderEnabled()
	}

	script, err := renderInit(data)
	if err != nil {
		return err
	}

	return b.stage.WriteFile("init", script, 0o755) //nolint:wrapcheck
}
