// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package build_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cavaliergopher/cpio"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/zinitramfs/internal/build"
	"github.com/aibor/zinitramfs/internal/config"
	"github.com/aibor/zinitramfs/internal/console"
	"github.com/aibor/zinitramfs/internal/hook"
	"github.com/aibor/zinitramfs/internal/initramfs"
	"github.com/aibor/zinitramfs/internal/staging"
	"github.com/aibor/zinitramfs/internal/sys"
)

const kernel = "6.1.0"

func writeFile(tb testing.TB, root, path, content string, mode os.FileMode) {
	tb.Helper()

	path = filepath.Join(root, path)
	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tb, os.WriteFile(path, []byte(content), mode))
}

// fakeRoot creates a minimal system with all programs and files the hooks
// need. Programs are shell scripts, so no shared libraries are involved.
func fakeRoot(tb testing.TB) string {
	tb.Helper()

	root := tb.TempDir()

	for _, program := range []string{
		"/usr/bin/busybox",
		"/usr/bin/kmod",
		"/usr/bin/udevadm",
		"/usr/sbin/zfs",
		"/usr/sbin/zpool",
		"/sbin/mount.zfs",
		"/sbin/cryptsetup",
		"/usr/bin/gpg",
		"/usr/bin/gpg-agent",
		"/sbin/dmsetup",
		"/lib/systemd/systemd-udevd",
	} {
		writeFile(tb, root, program, "#!/bin/sh\n", 0o755)
	}

	writeFile(tb, root, "/etc/hostid", "hostid", 0o644)
	writeFile(tb, root, "/etc/ld.so.cache", "cache", 0o644)
	writeFile(tb, root, "/root/key.gpg", "secret", 0o600)
	writeFile(tb, root, "/lib/firmware/amd/fw.bin", "fw", 0o644)
	writeFile(tb, root, "/lib/firmware/intel/fw.bin", "fw", 0o644)

	modulesDir := filepath.Join(sys.ModulesDir, kernel)
	writeFile(tb, root, filepath.Join(modulesDir, "modules.dep"), "", 0o644)
	writeFile(tb, root, filepath.Join(modulesDir, "modules.alias"), "", 0o644)
	writeFile(tb, root, filepath.Join(modulesDir, "extra/zfs.ko.zst"), "zfs", 0o644)
	writeFile(tb, root, filepath.Join(modulesDir, "kernel/drivers/md/dm-crypt.ko.xz"), "dm", 0o644)

	return root
}

func copyHostFile(tb testing.TB, source, target string) {
	tb.Helper()

	data, err := os.ReadFile(source)
	require.NoError(tb, err)
	require.NoError(tb, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(tb, os.WriteFile(target, data, 0o755))
}

func newSpec(tb testing.TB, root, cfgContent string) build.Spec {
	tb.Helper()

	cfg, err := config.Parse([]byte(cfgContent))
	require.NoError(tb, err)

	hooks, err := hook.Load(cfg)
	require.NoError(tb, err)

	settings, err := build.LoadSettings(cfg)
	require.NoError(tb, err)

	return build.Spec{
		Kernel:   kernel,
		Root:     root,
		Output:   filepath.Join(tb.TempDir(), "initrd"),
		TmpDir:   tb.TempDir(),
		Settings: settings,
		Hooks:    hooks,
	}
}

func readArchive(tb testing.TB, path string) map[string]*cpio.Header {
	tb.Helper()

	file, err := os.Open(path)
	require.NoError(tb, err)

	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	require.NoError(tb, err)

	entries := make(map[string]*cpio.Header)
	reader := cpio.NewReader(gzipReader)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(tb, err)

		entries[hdr.Name] = hdr
	}

	return entries
}

func readArchiveFile(tb testing.TB, path, name string) string {
	tb.Helper()

	file, err := os.Open(path)
	require.NoError(tb, err)

	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	require.NoError(tb, err)

	reader := cpio.NewReader(gzipReader)

	for {
		hdr, err := reader.Next()
		require.NoError(tb, err, "find %s", name)

		if hdr.Name == name {
			content, err := io.ReadAll(reader)
			require.NoError(tb, err)

			return string(content)
		}
	}
}

const fullConfig = `
[ZFS]
use = yes

[Luks]
use = yes
use_keyfile = yes
keyfile_path = /root/key.gpg
use_detached_header = no

[Firmware]
use = yes
copy_all = no

[FirmwareFiles]
amd/fw.bin
`

func TestBuild(t *testing.T) {
	root := fakeRoot(t)
	spec := newSpec(t, root, fullConfig)

	var out bytes.Buffer

	output, err := build.Build(t.Context(), spec, console.New(&out))
	require.NoError(t, err)
	assert.Equal(t, spec.Output, output)

	entries := readArchive(t, output)

	for _, name := range []string{
		"init",
		"mnt/root",
		"usr/bin/busybox",
		"usr/bin/kmod",
		"usr/bin/udevadm",
		"usr/sbin/zfs",
		"usr/sbin/zpool",
		"sbin/mount.zfs",
		"sbin/cryptsetup",
		"lib/systemd/systemd-udevd",
		"etc/hostid",
		"etc/ld.so.cache",
		"etc/keyfile",
		"lib/firmware/amd/fw.bin",
		"lib/modules/6.1.0/modules.dep",
		"lib/modules/6.1.0/modules.alias",
		"lib/modules/6.1.0/extra/zfs.ko.zst",
		"lib/modules/6.1.0/kernel/drivers/md/dm-crypt.ko.xz",
	} {
		assert.Contains(t, entries, name)
	}

	assert.NotContains(t, entries, "lib/firmware/intel/fw.bin")
	assert.NotContains(t, entries, "etc/header")

	if assert.Contains(t, entries, "sbin/modprobe") {
		assert.Equal(t, "/usr/bin/kmod", entries["sbin/modprobe"].Linkname)
	}

	assert.Equal(t, os.FileMode(0o755), entries["init"].FileInfo().Mode().Perm())

	script := readArchiveFile(t, output, "init")
	assert.Contains(t, script, "#!/usr/bin/busybox sh\n")
	assert.Contains(t, script, "/lib/systemd/systemd-udevd --daemon")
	assert.Contains(t, script, "modprobe zfs ")
	assert.Contains(t, script, "modprobe dm_crypt ")
	assert.Contains(t, script, "gpg --quiet --decrypt /etc/keyfile")
	assert.Contains(t, script, "zpool import")

	assert.Contains(t, out.String(), "[+] Using ZFS\n")
	assert.Contains(t, out.String(), "[!] /etc/zfs/zpool.cache was not detected")

	stagingDirs, err := os.ReadDir(spec.TmpDir)
	require.NoError(t, err)
	assert.Empty(t, stagingDirs, "staging dir removed")
}

func TestBuildSharedLibraries(t *testing.T) {
	const shell = "/bin/sh"

	interpreter, err := sys.ReadInterpreter(shell)
	if err != nil {
		t.Skipf("%s is not dynamically linked: %v", shell, err)
	}

	hostLibs, err := sys.Ldd(t.Context(), shell)
	require.NoError(t, err)

	// The libraries are placed in a layout the host most likely does not
	// use, so only a lookup within the root finds them.
	root := fakeRoot(t)
	copyHostFile(t, shell, filepath.Join(root, "usr/bin/busybox"))
	copyHostFile(t, interpreter, filepath.Join(root, interpreter))

	var expected []string

	for _, lib := range hostLibs {
		if lib == interpreter {
			continue
		}

		name := filepath.Join("usr/lib64", filepath.Base(lib))
		copyHostFile(t, lib, filepath.Join(root, name))
		expected = append(expected, name)
	}

	spec := newSpec(t, root, "[ZFS]\n[Luks]\n[Firmware]\n[FirmwareFiles]\n")

	output, err := build.Build(t.Context(), spec, console.New(io.Discard))
	require.NoError(t, err)

	entries := readArchive(t, output)
	assert.Contains(t, entries, strings.TrimPrefix(interpreter, "/"))

	for _, name := range expected {
		assert.Contains(t, entries, name)
	}
}

func TestBuildCopyAllFirmware(t *testing.T) {
	root := fakeRoot(t)
	spec := newSpec(t, root, `
[ZFS]
[Luks]
[Firmware]
use = yes
copy_all = yes
[FirmwareFiles]
[Build]
compression = gzip
`)

	output, err := build.Build(t.Context(), spec, console.New(io.Discard))
	require.NoError(t, err)

	entries := readArchive(t, output)
	assert.Contains(t, entries, "lib/firmware/amd/fw.bin")
	assert.Contains(t, entries, "lib/firmware/intel/fw.bin")
	assert.NotContains(t, entries, "usr/sbin/zfs")

	script := readArchiveFile(t, output, "init")
	assert.NotContains(t, script, "zpool")
	assert.NotContains(t, script, "cryptsetup")
}

func TestBuildCustomInit(t *testing.T) {
	root := fakeRoot(t)
	writeFile(t, root, "/etc/custom-init", "#!/bin/sh\nexec sh\n", 0o755)

	spec := newSpec(t, root, `
[ZFS]
[Luks]
[Firmware]
[FirmwareFiles]
[Build]
init = /etc/custom-init
`)

	output, err := build.Build(t.Context(), spec, console.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nexec sh\n", readArchiveFile(t, output, "init"))
}

func TestBuildKeep(t *testing.T) {
	root := fakeRoot(t)
	spec := newSpec(t, root, fullConfig)
	spec.Keep = true

	_, err := build.Build(t.Context(), spec, console.New(io.Discard))
	require.NoError(t, err)

	stagingDirs, err := os.ReadDir(spec.TmpDir)
	require.NoError(t, err)
	require.Len(t, stagingDirs, 1)
	assert.FileExists(t, filepath.Join(spec.TmpDir, stagingDirs[0].Name(), "init"))
}

func TestBuildFailure(t *testing.T) {
	tests := []struct {
		name        string
		prepare     func(t *testing.T, root string)
		config      string
		kernel      string
		expectedErr error
	}{
		{
			name:        "kernel missing",
			config:      fullConfig,
			kernel:      "5.4.0",
			expectedErr: sys.ErrKernelNotExist,
		},
		{
			name: "program missing",
			prepare: func(t *testing.T, root string) {
				require.NoError(t, os.Remove(filepath.Join(root, "/usr/sbin/zpool")))
			},
			config:      fullConfig,
			expectedErr: sys.ErrProgramNotFound,
		},
		{
			name: "udev missing",
			prepare: func(t *testing.T, root string) {
				require.NoError(t, os.Remove(filepath.Join(root, "/lib/systemd/systemd-udevd")))
			},
			config:      fullConfig,
			expectedErr: sys.ErrUdevNotFound,
		},
		{
			name: "module missing",
			prepare: func(t *testing.T, root string) {
				require.NoError(t, os.Remove(filepath.Join(root,
					sys.ModulesDir, kernel, "extra/zfs.ko.zst")))
			},
			config:      fullConfig,
			expectedErr: build.ErrModuleNotFound,
		},
		{
			name:        "listed file missing",
			config:      fullConfig + "intel/missing.bin\n",
			expectedErr: staging.ErrNotCopied,
		},
		{
			name: "keyfile path empty",
			config: `
[ZFS]
[Luks]
use = yes
use_keyfile = yes
[Firmware]
[FirmwareFiles]
`,
			expectedErr: build.ErrInvalidSetting,
		},
		{
			name: "header missing",
			config: `
[ZFS]
[Luks]
use = yes
use_detached_header = yes
detached_header_path = /root/header.img
[Firmware]
[FirmwareFiles]
`,
			expectedErr: staging.ErrSourceNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := fakeRoot(t)
			if tt.prepare != nil {
				tt.prepare(t, root)
			}

			spec := newSpec(t, root, tt.config)
			if tt.kernel != "" {
				spec.Kernel = tt.kernel
			}

			_, err := build.Build(t.Context(), spec, console.New(io.Discard))
			require.ErrorIs(t, err, tt.expectedErr)

			assert.NoFileExists(t, spec.Output)

			stagingDirs, err := os.ReadDir(spec.TmpDir)
			require.NoError(t, err)
			assert.Empty(t, stagingDirs, "staging dir removed")
		})
	}
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		expected    build.Settings
		expectedErr error
	}{
		{
			name:     "section missing",
			expected: build.Settings{Compression: initramfs.CompressionGzip},
		},
		{
			name:     "empty section",
			config:   "[Build]\n",
			expected: build.Settings{Compression: initramfs.CompressionGzip},
		},
		{
			name:   "all set",
			config: "[Build]\ncompression = zstd\ninit = /sbin/my-init\n",
			expected: build.Settings{
				Compression: initramfs.CompressionZstd,
				Init:        "/sbin/my-init",
			},
		},
		{
			name:        "unknown compression",
			config:      "[Build]\ncompression = lzma\n",
			expectedErr: build.ErrInvalidSetting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.config))
			require.NoError(t, err)

			settings, err := build.LoadSettings(cfg)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, settings)
		})
	}
}
