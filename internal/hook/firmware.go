// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import (
	"path/filepath"
	"slices"

	"github.com/aibor/zinitramfs/internal/config"
)

const (
	firmwareSection      = "Firmware"
	firmwareFilesSection = "FirmwareFiles"

	// FirmwareDir is the directory firmware files are looked up in.
	FirmwareDir = "/lib/firmware"
)

var _ Hook = Firmware{}

// Firmware provides firmware files for devices that need them early.
//
// Either all firmware is copied or only the files listed in the
// [FirmwareFiles] section. Copying all firmware results in a large
// initramfs, so prefer listing the files.
type Firmware struct {
	use     bool
	copyAll bool
	names   []string
}

// LoadConfig returns a copy of the [Firmware] hook configured from the
// [Firmware] section. The keys of the [FirmwareFiles] section are appended to
// the already present file names.
func (f Firmware) LoadConfig(cfg *config.Config) (Firmware, error) {
	section, err := cfg.Section(firmwareSection)
	if err != nil {
		return f, err //nolint:wrapcheck
	}

	files, err := cfg.Section(firmwareFilesSection)
	if err != nil {
		return f, err //nolint:wrapcheck
	}

	f.use = section.Bool("use", false)
	f.copyAll = section.Bool("copy_all", false)
	f.names = append(slices.Clone(f.names), files.Keys()...)

	return f, nil
}

func (Firmware) Name() string {
	return "Firmware"
}

func (f Firmware) Enabled() bool {
	return f.use
}

func (Firmware) Programs() []string {
	return nil
}

// Files returns the absolute paths of the listed firmware files. It is empty
// if all firmware is copied, as the files are only known by walking
// [FirmwareDir].
func (f Firmware) Files() []string {
	if f.copyAll {
		return nil
	}

	files := make([]string, 0, len(f.names))
	for _, name := range f.names {
		files = append(files, filepath.Join(FirmwareDir, name))
	}

	return files
}

func (Firmware) ConfigFiles() []string {
	return nil
}

func (Firmware) Modules() []string {
	return nil
}

// IsCopyAllEnabled returns true if all of [FirmwareDir] should be copied.
func (f Firmware) IsCopyAllEnabled() bool {
	return f.copyAll
}

// Names returns the firmware file names relative to [FirmwareDir].
func (f Firmware) Names() []string {
	return slices.Clone(f.names)
}
