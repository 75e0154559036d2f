// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import (
	"slices"

	"github.com/aibor/zinitramfs/internal/config"
)

const (
	filesSection   = "Files"
	modulesSection = "Modules"
)

var _ Hook = Base{}

// Base provides everything the initramfs needs to boot at all. It is always
// enabled.
//
// Additional files and kernel modules can be requested with the optional
// [Files] and [Modules] sections. Each key is one absolute file path or one
// module name.
type Base struct {
	files   []string
	modules []string
}

// LoadConfig returns a copy of the [Base] with the user requested files and
// modules of the given configuration appended.
func (b Base) LoadConfig(cfg *config.Config) (Base, error) {
	b.files = slices.Clone(b.files)
	b.modules = slices.Clone(b.modules)

	if section, err := cfg.Section(filesSection); err == nil {
		b.files = append(b.files, section.Keys()...)
	}

	if section, err := cfg.Section(modulesSection); err == nil {
		b.modules = append(b.modules, section.Keys()...)
	}

	return b, nil
}

func (Base) Name() string {
	return "Base"
}

func (Base) Enabled() bool {
	return true
}

func (Base) Programs() []string {
	return []string{
		"busybox",
		"kmod",
		"udevadm",
	}
}

func (b Base) Files() []string {
	return slices.Clone(b.files)
}

func (Base) ConfigFiles() []string {
	return []string{
		// Without the cache the dynamic linker only searches the default
		// directories.
		"/etc/ld.so.cache",
		"/etc/ld.so.conf",
	}
}

func (b Base) Modules() []string {
	return slices.Clone(b.modules)
}
