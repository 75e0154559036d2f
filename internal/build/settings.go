// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package build

import (
	"fmt"

	"github.com/aibor/zinitramfs/internal/config"
	"github.com/aibor/zinitramfs/internal/initramfs"
)

const settingsSection = "Build"

// Settings are the general build settings of the optional [Build] section.
type Settings struct {
	// Compression of the archive.
	Compression initramfs.Compression

	// Init is the path of a custom init program. The built-in init script is
	// used if empty.
	Init string
}

// LoadSettings reads the [Settings] from the given configuration. Defaults
// are used if the section is not present.
func LoadSettings(cfg *config.Config) (Settings, error) {
	settings := Settings{
		Compression: initramfs.DefaultCompression,
	}

	if !cfg.HasSection(settingsSection) {
		return settings, nil
	}

	section, err := cfg.Section(settingsSection)
	if err != nil {
		return Settings{}, err //nolint:wrapcheck
	}

	name := section.String("compression", settings.Compression.String())

	err = settings.Compression.Set(name)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: [%s] compression: %w",
			ErrInvalidSetting, settingsSection, err)
	}

	settings.Init = section.String("init", "")

	return settings, nil
}
