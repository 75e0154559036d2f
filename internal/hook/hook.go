// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import (
	"fmt"
	"slices"

	"github.com/aibor/zinitramfs/internal/config"
)

// Hook is a feature that contributes to the initramfs content.
type Hook interface {
	// Name of the feature.
	Name() string

	// Enabled returns true if the feature is requested by the configuration.
	Enabled() bool

	// Programs returns the names of executables that are looked up on the
	// system and copied with their shared libraries.
	Programs() []string

	// Files returns absolute paths of files copied as they are.
	Files() []string

	// ConfigFiles returns absolute paths of configuration files that are
	// copied if they are present. Defaults are used otherwise.
	ConfigFiles() []string

	// Modules returns the names of kernel modules required by the feature.
	Modules() []string
}

// Set is the collection of all available hooks.
type Set struct {
	Base     Base
	ZFS      ZFS
	Luks     Luks
	Firmware Firmware
}

// Load creates a [Set] with all hooks loaded from the given configuration.
func Load(cfg *config.Config) (Set, error) {
	var (
		set Set
		err error
	)

	set.Base, err = set.Base.LoadConfig(cfg)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", set.Base.Name(), err)
	}

	set.ZFS, err = set.ZFS.LoadConfig(cfg)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", set.ZFS.Name(), err)
	}

	set.Luks, err = set.Luks.LoadConfig(cfg)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", set.Luks.Name(), err)
	}

	set.Firmware, err = set.Firmware.LoadConfig(cfg)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", set.Firmware.Name(), err)
	}

	return set, nil
}

// All returns all hooks in the order they are applied.
func (s Set) All() []Hook {
	return []Hook{s.Base, s.ZFS, s.Luks, s.Firmware}
}

// Enabled returns all enabled hooks in the order they are applied.
func (s Set) Enabled() []Hook {
	return slices.DeleteFunc(s.All(), func(h Hook) bool {
		return !h.Enabled()
	})
}
