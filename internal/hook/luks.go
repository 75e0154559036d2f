// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import (
	"github.com/aibor/zinitramfs/internal/config"
)

const luksSection = "Luks"

var _ Hook = Luks{}

// Luks provides the tools for opening LUKS encrypted devices.
//
// The key material may be embedded into the initramfs, either as keyfile or
// as detached LUKS header.
type Luks struct {
	use                bool
	useKeyfile         bool
	keyfilePath        string
	useDetachedHeader  bool
	detachedHeaderPath string
}

// LoadConfig returns a copy of the [Luks] hook configured from the [Luks]
// section.
func (l Luks) LoadConfig(cfg *config.Config) (Luks, error) {
	section, err := cfg.Section(luksSection)
	if err != nil {
		return l, err //nolint:wrapcheck
	}

	l.use = section.Bool("use", false)
	l.useKeyfile = section.Bool("use_keyfile", false)
	l.keyfilePath = section.String("keyfile_path", "")
	l.useDetachedHeader = section.Bool("use_detached_header", false)
	l.detachedHeaderPath = section.String("detached_header_path", "")

	return l, nil
}

func (Luks) Name() string {
	return "LUKS"
}

func (l Luks) Enabled() bool {
	return l.use
}

func (Luks) Programs() []string {
	return []string{
		"cryptsetup",
		"gpg",
		"gpg-agent",
		// Releases the udev cookie cryptsetup waits for when it announces
		// udev support. Without it, opening the device hangs.
		"dmsetup",
	}
}

func (Luks) Files() []string {
	return nil
}

func (Luks) ConfigFiles() []string {
	return nil
}

func (Luks) Modules() []string {
	return []string{"dm_crypt"}
}

// IsKeyfileEnabled returns true if the keyfile should be embedded.
func (l Luks) IsKeyfileEnabled() bool {
	return l.useKeyfile
}

// KeyfilePath returns the path of the keyfile on the host.
func (l Luks) KeyfilePath() string {
	return l.keyfilePath
}

// IsDetachedHeaderEnabled returns true if the detached header should be
// embedded.
func (l Luks) IsDetachedHeaderEnabled() bool {
	return l.useDetachedHeader
}

// DetachedHeaderPath returns the path of the detached header on the host.
func (l Luks) DetachedHeaderPath() string {
	return l.detachedHeaderPath
}
