// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import (
	"github.com/aibor/zinitramfs/internal/config"
)

const zfsSection = "ZFS"

var _ Hook = ZFS{}

// ZFS provides the tools for importing pools and mounting the root dataset.
type ZFS struct {
	use bool
}

// LoadConfig returns a copy of the [ZFS] hook configured from the [ZFS]
// section.
func (z ZFS) LoadConfig(cfg *config.Config) (ZFS, error) {
	section, err := cfg.Section(zfsSection)
	if err != nil {
		return z, err //nolint:wrapcheck
	}

	z.use = section.Bool("use", false)

	return z, nil
}

func (ZFS) Name() string {
	return "ZFS"
}

func (z ZFS) Enabled() bool {
	return z.use
}

func (ZFS) Programs() []string {
	return []string{
		"zfs",
		"zpool",
		"mount.zfs",
	}
}

func (ZFS) Files() []string {
	return nil
}

func (ZFS) ConfigFiles() []string {
	return []string{
		"/etc/hostid",
		"/etc/zfs/zpool.cache",
		"/etc/zfs/vdev_id.conf",
	}
}

func (ZFS) Modules() []string {
	return []string{"zfs"}
}
