// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package build

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleName(t *testing.T) {
	tests := []struct {
		file     string
		expected string
		ok       bool
	}{
		{file: "zfs.ko", expected: "zfs", ok: true},
		{file: "zfs.ko.zst", expected: "zfs", ok: true},
		{file: "dm-crypt.ko.xz", expected: "dm_crypt", ok: true},
		{file: "snd_hda_intel.ko.gz", expected: "snd_hda_intel", ok: true},
		{file: "modules.dep"},
		{file: "zfs.ko.bz2"},
		{file: ".ko"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			name, ok := moduleName(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestModuleIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"modules.dep":                           {},
		"extra/zfs.ko.zst":                      {},
		"kernel/drivers/md/dm-crypt.ko":         {},
		"kernel/drivers/md/dm-crypt.ko.xz":      {},
		"updates/dm-crypt.ko":                   {},
		"kernel/net/netfilter/nf_tables.ko.zst": {},
	}

	index, err := indexModules(fsys)
	require.NoError(t, err)
	assert.Len(t, index, 3)

	tests := []struct {
		name        string
		expected    string
		expectedErr error
	}{
		{name: "zfs", expected: "extra/zfs.ko.zst"},
		{name: "dm_crypt", expected: "kernel/drivers/md/dm-crypt.ko"},
		{name: "dm-crypt", expected: "kernel/drivers/md/dm-crypt.ko"},
		{name: "nf-tables", expected: "kernel/net/netfilter/nf_tables.ko.zst"},
		{name: "spl", expectedErr: ErrModuleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := index.lookup(tt.name)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, path)
		})
	}
}
