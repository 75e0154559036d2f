// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/zinitramfs/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[Luks]
use_keyfile = yes
keyfile_path = /etc/keys/root.key
use_detached_header = maybe

[Paths]
keyfile_path = /root/keys;backup/root.key
detached_header_path = /root/hdr#1.img

[Mixed]
Use = yes
KEYFILE_PATH = /first
keyfile_path = /second

[FirmwareFiles]
iwlwifi-7260-17.ucode
Intel/IBT-0040.sfi
amdgpu/navi10_gpu_info.bin
rtl_nic/rtl8168h-2.fw=

[Empty]
`

func TestSection_Bool(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	section, err := cfg.Section("Luks")
	require.NoError(t, err)

	tests := []struct {
		name     string
		key      string
		def      bool
		expected bool
	}{
		{
			name:     "set",
			key:      "use_keyfile",
			expected: true,
		},
		{
			name:     "malformed",
			key:      "use_detached_header",
			expected: false,
		},
		{
			name:     "malformed with true default",
			key:      "use_detached_header",
			def:      true,
			expected: true,
		},
		{
			name:     "absent",
			key:      "use",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, section.Bool(tt.key, tt.def))
		})
	}
}

func TestSection_String(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	section, err := cfg.Section("Luks")
	require.NoError(t, err)

	assert.Equal(t, "/etc/keys/root.key", section.String("keyfile_path", ""))
	assert.Empty(t, section.String("detached_header_path", ""))
	assert.Equal(t, "/x", section.String("detached_header_path", "/x"))
}

func TestSection_StringKeepsCommentCharacters(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	section, err := cfg.Section("Paths")
	require.NoError(t, err)

	assert.Equal(t, "/root/keys;backup/root.key", section.String("keyfile_path", ""))
	assert.Equal(t, "/root/hdr#1.img", section.String("detached_header_path", ""))
}

func TestSection_CaseInsensitiveKeys(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	section, err := cfg.Section("Mixed")
	require.NoError(t, err)

	assert.True(t, section.Bool("use", false))
	assert.True(t, section.Bool("USE", false))
	assert.Equal(t, "/second", section.String("keyfile_path", ""))
	assert.Equal(t, "/second", section.String("KeyFile_Path", ""))
}

func TestSection_Keys(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	section, err := cfg.Section("FirmwareFiles")
	require.NoError(t, err)

	expected := []string{
		"iwlwifi-7260-17.ucode",
		"Intel/IBT-0040.sfi",
		"amdgpu/navi10_gpu_info.bin",
		"rtl_nic/rtl8168h-2.fw",
	}

	assert.Equal(t, expected, section.Keys())

	empty, err := cfg.Section("Empty")
	require.NoError(t, err)
	assert.Empty(t, empty.Keys())
}

func TestConfig_Section(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	_, err = cfg.Section("Firmware")
	require.ErrorIs(t, err, config.ErrSectionNotFound)

	assert.True(t, cfg.HasSection("Luks"))
	assert.False(t, cfg.HasSection("Firmware"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	section, err := cfg.Section("Luks")
	require.NoError(t, err)
	assert.Equal(t, "Luks", section.Name())

	_, err = config.Load(filepath.Join(t.TempDir(), "nonexistent.ini"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
