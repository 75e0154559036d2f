// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package build

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/samber/lo"
)

//go:embed init.sh.tmpl
var initScript string

//nolint:gochecknoglobals
var initTmpl = lo.Must(template.New("init").Parse(initScript))

// initData are the values the init script is rendered with.
type initData struct {
	Busybox string
	Udevd   string
	Udevadm string

	// Modules are loaded in order before any device is set up.
	Modules []string

	ZFS        bool
	Luks       bool
	Keyfile    bool
	KeyfileGPG bool
	Header     bool
}

func renderInit(data initData) ([]byte, error) {
	var buf bytes.Buffer

	err := initTmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("render init: %w", err)
	}

	return buf.Bytes(), nil
}
