// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package build

import "errors"

var (
	// ErrModuleNotFound is returned if a requested kernel module is not
	// present in the modules directory of the kernel.
	ErrModuleNotFound = errors.New("kernel module not found")

	// ErrInvalidSetting is returned if a configuration value is missing or
	// malformed.
	ErrInvalidSetting = errors.New("invalid setting")
)
