// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hook provides the features an initramfs can be built with.
//
// Each feature is an immutable value built from the configuration with its
// LoadConfig method. It reports if it is enabled and which programs, files,
// configuration files and kernel modules it needs inside the initramfs. The
// values are collected in a [Set] that is handed to the build driver.
package hook
