// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package console provides the user facing progress output of zinitramfs.
//
// Each message is prefixed with a colored tag for its [Level]. The set of
// levels is closed: only the levels defined in this package exist, so a
// message can not end up without formatting.
package console
