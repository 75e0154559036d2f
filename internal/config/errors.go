// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "errors"

// ErrSectionNotFound is returned if a requested section does not exist.
var ErrSectionNotFound = errors.New("section not found")
