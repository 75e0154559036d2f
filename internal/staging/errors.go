// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import "errors"

var (
	// ErrNotCopied is returned if a file is not present at its destination
	// after copying.
	ErrNotCopied = errors.New("file not copied")

	// ErrSourceNotExist is returned if the source of a copy does not exist.
	ErrSourceNotExist = errors.New("source file does not exist")

	// ErrCleanIncomplete is returned if the staging directory still exists
	// after removal.
	ErrCleanIncomplete = errors.New("staging directory not fully removed")
)
