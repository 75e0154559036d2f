// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

type copyOptions struct {
	prefix   string
	dontFail bool
}

// CopyOption modifies the behavior of [Staging.Copy].
type CopyOption func(*copyOptions)

// WithPrefix sets a directory the file name is relative to, both for the
// source and the target.
func WithPrefix(dir string) CopyOption {
	return func(o *copyOptions) {
		o.prefix = dir
	}
}

// DontFail downgrades a failed copy to a warning.
func DontFail() CopyOption {
	return func(o *copyOptions) {
		o.dontFail = true
	}
}
