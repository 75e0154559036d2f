// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sys provides lookups on the host system: kernels, programs, udev
// and shared libraries of ELF files. It also runs external commands.
//
// Lookups that take a root directory resolve all paths below that root and
// return paths as seen from within it.
package sys
