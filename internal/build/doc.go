// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package build assembles the initramfs for a kernel.
//
// All enabled hooks contribute programs, files and kernel modules. Those are
// copied with their shared libraries into a staging directory, which is then
// packed into the archive together with the init script.
package build
