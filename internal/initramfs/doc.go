// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initramfs packs a directory tree into a compressed newc CPIO archive
// that can be used as initramfs by the Linux kernel.
package initramfs
