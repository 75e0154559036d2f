// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package staging manages the temporary directory the initramfs content is
// assembled in before it is packed into an archive.
//
// Files are copied from a root directory, usually "/", keeping their path
// relative to the root. So "/usr/bin/zfs" ends up at "<staging>/usr/bin/zfs".
package staging
