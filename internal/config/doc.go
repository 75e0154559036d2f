// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config reads the INI configuration file of zinitramfs.
//
// Values are looked up by section and key with typed getters that fall back
// to a default if the key is absent or its value is malformed. A missing
// section is an error, so callers can decide to fail or to use defaults.
package config
