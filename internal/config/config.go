// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultPath is the configuration file used if none is given.
const DefaultPath = "/etc/zinitramfs/config.ini"

//nolint:gochecknoglobals
var loadOptions = ini.LoadOptions{
	// List sections, like [FirmwareFiles], may have keys without values.
	AllowBooleanKeys: true,
	// File names may contain colons.
	KeyValueDelimiters: "=",
	// Paths may end in an escape character.
	IgnoreContinuation: true,
	// Paths may contain "#" and ";". Only whole line comments are supported.
	IgnoreInlineComment: true,
}

// Config is a parsed configuration. It is read-only once loaded.
type Config struct {
	file *ini.File
}

// Load reads and parses the configuration file at the given path.
func Load(path string) (*Config, error) {
	return load(path)
}

// Parse parses the given configuration file content.
func Parse(data []byte) (*Config, error) {
	return load(data)
}

func load(source any) (*Config, error) {
	file, err := ini.LoadSources(loadOptions, source)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &Config{file: file}, nil
}

// Section returns the section with the given name.
//
// It returns [ErrSectionNotFound] if the section does not exist.
func (c *Config) Section(name string) (*Section, error) {
	section, err := c.file.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("%w: [%s]", ErrSectionNotFound, name)
	}

	return &Section{section: section}, nil
}

// HasSection returns true if the section with the given name exists.
func (c *Config) HasSection(name string) bool {
	return c.file.HasSection(name)
}

// Section is a single named section of a [Config].
type Section struct {
	section *ini.Section
}

// Name returns the name of the section.
func (s *Section) Name() string {
	return s.section.Name()
}

// Bool returns the boolean value for the given key. If the key is absent or
// the value can not be parsed as boolean, def is returned.
//
// The key is matched case-insensitively.
func (s *Section) Bool(key string, def bool) bool {
	k, exists := s.lookup(key)
	if !exists {
		return def
	}

	value, err := k.Bool()
	if err != nil {
		return def
	}

	return value
}

// String returns the value for the given key, or def if the key is absent.
//
// The key is matched case-insensitively.
func (s *Section) String(key, def string) string {
	k, exists := s.lookup(key)
	if !exists {
		return def
	}

	return k.String()
}

// lookup returns the key matching the given name case-insensitively. If
// multiple keys match, the last one wins.
func (s *Section) lookup(name string) (*ini.Key, bool) {
	var found *ini.Key

	for _, key := range s.section.Keys() {
		if strings.EqualFold(key.Name(), name) {
			found = key
		}
	}

	return found, found != nil
}

// Keys returns the names of all keys of the section in file order. Other than
// for [Section.Bool] and [Section.String], their case is preserved.
func (s *Section) Keys() []string {
	return s.section.KeyStrings()
}
