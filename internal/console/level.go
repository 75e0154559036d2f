// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import "github.com/charmbracelet/lipgloss"

// Level defines the tag and color of a message.
//
// The zero value prints the message as is.
type Level struct {
	tag   string
	color lipgloss.Color
}

// Supported message levels.
var (
	// Info is used for general progress information.
	Info = Level{tag: "[*]", color: "2"}

	// Warn is used for non fatal problems.
	Warn = Level{tag: "[!]", color: "3"}

	// Flag is used for enabled features, like ZFS or LUKS.
	Flag = Level{tag: "[+]", color: "4"}

	// Option is used for selected options, like the kernel.
	Option = Level{tag: "[>]", color: "6"}

	// Error is used for fatal errors.
	Error = Level{tag: "[#]", color: "1"}
)

// String returns the tag of the level.
func (l Level) String() string {
	return l.tag
}

func (l Level) render(renderer *lipgloss.Renderer) string {
	if l.tag == "" {
		return ""
	}

	style := renderer.NewStyle().
		Bold(true).
		Foreground(l.color)

	return style.Render(l.tag) + " "
}
