// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes leveled messages to a writer.
//
// Colors are only used if the writer is a terminal supporting them.
type Printer struct {
	writer   io.Writer
	renderer *lipgloss.Renderer
}

// New creates a new [Printer] that writes into the given writer.
func New(writer io.Writer) *Printer {
	return &Printer{
		writer:   writer,
		renderer: lipgloss.NewRenderer(writer),
	}
}

// Print writes the message with the tag of the given level.
func (p *Printer) Print(level Level, msg string) {
	fmt.Fprintln(p.writer, level.render(p.renderer)+msg)
}

// Printf formats the message and writes it with the tag of the given level.
func (p *Printer) Printf(level Level, format string, a ...any) {
	p.Print(level, fmt.Sprintf(format, a...))
}

func (p *Printer) Info(format string, a ...any) {
	p.Printf(Info, format, a...)
}

func (p *Printer) Warn(format string, a ...any) {
	p.Printf(Warn, format, a...)
}

func (p *Printer) Flag(format string, a ...any) {
	p.Printf(Flag, format, a...)
}

func (p *Printer) Option(format string, a ...any) {
	p.Printf(Option, format, a...)
}

func (p *Printer) Error(format string, a ...any) {
	p.Printf(Error, format, a...)
}

// NewLine writes an empty line.
func (p *Printer) NewLine() {
	fmt.Fprintln(p.writer)
}
