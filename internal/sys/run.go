// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
)

// Run runs the given program with the given arguments and returns its
// trimmed output split into lines.
//
// The program is not run by a shell, so arguments need no quoting. Any
// failure, including a non-zero exit code, is returned as [CommandError]
// carrying the command line.
func Run(ctx context.Context, name string, args ...string) ([]string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Run command", slog.String("command", cmd.String()))

	err := cmd.Run()
	if err != nil {
		return nil, &CommandError{
			Command: cmd.String(),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return nil, nil
	}

	return strings.Split(output, "\n"), nil
}
