// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aibor/zinitramfs/internal/build"
	"github.com/aibor/zinitramfs/internal/config"
	"github.com/aibor/zinitramfs/internal/console"
	"github.com/aibor/zinitramfs/internal/hook"
	"github.com/aibor/zinitramfs/internal/staging"
	"github.com/aibor/zinitramfs/internal/sys"
)

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newSpec(flags *flags) (build.Spec, error) {
	cfg, err := config.Load(string(flags.configPath))
	if err != nil {
		return build.Spec{}, err //nolint:wrapcheck
	}

	hooks, err := hook.Load(cfg)
	if err != nil {
		return build.Spec{}, fmt.Errorf("hooks: %w", err)
	}

	settings, err := build.LoadSettings(cfg)
	if err != nil {
		return build.Spec{}, fmt.Errorf("settings: %w", err)
	}

	kernel := flags.kernel
	if kernel == "" {
		modulesDir := filepath.Join(string(flags.rootDir), sys.ModulesDir)

		kernel, err = sys.LatestKernel(modulesDir)
		if err != nil {
			return build.Spec{}, fmt.Errorf("find kernel: %w", err)
		}
	}

	return build.Spec{
		Kernel:   kernel,
		Root:     string(flags.rootDir),
		Output:   flags.outputPath,
		Keep:     flags.keep,
		Settings: settings,
		Hooks:    hooks,
	}, nil
}

func run(ctx context.Context, flags *flags, printer *console.Printer) (string, error) {
	spec, err := newSpec(flags)
	if err != nil {
		return "", err
	}

	running, err := sys.RunningKernel()
	if err != nil {
		slog.Warn("Failed to read running kernel", slog.Any("error", err))

		running = "unknown"
	}

	printer.Option("Kernel: %s (running: %s)", spec.Kernel, running)

	output, err := build.Build(ctx, spec, printer)
	if err != nil {
		return "", fmt.Errorf("build: %w", err)
	}

	return output, nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return 2 //nolint:mnd
}

func handleRunError(err error, printer *console.Printer) int {
	var cmdErr *sys.CommandError
	if errors.As(err, &cmdErr) {
		slog.Debug("External command failed",
			slog.String("command", cmdErr.Command),
			slog.String("stderr", cmdErr.Stderr),
		)
	}

	// A staging directory left behind is worth a warning only, but the
	// command still fails.
	if errors.Is(err, staging.ErrCleanIncomplete) {
		printer.Warn("%v", err)
	} else {
		printer.Error("%v", err)
	}

	printer.NewLine()

	return 1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags := newFlags(cfg.Stderr)

	err := flags.ParseArgs(args)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug)

	printer := console.New(cfg.Stdout)

	output, err := run(ctx, flags, printer)
	if err != nil {
		return handleRunError(err, printer)
	}

	printer.Info("Please copy %q to your /boot directory", output)

	return 0
}
