// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/aibor/zinitramfs/internal/config"
)

const (
	name = "zinitramfs"

	usageMessage = `Usage of 'zinitramfs':
    zinitramfs [flags...] [kernel]

Builds an initramfs with ZFS, LUKS and firmware support for the given kernel
release. Without a kernel, the one with the most recently modified modules
directory is used.

Example:
	zinitramfs -c /etc/zinitramfs/config.ini -o /boot/initrd-6.1.0 6.1.0
`
)

type flags struct {
	flagSet *flag.FlagSet

	configPath FilePath
	outputPath string
	rootDir    FilePath
	kernel     string
	keep       bool
	debug      bool
	version    bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		configPath: config.DefaultPath,
		rootDir:    "/",
	}

	flags.initFlagset(output)

	return flags
}

// ParseArgs parses the given arguments. It returns a [ParseArgsError] wrapping
// [ErrHelp] if help or the version is requested.
func (f *flags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	positionalArgs := f.flagSet.Args()

	switch len(positionalArgs) {
	case 0:
	case 1:
		f.kernel = positionalArgs[0]
	default:
		return f.fail("too many arguments, only one kernel may be given", nil)
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	for _, flagName := range []string{"c", "config"} {
		flagSet.Var(
			&f.configPath,
			flagName,
			"configuration file",
		)
	}

	for _, flagName := range []string{"o", "output"} {
		flagSet.StringVar(
			&f.outputPath,
			flagName,
			f.outputPath,
			"output file (default initrd-<kernel>)",
		)
	}

	flagSet.Var(
		&f.rootDir,
		"root",
		"directory to copy all files from",
	)

	flagSet.BoolVar(
		&f.keep,
		"keep",
		f.keep,
		"do not delete the staging directory. Intended for debugging. "+
			"The path to the directory is printed",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
