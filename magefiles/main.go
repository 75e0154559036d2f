// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

const pkg = "github.com/aibor/zinitramfs/cmd/zinitramfs"

var env map[string]string

func init() {
	env = make(map[string]string)
	gobin, exists := os.LookupEnv("GOBIN")
	if !exists {
		gobin = "./gobin"
	}
	if gobin != "" {
		p, err := filepath.Abs(gobin)
		if err == nil {
			gobin = p
		}
	}
	env["GOBIN"] = gobin
}

// Install zinitramfs to gobin directory.
func Install() error {
	path := filepath.Join(env["GOBIN"], "zinitramfs")
	mod, err := target.Dir(path, "cmd", "internal", "go.mod")
	if err != nil {
		return err
	}

	if !mod {
		return nil
	}

	return sh.RunWithV(env, "go", "install", pkg)
}

// Run all tests with race detector and coverage.
func Test() error {
	args := []string{
		"test",
		"-race",
		"-timeout", "2m",
		"-cover",
		"-coverprofile", "/tmp/cover.out",
		"./...",
	}

	fmt.Printf("go args: %s\n", args)
	return sh.RunWithV(env, "go", args...)
}

// Build an initramfs for the most recent kernel into the current directory.
// The configuration file may be given with the ZINITRAMFS_CONFIG env var.
func Initramfs() error {
	mg.Deps(Install)

	args := []string{"-debug"}
	if config, exists := os.LookupEnv("ZINITRAMFS_CONFIG"); exists {
		args = append(args, "-config", config)
	}

	return sh.RunWithV(env, filepath.Join(env["GOBIN"], "zinitramfs"), args...)
}

// Remove volatile files.
func Clean() error {
	return sh.Rm(env["GOBIN"])
}
