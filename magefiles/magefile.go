//go:build mage

// Package main contains Mage build targets for pdfnarrator developer tooling.
package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified.
var Default = Build

const binary = "bin/pdfnarrator"

// Build compiles the pdfnarrator CLI into bin/.
func Build() error {
	mg.Deps(Vet)
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	ldflags := fmt.Sprintf("-X main.version=%s", version)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binary, "./cmd/pdfnarrator")
}

// Test runs the unit tests. Browser tests skip without Chrome in PATH.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// TestShort runs the tests that need no browser.
func TestShort() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm("bin")
}
