//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace

// Builds the esutil binary into bin/.
func (Build) Binary() error {
	return sh.RunV("go", "build", "-o", "bin/esutil", ".")
}

// Compiles and links the sample shaders on the headless driver.
func (Build) Shaders() error {
	return checkShaders()
}

// Runs every package test.
func Test() error {
	if mg.Verbose() {
		return sh.RunV("go", "test", "-v", "./...")
	}
	return sh.RunV("go", "test", "./...")
}
