//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/sh"
)

const (
	sampleVS = "testbed/shaders/simple.vert"
	sampleFS = "testbed/shaders/simple.frag"
)

// goRun runs the esutil CLI from source with its output streamed.
func goRun(args ...string) error {
	return sh.RunV("go", append([]string{"run", "."}, args...)...)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func checkShaders() error {
	if err := goRun("check", "-vs", sampleVS, "-fs", sampleFS, "-uniforms", "u_mvpMatrix"); err != nil {
		return fmt.Errorf("sample shaders failed to link: %w", err)
	}
	return nil
}
