//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the rotating cube sample headless and keeps its last frame.
func (Run) Testbed() error {
	mg.Deps(Build.Shaders)
	fmt.Println("Run testbed...")
	return goRun("run", "-frames", "120", "-preview", "testbed.png")
}

// Renders the default scene, or the one in scene.toml when present, to frame.png.
func (Run) Preview() error {
	args := []string{"preview", "-out", "frame.png"}
	if fileExists("scene.toml") {
		args = append(args, "-config", "scene.toml")
	}
	return goRun(args...)
}
