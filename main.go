/*
esutil generates meshes, checks shader programs and previews scenes
without a GPU.

	esutil mesh -shape sphere -slices 20
	esutil preview -config scene.toml -out frame.png
	esutil check -vs simple.vert -fs simple.frag
	esutil run -frames 120 -preview last.png
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	os.Exit(execute(ctx, os.Args[1:], os.Stdout))
}
