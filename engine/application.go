package engine

import (
	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/shader"
	"github.com/spaghettifunk/esutil/engine/systems"
)

type ApplicationConfig struct {
	// Surface starting width.
	StartWidth uint32
	// Surface starting height.
	StartHeight uint32
	// The application name, used in log lines.
	Name string
	// Minimum log level (debug, info, warn, error). Empty keeps the current level.
	LogLevel string
	// Base path for relative shader and asset file names.
	AssetBasePath string
	// Maximum number of resources the registry holds. 0 picks a default.
	MaxResourceCount uint32
	// Frames per second to cap the loop at. 0 runs unthrottled.
	TargetFrameRate float64
	// Relink library programs when their source files change.
	WatchShaders bool
}

// Application is implemented by anything the engine can drive. Every
// method is called on the goroutine running Engine.Run, which owns the
// GL context.
type Application interface {
	Init(ctx *Context) error
	Update(ctx *Context, deltaTime float32)
	Draw(ctx *Context) error
	Shutdown(ctx *Context)
}

// Resizer is implemented by applications that want to know about
// framebuffer size changes.
type Resizer interface {
	OnResize(ctx *Context, width, height uint32)
}

// Context is the per-engine state handed to an Application. It replaces
// process wide globals: two engines in one process never share it.
type Context struct {
	Width       uint32
	Height      uint32
	Driver      shader.Driver
	Resources   *systems.ResourceSystem
	Library     *shader.Library
	Events      *core.Events
	Metrics     *core.Metrics
	FrameNumber uint64
	// UserData is free for the application.
	UserData interface{}
}

// AspectRatio returns width over height, or 1 for an empty surface.
func (c *Context) AspectRatio() float32 {
	if c.Height == 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

// Surface is where frames end up. platform.Headless implements it.
type Surface interface {
	// PumpMessages delivers pending surface events and reports whether
	// the surface is still open.
	PumpMessages(events *core.Events) bool
	Size() (uint32, uint32)
	Present() error
	Close() error
}
