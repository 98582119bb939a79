/*
The rotating cube sample: a cube spun around the (1, 0, 1) axis under a
60 degree perspective, with its MVP matrix rebuilt every frame and
uploaded to the u_mvpMatrix uniform.
*/
package testbed

import (
	_ "embed"
	"image"

	"github.com/spaghettifunk/esutil/engine"
	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/math"
	"github.com/spaghettifunk/esutil/engine/preview"
	"github.com/spaghettifunk/esutil/engine/shader"
	"github.com/spaghettifunk/esutil/engine/shapes"
)

// Sources of the Simple_VertexShader program.
var (
	//go:embed shaders/simple.vert
	VertexShaderSource string
	//go:embed shaders/simple.frag
	FragmentShaderSource string
)

const (
	// Degrees per second.
	rotationSpeed float32 = 40.0
	programName           = "simple"
	meshName              = "cube"
)

type Options struct {
	// PreviewPath, when set, receives a PNG of the last drawn frame on shutdown.
	PreviewPath string
	// PreviewOptions configure the software preview. Zero sizes take the surface size.
	PreviewOptions preview.Options
}

type TestGame struct {
	*engine.Game
}

type gameState struct {
	options Options

	program     shader.Program
	mvpLoc      shader.Uniform
	positionLoc shader.Attrib
	colorLoc    shader.Attrib
	cube        *shapes.Mesh

	angle float32
	mvp   math.Matrix

	lastFrame *image.RGBA
}

func NewTestGame(options Options) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartWidth:  320,
				StartHeight: 240,
				Name:        "Simple_VertexShader",
				LogLevel:    "info",
			},
			State: &gameState{options: options},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

// Angle returns the current rotation in degrees, in [0, 360).
func (g *TestGame) Angle() float32 {
	return g.state().angle
}

// MVP returns the matrix uploaded on the last Render.
func (g *TestGame) MVP() math.Matrix {
	return g.state().mvp
}

// LastFrame returns the last preview image, if previews are enabled.
func (g *TestGame) LastFrame() *image.RGBA {
	return g.state().lastFrame
}

func (g *TestGame) Initialize(ctx *engine.Context) error {
	core.LogInfo("initializing %s...", g.ApplicationConfig.Name)
	state := g.state()

	program, err := shader.LoadProgram(ctx.Driver, VertexShaderSource, FragmentShaderSource)
	if err != nil {
		return err
	}
	if _, err := ctx.Resources.RegisterProgram(programName, ctx.Driver, program); err != nil {
		ctx.Driver.DeleteProgram(program)
		return err
	}
	state.program = program
	state.mvpLoc = ctx.Driver.GetUniformLocation(program, "u_mvpMatrix")
	state.positionLoc = ctx.Driver.GetAttribLocation(program, "a_position")
	state.colorLoc = ctx.Driver.GetAttribLocation(program, "a_color")
	core.LogDebug("u_mvpMatrix at %d, a_position at %d, a_color at %d.", state.mvpLoc, state.positionLoc, state.colorLoc)

	state.cube = shapes.GenCube(1.0)
	if _, err := ctx.Resources.RegisterMesh(meshName, state.cube); err != nil {
		return err
	}

	state.angle = 45.0
	g.updateMVP(ctx)
	return nil
}

// Update advances the rotation and rebuilds the MVP matrix.
func (g *TestGame) Update(ctx *engine.Context, deltaTime float32) {
	state := g.state()
	state.angle += deltaTime * rotationSpeed
	for state.angle >= 360.0 {
		state.angle -= 360.0
	}
	g.updateMVP(ctx)
}

func (g *TestGame) updateMVP(ctx *engine.Context) {
	state := g.state()

	var perspective, modelview math.Matrix
	math.LoadIdentity(&perspective)
	if err := math.Perspective(&perspective, 60.0, ctx.AspectRatio(), 1.0, 20.0); err != nil {
		core.LogWarn("perspective: %s", err)
	}

	math.LoadIdentity(&modelview)
	// Translate away from the viewer, then rotate the cube.
	math.Translate(&modelview, 0.0, 0.0, -2.0)
	math.Rotate(&modelview, state.angle, 1.0, 0.0, 1.0)

	math.Multiply(&state.mvp, &modelview, &perspective)
}

func (g *TestGame) Render(ctx *engine.Context) error {
	state := g.state()

	ctx.Driver.UseProgram(state.program)
	flat := state.mvp.Flatten()
	ctx.Driver.UniformMatrix4fv(state.mvpLoc, flat[:])

	if state.options.PreviewPath == "" {
		return nil
	}
	opts := state.options.PreviewOptions
	if opts.Width == 0 || opts.Height == 0 {
		defaults := preview.DefaultOptions()
		defaults.Width, defaults.Height = int(ctx.Width), int(ctx.Height)
		opts = defaults
	}
	identity := math.NewIdentity()
	frame, err := preview.Render(state.cube, &identity, &state.mvp, opts)
	if err != nil {
		return err
	}
	state.lastFrame = frame.Image
	return nil
}

func (g *TestGame) OnResize(ctx *engine.Context, width uint32, height uint32) {
	core.LogDebug("%s resized to %dx%d.", g.ApplicationConfig.Name, width, height)
}

func (g *TestGame) Shutdown(ctx *engine.Context) {
	state := g.state()
	if state.options.PreviewPath != "" && state.lastFrame != nil {
		if err := preview.WritePNG(state.options.PreviewPath, state.lastFrame); err != nil {
			core.LogError("writing preview: %s", err)
		} else {
			core.LogInfo("Last frame written to %s.", state.options.PreviewPath)
		}
	}
	core.LogInfo("%s shut down at %.1f degrees.", g.ApplicationConfig.Name, state.angle)
}
