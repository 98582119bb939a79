package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/gldriver/headless"
	"github.com/spaghettifunk/esutil/engine/platform"
	"github.com/spaghettifunk/esutil/engine/shader"
)

const testVS = `#version 300 es
uniform mat4 u_mvpMatrix;
layout(location = 0) in vec4 a_position;
void main()
{
   gl_Position = u_mvpMatrix * a_position;
}
`

const testFS = `#version 300 es
precision mediump float;
out vec4 outColor;
void main()
{
   outColor = vec4(1.0, 0.0, 0.0, 1.0);
}
`

type countingApp struct {
	inits, updates, draws, shutdowns int
	resizes                          [][2]uint32
	deltas                           []float32
	onUpdate                         func(ctx *Context)
	drawErr                          error
}

func (a *countingApp) Init(ctx *Context) error {
	a.inits++
	return nil
}

func (a *countingApp) Update(ctx *Context, deltaTime float32) {
	a.updates++
	a.deltas = append(a.deltas, deltaTime)
	if a.onUpdate != nil {
		a.onUpdate(ctx)
	}
}

func (a *countingApp) Draw(ctx *Context) error {
	a.draws++
	return a.drawErr
}

func (a *countingApp) OnResize(ctx *Context, width, height uint32) {
	a.resizes = append(a.resizes, [2]uint32{width, height})
}

func (a *countingApp) Shutdown(ctx *Context) {
	a.shutdowns++
}

func quietLog(t *testing.T) {
	t.Helper()
	core.SetLogOutput(&bytes.Buffer{})
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })
}

func newEngine(t *testing.T, app Application, config *ApplicationConfig) (*Engine, *platform.Headless, *headless.Driver) {
	t.Helper()
	quietLog(t)
	surface := platform.NewHeadless(320, 240)
	d := headless.New()
	if config == nil {
		config = &ApplicationConfig{Name: "test"}
	}
	e, err := New(app, config, surface, d)
	require.NoError(t, err)
	return e, surface, d
}

func TestNewValidatesArguments(t *testing.T) {
	quietLog(t)
	_, err := New(nil, &ApplicationConfig{}, platform.NewHeadless(1, 1), headless.New())
	assert.Error(t, err)

	_, err = New(&countingApp{}, &ApplicationConfig{LogLevel: "loud"}, platform.NewHeadless(1, 1), headless.New())
	assert.Error(t, err)
}

func TestRunFrameLimit(t *testing.T) {
	app := &countingApp{}
	e, surface, _ := newEngine(t, app, nil)

	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.Stage())
	require.NoError(t, e.Run(context.Background(), 5))

	assert.Equal(t, 1, app.inits)
	assert.Equal(t, 5, app.updates)
	assert.Equal(t, 5, app.draws)
	assert.Equal(t, uint64(5), surface.Frames())
	assert.Equal(t, uint64(5), e.Context().FrameNumber)
	for _, dt := range app.deltas {
		assert.GreaterOrEqual(t, dt, float32(0))
	}

	require.NoError(t, e.Shutdown())
	assert.Equal(t, 1, app.shutdowns)
	assert.Equal(t, EngineStageShutdown, e.Stage())
	require.NoError(t, e.Shutdown(), "second shutdown is a no-op")
	assert.Equal(t, 1, app.shutdowns)
}

func TestRunRequiresInitialize(t *testing.T) {
	e, _, _ := newEngine(t, &countingApp{}, nil)
	assert.ErrorIs(t, e.Run(context.Background(), 1), ErrWrongStage)

	require.NoError(t, e.Initialize())
	assert.ErrorIs(t, e.Initialize(), ErrWrongStage)
}

func TestRunStopsOnQuit(t *testing.T) {
	app := &countingApp{}
	e, surface, _ := newEngine(t, app, nil)
	app.onUpdate = func(ctx *Context) {
		if ctx.FrameNumber == 2 {
			require.NoError(t, surface.PostQuit())
		}
	}

	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run(context.Background(), 0))
	assert.Equal(t, 3, app.draws)
	assert.Equal(t, uint64(3), surface.Frames())
}

func TestRunStopsOnCancel(t *testing.T) {
	app := &countingApp{}
	e, _, _ := newEngine(t, app, nil)
	require.NoError(t, e.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	app.onUpdate = func(c *Context) {
		if c.FrameNumber == 9 {
			cancel()
		}
	}
	require.NoError(t, e.Run(ctx, 0))
	assert.Equal(t, 10, app.updates)
}

func TestRunReturnsDrawError(t *testing.T) {
	boom := errors.New("boom")
	app := &countingApp{drawErr: boom}
	e, surface, _ := newEngine(t, app, nil)

	require.NoError(t, e.Initialize())
	assert.ErrorIs(t, e.Run(context.Background(), 10), boom)
	assert.Equal(t, 1, app.draws)
	assert.Equal(t, uint64(0), surface.Frames())
}

func TestResizeSuspendsAndResumes(t *testing.T) {
	app := &countingApp{}
	e, surface, _ := newEngine(t, app, nil)
	app.onUpdate = func(ctx *Context) {
		if ctx.FrameNumber == 1 {
			require.NoError(t, surface.PostResize(0, 0))
			go func() {
				time.Sleep(30 * time.Millisecond)
				_ = surface.PostResize(64, 48)
			}()
		}
	}

	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run(context.Background(), 4))

	assert.Equal(t, 4, app.updates)
	assert.Equal(t, [][2]uint32{{64, 48}}, app.resizes, "a minimized surface is not reported")
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(64), w)
	assert.Equal(t, uint32(48), h)
	assert.InDelta(t, 64.0/48.0, e.Context().AspectRatio(), 1e-6)
}

func TestShutdownReleasesResources(t *testing.T) {
	var program shader.Program
	game := &Game{
		FnInitialize: func(ctx *Context) error {
			p, err := shader.LoadProgram(ctx.Driver, testVS, testFS)
			if err != nil {
				return err
			}
			program = p
			_, err = ctx.Resources.RegisterProgram("simple", ctx.Driver, p)
			return err
		},
	}
	e, _, d := newEngine(t, game, nil)

	require.NoError(t, e.Initialize())
	assert.NotZero(t, program)
	assert.NotZero(t, d.Live())

	require.NoError(t, e.Shutdown())
	assert.Equal(t, 0, d.Live())
}

func TestInitializeFailure(t *testing.T) {
	boom := errors.New("no program")
	game := &Game{FnInitialize: func(*Context) error { return boom }}
	e, _, _ := newEngine(t, game, nil)

	assert.ErrorIs(t, e.Initialize(), boom)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	require.NoError(t, e.Shutdown())
}

func TestWatchShadersReloadsPrograms(t *testing.T) {
	dir := t.TempDir()
	vsPath := filepath.Join(dir, "simple.vert")
	fsPath := filepath.Join(dir, "simple.frag")
	require.NoError(t, os.WriteFile(vsPath, []byte(testVS), 0o644))
	require.NoError(t, os.WriteFile(fsPath, []byte(testFS), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var reloaded string
	game := &Game{
		FnInitialize: func(c *Context) error {
			c.Events.Register(core.EVENT_CODE_PROGRAM_RELOADED, nil, func(code core.SystemEventCode, sender interface{}, l interface{}, data core.EventContext) bool {
				reloaded = data.Data.C[0]
				cancel()
				return true
			})
			_, err := c.Library.Add("simple", vsPath, fsPath)
			return err
		},
		FnUpdate: func(c *Context, dt float32) {
			if c.FrameNumber == 0 {
				src := []byte(testFS + "// edited\n")
				require.NoError(t, os.WriteFile(fsPath, src, 0o644))
			}
		},
	}
	e, _, _ := newEngine(t, game, &ApplicationConfig{Name: "watch", WatchShaders: true, TargetFrameRate: 200})

	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run(ctx, 0))
	assert.Equal(t, "simple", reloaded)
	require.NoError(t, e.Shutdown())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "running", EngineStageRunning.String())
	assert.Equal(t, "unknown", Stage(200).String())
}
