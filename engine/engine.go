package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/shader"
	"github.com/spaghettifunk/esutil/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released everything
	EngineStageShutdown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	case EngineStageShutdown:
		return "shut down"
	}
	return "unknown"
}

const defaultMaxResourceCount = 256

// How often a suspended engine checks for resize and cancellation.
const suspendedPollInterval = 10 * time.Millisecond

var ErrWrongStage = errors.New("engine is in the wrong stage")

type Engine struct {
	currentStage Stage
	app          Application
	config       ApplicationConfig
	surface      Surface
	context      *Context
	clock        *core.Clock
	isRunning    bool
	isSuspended  bool
}

func New(app Application, config *ApplicationConfig, surface Surface, driver shader.Driver) (*Engine, error) {
	if app == nil || config == nil || surface == nil || driver == nil {
		return nil, errors.New("engine.New requires an application, a config, a surface and a driver")
	}
	if config.LogLevel != "" {
		if err := core.SetLogLevel(config.LogLevel); err != nil {
			return nil, fmt.Errorf("log level %q: %w", config.LogLevel, err)
		}
	}

	maxResources := config.MaxResourceCount
	if maxResources == 0 {
		maxResources = defaultMaxResourceCount
	}
	rs, err := systems.NewResourceSystem(&systems.ResourceSystemConfig{
		MaxResourceCount: maxResources,
		AssetBasePath:    config.AssetBasePath,
	})
	if err != nil {
		return nil, err
	}

	width, height := surface.Size()
	return &Engine{
		currentStage: EngineStageUninitialized,
		app:          app,
		config:       *config,
		surface:      surface,
		clock:        core.NewClock(),
		context: &Context{
			Width:     width,
			Height:    height,
			Driver:    driver,
			Resources: rs,
			Library:   shader.NewLibrary(driver),
			Events:    core.NewEvents(),
			Metrics:   core.NewMetrics(),
		},
	}, nil
}

// Context returns the state shared with the application.
func (e *Engine) Context() *Context {
	return e.context
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Initialize hooks up engine events and runs the application's Init.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("initialize while %s: %w", e.currentStage, ErrWrongStage)
	}
	e.currentStage = EngineStageInitializing

	e.context.Events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.context.Events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.app.Init(e.context); err != nil {
		core.LogError("%s: application failed to initialize: %s", e.config.Name, err)
		e.currentStage = EngineStageUninitialized
		return err
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized (%dx%d).", e.config.Name, e.context.Width, e.context.Height)
	return nil
}

/**
 * @brief Runs the frame loop on the calling goroutine until ctx is done,
 * the surface closes, a quit event arrives or maxFrames frames were drawn.
 *
 * @param maxFrames Number of frames to draw. 0 means no limit.
 * @return The error returned by the application's Draw, if any.
 */
func (e *Engine) Run(ctx context.Context, maxFrames uint64) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("run while %s: %w", e.currentStage, ErrWrongStage)
	}
	e.currentStage = EngineStageRunning
	defer func() { e.currentStage = EngineStageInitialized }()

	if e.config.WatchShaders {
		if err := e.context.Library.Watch(ctx); err != nil && !errors.Is(err, core.ErrAlreadyExists) {
			core.LogWarn("shader hot reload disabled: %s", err)
		}
	}

	var targetFrameSeconds float64
	if e.config.TargetFrameRate > 0 {
		targetFrameSeconds = 1.0 / e.config.TargetFrameRate
	}

	e.isRunning = true
	e.clock.Start()
	defer e.clock.Stop()

	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("%s: context done, leaving the frame loop.", e.config.Name)
			return nil
		default:
		}

		if !e.surface.PumpMessages(e.context.Events) {
			e.isRunning = false
			break
		}
		if !e.isRunning {
			break
		}

		if e.isSuspended {
			// Time spent suspended does not count as frame time.
			e.clock.Tick()
			select {
			case <-ctx.Done():
			case <-time.After(suspendedPollInterval):
			}
			continue
		}

		frameStartTime := time.Now()
		delta := e.clock.Tick()

		e.reloadPrograms()

		e.app.Update(e.context, delta)

		// Call the application's render routine.
		if err := e.app.Draw(e.context); err != nil {
			core.LogError("%s: draw failed on frame %d, stopping: %s", e.config.Name, e.context.FrameNumber, err)
			e.isRunning = false
			return err
		}
		if err := e.surface.Present(); err != nil {
			core.LogWarn("%s: present failed, stopping: %s", e.config.Name, err)
			e.isRunning = false
			break
		}

		// Figure out how long the frame took and, if below the target,
		// give the remaining time back.
		frameElapsedTime := time.Since(frameStartTime).Seconds()
		if remainingSeconds := targetFrameSeconds - frameElapsedTime; remainingSeconds > 0 {
			time.Sleep(time.Duration(remainingSeconds * float64(time.Second)))
		}
		e.context.Metrics.Update(time.Since(frameStartTime).Seconds())

		e.context.FrameNumber++
		if maxFrames > 0 && e.context.FrameNumber >= maxFrames {
			e.isRunning = false
		}
	}

	core.LogDebug("%s: frame loop done after %d frames (avg %.3f ms).", e.config.Name, e.context.FrameNumber, e.context.Metrics.FrameTime())
	return nil
}

func (e *Engine) reloadPrograms() {
	reloaded, errs := e.context.Library.ReloadPending()
	for _, err := range errs {
		core.LogWarn("shader reload failed, keeping the previous program: %s", err)
	}
	for _, name := range reloaded {
		var data core.EventContext
		data.Data.C[0] = name
		e.context.Events.Fire(core.EVENT_CODE_PROGRAM_RELOADED, e, data)
	}
}

// Shutdown runs the application's Shutdown and releases every engine owned
// resource. It is safe to call more than once.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown || e.currentStage == EngineStageShuttingDown {
		return nil
	}
	wasInitialized := e.currentStage != EngineStageUninitialized
	e.currentStage = EngineStageShuttingDown

	if wasInitialized {
		e.app.Shutdown(e.context)
	}

	var errs []error
	e.context.Library.Close()
	if err := e.context.Resources.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	e.context.Events.Shutdown()
	if err := e.surface.Close(); err != nil {
		errs = append(errs, err)
	}

	e.currentStage = EngineStageShutdown
	core.LogInfo("%s shut down.", e.config.Name)
	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.context.Width, e.context.Height
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	width := data.Data.U32[0]
	height := data.Data.U32[1]

	// Check if different. If so, trigger a resize event.
	if width == e.context.Width && height == e.context.Height {
		return false
	}
	e.context.Width = width
	e.context.Height = height
	core.LogDebug("Surface resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Surface minimized, suspending application.")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Surface restored, resuming application.")
		e.isSuspended = false
	}
	if r, ok := e.app.(Resizer); ok {
		r.OnResize(e.context, width, height)
	}
	return false
}
