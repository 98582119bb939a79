package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spaghettifunk/esutil/engine"
	"github.com/spaghettifunk/esutil/engine/config"
	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/gldriver/headless"
	"github.com/spaghettifunk/esutil/engine/gldriver/native"
	"github.com/spaghettifunk/esutil/engine/platform"
	"github.com/spaghettifunk/esutil/engine/preview"
	"github.com/spaghettifunk/esutil/engine/shader"
	"github.com/spaghettifunk/esutil/engine/shapes"
	"github.com/spaghettifunk/esutil/engine/systems"
	"github.com/spaghettifunk/esutil/testbed"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, out io.Writer) error
}

func commands() []command {
	return []command{
		{name: "mesh", summary: "generate a shape and print its buffer sizes and bounds", run: meshCommand},
		{name: "preview", summary: "render a scene to a PNG with the software rasterizer", run: previewCommand},
		{name: "check", summary: "compile and link a shader pair (headless driver by default)", run: checkCommand},
		{name: "run", summary: "run the rotating cube sample on a headless surface", run: runCommand},
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "usage: esutil <command> [flags]")
	fmt.Fprintln(out)
	for _, c := range commands() {
		fmt.Fprintf(out, "  %-8s %s\n", c.name, c.summary)
	}
}

func execute(ctx context.Context, args []string, out io.Writer) int {
	if len(args) == 0 {
		usage(out)
		return exitUsage
	}
	for _, c := range commands() {
		if c.name != args[0] {
			continue
		}
		err := c.run(ctx, args[1:], out)
		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			return exitUsage
		default:
			fmt.Fprintf(out, "%s: %s\n", c.name, err)
			return exitFailure
		}
	}
	fmt.Fprintf(out, "unknown command %q\n\n", args[0])
	usage(out)
	return exitUsage
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errUsage
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDriver returns the shader driver named by a -driver flag.
func openDriver(name string) (shader.Driver, error) {
	switch name {
	case "", "headless":
		return headless.New(), nil
	case "native":
		// GL contexts are bound to the thread that made them current.
		runtime.LockOSThread()
		d, err := native.LoadCurrent()
		if err != nil {
			return nil, fmt.Errorf("native driver: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", errUsage, name)
	}
}

func meshCommand(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("mesh", out)
	configPath := fs.String("config", "", "scene config (.toml, .yaml)")
	shape := fs.String("shape", "", "cube, sphere, grid or plane")
	slices := fs.Int("slices", 0, "sphere slice count")
	radius := fs.Float64("radius", 0, "sphere radius")
	size := fs.Int("size", 0, "grid vertices per side")
	scale := fs.Float64("scale", 0, "cube edge length")
	transform := fs.Bool("transform", false, "apply the config model transform before measuring")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *slices != 0 {
		cfg.Shape.Slices = *slices
	}
	if *radius != 0 {
		cfg.Shape.Radius = float32(*radius)
	}
	if *size != 0 {
		cfg.Shape.Size = *size
	}
	if *scale != 0 {
		cfg.Shape.Scale = float32(*scale)
	}

	kinds := []shapes.Kind{cfg.Shape.Kind}
	if *shape != "" {
		kinds = kinds[:0]
		for _, k := range strings.Split(*shape, ",") {
			kinds = append(kinds, shapes.Kind(strings.TrimSpace(k)))
		}
	}

	meshes, err := generateMeshes(cfg, kinds)
	if err != nil {
		return err
	}

	model := cfg.ModelMatrix()
	for i, m := range meshes {
		if *transform {
			m = m.Transformed(&model)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		b := m.Bounds()
		fmt.Fprintf(out, "shape:     %s\n", kinds[i])
		fmt.Fprintf(out, "vertices:  %d\n", m.VertexCount())
		fmt.Fprintf(out, "triangles: %d\n", m.TriangleCount())
		fmt.Fprintf(out, "indices:   %d\n", m.IndexCount)
		fmt.Fprintf(out, "bounds:    [%.3f %.3f %.3f] - [%.3f %.3f %.3f]\n", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	}
	return nil
}

// generateMeshes builds one mesh per kind on a worker pool, keeping the
// order of kinds.
func generateMeshes(cfg *config.Config, kinds []shapes.Kind) ([]*shapes.Mesh, error) {
	js, err := systems.NewJobSystem(runtime.NumCPU(), len(kinds))
	if err != nil {
		return nil, err
	}
	defer js.Shutdown()

	meshes := make([]*shapes.Mesh, len(kinds))
	errs := make([]error, len(kinds))
	for i, kind := range kinds {
		i := i
		shapeCfg := *cfg
		shapeCfg.Shape.Kind = kind
		if err := js.Submit(systems.Job{
			Name:       string(kind),
			Run:        func() (interface{}, error) { return shapeCfg.Mesh() },
			OnComplete: func(result interface{}) { meshes[i] = result.(*shapes.Mesh) },
			OnFailure:  func(err error) { errs[i] = err },
		}); err != nil {
			return nil, err
		}
	}
	js.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return meshes, nil
}

func previewCommand(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("preview", out)
	configPath := fs.String("config", "", "scene config (.toml, .yaml)")
	outPath := fs.String("out", "", "output PNG (default: the config preview output)")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *outPath != "" {
		cfg.Preview.Output = *outPath
	}

	m, err := cfg.Mesh()
	if err != nil {
		return err
	}
	model := cfg.ModelMatrix()
	viewProjection, err := cfg.NewCamera().ViewProjection()
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	opts.Width, opts.Height = int(cfg.Window.Width), int(cfg.Window.Height)
	opts.CullBackFaces = cfg.Preview.CullBackFaces
	frame, err := preview.Render(m, &model, &viewProjection, opts)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(cfg.Preview.Output, frame.Image); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s (%dx%d): %d drawn, %d culled, %d clipped\n",
		cfg.Preview.Output, opts.Width, opts.Height, frame.Drawn, frame.Culled, frame.Clipped)
	return nil
}

func checkCommand(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("check", out)
	configPath := fs.String("config", "", "scene config naming the shader pair")
	vsPath := fs.String("vs", "", "vertex shader source")
	fsPath := fs.String("fs", "", "fragment shader source")
	uniforms := fs.String("uniforms", "", "comma separated uniforms that must be active")
	driver := fs.String("driver", "headless", "shader driver: headless or native")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		if *vsPath == "" {
			*vsPath = cfg.Shaders.Vertex
		}
		if *fsPath == "" {
			*fsPath = cfg.Shaders.Fragment
		}
	}
	if *vsPath == "" || *fsPath == "" {
		fmt.Fprintln(out, "check needs -vs and -fs, or a -config with shaders")
		return errUsage
	}

	d, err := openDriver(*driver)
	if err != nil {
		return err
	}
	p, err := shader.LoadProgramFiles(d, *vsPath, *fsPath)
	if err != nil {
		return err
	}
	defer d.DeleteProgram(p)

	var missing []string
	for _, name := range strings.Split(*uniforms, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		loc := d.GetUniformLocation(p, name)
		fmt.Fprintf(out, "uniform %s: location %d\n", name, loc)
		if loc < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("inactive uniforms: %s", strings.Join(missing, ", "))
	}
	fmt.Fprintf(out, "ok: %s + %s linked\n", *vsPath, *fsPath)
	return nil
}

func runCommand(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("run", out)
	frames := fs.Uint64("frames", 120, "frames to draw, 0 runs until interrupted")
	width := fs.Uint("width", 320, "surface width")
	height := fs.Uint("height", 240, "surface height")
	fps := fs.Float64("fps", 0, "frame rate cap, 0 is unthrottled")
	previewPath := fs.String("preview", "", "write the last frame to this PNG")
	driver := fs.String("driver", "headless", "shader driver: headless or native")
	if err := parse(fs, args); err != nil {
		return err
	}
	d, err := openDriver(*driver)
	if err != nil {
		return err
	}

	g := testbed.NewTestGame(testbed.Options{PreviewPath: *previewPath})
	g.ApplicationConfig.StartWidth = uint32(*width)
	g.ApplicationConfig.StartHeight = uint32(*height)
	g.ApplicationConfig.TargetFrameRate = *fps

	surface := platform.NewHeadless(uint32(*width), uint32(*height))
	e, err := engine.New(g, g.ApplicationConfig, surface, d)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		return errors.Join(err, e.Shutdown())
	}

	runErr := e.Run(ctx, *frames)
	metrics := e.Context().Metrics
	fmt.Fprintf(out, "ran %d frames, avg frame %.3f ms, final angle %.1f\n",
		e.Context().FrameNumber, metrics.FrameTime(), g.Angle())
	return errors.Join(runErr, e.Shutdown())
}
