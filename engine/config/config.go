// Package config loads scene descriptions used by the command line tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/esutil/engine/components"
	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/math"
	"github.com/spaghettifunk/esutil/engine/shapes"
)

var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrInvalid       = errors.New("invalid config")
)

type Window struct {
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
}

type Shape struct {
	Kind          shapes.Kind `toml:"kind" yaml:"kind"`
	shapes.Params `yaml:",inline"`
}

type Camera struct {
	Eye    [3]float32 `toml:"eye" yaml:"eye"`
	Target [3]float32 `toml:"target" yaml:"target"`
	Up     [3]float32 `toml:"up" yaml:"up"`
}

// Projection is "perspective" (FovY, Near, Far) or "ortho" (the box, Near, Far).
type Projection struct {
	Kind   string  `toml:"kind" yaml:"kind"`
	FovY   float32 `toml:"fovy" yaml:"fovy"`
	Near   float32 `toml:"near" yaml:"near"`
	Far    float32 `toml:"far" yaml:"far"`
	Left   float32 `toml:"left" yaml:"left"`
	Right  float32 `toml:"right" yaml:"right"`
	Bottom float32 `toml:"bottom" yaml:"bottom"`
	Top    float32 `toml:"top" yaml:"top"`
}

// Model places the shape in the world: scale, then rotate, then translate.
type Model struct {
	Translate [3]float32 `toml:"translate" yaml:"translate"`
	// Axis and Angle (degrees) of the rotation.
	Axis  [3]float32 `toml:"axis" yaml:"axis"`
	Angle float32    `toml:"angle" yaml:"angle"`
	Scale [3]float32 `toml:"scale" yaml:"scale"`
}

type Shaders struct {
	Vertex   string `toml:"vertex" yaml:"vertex"`
	Fragment string `toml:"fragment" yaml:"fragment"`
}

type Preview struct {
	Output        string `toml:"output" yaml:"output"`
	CullBackFaces bool   `toml:"cull_back_faces" yaml:"cull_back_faces"`
}

type Config struct {
	LogLevel   string     `toml:"log_level" yaml:"log_level"`
	Frames     uint64     `toml:"frames" yaml:"frames"`
	Window     Window     `toml:"window" yaml:"window"`
	Shape      Shape      `toml:"shape" yaml:"shape"`
	Camera     Camera     `toml:"camera" yaml:"camera"`
	Projection Projection `toml:"projection" yaml:"projection"`
	Model      Model      `toml:"model" yaml:"model"`
	Shaders    Shaders    `toml:"shaders" yaml:"shaders"`
	Preview    Preview    `toml:"preview" yaml:"preview"`
}

// Default returns a unit cube seen from (0, 0, 3) through a 60 degree
// perspective, the scene of the rotating cube sample.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Frames:   60,
		Window:   Window{Width: 320, Height: 240},
		Shape:    Shape{Kind: shapes.KindCube, Params: shapes.Params{Scale: 1, Slices: 20, Radius: 0.75, Size: 8, Width: 1, Height: 1, Segments: 1, Tile: 1}},
		Camera: Camera{
			Eye:    [3]float32{0, 0, 3},
			Target: [3]float32{0, 0, 0},
			Up:     [3]float32{0, 1, 0},
		},
		Projection: Projection{Kind: "perspective", FovY: 60, Near: 1, Far: 20, Left: -1, Right: 1, Bottom: -1, Top: 1},
		Model: Model{
			Axis:  [3]float32{1, 0, 1},
			Angle: 30,
			Scale: [3]float32{1, 1, 1},
		},
		Preview: Preview{Output: "frame.png", CullBackFaces: true},
	}
}

/**
 * @brief Reads a config file on top of Default(). The format follows the
 * extension: .toml, or .yaml/.yml.
 */
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	core.LogDebug("Loaded config %s (%s).", path, cfg.Shape.Kind)
	return cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate rejects values no scene can be built from. Shape parameters
// are checked by the generators themselves.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
			return invalid("log_level %q", c.LogLevel)
		}
	}
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Shape.Kind {
	case shapes.KindCube, shapes.KindSphere, shapes.KindGrid, shapes.KindPlane:
	default:
		return invalid("shape kind %q", c.Shape.Kind)
	}
	switch c.Projection.Kind {
	case "perspective":
		if c.Projection.FovY <= 0 || c.Projection.FovY >= 180 {
			return invalid("fovy %g outside (0, 180)", c.Projection.FovY)
		}
		if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
			return invalid("near %g / far %g", c.Projection.Near, c.Projection.Far)
		}
	case "ortho":
		if c.Projection.Left == c.Projection.Right || c.Projection.Bottom == c.Projection.Top || c.Projection.Near == c.Projection.Far {
			return invalid("empty ortho box")
		}
	default:
		return invalid("projection kind %q", c.Projection.Kind)
	}
	if (c.Shaders.Vertex == "") != (c.Shaders.Fragment == "") {
		return invalid("shaders need both a vertex and a fragment path")
	}
	return nil
}

// Mesh generates the configured shape.
func (c *Config) Mesh() (*shapes.Mesh, error) {
	return shapes.Generate(c.Shape.Kind, c.Shape.Params)
}

func vec3(v [3]float32) math.Vec3 {
	return math.NewVec3(v[0], v[1], v[2])
}

// NewCamera builds the configured camera with the window aspect ratio.
func (c *Config) NewCamera() *components.Camera {
	cam := components.NewCamera()
	cam.SetPosition(vec3(c.Camera.Eye))
	cam.SetTarget(vec3(c.Camera.Target))
	cam.SetUp(vec3(c.Camera.Up))

	p := c.Projection
	if p.Kind == "ortho" {
		cam.SetOrtho(components.OrthoBox{Left: p.Left, Right: p.Right, Bottom: p.Bottom, Top: p.Top}, p.Near, p.Far)
	} else {
		cam.SetPerspective(p.FovY, float32(c.Window.Width)/float32(c.Window.Height), p.Near, p.Far)
	}
	return cam
}

// ModelMatrix composes the model transform.
func (c *Config) ModelMatrix() math.Matrix {
	t := math.TransformFromPositionRotationScale(vec3(c.Model.Translate), vec3(c.Model.Axis), c.Model.Angle, vec3(c.Model.Scale))
	return t.GetWorld()
}
