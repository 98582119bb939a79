// Package preview rasterizes a mesh into an image without a GPU, to eyeball
// generated shapes and transforms from the command line. Triangles are
// flat shaded with a single directional light and painted back to front.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sort"

	"golang.org/x/image/vector"

	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/math"
	"github.com/spaghettifunk/esutil/engine/shapes"
)

var ErrInvalidSize = errors.New("preview size must be positive")

// Vertices closer to the eye plane than this are treated as behind it.
const minClipW = 1e-5

type Options struct {
	Width, Height int
	Background    color.RGBA
	Color         color.RGBA
	// Light is the world space direction towards the light.
	Light math.Vec3
	// Ambient is the intensity of faces turned away from the light, in [0, 1].
	Ambient       float32
	CullBackFaces bool
}

func DefaultOptions() Options {
	return Options{
		Width:         320,
		Height:        240,
		Background:    color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff},
		Color:         color.RGBA{R: 0xd0, G: 0x40, B: 0x30, A: 0xff},
		Light:         math.NewVec3(0.3, 0.5, 1),
		Ambient:       0.2,
		CullBackFaces: true,
	}
}

// Frame is a rendered image plus what happened to the triangles.
type Frame struct {
	Image *image.RGBA
	// Drawn, Culled and Clipped add up to the mesh triangle count.
	Drawn   int
	Culled  int
	Clipped int
}

type triangle struct {
	screen [3][2]float32
	depth  float32
	shade  color.RGBA
}

/**
 * @brief Renders m with model placing it in the world and viewProjection
 * taking the world to clip space. A vertex is transformed as
 * p * model * viewProjection.
 *
 * Triangles with a vertex behind the eye are dropped rather than clipped.
 */
func Render(m *shapes.Mesh, model, viewProjection *math.Matrix, opts Options) (*Frame, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var mvp math.Matrix
	math.Multiply(&mvp, model, viewProjection)
	light := opts.Light.Normalize()
	ambient := math.Clamp(opts.Ambient, 0, 1)

	frame := &Frame{Image: image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))}
	draw.Draw(frame.Image, frame.Image.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	w, h := float32(opts.Width), float32(opts.Height)
	tris := make([]triangle, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		var tri triangle
		var world [3]math.Vec3
		var ndc [3]math.Vec3
		clipped := false
		for k := 0; k < 3; k++ {
			p := m.Position(m.Indices[t*3+k]).ToVec4(1)
			world[k] = model.TransformPoint(p).ToVec3()
			clip := mvp.TransformPoint(p)
			if clip.W < minClipW {
				clipped = true
				break
			}
			ndc[k] = math.NewVec3(clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W)
			tri.screen[k] = [2]float32{(ndc[k].X + 1) * 0.5 * w, (1 - ndc[k].Y) * 0.5 * h}
			tri.depth += ndc[k].Z / 3
		}
		if clipped {
			frame.Clipped++
			continue
		}

		// Counter-clockwise in normalized device coordinates faces the viewer.
		area := (ndc[1].X-ndc[0].X)*(ndc[2].Y-ndc[0].Y) - (ndc[2].X-ndc[0].X)*(ndc[1].Y-ndc[0].Y)
		if opts.CullBackFaces && area <= 0 {
			frame.Culled++
			continue
		}

		normal := world[1].Sub(world[0]).Cross(world[2].Sub(world[0])).Normalize()
		if area < 0 {
			normal = normal.MulScalar(-1)
		}
		intensity := ambient + (1-ambient)*math.Clamp(normal.Dot(light), 0, 1)
		tri.shade = shade(opts.Color, intensity)
		tris = append(tris, tri)
	}

	// Painter's algorithm: larger NDC depth is farther away.
	sort.SliceStable(tris, func(i, j int) bool { return tris[i].depth > tris[j].depth })

	z := vector.NewRasterizer(opts.Width, opts.Height)
	for _, tri := range tris {
		z.Reset(opts.Width, opts.Height)
		z.MoveTo(tri.screen[0][0], tri.screen[0][1])
		z.LineTo(tri.screen[1][0], tri.screen[1][1])
		z.LineTo(tri.screen[2][0], tri.screen[2][1])
		z.ClosePath()
		z.Draw(frame.Image, frame.Image.Bounds(), image.NewUniform(tri.shade), image.Point{})
		frame.Drawn++
	}

	core.LogDebug("Preview %dx%d: %d drawn, %d culled, %d clipped.", opts.Width, opts.Height, frame.Drawn, frame.Culled, frame.Clipped)
	return frame, nil
}

func shade(c color.RGBA, intensity float32) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Clamp(float32(v)*intensity, 0, 255))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// WritePNG encodes img to path, replacing any existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
