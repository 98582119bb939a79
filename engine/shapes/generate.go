package shapes

import "fmt"

// Kind names a generator.
type Kind string

const (
	KindCube   Kind = "cube"
	KindSphere Kind = "sphere"
	KindGrid   Kind = "grid"
	KindPlane  Kind = "plane"
)

// Params carries the arguments of every generator; each kind reads only its own fields.
type Params struct {
	// Scale is the cube edge length.
	Scale float32 `toml:"scale" yaml:"scale"`
	// Slices and Radius shape the sphere.
	Slices int     `toml:"slices" yaml:"slices"`
	Radius float32 `toml:"radius" yaml:"radius"`
	// Size is the number of grid vertices per side.
	Size int `toml:"size" yaml:"size"`
	// Width, Height, Segments and Tile shape the plane.
	Width    float32 `toml:"width" yaml:"width"`
	Height   float32 `toml:"height" yaml:"height"`
	Segments uint32  `toml:"segments" yaml:"segments"`
	Tile     float32 `toml:"tile" yaml:"tile"`
}

// Generate builds the mesh of the given kind.
func Generate(kind Kind, p Params) (*Mesh, error) {
	switch kind {
	case KindCube:
		return GenCube(p.Scale), nil
	case KindSphere:
		return GenSphere(p.Slices, p.Radius)
	case KindGrid:
		return GenSquareGrid(p.Size)
	case KindPlane:
		return GenPlane(p.Width, p.Height, p.Segments, p.Segments, p.Tile, p.Tile), nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", kind)
	}
}
