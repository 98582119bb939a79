// Package shapes generates vertex and index buffers for canonical primitives.
//
// Every generator returns a freshly allocated Mesh owned by the caller.
// Attributes are stored as flat float32 slices in the layout glVertexAttribPointer
// expects: 3 floats per position, normal and tangent and 2 per texture coordinate.
// Indices form a triangle list.
package shapes

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/math"
)

var (
	ErrInvalidSlices   = errors.New("sphere slice count must be even and at least 4")
	ErrInvalidRadius   = errors.New("sphere radius must be non-zero")
	ErrInvalidGridSize = errors.New("grid size must be at least 2")
	ErrInvalidMesh     = errors.New("invalid mesh")
)

// Mesh holds the buffers produced by a generator. Normals, TexCoords and
// Tangents are nil when the generator does not produce them.
type Mesh struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Tangents  []float32
	Indices   []uint32
	// IndexCount is the number of indices to draw as GL_TRIANGLES.
	IndexCount int
}

// VertexCount returns the number of vertices in the position buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles described by the index buffer.
func (m *Mesh) TriangleCount() int {
	return m.IndexCount / 3
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i uint32) math.Vec3 {
	return math.NewVec3(m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2])
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i uint32) math.Vec3 {
	return math.NewVec3(m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
}

// TexCoord returns the texture coordinate of vertex i.
func (m *Mesh) TexCoord(i uint32) math.Vec2 {
	return math.NewVec2(m.TexCoords[i*2], m.TexCoords[i*2+1])
}

// Validate checks buffer sizes against each other and that every index
// refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: position buffer length %d is not a multiple of 3", ErrInvalidMesh, len(m.Positions))
	}
	n := m.VertexCount()
	if m.Normals != nil && len(m.Normals) != n*3 {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(m.Normals)/3, n)
	}
	if m.TexCoords != nil && len(m.TexCoords) != n*2 {
		return fmt.Errorf("%w: %d texture coordinates for %d vertices", ErrInvalidMesh, len(m.TexCoords)/2, n)
	}
	if m.Tangents != nil && len(m.Tangents) != n*3 {
		return fmt.Errorf("%w: %d tangents for %d vertices", ErrInvalidMesh, len(m.Tangents)/3, n)
	}
	if len(m.Indices) != m.IndexCount {
		return fmt.Errorf("%w: index count %d but %d indices stored", ErrInvalidMesh, m.IndexCount, len(m.Indices))
	}
	if m.IndexCount%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a whole number of triangles", ErrInvalidMesh, m.IndexCount)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at position %d is out of range [0, %d)", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// Bounds returns the axis aligned extents of the positions.
func (m *Mesh) Bounds() math.Extents3D {
	if m.VertexCount() == 0 {
		return math.Extents3D{}
	}
	ext := math.Extents3D{Min: m.Position(0), Max: m.Position(0)}
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(uint32(i))
		ext.Min = ext.Min.Min(p)
		ext.Max = ext.Max.Max(p)
	}
	return ext
}

// Transformed returns a copy of the mesh with positions transformed by mat
// as points and normals and tangents by its upper 3x3, renormalized. The
// normal transform is only exact for rotations and uniform scales.
func (m *Mesh) Transformed(mat *math.Matrix) *Mesh {
	out := &Mesh{
		Positions:  make([]float32, len(m.Positions)),
		IndexCount: m.IndexCount,
		Indices:    append([]uint32(nil), m.Indices...),
	}
	if m.TexCoords != nil {
		out.TexCoords = append([]float32(nil), m.TexCoords...)
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := mat.TransformPoint(m.Position(uint32(i)).ToVec4(1))
		if p.W != 0 && p.W != 1 {
			p = math.NewVec4(p.X/p.W, p.Y/p.W, p.Z/p.W, 1)
		}
		out.Positions[i*3+0] = p.X
		out.Positions[i*3+1] = p.Y
		out.Positions[i*3+2] = p.Z
	}
	out.Normals = transformDirections(m.Normals, mat)
	out.Tangents = transformDirections(m.Tangents, mat)
	return out
}

func transformDirections(src []float32, mat *math.Matrix) []float32 {
	if src == nil {
		return nil
	}
	dst := make([]float32, len(src))
	for i := 0; i+2 < len(src); i += 3 {
		d := mat.TransformDirection(math.NewVec3(src[i], src[i+1], src[i+2])).Normalize()
		dst[i+0] = d.X
		dst[i+1] = d.Y
		dst[i+2] = d.Z
	}
	return dst
}

// GenerateNormals replaces the normals with face normals. Vertices shared
// between faces take the normal of the last face that references them.
func (m *Mesh) GenerateNormals() {
	m.Normals = make([]float32, len(m.Positions))
	for i := 0; i+2 < m.IndexCount; i += 3 {
		i0, i1, i2 := m.Indices[i+0], m.Indices[i+1], m.Indices[i+2]

		edge1 := m.Position(i1).Sub(m.Position(i0))
		edge2 := m.Position(i2).Sub(m.Position(i0))

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		normal := edge1.Cross(edge2).Normalize()
		for _, idx := range []uint32{i0, i1, i2} {
			m.Normals[idx*3+0] = normal.X
			m.Normals[idx*3+1] = normal.Y
			m.Normals[idx*3+2] = normal.Z
		}
	}
}

// GenerateTangents derives per-face tangents from positions and texture
// coordinates. Meshes without texture coordinates are left unchanged.
func (m *Mesh) GenerateTangents() {
	if m.TexCoords == nil {
		core.LogWarn("GenerateTangents: mesh has no texture coordinates, skipping.")
		return
	}
	m.Tangents = make([]float32, len(m.Positions))
	for i := 0; i+2 < m.IndexCount; i += 3 {
		i0, i1, i2 := m.Indices[i+0], m.Indices[i+1], m.Indices[i+2]

		edge1 := m.Position(i1).Sub(m.Position(i0))
		edge2 := m.Position(i2).Sub(m.Position(i0))

		uv0, uv1, uv2 := m.TexCoord(i0), m.TexCoord(i1), m.TexCoord(i2)
		deltaU1 := uv1.X - uv0.X
		deltaV1 := uv1.Y - uv0.Y
		deltaU2 := uv2.X - uv0.X
		deltaV2 := uv2.Y - uv0.Y

		dividend := deltaU1*deltaV2 - deltaU2*deltaV1
		if dividend == 0 {
			continue
		}
		fc := 1.0 / dividend

		tangent := math.NewVec3(
			fc*(deltaV2*edge1.X-deltaV1*edge2.X),
			fc*(deltaV2*edge1.Y-deltaV1*edge2.Y),
			fc*(deltaV2*edge1.Z-deltaV1*edge2.Z)).Normalize()

		for _, idx := range []uint32{i0, i1, i2} {
			m.Tangents[idx*3+0] = tangent.X
			m.Tangents[idx*3+1] = tangent.Y
			m.Tangents[idx*3+2] = tangent.Z
		}
	}
}

type vertexKey [11]float32

func (m *Mesh) key(i int) vertexKey {
	var k vertexKey
	copy(k[0:3], m.Positions[i*3:i*3+3])
	if m.Normals != nil {
		copy(k[3:6], m.Normals[i*3:i*3+3])
	}
	if m.TexCoords != nil {
		copy(k[6:8], m.TexCoords[i*2:i*2+2])
	}
	if m.Tangents != nil {
		copy(k[8:11], m.Tangents[i*3:i*3+3])
	}
	return k
}

// Deduplicate merges vertices whose attributes are all identical and
// rewrites the indices to match. It returns the number of vertices removed.
func (m *Mesh) Deduplicate() int {
	n := m.VertexCount()
	seen := make(map[vertexKey]uint32, n)
	remap := make([]uint32, n)
	out := &Mesh{}

	for v := 0; v < n; v++ {
		k := m.key(v)
		if u, ok := seen[k]; ok {
			remap[v] = u
			continue
		}
		u := uint32(out.VertexCount())
		seen[k] = u
		remap[v] = u
		out.Positions = append(out.Positions, m.Positions[v*3:v*3+3]...)
		if m.Normals != nil {
			out.Normals = append(out.Normals, m.Normals[v*3:v*3+3]...)
		}
		if m.TexCoords != nil {
			out.TexCoords = append(out.TexCoords, m.TexCoords[v*2:v*2+2]...)
		}
		if m.Tangents != nil {
			out.Tangents = append(out.Tangents, m.Tangents[v*3:v*3+3]...)
		}
	}

	for i, idx := range m.Indices {
		m.Indices[i] = remap[idx]
	}
	m.Positions, m.Normals, m.TexCoords, m.Tangents = out.Positions, out.Normals, out.TexCoords, out.Tangents

	removed := n - m.VertexCount()
	core.LogDebug("Deduplicate: removed %d vertices, orig/now %d/%d.", removed, n, m.VertexCount())
	return removed
}
