package shapes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/esutil/engine/math"
)

func assertIndicesInRange(t *testing.T, m *Mesh) {
	t.Helper()
	require.Len(t, m.Indices, m.IndexCount)
	for i, idx := range m.Indices {
		require.Less(t, int(idx), m.VertexCount(), "index %d", i)
	}
}

func TestGenCube(t *testing.T) {
	for _, scale := range []float32{0.25, 1, 2.5, 10} {
		m := GenCube(scale)
		require.NoError(t, m.Validate())
		assert.Equal(t, 24, m.VertexCount())
		assert.Equal(t, 36, m.IndexCount)
		assert.Len(t, m.Normals, 24*3)
		assert.Len(t, m.TexCoords, 24*2)
		assertIndicesInRange(t, m)

		for _, c := range m.Positions {
			assert.True(t, c == 0.5*scale || c == -0.5*scale, "component %v for scale %v", c, scale)
		}
	}
}

func TestGenCubeWindingMatchesNormals(t *testing.T) {
	m := GenCube(1)
	for i := 0; i < m.IndexCount; i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		face := m.Position(i1).Sub(m.Position(i0)).Cross(m.Position(i2).Sub(m.Position(i0))).Normalize()
		assert.True(t, face.Compare(m.Normal(i0), 1e-6), "triangle %d: face %v, stored %v", i/3, face, m.Normal(i0))
	}
}

func TestGenCubeBuffersAreFresh(t *testing.T) {
	a := GenCube(1)
	a.Positions[0] = 42
	a.Indices[0] = 7
	b := GenCube(1)
	assert.Equal(t, float32(-0.5), b.Positions[0])
	assert.Equal(t, uint32(0), b.Indices[0])
}

func TestGenSphere(t *testing.T) {
	m, err := GenSphere(20, 1.0)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, 1200, m.IndexCount)
	assert.Equal(t, (10+1)*(20+1), m.VertexCount())
	assertIndicesInRange(t, m)

	for i := 0; i < m.VertexCount(); i++ {
		assert.InDelta(t, 1.0, m.Normal(uint32(i)).Length(), 1e-5, "normal %d", i)
	}
}

func TestGenSphereRadius(t *testing.T) {
	m, err := GenSphere(16, 3.0)
	require.NoError(t, err)
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(uint32(i))
		assert.InDelta(t, 3.0, p.Length(), 1e-4)
		assert.True(t, p.MulScalar(1.0/3.0).Compare(m.Normal(uint32(i)), 1e-5))
	}

	b := m.Bounds()
	assert.InDelta(t, 3.0, b.Max.Y, 1e-5)
	assert.InDelta(t, -3.0, b.Min.Y, 1e-5)
}

func TestGenSphereCounts(t *testing.T) {
	for _, slices := range []int{4, 6, 8, 32, 64} {
		m, err := GenSphere(slices, 1)
		require.NoError(t, err)
		assert.Equal(t, (slices/2)*slices*6, m.IndexCount)
		assert.Equal(t, (slices/2+1)*(slices+1), m.VertexCount())
		assertIndicesInRange(t, m)
	}
}

func TestGenSphereTexCoordsFinite(t *testing.T) {
	m, err := GenSphere(4, 1)
	require.NoError(t, err)
	for _, c := range m.TexCoords {
		assert.False(t, c != c, "NaN texture coordinate")
	}
	// u runs from 0 to 1 across each ring.
	assert.Equal(t, float32(0), m.TexCoord(0).X)
	assert.Equal(t, float32(1), m.TexCoord(4).X)
}

func TestGenSphereInvalid(t *testing.T) {
	for _, slices := range []int{-2, 0, 1, 2, 3, 5, 21} {
		_, err := GenSphere(slices, 1)
		assert.True(t, errors.Is(err, ErrInvalidSlices), "slices %d: %v", slices, err)
	}
	_, err := GenSphere(8, 0)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestGenSquareGrid(t *testing.T) {
	m, err := GenSquareGrid(4)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, 54, m.IndexCount)
	assert.Equal(t, 16, m.VertexCount())
	for _, idx := range m.Indices {
		assert.Less(t, idx, uint32(16))
	}
	assert.Nil(t, m.Normals)
	assert.Nil(t, m.TexCoords)

	b := m.Bounds()
	assert.Equal(t, math.NewVec3(0, 0, 0), b.Min)
	assert.Equal(t, math.NewVec3(1, 1, 0), b.Max)
}

func TestGenSquareGridRowMajor(t *testing.T) {
	m, err := GenSquareGrid(3)
	require.NoError(t, err)
	// Vertex j+i*size sits at (i, j)/(size-1).
	assert.Equal(t, math.NewVec3(0, 0.5, 0), m.Position(1))
	assert.Equal(t, math.NewVec3(0.5, 0, 0), m.Position(3))
	assert.Equal(t, []uint32{0, 1, 4, 0, 4, 3}, m.Indices[:6])
}

func TestGenSquareGridInvalid(t *testing.T) {
	for _, size := range []int{-1, 0, 1} {
		_, err := GenSquareGrid(size)
		assert.ErrorIs(t, err, ErrInvalidGridSize)
	}
}

func TestGenPlane(t *testing.T) {
	m := GenPlane(4, 2, 2, 3, 2, 1)
	require.NoError(t, m.Validate())
	assert.Equal(t, 2*3*4, m.VertexCount())
	assert.Equal(t, 2*3*6, m.IndexCount)

	b := m.Bounds()
	assert.True(t, b.Min.Compare(math.NewVec3(-2, -1, 0), 1e-6), "min %v", b.Min)
	assert.True(t, b.Max.Compare(math.NewVec3(2, 1, 0), 1e-6), "max %v", b.Max)

	for i := 0; i < m.IndexCount; i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		face := m.Position(i1).Sub(m.Position(i0)).Cross(m.Position(i2).Sub(m.Position(i0)))
		assert.Greater(t, face.Z, float32(0))
	}
}

func TestGenPlaneDefaultsZeroArguments(t *testing.T) {
	m := GenPlane(0, 0, 0, 0, 0, 0)
	require.NoError(t, m.Validate())
	assert.Equal(t, 4, m.VertexCount())
	b := m.Bounds()
	assert.True(t, b.Max.Compare(math.NewVec3(0.5, 0.5, 0), 1e-6))
}

func TestGenerate(t *testing.T) {
	m, err := Generate(KindSphere, Params{Slices: 8, Radius: 2})
	require.NoError(t, err)
	assert.Equal(t, 4*8*6, m.IndexCount)

	m, err = Generate(KindCube, Params{Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, float32(-1), m.Positions[0])

	_, err = Generate(KindGrid, Params{Size: 1})
	assert.ErrorIs(t, err, ErrInvalidGridSize)

	_, err = Generate("torus", Params{})
	assert.Error(t, err)
}

func TestValidateCatchesBadIndices(t *testing.T) {
	m := GenCube(1)
	m.Indices[5] = 24
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m = GenCube(1)
	m.IndexCount = 35
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m = GenCube(1)
	m.Normals = m.Normals[:9]
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
}

func TestTransformed(t *testing.T) {
	m := GenCube(1)
	mat := math.NewIdentity()
	math.Translate(&mat, 1, 2, 3)
	math.Rotate(&mat, 90, 0, 1, 0)

	out := m.Transformed(&mat)
	require.NoError(t, out.Validate())
	assert.Equal(t, m.Indices, out.Indices)

	b := out.Bounds()
	assert.True(t, b.Min.Compare(math.NewVec3(0.5, 1.5, 2.5), 1e-5), "min %v", b.Min)
	assert.True(t, b.Max.Compare(math.NewVec3(1.5, 2.5, 3.5), 1e-5), "max %v", b.Max)
	for i := 0; i < out.VertexCount(); i++ {
		assert.InDelta(t, 1.0, out.Normal(uint32(i)).Length(), 1e-5)
	}
	// The source mesh is untouched.
	assert.Equal(t, float32(-0.5), m.Positions[0])
}

func TestGenerateNormalsMatchCube(t *testing.T) {
	m := GenCube(2)
	want := append([]float32(nil), m.Normals...)
	m.GenerateNormals()
	assert.InDeltaSlice(t, want, m.Normals, 1e-6)
}

func TestGenerateTangents(t *testing.T) {
	m := GenPlane(2, 2, 1, 1, 1, 1)
	m.GenerateTangents()
	require.Len(t, m.Tangents, len(m.Positions))
	for i := 0; i < m.VertexCount(); i++ {
		tan := math.NewVec3(m.Tangents[i*3], m.Tangents[i*3+1], m.Tangents[i*3+2])
		// u grows along +X on the plane.
		assert.True(t, tan.Compare(math.NewVec3(1, 0, 0), 1e-5), "tangent %v", tan)
	}

	g, err := GenSquareGrid(3)
	require.NoError(t, err)
	g.GenerateTangents()
	assert.Nil(t, g.Tangents)
}

func TestDeduplicate(t *testing.T) {
	m := GenPlane(2, 2, 2, 2, 1, 1)
	require.Equal(t, 16, m.VertexCount())

	removed := m.Deduplicate()
	assert.Equal(t, 7, removed)
	assert.Equal(t, 9, m.VertexCount())
	require.NoError(t, m.Validate())
	assertIndicesInRange(t, m)
}
