package systems

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/gldriver/headless"
	"github.com/spaghettifunk/esutil/engine/math"
	"github.com/spaghettifunk/esutil/engine/resources"
	"github.com/spaghettifunk/esutil/engine/shader"
	"github.com/spaghettifunk/esutil/engine/shapes"
)

const vertexSource = `#version 300 es
uniform mat4 u_mvpMatrix;
layout(location = 0) in vec4 a_position;
void main()
{
   gl_Position = u_mvpMatrix * a_position;
}
`

const fragmentSource = `#version 300 es
precision mediump float;
out vec4 outColor;
void main()
{
   outColor = vec4(1.0, 0.0, 0.0, 1.0);
}
`

func newResourceSystem(t *testing.T, max uint32) *ResourceSystem {
	t.Helper()
	rs, err := NewResourceSystem(&ResourceSystemConfig{MaxResourceCount: max, AssetBasePath: t.TempDir()})
	require.NoError(t, err)
	return rs
}

func TestNewResourceSystemRequiresCapacity(t *testing.T) {
	rs, err := NewResourceSystem(&ResourceSystemConfig{})
	assert.Error(t, err)
	assert.Nil(t, rs)
}

func TestRegisterAndGet(t *testing.T) {
	rs := newResourceSystem(t, 8)

	m := math.NewIdentity()
	name, err := rs.Register("mvp", resources.ResourceTypeMatrix, &m, nil)
	require.NoError(t, err)
	assert.Equal(t, "mvp", name)

	got, err := rs.Matrix("mvp")
	require.NoError(t, err)
	assert.Same(t, &m, got)

	r, err := rs.Get("mvp")
	require.NoError(t, err)
	assert.Equal(t, resources.ResourceTypeMatrix, r.Type)
	assert.Equal(t, 1, rs.Count())
}

func TestRegisterGeneratesName(t *testing.T) {
	rs := newResourceSystem(t, 8)

	name, err := rs.Register("", resources.ResourceTypeCustom, 42, nil)
	require.NoError(t, err)
	_, err = uuid.Parse(name)
	assert.NoError(t, err)

	other, err := rs.Register("", resources.ResourceTypeCustom, 43, nil)
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestRegisterErrors(t *testing.T) {
	rs := newResourceSystem(t, 2)

	_, err := rs.Register("a", resources.ResourceTypeCustom, 1, nil)
	require.NoError(t, err)
	_, err = rs.Register("a", resources.ResourceTypeCustom, 2, nil)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)

	_, err = rs.Register("b", resources.ResourceTypeCustom, 2, nil)
	require.NoError(t, err)
	_, err = rs.Register("c", resources.ResourceTypeCustom, 3, nil)
	assert.Error(t, err)
	assert.Equal(t, 2, rs.Count())
}

func TestTypedAccessors(t *testing.T) {
	rs := newResourceSystem(t, 8)

	_, err := rs.RegisterMesh("cube", shapes.GenCube(1))
	require.NoError(t, err)

	m, err := rs.Mesh("cube")
	require.NoError(t, err)
	assert.Equal(t, 24, m.VertexCount())

	_, err = rs.Program("cube")
	assert.ErrorIs(t, err, ErrWrongType)
	_, err = rs.Text("cube")
	assert.ErrorIs(t, err, ErrWrongType)
	_, err = rs.Mesh("missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegisterMeshValidates(t *testing.T) {
	rs := newResourceSystem(t, 8)
	bad := &shapes.Mesh{Positions: []float32{0, 0, 0}, Indices: []uint32{0, 1, 2}, IndexCount: 3}
	_, err := rs.RegisterMesh("bad", bad)
	assert.Error(t, err)
	assert.Equal(t, 0, rs.Count())
}

func TestLoadText(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "simple.vert"), []byte(vertexSource), 0o644))

	rs, err := NewResourceSystem(&ResourceSystemConfig{MaxResourceCount: 4, AssetBasePath: base})
	require.NoError(t, err)

	name, err := rs.LoadText("vs", "simple.vert")
	require.NoError(t, err)
	src, err := rs.Text(name)
	require.NoError(t, err)
	assert.Equal(t, vertexSource, src)

	r, err := rs.Get(name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "simple.vert"), r.FullPath)
	assert.Equal(t, uint64(len(vertexSource)), r.DataSize)

	_, err = rs.LoadText("missing", "missing.frag")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegisterProgramReleasesThroughDriver(t *testing.T) {
	d := headless.New()
	rs := newResourceSystem(t, 4)

	p, err := shader.LoadProgram(d, vertexSource, fragmentSource)
	require.NoError(t, err)
	_, err = rs.RegisterProgram("simple", d, p)
	require.NoError(t, err)

	got, err := rs.Program("simple")
	require.NoError(t, err)
	assert.Equal(t, p, got)
	// The program keeps its flagged shader stages alive.
	assert.Equal(t, 3, d.Live())

	require.NoError(t, rs.Release("simple"))
	assert.Equal(t, 0, d.Live())
	assert.Equal(t, 0, rs.Count())
	assert.ErrorIs(t, rs.Release("simple"), core.ErrNotFound)
}

func TestShutdownReleasesNewestFirst(t *testing.T) {
	rs := newResourceSystem(t, 8)

	var order []string
	hook := func(data interface{}) error {
		order = append(order, data.(string))
		return nil
	}
	for _, name := range []string{"first", "second", "third"} {
		_, err := rs.Register(name, resources.ResourceTypeCustom, name, hook)
		require.NoError(t, err)
	}
	require.NoError(t, rs.Release("second"))

	require.NoError(t, rs.Shutdown())
	assert.Equal(t, []string{"second", "third", "first"}, order)
	assert.Equal(t, 0, rs.Count())
}

func TestShutdownJoinsErrors(t *testing.T) {
	rs := newResourceSystem(t, 8)

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	_, err := rs.Register("a", resources.ResourceTypeCustom, nil, func(interface{}) error { return errA })
	require.NoError(t, err)
	_, err = rs.Register("ok", resources.ResourceTypeCustom, nil, nil)
	require.NoError(t, err)
	_, err = rs.Register("b", resources.ResourceTypeCustom, nil, func(interface{}) error { return errB })
	require.NoError(t, err)

	err = rs.Shutdown()
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 0, rs.Count())
}

func TestResourceTypeString(t *testing.T) {
	assert.Equal(t, "text", resources.ResourceTypeText.String())
	assert.Equal(t, "program", resources.ResourceTypeProgram.String())
	assert.Equal(t, "mesh", resources.ResourceTypeMesh.String())
	assert.Equal(t, "unknown", resources.ResourceType(99).String())
}
