package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/esutil/engine/math"
)

func TestCameraMatchesMgl32(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(1, 2, 5))
	c.SetTarget(math.NewVec3(0, 0.5, 0))
	c.SetPerspective(45, 1.5, 0.5, 50)

	view, err := c.GetView()
	require.NoError(t, err)
	wantView := mgl32.LookAtV(mgl32.Vec3{1, 2, 5}, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0})
	assert.True(t, view.Mgl32().ApproxEqualThreshold(wantView, 1e-5), "view %v", view)

	proj, err := c.GetProjection()
	require.NoError(t, err)
	wantProj := mgl32.Perspective(mgl32.DegToRad(45), 1.5, 0.5, 50)
	assert.True(t, proj.Mgl32().ApproxEqualThreshold(wantProj, 1e-5), "projection %v", proj)

	vp, err := c.ViewProjection()
	require.NoError(t, err)
	assert.True(t, vp.Mgl32().ApproxEqualThreshold(wantProj.Mul4(wantView), 1e-4))
}

func TestCameraOrtho(t *testing.T) {
	c := NewCamera()
	c.SetOrtho(OrthoBox{Left: -2, Right: 2, Bottom: -1, Top: 1}, 0.1, 10)

	proj, err := c.GetProjection()
	require.NoError(t, err)
	want := mgl32.Ortho(-2, 2, -1, 1, 0.1, 10)
	assert.True(t, proj.Mgl32().ApproxEqualThreshold(want, 1e-5))
}

func TestCameraDegenerate(t *testing.T) {
	c := NewCamera()
	c.SetTarget(c.Position)
	_, err := c.GetView()
	assert.ErrorIs(t, err, math.ErrDegenerate)

	c.Reset()
	c.SetPerspective(60, 1, 5, 5)
	_, err = c.GetProjection()
	assert.ErrorIs(t, err, math.ErrDegenerate)
}

func TestCameraMovesWithTarget(t *testing.T) {
	c := NewCamera()
	c.MoveForward(1)
	assert.True(t, c.Position.Compare(math.NewVec3(0, 0, 2), 1e-6))
	assert.True(t, c.Target.Compare(math.NewVec3(0, 0, -1), 1e-6))

	c.MoveRight(2)
	assert.True(t, c.Position.Compare(math.NewVec3(2, 0, 2), 1e-6))
	c.MoveLeft(2)
	c.MoveUp(1)
	c.MoveDown(0.5)
	c.MoveBackward(1)
	assert.True(t, c.Position.Compare(math.NewVec3(0, 0.5, 3), 1e-6))
	assert.True(t, c.IsDirty)
}

func TestCameraOrbit(t *testing.T) {
	c := NewCamera()
	c.Orbit(90, 0)
	assert.True(t, c.Position.Compare(math.NewVec3(3, 0, 0), 1e-5), "got %v", c.Position)

	c.Orbit(0, 120)
	offset := c.Position.Sub(c.Target)
	assert.InDelta(t, 3, offset.Length(), 1e-4)
	assert.Less(t, offset.Y, float32(3), "pitch is clamped below the pole")
	assert.Greater(t, offset.Y, float32(2.99))
}
