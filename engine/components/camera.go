package components

import (
	"github.com/chewxy/math32"

	"github.com/spaghettifunk/esutil/engine/math"
)

type ProjectionKind int

const (
	ProjectionPerspective ProjectionKind = iota
	ProjectionOrtho
)

/** @brief An orthographic view volume. */
type OrthoBox struct {
	Left, Right, Bottom, Top float32
}

/**
 * @brief A camera looking from Position towards Target. View and
 * projection matrices are rebuilt lazily through the math package
 * operations, so they follow the same row-vector convention as the
 * rest of the engine.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief Approximate up direction. */
	Up math.Vec3

	Projection ProjectionKind
	/** @brief Vertical field of view in degrees, for perspective cameras. */
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
	Box    OrthoBox

	/** @brief Internal flag used to determine when the matrices need to be rebuilt. */
	IsDirty bool

	viewMatrix       math.Matrix
	projectionMatrix math.Matrix
	err              error
}

// 89 degrees, keeps Orbit away from the poles where up and forward align.
const pitchLimit float32 = 89.0

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

// Reset puts the camera at (0, 0, 3) looking at the origin with a 60 degree
// perspective over [1, 20].
func (c *Camera) Reset() {
	c.Position = math.NewVec3(0, 0, 3)
	c.Target = math.NewVec3Zero()
	c.Up = math.NewVec3Up()
	c.Projection = ProjectionPerspective
	c.FovY = 60
	c.Aspect = 1
	c.Near = 1
	c.Far = 20
	c.Box = OrthoBox{Left: -1, Right: 1, Bottom: -1, Top: 1}
	c.IsDirty = true
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetTarget(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

func (c *Camera) SetUp(up math.Vec3) {
	c.Up = up
	c.IsDirty = true
}

func (c *Camera) SetPerspective(fovy, aspect, near, far float32) {
	c.Projection = ProjectionPerspective
	c.FovY, c.Aspect, c.Near, c.Far = fovy, aspect, near, far
	c.IsDirty = true
}

func (c *Camera) SetOrtho(box OrthoBox, near, far float32) {
	c.Projection = ProjectionOrtho
	c.Box, c.Near, c.Far = box, near, far
	c.IsDirty = true
}

// SetAspect changes the aspect ratio, for example after a resize.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
	c.IsDirty = true
}

func (c *Camera) rebuild() {
	if !c.IsDirty {
		return
	}
	c.err = math.LookAt(&c.viewMatrix, c.Position, c.Target, c.Up)

	math.LoadIdentity(&c.projectionMatrix)
	var err error
	switch c.Projection {
	case ProjectionOrtho:
		err = math.Ortho(&c.projectionMatrix, c.Box.Left, c.Box.Right, c.Box.Bottom, c.Box.Top, c.Near, c.Far)
	default:
		err = math.Perspective(&c.projectionMatrix, c.FovY, c.Aspect, c.Near, c.Far)
	}
	if c.err == nil {
		c.err = err
	}
	c.IsDirty = false
}

// GetView returns the view matrix. The error matches math.ErrDegenerate
// when the camera basis could not be built.
func (c *Camera) GetView() (math.Matrix, error) {
	c.rebuild()
	return c.viewMatrix, c.err
}

func (c *Camera) GetProjection() (math.Matrix, error) {
	c.rebuild()
	return c.projectionMatrix, c.err
}

// ViewProjection returns view * projection, ready to be pre-multiplied by
// a model matrix.
func (c *Camera) ViewProjection() (math.Matrix, error) {
	c.rebuild()
	var vp math.Matrix
	math.Multiply(&vp, &c.viewMatrix, &c.projectionMatrix)
	return vp, c.err
}

func (c *Camera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c *Camera) Backward() math.Vec3 {
	return c.Forward().MulScalar(-1)
}

func (c *Camera) Right() math.Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}

func (c *Camera) Left() math.Vec3 {
	return c.Right().MulScalar(-1)
}

func (c *Camera) move(direction math.Vec3, amount float32) {
	offset := direction.MulScalar(amount)
	c.Position = c.Position.Add(offset)
	c.Target = c.Target.Add(offset)
	c.IsDirty = true
}

func (c *Camera) MoveForward(amount float32) {
	c.move(c.Forward(), amount)
}

func (c *Camera) MoveBackward(amount float32) {
	c.move(c.Backward(), amount)
}

func (c *Camera) MoveLeft(amount float32) {
	c.move(c.Left(), amount)
}

func (c *Camera) MoveRight(amount float32) {
	c.move(c.Right(), amount)
}

func (c *Camera) MoveUp(amount float32) {
	c.move(math.NewVec3Up(), amount)
}

func (c *Camera) MoveDown(amount float32) {
	c.move(math.NewVec3Up(), -amount)
}

/**
 * @brief Swings the camera around its target, keeping the distance.
 *
 * @param yaw Degrees around the world y axis.
 * @param pitch Degrees up or down. The result is clamped to +-89 degrees.
 */
func (c *Camera) Orbit(yaw, pitch float32) {
	offset := c.Position.Sub(c.Target)
	radius := offset.Length()
	if radius == 0 {
		return
	}

	currentYaw := math.RadToDeg(math32.Atan2(offset.X, offset.Z))
	currentPitch := math.RadToDeg(math32.Asin(math.Clamp(offset.Y/radius, -1, 1)))

	newYaw := math.DegToRad(currentYaw + yaw)
	newPitch := math.DegToRad(math.Clamp(currentPitch+pitch, -pitchLimit, pitchLimit))

	sinYaw, cosYaw := math32.Sincos(newYaw)
	sinPitch, cosPitch := math32.Sincos(newPitch)
	c.Position = c.Target.Add(math.NewVec3(
		radius*cosPitch*sinYaw,
		radius*sinPitch,
		radius*cosPitch*cosYaw,
	))
	c.IsDirty = true
}
