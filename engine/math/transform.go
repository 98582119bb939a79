package math

func TransformCreate() *Transform {
	return TransformFromPositionRotationScale(NewVec3Zero(), NewVec3Up(), 0, NewVec3One())
}

func TransformFromPosition(position Vec3) *Transform {
	return TransformFromPositionRotationScale(position, NewVec3Up(), 0, NewVec3One())
}

func TransformFromPositionRotationScale(position, axis Vec3, angle float32, scale Vec3) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, axis, angle, scale)
	t.Local = NewIdentity()
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
	t.IsDirty = true
}

// SetRotation replaces the rotation with angle degrees around axis.
func (t *Transform) SetRotation(axis Vec3, angle float32) {
	t.Axis = axis
	t.Angle = angle
	t.IsDirty = true
}

// Rotate adds angle degrees around the current axis, wrapping at 360.
func (t *Transform) Rotate(angle float32) {
	t.Angle += angle
	for t.Angle >= 360 {
		t.Angle -= 360
	}
	for t.Angle < 0 {
		t.Angle += 360
	}
	t.IsDirty = true
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position, axis Vec3, angle float32, scale Vec3) {
	t.Position = position
	t.Axis = axis
	t.Angle = angle
	t.Scale = scale
	t.IsDirty = true
}

// GetLocal rebuilds the local matrix when dirty. Points are scaled first,
// then rotated, then translated.
func (t *Transform) GetLocal() Matrix {
	if t != nil {
		if t.IsDirty {
			m := NewIdentity()
			Translate(&m, t.Position.X, t.Position.Y, t.Position.Z)
			Rotate(&m, t.Angle, t.Axis.X, t.Axis.Y, t.Axis.Z)
			Scale(&m, t.Scale.X, t.Scale.Y, t.Scale.Z)
			t.Local = m
			t.IsDirty = false
		}
		return t.Local
	}
	return NewIdentity()
}

// GetWorld applies the local matrix and then every parent's, innermost first.
func (t *Transform) GetWorld() Matrix {
	if t != nil {
		l := t.GetLocal()
		if t.Parent != nil {
			p := t.Parent.GetWorld()
			Multiply(&l, &l, &p)
		}
		return l
	}
	return NewIdentity()
}
