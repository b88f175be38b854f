// Package transform composes translation, rotation and scale into model matrices.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node's placement. Rotation holds Euler angles in degrees;
// only the X component drives the matrices.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
}

// Identity returns a transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// New returns a transform from its three components.
func New(translation, rotation, scale mgl32.Vec3) Transform {
	return Transform{Translation: translation, Rotation: rotation, Scale: scale}
}

// Compose places local inside parent. Translations add and scales multiply
// component-wise; rotation is not inherited and the local rotation is kept.
func Compose(parent, local Transform) Transform {
	return Transform{
		Translation: parent.Translation.Add(local.Translation),
		Rotation:    local.Rotation,
		Scale:       mulElem(parent.Scale, local.Scale),
	}
}

// Matrix returns T * Rx * S: points are scaled, rotated about X, then translated.
func (t Transform) Matrix() mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation[0]))
	return t.translation().Mul4(rx).Mul4(t.scale())
}

// ModelMatrix returns T * Rx * Ry * Rz * S where all three rotations use the
// X Euler angle. The Y and Z components of Rotation are ignored.
func (t Transform) ModelMatrix() mgl32.Mat4 {
	a := mgl32.DegToRad(t.Rotation[0])
	return t.translation().
		Mul4(mgl32.HomogRotate3DX(a)).
		Mul4(mgl32.HomogRotate3DY(a)).
		Mul4(mgl32.HomogRotate3DZ(a)).
		Mul4(t.scale())
}

// Valid reports whether every scale component is nonzero.
func (t Transform) Valid() bool {
	return t.Scale[0] != 0 && t.Scale[1] != 0 && t.Scale[2] != 0
}

// Scaled returns t with its scale multiplied by f on every axis.
func (t Transform) Scaled(f float32) Transform {
	t.Scale = t.Scale.Mul(f)
	return t
}

func (t Transform) translation() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
}

func (t Transform) scale() mgl32.Mat4 {
	return mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
