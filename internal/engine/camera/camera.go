// Package camera provides the perspective and orthographic viewer cameras.
//
// Both variants share a Pose (eye position, look-at target, up hint, zoom) and
// differ only in how they build the projection matrix.
package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Clip planes shared by both projections.
const (
	Near float32 = 0.001
	Far  float32 = 1000.0
)

// Defaults used when the projection is switched at runtime.
const (
	DefaultFOV      float32 = 60
	DefaultOrthoBox float32 = 4
)

// Kind selects a projection variant.
type Kind int

const (
	Perspective Kind = iota
	Orthographic
)

func (k Kind) String() string {
	switch k {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a scene-file camera type to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "perspective":
		return Perspective, nil
	case "orthographic":
		return Orthographic, nil
	}
	return Perspective, fmt.Errorf("unknown camera type %q", name)
}

// Camera is the capability shared by both projection variants.
type Camera interface {
	Kind() Kind
	Base() *Pose
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	VPMatrix() mgl32.Mat4
}

// Pose is the projection-independent part of a camera.
type Pose struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3

	// Zoom scales the field of view or the orthographic extents. 1 is neutral.
	Zoom float32

	// Aspect is viewport width / height. 1 keeps the projection square.
	Aspect float32
}

// NewPose returns a pose with neutral zoom and a square aspect.
func NewPose(position, lookAt, up mgl32.Vec3) Pose {
	return Pose{Position: position, LookAt: lookAt, Up: up, Zoom: 1, Aspect: 1}
}

// Base returns the pose itself so embedding types satisfy Camera.
func (p *Pose) Base() *Pose {
	return p
}

// CameraMatrix returns the camera-to-world transform: translation to Position
// times the right-handed look-at basis (right, up, forward) as columns.
// Position == LookAt or Up parallel to the view direction yields NaNs.
func (p *Pose) CameraMatrix() mgl32.Mat4 {
	z := p.Position.Sub(p.LookAt).Normalize()
	x := p.Up.Cross(z).Normalize()
	y := z.Cross(x)

	rotation := mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
	return mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2]).Mul4(rotation)
}

// ViewMatrix returns the world-to-camera transform.
func (p *Pose) ViewMatrix() mgl32.Mat4 {
	return p.CameraMatrix().Inv()
}

// Rotate orbits Position around LookAt by angle degrees about axis.
// LookAt and Up are unchanged.
func (p *Pose) Rotate(angle float32, axis mgl32.Vec3) {
	rotation := mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize())
	offset := rotation.Mul4x1(p.Position.Sub(p.LookAt).Vec4(0)).Vec3()
	p.Position = p.LookAt.Add(offset)
}

// Pan moves Position and LookAt together by (dx, dy) in world X/Y.
func (p *Pose) Pan(dx, dy float32) {
	d := mgl32.Vec3{dx, dy, 0}
	p.Position = p.Position.Add(d)
	p.LookAt = p.LookAt.Add(d)
}

// Distance returns |Position - LookAt|.
func (p *Pose) Distance() float32 {
	return p.Position.Sub(p.LookAt).Len()
}

func (p *Pose) aspect() float32 {
	if p.Aspect <= 0 {
		return 1
	}
	return p.Aspect
}

// PerspectiveCamera projects through a symmetric frustum.
type PerspectiveCamera struct {
	Pose

	// FOV is the vertical field of view in degrees.
	FOV float32
}

// NewPerspective returns a perspective camera with neutral zoom.
func NewPerspective(position, lookAt, up mgl32.Vec3, fov float32) *PerspectiveCamera {
	return &PerspectiveCamera{Pose: NewPose(position, lookAt, up), FOV: fov}
}

// Kind implements Camera.
func (c *PerspectiveCamera) Kind() Kind { return Perspective }

// ProjectionMatrix returns the frustum for FOV * Zoom.
func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	fov := mgl32.DegToRad(c.FOV * c.Zoom)
	return mgl32.Perspective(fov, c.aspect(), Near, Far)
}

// VPMatrix returns projection * view.
func (c *PerspectiveCamera) VPMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// OrthographicCamera projects through an axis-aligned box.
type OrthographicCamera struct {
	Pose

	Left, Right, Bottom, Top float32
}

// NewOrthographic returns an orthographic camera with neutral zoom.
func NewOrthographic(position, lookAt, up mgl32.Vec3, left, right, bottom, top float32) *OrthographicCamera {
	return &OrthographicCamera{
		Pose:   NewPose(position, lookAt, up),
		Left:   left,
		Right:  right,
		Bottom: bottom,
		Top:    top,
	}
}

// Kind implements Camera.
func (c *OrthographicCamera) Kind() Kind { return Orthographic }

// ProjectionMatrix returns the box with every extent multiplied by Zoom.
// The horizontal extents are also stretched by Aspect.
func (c *OrthographicCamera) ProjectionMatrix() mgl32.Mat4 {
	z := c.Zoom
	a := c.aspect()
	return mgl32.Ortho(c.Left*z*a, c.Right*z*a, c.Bottom*z, c.Top*z, Near, Far)
}

// VPMatrix returns projection * view.
func (c *OrthographicCamera) VPMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Switch returns a camera of the requested kind sharing c's pose.
// The projection-specific fields take the runtime defaults (60° field of view
// or a [-4,4] box), even when c already has the requested kind.
func Switch(c Camera, kind Kind) Camera {
	pose := *c.Base()
	switch kind {
	case Orthographic:
		return &OrthographicCamera{
			Pose:   pose,
			Left:   -DefaultOrthoBox,
			Right:  DefaultOrthoBox,
			Bottom: -DefaultOrthoBox,
			Top:    DefaultOrthoBox,
		}
	default:
		return &PerspectiveCamera{Pose: pose, FOV: DefaultFOV}
	}
}
