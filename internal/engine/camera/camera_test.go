package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func poses() []Pose {
	return []Pose{
		NewPose(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}),
		NewPose(mgl32.Vec3{3, 4, -2}, mgl32.Vec3{1, 0, 1}, mgl32.Vec3{0, 1, 0}),
		NewPose(mgl32.Vec3{-6, 2, 8}, mgl32.Vec3{0.5, -1, 0}, mgl32.Vec3{0, 0, 1}),
		NewPose(mgl32.Vec3{10, 10, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 0}),
	}
}

func TestViewMatrixInvertsCameraMatrix(t *testing.T) {
	for _, p := range poses() {
		got := p.ViewMatrix().Mul4(p.CameraMatrix())
		ident := mgl32.Ident4()
		assert.InDeltaSlice(t, ident[:], got[:], eps, "pose %+v", p)
	}
}

func TestViewMatrixMapsEyeToOriginLookingDownNegativeZ(t *testing.T) {
	p := NewPose(mgl32.Vec3{3, 4, -2}, mgl32.Vec3{1, 0, 1}, mgl32.Vec3{0, 1, 0})
	view := p.ViewMatrix()

	assertVec(t, mgl32.Vec3{}, mgl32.TransformCoordinate(p.Position, view))

	target := mgl32.TransformCoordinate(p.LookAt, view)
	assert.InDelta(t, 0, target.X(), eps)
	assert.InDelta(t, 0, target.Y(), eps)
	assert.InDelta(t, -p.Distance(), target.Z(), eps)
}

func TestViewMatrixMatchesLookAt(t *testing.T) {
	for _, p := range poses() {
		want := mgl32.LookAtV(p.Position, p.LookAt, p.Up)
		got := p.ViewMatrix()
		assert.InDeltaSlice(t, want[:], got[:], eps, "pose %+v", p)
	}
}

func TestDegenerateLookAtProducesNaN(t *testing.T) {
	p := NewPose(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 0})
	m := p.CameraMatrix()
	assert.True(t, math.IsNaN(float64(m[8])) || math.IsInf(float64(m[8]), 0))
}

func TestRotatePreservesDistance(t *testing.T) {
	axes := []mgl32.Vec3{{0, 1, 0}, {1, 0, 0}, {1, 1, 1}, {0, 0, 3}}
	for _, p := range poses() {
		d := p.Distance()
		lookAt := p.LookAt
		for _, axis := range axes {
			for _, angle := range []float32{-170, -12.5, 1, 45, 90, 359} {
				p.Rotate(angle, axis)
				assert.InDelta(t, d, p.Distance(), eps)
				assertVec(t, lookAt, p.LookAt)
			}
		}
	}
}

func TestRotateAboutY(t *testing.T) {
	p := NewPose(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	p.Rotate(90, mgl32.Vec3{0, 1, 0})
	assertVec(t, mgl32.Vec3{5, 0, 0}, p.Position)
	assertVec(t, mgl32.Vec3{0, 1, 0}, p.Up)
}

func TestPan(t *testing.T) {
	p := NewPose(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	p.Pan(0.5, -0.25)
	assertVec(t, mgl32.Vec3{0.5, -0.25, 5}, p.Position)
	assertVec(t, mgl32.Vec3{0.5, -0.25, 0}, p.LookAt)
}

func TestPerspectiveProjection(t *testing.T) {
	c := NewPerspective(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 90)
	m := c.ProjectionMatrix()

	// 1/tan(45°) = 1
	assert.InDelta(t, 1, m[0], eps)
	assert.InDelta(t, 1, m[5], eps)
	assert.InDelta(t, -(Far+Near)/(Far-Near), m[10], eps)
	assert.Equal(t, float32(-1), m[11])
	assert.InDelta(t, -2*Far*Near/(Far-Near), m[14], eps)
	assert.Equal(t, float32(0), m[15])
}

func TestPerspectiveZoomScalesFOV(t *testing.T) {
	c := NewPerspective(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 60)
	c.Zoom = 0.5

	want := mgl32.Perspective(mgl32.DegToRad(30), 1, Near, Far)
	assert.True(t, c.ProjectionMatrix().ApproxEqualThreshold(want, eps))
	assert.Equal(t, float32(60), c.FOV, "zoom must not be folded into the stored fov")
}

func TestOrthographicProjection(t *testing.T) {
	c := NewOrthographic(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, -4, 4, -2, 2)
	c.Zoom = 2
	m := c.ProjectionMatrix()

	assert.InDelta(t, 2.0/16, m[0], eps)
	assert.InDelta(t, 2.0/8, m[5], eps)
	assert.InDelta(t, -2/(Far-Near), m[10], eps)
	assert.InDelta(t, 0, m[12], eps)
	assert.InDelta(t, 0, m[13], eps)
	assert.Equal(t, float32(1), m[15])
	assert.Equal(t, float32(-4), c.Left, "zoom must not be folded into the stored extents")
}

func TestAspectStretchesHorizontally(t *testing.T) {
	p := NewPerspective(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 90)
	p.Aspect = 2
	assert.InDelta(t, 0.5, p.ProjectionMatrix()[0], eps)
	assert.InDelta(t, 1, p.ProjectionMatrix()[5], eps)

	o := NewOrthographic(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, -1, 1, -1, 1)
	o.Aspect = 2
	assert.InDelta(t, 0.5, o.ProjectionMatrix()[0], eps)
	assert.InDelta(t, 1, o.ProjectionMatrix()[5], eps)
}

func TestVPMatrixIsProjectionTimesView(t *testing.T) {
	cams := []Camera{
		NewPerspective(mgl32.Vec3{1, 2, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 45),
		NewOrthographic(mgl32.Vec3{1, 2, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, -3, 3, -3, 3),
	}
	for _, c := range cams {
		want := c.ProjectionMatrix().Mul4(c.ViewMatrix())
		assert.True(t, c.VPMatrix().ApproxEqualThreshold(want, eps), c.Kind().String())

		// Moving the camera must be reflected immediately.
		before := c.VPMatrix()
		c.Base().Position = mgl32.Vec3{4, 2, 5}
		assert.False(t, c.VPMatrix().ApproxEqualThreshold(before, eps))
	}
}

func TestSwitchRoundTripPreservesPose(t *testing.T) {
	start := NewPerspective(mgl32.Vec3{3, 4, -2}, mgl32.Vec3{1, 0, 1}, mgl32.Vec3{0, 1, 0}, 35)
	start.Zoom = 0.81
	start.Aspect = 1.5
	want := start.Pose

	ortho := Switch(start, Orthographic)
	require.Equal(t, Orthographic, ortho.Kind())
	assert.Equal(t, want, *ortho.Base())
	oc := ortho.(*OrthographicCamera)
	assert.Equal(t, []float32{-4, 4, -4, 4}, []float32{oc.Left, oc.Right, oc.Bottom, oc.Top})

	back := Switch(ortho, Perspective)
	require.Equal(t, Perspective, back.Kind())
	assert.Equal(t, want, *back.Base())
	assert.Equal(t, DefaultFOV, back.(*PerspectiveCamera).FOV, "runtime switch resets the file fov")
}

func TestSwitchCopiesPose(t *testing.T) {
	start := NewPerspective(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 60)
	other := Switch(start, Orthographic)
	other.Base().Rotate(90, mgl32.Vec3{0, 1, 0})

	assertVec(t, mgl32.Vec3{0, 0, 5}, start.Position)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("orthographic")
	require.NoError(t, err)
	assert.Equal(t, Orthographic, k)

	k, err = ParseKind("perspective")
	require.NoError(t, err)
	assert.Equal(t, Perspective, k)

	_, err = ParseKind("fisheye")
	assert.Error(t, err)
}
