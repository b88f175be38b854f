// Package picking provides ray casting and object picking utilities.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon rejects near-parallel rays and hits at or behind the ray origin.
const Epsilon = 1e-7

// Outcome is the result of testing a node against a ray.
type Outcome int

const (
	// NotApplicable means the node has nothing to test (no geometry, no children).
	NotApplicable Outcome = iota
	// Miss means geometry was tested and nothing was hit.
	Miss
	// Hit means a triangle was hit.
	Hit
)

func (o Outcome) String() string {
	switch o {
	case Miss:
		return "miss"
	case Hit:
		return "hit"
	default:
		return "n/a"
	}
}

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// NDC converts pixel coordinates to normalized device coordinates in [-1, 1]
// with Y pointing up.
func NDC(screenX, screenY, viewportW, viewportH float32) (x, y float32) {
	return screenX/viewportW*2 - 1, 1 - screenY/viewportH*2
}

// ScreenToRay converts screen coordinates to a world-space ray starting at eye.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix; the pointer is
// unprojected at NDC depth 1 and the ray points from eye toward that point.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, eye mgl32.Vec3, invViewProj mgl32.Mat4) Ray {
	ndcX, ndcY := NDC(screenX, screenY, viewportW, viewportH)
	target := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, invViewProj)
	return Ray{Origin: eye, Direction: target.Sub(eye).Normalize()}
}

// ValidScreenPoint reports whether both coordinates are finite numbers.
// Pointer positions outside the canvas are reported as infinities.
func ValidScreenPoint(x, y float32) bool {
	return !math32.IsNaN(x) && !math32.IsNaN(y) && !math32.IsInf(x, 0) && !math32.IsInf(y, 0)
}

// IntersectTriangle runs the Möller–Trumbore test against triangle (a, b, c).
// It returns the distance along the ray and whether the triangle was hit.
// Both faces count; hits at t <= Epsilon are rejected.
func IntersectTriangle(r Ray, a, b, c mgl32.Vec3) (t float32, hit bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if math32.Abs(det) < Epsilon {
		return 0, false // Ray parallel to triangle plane
	}

	inv := 1 / det
	s := r.Origin.Sub(a)
	u := inv * s.Dot(pvec)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := inv * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = inv * edge2.Dot(q)
	if t <= Epsilon {
		return 0, false // Intersection behind or at the origin
	}
	return t, true
}
