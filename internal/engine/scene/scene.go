// Package scene provides the scene graph: grouped and mesh nodes with
// inherited transforms, the active camera and the light lists, plus the
// per-frame update, render and picking passes over them.
package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/gfx"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/engine/picking"
	"github.com/Faultbox/sceneview/internal/logger"
)

// UnpickableMarker excludes a node and its subtree from picking when it
// appears anywhere in the node's name.
const UnpickableMarker = "plane"

// Unpickable reports whether a node with this name is skipped by raycasts.
func Unpickable(name string) bool {
	return strings.Contains(name, UnpickableMarker)
}

// RenderContext carries per-frame state through the render pass.
// Matrices are computed once per frame by Scene.Render.
type RenderContext struct {
	Backend gfx.Backend
	Mode    gfx.ShadingMode
	Camera  camera.Camera
	Lights  *lighting.List

	View       mgl32.Mat4
	Projection mgl32.Mat4
	VP         mgl32.Mat4
}

// Scene owns the node tree, the active camera and the light lists.
type Scene struct {
	Root   Node
	Camera camera.Camera
	Lights *lighting.List
}

// New creates a scene. A nil light list is replaced by one full of dummies.
func New(root Node, cam camera.Camera, lights *lighting.List) *Scene {
	if lights == nil {
		lights = lighting.NewList(nil)
	}
	return &Scene{Root: root, Camera: cam, Lights: lights}
}

// Update recomputes derived matrices for every node, parents before children.
func (s *Scene) Update() {
	Walk(s.Root, func(n Node) bool {
		n.Update()
		return true
	})
}

// Render draws the whole tree with the given shading mode.
func (s *Scene) Render(backend gfx.Backend, mode gfx.ShadingMode) error {
	view := s.Camera.ViewMatrix()
	proj := s.Camera.ProjectionMatrix()
	rc := &RenderContext{
		Backend:    backend,
		Mode:       mode,
		Camera:     s.Camera,
		Lights:     s.Lights,
		View:       view,
		Projection: proj,
		VP:         proj.Mul4(view),
	}
	return s.Root.Render(rc)
}

// Raycast returns the first node hit by r in depth-first insertion order.
func (s *Scene) Raycast(r picking.Ray) (Node, picking.Outcome) {
	return s.Root.Raycast(r)
}

// Ray returns the world-space ray through pixel (x, y) of a w*h viewport.
func (s *Scene) Ray(x, y, w, h float32) picking.Ray {
	inv := s.Camera.VPMatrix().Inv()
	return picking.ScreenToRay(x, y, w, h, s.Camera.Base().Position, inv)
}

// Pick returns the node under pixel (x, y) of a w*h viewport, or nil.
// Pointer positions that are not finite never hit.
func (s *Scene) Pick(x, y, w, h float32) Node {
	if !picking.ValidScreenPoint(x, y) || w <= 0 || h <= 0 {
		return nil
	}

	node, outcome := s.Raycast(s.Ray(x, y, w, h))
	logger.Debug("pick",
		zap.Float32("x", x), zap.Float32("y", y),
		zap.Stringer("outcome", outcome))
	if outcome != picking.Hit {
		return nil
	}
	return node
}

// SetCamera replaces the active camera.
func (s *Scene) SetCamera(c camera.Camera) {
	s.Camera = c
}

// SwitchProjection replaces the camera with one of the given kind, keeping
// the pose.
func (s *Scene) SwitchProjection(kind camera.Kind) {
	s.Camera = camera.Switch(s.Camera, kind)
	logger.Debug("projection switched", zap.Stringer("kind", kind))
}

// Find returns the first node with the given name in depth-first order.
func (s *Scene) Find(name string) Node {
	var found Node
	s.Walk(func(n Node) bool {
		if found != nil {
			return false
		}
		if n.Name() == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Meshes returns every mesh in the tree in depth-first order.
func (s *Scene) Meshes() []*Mesh {
	var meshes []*Mesh
	s.Walk(func(n Node) bool {
		if m, ok := n.(*Mesh); ok {
			meshes = append(meshes, m)
		}
		return true
	})
	return meshes
}

// InvalidateBuffers makes every mesh upload its data again on the next render.
func (s *Scene) InvalidateBuffers() {
	for _, m := range s.Meshes() {
		m.InvalidateBuffer()
	}
}

// Walk visits every node depth-first in insertion order.
func (s *Scene) Walk(fn func(Node) bool) {
	Walk(s.Root, fn)
}
