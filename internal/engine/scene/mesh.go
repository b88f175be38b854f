package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/gfx"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/engine/picking"
	"github.com/Faultbox/sceneview/internal/engine/transform"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/formats"
)

// Material constants for the lit shading modes.
const (
	Ka        float32 = 1.0
	Kd        float32 = 1.0
	Ks        float32 = 1.0
	Shininess float32 = 10.0
)

// AmbientColor is the ambient light term of the lit shading modes.
var AmbientColor = mgl32.Vec3{0.1, 0.1, 0.1}

// vertexLayout describes the interleaved position/color/normal data.
var vertexLayout = []gfx.Attribute{
	{Name: "a_position", Components: 3, Stride: formats.VertexStride, Offset: formats.PositionOffset},
	{Name: "a_color", Components: 3, Stride: formats.VertexStride, Offset: formats.ColorOffset},
	{Name: "a_normal", Components: 3, Stride: formats.VertexStride, Offset: formats.NormalOffset},
}

// Mesh is a node with triangle geometry.
type Mesh struct {
	NodeBase

	// data holds formats.FloatsPerVertex floats per vertex, three vertices per triangle.
	data   []float32
	model  mgl32.Mat4
	buffer gfx.Buffer
}

// NewMesh creates a mesh from interleaved vertex data. Trailing floats that do
// not form a whole triangle are dropped.
func NewMesh(name string, local transform.Transform, data []float32) *Mesh {
	const triangleFloats = 3 * formats.FloatsPerVertex
	if extra := len(data) % triangleFloats; extra != 0 {
		logger.Warn("mesh data is not a whole number of triangles",
			zap.String("mesh", name), zap.Int("dropped_floats", extra))
		data = data[:len(data)-extra]
	}

	m := &Mesh{NodeBase: newBase(name, local), data: data}
	m.Update()
	return m
}

// Update recomputes the model matrix from the effective transform.
func (m *Mesh) Update() {
	m.model = m.Effective().ModelMatrix()
}

// ModelMatrix returns the matrix computed by the last Update.
func (m *Mesh) ModelMatrix() mgl32.Mat4 {
	return m.model
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.data) / formats.FloatsPerVertex
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return m.VertexCount() / 3
}

// Buffer returns the backend buffer, or gfx.NoBuffer before the first render.
func (m *Mesh) Buffer() gfx.Buffer {
	return m.buffer
}

// InvalidateBuffer forgets the backend buffer so the next render uploads the
// data again. Used after the backend has been recreated.
func (m *Mesh) InvalidateBuffer() {
	m.buffer = gfx.NoBuffer
}

// Render uploads the vertex data on first use, draws the mesh with the
// uniforms of the current shading mode, then renders the children.
func (m *Mesh) Render(rc *RenderContext) error {
	if m.buffer == gfx.NoBuffer && len(m.data) > 0 {
		buf, err := rc.Backend.CreateBuffer(m.data)
		if err != nil {
			return fmt.Errorf("uploading mesh %q: %w", m.name, err)
		}
		m.buffer = buf
		logger.Debug("mesh uploaded", zap.String("mesh", m.name), zap.Int("vertices", m.VertexCount()))
	}

	if m.buffer != gfx.NoBuffer {
		call := gfx.DrawCall{
			Mode:        rc.Mode,
			Buffer:      m.buffer,
			Attributes:  vertexLayout,
			Uniforms:    m.uniforms(rc),
			VertexCount: m.VertexCount(),
		}
		if err := rc.Backend.Draw(call); err != nil {
			return fmt.Errorf("drawing mesh %q: %w", m.name, err)
		}
	}

	return m.renderChildren(rc)
}

func (m *Mesh) uniforms(rc *RenderContext) []gfx.Uniform {
	if !rc.Mode.Lit() {
		pose := rc.Camera.Base()
		return []gfx.Uniform{
			gfx.Mat4("u_mvp_matrix", rc.VP.Mul4(m.model)),
			gfx.Vec3("u_light_direction", pose.Position.Sub(pose.LookAt)),
		}
	}

	mv := rc.View.Mul4(m.model)
	u := []gfx.Uniform{
		gfx.Float("Ka", Ka),
		gfx.Float("Kd", Kd),
		gfx.Float("Ks", Ks),
		gfx.Float("shininess", Shininess),
		gfx.Vec3("aColor", AmbientColor),
		gfx.Mat4("u_mv_matrix", mv),
		gfx.Mat4("u_p_matrix", rc.Projection),
		gfx.Mat4("u_normal_matrix", mv.Inv().Transpose()),
	}

	lights := rc.Lights
	if lights == nil {
		lights = lighting.NewList(nil)
	}
	return append(u,
		gfx.FloatArray("plIntensity", lights.Intensities(lighting.Point)),
		gfx.Vec3Array("plPosition", lights.Vectors(lighting.Point)),
		gfx.Vec3Array("plColor", lights.Colors(lighting.Point)),
		gfx.FloatArray("dlIntensity", lights.Intensities(lighting.Directional)),
		gfx.Vec3Array("dlDirection", lights.Vectors(lighting.Directional)),
		gfx.Vec3Array("dlColor", lights.Colors(lighting.Directional)),
	)
}

// Triangle returns the i-th triangle transformed by the model matrix.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	const triangleFloats = 3 * formats.FloatsPerVertex
	base := i * triangleFloats
	corner := func(k int) mgl32.Vec3 {
		off := base + k*formats.FloatsPerVertex
		p := mgl32.Vec3{m.data[off], m.data[off+1], m.data[off+2]}
		return mgl32.TransformCoordinate(p, m.model)
	}
	return corner(0), corner(1), corner(2)
}

// Raycast tests the mesh's world-space triangles and returns the mesh on the
// first hit. On a miss the children are tested.
func (m *Mesh) Raycast(r picking.Ray) (Node, picking.Outcome) {
	outcome := picking.NotApplicable
	if n := m.TriangleCount(); n > 0 {
		outcome = picking.Miss
		for i := 0; i < n; i++ {
			a, b, c := m.Triangle(i)
			if t, hit := picking.IntersectTriangle(r, a, b, c); hit {
				p := r.At(t)
				logger.Debug("mesh hit",
					zap.String("mesh", m.Name()),
					zap.Int("triangle", i),
					zap.Float32s("point", p[:]))
				return m, picking.Hit
			}
		}
	}

	hit, childOutcome := m.raycastChildren(r)
	if childOutcome == picking.Hit {
		return hit, childOutcome
	}
	if childOutcome == picking.Miss {
		outcome = picking.Miss
	}
	return nil, outcome
}
