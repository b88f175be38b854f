package scene

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/gfx"
	"github.com/Faultbox/sceneview/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/engine/picking"
	"github.com/Faultbox/sceneview/internal/engine/transform"
	"github.com/Faultbox/sceneview/pkg/formats"
)

// newTestScene builds root -> [meshes...] with the camera at z=5 looking at the origin.
func newTestScene(t *testing.T, meshes ...Node) *Scene {
	t.Helper()
	root := NewGroup("root", transform.Identity())
	for _, m := range meshes {
		require.NoError(t, Attach(root, m))
	}
	s := New(root, testCamera(), nil)
	s.Update()
	return s
}

func at(z float32) transform.Transform {
	return transform.New(mgl32.Vec3{0, 0, z}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

func TestPickCenter(t *testing.T) {
	target := NewMesh("target", at(0), quad())
	s := newTestScene(t, target)

	assert.Equal(t, Node(target), s.Pick(400, 300, 800, 600))
	assert.Nil(t, s.Pick(5, 5, 800, 600), "corner pixel misses the quad")
}

func TestPickInvalidPointer(t *testing.T) {
	s := newTestScene(t, NewMesh("target", at(0), quad()))

	inf := float32(math.Inf(1))
	assert.Nil(t, s.Pick(-inf, inf, 800, 600))
	assert.Nil(t, s.Pick(400, 300, 0, 600))
}

func TestRaycastSkipsPlanes(t *testing.T) {
	ground := NewMesh("ground plane", at(1), quad())
	s := newTestScene(t, ground)

	node, outcome := s.Raycast(s.Ray(400, 300, 800, 600))
	assert.Nil(t, node)
	assert.Equal(t, picking.NotApplicable, outcome, "skipped subtrees are not tested at all")

	// A pickable mesh behind the plane is still found.
	behind := NewMesh("behind", at(-1), quad())
	require.NoError(t, Attach(s.Root, behind))
	s.Update()
	assert.Equal(t, Node(behind), s.Pick(400, 300, 800, 600))
}

func TestRaycastSkipsPlaneSubtree(t *testing.T) {
	plane := NewMesh("plane", at(0), nil)
	child := NewMesh("child", at(0), quad())
	require.NoError(t, Attach(plane, child))
	s := newTestScene(t, plane)

	assert.Nil(t, s.Pick(400, 300, 800, 600), "children of a skipped node are not recursed")
}

func TestRaycastFirstHitWins(t *testing.T) {
	// Insertion order decides, not distance: the far mesh comes first.
	far := NewMesh("far", at(-2), quad())
	near := NewMesh("near", at(1), quad())
	s := newTestScene(t, far, near)

	assert.Equal(t, Node(far), s.Pick(400, 300, 800, 600))
}

func TestRaycastDepthFirst(t *testing.T) {
	group := NewGroup("group", transform.Identity())
	nested := NewMesh("nested", at(0), quad())
	require.NoError(t, Attach(group, nested))
	sibling := NewMesh("sibling", at(1), quad())
	s := newTestScene(t, group, sibling)

	assert.Equal(t, Node(nested), s.Pick(400, 300, 800, 600))
}

func TestRaycastOutcomes(t *testing.T) {
	empty := newTestScene(t)
	_, outcome := empty.Raycast(empty.Ray(400, 300, 800, 600))
	assert.Equal(t, picking.NotApplicable, outcome)

	offset := NewMesh("offset", transform.New(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), quad())
	miss := newTestScene(t, offset)
	node, outcome := miss.Raycast(miss.Ray(400, 300, 800, 600))
	assert.Nil(t, node)
	assert.Equal(t, picking.Miss, outcome)
}

func TestPickAfterMove(t *testing.T) {
	target := NewMesh("target", at(0), quad())
	s := newTestScene(t, target)

	target.SetTranslation(mgl32.Vec3{10, 0, 0})
	s.Update()
	assert.Nil(t, s.Pick(400, 300, 800, 600))
}

func TestPickOrthographic(t *testing.T) {
	target := NewMesh("target", at(0), quad())
	s := newTestScene(t, target)
	s.SwitchProjection(camera.Orthographic)

	assert.Equal(t, camera.Orthographic, s.Camera.Kind())
	assert.Equal(t, Node(target), s.Pick(400, 300, 800, 600))
}

func TestSceneRender(t *testing.T) {
	a := NewMesh("a", at(0), quad())
	b := NewMesh("b", at(-1), quad())
	s := newTestScene(t, a, b)
	rec := gfxtest.NewRecorder()

	require.NoError(t, s.Render(rec, gfx.Phong))
	require.Len(t, rec.Draws, 2)
	for _, d := range rec.Draws {
		assert.Equal(t, gfx.Phong, d.Mode)
	}

	rec.Reset()
	s.InvalidateBuffers()
	require.NoError(t, s.Render(rec, gfx.Flat))
	assert.Len(t, rec.Buffers, 4)
}

func TestSceneFindAndMeshes(t *testing.T) {
	group := NewGroup("group", transform.Identity())
	inner := NewMesh("inner", at(0), quad())
	require.NoError(t, Attach(group, inner))
	outer := NewMesh("outer", at(0), quad())
	s := newTestScene(t, group, outer)

	assert.Equal(t, Node(inner), s.Find("inner"))
	assert.Equal(t, Node(group), s.Find("group"))
	assert.Nil(t, s.Find("missing"))
	assert.Equal(t, []*Mesh{inner, outer}, s.Meshes())
}

func TestSetCamera(t *testing.T) {
	s := newTestScene(t)
	ortho := camera.NewOrthographic(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, -1, 1, -1, 1)
	s.SetCamera(ortho)
	assert.Equal(t, camera.Camera(ortho), s.Camera)
}

type fakeLoader map[string]string

func (f fakeLoader) Load(name string) ([]byte, error) {
	data, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errNotFound)
	}
	return []byte(data), nil
}

var errNotFound = errors.New("not found")

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`

const sceneJSON = `{
  "camera": {"type": "orthographic", "position": [0, 0, 5], "lookat": [0, 0, 0], "up": [0, 1, 0], "fov": 3},
  "light": [
    {"name": "lamp", "type": "point", "intensity": 1, "color": [1, 1, 1], "position": [0, 3, 0]},
    {"name": "sun", "type": "direction", "intensity": 0.5, "color": [1, 1, 1], "direction": [0, -1, 0]}
  ],
  "root": {
    "type": "node", "name": "root",
    "translation": [0, 0, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1],
    "children": [
      {"type": "object", "name": "tri", "obj": "tri.obj", "color": "#ff0000",
       "translation": [1, 0, 0], "rotation": [0, 0, 0], "scale": [2, 2, 2],
       "children": [
         {"type": "object", "name": "small", "obj": "bad.obj", "color": "#00ff00",
          "translation": [0, 1, 0], "rotation": [0, 0, 0], "scale": [0.5, 0.5, 0.5], "children": []}
       ]},
      {"type": "object", "name": "floor plane", "obj": "tri.obj", "color": "#808080",
       "translation": [0, -1, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1], "children": []}
    ]
  }
}`

func TestBuild(t *testing.T) {
	desc, err := formats.ParseScene([]byte(sceneJSON))
	require.NoError(t, err)

	loader := fakeLoader{
		"tri.obj": triangleOBJ,
		"bad.obj": triangleOBJ + "vn 1 0 0 0\n",
	}

	s, stats, err := Build(desc, loader)
	require.NoError(t, err)

	assert.Equal(t, BuildStats{Nodes: 4, Meshes: 3, Triangles: 3, Problems: 1}, stats)

	ortho, ok := s.Camera.(*camera.OrthographicCamera)
	require.True(t, ok, "camera type comes from the scene file")
	assert.Equal(t, []float32{-3, 3, -3, 3}, []float32{ortho.Left, ortho.Right, ortho.Bottom, ortho.Top})

	assert.Equal(t, 1, s.Lights.Active(lighting.Point))
	assert.Equal(t, 1, s.Lights.Active(lighting.Directional))
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, s.Lights.Directional[0].Direction)

	small, ok := s.Find("small").(*Mesh)
	require.True(t, ok)
	eff := small.Effective()
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, eff.Translation)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, eff.Scale)

	// Fallback color reaches the vertex data.
	tri := s.Find("tri").(*Mesh)
	rec := gfxtest.NewRecorder()
	require.NoError(t, s.Render(rec, gfx.Flat))
	data := rec.Buffers[tri.Buffer()]
	assert.Equal(t, []float32{1, 0, 0}, data[3:6])

	// Model matrices are current right after Build.
	assert.Equal(t, eff.ModelMatrix(), small.ModelMatrix())
}

func TestBuildMissingMeshIsFatal(t *testing.T) {
	desc, err := formats.ParseScene([]byte(sceneJSON))
	require.NoError(t, err)

	_, _, err = Build(desc, fakeLoader{"tri.obj": triangleOBJ})
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotFound)
	assert.Contains(t, err.Error(), "bad.obj")
}

func TestBuildPerspective(t *testing.T) {
	desc := &formats.SceneFile{
		Camera: formats.CameraDesc{
			Type:     formats.CameraPerspective,
			Position: formats.Vec3{0, 0, 5},
			Up:       formats.Vec3{0, 1, 0},
			FOV:      45,
		},
		Root: formats.NodeDesc{Type: formats.NodeTypeGroup, Name: "root", Scale: formats.Vec3{1, 1, 1}},
	}

	s, stats, err := Build(desc, fakeLoader{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Nodes)

	persp, ok := s.Camera.(*camera.PerspectiveCamera)
	require.True(t, ok)
	assert.Equal(t, float32(45), persp.FOV)
	assert.Equal(t, float32(1), persp.Zoom)
	assert.Equal(t, 0, s.Lights.Active(lighting.Point))
}
