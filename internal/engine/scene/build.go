package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/engine/transform"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/formats"
)

// Loader returns the raw contents of a mesh file.
type Loader interface {
	Load(name string) ([]byte, error)
}

// BuildStats summarizes a scene build.
type BuildStats struct {
	Nodes     int
	Meshes    int
	Triangles int
	Problems  int // malformed OBJ records across all meshes
}

// Build creates a scene from a parsed description. Mesh files are fetched
// through loader; any failed fetch aborts the build.
func Build(desc *formats.SceneFile, loader Loader) (*Scene, BuildStats, error) {
	var stats BuildStats

	cam, err := buildCamera(desc.Camera)
	if err != nil {
		return nil, stats, err
	}

	lights, err := buildLights(desc.Lights)
	if err != nil {
		return nil, stats, err
	}

	root, err := buildNode(&desc.Root, loader, &stats)
	if err != nil {
		return nil, stats, err
	}

	s := New(root, cam, lights)
	s.Update()

	logger.Info("scene built",
		zap.Int("nodes", stats.Nodes),
		zap.Int("meshes", stats.Meshes),
		zap.Int("triangles", stats.Triangles),
		zap.Int("obj_problems", stats.Problems),
		zap.Int("point_lights", lights.Active(lighting.Point)),
		zap.Int("directional_lights", lights.Active(lighting.Directional)),
		zap.Stringer("camera", cam.Kind()))
	return s, stats, nil
}

func vec(v formats.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func buildCamera(d formats.CameraDesc) (camera.Camera, error) {
	kind, err := camera.ParseKind(d.Type)
	if err != nil {
		return nil, err
	}

	pos, lookAt, up := vec(d.Position), vec(d.LookAt), vec(d.Up)
	if kind == camera.Orthographic {
		return camera.NewOrthographic(pos, lookAt, up, -d.FOV, d.FOV, -d.FOV, d.FOV), nil
	}
	return camera.NewPerspective(pos, lookAt, up, d.FOV), nil
}

func buildLights(descs []formats.LightDesc) (*lighting.List, error) {
	lights := make([]lighting.Light, 0, len(descs))
	for _, d := range descs {
		kind, err := lighting.ParseKind(d.Type)
		if err != nil {
			return nil, err
		}
		l := lighting.Light{Name: d.Name, Kind: kind, Intensity: d.Intensity, Color: vec(d.Color)}
		if d.Position != nil {
			l.Position = vec(*d.Position)
		}
		if d.Direction != nil {
			l.Direction = vec(*d.Direction)
		}
		lights = append(lights, l)
	}
	return lighting.NewList(lights), nil
}

func buildNode(d *formats.NodeDesc, loader Loader, stats *BuildStats) (Node, error) {
	local := transform.New(vec(d.Translation), vec(d.Rotation), vec(d.Scale))

	var node Node
	switch d.Type {
	case formats.NodeTypeGroup:
		node = NewGroup(d.Name, local)
	case formats.NodeTypeObject:
		mesh, err := loadMesh(d, local, loader, stats)
		if err != nil {
			return nil, err
		}
		node = mesh
	default:
		return nil, fmt.Errorf("node %q: unknown type %q", d.Name, d.Type)
	}
	stats.Nodes++

	for i := range d.Children {
		child, err := buildNode(&d.Children[i], loader, stats)
		if err != nil {
			return nil, err
		}
		if err := Attach(node, child); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func loadMesh(d *formats.NodeDesc, local transform.Transform, loader Loader, stats *BuildStats) (*Mesh, error) {
	fallback, err := formats.ParseHexColor(d.Color)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", d.Name, err)
	}

	data, err := loader.Load(d.OBJ)
	if err != nil {
		return nil, fmt.Errorf("object %q: loading %s: %w", d.Name, d.OBJ, err)
	}

	obj, err := formats.ParseOBJ(data, fallback)
	if err != nil {
		return nil, fmt.Errorf("object %q: parsing %s: %w", d.Name, d.OBJ, err)
	}
	for _, p := range obj.Problems {
		logger.Warn("malformed OBJ record",
			zap.String("object", d.Name),
			zap.String("file", d.OBJ),
			zap.Int("line", p.Line),
			zap.String("record", p.Record),
			zap.String("reason", p.Reason))
	}

	stats.Meshes++
	stats.Triangles += obj.Triangles
	stats.Problems += len(obj.Problems)
	return NewMesh(d.Name, local, obj.Data), nil
}
