package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Scene file errors.
var (
	ErrInvalidScene = errors.New("invalid scene file")
	ErrInvalidColor = errors.New("invalid hex color")
)

// Node types.
const (
	NodeTypeGroup  = "node"
	NodeTypeObject = "object"
)

// Camera types.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Light types.
const (
	LightPoint     = "point"
	LightDirection = "direction"
)

// Vec3 is a JSON array of exactly three numbers.
type Vec3 [3]float32

// UnmarshalJSON rejects arrays that do not have three elements.
func (v *Vec3) UnmarshalJSON(b []byte) error {
	var vs []float32
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	if len(vs) != 3 {
		return fmt.Errorf("%w: vector has %d components, want 3", ErrInvalidScene, len(vs))
	}
	copy(v[:], vs)
	return nil
}

// SceneFile is the top-level scene description.
type SceneFile struct {
	Camera CameraDesc  `json:"camera"`
	Lights []LightDesc `json:"light"`
	Root   NodeDesc    `json:"root"`
}

// CameraDesc describes the initial camera. For orthographic cameras FOV is
// the half extent of the square view box.
type CameraDesc struct {
	Type     string  `json:"type"`
	Position Vec3    `json:"position"`
	LookAt   Vec3    `json:"lookat"`
	Up       Vec3    `json:"up"`
	FOV      float32 `json:"fov"`
}

// LightDesc describes one light. Position is required for point lights,
// Direction for directional lights.
type LightDesc struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Intensity float32 `json:"intensity"`
	Color     Vec3    `json:"color"`
	Position  *Vec3   `json:"position,omitempty"`
	Direction *Vec3   `json:"direction,omitempty"`
}

// NodeDesc describes a node and its subtree. OBJ and Color are only used by
// object nodes; Color is the fallback vertex color as a hex string.
type NodeDesc struct {
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Translation Vec3       `json:"translation"`
	Rotation    Vec3       `json:"rotation"`
	Scale       Vec3       `json:"scale"`
	Children    []NodeDesc `json:"children"`
	OBJ         string     `json:"obj,omitempty"`
	Color       string     `json:"color,omitempty"`
}

// UnmarshalJSON defaults an absent scale to (1, 1, 1).
func (n *NodeDesc) UnmarshalJSON(b []byte) error {
	type plain NodeDesc
	p := plain{Scale: Vec3{1, 1, 1}}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*n = NodeDesc(p)
	return nil
}

// ParseScene decodes and validates a scene description.
func ParseScene(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// ParseSceneFile reads and parses a scene description from disk.
func ParseSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return ParseScene(data)
}

// Validate checks types, required fields and colors of the whole description.
func (sf *SceneFile) Validate() error {
	switch sf.Camera.Type {
	case CameraPerspective, CameraOrthographic:
	default:
		return fmt.Errorf("%w: unknown camera type %q", ErrInvalidScene, sf.Camera.Type)
	}
	if sf.Camera.FOV <= 0 {
		return fmt.Errorf("%w: camera fov must be positive, got %g", ErrInvalidScene, sf.Camera.FOV)
	}

	for i, l := range sf.Lights {
		switch l.Type {
		case LightPoint:
			if l.Position == nil {
				return fmt.Errorf("%w: point light %d (%q) has no position", ErrInvalidScene, i, l.Name)
			}
		case LightDirection:
			if l.Direction == nil {
				return fmt.Errorf("%w: directional light %d (%q) has no direction", ErrInvalidScene, i, l.Name)
			}
		default:
			return fmt.Errorf("%w: light %d (%q) has unknown type %q", ErrInvalidScene, i, l.Name, l.Type)
		}
	}

	return sf.Root.validate("root")
}

func (n *NodeDesc) validate(path string) error {
	if n.Name != "" {
		path = path + "/" + n.Name
	}

	switch n.Type {
	case NodeTypeGroup:
	case NodeTypeObject:
		if n.OBJ == "" {
			return fmt.Errorf("%w: object %s has no obj path", ErrInvalidScene, path)
		}
		if _, err := ParseHexColor(n.Color); err != nil {
			return fmt.Errorf("%w: object %s: %w", ErrInvalidScene, path, err)
		}
	default:
		return fmt.Errorf("%w: node %s has unknown type %q", ErrInvalidScene, path, n.Type)
	}

	for i, s := range n.Scale {
		if s == 0 {
			return fmt.Errorf("%w: node %s has zero scale on axis %d", ErrInvalidScene, path, i)
		}
	}

	for i := range n.Children {
		if err := n.Children[i].validate(path); err != nil {
			return err
		}
	}
	return nil
}

// ParseHexColor converts "#rrggbb", "rrggbb" or "#rgb" to RGB in [0, 1].
func ParseHexColor(hex string) ([3]float32, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return [3]float32{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float32{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *NodeDesc) Count() int {
	total := 1
	for i := range n.Children {
		total += n.Children[i].Count()
	}
	return total
}
