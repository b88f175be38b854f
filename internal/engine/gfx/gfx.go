// Package gfx defines the contract between the scene graph and a rendering backend.
//
// The scene never talks to a graphics API directly: it hands a Backend vertex data
// once, then issues DrawCalls that reference the returned Buffer together with an
// attribute layout and a set of named uniforms.
package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadingMode selects the shader program used for a draw.
type ShadingMode int

const (
	Wireframe ShadingMode = iota
	Flat
	Gouraud
	Phong
)

// ShadingModes lists every mode in keyboard order (1-4).
var ShadingModes = []ShadingMode{Wireframe, Flat, Gouraud, Phong}

func (m ShadingMode) String() string {
	switch m {
	case Wireframe:
		return "wireframe"
	case Flat:
		return "flat"
	case Gouraud:
		return "gouraud"
	case Phong:
		return "phong"
	default:
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
}

// Lit reports whether the mode consumes the light arrays and material uniforms.
func (m ShadingMode) Lit() bool {
	return m == Gouraud || m == Phong
}

// ParseShadingMode converts a mode name to a ShadingMode.
func ParseShadingMode(name string) (ShadingMode, error) {
	for _, m := range ShadingModes {
		if m.String() == name {
			return m, nil
		}
	}
	return Flat, fmt.Errorf("unknown shading mode %q", name)
}

// Buffer is an opaque handle to vertex data owned by a Backend.
type Buffer uint32

// NoBuffer is the zero handle; backends never return it.
const NoBuffer Buffer = 0

// Attribute describes one interleaved vertex attribute. Stride and Offset are in bytes.
type Attribute struct {
	Name       string
	Components int
	Stride     int
	Offset     int
}

// UniformKind tells the backend how to upload Uniform.Data.
type UniformKind int

const (
	UniformFloat UniformKind = iota
	UniformFloatArray
	UniformVec3
	UniformVec3Array
	UniformMat4
)

// Uniform is a named shader parameter.
type Uniform struct {
	Name string
	Kind UniformKind
	Data []float32
}

// Count returns the number of array elements the uniform covers.
func (u Uniform) Count() int {
	switch u.Kind {
	case UniformVec3, UniformVec3Array:
		return len(u.Data) / 3
	case UniformMat4:
		return len(u.Data) / 16
	default:
		return len(u.Data)
	}
}

// Float returns a scalar uniform.
func Float(name string, v float32) Uniform {
	return Uniform{Name: name, Kind: UniformFloat, Data: []float32{v}}
}

// FloatArray returns a float[] uniform.
func FloatArray(name string, vs []float32) Uniform {
	return Uniform{Name: name, Kind: UniformFloatArray, Data: vs}
}

// Vec3 returns a vec3 uniform.
func Vec3(name string, v mgl32.Vec3) Uniform {
	return Uniform{Name: name, Kind: UniformVec3, Data: []float32{v[0], v[1], v[2]}}
}

// Vec3Array returns a vec3[] uniform from packed xyz triples.
func Vec3Array(name string, packed []float32) Uniform {
	return Uniform{Name: name, Kind: UniformVec3Array, Data: packed}
}

// Mat4 returns a mat4 uniform in column-major order.
func Mat4(name string, m mgl32.Mat4) Uniform {
	data := make([]float32, 16)
	copy(data, m[:])
	return Uniform{Name: name, Kind: UniformMat4, Data: data}
}

// DrawCall is a single triangle-list draw.
type DrawCall struct {
	Mode        ShadingMode
	Buffer      Buffer
	Attributes  []Attribute
	Uniforms    []Uniform
	VertexCount int
}

// Lookup returns the uniform with the given name.
func (d *DrawCall) Lookup(name string) (Uniform, bool) {
	for _, u := range d.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Backend uploads vertex data and executes draw calls.
type Backend interface {
	// CreateBuffer uploads interleaved float data and returns its handle.
	CreateBuffer(data []float32) (Buffer, error)

	// Draw issues a triangle-list draw.
	Draw(call DrawCall) error
}
