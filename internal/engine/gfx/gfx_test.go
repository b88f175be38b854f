package gfx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShadingMode(t *testing.T) {
	for _, m := range ShadingModes {
		got, err := ParseShadingMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseShadingMode("toon")
	assert.Error(t, err)
}

func TestShadingModeLit(t *testing.T) {
	assert.False(t, Wireframe.Lit())
	assert.False(t, Flat.Lit())
	assert.True(t, Gouraud.Lit())
	assert.True(t, Phong.Lit())
}

func TestUniformCount(t *testing.T) {
	assert.Equal(t, 1, Float("Ka", 1).Count())
	assert.Equal(t, 16, FloatArray("plIntensity", make([]float32, 16)).Count())
	assert.Equal(t, 1, Vec3("aColor", mgl32.Vec3{0.1, 0.1, 0.1}).Count())
	assert.Equal(t, 16, Vec3Array("plPosition", make([]float32, 48)).Count())
	assert.Equal(t, 1, Mat4("u_p_matrix", mgl32.Ident4()).Count())
}

func TestMat4CopiesMatrix(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	u := Mat4("u_mvp_matrix", m)
	m[12] = 99

	assert.Equal(t, float32(1), u.Data[12], "uniform must not alias the source matrix")
}

func TestDrawCallLookup(t *testing.T) {
	call := DrawCall{Uniforms: []Uniform{Float("Ka", 1), Float("Kd", 0.5)}}

	u, ok := call.Lookup("Kd")
	require.True(t, ok)
	assert.Equal(t, []float32{0.5}, u.Data)

	_, ok = call.Lookup("Ks")
	assert.False(t, ok)
}
