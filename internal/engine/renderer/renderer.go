// Package renderer provides the OpenGL implementation of gfx.Backend.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/gfx"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/internal/logger"
)

// ErrNoProgram is returned when a draw uses a mode with no loaded program.
var ErrNoProgram = errors.New("no shader program for mode")

// ErrUnknownBuffer is returned when a draw references a buffer this renderer did not create.
var ErrUnknownBuffer = errors.New("unknown buffer")

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	shaders *shader.Library
	log     *zap.Logger

	vao     uint32
	buffers map[gfx.Buffer]struct{}

	// Attribute locations enabled by the previous draw.
	enabled []uint32
}

// New creates a new renderer drawing with the given programs.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, shaders *shader.Library) (*Renderer, error) {
	r := &Renderer{
		config:  cfg,
		shaders: shaders,
		log:     logger.Named("renderer"),
		buffers: make(map[gfx.Buffer]struct{}),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	// Core profile refuses attribute setup without a bound VAO.
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	return r, nil
}

// Close cleans up renderer resources. The shader library is owned by the caller.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("buffers", len(r.buffers)))
	for b := range r.buffers {
		vbo := uint32(b)
		gl.DeleteBuffers(1, &vbo)
	}
	r.buffers = make(map[gfx.Buffer]struct{})
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// CreateBuffer implements gfx.Backend.
func (r *Renderer) CreateBuffer(data []float32) (gfx.Buffer, error) {
	if len(data) == 0 {
		return gfx.NoBuffer, errors.New("empty vertex data")
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return gfx.NoBuffer, errors.New("glGenBuffers returned no name")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	b := gfx.Buffer(vbo)
	r.buffers[b] = struct{}{}
	r.log.Debug("vertex buffer created",
		zap.Uint32("vbo", vbo),
		zap.Int("floats", len(data)))
	return b, nil
}

// Draw implements gfx.Backend.
func (r *Renderer) Draw(call gfx.DrawCall) error {
	program, ok := r.shaders.Program(call.Mode)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoProgram, call.Mode)
	}
	if _, ok := r.buffers[call.Buffer]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, call.Buffer)
	}

	gl.UseProgram(program)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(call.Buffer))
	r.bindAttributes(program, call.Attributes)

	for _, u := range call.Uniforms {
		upload(shader.GetUniform(program, u.Name), u)
	}

	if call.Mode == gfx.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.DrawArrays(gl.TRIANGLES, 0, int32(call.VertexCount))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// bindAttributes points each attribute the program uses at the bound buffer.
// Attributes the compiler optimized out have no location and are skipped.
func (r *Renderer) bindAttributes(program uint32, attrs []gfx.Attribute) {
	for _, loc := range r.enabled {
		gl.DisableVertexAttribArray(loc)
	}
	r.enabled = r.enabled[:0]

	for _, a := range attrs {
		loc := shader.GetAttrib(program, a.Name)
		if loc < 0 {
			continue
		}
		l := uint32(loc)
		gl.VertexAttribPointerWithOffset(l, int32(a.Components), gl.FLOAT, false, int32(a.Stride), uintptr(a.Offset))
		gl.EnableVertexAttribArray(l)
		r.enabled = append(r.enabled, l)
	}
}

func upload(loc int32, u gfx.Uniform) {
	if loc < 0 || len(u.Data) == 0 {
		return
	}
	n := int32(u.Count())
	switch u.Kind {
	case gfx.UniformFloat:
		gl.Uniform1f(loc, u.Data[0])
	case gfx.UniformFloatArray:
		gl.Uniform1fv(loc, n, &u.Data[0])
	case gfx.UniformVec3, gfx.UniformVec3Array:
		gl.Uniform3fv(loc, n, &u.Data[0])
	case gfx.UniformMat4:
		gl.UniformMatrix4fv(loc, n, false, &u.Data[0])
	}
}

// ReadPixels returns the current back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	if width <= 0 || height <= 0 {
		return nil, 0, 0
	}
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
