// Package gfxtest provides a recording gfx.Backend for GPU-free tests.
package gfxtest

import (
	"errors"

	"github.com/Faultbox/sceneview/internal/engine/gfx"
)

// ErrInjected is returned when a Recorder is told to fail.
var ErrInjected = errors.New("gfxtest: injected failure")

// Recorder keeps every buffer upload and draw call it receives.
type Recorder struct {
	Buffers map[gfx.Buffer][]float32
	Draws   []gfx.DrawCall

	// FailCreate makes CreateBuffer return ErrInjected.
	FailCreate bool

	next gfx.Buffer
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Buffers: make(map[gfx.Buffer][]float32)}
}

// CreateBuffer implements gfx.Backend.
func (r *Recorder) CreateBuffer(data []float32) (gfx.Buffer, error) {
	if r.FailCreate {
		return gfx.NoBuffer, ErrInjected
	}
	r.next++
	r.Buffers[r.next] = append([]float32(nil), data...)
	return r.next, nil
}

// Draw implements gfx.Backend.
func (r *Recorder) Draw(call gfx.DrawCall) error {
	r.Draws = append(r.Draws, call)
	return nil
}

// Reset forgets recorded draws but keeps buffers.
func (r *Recorder) Reset() {
	r.Draws = r.Draws[:0]
}
