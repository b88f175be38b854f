package shader

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/gfx"
	"github.com/Faultbox/sceneview/internal/logger"
)

// Source supplies shader text by file name. *assets.Manager implements it.
type Source interface {
	LoadText(name string) (string, error)
	Invalidate(name string)
}

// CompileFunc links a vertex and fragment source into a program.
type CompileFunc func(vertexSrc, fragmentSrc string) (uint32, error)

// VertexFile returns the vertex shader file name for a mode.
func VertexFile(mode gfx.ShadingMode) string {
	return mode.String() + ".vert"
}

// FragmentFile returns the fragment shader file name for a mode.
func FragmentFile(mode gfx.ShadingMode) string {
	return mode.String() + ".frag"
}

// ModeForFile maps a shader file name back to its shading mode.
func ModeForFile(name string) (gfx.ShadingMode, bool) {
	base := path.Base(name)
	ext := path.Ext(base)
	if ext != ".vert" && ext != ".frag" {
		return 0, false
	}
	mode, err := gfx.ParseShadingMode(strings.TrimSuffix(base, ext))
	if err != nil {
		return 0, false
	}
	return mode, true
}

// Library holds one program per shading mode.
type Library struct {
	src      Source
	compile  CompileFunc
	release  func(uint32)
	programs map[gfx.ShadingMode]uint32
}

// NewLibrary returns an empty library backed by OpenGL.
// Load must be called with a current GL context.
func NewLibrary(src Source) *Library {
	return NewLibraryWith(src, CompileProgram, DeleteProgram)
}

// NewLibraryWith returns a library that compiles and releases programs with
// the given functions.
func NewLibraryWith(src Source, compile CompileFunc, release func(uint32)) *Library {
	return &Library{
		src:      src,
		compile:  compile,
		release:  release,
		programs: make(map[gfx.ShadingMode]uint32),
	}
}

// Load compiles every mode. If any mode fails, the programs compiled so far
// are released and the previously loaded set stays active.
func (l *Library) Load() error {
	fresh := make(map[gfx.ShadingMode]uint32, len(gfx.ShadingModes))
	var errs []error
	for _, mode := range gfx.ShadingModes {
		program, err := l.build(mode)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fresh[mode] = program
	}

	if err := errors.Join(errs...); err != nil {
		for _, p := range fresh {
			l.release(p)
		}
		return err
	}

	old := l.programs
	l.programs = fresh
	for _, p := range old {
		l.release(p)
	}
	logger.Info("shaders loaded", zap.Int("programs", len(fresh)))
	return nil
}

// Reload drops the cached text of the named files, or of every shader file
// when none are named, and loads every mode again.
func (l *Library) Reload(changed ...string) error {
	stale := changed
	if len(stale) == 0 {
		for _, mode := range gfx.ShadingModes {
			stale = append(stale, VertexFile(mode), FragmentFile(mode))
		}
	}
	for _, name := range stale {
		l.src.Invalidate(name)
	}
	if err := l.Load(); err != nil {
		logger.Warn("shader reload failed, keeping previous programs",
			zap.Strings("changed", changed), zap.Error(err))
		return err
	}
	return nil
}

func (l *Library) build(mode gfx.ShadingMode) (uint32, error) {
	vert, err := l.src.LoadText(VertexFile(mode))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", mode, err)
	}
	frag, err := l.src.LoadText(FragmentFile(mode))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", mode, err)
	}
	program, err := l.compile(vert, frag)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", mode, err)
	}
	return program, nil
}

// Program returns the program for a mode.
func (l *Library) Program(mode gfx.ShadingMode) (uint32, bool) {
	p, ok := l.programs[mode]
	return p, ok
}

// Close releases every program.
func (l *Library) Close() {
	for mode, p := range l.programs {
		l.release(p)
		delete(l.programs, mode)
	}
}
