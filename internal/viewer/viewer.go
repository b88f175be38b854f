package viewer

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/assets"
	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/debug"
	"github.com/Faultbox/sceneview/internal/engine/gfx"
	"github.com/Faultbox/sceneview/internal/engine/input"
	"github.com/Faultbox/sceneview/internal/engine/renderer"
	"github.com/Faultbox/sceneview/internal/engine/scene"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/internal/engine/window"
	"github.com/Faultbox/sceneview/internal/logger"
)

// Viewer is the running application: window, renderer, shaders and the
// controller over one scene.
type Viewer struct {
	cfg        *config.Config
	running    bool
	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	shaders    *shader.Library
	watcher    *assets.Watcher
	scene      *scene.Scene
	controller *Controller
	shots      *debug.Screenshots
}

// New opens the window and prepares s for display. Shader sources are read
// through shaderAssets.
func New(cfg *config.Config, s *scene.Scene, shaderAssets *assets.Manager) (*Viewer, error) {
	mode, err := gfx.ParseShadingMode(cfg.Viewer.Shading)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Stringer("shading", mode),
	)

	v := &Viewer{cfg: cfg, scene: s}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.shaders = shader.NewLibrary(shaderAssets)
	width, height := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{Width: width, Height: height}, v.shaders)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if err := v.shaders.Load(); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to load shaders: %w", err)
	}

	if cfg.Viewer.WatchShaders && cfg.Viewer.ShaderDir != "" {
		v.watcher, err = assets.NewWatcher(cfg.Viewer.ShaderDir, "")
		if err != nil {
			// Hot reload is a convenience; the viewer runs without it.
			logger.Warn("shader watcher disabled", zap.Error(err))
		}
	}

	v.shots = debug.NewScreenshots("screenshots", "sceneview")
	v.input = input.New()
	v.controller = NewController(s, cfg.Controls, mode, NewConsolePrompter(os.Stdin, os.Stdout))
	v.controller.SetReloader(func() error { return v.shaders.Reload() })
	v.resize(width, height)

	logger.Info("viewer initialized successfully")
	return v, nil
}

// Controller returns the viewer's controller.
func (v *Viewer) Controller() *Controller {
	return v.controller
}

// Run runs the frame loop until the window is closed or Escape is pressed.
// F12 saves the current frame to the screenshots directory.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		if w, h, ok := v.input.Resized(); ok {
			v.resize(w, h)
		}
		if v.input.KeyPressed("escape") {
			v.running = false
			break
		}

		// 2. Update state
		v.controller.Tick(v.input)
		v.pollShaders()
		v.scene.Update()

		// 3. Render
		v.renderer.Begin()
		if err := v.scene.Render(v.renderer, v.controller.Mode()); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if v.input.KeyPressed("f12") {
			v.screenshot()
		}
		v.renderer.End()

		// 4. Present
		v.window.SwapBuffers()
		v.window.SetTitle(v.controller.Status(v.cfg.Window.Title))

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) resize(width, height int) {
	v.renderer.Resize(width, height)
	v.controller.SetViewport(width, height)
	v.scene.Camera.Base().Aspect = window.Aspect(width, height)
}

// screenshot saves the frame just rendered, before the buffers are swapped.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.shots.Save(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

func (v *Viewer) pollShaders() {
	if v.watcher == nil {
		return
	}
	changed := ShaderFiles(v.watcher.Poll())
	if len(changed) == 0 {
		return
	}
	logger.Info("shader sources changed", zap.Strings("files", changed))
	// Reload logs and keeps the previous programs on failure.
	_ = v.shaders.Reload(changed...)
}

// ShaderFiles filters file names down to shader sources of known modes.
func ShaderFiles(names []string) []string {
	var out []string
	for _, name := range names {
		if _, ok := shader.ModeForFile(name); ok {
			out = append(out, name)
		}
	}
	return out
}

// Close releases everything the viewer opened, in reverse order.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.shaders != nil {
		v.shaders.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
