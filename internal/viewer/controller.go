// Package viewer ties the scene graph to the window: it maps per-tick input
// to camera, object and light changes and runs the frame loop.
package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/gfx"
	"github.com/Faultbox/sceneview/internal/engine/input"
	"github.com/Faultbox/sceneview/internal/engine/scene"
	"github.com/Faultbox/sceneview/internal/logger"
)

// Poller exposes the input state of one tick. *input.Input implements it.
type Poller interface {
	KeyPressed(name string) bool
	MouseDown(button int) bool
	MouseDelta() (dx, dy int)
	MousePosition() (x, y int)
}

var (
	yAxis = mgl32.Vec3{0, 1, 0}
	xAxis = mgl32.Vec3{1, 0, 0}
)

// Controller holds the viewer's interactive state and applies the keyboard
// and mouse commands to the scene.
type Controller struct {
	scene    *scene.Scene
	controls config.ControlsConfig
	prompter Prompter
	reload   func() error

	mode     gfx.ShadingMode
	selected scene.Node

	width, height int
}

// NewController returns a controller over s. A nil prompter disables light editing.
func NewController(s *scene.Scene, controls config.ControlsConfig, mode gfx.ShadingMode, p Prompter) *Controller {
	return &Controller{
		scene:    s,
		controls: controls,
		prompter: p,
		mode:     mode,
		width:    1,
		height:   1,
	}
}

// SetReloader installs the action bound to the reload key.
func (c *Controller) SetReloader(fn func() error) {
	c.reload = fn
}

// SetViewport sets the window size used to turn the pointer into a ray.
func (c *Controller) SetViewport(width, height int) {
	c.width, c.height = width, height
}

// Mode returns the active shading mode.
func (c *Controller) Mode() gfx.ShadingMode { return c.mode }

// Projection returns the active camera kind.
func (c *Controller) Projection() camera.Kind { return c.scene.Camera.Kind() }

// Selected returns the selected node, or nil.
func (c *Controller) Selected() scene.Node { return c.selected }

// Status is a one-line summary of the state for the window title.
func (c *Controller) Status(title string) string {
	sel := "none"
	if c.selected != nil {
		sel = c.selected.Name()
	}
	return fmt.Sprintf("%s | %s | %s | selected: %s", title, c.mode, c.Projection(), sel)
}

// Tick applies one tick of input.
func (c *Controller) Tick(in Poller) {
	c.keys(in)
	c.drag(in)
}

func (c *Controller) keys(in Poller) {
	for i, mode := range gfx.ShadingModes {
		if in.KeyPressed(fmt.Sprint(i + 1)) {
			c.mode = mode
			logger.Debug("shading mode", zap.Stringer("mode", mode))
		}
	}

	if in.KeyPressed("p") {
		c.scene.SwitchProjection(camera.Perspective)
	}
	if in.KeyPressed("o") {
		c.scene.SwitchProjection(camera.Orthographic)
	}

	if in.KeyPressed("r") {
		c.pick(in)
	}

	// Reloading keeps the current shading mode.
	if in.KeyPressed("q") && c.reload != nil {
		if err := c.reload(); err != nil {
			logger.Warn("reload failed", zap.Error(err))
		}
	}

	if in.KeyPressed("e") {
		c.editLight()
	}

	if in.KeyPressed("=") {
		c.zoom(1+c.controls.ScaleStep, 1-c.controls.ZoomStep)
	}
	if in.KeyPressed("-") {
		c.zoom(1-c.controls.ScaleStep, 1+c.controls.ZoomStep)
	}
}

func (c *Controller) pick(in Poller) {
	x, y := in.MousePosition()
	c.selected = c.scene.Pick(float32(x), float32(y), float32(c.width), float32(c.height))
	if c.selected != nil {
		logger.Info("selected", zap.String("node", c.selected.Name()))
	} else {
		logger.Info("selection cleared")
	}
}

// zoom scales the selected node, or the camera zoom when nothing is selected.
func (c *Controller) zoom(scale, zoom float32) {
	if c.selected != nil {
		b := c.selected.Base()
		b.SetScale(b.Local().Scale.Mul(scale))
		return
	}
	c.scene.Camera.Base().Zoom *= zoom
}

func (c *Controller) editLight() {
	if c.prompter == nil {
		return
	}
	edit, ok := c.prompter.EditLight()
	if !ok {
		return
	}
	if !c.scene.Lights.Edit(edit.Kind, edit.Index, edit.Intensity, edit.Color, edit.Vector) {
		logger.Debug("light edit ignored", zap.Stringer("kind", edit.Kind), zap.Int("index", edit.Index))
		return
	}
	logger.Info("light edited",
		zap.Stringer("kind", edit.Kind),
		zap.Int("index", edit.Index),
		zap.Float32("intensity", edit.Intensity))
}

// drag rotates with the left button and pans with the right one. Both act on
// the selected node if there is one, otherwise on the camera.
func (c *Controller) drag(in Poller) {
	dx, dy := in.MouseDelta()
	if dx == 0 && dy == 0 {
		return
	}
	fx, fy := float32(dx), float32(dy)

	switch {
	case in.MouseDown(input.ButtonLeft):
		orbit := c.controls.OrbitSpeed
		if c.selected != nil {
			b := c.selected.Base()
			r := b.Local().Rotation
			b.SetRotation(mgl32.Vec3{r[0] + fy*orbit, r[1] + fx*orbit, r[2]})
			return
		}
		pose := c.scene.Camera.Base()
		if dx != 0 {
			pose.Rotate(fx*orbit, yAxis)
		}
		if dy != 0 {
			pose.Rotate(fy*orbit, xAxis)
		}

	case in.MouseDown(input.ButtonRight):
		pan := c.controls.PanSpeed
		if c.selected != nil {
			b := c.selected.Base()
			b.SetTranslation(b.Local().Translation.Add(mgl32.Vec3{fx * pan, -fy * pan, 0}))
			return
		}
		c.scene.Camera.Base().Pan(-fx*pan, fy*pan)
	}
}
