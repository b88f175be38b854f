// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Controls ControlsConfig `yaml:"controls"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ViewerConfig holds scene and shading settings.
type ViewerConfig struct {
	Scene        string `yaml:"scene"`         // Path to the JSON scene description
	ShaderDir    string `yaml:"shader_dir"`    // Overrides the embedded GLSL sources when set
	WatchShaders bool   `yaml:"watch_shaders"` // Reload shaders when files in ShaderDir change
	Shading      string `yaml:"shading"`       // wireframe, flat, gouraud or phong
}

// ControlsConfig holds mouse and keyboard sensitivities.
type ControlsConfig struct {
	OrbitSpeed float32 `yaml:"orbit_speed"` // Degrees per pixel of drag
	PanSpeed   float32 `yaml:"pan_speed"`   // World units per pixel of drag
	ZoomStep   float32 `yaml:"zoom_step"`   // Fractional zoom change per key press
	ScaleStep  float32 `yaml:"scale_step"`  // Fractional scale change per key press
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "sceneview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Viewer: ViewerConfig{
			Scene:        "",
			ShaderDir:    "",
			WatchShaders: false,
			Shading:      "flat",
		},
		Controls: ControlsConfig{
			OrbitSpeed: 1.0,
			PanSpeed:   0.01,
			ZoomStep:   0.1,
			ScaleStep:  0.1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
