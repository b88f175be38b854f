package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Path to scene description (JSON)")
	flagShaders    = flag.String("shaders", "", "Directory with GLSL shader sources")
	flagWatch      = flag.Bool("watch", false, "Reload shaders when they change on disk")
	flagShading    = flag.String("shading", "", "Initial shading mode (wireframe, flat, gouraud, phong)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
// A single positional argument is taken as the scene path.
func ParseFlags() {
	flag.Parse()
	if *flagScene == "" && flag.NArg() > 0 {
		*flagScene = flag.Arg(0)
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Viewer.Scene = *flagScene
	}
	if *flagShaders != "" {
		cfg.Viewer.ShaderDir = *flagShaders
	}
	if *flagWatch {
		cfg.Viewer.WatchShaders = true
	}
	if *flagShading != "" {
		cfg.Viewer.Shading = *flagShading
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
