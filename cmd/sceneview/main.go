// Package main is the entry point for the sceneview scene viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/assets"
	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/shader/shaders"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/viewer"
)

const appName = "sceneview"

// errNoScene means the user closed the file dialog without choosing a scene.
var errNoScene = errors.New("no scene selected")

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== sceneview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		if errors.Is(err, errNoScene) {
			logger.Info("no scene selected, exiting")
			return
		}
		logger.Error("viewer failed", zap.Error(err))
		dialog.Message("%v", err).Title(appName).Error()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	path, err := scenePath(cfg)
	if err != nil {
		return err
	}

	s, err := viewer.LoadScene(path)
	if err != nil {
		return err
	}

	shaderAssets := assets.NewManager()
	shaderAssets.AddFS("embedded", shaders.FS)
	if cfg.Viewer.ShaderDir != "" {
		if err := shaderAssets.AddDir(cfg.Viewer.ShaderDir); err != nil {
			return fmt.Errorf("shader directory: %w", err)
		}
	}
	defer shaderAssets.Close()

	v, err := viewer.New(cfg, s, shaderAssets)
	if err != nil {
		return err
	}
	defer v.Close()

	return v.Run()
}

// scenePath returns the scene from flags or config, or asks for one with a
// file dialog and remembers the choice.
func scenePath(cfg *config.Config) (string, error) {
	if cfg.Viewer.Scene != "" {
		return cfg.Viewer.Scene, nil
	}

	path, err := dialog.File().
		Filter("Scene files", "json").
		Filter("All Files", "*").
		Title("Open scene").
		Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", errNoScene
		}
		return "", fmt.Errorf("file dialog: %w", err)
	}

	cfg.Viewer.Scene = path
	if err := config.RememberScene(path); err != nil {
		logger.Warn("could not remember scene", zap.Error(err))
	}
	return path, nil
}
