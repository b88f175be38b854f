package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RememberScene records scene as the default scene in the user's config file.
// Other settings are taken from that file, so flag overrides of the current
// run are not persisted.
func RememberScene(scene string) error {
	return rememberSceneAt(filepath.Join(ConfigDir(), "config.yaml"), scene)
}

func rememberSceneAt(path, scene string) error {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	cfg.Viewer.Scene = scene
	return cfg.SaveTo(path)
}

// SaveTo writes the config to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
