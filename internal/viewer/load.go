package viewer

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/assets"
	"github.com/Faultbox/sceneview/internal/engine/scene"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/formats"
)

// SceneLoader resolves mesh paths from a scene file against the scene's
// directory. Absolute paths are used as they are.
type SceneLoader struct {
	dir    string
	assets *assets.Manager
}

// NewSceneLoader returns a loader for meshes referenced by the scene at path.
func NewSceneLoader(path string, m *assets.Manager) (*SceneLoader, error) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return &SceneLoader{dir: dir, assets: m}, nil
}

// Load implements scene.Loader.
func (l *SceneLoader) Load(name string) ([]byte, error) {
	p := filepath.FromSlash(name)
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.dir, p)
	}
	return l.assets.Load(p)
}

// LoadScene parses the scene file at path and builds it, reading meshes
// relative to the file.
func LoadScene(path string) (*scene.Scene, error) {
	desc, err := formats.ParseSceneFile(path)
	if err != nil {
		return nil, err
	}

	loader, err := NewSceneLoader(path, assets.NewManager())
	if err != nil {
		return nil, err
	}

	s, stats, err := scene.Build(desc, loader)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}
	if stats.Problems > 0 {
		logger.Warn("scene loaded with malformed mesh records",
			zap.String("scene", path),
			zap.Int("problems", stats.Problems))
	}
	return s, nil
}
