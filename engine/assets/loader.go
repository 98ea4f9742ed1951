package assets

import (
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/collmesh/engine/assets/loaders"
	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/scene"
)

// Loader builds a scene graph from a file.
type Loader interface {
	Load(path string) (*scene.Graph, error)
}

var registry = map[string]Loader{
	".toml": &loaders.TOMLLoader{},
	".yaml": &loaders.YAMLLoader{},
	".yml":  &loaders.YAMLLoader{},
	".gltf": &loaders.GLTFLoader{},
	".glb":  &loaders.GLTFLoader{},
}

// RegisterLoader makes Load use l for files ending in ext (".xyz").
func RegisterLoader(ext string, l Loader) {
	registry[strings.ToLower(ext)] = l
}

// Load reads the scene at path with the loader registered for its extension.
func Load(path string) (scene.Source, error) {
	l, err := determineLoader(path)
	if err != nil {
		return nil, err
	}
	g, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	core.LogDebug("Loaded scene '%s': %d objects.", path, len(g.Objects()))
	return g, nil
}

func determineLoader(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := registry[ext]
	if !ok {
		return nil, core.Configurationf("no scene loader registered for '%s' files (%s)", ext, path)
	}
	return l, nil
}
