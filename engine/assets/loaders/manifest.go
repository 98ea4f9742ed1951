package loaders

import (
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/math"
	"github.com/spaghettifunk/collmesh/engine/scene"
)

// DefaultRootName names the master group when a manifest declares no group.
const DefaultRootName = "Scene"

type manifest struct {
	Root    string           `toml:"root" yaml:"root"`
	Meshes  []manifestMesh   `toml:"meshes" yaml:"meshes"`
	Objects []manifestObject `toml:"objects" yaml:"objects"`
	Groups  []manifestGroup  `toml:"groups" yaml:"groups"`
}

type manifestMesh struct {
	Name     string      `toml:"name" yaml:"name"`
	Vertices [][]float32 `toml:"vertices" yaml:"vertices"`
}

type manifestObject struct {
	Name     string `toml:"name" yaml:"name"`
	Mesh     string `toml:"mesh" yaml:"mesh"`
	Instance string `toml:"instance" yaml:"instance"`
}

type manifestGroup struct {
	Name     string   `toml:"name" yaml:"name"`
	Objects  []string `toml:"objects" yaml:"objects"`
	Children []string `toml:"children" yaml:"children"`
}

// TOMLLoader reads scene manifests written in TOML.
type TOMLLoader struct{}

func (tl *TOMLLoader) Load(path string) (*scene.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var m manifest
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, core.Configurationf("parse %s: %v", path, err)
	}
	return m.build(path)
}

// YAMLLoader reads scene manifests written in YAML.
type YAMLLoader struct{}

func (yl *YAMLLoader) Load(path string) (*scene.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var m manifest
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return nil, core.Configurationf("parse %s: %v", path, err)
	}
	return m.build(path)
}

// build turns the manifest into a graph. Groups are created first so that
// objects and groups may reference groups declared later in the file.
func (m *manifest) build(path string) (*scene.Graph, error) {
	root := m.Root
	if root == "" {
		root = DefaultRootName
		if len(m.Groups) > 0 {
			root = m.Groups[0].Name
		}
	}
	g := scene.NewGraph(root)
	wrap := func(err error) error {
		return errors.WithMessage(err, path)
	}

	rootDeclared := len(m.Groups) == 0 && m.Root == ""
	for _, mg := range m.Groups {
		if mg.Name == root {
			if rootDeclared {
				return nil, core.Configurationf("%s: group '%s' declared twice", path, root)
			}
			rootDeclared = true
			continue
		}
		if _, err := g.AddGroup(mg.Name); err != nil {
			return nil, wrap(err)
		}
	}
	if !rootDeclared {
		return nil, core.Configurationf("%s: root group '%s' is not declared", path, root)
	}

	for _, mm := range m.Meshes {
		vertices := make([]math.Vec3, len(mm.Vertices))
		for i, v := range mm.Vertices {
			if len(v) != 3 {
				return nil, core.Configurationf("%s: mesh '%s' vertex %d has %d components, want 3", path, mm.Name, i, len(v))
			}
			vertices[i] = math.NewVec3(v[0], v[1], v[2])
		}
		if _, err := g.AddMesh(mm.Name, vertices); err != nil {
			return nil, wrap(err)
		}
	}

	for _, mo := range m.Objects {
		switch {
		case mo.Mesh != "" && mo.Instance != "":
			return nil, core.Configurationf("%s: object '%s' has both a mesh and an instance", path, mo.Name)
		case mo.Mesh != "":
			mesh, ok := g.Mesh(mo.Mesh)
			if !ok {
				return nil, core.Configurationf("%s: object '%s' references unknown mesh '%s'", path, mo.Name, mo.Mesh)
			}
			if _, err := g.AddMeshObject(mo.Name, mesh); err != nil {
				return nil, wrap(err)
			}
		case mo.Instance != "":
			target, ok := g.Group(mo.Instance)
			if !ok {
				return nil, core.Configurationf("%s: object '%s' instances unknown group '%s'", path, mo.Name, mo.Instance)
			}
			if _, err := g.AddInstanceObject(mo.Name, target); err != nil {
				return nil, wrap(err)
			}
		default:
			return nil, core.Configurationf("%s: object '%s' has neither a mesh nor an instance", path, mo.Name)
		}
	}

	for _, mg := range m.Groups {
		grp, _ := g.Group(mg.Name)
		for _, name := range mg.Objects {
			obj, ok := g.Object(name)
			if !ok {
				return nil, core.Configurationf("%s: group '%s' links unknown object '%s'", path, mg.Name, name)
			}
			g.Link(grp, obj)
		}
		for _, name := range mg.Children {
			child, ok := g.Group(name)
			if !ok {
				return nil, core.Configurationf("%s: group '%s' nests unknown group '%s'", path, mg.Name, name)
			}
			g.Nest(grp, child)
		}
	}
	return g, nil
}
