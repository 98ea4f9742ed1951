package loaders

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/math"
)

func index(i int) *int {
	return &i
}

// propsDocument has a "Rock" mesh of two primitives shared by two nodes, one
// at the top of the scene and one under a "Props" node, plus an unnamed mesh.
func propsDocument() *gltf.Document {
	doc := gltf.NewDocument()
	p0 := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}})
	p1 := modeler.WritePosition(doc, [][3]float32{{0, 1, 0}})
	p2 := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}})

	doc.Meshes = []*gltf.Mesh{
		{Name: "Rock", Primitives: []*gltf.Primitive{
			{Attributes: map[string]int{gltf.POSITION: p0}},
			{Attributes: map[string]int{gltf.POSITION: p1}},
		}},
		{Primitives: []*gltf.Primitive{
			{Attributes: map[string]int{gltf.POSITION: p2}},
		}},
	}
	doc.Nodes = []*gltf.Node{
		{Name: "Rock.001", Mesh: index(0)},
		{Name: "Props", Children: []int{2, 3}},
		{Name: "Rock.001", Mesh: index(0)},
		{Name: "Pebble", Mesh: index(1)},
	}
	doc.Scenes[0].Name = "Level"
	doc.Scenes[0].Nodes = []int{0, 1}
	return doc
}

func TestGLTFLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.glb")
	require.NoError(t, gltf.SaveBinary(propsDocument(), path))

	g, err := (&GLTFLoader{}).Load(path)
	require.NoError(t, err)

	root := g.Root()
	assert.Equal(t, "Level", root.Name)
	require.Len(t, root.Objects, 1)
	require.Len(t, root.Children, 1)

	props := root.Children[0]
	assert.Equal(t, "Props", props.Name)
	require.Len(t, props.Objects, 2)
	assert.Equal(t, "Rock.001.001", props.Objects[0].Name)
	assert.Same(t, root.Objects[0].Mesh, props.Objects[0].Mesh)
	assert.Equal(t, "Mesh", props.Objects[1].Mesh.Name)

	var names []string
	for _, o := range g.Objects() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"Rock.001", "Rock.001.001", "Pebble"}, names)

	rock, ok := g.Mesh("Rock")
	require.True(t, ok)
	assert.Equal(t, []math.Vec3{{}, {X: 1}, {Y: 1}}, rock.Vertices)
}

func TestGLTFWithoutScene(t *testing.T) {
	doc := propsDocument()
	doc.Scenes = nil
	doc.Scene = nil

	g, err := buildGLTF(doc)
	require.NoError(t, err)
	assert.Equal(t, DefaultRootName, g.Root().Name)
	assert.Len(t, g.Root().Objects, 1)
	assert.Len(t, g.Root().Children, 1)
}

func TestGLTFBadReferences(t *testing.T) {
	doc := propsDocument()
	doc.Nodes[1].Children = []int{9}
	_, err := buildGLTF(doc)
	assert.Error(t, err)

	doc = propsDocument()
	doc.Nodes[0].Mesh = index(7)
	_, err = buildGLTF(doc)
	assert.Error(t, err)
}

func TestGLTFMissingFile(t *testing.T) {
	_, err := (&GLTFLoader{}).Load(filepath.Join(t.TempDir(), "missing.gltf"))
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestNamer(t *testing.T) {
	n := newNamer()
	assert.Equal(t, "Mesh", n.unique("", "Mesh"))
	assert.Equal(t, "Mesh.001", n.unique("Mesh", "Mesh"))
	assert.Equal(t, "Mesh.002", n.unique("", "Mesh"))
	assert.Equal(t, "Rock", n.unique("Rock", "Mesh"))
}
