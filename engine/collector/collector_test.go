package collector

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/math"
	"github.com/spaghettifunk/collmesh/engine/scene"
)

func mesh(t *testing.T, g *scene.Graph, name string) *scene.Mesh {
	t.Helper()
	m, err := g.AddMesh(name, []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}})
	require.NoError(t, err)
	return m
}

func meshObject(t *testing.T, g *scene.Graph, grp *scene.Group, name string, m *scene.Mesh) {
	t.Helper()
	obj, err := g.AddMeshObject(name, m)
	require.NoError(t, err)
	g.Link(grp, obj)
}

func instance(t *testing.T, g *scene.Graph, grp *scene.Group, name string, target *scene.Group) {
	t.Helper()
	obj, err := g.AddInstanceObject(name, target)
	require.NoError(t, err)
	g.Link(grp, obj)
}

func TestCollectSharedMesh(t *testing.T) {
	g := scene.NewGraph("Scene")
	rock := mesh(t, g, "Rock")
	tree := mesh(t, g, "Tree")
	meshObject(t, g, g.Root(), "O1", rock)
	meshObject(t, g, g.Root(), "O2", rock)
	meshObject(t, g, g.Root(), "O3", tree)

	set, err := Collect(g.Root(), "Rock")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock"}, set.Names())
	assert.Contains(t, set, rock)
}

func TestCollectPatternIsAnchoredAtStart(t *testing.T) {
	g := scene.NewGraph("Scene")
	for _, name := range []string{"Rock", "Rock.001", "BigRock", "Tree"} {
		meshObject(t, g, g.Root(), name+".obj", mesh(t, g, name))
	}

	set, err := Collect(g.Root(), "Rock")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock", "Rock.001"}, set.Names())

	set, err = Collect(g.Root(), "")
	require.NoError(t, err)
	assert.Len(t, set, 4)

	set, err = Collect(g.Root(), `.*Rock$`)
	require.NoError(t, err)
	assert.Equal(t, []string{"BigRock", "Rock"}, set.Names())
}

func TestCollectInvalidPatternFailsBeforeTraversal(t *testing.T) {
	_, err := Collect(nil, "Rock(")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestCollectNilRoot(t *testing.T) {
	_, err := Collect(nil, "")
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestCollectFollowsInstancesAndChildren(t *testing.T) {
	g := scene.NewGraph("Scene")
	props, err := g.AddGroup("Props")
	require.NoError(t, err)
	nested, err := g.AddGroup("Nested")
	require.NoError(t, err)
	unreached, err := g.AddGroup("Unreached")
	require.NoError(t, err)

	meshObject(t, g, g.Root(), "Ground", mesh(t, g, "Ground"))
	instance(t, g, g.Root(), "Props.inst", props)
	meshObject(t, g, props, "Crate", mesh(t, g, "Crate"))
	g.Nest(props, nested)
	meshObject(t, g, nested, "Barrel", mesh(t, g, "Barrel"))
	meshObject(t, g, unreached, "Lamp", mesh(t, g, "Lamp"))

	c := New(mustPattern(t, ""))
	require.NoError(t, c.Visit(g.Root()))
	assert.Equal(t, []string{"Barrel", "Crate", "Ground"}, c.Result().Names())
	assert.Equal(t, []string{"Scene", "Props", "Nested"}, c.Groups())
}

func TestCollectMeshThroughTwoPathsOnce(t *testing.T) {
	g := scene.NewGraph("Scene")
	a, _ := g.AddGroup("A")
	b, _ := g.AddGroup("B")
	shared, _ := g.AddGroup("Shared")
	instance(t, g, g.Root(), "A.inst", a)
	instance(t, g, g.Root(), "B.inst", b)
	instance(t, g, a, "A.shared", shared)
	instance(t, g, b, "B.shared", shared)
	meshObject(t, g, shared, "Pillar", mesh(t, g, "Pillar"))

	c := New(mustPattern(t, ""))
	require.NoError(t, c.Visit(g.Root()))
	assert.Len(t, c.Result(), 1)
	assert.Equal(t, []string{"Scene", "A", "Shared", "B"}, c.Groups())
}

func TestCollectCycleMatchesAcyclicGraph(t *testing.T) {
	build := func(cyclic bool) *scene.Graph {
		g := scene.NewGraph("Scene")
		a, _ := g.AddGroup("A")
		b, _ := g.AddGroup("B")
		instance(t, g, g.Root(), "A.inst", a)
		instance(t, g, a, "B.inst", b)
		if cyclic {
			instance(t, g, b, "A.back", a)
			g.Nest(b, g.Root())
		}
		meshObject(t, g, a, "Wall", mesh(t, g, "Wall"))
		meshObject(t, g, b, "Floor", mesh(t, g, "Floor"))
		return g
	}

	cyclic, err := Collect(build(true).Root(), "")
	require.NoError(t, err)
	acyclic, err := Collect(build(false).Root(), "")
	require.NoError(t, err)
	assert.Equal(t, acyclic.Names(), cyclic.Names())
	assert.Equal(t, []string{"Floor", "Wall"}, cyclic.Names())
}

func TestCollectSelfInstancingGroup(t *testing.T) {
	g := scene.NewGraph("Scene")
	instance(t, g, g.Root(), "Self", g.Root())
	meshObject(t, g, g.Root(), "Box", mesh(t, g, "Box"))

	set, err := Collect(g.Root(), "Box")
	require.NoError(t, err)
	assert.Len(t, set, 1)
}

func TestCollectEmptyGroupStillVisited(t *testing.T) {
	g := scene.NewGraph("Scene")
	empty, _ := g.AddGroup("Empty")
	g.Nest(g.Root(), empty)

	c := New(mustPattern(t, ""))
	require.NoError(t, c.Visit(g.Root()))
	assert.Empty(t, c.Result())
	assert.Equal(t, []string{"Scene", "Empty"}, c.Groups())
}

func mustPattern(t *testing.T, expr string) *Pattern {
	t.Helper()
	p, err := CompilePattern(expr)
	require.NoError(t, err)
	return p
}

func TestCollectGroupsBuiltWithoutGraph(t *testing.T) {
	rock := &scene.Mesh{Name: "Rock"}
	tree := &scene.Mesh{Name: "Tree"}
	props := &scene.Group{Name: "Props", Objects: []*scene.Object{
		{Name: "T", Kind: scene.ObjectKindMesh, Mesh: tree},
	}}
	root := &scene.Group{
		Name:     "Scene",
		Objects:  []*scene.Object{{Name: "R", Kind: scene.ObjectKindMesh, Mesh: rock}},
		Children: []*scene.Group{props},
	}

	set, err := Collect(root, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock", "Tree"}, set.Names())
}

func TestCollectAcrossGraphs(t *testing.T) {
	a := scene.NewGraph("A")
	b := scene.NewGraph("B")
	meshObject(t, b, b.Root(), "T", mesh(t, b, "Tree"))
	// Both roots carry the same id within their own graph.
	require.Equal(t, a.Root().ID, b.Root().ID)
	a.Nest(a.Root(), b.Root())

	set, err := Collect(a.Root(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tree"}, set.Names())
}

func TestCollectMeshObjectWithoutMesh(t *testing.T) {
	root := &scene.Group{Name: "Scene", Objects: []*scene.Object{
		{Name: "Broken", Kind: scene.ObjectKindMesh},
	}}

	_, err := Collect(root, "")
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}
