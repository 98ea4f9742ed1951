package scene

import (
	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/math"
)

// Graph is an in-memory Source. Loaders build one from scene files; callers
// embedding the exporter can build one directly.
type Graph struct {
	root    *Group
	ids     identifiers
	groups  map[string]*Group
	meshes  map[string]*Mesh
	objects []*Object
	byName  map[string]*Object
}

// NewGraph creates a graph whose master group is named rootName.
func NewGraph(rootName string) *Graph {
	g := &Graph{
		groups: make(map[string]*Group),
		meshes: make(map[string]*Mesh),
		byName: make(map[string]*Object),
	}
	g.root, _ = g.AddGroup(rootName)
	return g
}

func (g *Graph) Root() *Group {
	return g.root
}

func (g *Graph) Group(name string) (*Group, bool) {
	grp, ok := g.groups[name]
	return grp, ok
}

// GroupByID returns the group with the given id, or nil.
func (g *Graph) GroupByID(id GroupID) *Group {
	return g.ids.lookup(id)
}

func (g *Graph) Objects() []*Object {
	return g.objects
}

// Object looks an object up by name.
func (g *Graph) Object(name string) (*Object, bool) {
	obj, ok := g.byName[name]
	return obj, ok
}

// Mesh looks a mesh up by name.
func (g *Graph) Mesh(name string) (*Mesh, bool) {
	m, ok := g.meshes[name]
	return m, ok
}

// Vertices returns the stored positions; a Graph holds already baked geometry.
func (g *Graph) Vertices(m *Mesh) ([]math.Vec3, error) {
	if m == nil {
		return nil, core.Configurationf("nil mesh")
	}
	if g.meshes[m.Name] != m {
		return nil, core.Configurationf("mesh '%s' does not belong to this scene", m.Name)
	}
	return m.Vertices, nil
}

// AddGroup creates an empty group. Group names are unique.
func (g *Graph) AddGroup(name string) (*Group, error) {
	if _, exists := g.groups[name]; exists {
		return nil, core.Configurationf("group '%s' already exists", name)
	}
	grp := &Group{Name: name}
	grp.ID = g.ids.acquire(grp)
	g.groups[name] = grp
	return grp, nil
}

// RemoveGroup deletes an unreferenced group. The master group cannot be removed.
func (g *Graph) RemoveGroup(name string) error {
	grp, ok := g.groups[name]
	if !ok {
		return core.Configurationf("group '%s' does not exist", name)
	}
	if grp == g.root {
		return core.Configurationf("cannot remove master group '%s'", name)
	}
	for _, other := range g.groups {
		for _, c := range other.Children {
			if c == grp {
				return core.Configurationf("group '%s' is a child of '%s'", name, other.Name)
			}
		}
	}
	for _, obj := range g.objects {
		if obj.Instance == grp {
			return core.Configurationf("group '%s' is instanced by object '%s'", name, obj.Name)
		}
	}
	delete(g.groups, name)
	return g.ids.release(grp.ID)
}

// AddMesh registers mesh data. Mesh names are unique.
func (g *Graph) AddMesh(name string, vertices []math.Vec3) (*Mesh, error) {
	if _, exists := g.meshes[name]; exists {
		return nil, core.Configurationf("mesh '%s' already exists", name)
	}
	m := &Mesh{Name: name, Vertices: vertices}
	g.meshes[name] = m
	return m, nil
}

// AddMeshObject appends an object holding m to the scene's object list.
func (g *Graph) AddMeshObject(name string, m *Mesh) (*Object, error) {
	if m == nil {
		return nil, core.Configurationf("object '%s' has no mesh", name)
	}
	return g.addObject(&Object{Name: name, Kind: ObjectKindMesh, Mesh: m})
}

// AddInstanceObject appends an object instancing target to the scene's object list.
func (g *Graph) AddInstanceObject(name string, target *Group) (*Object, error) {
	if target == nil {
		return nil, core.Configurationf("object '%s' instances no group", name)
	}
	return g.addObject(&Object{Name: name, Kind: ObjectKindInstance, Instance: target})
}

func (g *Graph) addObject(obj *Object) (*Object, error) {
	if _, exists := g.byName[obj.Name]; exists {
		return nil, core.Configurationf("object '%s' already exists", obj.Name)
	}
	g.objects = append(g.objects, obj)
	g.byName[obj.Name] = obj
	return obj, nil
}

// Link puts obj into grp. An object may be linked into several groups.
func (g *Graph) Link(grp *Group, obj *Object) {
	grp.Objects = append(grp.Objects, obj)
}

// Nest makes child a child group of parent.
func (g *Graph) Nest(parent, child *Group) {
	parent.Children = append(parent.Children, child)
}
