// Package scene models the host scene graph that meshes are exported from.
package scene

import (
	"github.com/spaghettifunk/collmesh/engine/math"
)

// GroupID identifies a Group within the Graph that owns it.
type GroupID uint32

// Mesh is a named block of vertex positions, possibly shared by many objects.
type Mesh struct {
	Name     string
	Vertices []math.Vec3
}

// Group is a named container of objects and nested child groups.
// Groups reached through Children or instancing may form cycles.
type Group struct {
	ID       GroupID
	Name     string
	Objects  []*Object
	Children []*Group
}

type ObjectKind uint8

const (
	// Object holds mesh data.
	ObjectKindMesh ObjectKind = iota
	// Object instances another group.
	ObjectKindInstance
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectKindMesh:
		return "mesh"
	case ObjectKindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Object is a scene object. Kind selects which of Mesh or Instance is set.
type Object struct {
	Name     string
	Kind     ObjectKind
	Mesh     *Mesh
	Instance *Group
}

// Source is the query surface the exporter needs from the host scene.
type Source interface {
	// Root returns the master group of the scene.
	Root() *Group
	// Group looks a group up by name.
	Group(name string) (*Group, bool)
	// Objects returns every object of the scene in host order.
	Objects() []*Object
	// Vertices returns the final positions of m, after any deforming
	// operators of the host have been applied.
	Vertices(m *Mesh) ([]math.Vec3, error)
}
