package loaders

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/math"
	"github.com/spaghettifunk/collmesh/engine/scene"
)

// GLTFLoader reads .gltf and .glb documents.
//
// Every glTF scene becomes a group, the default scene being the master group.
// A node with children becomes a group nested in the group of its parent, and
// a node with a mesh becomes a mesh object linked into that same group.
// Objects are listed in node order. A mesh's vertices are the POSITION
// accessors of all its primitives, concatenated.
type GLTFLoader struct{}

func (gl *GLTFLoader) Load(path string) (*scene.Graph, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, core.Configurationf("open glTF %s: %v", path, err)
	}
	g, err := buildGLTF(doc)
	if err != nil {
		return nil, core.Configurationf("glTF %s: %v", path, err)
	}
	return g, nil
}

func buildGLTF(doc *gltf.Document) (*scene.Graph, error) {
	groupNames := newNamer()
	meshNames := newNamer()
	objectNames := newNamer()

	rootScene := 0
	if doc.Scene != nil {
		rootScene = *doc.Scene
	}
	if len(doc.Scenes) > 0 && (rootScene < 0 || rootScene >= len(doc.Scenes)) {
		return nil, errors.Errorf("default scene %d out of range", rootScene)
	}

	sceneNames := make([]string, len(doc.Scenes))
	for i, s := range doc.Scenes {
		sceneNames[i] = groupNames.unique(s.Name, DefaultRootName)
	}
	rootName := DefaultRootName
	if len(doc.Scenes) > 0 {
		rootName = sceneNames[rootScene]
	} else {
		groupNames.unique(rootName, rootName)
	}
	g := scene.NewGraph(rootName)

	sceneGroups := make([]*scene.Group, len(doc.Scenes))
	for i := range doc.Scenes {
		if i == rootScene {
			sceneGroups[i] = g.Root()
			continue
		}
		grp, err := g.AddGroup(sceneNames[i])
		if err != nil {
			return nil, err
		}
		sceneGroups[i] = grp
	}

	meshes := make([]*scene.Mesh, len(doc.Meshes))
	for i, m := range doc.Meshes {
		vertices, err := readPositions(doc, m)
		if err != nil {
			return nil, errors.Errorf("mesh %d: %v", i, err)
		}
		mesh, err := g.AddMesh(meshNames.unique(m.Name, "Mesh"), vertices)
		if err != nil {
			return nil, err
		}
		meshes[i] = mesh
	}

	nodeGroups := make([]*scene.Group, len(doc.Nodes))
	nodeObjects := make([]*scene.Object, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if len(n.Children) > 0 {
			grp, err := g.AddGroup(groupNames.unique(n.Name, "Node"))
			if err != nil {
				return nil, err
			}
			nodeGroups[i] = grp
		}
		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(meshes) {
				return nil, errors.Errorf("node %d references mesh %d out of range", i, *n.Mesh)
			}
			obj, err := g.AddMeshObject(objectNames.unique(n.Name, "Object"), meshes[*n.Mesh])
			if err != nil {
				return nil, err
			}
			nodeObjects[i] = obj
		}
	}

	link := func(grp *scene.Group, node int) error {
		if node < 0 || node >= len(doc.Nodes) {
			return errors.Errorf("node %d out of range", node)
		}
		if obj := nodeObjects[node]; obj != nil {
			g.Link(grp, obj)
		}
		if child := nodeGroups[node]; child != nil {
			g.Nest(grp, child)
		}
		return nil
	}

	if len(doc.Scenes) == 0 {
		// No scene: every node without a parent hangs off the master group.
		parented := make([]bool, len(doc.Nodes))
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				if c >= 0 && c < len(parented) {
					parented[c] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !parented[i] {
				if err := link(g.Root(), i); err != nil {
					return nil, err
				}
			}
		}
	}
	for i, s := range doc.Scenes {
		for _, node := range s.Nodes {
			if err := link(sceneGroups[i], node); err != nil {
				return nil, err
			}
		}
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if err := link(nodeGroups[i], c); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func readPositions(doc *gltf.Document, m *gltf.Mesh) ([]math.Vec3, error) {
	var vertices []math.Vec3
	for _, p := range m.Primitives {
		idx, ok := p.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if idx < 0 || idx >= len(doc.Accessors) {
			return nil, errors.Errorf("POSITION accessor %d out of range", idx)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, err
		}
		for _, v := range positions {
			vertices = append(vertices, math.NewVec3(v[0], v[1], v[2]))
		}
	}
	return vertices, nil
}

// namer hands out unique names, suffixing repeats the way Blender does.
type namer map[string]struct{}

func newNamer() namer {
	return make(namer)
}

func (n namer) unique(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	candidate := name
	for i := 1; ; i++ {
		if _, taken := n[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s.%03d", name, i)
	}
	n[candidate] = struct{}{}
	return candidate
}
