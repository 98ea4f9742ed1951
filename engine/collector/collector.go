// Package collector selects the meshes to export from a group graph.
package collector

import (
	"github.com/dlclark/regexp2"

	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/scene"
)

// DefaultPattern matches every mesh name.
const DefaultPattern = ".*"

// Set is the set of meshes slated for export. Iteration order is meaningless.
type Set map[*scene.Mesh]struct{}

// Names returns the names of the meshes in s, sorted.
func (s Set) Names() []string {
	names := make(map[string]struct{}, len(s))
	for m := range s {
		names[m.Name] = struct{}{}
	}
	return core.SortedKeys(names)
}

// Pattern matches mesh names from their first character, like a
// "match at beginning" regular expression call.
type Pattern struct {
	expr string
	re   *regexp2.Regexp
}

// CompilePattern compiles expr. An empty expr is DefaultPattern.
func CompilePattern(expr string) (*Pattern, error) {
	if expr == "" {
		expr = DefaultPattern
	}
	re, err := regexp2.Compile(`\A(?:`+expr+`)`, regexp2.None)
	if err != nil {
		return nil, core.Configurationf("invalid name pattern /%s/: %v", expr, err)
	}
	return &Pattern{expr: expr, re: re}, nil
}

func (p *Pattern) String() string {
	return p.expr
}

// Match reports whether name matches the pattern.
func (p *Pattern) Match(name string) (bool, error) {
	ok, err := p.re.MatchString(name)
	if err != nil {
		return false, core.Configurationf("matching /%s/ against '%s': %v", p.expr, name, err)
	}
	return ok, nil
}

// Collector walks groups depth-first. Each group is processed at most once,
// which also bounds cyclic instancing to one visit per group.
type Collector struct {
	pattern *Pattern
	visited map[*scene.Group]struct{}
	groups  []string
	result  Set
}

func New(pattern *Pattern) *Collector {
	return &Collector{
		pattern: pattern,
		visited: make(map[*scene.Group]struct{}),
		result:  make(Set),
	}
}

// Collect returns the distinct meshes reachable from root whose name matches pattern.
// The pattern is validated before anything is visited.
func Collect(root *scene.Group, pattern string) (Set, error) {
	p, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	c := New(p)
	if err := c.Visit(root); err != nil {
		return nil, err
	}
	return c.Result(), nil
}

// Visit adds the matching meshes of grp and of everything it reaches.
func (c *Collector) Visit(grp *scene.Group) error {
	if grp == nil {
		return core.Configurationf("no group to collect from")
	}
	if _, done := c.visited[grp]; done {
		return nil
	}
	c.visited[grp] = struct{}{}
	c.groups = append(c.groups, grp.Name)

	for _, obj := range grp.Objects {
		switch obj.Kind {
		case scene.ObjectKindMesh:
			if obj.Mesh == nil {
				return core.Configurationf("object '%s' in group '%s' has no mesh", obj.Name, grp.Name)
			}
			ok, err := c.pattern.Match(obj.Mesh.Name)
			if err != nil {
				return err
			}
			if ok {
				c.result[obj.Mesh] = struct{}{}
			}
		case scene.ObjectKindInstance:
			if err := c.Visit(obj.Instance); err != nil {
				return err
			}
		}
	}
	for _, child := range grp.Children {
		if err := c.Visit(child); err != nil {
			return err
		}
	}
	return nil
}

// Result returns the collected set.
func (c *Collector) Result() Set {
	return c.result
}

// Groups returns the names of the visited groups in visit order.
func (c *Collector) Groups() []string {
	return c.groups
}
