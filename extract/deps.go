package extract

import (
	"github.com/reoring/schemac"
	"github.com/reoring/schemac/registry"
)

// dependencies lists the named types t structurally depends on: the named
// bases of its field and member types, searched through anonymous members.
// Reference targets and documents are looked up by name only and are not
// dependencies.
func dependencies(t *registry.Type) []*registry.Type {
	var deps []*registry.Type
	seen := map[*registry.Type]bool{t: true}
	var walk func(cur *registry.Type)
	walk = func(cur *registry.Type) {
		var members []*registry.Type
		for _, f := range gatherFields(cur) {
			members = append(members, f.Type)
		}
		if cur.JSONType() == schemac.JSONArray {
			members = append(members, cur.Of()...)
		}
		for _, m := range members {
			if m.Kind().IsReference() || m.Kind() == schemac.KindDocument {
				continue
			}
			if named := m.NearestNamed(); named != nil && !named.IsCore() && named != m {
				if !seen[named] {
					seen[named] = true
					deps = append(deps, named)
				}
				continue
			}
			if !seen[m] {
				seen[m] = true
				walk(m)
			}
		}
	}
	walk(t)
	return deps
}

// sortByDependencies orders the non-core types of reg so that every type
// follows the types it depends on. Registry order breaks ties. A type
// reached again while it is being visited closes a cycle and is skipped;
// the extractor renders that edge as an inline node.
func sortByDependencies(reg *registry.Registry) []*registry.Type {
	var out []*registry.Type
	visiting := map[*registry.Type]bool{}
	visited := map[*registry.Type]bool{}
	var visit func(t *registry.Type)
	visit = func(t *registry.Type) {
		if visited[t] || visiting[t] {
			return
		}
		visiting[t] = true
		for _, dep := range dependencies(t) {
			visit(dep)
		}
		delete(visiting, t)
		visited[t] = true
		out = append(out, t)
	}
	for _, name := range reg.TypeNames() {
		t, ok := reg.Get(name)
		if !ok || t.IsCore() {
			continue
		}
		visit(t)
	}
	return out
}
