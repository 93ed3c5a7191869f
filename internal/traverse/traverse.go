// Package traverse is the depth-first walk over raw declarations that both the
// compiler and the validator specialize with their own visitor.
package traverse

import (
	"fmt"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/schemac"
)

// Visitor builds the result for one declaration. decl is whatever the caller
// supplied, so visitors must tolerate malformed input.
type Visitor[T any] func(decl any, c *Context[T]) T

const unnamedPrefix = "__unnamed_"

// UnnamedKey is the key a nameless top-level declaration is stored under.
func UnnamedKey(index int) string { return unnamedPrefix + strconv.Itoa(index) }

type walker[T any] struct {
	visitor Visitor[T]

	keys      []string
	typeNames []string
	coreNames []string
	decls     map[string]map[string]any
	core      map[string]map[string]any
	results   map[string]T
	coreRes   map[string]T
	known     map[string]map[string]any
	knownRes  map[string]T
	knownList []string
	reserved  map[string]bool
	dupes     map[string]bool
}

// Option configures a walk.
type Option struct {
	// Known declarations resolve through GetType and Declaration like core
	// types but are neither reserved nor reported as top-level results. A
	// known name the caller also declares is skipped.
	Known []schemac.Declaration
}

// Context is handed to the visitor for every declaration.
type Context[T any] struct {
	w     *walker[T]
	root  bool
	index int
}

// IsRoot is true only for top-level declarations.
func (c *Context[T]) IsRoot() bool { return c.root }

// Index is the position of the declaration among its siblings.
func (c *Context[T]) Index() int { return c.index }

// Visit runs the visitor on a child declaration.
func (c *Context[T]) Visit(decl any, index int) T {
	return c.w.visit(false, decl, index)
}

// GetType returns the visited result for a declared or core type name. A name
// that is declared but not yet visited reports ok with a zero result. The
// name "type" never resolves.
func (c *Context[T]) GetType(name string) (T, bool) {
	var zero T
	if name == "type" {
		return zero, false
	}
	if _, ok := c.w.core[name]; ok {
		return c.w.coreRes[name], true
	}
	if _, ok := c.w.decls[name]; ok {
		return c.w.results[name], true
	}
	if _, ok := c.w.known[name]; ok {
		return c.w.knownRes[name], true
	}
	return zero, false
}

// Declaration returns the raw declaration registered under name.
func (c *Context[T]) Declaration(name string) (map[string]any, bool) {
	if name == "type" {
		return nil, false
	}
	if d, ok := c.w.core[name]; ok {
		return d, true
	}
	if d, ok := c.w.decls[name]; ok && d != nil {
		return d, true
	}
	d, ok := c.w.known[name]
	return d, ok
}

// TypeNames lists declared names, then known names, then core type names.
func (c *Context[T]) TypeNames() []string {
	out := append([]string(nil), c.w.typeNames...)
	out = append(out, c.w.knownList...)
	return append(out, c.w.coreNames...)
}

// IsReserved reports whether name is "type", a core type name or reserved
// for future use.
func (c *Context[T]) IsReserved(name string) bool { return c.w.reserved[name] }

// IsDuplicate reports whether more than one top-level declaration uses name.
func (c *Context[T]) IsDuplicate(name string) bool { return c.w.dupes[name] }

// IsCore reports whether name is one of the core declarations.
func (c *Context[T]) IsCore(name string) bool {
	_, ok := c.w.core[name]
	return ok
}

func (w *walker[T]) visit(root bool, decl any, index int) T {
	return w.visitor(decl, &Context[T]{w: w, root: root, index: index})
}

// Walk visits every core declaration and then every top-level declaration in
// order.
func Walk[T any](decls []any, core []schemac.Declaration, visitor Visitor[T], opts ...Option) *Result[T] {
	w := &walker[T]{
		visitor:  visitor,
		decls:    map[string]map[string]any{},
		core:     map[string]map[string]any{},
		results:  map[string]T{},
		coreRes:  map[string]T{},
		known:    map[string]map[string]any{},
		knownRes: map[string]T{},
		reserved: map[string]bool{"type": true},
		dupes:    map[string]bool{},
	}
	for _, n := range schemac.ReservedTypeNames() {
		w.reserved[n] = true
	}
	for _, c := range core {
		name, _ := schemac.Str(c, "name")
		w.coreNames = append(w.coreNames, name)
		w.core[name] = c
		w.reserved[name] = true
	}

	counts := map[string]int{}
	for i, d := range decls {
		m, _ := schemac.AsMap(d)
		name, _ := schemac.Str(m, "name")
		key := name
		if name != "" {
			w.typeNames = append(w.typeNames, name)
			counts[name]++
		} else {
			key = UnnamedKey(i)
		}
		if _, seen := w.decls[key]; !seen {
			w.keys = append(w.keys, key)
			w.decls[key] = m
		}
	}
	for name, n := range counts {
		if n > 1 {
			w.dupes[name] = true
		}
	}

	var known []schemac.Declaration
	for _, o := range opts {
		if o.Known != nil {
			known = o.Known
		}
	}
	for _, k := range known {
		name, _ := schemac.Str(k, "name")
		if _, declared := w.decls[name]; declared || name == "" {
			continue
		}
		if _, dup := w.known[name]; dup {
			continue
		}
		w.known[name] = k
		w.knownList = append(w.knownList, name)
	}

	for i, c := range core {
		w.coreRes[w.coreNames[i]] = w.visit(false, c, i)
	}
	for i, name := range w.knownList {
		w.knownRes[name] = w.visit(false, w.known[name], i)
	}
	for i, d := range decls {
		m, _ := schemac.AsMap(d)
		key, _ := schemac.Str(m, "name")
		if key == "" {
			key = UnnamedKey(i)
		}
		w.results[key] = w.visit(true, d, i)
	}
	return &Result[T]{w: w}
}

// Result is the outcome of a walk.
type Result[T any] struct {
	w *walker[T]
}

// Get returns the result for a declared name, an unnamed key or a core name.
func (r *Result[T]) Get(name string) (T, bool) {
	if v, ok := r.w.results[name]; ok {
		return v, true
	}
	if v, ok := r.w.knownRes[name]; ok {
		return v, true
	}
	v, ok := r.w.coreRes[name]
	return v, ok
}

// MustGet is Get that panics on unknown names.
func (r *Result[T]) MustGet(name string) T {
	v, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("no such type: %s", name))
	}
	return v
}

// Has reports whether name was visited.
func (r *Result[T]) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// TypeNames lists declared names, then known names, then core names.
func (r *Result[T]) TypeNames() []string {
	out := append([]string(nil), r.w.typeNames...)
	out = append(out, r.w.knownList...)
	return append(out, r.w.coreNames...)
}

// Keys lists the keys of all top-level declarations in declaration order,
// unnamed ones included, core types excluded.
func (r *Result[T]) Keys() []string { return append([]string(nil), r.w.keys...) }

// Types returns results in TypeNames order.
func (r *Result[T]) Types() []T {
	names := r.TypeNames()
	out := make([]T, 0, len(names))
	for _, n := range names {
		v, _ := r.Get(n)
		out = append(out, v)
	}
	return out
}

// MarshalJSON encodes the results of the top-level declarations.
func (r *Result[T]) MarshalJSON() ([]byte, error) {
	out := make([]T, 0, len(r.w.keys))
	for _, k := range r.w.keys {
		out = append(out, r.w.results[k])
	}
	return gojson.Marshal(out)
}
