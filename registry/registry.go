// Package registry compiles type declarations into a resolved registry of
// types linked through their inheritance chains.
package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/reoring/schemac"
	"github.com/reoring/schemac/internal/traverse"
)

// CompileOpt configures Compile. Multiple options merge with last-wins
// semantics for set fields.
type CompileOpt struct {
	Name   string
	Parent *Registry
	// MaxSearchDepth bounds how deep derived search paths descend. Zero or
	// less means 5; larger values are honored.
	MaxSearchDepth int
	// MaxSearchPaths bounds the number of derived search paths. Zero or
	// less means 500.
	MaxSearchPaths  int
	Warnings        schemac.WarningSink
	WithoutBuiltins bool
}

const (
	defaultMaxSearchDepth = 5
	defaultMaxSearchPaths = 500
)

func mergeCompileOpts(opts []CompileOpt) CompileOpt {
	var o CompileOpt
	for _, x := range opts {
		if x.Name != "" {
			o.Name = x.Name
		}
		if x.Parent != nil {
			o.Parent = x.Parent
		}
		if x.MaxSearchDepth != 0 {
			o.MaxSearchDepth = x.MaxSearchDepth
		}
		if x.MaxSearchPaths != 0 {
			o.MaxSearchPaths = x.MaxSearchPaths
		}
		if x.Warnings != nil {
			o.Warnings = x.Warnings
		}
		if x.WithoutBuiltins {
			o.WithoutBuiltins = true
		}
	}
	if o.MaxSearchDepth <= 0 {
		o.MaxSearchDepth = defaultMaxSearchDepth
	}
	if o.MaxSearchPaths <= 0 {
		o.MaxSearchPaths = defaultMaxSearchPaths
	}
	if o.Warnings == nil {
		o.Warnings = schemac.NewOnceWarner(slog.Default())
	}
	return o
}

// Registry maps type names to compiled types.
type Registry struct {
	name   string
	parent *Registry
	opts   CompileOpt
	types  map[string]*Type
	names  []string
	local  []string
}

// Name is the registry name given through CompileOpt.
func (r *Registry) Name() string { return r.name }

// Parent returns the registry this one was compiled on top of.
func (r *Registry) Parent() *Registry { return r.parent }

// Get returns the type called name.
func (r *Registry) Get(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.types[name]
	return ok
}

// TypeNames lists every registered name in insertion order, inherited names
// first.
func (r *Registry) TypeNames() []string { return append([]string(nil), r.names...) }

// LocalTypeNames lists the names this registry compiled itself.
func (r *Registry) LocalTypeNames() []string { return append([]string(nil), r.local...) }

// IsLocal reports whether name was compiled by this registry.
func (r *Registry) IsLocal(name string) bool {
	for _, n := range r.local {
		if n == name {
			return true
		}
	}
	return false
}

// Warm forces every lazy cell of every reachable type. After Warm the
// registry may be read from several goroutines.
func (r *Registry) Warm() {
	seen := map[*Type]bool{}
	var visit func(t *Type)
	visit = func(t *Type) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		t.Preview()
		t.Search()
		_, _ = t.Fieldsets()
		_, _ = t.Groups()
		t.Orderings()
		visit(t.base)
		for _, f := range t.fields {
			visit(f.Type)
		}
		for _, m := range t.of {
			visit(m)
		}
		for _, m := range t.to {
			visit(m)
		}
		for _, m := range t.annotations {
			visit(m)
		}
	}
	for _, n := range r.names {
		visit(r.types[n])
	}
}

func (r *Registry) register(name string, t *Type, local bool) {
	if _, ok := r.types[name]; !ok {
		r.names = append(r.names, name)
	}
	r.types[name] = t
	if local {
		r.local = append(r.local, name)
	}
}

// CompileError is a hard compile failure. It unwraps to one of the schemac
// sentinel errors.
type CompileError struct {
	Type string
	Msg  string
	Err  error
}

func (e *CompileError) Error() string { return e.Msg }
func (e *CompileError) Unwrap() error { return e.Err }

func compileErr(sentinel error, typ, format string, args ...any) error {
	return &CompileError{Type: typ, Msg: fmt.Sprintf(format, args...), Err: sentinel}
}

type compiler struct {
	reg      *Registry
	defs     map[string]map[string]any
	order    []string
	visiting map[string]bool
	pending  []*Type
}

// Compile resolves declarations into a registry. A root registry is seeded
// with the core types and the built-in asset types; a registry with a parent
// starts from the parent's entries.
func Compile(decls []schemac.Declaration, opts ...CompileOpt) (*Registry, error) {
	o := mergeCompileOpts(opts)
	reg := &Registry{name: o.Name, parent: o.Parent, opts: o, types: map[string]*Type{}}
	c := &compiler{reg: reg, defs: map[string]map[string]any{}, visiting: map[string]bool{}}

	if err := c.collect(decls); err != nil {
		return nil, err
	}

	if o.Parent != nil {
		for _, n := range o.Parent.names {
			reg.register(n, o.Parent.types[n], false)
		}
	} else {
		for _, d := range schemac.CoreDeclarations() {
			name, _ := schemac.Str(d, "name")
			reg.register(name, newCoreType(reg, name), true)
		}
		if !o.WithoutBuiltins {
			var builtins []string
			for _, b := range schemac.Builtins() {
				name, _ := schemac.Str(b, "name")
				if _, declared := c.defs[name]; declared {
					continue
				}
				c.defs[name] = b
				builtins = append(builtins, name)
			}
			c.order = append(builtins, c.order...)
		}
	}

	for _, name := range c.order {
		if _, err := c.add(name); err != nil {
			return nil, err
		}
	}
	for len(c.pending) > 0 {
		t := c.pending[0]
		c.pending = c.pending[1:]
		if err := c.resolve(t); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// collect runs the traversal engine over the declarations to index them by
// name and reject nameless and duplicate declarations.
func (c *compiler) collect(decls []schemac.Declaration) error {
	in := make([]any, len(decls))
	for i, d := range decls {
		in[i] = d
	}
	var firstErr error
	traverse.Walk(in, schemac.CoreDeclarations(), func(decl any, ctx *traverse.Context[struct{}]) struct{} {
		if !ctx.IsRoot() || firstErr != nil {
			return struct{}{}
		}
		m, ok := schemac.AsMap(decl)
		name, _ := schemac.Str(m, "name")
		switch {
		case !ok || name == "":
			firstErr = compileErr(schemac.ErrInvalidDeclaration, "", "Type at index %d is missing a name", ctx.Index())
		case ctx.IsDuplicate(name):
			firstErr = compileErr(schemac.ErrDuplicateType, name, "Duplicate type name added to schema: %s", name)
		default:
			c.defs[name] = m
			c.order = append(c.order, name)
		}
		return struct{}{}
	})
	return firstErr
}

// add compiles a declared top-level type. Names already present, from a
// parent or the core table, are left alone.
func (c *compiler) add(name string) (*Type, error) {
	if t, ok := c.reg.types[name]; ok {
		return t, nil
	}
	if c.visiting[name] {
		return nil, compileErr(schemac.ErrCircularBase, name, "Type %q inherits from itself", name)
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	decl := c.defs[name]
	base, err := c.ensure(schemac.StrOr(decl, "type", ""))
	if err != nil {
		return nil, err
	}
	t, err := c.extend(base, decl)
	if err != nil {
		return nil, err
	}
	c.reg.register(name, t, true)
	return t, nil
}

func (c *compiler) ensure(name string) (*Type, error) {
	if t, ok := c.reg.types[name]; ok {
		return t, nil
	}
	if _, ok := c.defs[name]; !ok {
		shown := name
		if shown == "" {
			shown = "undefined"
		}
		return nil, compileErr(schemac.ErrUnknownType, name, "Unknown type: %s", shown)
	}
	return c.add(name)
}

// extend creates a new link on top of base from decl. Core bases run the
// kind's extension; subtypes only pick allow-listed attributes.
func (c *compiler) extend(base *Type, decl map[string]any) (*Type, error) {
	if base.IsCore() {
		t := extendCore(c.reg, base, decl)
		c.pending = append(c.pending, t)
		return t, nil
	}
	for _, attr := range structuralAttrs(base.kind) {
		if schemac.Has(decl, attr) {
			return nil, compileErr(schemac.ErrStructuralOverride, schemac.StrOr(decl, "name", base.name),
				"Cannot override `%s` of subtypes of %q", attr, base.kind.String())
		}
	}
	return extendSubtype(c.reg, base, decl), nil
}

// createMember compiles an anonymous member type and resolves its own
// members right away.
func (c *compiler) createMember(decl map[string]any) (*Type, error) {
	base, err := c.ensure(schemac.StrOr(decl, "type", ""))
	if err != nil {
		return nil, err
	}
	t, err := c.extend(base, decl)
	if err != nil {
		return nil, err
	}
	if n := len(c.pending); n > 0 && c.pending[n-1] == t {
		c.pending = c.pending[:n-1]
		if err := c.resolve(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c *compiler) createMembers(raw any) ([]*Type, error) {
	items := schemac.Arrify(raw)
	out := make([]*Type, 0, len(items))
	for i, item := range items {
		m, ok := schemac.AsMap(item)
		if !ok {
			return nil, compileErr(schemac.ErrInvalidDeclaration, "", "Member at index %d is not an object", i)
		}
		t, err := c.createMember(m)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// createFields compiles field declarations. The member type of an object
// field is titled after the field name unless the field sets a title.
func (c *compiler) createFields(raw any, titleFromName bool) ([]*Field, error) {
	items := schemac.Arrify(raw)
	out := make([]*Field, 0, len(items))
	for i, item := range items {
		fd, ok := schemac.AsMap(item)
		if !ok {
			return nil, compileErr(schemac.ErrInvalidDeclaration, "", "Field at index %d is not an object", i)
		}
		name := schemac.StrOr(fd, "name", "")
		rest := schemac.Omit(fd, "name", "fieldset", "group")
		if titleFromName {
			if title, _ := schemac.Str(fd, "title"); title == "" {
				rest["title"] = schemac.StartCase(name)
			}
		}
		ft, err := c.createMember(rest)
		if err != nil {
			var ce *CompileError
			if errors.As(err, &ce) && ce.Type == "" {
				ce.Type = name
			}
			return nil, err
		}
		f := &Field{Name: name, Type: ft, Fieldset: schemac.StrOr(fd, "fieldset", ""), Decl: fd}
		for _, g := range schemac.Arrify(fd["group"]) {
			if s, ok := g.(string); ok {
				f.Group = append(f.Group, s)
			}
		}
		out = append(out, f)
	}
	return out, nil
}
