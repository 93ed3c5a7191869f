package descriptor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"
)

// contentID hashes the canonical JSON of v. Map keys are written sorted, so
// equal values hash equally regardless of construction order.
func contentID(v any) (string, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// SetBuilder collects objects and nested sets into a Set.
type SetBuilder struct {
	objects map[string]*NamedType
	sets    []*Set
	err     error
}

// NewSetBuilder returns an empty builder.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{objects: map[string]*NamedType{}}
}

// AddObject adds a named type. Adding an equal object twice keeps one.
func (b *SetBuilder) AddObject(name string, def *TypeDef) {
	obj := &NamedType{Type: NamedTypeObject, Name: name, TypeDef: def}
	id, err := contentID(obj)
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("descriptor: encode %s: %w", name, err)
		}
		return
	}
	b.objects[id] = obj
}

// AddSet nests a complete set.
func (b *SetBuilder) AddSet(s *Set) {
	if s != nil {
		b.sets = append(b.sets, s)
	}
}

type setIdentity struct {
	Type string   `json:"type"`
	Keys []string `json:"keys"`
	Sets []string `json:"sets"`
}

// Build finalizes the set. Its ID depends only on its content.
func (b *SetBuilder) Build(typ string) (*Set, error) {
	if b.err != nil {
		return nil, b.err
	}
	keys := make([]string, 0, len(b.objects))
	for id := range b.objects {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	subIDs := make([]string, 0, len(b.sets))
	for _, s := range b.sets {
		subIDs = append(subIDs, s.ID)
	}
	sort.Strings(subIDs)
	id, err := contentID(setIdentity{Type: typ, Keys: keys, Sets: subIDs})
	if err != nil {
		return nil, err
	}
	return &Set{ID: id, Type: typ, Keys: keys, ObjectValues: b.objects, Sets: b.sets}, nil
}

// ParseSet decodes the JSON form of a set.
func ParseSet(data []byte) (*Set, error) {
	var s Set
	if err := gojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("descriptor: parse set: %w", err)
	}
	if s.ObjectValues == nil {
		s.ObjectValues = map[string]*NamedType{}
	}
	return &s, nil
}
