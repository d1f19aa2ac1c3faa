// Package meta describes every token the compiler understands: its argument
// slots, result type and extra shape checks.
package meta

import (
	"fmt"
	"slices"

	"github.com/nstehr/gambit/diag"
	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

// Slot is one named argument. All slots are required.
type Slot struct {
	Name string
	Type typesys.Type
	// Context names an earlier sequence slot; while this slot is checked,
	// Element is bound to that sequence's element type.
	Context string
}

// Metadata is the signature of one token.
type Metadata struct {
	Name   string
	Slots  []Slot
	Result typesys.Type
	// Literal tokens carry an integer value instead of slots.
	Literal bool
	// Element tokens take their type from the enclosing combinator.
	Element bool
	// Validate runs shape checks the type system cannot express.
	Validate func(t *token.Token) *diag.Error
	Doc      string
}

// SlotIndex returns the position of a slot, or -1.
func (m *Metadata) SlotIndex(name string) int {
	return slices.IndexFunc(m.Slots, func(s Slot) bool { return s.Name == name })
}

// Registry maps token names to metadata. It is never modified after
// construction and is safe for concurrent use.
type Registry struct {
	byName map[string]*Metadata
	names  []string
}

// NewRegistry validates the entries and builds a registry.
func NewRegistry(entries ...Metadata) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Metadata, len(entries))}
	for i := range entries {
		m := &entries[i]
		if m.Name == "" {
			return nil, fmt.Errorf("entry %d has no name", i)
		}
		if _, dup := r.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate token %q", m.Name)
		}
		if !m.Element && !m.Result.IsValid() {
			return nil, fmt.Errorf("token %q has no result type", m.Name)
		}
		for j, s := range m.Slots {
			if s.Context == "" {
				continue
			}
			src := m.SlotIndex(s.Context)
			if src < 0 || src >= j {
				return nil, fmt.Errorf("token %q: slot %q takes context from %q, which is not an earlier slot", m.Name, s.Name, s.Context)
			}
			if m.Slots[src].Type.Kind() != typesys.SeqKind {
				return nil, fmt.Errorf("token %q: context slot %q is not a sequence", m.Name, s.Context)
			}
		}
		r.byName[m.Name] = m
		r.names = append(r.names, m.Name)
	}
	slices.Sort(r.names)
	return r, nil
}

// Lookup returns the metadata for a token or an UnknownToken error with a
// spelling suggestion.
func (r *Registry) Lookup(name string) (*Metadata, *diag.Error) {
	if m, ok := r.byName[name]; ok {
		return m, nil
	}
	return nil, &diag.Error{
		Kind:       diag.UnknownToken,
		Token:      name,
		Index:      -1,
		Suggestion: diag.Suggest(name, r.names),
	}
}

// Names returns all token names in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// All returns the metadata for every token, sorted by name.
func (r *Registry) All() []*Metadata {
	out := make([]*Metadata, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}
