// Package typesys is the type language shared by the token registry, the
// checker and the code generator.
//
// A Type is a small comparable value: a base kind wrapped in zero or more
// sequence layers. Comparable types double as map keys in the converter
// registry, so two structurally equal types are always ==.
package typesys

import "strings"

// Kind is the base kind of a type.
type Kind uint8

const (
	InvalidKind Kind = iota
	IntKind
	BoolKind
	CharacterKind
	HPKind
	TeamSideKind
	ActionKind
	NumericKind
	VarKind
	SeqKind // reported by Type.Kind for sequences; never stored as a base
	ValueKind
)

var kindNames = [...]string{
	InvalidKind:   "Invalid",
	IntKind:       "Int",
	BoolKind:      "Bool",
	CharacterKind: "Character",
	HPKind:        "CharacterHP",
	TeamSideKind:  "TeamSide",
	ActionKind:    "Action",
	NumericKind:   "Numeric",
	VarKind:       "Var",
	SeqKind:       "Seq",
	ValueKind:     "Value",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// Type is a type expression. The zero value is invalid.
type Type struct {
	base  Kind
	depth uint8  // number of Seq layers around base
	name  string // variable name when base == VarKind
	bound Kind   // NumericKind or ValueKind for bounded variables
}

var (
	Int       = Type{base: IntKind}
	Bool      = Type{base: BoolKind}
	Character = Type{base: CharacterKind}
	HP        = Type{base: HPKind}
	TeamSide  = Type{base: TeamSideKind}
	Action    = Type{base: ActionKind}
	// Numeric is a constraint, never a produced runtime type.
	Numeric = Type{base: NumericKind}
	// Value bounds variables to the single values the generator can compare
	// and collect: characters, team sides and numbers.
	Value = Type{base: ValueKind}
)

// SeqOf returns the type of a sequence of elem.
func SeqOf(elem Type) Type {
	elem.depth++
	return elem
}

// VarOf returns an unconstrained type variable. Variables only appear in
// token signatures.
func VarOf(name string) Type {
	return Type{base: VarKind, name: name}
}

// BoundedVar returns a type variable that only binds to types satisfying
// bound.
func BoundedVar(name string, bound Type) Type {
	return Type{base: VarKind, name: name, bound: bound.base}
}

// Kind reports SeqKind for sequences and the base kind otherwise.
func (t Type) Kind() Kind {
	if t.depth > 0 {
		return SeqKind
	}
	return t.base
}

// Elem returns the element type of a sequence.
func (t Type) Elem() (Type, bool) {
	if t.depth == 0 {
		return Type{}, false
	}
	t.depth--
	return t, true
}

func (t Type) IsValid() bool { return t.base != InvalidKind }

// IsVar reports whether t is a (possibly sequence-wrapped) type variable.
func (t Type) IsVar() bool { return t.base == VarKind }

// IsConcrete reports whether t can be produced at runtime: no Numeric
// constraint and no variable anywhere in it.
func (t Type) IsConcrete() bool {
	switch t.base {
	case InvalidKind, NumericKind, VarKind, ValueKind:
		return false
	}
	return true
}

func (t Type) String() string {
	var b strings.Builder
	for range t.depth {
		b.WriteString("Seq<")
	}
	switch t.base {
	case VarKind:
		b.WriteString(t.name)
		if t.bound != InvalidKind {
			b.WriteString(": ")
			b.WriteString(t.bound.String())
		}
	default:
		b.WriteString(t.base.String())
	}
	for range t.depth {
		b.WriteByte('>')
	}
	return b.String()
}

// Parse reads the String form of a concrete or Numeric type. Variables are
// not accepted.
func Parse(s string) (Type, bool) {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "Seq<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return Type{}, false
		}
		elem, ok := Parse(inner)
		if !ok {
			return Type{}, false
		}
		return SeqOf(elem), true
	}
	for k, name := range kindNames {
		if name != s {
			continue
		}
		switch Kind(k) {
		case InvalidKind, VarKind, SeqKind, ValueKind:
			return Type{}, false
		}
		return Type{base: Kind(k)}, true
	}
	return Type{}, false
}
