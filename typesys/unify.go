package typesys

import (
	"errors"
	"fmt"
)

// ErrNoUnifier is returned by Unify when two types have no common type.
var ErrNoUnifier = errors.New("types do not unify")

// IsSubtype reports whether a value of type a may be used where b is
// expected. Sequences are covariant.
func IsSubtype(a, b Type) bool {
	if a == b {
		return true
	}
	if a.depth > 0 || b.depth > 0 {
		ae, aok := a.Elem()
		be, bok := b.Elem()
		return aok && bok && IsSubtype(ae, be)
	}
	return b.base == NumericKind && (a.base == IntKind || a.base == HPKind)
}

// Satisfies reports whether t meets a variable bound. Characters satisfy
// Numeric through their hit-point projection even though they are not
// subtypes of it.
func Satisfies(t Type, bound Kind) bool {
	switch bound {
	case InvalidKind:
		return true
	case NumericKind:
		if t.depth > 0 {
			return false
		}
		switch t.base {
		case IntKind, HPKind, CharacterKind, NumericKind:
			return true
		}
	case ValueKind:
		if t.depth > 0 {
			return false
		}
		switch t.base {
		case IntKind, HPKind, CharacterKind, TeamSideKind, NumericKind:
			return true
		}
	}
	return false
}

// Unify returns the most specific type satisfying both a and b. A concrete
// Numeric type unified with Numeric is the concrete type; two different
// Numeric types unify to Numeric.
func Unify(a, b Type) (Type, error) {
	if a == b {
		return a, nil
	}
	if a.depth > 0 && b.depth > 0 {
		ae, _ := a.Elem()
		be, _ := b.Elem()
		e, err := Unify(ae, be)
		if err != nil {
			return Type{}, fmt.Errorf("%s and %s: %w", a, b, ErrNoUnifier)
		}
		return SeqOf(e), nil
	}
	if a.depth == 0 && b.depth == 0 {
		switch {
		case a == Numeric && IsSubtype(b, Numeric):
			return b, nil
		case b == Numeric && IsSubtype(a, Numeric):
			return a, nil
		case IsSubtype(a, Numeric) && IsSubtype(b, Numeric):
			return Numeric, nil
		}
	}
	return Type{}, fmt.Errorf("%s and %s: %w", a, b, ErrNoUnifier)
}

// Subst maps type variable names to their bindings within one token.
type Subst map[string]Type

// Apply replaces a bound variable in t with its binding, keeping any
// sequence layers around it. Unbound variables and other types are
// returned unchanged.
func (s Subst) Apply(t Type) Type {
	if t.base != VarKind {
		return t
	}
	bound, ok := s[t.name]
	if !ok {
		return t
	}
	bound.depth += t.depth
	return bound
}

// Match checks actual against a declared slot type, binding or widening
// variables in s. It reports false when actual cannot fill the slot.
func Match(declared, actual Type, s Subst) bool {
	if declared.base != VarKind {
		return IsSubtype(actual, declared)
	}
	if actual.depth < declared.depth {
		return false
	}
	inner := actual
	inner.depth -= declared.depth
	if inner.base == VarKind || !inner.IsValid() {
		return false
	}

	prev, ok := s[declared.name]
	if !ok {
		if !Satisfies(inner, declared.bound) {
			return false
		}
		s[declared.name] = inner
		return true
	}
	if IsSubtype(inner, prev) {
		return true
	}
	widened, err := Unify(prev, inner)
	if err != nil || !Satisfies(widened, declared.bound) {
		return false
	}
	s[declared.name] = widened
	return true
}
