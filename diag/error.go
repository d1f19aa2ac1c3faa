// Package diag defines the structured compile-time errors reported by the
// checker and the code generator.
package diag

import (
	"fmt"
	"strings"

	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

// Kind categorizes a compile error. Kinds are themselves errors so callers
// can test with errors.Is(err, diag.TypeMismatch).
type Kind string

const (
	UnknownToken               Kind = "unknown token"
	ArityMismatch              Kind = "arity mismatch"
	TypeMismatch               Kind = "type mismatch"
	ElementOutsideContext      Kind = "element outside context"
	MissingRequiredArgument    Kind = "missing required argument"
	UnsupportedTypeCombination Kind = "unsupported type combination"
)

func (k Kind) Error() string { return string(k) }

// Error is one compile failure with enough detail to point at the source.
type Error struct {
	Kind  Kind
	Token string // token under check
	Slot  string // argument slot, empty when the token itself is at fault
	Index int    // position of Slot in argument order, -1 when not applicable

	Expected typesys.Type
	Actual   typesys.Type

	ExpectedArity int
	ActualArity   int

	Path       []string // rule label followed by the slot path
	Pos        token.Pos
	Suggestion string
	Detail     string
}

func (e *Error) Unwrap() error { return e.Kind }

// Error renders the message, location and suggestion on separate lines.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Kind, e.message())
	if loc := e.Location(); loc != "" {
		fmt.Fprintf(&sb, "\n  --> %s", loc)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "\n  = suggestion: %s", e.Suggestion)
	}
	return sb.String()
}

// Location joins the path and the source position, if known.
func (e *Error) Location() string {
	loc := strings.Join(e.Path, " > ")
	if e.Pos.IsValid() {
		if loc != "" {
			loc += " "
		}
		loc += "(line " + e.Pos.String() + ")"
	}
	return loc
}

func (e *Error) message() string {
	var msg string
	switch e.Kind {
	case UnknownToken:
		msg = fmt.Sprintf("unknown token %q", e.Token)
	case ArityMismatch:
		msg = fmt.Sprintf("%s takes %d argument(s), got %d", e.Token, e.ExpectedArity, e.ActualArity)
		if e.Slot != "" {
			msg += fmt.Sprintf(": unexpected slot %q", e.Slot)
		}
	case TypeMismatch:
		msg = fmt.Sprintf("%s expects %s, got %s", e.subject(), e.Expected, e.Actual)
	case ElementOutsideContext:
		msg = "Element used outside FilterList or Map"
	case MissingRequiredArgument:
		msg = fmt.Sprintf("%s requires %q", e.Token, e.Slot)
	case UnsupportedTypeCombination:
		msg = fmt.Sprintf("no converter for %s producing %s", e.Token, e.Expected)
	default:
		msg = string(e.Kind)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) subject() string {
	if e.Slot == "" {
		return e.Token
	}
	return fmt.Sprintf("%s.%s (argument %d)", e.Token, e.Slot, e.Index+1)
}

// Within prefixes the error path with an enclosing location and returns e.
func (e *Error) Within(prefix ...string) *Error {
	e.Path = append(append([]string{}, prefix...), e.Path...)
	return e
}

// List collects errors from independent rules, e.g. when linting a file.
type List []*Error

func (l List) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d error(s):", len(l))
	for i, err := range l {
		fmt.Fprintf(&sb, "\n\nerror %d:\n%s", i+1, err.Error())
	}
	return sb.String()
}

// Err returns nil for an empty list.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
