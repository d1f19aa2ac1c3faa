package check

import (
	"fmt"
	"slices"

	"github.com/nstehr/gambit/diag"
	"github.com/nstehr/gambit/meta"
	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

// Checker types token trees against one registry. It holds no per-call
// state and may be shared.
type Checker struct {
	reg *meta.Registry
}

func New(reg *meta.Registry) *Checker {
	return &Checker{reg: reg}
}

// Check types one tree. On failure the error is a *diag.Error describing
// the first failing argument in slot order.
func (c *Checker) Check(t *token.Token) (*AST, error) {
	ast, err := c.check(t, nil, nil)
	if err != nil {
		return nil, err
	}
	return ast, nil
}

// check types t post-order. elem is the element type bound by the nearest
// enclosing combinator, nil outside one.
func (c *Checker) check(t *token.Token, elem *typesys.Type, path []string) (*AST, *diag.Error) {
	if t == nil {
		return nil, &diag.Error{Kind: diag.MissingRequiredArgument, Index: -1, Path: path, Detail: "empty token"}
	}
	md, derr := c.reg.Lookup(t.Type)
	if derr != nil {
		derr.Path, derr.Pos = path, t.Pos
		return nil, derr
	}
	if md.Validate != nil {
		if derr := md.Validate(t); derr != nil {
			derr.Path = path
			return nil, derr
		}
	}
	if derr := checkShape(md, t); derr != nil {
		derr.Path = path
		return nil, derr
	}

	if md.Element {
		if elem == nil {
			return nil, &diag.Error{Kind: diag.ElementOutsideContext, Token: t.Type, Index: -1, Path: path, Pos: t.Pos}
		}
		return &AST{Token: t.Type, Type: *elem, Pos: t.Pos}, nil
	}

	subst := typesys.Subst{}
	args := make([]*AST, len(md.Slots))
	for i, s := range md.Slots {
		child := t.Arg(s.Name)
		if child == nil {
			return nil, &diag.Error{Kind: diag.MissingRequiredArgument, Token: t.Type, Slot: s.Name, Index: i, Path: path, Pos: t.Pos}
		}

		scope := elem
		if s.Context != "" {
			e, _ := args[md.SlotIndex(s.Context)].Type.Elem()
			scope = &e
		}

		a, derr := c.check(child, scope, slices.Concat(path, []string{s.Name}))
		if derr != nil {
			return nil, derr
		}
		if !typesys.Match(s.Type, a.Type, subst) {
			return nil, &diag.Error{
				Kind:     diag.TypeMismatch,
				Token:    t.Type,
				Slot:     s.Name,
				Index:    i,
				Expected: subst.Apply(s.Type),
				Actual:   a.Type,
				Path:     slices.Concat(path, []string{s.Name}),
				Pos:      child.Pos,
			}
		}
		a.Slot = s.Name
		args[i] = a
	}

	result := subst.Apply(md.Result)
	if !result.IsConcrete() {
		return nil, &diag.Error{
			Kind:     diag.TypeMismatch,
			Token:    t.Type,
			Index:    -1,
			Expected: md.Result,
			Actual:   result,
			Path:     path,
			Pos:      t.Pos,
			Detail:   "result type does not resolve to a concrete type",
		}
	}

	ast := &AST{Token: t.Type, Type: result, Args: args, Pos: t.Pos}
	if len(subst) > 0 {
		ast.Bindings = subst
	}
	if md.Literal {
		ast.Value = *t.Value
	}
	return ast, nil
}

// checkShape rejects literals on non-literal tokens, unknown or duplicate
// slot names, and surplus arguments.
func checkShape(md *meta.Metadata, t *token.Token) *diag.Error {
	arity := func(slot, detail string) *diag.Error {
		return &diag.Error{
			Kind:          diag.ArityMismatch,
			Token:         t.Type,
			Slot:          slot,
			Index:         -1,
			ExpectedArity: len(md.Slots),
			ActualArity:   len(t.Args),
			Pos:           t.Pos,
			Detail:        detail,
		}
	}

	if !md.Literal && t.Value != nil {
		return arity("", "unexpected literal value")
	}
	if md.Literal && len(t.Args) > 0 {
		return arity(t.Args[0].Name, "")
	}

	seen := make(map[string]bool, len(t.Args))
	for _, a := range t.Args {
		if md.SlotIndex(a.Name) < 0 {
			e := arity(a.Name, "")
			if len(md.Slots) > 0 {
				e.Suggestion = diag.Suggest(a.Name, slotNames(md))
			}
			return e
		}
		if seen[a.Name] {
			return arity(a.Name, fmt.Sprintf("slot %q given twice", a.Name))
		}
		seen[a.Name] = true
	}
	return nil
}

func slotNames(md *meta.Metadata) []string {
	names := make([]string, len(md.Slots))
	for i, s := range md.Slots {
		names[i] = s.Name
	}
	return names
}
