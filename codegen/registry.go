// Package codegen lowers checked trees into executable node graphs.
//
// Converters are keyed by token name and the concrete result type the
// checker resolved. Tokens whose specialization depends on operand types
// (comparisons, Map, Count) dispatch a second time on the argument types the
// checker recorded.
package codegen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nstehr/gambit/check"
	"github.com/nstehr/gambit/diag"
	"github.com/nstehr/gambit/node"
	"github.com/nstehr/gambit/typesys"
)

// Factory builds one executable node from a checked node and its already
// generated children, in slot order.
type Factory func(ast *check.AST, args []node.Erased) (node.Erased, error)

type key struct {
	token  string
	result typesys.Type
}

// Registry maps (token, result type) to factories. Registration happens
// while building; a built registry is read-only and safe to share.
type Registry struct {
	factories map[key]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[key]Factory)}
}

// Register adds a factory. Registering the same key twice panics.
func (r *Registry) Register(token string, result typesys.Type, f Factory) {
	k := key{token: token, result: result}
	if _, dup := r.factories[k]; dup {
		panic(fmt.Sprintf("codegen: duplicate converter for %s -> %s", token, result))
	}
	r.factories[k] = f
}

// Supports reports whether a converter exists for token producing result.
func (r *Registry) Supports(token string, result typesys.Type) bool {
	_, ok := r.factories[key{token: token, result: result}]
	return ok
}

// Generate lowers ast bottom-up. Failures are *diag.Error values of kind
// UnsupportedTypeCombination.
func (r *Registry) Generate(ast *check.AST) (node.Erased, error) {
	n, derr := r.generate(ast)
	if derr != nil {
		return nil, derr
	}
	return n, nil
}

func (r *Registry) generate(ast *check.AST) (node.Erased, *diag.Error) {
	args := make([]node.Erased, len(ast.Args))
	for i, a := range ast.Args {
		n, derr := r.generate(a)
		if derr != nil {
			return nil, derr.Within(a.Slot)
		}
		args[i] = n
	}

	f, ok := r.factories[key{token: ast.Token, result: ast.Type}]
	if !ok {
		return nil, unsupported(ast, "argument types "+signature(ast))
	}
	n, err := f(ast, args)
	if err != nil {
		return nil, unsupported(ast, err.Error())
	}
	if n.Type() != ast.Type {
		return nil, unsupported(ast, fmt.Sprintf("converter produced %s", n.Type()))
	}
	return n, nil
}

func unsupported(ast *check.AST, detail string) *diag.Error {
	return &diag.Error{
		Kind:     diag.UnsupportedTypeCombination,
		Token:    ast.Token,
		Index:    -1,
		Expected: ast.Type,
		Pos:      ast.Pos,
		Detail:   detail,
	}
}

// signature renders the argument types, e.g. "Int,CharacterHP".
func signature(ast *check.AST) string {
	parts := make([]string, len(ast.Args))
	for i, a := range ast.Args {
		parts[i] = a.Type.String()
	}
	return strings.Join(parts, ",")
}

// bySignature dispatches on the argument types the checker recorded.
func bySignature(table map[string]Factory) Factory {
	return func(ast *check.AST, args []node.Erased) (node.Erased, error) {
		sig := signature(ast)
		f, ok := table[sig]
		if !ok {
			known := make([]string, 0, len(table))
			for k := range table {
				known = append(known, "("+k+")")
			}
			slices.Sort(known)
			return nil, fmt.Errorf("no specialization for (%s); have %s", sig, strings.Join(known, " "))
		}
		return f(ast, args)
	}
}

func leaf[R any](build func() node.Node[R]) Factory {
	return func(ast *check.AST, _ []node.Erased) (node.Erased, error) {
		return node.Box(ast.Type, build()), nil
	}
}

func unary[A, R any](build func(node.Node[A]) node.Node[R]) Factory {
	return func(ast *check.AST, args []node.Erased) (node.Erased, error) {
		a, err := node.Unbox[A](args[0], ast.ArgType(0))
		if err != nil {
			return nil, err
		}
		return node.Box(ast.Type, build(a)), nil
	}
}

func binary[A, B, R any](build func(node.Node[A], node.Node[B]) node.Node[R]) Factory {
	return func(ast *check.AST, args []node.Erased) (node.Erased, error) {
		a, err := node.Unbox[A](args[0], ast.ArgType(0))
		if err != nil {
			return nil, err
		}
		b, err := node.Unbox[B](args[1], ast.ArgType(1))
		if err != nil {
			return nil, err
		}
		return node.Box(ast.Type, build(a, b)), nil
	}
}
