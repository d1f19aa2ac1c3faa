// Package node is the execution engine for compiled rules. Every executable
// node evaluates against a Context and an explicitly seeded random source;
// nodes never read global state and never mutate the battle.
package node

import (
	"fmt"
	"math/rand/v2"

	"github.com/nstehr/gambit/typesys"
)

// Node is an executable node producing a T.
type Node[T any] interface {
	Evaluate(ctx *Context, rng *rand.Rand) (T, error)
}

// Func adapts a plain function to Node.
type Func[T any] func(ctx *Context, rng *rand.Rand) (T, error)

func (f Func[T]) Evaluate(ctx *Context, rng *rand.Rand) (T, error) { return f(ctx, rng) }

// Erased is a node whose result type is only known through its runtime tag.
// The code generator passes children around as Erased and recovers the
// typed node with Unbox.
type Erased interface {
	Type() typesys.Type
	Evaluate(ctx *Context, rng *rand.Rand) (any, error)
}

type boxed[T any] struct {
	typ  typesys.Type
	node Node[T]
}

func (b *boxed[T]) Type() typesys.Type { return b.typ }

func (b *boxed[T]) Evaluate(ctx *Context, rng *rand.Rand) (any, error) {
	return b.node.Evaluate(ctx, rng)
}

// Box erases n, tagging it with the type it produces.
func Box[T any](typ typesys.Type, n Node[T]) Erased {
	return &boxed[T]{typ: typ, node: n}
}

// Unbox recovers the typed node behind e. It fails when the tag differs from
// want or the node does not produce a T.
func Unbox[T any](e Erased, want typesys.Type) (Node[T], error) {
	if e == nil {
		return nil, fmt.Errorf("%w: missing node, want %s", ErrTypeTag, want)
	}
	if e.Type() != want {
		return nil, fmt.Errorf("%w: node produces %s, want %s", ErrTypeTag, e.Type(), want)
	}
	b, ok := e.(*boxed[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %s node does not produce %T", ErrTypeTag, want, zero)
	}
	return b.node, nil
}
