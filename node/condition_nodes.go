package node

import (
	"math/rand/v2"

	"github.com/nstehr/gambit/model"
)

// RandomBool flips a fair coin from the caller's random source.
func RandomBool() Node[bool] {
	return Func[bool](func(_ *Context, rng *rand.Rand) (bool, error) {
		return rng.IntN(2) == 1, nil
	})
}

// Ordering selects the comparison a Compare node performs.
type Ordering int

const (
	Greater Ordering = iota
	Less
)

type compare[L, R Numeric] struct {
	op    Ordering
	left  Node[L]
	right Node[R]
}

// Compare orders two numeric operands of possibly different concrete types
// by their integer projections. Left is evaluated before right.
func Compare[L, R Numeric](op Ordering, left Node[L], right Node[R]) Node[bool] {
	return compare[L, R]{op: op, left: left, right: right}
}

func (n compare[L, R]) Evaluate(ctx *Context, rng *rand.Rand) (bool, error) {
	l, err := n.left.Evaluate(ctx, rng)
	if err != nil {
		return false, err
	}
	r, err := n.right.Evaluate(ctx, rng)
	if err != nil {
		return false, err
	}
	if n.op == Less {
		return l.IntValue() < r.IntValue(), nil
	}
	return l.IntValue() > r.IntValue(), nil
}

type equal[T any] struct {
	left, right Node[T]
	same        func(a, b T) bool
}

func (n equal[T]) Evaluate(ctx *Context, rng *rand.Rand) (bool, error) {
	l, err := n.left.Evaluate(ctx, rng)
	if err != nil {
		return false, err
	}
	r, err := n.right.Evaluate(ctx, rng)
	if err != nil {
		return false, err
	}
	return n.same(l, r), nil
}

// EqualNumeric compares integer projections.
func EqualNumeric[L, R Numeric](left Node[L], right Node[R]) Node[bool] {
	return Func[bool](func(ctx *Context, rng *rand.Rand) (bool, error) {
		l, err := left.Evaluate(ctx, rng)
		if err != nil {
			return false, err
		}
		r, err := right.Evaluate(ctx, rng)
		if err != nil {
			return false, err
		}
		return l.IntValue() == r.IntValue(), nil
	})
}

// EqualCharacters compares character identity, not hit points.
func EqualCharacters(left, right Node[model.Character]) Node[bool] {
	return equal[model.Character]{left: left, right: right, same: func(a, b model.Character) bool { return a.ID == b.ID }}
}

// EqualSides compares team sides.
func EqualSides(left, right Node[model.TeamSide]) Node[bool] {
	return equal[model.TeamSide]{left: left, right: right, same: func(a, b model.TeamSide) bool { return a == b }}
}
