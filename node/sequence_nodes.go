package node

import (
	"fmt"
	"math/rand/v2"
)

type randomPick[T any] struct {
	array Node[[]T]
}

// RandomPick draws one element uniformly from the caller's random source.
func RandomPick[T any](array Node[[]T]) Node[T] {
	return randomPick[T]{array: array}
}

func (n randomPick[T]) Evaluate(ctx *Context, rng *rand.Rand) (T, error) {
	var zero T
	items, err := n.array.Evaluate(ctx, rng)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: RandomPick", ErrEmptySequencePick)
	}
	return items[rng.IntN(len(items))], nil
}

type filter[T any] struct {
	array     Node[[]T]
	condition Node[bool]
}

// Filter keeps the elements for which condition holds, with each element
// bound as the current Element while condition runs.
func Filter[T any](array Node[[]T], condition Node[bool]) Node[[]T] {
	return filter[T]{array: array, condition: condition}
}

func (n filter[T]) Evaluate(ctx *Context, rng *rand.Rand) ([]T, error) {
	items, err := n.array.Evaluate(ctx, rng)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep, err := withElement(ctx, item, func() (bool, error) {
			return n.condition.Evaluate(ctx, rng)
		})
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, nil
}

type mapSeq[T, U any] struct {
	array     Node[[]T]
	transform Node[U]
}

// Map evaluates transform once per element, in order.
func Map[T, U any](array Node[[]T], transform Node[U]) Node[[]U] {
	return mapSeq[T, U]{array: array, transform: transform}
}

func (n mapSeq[T, U]) Evaluate(ctx *Context, rng *rand.Rand) ([]U, error) {
	items, err := n.array.Evaluate(ctx, rng)
	if err != nil {
		return nil, err
	}
	out := make([]U, 0, len(items))
	for _, item := range items {
		v, err := withElement(ctx, item, func() (U, error) {
			return n.transform.Evaluate(ctx, rng)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// withElement binds item for the duration of fn and restores the previous
// binding afterwards, even when fn fails.
func withElement[T, R any](ctx *Context, item T, fn func() (R, error)) (R, error) {
	u, err := Unknown(item)
	if err != nil {
		var zero R
		return zero, err
	}
	restore := ctx.bind(u)
	defer restore()
	return fn()
}

type extreme[T Numeric] struct {
	array Node[[]T]
	max   bool
	name  string
}

// Max yields the element with the greatest integer projection; the first
// one wins ties.
func Max[T Numeric](array Node[[]T]) Node[T] {
	return extreme[T]{array: array, max: true, name: "Max"}
}

// Min yields the element with the smallest integer projection; the first
// one wins ties.
func Min[T Numeric](array Node[[]T]) Node[T] {
	return extreme[T]{array: array, name: "Min"}
}

func (n extreme[T]) Evaluate(ctx *Context, rng *rand.Rand) (T, error) {
	var zero T
	items, err := n.array.Evaluate(ctx, rng)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: %s", ErrEmptySequencePick, n.name)
	}
	best := items[0]
	for _, item := range items[1:] {
		if (n.max && item.IntValue() > best.IntValue()) || (!n.max && item.IntValue() < best.IntValue()) {
			best = item
		}
	}
	return best, nil
}

// Count yields the number of elements.
func Count[T any](array Node[[]T]) Node[Int] {
	return Func[Int](func(ctx *Context, rng *rand.Rand) (Int, error) {
		items, err := array.Evaluate(ctx, rng)
		if err != nil {
			return 0, err
		}
		return Int(len(items)), nil
	})
}
