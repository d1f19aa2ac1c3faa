package node

import (
	"fmt"
	"math/rand/v2"

	"github.com/nstehr/gambit/model"
)

// Const always yields v.
func Const[T any](v T) Node[T] {
	return Func[T](func(*Context, *rand.Rand) (T, error) { return v, nil })
}

type element[T any] struct{}

// Element reads the current combinator element as a T.
func Element[T any]() Node[T] { return element[T]{} }

func (element[T]) Evaluate(ctx *Context, _ *rand.Rand) (T, error) {
	u, ok := ctx.Element()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: no element bound", ErrInvalidUnknownValueConversion)
	}
	return Known[T](u)
}

// ActingCharacter yields the character whose turn it is.
func ActingCharacter() Node[model.Character] {
	return Func[model.Character](func(ctx *Context, _ *rand.Rand) (model.Character, error) {
		return ctx.acting()
	})
}

type characterHP struct {
	character Node[model.Character]
}

// CharacterHP projects a character onto its current hit points.
func CharacterHP(character Node[model.Character]) Node[model.CharacterHP] {
	return characterHP{character: character}
}

func (n characterHP) Evaluate(ctx *Context, rng *rand.Rand) (model.CharacterHP, error) {
	c, err := n.character.Evaluate(ctx, rng)
	if err != nil {
		return model.CharacterHP{}, err
	}
	return model.HPOf(c), nil
}

type hpToCharacter struct {
	hp Node[model.CharacterHP]
}

// CharacterHPToCharacter recovers the character a hit-point value was read
// from.
func CharacterHPToCharacter(hp Node[model.CharacterHP]) Node[model.Character] {
	return hpToCharacter{hp: hp}
}

func (n hpToCharacter) Evaluate(ctx *Context, rng *rand.Rand) (model.Character, error) {
	h, err := n.hp.Evaluate(ctx, rng)
	if err != nil {
		return model.Character{}, err
	}
	return h.Character, nil
}

type characterTeam struct {
	character Node[model.Character]
}

// CharacterTeam yields the side a character fights on.
func CharacterTeam(character Node[model.Character]) Node[model.TeamSide] {
	return characterTeam{character: character}
}

func (n characterTeam) Evaluate(ctx *Context, rng *rand.Rand) (model.TeamSide, error) {
	c, err := n.character.Evaluate(ctx, rng)
	if err != nil {
		return 0, err
	}
	side, ok := ctx.Battle().SideOf(c.ID)
	if !ok {
		return 0, fmt.Errorf("%w: character %d is on no team", ErrDeadOrMissingTarget, c.ID)
	}
	return side, nil
}

// OpposingTeam yields the side the acting character fights against.
func OpposingTeam() Node[model.TeamSide] {
	return Func[model.TeamSide](func(ctx *Context, _ *rand.Rand) (model.TeamSide, error) {
		c, err := ctx.acting()
		if err != nil {
			return 0, err
		}
		side, ok := ctx.Battle().SideOf(c.ID)
		if !ok {
			return 0, fmt.Errorf("%w: acting character %d is on no team", ErrDeadOrMissingTarget, c.ID)
		}
		return side.Opponent(), nil
	})
}

// AllCharacters yields every living character.
func AllCharacters() Node[[]model.Character] {
	return Func[[]model.Character](func(ctx *Context, _ *rand.Rand) ([]model.Character, error) {
		return ctx.Battle().Characters(), nil
	})
}

// TeamCharacters yields the living members of the acting character's team.
func TeamCharacters() Node[[]model.Character] {
	return Func[[]model.Character](func(ctx *Context, _ *rand.Rand) ([]model.Character, error) {
		c, err := ctx.acting()
		if err != nil {
			return nil, err
		}
		side, ok := ctx.Battle().SideOf(c.ID)
		if !ok {
			return nil, fmt.Errorf("%w: acting character %d is on no team", ErrDeadOrMissingTarget, c.ID)
		}
		return ctx.Battle().Members(side), nil
	})
}

type teamMembers struct {
	side Node[model.TeamSide]
}

// TeamMembers yields the living members of a side.
func TeamMembers(side Node[model.TeamSide]) Node[[]model.Character] {
	return teamMembers{side: side}
}

func (n teamMembers) Evaluate(ctx *Context, rng *rand.Rand) ([]model.Character, error) {
	side, err := n.side.Evaluate(ctx, rng)
	if err != nil {
		return nil, err
	}
	return ctx.Battle().Members(side), nil
}

// AllTeamSides yields both sides, player first.
func AllTeamSides() Node[[]model.TeamSide] {
	return Const([]model.TeamSide{model.SidePlayer, model.SideEnemy})
}
