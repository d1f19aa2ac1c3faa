package node

import (
	"fmt"
	"math/rand/v2"

	"github.com/nstehr/gambit/model"
)

type strike struct {
	target Node[model.Character]
}

// Strike attacks target. A dead acting character abandons the row.
func Strike(target Node[model.Character]) Node[model.Action] {
	return strike{target: target}
}

func (n strike) Evaluate(ctx *Context, rng *rand.Rand) (model.Action, error) {
	actor, err := ctx.acting()
	if err != nil {
		return model.Action{}, err
	}
	if !actor.Alive() {
		return model.Action{}, ErrAbandon
	}
	target, err := resolveTarget(ctx, rng, n.target)
	if err != nil {
		return model.Action{}, err
	}
	return model.Action{Kind: model.ActionStrike, ActorID: actor.ID, TargetID: target.ID}, nil
}

type heal struct {
	target Node[model.Character]
}

// Heal restores target's hit points. An acting character without enough MP
// abandons the row.
func Heal(target Node[model.Character]) Node[model.Action] {
	return heal{target: target}
}

func (n heal) Evaluate(ctx *Context, rng *rand.Rand) (model.Action, error) {
	actor, err := ctx.acting()
	if err != nil {
		return model.Action{}, err
	}
	if !actor.Alive() || actor.MP < model.HealCost {
		return model.Action{}, ErrAbandon
	}
	target, err := resolveTarget(ctx, rng, n.target)
	if err != nil {
		return model.Action{}, err
	}
	return model.Action{Kind: model.ActionHeal, ActorID: actor.ID, TargetID: target.ID}, nil
}

// resolveTarget evaluates a target and confirms it is a living character in
// this battle.
func resolveTarget(ctx *Context, rng *rand.Rand, target Node[model.Character]) (model.Character, error) {
	c, err := target.Evaluate(ctx, rng)
	if err != nil {
		return model.Character{}, err
	}
	current, ok := ctx.Battle().Character(c.ID)
	if !ok {
		return model.Character{}, fmt.Errorf("%w: character %d is not in the battle", ErrDeadOrMissingTarget, c.ID)
	}
	if !current.Alive() {
		return model.Character{}, fmt.Errorf("%w: %s (%d) is down", ErrDeadOrMissingTarget, current.Name, current.ID)
	}
	return current, nil
}

type check struct {
	condition Node[bool]
	then      Node[model.Action]
}

// Check decides then only when condition holds; otherwise the row is
// abandoned.
func Check(condition Node[bool], then Node[model.Action]) Node[model.Action] {
	return check{condition: condition, then: then}
}

func (n check) Evaluate(ctx *Context, rng *rand.Rand) (model.Action, error) {
	ok, err := n.condition.Evaluate(ctx, rng)
	if err != nil {
		return model.Action{}, err
	}
	if !ok {
		return model.Action{}, ErrAbandon
	}
	return n.then.Evaluate(ctx, rng)
}
