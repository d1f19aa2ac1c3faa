package node

import (
	"fmt"

	"github.com/nstehr/gambit/model"
)

// Battle is the read-only battle view nodes evaluate against.
// *model.BattleState implements it.
type Battle interface {
	ActingCharacter() (model.Character, bool)
	Character(id int) (model.Character, bool)
	SideOf(id int) (model.TeamSide, bool)
	// Members and Characters return living characters only.
	Members(side model.TeamSide) []model.Character
	Characters() []model.Character
}

// Context is shared by all nodes during one evaluation call. It is not safe
// for concurrent use; create one per call.
type Context struct {
	battle  Battle
	element *UnknownValue
}

func NewContext(b Battle) *Context {
	return &Context{battle: b}
}

func (c *Context) Battle() Battle { return c.battle }

// Element returns the value bound by the innermost combinator.
func (c *Context) Element() (UnknownValue, bool) {
	if c.element == nil {
		return UnknownValue{}, false
	}
	return *c.element, true
}

// bind makes v the current element and returns a func restoring the
// previous binding.
func (c *Context) bind(v UnknownValue) (restore func()) {
	prev := c.element
	c.element = &v
	return func() { c.element = prev }
}

// acting returns the acting character or ErrDeadOrMissingTarget.
func (c *Context) acting() (model.Character, error) {
	ch, ok := c.battle.ActingCharacter()
	if !ok {
		return model.Character{}, fmt.Errorf("%w: no acting character", ErrDeadOrMissingTarget)
	}
	return ch, nil
}
