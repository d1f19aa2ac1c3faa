package node

import (
	"fmt"

	"github.com/nstehr/gambit/model"
)

// Int is the runtime integer.
type Int int

func (i Int) IntValue() int { return int(i) }

// Numeric is anything with an integer projection: Int, model.CharacterHP,
// and model.Character through its hit points.
type Numeric interface {
	IntValue() int
}

// UnknownKind tags the value held by an UnknownValue.
type UnknownKind uint8

const (
	UnknownNone UnknownKind = iota
	UnknownCharacter
	UnknownInt
	UnknownTeamSide
	UnknownHP
)

func (k UnknownKind) String() string {
	switch k {
	case UnknownCharacter:
		return "Character"
	case UnknownInt:
		return "Int"
	case UnknownTeamSide:
		return "TeamSide"
	case UnknownHP:
		return "CharacterHP"
	}
	return "none"
}

// UnknownValue carries the current combinator element without the node
// that reads it knowing its type in advance. It holds exactly one value.
type UnknownValue struct {
	kind      UnknownKind
	character model.Character
	number    Int
	side      model.TeamSide
	hp        model.CharacterHP
}

func (u UnknownValue) Kind() UnknownKind { return u.kind }

// Value returns the held value as an interface.
func (u UnknownValue) Value() any {
	switch u.kind {
	case UnknownCharacter:
		return u.character
	case UnknownInt:
		return u.number
	case UnknownTeamSide:
		return u.side
	case UnknownHP:
		return u.hp
	}
	return nil
}

// Unknown wraps v. Only characters, integers, team sides and hit-point
// values can be bound.
func Unknown[T any](v T) (UnknownValue, error) {
	switch x := any(v).(type) {
	case model.Character:
		return UnknownValue{kind: UnknownCharacter, character: x}, nil
	case Int:
		return UnknownValue{kind: UnknownInt, number: x}, nil
	case model.TeamSide:
		return UnknownValue{kind: UnknownTeamSide, side: x}, nil
	case model.CharacterHP:
		return UnknownValue{kind: UnknownHP, hp: x}, nil
	}
	return UnknownValue{}, fmt.Errorf("%w: cannot bind %T as an element", ErrInvalidUnknownValueConversion, v)
}

// Known converts u back to a concrete type, failing when it holds something
// else.
func Known[T any](u UnknownValue) (T, error) {
	v, ok := u.Value().(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: element is %s, want %T", ErrInvalidUnknownValueConversion, u.kind, zero)
	}
	return v, nil
}
