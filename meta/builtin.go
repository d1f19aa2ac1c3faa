package meta

import (
	"sync"

	"github.com/nstehr/gambit/diag"
	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

// Token names.
const (
	Strike                 = "Strike"
	Heal                   = "Heal"
	Check                  = "Check"
	TrueOrFalseRandom      = "TrueOrFalseRandom"
	GreaterThan            = "GreaterThan"
	LessThan               = "LessThan"
	Eq                     = "Eq"
	Number                 = "Number"
	ActingCharacter        = "ActingCharacter"
	CharacterHP            = "CharacterHP"
	CharacterHPToCharacter = "CharacterHPToCharacter"
	CharacterTeam          = "CharacterTeam"
	Hero                   = "Hero"
	Enemy                  = "Enemy"
	OpposingTeam           = "OpposingTeam"
	AllCharacters          = "AllCharacters"
	TeamCharacters         = "TeamCharacters"
	TeamMembers            = "TeamMembers"
	AllTeamSides           = "AllTeamSides"
	RandomPick             = "RandomPick"
	FilterList             = "FilterList"
	Map                    = "Map"
	Max                    = "Max"
	Min                    = "Min"
	Count                  = "Count"
	Element                = "Element"
)

var (
	tT = typesys.BoundedVar("T", typesys.Value)
	tU = typesys.BoundedVar("U", typesys.Value)
	tN = typesys.BoundedVar("N", typesys.Numeric)
)

// Builtin returns the process-wide registry of every built-in token. It is
// built on first use and shared afterwards.
var Builtin = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(builtins()...)
	if err != nil {
		panic("meta: invalid builtin table: " + err.Error())
	}
	return r
})

func builtins() []Metadata {
	character := []Slot{{Name: "character", Type: typesys.Character}}
	target := []Slot{{Name: "target", Type: typesys.Character}}
	compare := []Slot{
		{Name: "left", Type: typesys.Numeric},
		{Name: "right", Type: typesys.Numeric},
	}
	array := []Slot{{Name: "array", Type: typesys.SeqOf(tT)}}

	return []Metadata{
		// Actions.
		{Name: Strike, Slots: target, Result: typesys.Action, Doc: "attack the target for the acting character's attack"},
		{Name: Heal, Slots: target, Result: typesys.Action, Doc: "spend 10 MP to restore 30 HP to the target"},
		{Name: Check, Slots: []Slot{
			{Name: "condition", Type: typesys.Bool},
			{Name: "then_action", Type: typesys.Action},
		}, Result: typesys.Action, Doc: "take then_action only when condition holds"},

		// Conditions.
		{Name: TrueOrFalseRandom, Result: typesys.Bool, Doc: "fair coin flip"},
		{Name: GreaterThan, Slots: compare, Result: typesys.Bool},
		{Name: LessThan, Slots: compare, Result: typesys.Bool},
		{Name: Eq, Slots: []Slot{
			{Name: "left", Type: tT},
			{Name: "right", Type: tT},
		}, Result: typesys.Bool},

		// Values.
		{Name: Number, Literal: true, Result: typesys.Int, Validate: validateLiteral},
		{Name: ActingCharacter, Result: typesys.Character},
		{Name: CharacterHP, Slots: character, Result: typesys.HP},
		{Name: CharacterHPToCharacter, Slots: []Slot{{Name: "character_hp", Type: typesys.HP}}, Result: typesys.Character},
		{Name: CharacterTeam, Slots: character, Result: typesys.TeamSide},
		{Name: Hero, Result: typesys.TeamSide},
		{Name: Enemy, Result: typesys.TeamSide},
		{Name: OpposingTeam, Result: typesys.TeamSide, Doc: "the side opposing the acting character"},

		// Sequences.
		{Name: AllCharacters, Result: typesys.SeqOf(typesys.Character), Doc: "living characters on both sides"},
		{Name: TeamCharacters, Result: typesys.SeqOf(typesys.Character), Doc: "living members of the acting character's team"},
		{Name: TeamMembers, Slots: []Slot{{Name: "team_side", Type: typesys.TeamSide}}, Result: typesys.SeqOf(typesys.Character)},
		{Name: AllTeamSides, Result: typesys.SeqOf(typesys.TeamSide)},
		{Name: RandomPick, Slots: array, Result: tT},
		{Name: FilterList, Slots: []Slot{
			array[0],
			{Name: "condition", Type: typesys.Bool, Context: "array"},
		}, Result: typesys.SeqOf(tT)},
		{Name: Map, Slots: []Slot{
			array[0],
			{Name: "transform", Type: tU, Context: "array"},
		}, Result: typesys.SeqOf(tU)},
		{Name: Max, Slots: []Slot{{Name: "array", Type: typesys.SeqOf(tN)}}, Result: tN},
		{Name: Min, Slots: []Slot{{Name: "array", Type: typesys.SeqOf(tN)}}, Result: tN},
		{Name: Count, Slots: array, Result: typesys.Int},
		{Name: Element, Element: true},
	}
}

func validateLiteral(t *token.Token) *diag.Error {
	if t.Value == nil {
		return &diag.Error{Kind: diag.MissingRequiredArgument, Token: t.Type, Slot: "value", Index: 0, Pos: t.Pos}
	}
	return nil
}
