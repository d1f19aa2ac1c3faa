package model

import (
	"fmt"
	"slices"
)

// TeamSide identifies one of the two teams in a battle.
type TeamSide int

const (
	SidePlayer TeamSide = iota
	SideEnemy
)

func (s TeamSide) String() string {
	switch s {
	case SidePlayer:
		return "Player"
	case SideEnemy:
		return "Enemy"
	}
	return fmt.Sprintf("TeamSide(%d)", int(s))
}

// Opponent returns the other side.
func (s TeamSide) Opponent() TeamSide {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

func (s TeamSide) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TeamSide) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Player", "player", "Hero", "hero":
		*s = SidePlayer
	case "Enemy", "enemy":
		*s = SideEnemy
	default:
		return fmt.Errorf("unknown team side %q", b)
	}
	return nil
}

// Sides lists both sides, player first.
var Sides = []TeamSide{SidePlayer, SideEnemy}

type Character struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	HP     int    `json:"hp" yaml:"hp"`
	MaxHP  int    `json:"maxHp" yaml:"maxHp"`
	MP     int    `json:"mp" yaml:"mp"`
	MaxMP  int    `json:"maxMp" yaml:"maxMp"`
	Attack int    `json:"attack" yaml:"attack"`
}

func (c Character) Alive() bool { return c.HP > 0 }

// IntValue projects a character onto its hit points.
func (c Character) IntValue() int { return c.HP }

// CharacterHP is a hit-point reading that remembers whose it is.
type CharacterHP struct {
	Character Character `json:"character"`
	Value     int       `json:"value"`
}

// HPOf reads a character's current hit points.
func HPOf(c Character) CharacterHP {
	return CharacterHP{Character: c, Value: c.HP}
}

func (h CharacterHP) IntValue() int { return h.Value }

type Team struct {
	Name    string      `json:"name" yaml:"name"`
	Side    TeamSide    `json:"side" yaml:"side"`
	Members []Character `json:"members" yaml:"members"`
}

// Alive returns the living members in roster order.
func (t Team) Alive() []Character {
	var out []Character
	for _, c := range t.Members {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

func (t Team) Wiped() bool { return len(t.Alive()) == 0 }

// Heal costs the healer HealCost MP and restores up to HealAmount HP.
const (
	HealCost   = 10
	HealAmount = 30
)

// ActionKind is what a decided action does.
type ActionKind int

const (
	ActionStrike ActionKind = iota + 1
	ActionHeal
)

func (k ActionKind) String() string {
	switch k {
	case ActionStrike:
		return "Strike"
	case ActionHeal:
		return "Heal"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Strike":
		*k = ActionStrike
	case "Heal":
		*k = ActionHeal
	default:
		return fmt.Errorf("unknown action %q", b)
	}
	return nil
}

// Action is a decided action with its resolved target.
type Action struct {
	Kind     ActionKind `json:"kind"`
	ActorID  int        `json:"actorId"`
	TargetID int        `json:"targetId"`
}

func (a Action) String() string {
	return fmt.Sprintf("%s(%d -> %d)", a.Kind, a.ActorID, a.TargetID)
}

// BattleState is one snapshot of a battle from the acting character's turn.
type BattleState struct {
	Turn     int  `json:"turn"`
	ActingID int  `json:"actingId"`
	Player   Team `json:"player"`
	Enemy    Team `json:"enemy"`
}

// Validate checks that character ids are unique and the acting character
// exists.
func (b *BattleState) Validate() error {
	seen := make(map[int]bool)
	for _, side := range Sides {
		for _, c := range b.Team(side).Members {
			if seen[c.ID] {
				return fmt.Errorf("duplicate character id %d", c.ID)
			}
			seen[c.ID] = true
		}
	}
	if !seen[b.ActingID] {
		return fmt.Errorf("acting character %d is not on either team", b.ActingID)
	}
	return nil
}

func (b *BattleState) Team(side TeamSide) *Team {
	if side == SideEnemy {
		return &b.Enemy
	}
	return &b.Player
}

// Lookup returns a pointer to the character with the given id for
// in-place updates, or nil.
func (b *BattleState) Lookup(id int) *Character {
	for _, side := range Sides {
		t := b.Team(side)
		for i := range t.Members {
			if t.Members[i].ID == id {
				return &t.Members[i]
			}
		}
	}
	return nil
}

func (b *BattleState) Character(id int) (Character, bool) {
	if c := b.Lookup(id); c != nil {
		return *c, true
	}
	return Character{}, false
}

func (b *BattleState) ActingCharacter() (Character, bool) {
	return b.Character(b.ActingID)
}

func (b *BattleState) SideOf(id int) (TeamSide, bool) {
	for _, side := range Sides {
		if slices.ContainsFunc(b.Team(side).Members, func(c Character) bool { return c.ID == id }) {
			return side, true
		}
	}
	return 0, false
}

// Members returns the living members of a side.
func (b *BattleState) Members(side TeamSide) []Character {
	return b.Team(side).Alive()
}

// Characters returns every living character, player side first.
func (b *BattleState) Characters() []Character {
	return append(b.Player.Alive(), b.Enemy.Alive()...)
}

// Clone returns a snapshot that shares no member slices with b.
func (b *BattleState) Clone() BattleState {
	out := *b
	out.Player.Members = slices.Clone(b.Player.Members)
	out.Enemy.Members = slices.Clone(b.Enemy.Members)
	return out
}
