package battle

import (
	"fmt"

	"github.com/nstehr/gambit/model"
)

// EventKind identifies a notable change between two consecutive turns.
type EventKind string

const (
	EventCharacterDefeated EventKind = "character_defeated"
	EventCharacterRevived  EventKind = "character_revived"
	EventCharacterHealed   EventKind = "character_healed"
	EventTeamWiped         EventKind = "team_wiped"
)

// Event is a significant battle event detected by diffing consecutive
// snapshots.
type Event struct {
	Kind   EventKind `json:"kind"`
	Round  int       `json:"round"`
	Detail string    `json:"detail"`
}

// snapshot captures the diffable fields of a battle state.
type snapshot struct {
	hp    map[int]int
	wiped map[model.TeamSide]bool
}

func takeSnapshot(b *model.BattleState) snapshot {
	snap := snapshot{
		hp:    make(map[int]int),
		wiped: make(map[model.TeamSide]bool, len(model.Sides)),
	}
	for _, side := range model.Sides {
		t := b.Team(side)
		for _, c := range t.Members {
			snap.hp[c.ID] = c.HP
		}
		snap.wiped[side] = t.Wiped()
	}
	return snap
}

// detectEvents compares the current state against the previous snapshot.
// Returns nil if prev is nil (first turn).
func detectEvents(b *model.BattleState, round int, prev *snapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event
	cur := takeSnapshot(b)

	// Member order keeps the event order stable.
	for _, c := range b.Characters() {
		before, ok := prev.hp[c.ID]
		if !ok {
			continue
		}
		switch {
		case before <= 0:
			events = append(events, Event{
				Kind:   EventCharacterRevived,
				Round:  round,
				Detail: fmt.Sprintf("%s is back with %d HP", c.Name, c.HP),
			})
		case c.HP > before:
			events = append(events, Event{
				Kind:   EventCharacterHealed,
				Round:  round,
				Detail: fmt.Sprintf("%s healed %d -> %d HP", c.Name, before, c.HP),
			})
		}
	}
	for _, side := range model.Sides {
		for _, c := range b.Team(side).Members {
			if c.Alive() || prev.hp[c.ID] <= 0 {
				continue
			}
			events = append(events, Event{
				Kind:   EventCharacterDefeated,
				Round:  round,
				Detail: fmt.Sprintf("%s (%d) was defeated", c.Name, c.ID),
			})
		}
	}

	for _, side := range model.Sides {
		if cur.wiped[side] && !prev.wiped[side] {
			events = append(events, Event{
				Kind:   EventTeamWiped,
				Round:  round,
				Detail: fmt.Sprintf("%s team has no one left standing", side),
			})
		}
	}
	return events
}
