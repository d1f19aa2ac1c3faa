// Package battle runs turn-based team battles, asking a Decider for each
// living character's action in turn and applying Strike and Heal.
package battle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/nstehr/gambit/model"
	"github.com/nstehr/gambit/node"
)

// DefaultMaxRounds bounds a battle whose teams cannot finish each other.
const DefaultMaxRounds = 100

// OutcomeDraw is reported when the round limit is reached.
const OutcomeDraw = "draw"

var (
	// ErrBattleOver is returned by Step once a winner or draw is known.
	ErrBattleOver = errors.New("battle is over")
	// ErrIllegalAction is recorded when a decided action cannot be applied.
	ErrIllegalAction = errors.New("illegal action")
)

// Decider picks the acting character's action. rules.Engine satisfies it.
type Decider interface {
	Decide(b node.Battle, rng *rand.Rand) (model.Action, bool, error)
}

// Entry is one character's turn.
type Entry struct {
	Round   int
	Side    model.TeamSide
	ActorID int
	Actor   string
	Action  *model.Action
	Damage  int
	Healing int
	Err     error
}

func (e Entry) String() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("round %d: %s loses the turn: %v", e.Round, e.Actor, e.Err)
	case e.Action == nil:
		return fmt.Sprintf("round %d: %s does nothing", e.Round, e.Actor)
	case e.Action.Kind == model.ActionHeal:
		return fmt.Sprintf("round %d: %s %s, +%d HP", e.Round, e.Actor, e.Action, e.Healing)
	default:
		return fmt.Sprintf("round %d: %s %s, -%d HP", e.Round, e.Actor, e.Action, e.Damage)
	}
}

// Result summarises a finished battle.
type Result struct {
	ID      string
	Outcome string
	Rounds  int
	Log     []Entry
	Events  []Event
	Final   model.BattleState
}

type options struct {
	seed      uint64
	maxRounds int
	fallback  Decider
}

type Option func(*options)

// WithSeed sets the seed every character's random source is derived from.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

func WithMaxRounds(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// WithDefault sets the decider for characters missing from the decider map.
func WithDefault(d Decider) Option {
	return func(o *options) { o.fallback = d }
}

// TeamBattle is a battle between the player and enemy teams. The player team
// acts first, living members in roster order, then the enemy team; a round
// ends once both teams have acted. It is not safe for concurrent use.
type TeamBattle struct {
	ID string

	state     model.BattleState
	deciders  map[int]Decider
	rngs      map[int]*rand.Rand
	maxRounds int

	side  model.TeamSide
	pos   int
	round int

	over    bool
	outcome string

	log    []Entry
	events []Event
	prev   *snapshot
}

// New prepares a battle from an initial state. Every character needs a
// decider, either from deciders or WithDefault.
func New(state model.BattleState, deciders map[int]Decider, opts ...Option) (*TeamBattle, error) {
	o := options{maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(&o)
	}

	state = state.Clone()
	state.Player.Side = model.SidePlayer
	state.Enemy.Side = model.SideEnemy
	if len(state.Player.Members) > 0 {
		state.ActingID = state.Player.Members[0].ID
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid battle: %w", err)
	}

	tb := &TeamBattle{
		ID:        uuid.NewString(),
		state:     state,
		deciders:  make(map[int]Decider),
		rngs:      make(map[int]*rand.Rand),
		maxRounds: o.maxRounds,
		side:      model.SidePlayer,
		round:     1,
	}

	master := rand.New(rand.NewPCG(o.seed, o.seed))
	for _, side := range model.Sides {
		for _, c := range state.Team(side).Members {
			d, ok := deciders[c.ID]
			if !ok {
				d = o.fallback
			}
			if d == nil {
				return nil, fmt.Errorf("no decider for %s (%d)", c.Name, c.ID)
			}
			tb.deciders[c.ID] = d
			tb.rngs[c.ID] = rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))
		}
	}
	tb.state.Turn = tb.round

	snap := takeSnapshot(&tb.state)
	tb.prev = &snap
	tb.settle()
	return tb, nil
}

// State returns a copy of the current battle state.
func (tb *TeamBattle) State() model.BattleState { return tb.state.Clone() }

func (tb *TeamBattle) Over() bool { return tb.over }

// Outcome is the winning side's name, OutcomeDraw, or "" while running.
func (tb *TeamBattle) Outcome() string { return tb.outcome }

func (tb *TeamBattle) Round() int { return tb.round }

// Step plays the next character's turn.
func (tb *TeamBattle) Step() (Entry, error) {
	if tb.over {
		return Entry{}, ErrBattleOver
	}

	actor, at, ok := tb.nextActor()
	if !ok {
		// The acting team was wiped mid-round; settle already ended the battle.
		return Entry{}, ErrBattleOver
	}
	tb.state.ActingID = actor.ID
	tb.state.Turn = tb.round

	entry := Entry{Round: tb.round, Side: tb.side, ActorID: actor.ID, Actor: actor.Name}
	action, decided, err := tb.deciders[actor.ID].Decide(&tb.state, tb.rngs[actor.ID])
	switch {
	case err != nil:
		entry.Err = err
	case decided:
		entry.Action = &action
		entry.Err = tb.apply(action, &entry)
	}
	tb.log = append(tb.log, entry)
	slog.Debug("battle turn", "battle", tb.ID, "entry", entry.String())

	events := detectEvents(&tb.state, tb.round, tb.prev)
	for _, ev := range events {
		slog.Info("battle event", "battle", tb.ID, "kind", string(ev.Kind), "round", ev.Round, "detail", ev.Detail)
	}
	tb.events = append(tb.events, events...)
	snap := takeSnapshot(&tb.state)
	tb.prev = &snap

	tb.pos = at + 1
	tb.settle()
	return entry, nil
}

// Run steps until the battle ends or ctx is cancelled.
func (tb *TeamBattle) Run(ctx context.Context) (Result, error) {
	for !tb.over {
		if err := ctx.Err(); err != nil {
			return tb.result(), err
		}
		if _, err := tb.Step(); err != nil && !errors.Is(err, ErrBattleOver) {
			return tb.result(), err
		}
	}
	slog.Info("battle finished", "battle", tb.ID, "outcome", tb.outcome, "rounds", tb.result().Rounds)
	return tb.result(), nil
}

func (tb *TeamBattle) result() Result {
	rounds := tb.round
	if n := len(tb.log); tb.over && n > 0 {
		rounds = tb.log[n-1].Round
	}
	return Result{
		ID:      tb.ID,
		Outcome: tb.outcome,
		Rounds:  rounds,
		Log:     append([]Entry(nil), tb.log...),
		Events:  append([]Event(nil), tb.events...),
		Final:   tb.state.Clone(),
	}
}

// nextActor returns the first living member of the acting team at or after
// the roster cursor, with its roster position.
func (tb *TeamBattle) nextActor() (model.Character, int, bool) {
	members := tb.state.Team(tb.side).Members
	for i := tb.pos; i < len(members); i++ {
		if members[i].Alive() {
			return members[i], i, true
		}
	}
	return model.Character{}, 0, false
}

// settle ends the battle when a team is wiped or the round limit passes.
// Otherwise it hands play to the other team once the acting team has no one
// left to act; the round ends when play returns to the player team.
func (tb *TeamBattle) settle() {
	if tb.over {
		return
	}
	for _, side := range model.Sides {
		if tb.state.Team(side).Wiped() {
			tb.over = true
			tb.outcome = side.Opponent().String()
			return
		}
	}
	if tb.round > tb.maxRounds {
		tb.over = true
		tb.outcome = OutcomeDraw
		return
	}
	if _, _, ok := tb.nextActor(); !ok {
		tb.pos = 0
		tb.side = tb.side.Opponent()
		if tb.side == model.SidePlayer {
			tb.round++
		}
		tb.settle()
	}
}

func (tb *TeamBattle) apply(a model.Action, e *Entry) error {
	actor := tb.state.Lookup(a.ActorID)
	target := tb.state.Lookup(a.TargetID)
	switch {
	case a.ActorID != e.ActorID || actor == nil:
		return fmt.Errorf("%w: %s is not %s's action", ErrIllegalAction, a, e.Actor)
	case target == nil || !target.Alive():
		return fmt.Errorf("%w: %s: %w", ErrIllegalAction, a, node.ErrDeadOrMissingTarget)
	}

	switch a.Kind {
	case model.ActionStrike:
		e.Damage = min(actor.Attack, target.HP)
		target.HP -= e.Damage
	case model.ActionHeal:
		if actor.MP < model.HealCost {
			return fmt.Errorf("%w: %s has %d MP", ErrIllegalAction, actor.Name, actor.MP)
		}
		actor.MP -= model.HealCost
		e.Healing = min(target.HP+model.HealAmount, target.MaxHP) - target.HP
		target.HP += e.Healing
	default:
		return fmt.Errorf("%w: unknown action kind %s", ErrIllegalAction, a.Kind)
	}
	return nil
}
