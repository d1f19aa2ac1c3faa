package rules

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/nstehr/gambit/model"
	"github.com/nstehr/gambit/node"
	"github.com/nstehr/gambit/token"
)

// Decision outcomes reported to a Recorder.
const (
	OutcomeDecided = "decided"
	OutcomeNone    = "none"
	OutcomeError   = "error"
)

// Recorder observes engine activity. metrics.Collector implements it.
type Recorder interface {
	Compiled(err error)
	Swapped(err error)
	Decided(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Compiled(error)                {}
func (nopRecorder) Swapped(error)                 {}
func (nopRecorder) Decided(string, time.Duration) {}

// Engine picks at most one action per turn from compiled rows.
// Rows are tried in priority order; the first row that decides wins.
type Engine struct {
	mu       sync.RWMutex
	rows     []*Row
	compiler *Compiler
	recorder Recorder
}

// NewEngine compiles set and sorts the rows by priority.
func NewEngine(set token.RuleSet) (*Engine, error) {
	e := &Engine{compiler: NewCompiler(), recorder: nopRecorder{}}
	rows, err := e.compile(set)
	if err != nil {
		return nil, err
	}
	e.rows = rows
	return e, nil
}

// SetRecorder attaches a recorder for compile, swap and decision activity.
func (e *Engine) SetRecorder(r Recorder) {
	e.mu.Lock()
	e.recorder = r
	e.mu.Unlock()
}

// Decide evaluates rows against b until one decides. It returns false when
// no row decides. A runtime failure stops the turn and is returned; rows
// after the failing one are not tried.
func (e *Engine) Decide(b node.Battle, rng *rand.Rand) (model.Action, bool, error) {
	e.mu.RLock()
	rows, rec := e.rows, e.recorder
	e.mu.RUnlock()

	start := time.Now()
	for _, r := range rows {
		a, ok, err := r.Evaluate(b, rng)
		if err != nil {
			rec.Decided(OutcomeError, time.Since(start))
			slog.Warn("rule evaluation error", "rule", r.Name, "error", err)
			return model.Action{}, false, err
		}
		if ok {
			rec.Decided(OutcomeDecided, time.Since(start))
			slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "action", a.String())
			return a, true, nil
		}
	}
	rec.Decided(OutcomeNone, time.Since(start))
	return model.Action{}, false, nil
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rows remain active.
func (e *Engine) Swap(set token.RuleSet) error {
	rows, err := e.compile(set)
	e.mu.RLock()
	rec := e.recorder
	e.mu.RUnlock()
	rec.Swapped(err)
	if err != nil {
		return err
	}

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rows = rows
	e.mu.Unlock()
	slog.Info("rule set swapped", "set", set.Name, "count", len(rows), "rules", names)
	return nil
}

// Rows returns the active rows in evaluation order.
func (e *Engine) Rows() []*Row {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.rows)
}

func (e *Engine) compile(set token.RuleSet) ([]*Row, error) {
	rows, err := e.compiler.Compile(set)
	e.mu.RLock()
	rec := e.recorder
	e.mu.RUnlock()
	rec.Compiled(err)
	if err != nil {
		return nil, err
	}
	// Stable: file order breaks priority ties.
	slices.SortStableFunc(rows, func(a, b *Row) int {
		return b.Priority - a.Priority
	})
	return rows, nil
}
