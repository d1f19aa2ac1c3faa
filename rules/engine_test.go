package rules

import (
	"testing"
	"time"

	"github.com/nstehr/gambit/token"
)

type countingRecorder struct {
	compiles, compileErrors int
	swaps, swapErrors       int
	outcomes                map[string]int
}

func (r *countingRecorder) Compiled(err error) {
	r.compiles++
	if err != nil {
		r.compileErrors++
	}
}

func (r *countingRecorder) Swapped(err error) {
	r.swaps++
	if err != nil {
		r.swapErrors++
	}
}

func (r *countingRecorder) Decided(outcome string, _ time.Duration) {
	if r.outcomes == nil {
		r.outcomes = make(map[string]int)
	}
	r.outcomes[outcome]++
}

func named(name string, priority int) token.Rule {
	return token.Rule{Name: name, Priority: priority, Tokens: []*token.Token{strike(acting())}}
}

func TestDefaultDoctrineCompiles(t *testing.T) {
	engine, err := NewEngine(CompileDoctrine(DefaultDoctrine()))
	if err != nil {
		t.Fatalf("NewEngine(CompileDoctrine(DefaultDoctrine())) failed: %v", err)
	}
	rows := engine.Rows()
	if len(rows) != 4 {
		t.Errorf("expected 4 rows, got %d", len(rows))
	}
	// Verify priority ordering (descending).
	for i := 1; i < len(rows); i++ {
		if rows[i].Priority > rows[i-1].Priority {
			t.Errorf("rows not sorted by priority: %s (%d) > %s (%d)",
				rows[i].Name, rows[i].Priority, rows[i-1].Name, rows[i-1].Priority)
		}
	}
}

func TestPriorityTiesKeepFileOrder(t *testing.T) {
	set := token.RuleSet{Rules: []token.Rule{
		named("low", 10),
		named("first-high", 50),
		named("second-high", 50),
		named("unprioritized", 0),
	}}
	engine, err := NewEngine(set)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	want := []string{"first-high", "second-high", "low", "unprioritized"}
	for i, r := range engine.Rows() {
		if r.Name != want[i] {
			t.Errorf("row %d = %s, want %s", i, r.Name, want[i])
		}
	}
}

func TestSwapKeepsOldRowsOnFailure(t *testing.T) {
	engine, err := NewEngine(token.RuleSet{Rules: []token.Rule{named("original", 1)}})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	rec := &countingRecorder{}
	engine.SetRecorder(rec)

	bad := token.RuleSet{Rules: []token.Rule{{Name: "broken", Tokens: []*token.Token{token.New("Nope")}}}}
	if err := engine.Swap(bad); err == nil {
		t.Fatal("Swap of a broken set succeeded")
	}
	if rows := engine.Rows(); len(rows) != 1 || rows[0].Name != "original" {
		t.Errorf("rows after failed swap = %v", rows)
	}

	if err := engine.Swap(token.RuleSet{Rules: []token.Rule{named("replacement", 1)}}); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if rows := engine.Rows(); rows[0].Name != "replacement" {
		t.Errorf("active row = %s, want replacement", rows[0].Name)
	}

	if rec.swaps != 2 || rec.swapErrors != 1 || rec.compiles != 2 || rec.compileErrors != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestDecideOutcomes(t *testing.T) {
	never := token.Rule{Name: "never", Tokens: []*token.Token{
		greaterThan(token.Number(0), token.Number(1)),
		strike(acting()),
	}}
	engine, err := NewEngine(token.RuleSet{Rules: []token.Rule{never}})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	rec := &countingRecorder{}
	engine.SetRecorder(rec)

	if _, ok, err := engine.Decide(party(50), seeded(1)); ok || err != nil {
		t.Errorf("Decide = %v, %v; want no decision", ok, err)
	}
	if err := engine.Swap(token.RuleSet{Rules: []token.Rule{never, named("always", 0)}}); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if _, ok, err := engine.Decide(party(50), seeded(1)); !ok || err != nil {
		t.Errorf("Decide = %v, %v; want a decision", ok, err)
	}
	if rec.outcomes[OutcomeNone] != 1 || rec.outcomes[OutcomeDecided] != 1 {
		t.Errorf("outcomes = %v", rec.outcomes)
	}
}
