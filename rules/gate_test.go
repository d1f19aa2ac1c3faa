package rules

import (
	"testing"

	"github.com/nstehr/gambit/token"
)

func TestGate(t *testing.T) {
	set := token.RuleSet{Name: "gated", Rules: []token.Rule{
		{Name: "careful", When: "Caution >= 0.5"},
		{Name: "reckless", When: "Aggression > 0.8 && Caution < 0.2"},
		{Name: "ungated"},
	}}
	got, err := Gate(set, Doctrine{Aggression: 0.2, Caution: 0.8})
	if err != nil {
		t.Fatalf("Gate: %v", err)
	}
	if got.Name != "gated" || len(got.Rules) != 2 {
		t.Fatalf("gated set = %+v", got)
	}
	if got.Rules[0].Name != "careful" || got.Rules[1].Name != "ungated" {
		t.Errorf("kept %s, %s; want careful, ungated", got.Rules[0].Name, got.Rules[1].Name)
	}
}

func TestGateClampsDoctrine(t *testing.T) {
	set := token.RuleSet{Rules: []token.Rule{{Name: "max", When: "Focus == 1.0"}}}
	got, err := Gate(set, Doctrine{Focus: 4})
	if err != nil {
		t.Fatalf("Gate: %v", err)
	}
	if len(got.Rules) != 1 {
		t.Error("Focus above 1 should clamp to 1")
	}
}

func TestGateErrors(t *testing.T) {
	for _, when := range []string{"Caution >=", "Caution", "Morale > 1"} {
		set := token.RuleSet{Rules: []token.Rule{{Name: "bad", When: when}}}
		if _, err := Gate(set, DefaultDoctrine()); err == nil {
			t.Errorf("when %q: expected error", when)
		}
	}
}
