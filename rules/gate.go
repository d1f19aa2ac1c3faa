package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/nstehr/gambit/token"
)

// GateEnv is the environment a rule's `when` expression sees.
type GateEnv struct {
	Aggression float64
	Caution    float64
	Support    float64
	Focus      float64
}

func gateEnv(d Doctrine) GateEnv {
	return GateEnv{
		Aggression: d.Aggression,
		Caution:    d.Caution,
		Support:    d.Support,
		Focus:      d.Focus,
	}
}

// Gate drops the rules whose `when` expression is false under d. Rules
// without a gate are kept. An expression that does not compile to a bool
// fails the whole set.
func Gate(set token.RuleSet, d Doctrine) (token.RuleSet, error) {
	d.Validate()
	env := gateEnv(d)

	out := token.RuleSet{Name: set.Name, Rules: make([]token.Rule, 0, len(set.Rules))}
	for i, r := range set.Rules {
		if r.When == "" {
			out.Rules = append(out.Rules, r)
			continue
		}
		prog, err := expr.Compile(r.When, expr.Env(GateEnv{}), expr.AsBool())
		if err != nil {
			return token.RuleSet{}, fmt.Errorf("compile gate of %s: %w", r.Label(i), err)
		}
		result, err := expr.Run(prog, env)
		if err != nil {
			return token.RuleSet{}, fmt.Errorf("run gate of %s: %w", r.Label(i), err)
		}
		if pass, _ := result.(bool); pass {
			out.Rules = append(out.Rules, r)
		}
	}
	return out, nil
}
