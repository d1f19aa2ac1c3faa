package rules

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/nstehr/gambit/model"
	"github.com/nstehr/gambit/node"
)

// Row is one compiled rule: conditions evaluated left to right, then the
// action. A false condition or an abandoning action moves the engine on to
// the next row.
type Row struct {
	Name       string // human-readable identifier
	Priority   int    // higher = evaluated first
	Conditions []node.Node[bool]
	Action     node.Node[model.Action]
}

// Evaluate runs the row against one battle snapshot. It reports whether the
// row decided; runtime failures are returned and never turned into a
// decision.
func (r *Row) Evaluate(b node.Battle, rng *rand.Rand) (model.Action, bool, error) {
	ctx := node.NewContext(b)
	for i, c := range r.Conditions {
		ok, err := c.Evaluate(ctx, rng)
		if errors.Is(err, node.ErrAbandon) {
			return model.Action{}, false, nil
		}
		if err != nil {
			return model.Action{}, false, fmt.Errorf("rule %q token %d: %w", r.Name, i, err)
		}
		if !ok {
			return model.Action{}, false, nil
		}
	}

	a, err := r.Action.Evaluate(ctx, rng)
	if errors.Is(err, node.ErrAbandon) {
		return model.Action{}, false, nil
	}
	if err != nil {
		return model.Action{}, false, fmt.Errorf("rule %q action: %w", r.Name, err)
	}
	return a, true, nil
}
