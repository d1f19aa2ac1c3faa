package rules

import (
	"github.com/nstehr/gambit/meta"
	"github.com/nstehr/gambit/token"
)

// CompileDoctrine generates a complete rule set from a doctrine's weights.
// Every rule is built from builtin tokens with interpolated thresholds, so
// the result always compiles.
func CompileDoctrine(d Doctrine) token.RuleSet {
	d.Validate()
	set := token.RuleSet{Name: d.Name}

	// --- Self preservation (parameterized by Caution) ---

	healAt := lerp(20, 60, d.Caution)
	set.Rules = append(set.Rules, token.Rule{
		Name:     "heal-self",
		Priority: lerp(300, 500, d.Caution),
		Tokens: []*token.Token{
			greaterThan(token.Number(healAt), hpOf(acting())),
			heal(acting()),
		},
	})

	// --- Support (gated by Support) ---

	if d.Support > 0.1 {
		allyAt := lerp(20, 60, d.Support)
		wounded := func() *token.Token {
			return token.New(meta.FilterList,
				token.Slot("array", token.New(meta.TeamCharacters)),
				token.Slot("condition", greaterThan(token.Number(allyAt), hpOf(token.New(meta.Element)))),
			)
		}
		set.Rules = append(set.Rules, token.Rule{
			Name:     "support-ally",
			Priority: lerp(250, 450, d.Support),
			Tokens: []*token.Token{
				greaterThan(token.New(meta.Count, token.Slot("array", wounded())), token.Number(0)),
				heal(token.New(meta.Min, token.Slot("array", wounded()))),
			},
		})
	}

	// --- Offense (parameterized by Focus and Aggression) ---

	if d.Focus > 0.1 {
		finishAt := lerp(10, 40, d.Focus)
		set.Rules = append(set.Rules, token.Rule{
			Name:     "finish-weakest",
			Priority: lerp(200, 400, d.Focus),
			Tokens: []*token.Token{
				greaterThan(token.Number(finishAt), hpOf(weakestOpponent())),
				strike(weakestOpponent()),
			},
		})
	}

	if d.Aggression > 0.6 {
		set.Rules = append(set.Rules, token.Rule{
			Name:     "strike-strongest",
			Priority: lerp(100, 300, d.Aggression),
			Tokens: []*token.Token{
				strike(token.New(meta.Max, token.Slot("array", opponents()))),
			},
		})
	}

	// Baseline: always present so every turn has a decision.
	set.Rules = append(set.Rules, token.Rule{
		Name:     "strike-random",
		Priority: 100,
		Tokens: []*token.Token{
			strike(token.New(meta.RandomPick, token.Slot("array", opponents()))),
		},
	})

	return set
}

func acting() *token.Token { return token.New(meta.ActingCharacter) }

func hpOf(c *token.Token) *token.Token {
	return token.New(meta.CharacterHP, token.Slot("character", c))
}

func greaterThan(left, right *token.Token) *token.Token {
	return token.New(meta.GreaterThan, token.Slot("left", left), token.Slot("right", right))
}

func opponents() *token.Token {
	return token.New(meta.TeamMembers, token.Slot("team_side", token.New(meta.OpposingTeam)))
}

func weakestOpponent() *token.Token {
	return token.New(meta.Min, token.Slot("array", opponents()))
}

func strike(target *token.Token) *token.Token {
	return token.New(meta.Strike, token.Slot("target", target))
}

func heal(target *token.Token) *token.Token {
	return token.New(meta.Heal, token.Slot("target", target))
}
