package check

import (
	"errors"
	"testing"

	"github.com/nstehr/gambit/diag"
	"github.com/nstehr/gambit/meta"
	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

func newChecker() *Checker { return New(meta.Builtin()) }

func acting() *token.Token { return token.New(meta.ActingCharacter) }

func hpOf(c *token.Token) *token.Token {
	return token.New(meta.CharacterHP, token.Slot("character", c))
}

// sample returns a token producing a value that fills a slot of type t.
func sample(t typesys.Type) *token.Token {
	switch {
	case t == typesys.Int, t == typesys.Numeric:
		return token.Number(7)
	case t == typesys.Bool:
		return token.New(meta.TrueOrFalseRandom)
	case t == typesys.Character:
		return acting()
	case t == typesys.HP:
		return hpOf(acting())
	case t == typesys.TeamSide:
		return token.New(meta.Hero)
	case t == typesys.Action:
		return token.New(meta.Strike, token.Slot("target", acting()))
	case t.Kind() == typesys.SeqKind:
		return token.New(meta.AllCharacters)
	case t.IsVar():
		return acting()
	}
	panic("no sample for " + t.String())
}

// produced is the type sample(t) yields.
func produced(t typesys.Type) typesys.Type {
	switch {
	case t == typesys.Numeric:
		return typesys.Int
	case t.Kind() == typesys.SeqKind:
		return typesys.SeqOf(typesys.Character)
	case t.IsVar():
		return typesys.Character
	}
	return t
}

func wellTyped(md *meta.Metadata) *token.Token {
	if md.Literal {
		return token.Number(3)
	}
	tok := token.New(md.Name)
	for _, s := range md.Slots {
		tok.Args = append(tok.Args, token.Slot(s.Name, sample(s.Type)))
	}
	return tok
}

func TestEveryTokenAcceptsDeclaredTypes(t *testing.T) {
	c := newChecker()
	for _, md := range meta.Builtin().All() {
		if md.Element {
			continue
		}
		ast, err := c.Check(wellTyped(md))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", md.Name, err)
			continue
		}
		if !ast.Type.IsConcrete() {
			t.Errorf("%s: result %s is not concrete", md.Name, ast.Type)
		}
		if !typesys.Match(md.Result, ast.Type, typesys.Subst{}) {
			t.Errorf("%s: result %s does not fit declared %s", md.Name, ast.Type, md.Result)
		}
	}
}

func TestEveryTokenReportsMismatchedArgument(t *testing.T) {
	c := newChecker()
	candidates := []*token.Token{
		token.New(meta.TrueOrFalseRandom),
		token.New(meta.Hero),
		token.Number(1),
		token.New(meta.AllTeamSides),
	}
	candidateTypes := []typesys.Type{typesys.Bool, typesys.TeamSide, typesys.Int, typesys.SeqOf(typesys.TeamSide)}

	for _, md := range meta.Builtin().All() {
		for i, s := range md.Slots {
			subst := typesys.Subst{}
			for _, prev := range md.Slots[:i] {
				typesys.Match(prev.Type, produced(prev.Type), subst)
			}
			bad := -1
			for j, ct := range candidateTypes {
				trial := typesys.Subst{}
				for k, v := range subst {
					trial[k] = v
				}
				if !typesys.Match(s.Type, ct, trial) {
					bad = j
					break
				}
			}
			if bad < 0 {
				continue // slot accepts every candidate
			}

			tok := wellTyped(md)
			tok.Args[i].Token = candidates[bad]
			_, err := c.Check(tok)
			var de *diag.Error
			if !errors.As(err, &de) {
				t.Errorf("%s.%s: expected diag error, got %v", md.Name, s.Name, err)
				continue
			}
			if de.Kind != diag.TypeMismatch || de.Slot != s.Name || de.Index != i {
				t.Errorf("%s.%s: got %s at %q/%d, want type mismatch at %q/%d", md.Name, s.Name, de.Kind, de.Slot, de.Index, s.Name, i)
			}
		}
	}
}

func TestElementOutsideContext(t *testing.T) {
	c := newChecker()
	trees := []*token.Token{
		token.New(meta.Element),
		hpOf(token.New(meta.Element)),
		// Element in the array slot is outside the combinator's scope.
		token.New(meta.FilterList,
			token.Slot("array", token.New(meta.Element)),
			token.Slot("condition", token.New(meta.TrueOrFalseRandom))),
	}
	for _, tree := range trees {
		_, err := c.Check(tree)
		if !errors.Is(err, diag.ElementOutsideContext) {
			t.Errorf("%s: error = %v, want ElementOutsideContext", tree, err)
		}
	}
}

func TestFilterListBindsElement(t *testing.T) {
	tree := token.New(meta.RandomPick, token.Slot("array", token.New(meta.FilterList,
		token.Slot("array", token.New(meta.TeamCharacters)),
		token.Slot("condition", token.New(meta.GreaterThan,
			token.Slot("left", token.Number(50)),
			token.Slot("right", hpOf(token.New(meta.Element))),
		)),
	)))
	ast, err := newChecker().Check(tree)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ast.Type != typesys.Character {
		t.Errorf("RandomPick type = %s, want Character", ast.Type)
	}
	filter := ast.Args[0]
	if filter.Type != typesys.SeqOf(typesys.Character) {
		t.Errorf("FilterList type = %s", filter.Type)
	}
	elem := filter.Args[1].Args[1].Args[0]
	if elem.Token != meta.Element || elem.Type != typesys.Character {
		t.Errorf("Element typed as %s, want Character", elem.Type)
	}
}

func TestNestedMapRebindsElement(t *testing.T) {
	// Map over team sides, counting each side's members.
	tree := token.New(meta.Map,
		token.Slot("array", token.New(meta.AllTeamSides)),
		token.Slot("transform", token.New(meta.Count, token.Slot("array",
			token.New(meta.TeamMembers, token.Slot("team_side", token.New(meta.Element))),
		))),
	)
	ast, err := newChecker().Check(tree)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ast.Type != typesys.SeqOf(typesys.Int) {
		t.Errorf("Map type = %s, want Seq<Int>", ast.Type)
	}
	if u, _ := ast.Binding("U"); u != typesys.Int {
		t.Errorf("U bound to %s, want Int", u)
	}
}

func TestNumericOperandsRecorded(t *testing.T) {
	tree := token.New(meta.GreaterThan,
		token.Slot("left", token.Number(50)),
		token.Slot("right", hpOf(acting())),
	)
	ast, err := newChecker().Check(tree)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ast.ArgType(0) != typesys.Int || ast.ArgType(1) != typesys.HP {
		t.Errorf("operands = %s, %s; want Int, CharacterHP", ast.ArgType(0), ast.ArgType(1))
	}
}

func TestCharacterIsNotNumericForComparisons(t *testing.T) {
	tree := token.New(meta.LessThan,
		token.Slot("left", acting()),
		token.Slot("right", token.Number(3)),
	)
	_, err := newChecker().Check(tree)
	var de *diag.Error
	if !errors.As(err, &de) || de.Kind != diag.TypeMismatch || de.Slot != "left" {
		t.Fatalf("error = %v, want type mismatch on left", err)
	}
	if de.Expected != typesys.Numeric || de.Actual != typesys.Character {
		t.Errorf("expected/actual = %s/%s", de.Expected, de.Actual)
	}
}

func TestMaxOverCharacters(t *testing.T) {
	tree := token.New(meta.Max, token.Slot("array", token.New(meta.AllCharacters)))
	ast, err := newChecker().Check(tree)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ast.Type != typesys.Character {
		t.Errorf("Max type = %s, want Character", ast.Type)
	}
}

func TestEqWidensToNumeric(t *testing.T) {
	tree := token.New(meta.Eq,
		token.Slot("left", token.Number(30)),
		token.Slot("right", hpOf(acting())),
	)
	ast, err := newChecker().Check(tree)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if tt, _ := ast.Binding("T"); tt != typesys.Numeric {
		t.Errorf("T = %s, want Numeric", tt)
	}
}

func TestValueBoundRejectsUncomparableTypes(t *testing.T) {
	mapToBool := token.New(meta.Map,
		token.Slot("array", token.New(meta.AllCharacters)),
		token.Slot("transform", token.New(meta.TrueOrFalseRandom)),
	)
	tests := []struct {
		name  string
		tree  *token.Token
		token string
		path  []string
	}{
		{"eq over bools", token.New(meta.Eq,
			token.Slot("left", token.New(meta.TrueOrFalseRandom)),
			token.Slot("right", token.New(meta.TrueOrFalseRandom))), meta.Eq, []string{"left"}},
		{"eq over sequences", token.New(meta.Eq,
			token.Slot("left", token.New(meta.AllCharacters)),
			token.Slot("right", token.New(meta.TeamCharacters))), meta.Eq, []string{"left"}},
		{"map to bool", mapToBool, meta.Map, []string{"transform"}},
		{"nested map to bool", token.New(meta.Count, token.Slot("array", mapToBool)), meta.Map, []string{"array", "transform"}},
	}
	for _, tc := range tests {
		_, err := newChecker().Check(tc.tree)
		var de *diag.Error
		if !errors.As(err, &de) || de.Kind != diag.TypeMismatch {
			t.Errorf("%s: error = %v, want type mismatch", tc.name, err)
			continue
		}
		if de.Token != tc.token || len(de.Path) != len(tc.path) || de.Path[len(de.Path)-1] != tc.path[len(tc.path)-1] {
			t.Errorf("%s: reported at %s %v, want %s %v", tc.name, de.Token, de.Path, tc.token, tc.path)
		}
	}
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		tree *token.Token
		kind diag.Kind
		slot string
	}{
		{"strike without target", token.New(meta.Strike), diag.MissingRequiredArgument, "target"},
		{"number without value", token.New(meta.Number), diag.MissingRequiredArgument, "value"},
		{"unknown token", token.New(meta.Heal, token.Slot("target", token.New("Acting"))), diag.UnknownToken, ""},
		{"unknown slot", token.New(meta.Heal, token.Slot("targt", acting())), diag.ArityMismatch, "targt"},
		{"extra slot", token.New(meta.ActingCharacter, token.Slot("x", acting())), diag.ArityMismatch, "x"},
		{"duplicate slot", token.New(meta.Heal, token.Slot("target", acting()), token.Slot("target", acting())), diag.ArityMismatch, "target"},
	}
	for _, tc := range tests {
		_, err := newChecker().Check(tc.tree)
		var de *diag.Error
		if !errors.As(err, &de) {
			t.Errorf("%s: got %v, want diag error", tc.name, err)
			continue
		}
		if de.Kind != tc.kind || de.Slot != tc.slot {
			t.Errorf("%s: got %s/%q, want %s/%q", tc.name, de.Kind, de.Slot, tc.kind, tc.slot)
		}
	}
}

func TestFirstFailureInArgumentOrder(t *testing.T) {
	// Both slots are wrong; the left one is reported.
	tree := token.New(meta.GreaterThan,
		token.Slot("right", token.New("Bogus")),
		token.Slot("left", token.New(meta.Hero)),
	)
	_, err := newChecker().Check(tree)
	var de *diag.Error
	if !errors.As(err, &de) || de.Kind != diag.TypeMismatch || de.Slot != "left" {
		t.Fatalf("error = %v, want type mismatch on left", err)
	}
}

func TestErrorPathPointsAtNestedSlot(t *testing.T) {
	tree := token.New(meta.Strike, token.Slot("target", token.New(meta.RandomPick,
		token.Slot("array", token.New(meta.TeamMembers, token.Slot("team_side", token.Number(2)))),
	)))
	_, err := newChecker().Check(tree)
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error = %v", err)
	}
	want := []string{"target", "array", "team_side"}
	if len(de.Path) != len(want) {
		t.Fatalf("path = %v, want %v", de.Path, want)
	}
	for i := range want {
		if de.Path[i] != want[i] {
			t.Errorf("path = %v, want %v", de.Path, want)
		}
	}
}
