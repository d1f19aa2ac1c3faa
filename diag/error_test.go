package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

func TestErrorIsKind(t *testing.T) {
	err := fmt.Errorf("compile: %w", &Error{Kind: TypeMismatch, Token: "Heal", Slot: "target", Index: 0})
	if !errors.Is(err, TypeMismatch) {
		t.Error("wrapped error should match TypeMismatch")
	}
	if errors.Is(err, UnknownToken) {
		t.Error("wrapped error should not match UnknownToken")
	}
	var de *Error
	if !errors.As(err, &de) || de.Slot != "target" {
		t.Errorf("errors.As did not recover the slot: %+v", de)
	}
}

func TestErrorRendering(t *testing.T) {
	e := &Error{
		Kind:     TypeMismatch,
		Token:    "Strike",
		Slot:     "target",
		Index:    0,
		Expected: typesys.Character,
		Actual:   typesys.Int,
		Path:     []string{"tokens[1]", "target"},
		Pos:      token.Pos{Line: 4, Column: 9},
	}
	e.Within("strike-first")

	got := e.Error()
	for _, want := range []string{
		"[type mismatch] Strike.target (argument 1) expects Character, got Int",
		"--> strike-first > tokens[1] > target (line 4:9)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"ActingCharacter", "AllCharacters", "GreaterThan", "Heal", "Strike"}
	tests := []struct {
		unknown string
		want    string
	}{
		{"Heall", "Did you mean 'Heal'?"},
		{"greaterthan", "Did you mean 'GreaterThan'?"},
		{"Stirke", "Did you mean 'Strike'?"},
		{"Fireball", "Valid names: ActingCharacter, AllCharacters, GreaterThan, Heal, Strike"},
	}
	for _, tc := range tests {
		if got := Suggest(tc.unknown, names); got != tc.want {
			t.Errorf("Suggest(%q) = %q, want %q", tc.unknown, got, tc.want)
		}
	}
}

func TestListErr(t *testing.T) {
	var l List
	if l.Err() != nil {
		t.Error("empty list should be nil")
	}
	l = append(l, &Error{Kind: UnknownToken, Token: "Nope"}, &Error{Kind: ElementOutsideContext})
	if !strings.HasPrefix(l.Err().Error(), "found 2 error(s):") {
		t.Errorf("List.Error() = %q", l.Error())
	}
}
