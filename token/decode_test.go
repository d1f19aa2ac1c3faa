package token

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

const healRuleJSON = `{
  "rules": [
    {
      "name": "heal-self",
      "tokens": [
        {"type": "GreaterThan", "left": {"type": "Number", "value": 50}, "right": {"type": "CharacterHP", "character": {"type": "ActingCharacter"}}},
        {"type": "Heal", "target": {"type": "ActingCharacter"}}
      ]
    }
  ]
}`

func TestDecodeJSONRuleSet(t *testing.T) {
	var rs RuleSet
	if err := json.Unmarshal([]byte(healRuleJSON), &rs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rs.Rules) != 1 || len(rs.Rules[0].Tokens) != 2 {
		t.Fatalf("unexpected shape: %+v", rs)
	}
	gt := rs.Rules[0].Tokens[0]
	if gt.Type != "GreaterThan" {
		t.Errorf("first token = %q, want GreaterThan", gt.Type)
	}
	if len(gt.Args) != 2 || gt.Args[0].Name != "left" || gt.Args[1].Name != "right" {
		t.Errorf("slot order not preserved: %+v", gt.Args)
	}
	if v := gt.Arg("left").Value; v == nil || *v != 50 {
		t.Errorf("left literal = %v, want 50", v)
	}
	want := "GreaterThan(left=Number(50), right=CharacterHP(character=ActingCharacter))"
	if got := gt.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDecodeJSONShorthand(t *testing.T) {
	var tok Token
	if err := json.Unmarshal([]byte(`{"type": "LessThan", "left": 10, "right": "ActingCharacter"}`), &tok); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l := tok.Arg("left"); l.Type != "Number" || *l.Value != 10 {
		t.Errorf("left = %s, want Number(10)", l)
	}
	if r := tok.Arg("right"); r.Type != "ActingCharacter" {
		t.Errorf("right = %s, want ActingCharacter", r)
	}
}

func TestDecodeJSONMissingType(t *testing.T) {
	var tok Token
	if err := json.Unmarshal([]byte(`{"target": {"type": "ActingCharacter"}}`), &tok); err == nil {
		t.Fatal("expected error for token without type")
	}
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	tok := New("Heal", Slot("target", New("ActingCharacter")))
	out, err := json.Marshal(tok)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"Heal","target":{"type":"ActingCharacter"}}`
	if string(out) != want {
		t.Errorf("MarshalJSON = %s, want %s", out, want)
	}
}

const filterRuleYAML = `
rules:
  - name: strike-weak
    priority: 10
    tokens:
      - type: Strike
        target:
          type: RandomPick
          array:
            type: FilterList
            array: TeamCharacters
            condition:
              type: GreaterThan
              left: 50
              right: { type: CharacterHP, character: Element }
`

func TestDecodeYAMLRecordsPositions(t *testing.T) {
	var rs RuleSet
	if err := yaml.Unmarshal([]byte(filterRuleYAML), &rs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := rs.Rules[0]
	if r.Name != "strike-weak" || r.Priority != 10 {
		t.Errorf("rule header = %q/%d", r.Name, r.Priority)
	}
	strike := r.Tokens[0]
	if strike.Pos.Line != 6 {
		t.Errorf("Strike line = %d, want 6", strike.Pos.Line)
	}
	filter := strike.Arg("target").Arg("array")
	if filter.Type != "FilterList" {
		t.Fatalf("nested token = %q, want FilterList", filter.Type)
	}
	if src := filter.Arg("array"); src.Type != "TeamCharacters" || src.Pos.Line != 11 {
		t.Errorf("array = %q at %s, want TeamCharacters at line 11", src.Type, src.Pos)
	}
	left := filter.Arg("condition").Arg("left")
	if left.Type != "Number" || left.Value == nil || *left.Value != 50 {
		t.Errorf("left = %s, want Number(50)", left)
	}
}
