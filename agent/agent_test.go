package agent

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/nstehr/gambit/ipc"
	"github.com/nstehr/gambit/loader"
	"github.com/nstehr/gambit/model"
)

const strikeYAML = `name: strike-only
rules:
  - name: poke
    tokens:
      - type: Strike
        target: { type: RandomPick, array: { type: TeamMembers, team_side: OpposingTeam } }
`

const healYAML = `name: heal-only
rules:
  - name: mend
    tokens:
      - type: Heal
        target: ActingCharacter
`

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestAgent(t *testing.T, rulebook *Rulebook) *Agent {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	a := New(ipc.NewConnection(server, nil), rulebook)
	a.Register()
	return a
}

func battle() model.BattleState {
	return model.BattleState{
		Turn:     1,
		ActingID: 1,
		Player: model.Team{Name: "heroes", Side: model.SidePlayer, Members: []model.Character{
			{ID: 1, Name: "Knight", HP: 90, MaxHP: 100, MP: 20, MaxMP: 20, Attack: 20},
		}},
		Enemy: model.Team{Name: "goblins", Side: model.SideEnemy, Members: []model.Character{
			{ID: 10, Name: "Goblin", HP: 30, MaxHP: 30, Attack: 8},
			{ID: 11, Name: "Imp", HP: 15, MaxHP: 15, Attack: 5},
		}},
	}
}

func decide(t *testing.T, a *Agent, req ipc.DecideMessage) ipc.DecisionMessage {
	t.Helper()
	env, err := ipc.NewEnvelope(ipc.TypeDecide, req)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := a.HandleDecide(env)
	if err != nil {
		t.Fatalf("HandleDecide: %v", err)
	}
	if resp.Type != ipc.TypeDecision {
		t.Fatalf("reply type = %s", resp.Type)
	}
	var d ipc.DecisionMessage
	if err := json.Unmarshal(resp.Data, &d); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestHandleHello(t *testing.T) {
	rb, err := NewRulebook(writeRules(t, strikeYAML), loader.Policy{})
	if err != nil {
		t.Fatalf("NewRulebook: %v", err)
	}
	a := newTestAgent(t, rb)

	env, _ := ipc.NewEnvelope(ipc.TypeHello, ipc.HelloMessage{Participant: "arena-7"})
	resp, err := a.HandleHello(env)
	if err != nil {
		t.Fatalf("HandleHello: %v", err)
	}
	var ack ipc.AckMessage
	if err := json.Unmarshal(resp.Data, &ack); err != nil {
		t.Fatal(err)
	}
	if a.Participant != "arena-7" || a.Conn.Participant != "arena-7" {
		t.Errorf("participant = %q", a.Participant)
	}
	if ack.Status != "ok" || ack.RuleSet != "strike-only" || ack.Revision == "" {
		t.Errorf("ack = %+v", ack)
	}
}

func TestHandleDecide(t *testing.T) {
	rb, err := NewRulebook(writeRules(t, strikeYAML), loader.Policy{})
	if err != nil {
		t.Fatalf("NewRulebook: %v", err)
	}
	a := newTestAgent(t, rb)

	d := decide(t, a, ipc.DecideMessage{Battle: battle(), Seed: 42})
	if !d.Decided || d.Action == nil || d.Error != "" {
		t.Fatalf("decision = %+v", d)
	}
	if d.Action.Kind != model.ActionStrike || d.Action.ActorID != 1 {
		t.Errorf("action = %s", d.Action)
	}
	if d.Action.TargetID != 10 && d.Action.TargetID != 11 {
		t.Errorf("target %d is not an enemy", d.Action.TargetID)
	}

	again := decide(t, a, ipc.DecideMessage{Battle: battle(), Seed: 42})
	if *again.Action != *d.Action {
		t.Errorf("same seed gave %s then %s", d.Action, again.Action)
	}
}

func TestHandleDecideOutcomes(t *testing.T) {
	rb, err := NewRulebook(writeRules(t, healYAML), loader.Policy{})
	if err != nil {
		t.Fatalf("NewRulebook: %v", err)
	}
	a := newTestAgent(t, rb)

	// Without MP the heal is abandoned and no rule fires.
	b := battle()
	b.Player.Members[0].MP = 0
	if d := decide(t, a, ipc.DecideMessage{Battle: b}); d.Decided || d.Action != nil || d.Error != "" {
		t.Errorf("decision without MP = %+v", d)
	}

	// A broken battle never reaches the engine.
	b = battle()
	b.ActingID = 99
	env, _ := ipc.NewEnvelope(ipc.TypeDecide, ipc.DecideMessage{Battle: b})
	if _, err := a.HandleDecide(env); err == nil {
		t.Error("expected an error for an unknown acting character")
	}
	if _, err := a.HandleDecide(ipc.Envelope{Type: ipc.TypeDecide, Data: json.RawMessage(`[1,2]`)}); err == nil {
		t.Error("expected an error for a malformed request")
	}
}

func TestReloadAndStatus(t *testing.T) {
	path := writeRules(t, strikeYAML)
	rb, err := NewRulebook(path, loader.Policy{})
	if err != nil {
		t.Fatalf("NewRulebook: %v", err)
	}
	a := newTestAgent(t, rb)
	before := rb.Current().Revision

	if err := os.WriteFile(path, []byte(healYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	resp, err := a.HandleReload(ipc.Envelope{Type: ipc.TypeReload})
	if err != nil {
		t.Fatalf("HandleReload: %v", err)
	}
	var res ipc.ReloadResult
	json.Unmarshal(resp.Data, &res)
	if res.Error != "" || res.RuleSet != "heal-only" || res.Rules != 1 || res.Revision == before {
		t.Errorf("reload result = %+v", res)
	}

	// A broken file is rejected and the heal rules stay.
	if err := os.WriteFile(path, []byte("rules:\n  - tokens:\n      - type: Heal\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	resp, _ = a.HandleReload(ipc.Envelope{Type: ipc.TypeReload})
	res = ipc.ReloadResult{}
	json.Unmarshal(resp.Data, &res)
	if res.Error == "" || res.RuleSet != "heal-only" {
		t.Errorf("broken reload result = %+v", res)
	}

	resp, err = a.HandleStatus(ipc.Envelope{Type: ipc.TypeStatus})
	if err != nil {
		t.Fatalf("HandleStatus: %v", err)
	}
	var status ipc.StatusResult
	json.Unmarshal(resp.Data, &status)
	if status.RuleSet != "heal-only" || status.Path != path || len(status.Rules) != 1 || status.Rules[0] != "mend" {
		t.Errorf("status = %+v", status)
	}
}

func TestRulebookDefaults(t *testing.T) {
	rb, err := NewRulebook("", loader.Policy{})
	if err != nil {
		t.Fatalf("NewRulebook: %v", err)
	}
	if rb.Current().Fallback || len(rb.Engine().Rows()) == 0 {
		t.Errorf("default rulebook = %+v with %d rows", rb.Current(), len(rb.Engine().Rows()))
	}
	if _, err := rb.Reload(""); err == nil {
		t.Error("reloading without a rule file should fail")
	}

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewRulebook(missing, loader.Policy{}); err == nil {
		t.Error("strict rulebook accepted a missing file")
	}
	rb, err = NewRulebook(missing, loader.Policy{Fallback: true})
	if err != nil || !rb.Current().Fallback {
		t.Errorf("fallback rulebook = %v, %v", rb, err)
	}
}

func TestReloadAfterFallback(t *testing.T) {
	path := writeRules(t, "rules:\n  - tokens:\n      - type: Strike\n")
	rb, err := NewRulebook(path, loader.Policy{Fallback: true})
	if err != nil {
		t.Fatalf("NewRulebook: %v", err)
	}
	if cur := rb.Current(); !cur.Fallback || cur.Path != path {
		t.Fatalf("startup file = %+v, want a fallback remembering %s", cur, path)
	}

	if err := os.WriteFile(path, []byte(healYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	file, err := rb.Reload("")
	if err != nil {
		t.Fatalf("Reload after fixing the file: %v", err)
	}
	if file.Fallback || file.Name != "heal-only" || rb.Current() != file {
		t.Errorf("reloaded file = %+v", file)
	}
	if rows := rb.Engine().Rows(); len(rows) != 1 || rows[0].Name != "mend" {
		t.Errorf("engine rows = %+v, want the mend rule", rows)
	}
}
