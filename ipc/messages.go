package ipc

import "github.com/nstehr/gambit/model"

// These constants must stay in sync with the battle orchestrator's message
// names.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeDecide   = "decide"
	TypeDecision = "decision"
	TypeError    = "error"
)

type HelloMessage struct {
	Participant string `json:"participant"`
}

type AckMessage struct {
	Status   string `json:"status"`
	RuleSet  string `json:"ruleSet,omitempty"`
	Revision string `json:"revision,omitempty"`
}

// DecideMessage asks for the acting character's action. The seed is part of
// the request so every decision can be replayed.
type DecideMessage struct {
	Battle model.BattleState `json:"battle"`
	Seed   uint64            `json:"seed"`
}

// DecisionMessage answers a DecideMessage. Decided is false when no rule
// fired; Error is set when evaluation failed at run time.
type DecisionMessage struct {
	Decided bool          `json:"decided"`
	Action  *model.Action `json:"action,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// ErrorMessage reports a request that could not be handled at all.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
