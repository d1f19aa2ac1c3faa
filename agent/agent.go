package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/nstehr/gambit/ipc"
	"github.com/nstehr/gambit/logger"
	"github.com/nstehr/gambit/model"
)

// Agent owns the decision-making for a single orchestrator session.
type Agent struct {
	Conn        *ipc.Connection
	Participant string
	Rulebook    *Rulebook

	log *slog.Logger
}

func New(conn *ipc.Connection, rulebook *Rulebook) *Agent {
	return &Agent{Conn: conn, Rulebook: rulebook, log: slog.Default()}
}

// Register installs the agent's handlers on its connection.
func (a *Agent) Register() {
	a.Conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	a.Conn.RegisterHandler(ipc.TypeDecide, a.HandleDecide)
	a.Conn.RegisterHandler(ipc.TypeReload, a.HandleReload)
	a.Conn.RegisterHandler(ipc.TypeStatus, a.HandleStatus)
}

// HandleHello completes the handshake so the orchestrator knows which rule
// set it is talking to.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	a.Participant = hello.Participant
	a.Conn.Participant = hello.Participant
	a.log = logger.WithParticipant(slog.Default(), hello.Participant)

	file := a.Rulebook.Current()
	a.log.Info("participant identified", "ruleSet", file.Name, "revision", file.Revision)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{
		Status:   "ok",
		RuleSet:  file.Name,
		Revision: file.Revision,
	})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleDecide evaluates the rule set for the acting character. A run-time
// rule failure is reported in the decision; a malformed request is an error.
func (a *Agent) HandleDecide(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.DecideMessage
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, fmt.Errorf("unmarshal decide: %w", err)
	}
	b := &req.Battle
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid battle: %w", err)
	}

	acting, _ := b.ActingCharacter()
	a.log.Debug("battle state received",
		"turn", b.Turn,
		"acting", acting.Name,
		"hp", fmt.Sprintf("%d/%d", acting.HP, acting.MaxHP),
		"mp", fmt.Sprintf("%d/%d", acting.MP, acting.MaxMP),
		"allies", len(b.Members(model.SidePlayer)),
		"enemies", len(b.Members(model.SideEnemy)),
		"seed", req.Seed,
	)

	rng := rand.New(rand.NewPCG(req.Seed, req.Seed))
	var resp ipc.DecisionMessage
	action, decided, err := a.Rulebook.Engine().Decide(b, rng)
	switch {
	case err != nil:
		resp.Error = err.Error()
	case decided:
		resp.Decided = true
		resp.Action = &action
	}

	out, err := ipc.NewEnvelope(ipc.TypeDecision, resp)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// HandleReload reloads the rule file. Failures are reported in the result
// so the operator sees why the running rules were kept.
func (a *Agent) HandleReload(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.ReloadCommand
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("unmarshal reload: %w", err)
		}
	}

	var res ipc.ReloadResult
	if _, err := a.Rulebook.Reload(cmd.Path); err != nil {
		res.Error = err.Error()
	}
	file := a.Rulebook.Current()
	res.RuleSet = file.Name
	res.Revision = file.Revision
	res.Rules = len(a.Rulebook.Engine().Rows())
	res.Fallback = file.Fallback

	out, err := ipc.NewEnvelope(ipc.TypeReload, res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Agent) HandleStatus(ipc.Envelope) (*ipc.Envelope, error) {
	file := a.Rulebook.Current()
	res := ipc.StatusResult{
		RuleSet:  file.Name,
		Revision: file.Revision,
		Path:     file.Path,
		Fallback: file.Fallback,
	}
	for _, row := range a.Rulebook.Engine().Rows() {
		res.Rules = append(res.Rules, row.Name)
	}

	out, err := ipc.NewEnvelope(ipc.TypeStatus, res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
