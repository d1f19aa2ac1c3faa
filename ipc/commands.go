package ipc

// Control commands sent by operators rather than the battle orchestrator.
const (
	TypeReload = "reload"
	TypeStatus = "status"
)

// ReloadCommand reloads the rule file. An empty Path keeps the current one.
type ReloadCommand struct {
	Path string `json:"path,omitempty"`
}

type ReloadResult struct {
	RuleSet  string `json:"ruleSet"`
	Revision string `json:"revision"`
	Rules    int    `json:"rules"`
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

type StatusCommand struct{}

type StatusResult struct {
	RuleSet  string   `json:"ruleSet"`
	Revision string   `json:"revision"`
	Path     string   `json:"path,omitempty"`
	Fallback bool     `json:"fallback"`
	Rules    []string `json:"rules"`
}
