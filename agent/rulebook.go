package agent

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/nstehr/gambit/loader"
	"github.com/nstehr/gambit/rules"
	"github.com/nstehr/gambit/token"
)

// Rulebook owns the rule engine shared by every connection and swaps its
// rule set when the rule file changes.
type Rulebook struct {
	mu     sync.RWMutex
	engine *rules.Engine
	file   *loader.File
}

// NewRulebook loads path under policy and compiles it. An empty path uses
// the default doctrine.
func NewRulebook(path string, policy loader.Policy) (*Rulebook, error) {
	file := loader.Default()
	file.Fallback = false
	if path != "" {
		var err error
		if file, err = policy.Load(path); err != nil {
			return nil, err
		}
	}
	set, err := file.RuleSet()
	if err != nil {
		return nil, err
	}
	engine, err := rules.NewEngine(set)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", file.Name, err)
	}
	return &Rulebook{engine: engine, file: file}, nil
}

func (rb *Rulebook) Engine() *rules.Engine { return rb.engine }

// Current returns the file the engine's rules came from.
func (rb *Rulebook) Current() *loader.File {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.file
}

// Reload re-reads path, or the current file when path is empty, and swaps
// the engine's rules. Reloads are strict: a broken file leaves the running
// rules in place.
func (rb *Rulebook) Reload(path string) (*loader.File, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if path == "" {
		path = rb.file.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no rule file to reload")
	}

	// Swap compiles the set and keeps the running rows when that fails.
	file, err := loader.Load(path)
	var set token.RuleSet
	if err == nil {
		set, err = file.RuleSet()
	}
	if err == nil {
		err = rb.engine.Swap(set)
	}
	if err != nil {
		slog.Warn("rule reload rejected, keeping current rules", "path", path, "revision", rb.file.Revision, "error", err)
		return nil, err
	}
	slog.Info("rules reloaded", "path", path, "name", file.Name, "from", rb.file.Revision, "to", file.Revision)
	rb.file = file
	return file, nil
}
