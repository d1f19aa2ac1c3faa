package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nstehr/gambit/battle"
	"github.com/nstehr/gambit/loader"
	"github.com/nstehr/gambit/model"
	"github.com/nstehr/gambit/rules"
)

var simulateFlags struct {
	rules      string
	enemyRules string
	battle     string
	seed       uint64
	maxRounds  int
	format     string
	events     bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play a battle between two rule sets",
	Long: `Run a turn-based battle where every player character follows one rule file
and every enemy follows another. Without a rule file a side uses the default
doctrine. The same seed always replays the same battle.

The battle file lists both teams:

  player:
    name: heroes
    members:
      - { id: 1, name: Knight, hp: 120, maxHp: 120, mp: 20, maxMp: 20, attack: 18 }
  enemy:
    name: goblins
    members:
      - { id: 10, name: Goblin, hp: 60, maxHp: 60, attack: 12 }

Examples:
  gambit simulate --seed 7
  gambit simulate --rules cautious.yaml --enemy-rules berserk.json --events
  gambit simulate --battle arena.yaml --max-rounds 20 --format json`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simulateFlags.rules, "rules", "", "rule file for the player team")
	simulateCmd.Flags().StringVar(&simulateFlags.enemyRules, "enemy-rules", "", "rule file for the enemy team")
	simulateCmd.Flags().StringVar(&simulateFlags.battle, "battle", "", "battle file (.yaml, .yml or .json); built-in skirmish if empty")
	simulateCmd.Flags().Uint64Var(&simulateFlags.seed, "seed", 1, "random seed")
	simulateCmd.Flags().IntVar(&simulateFlags.maxRounds, "max-rounds", battle.DefaultMaxRounds, "rounds before the battle is a draw")
	simulateCmd.Flags().StringVar(&simulateFlags.format, "format", "text", "output format: text, json")
	simulateCmd.Flags().BoolVar(&simulateFlags.events, "events", false, "print battle events")
}

type scenario struct {
	Player model.Team `json:"player" yaml:"player"`
	Enemy  model.Team `json:"enemy" yaml:"enemy"`
}

func defaultScenario() scenario {
	return scenario{
		Player: model.Team{Name: "heroes", Members: []model.Character{
			{ID: 1, Name: "Knight", HP: 120, MaxHP: 120, MP: 20, MaxMP: 20, Attack: 18},
			{ID: 2, Name: "Archer", HP: 80, MaxHP: 80, MP: 10, MaxMP: 10, Attack: 22},
			{ID: 3, Name: "Cleric", HP: 70, MaxHP: 70, MP: 60, MaxMP: 60, Attack: 8},
		}},
		Enemy: model.Team{Name: "raiders", Members: []model.Character{
			{ID: 10, Name: "Orc", HP: 140, MaxHP: 140, Attack: 20},
			{ID: 11, Name: "Goblin", HP: 60, MaxHP: 60, Attack: 12},
			{ID: 12, Name: "Shaman", HP: 50, MaxHP: 50, MP: 40, MaxMP: 40, Attack: 6},
		}},
	}
}

func loadScenario(path string) (scenario, error) {
	if path == "" {
		return defaultScenario(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, fmt.Errorf("read battle file: %w", err)
	}

	var s scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return scenario{}, fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return scenario{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

// engineFor compiles a side's rule file strictly, or the default doctrine.
func engineFor(path string) (*rules.Engine, string, error) {
	file := loader.Default()
	if path != "" {
		var err error
		if file, err = (loader.Policy{}).Load(path); err != nil {
			return nil, "", err
		}
	}
	set, err := file.RuleSet()
	if err != nil {
		return nil, "", err
	}
	engine, err := rules.NewEngine(set)
	if err != nil {
		return nil, "", err
	}
	return engine, file.Name, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(simulateFlags.battle)
	if err != nil {
		return err
	}
	playerEngine, playerRules, err := engineFor(simulateFlags.rules)
	if err != nil {
		return fmt.Errorf("player rules: %w", err)
	}
	enemyEngine, enemyRules, err := engineFor(simulateFlags.enemyRules)
	if err != nil {
		return fmt.Errorf("enemy rules: %w", err)
	}

	deciders := make(map[int]battle.Decider)
	for _, c := range s.Player.Members {
		deciders[c.ID] = playerEngine
	}
	for _, c := range s.Enemy.Members {
		deciders[c.ID] = enemyEngine
	}

	tb, err := battle.New(model.BattleState{Player: s.Player, Enemy: s.Enemy}, deciders,
		battle.WithSeed(simulateFlags.seed),
		battle.WithMaxRounds(simulateFlags.maxRounds),
	)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := tb.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch simulateFlags.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(res, playerRules, enemyRules))
	case "text":
		fmt.Fprintf(out, "battle %s: %s (%s) vs %s (%s), seed %d\n",
			res.ID, s.Player.Name, playerRules, s.Enemy.Name, enemyRules, simulateFlags.seed)
		for _, e := range res.Log {
			fmt.Fprintln(out, e.String())
		}
		if simulateFlags.events {
			for _, ev := range res.Events {
				fmt.Fprintf(out, "event round %d %s: %s\n", ev.Round, ev.Kind, ev.Detail)
			}
		}
		fmt.Fprintf(out, "outcome: %s after %d rounds\n", res.Outcome, res.Rounds)
		return nil
	default:
		return fmt.Errorf("unknown format %q", simulateFlags.format)
	}
}

type report struct {
	ID          string            `json:"id"`
	PlayerRules string            `json:"playerRules"`
	EnemyRules  string            `json:"enemyRules"`
	Seed        uint64            `json:"seed"`
	Outcome     string            `json:"outcome"`
	Rounds      int               `json:"rounds"`
	Turns       []turn            `json:"turns"`
	Events      []battle.Event    `json:"events,omitempty"`
	Final       model.BattleState `json:"final"`
}

type turn struct {
	Round   int           `json:"round"`
	Actor   string        `json:"actor"`
	Action  *model.Action `json:"action,omitempty"`
	Damage  int           `json:"damage,omitempty"`
	Healing int           `json:"healing,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func newReport(res battle.Result, playerRules, enemyRules string) report {
	r := report{
		ID:          res.ID,
		PlayerRules: playerRules,
		EnemyRules:  enemyRules,
		Seed:        simulateFlags.seed,
		Outcome:     res.Outcome,
		Rounds:      res.Rounds,
		Events:      res.Events,
		Final:       res.Final,
	}
	for _, e := range res.Log {
		t := turn{Round: e.Round, Actor: e.Actor, Action: e.Action, Damage: e.Damage, Healing: e.Healing}
		if e.Err != nil {
			t.Error = e.Err.Error()
		}
		r.Turns = append(r.Turns, t)
	}
	return r
}
