package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nstehr/gambit/check"
	"github.com/nstehr/gambit/codegen"
	"github.com/nstehr/gambit/diag"
	"github.com/nstehr/gambit/meta"
	"github.com/nstehr/gambit/model"
	"github.com/nstehr/gambit/node"
	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

// Compiler turns rule sets into rows. It holds only immutable tables and is
// safe for concurrent use.
type Compiler struct {
	checker *check.Checker
	gen     *codegen.Registry
}

// NewCompiler returns a compiler over the builtin token tables.
func NewCompiler() *Compiler {
	return &Compiler{
		checker: check.New(meta.Builtin()),
		gen:     codegen.Builtin(),
	}
}

// Compile compiles every rule in file order. The first failure aborts the
// call; compile errors are *diag.Error values located by rule label and
// token index.
func (c *Compiler) Compile(set token.RuleSet) ([]*Row, error) {
	rows := make([]*Row, 0, len(set.Rules))
	for i, r := range set.Rules {
		row, err := c.CompileRule(r)
		if err != nil {
			return nil, within(err, r.Label(i))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CompileRule compiles one rule. Every token but the last must produce Bool
// and the last must produce Action.
func (c *Compiler) CompileRule(r token.Rule) (*Row, error) {
	if len(r.Tokens) == 0 {
		return nil, &diag.Error{
			Kind:          diag.ArityMismatch,
			Token:         "rule",
			Index:         -1,
			ExpectedArity: 1,
			ActualArity:   0,
			Detail:        "a rule needs an action",
		}
	}

	row := &Row{Name: r.Name, Priority: r.Priority}
	last := len(r.Tokens) - 1
	for i, t := range r.Tokens {
		loc := fmt.Sprintf("tokens[%d]", i)
		ast, err := c.checker.Check(t)
		if err != nil {
			return nil, within(err, loc)
		}

		want := typesys.Bool
		if i == last {
			want = typesys.Action
		}
		if ast.Type != want {
			return nil, &diag.Error{
				Kind:     diag.TypeMismatch,
				Token:    ast.Token,
				Index:    i,
				Expected: want,
				Actual:   ast.Type,
				Path:     []string{loc},
				Pos:      ast.Pos,
				Detail:   "a rule is conditions followed by one action",
			}
		}

		n, err := c.gen.Generate(ast)
		if err != nil {
			return nil, within(err, loc)
		}
		if i == last {
			row.Action, err = node.Unbox[model.Action](n, typesys.Action)
		} else {
			var cond node.Node[bool]
			cond, err = node.Unbox[bool](n, typesys.Bool)
			row.Conditions = append(row.Conditions, cond)
		}
		if err != nil {
			return nil, within(err, loc)
		}
	}
	return row, nil
}

func within(err error, prefix ...string) error {
	var derr *diag.Error
	if errors.As(err, &derr) {
		return derr.Within(prefix...)
	}
	return fmt.Errorf("%s: %w", strings.Join(prefix, " > "), err)
}
