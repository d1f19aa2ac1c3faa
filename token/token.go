// Package token holds the untyped token tree produced by rule files and
// frontends, before any type checking.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Pos is a 1-based source position. The zero value means unknown.
type Pos struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one named operation with named child slots. Literal tokens
// (Number) carry Value instead of slots.
type Token struct {
	Type  string
	Value *int
	Args  []Arg
	Pos   Pos
}

// Arg is a named slot filled by a child token. Args keep source order.
type Arg struct {
	Name  string
	Token *Token
}

// New builds a token from its name and slots.
func New(typ string, args ...Arg) *Token {
	return &Token{Type: typ, Args: args}
}

// Slot pairs a slot name with its token for New.
func Slot(name string, t *Token) Arg {
	return Arg{Name: name, Token: t}
}

// Number builds an integer literal token.
func Number(v int) *Token {
	return &Token{Type: "Number", Value: &v}
}

// Arg returns the child in the named slot, or nil.
func (t *Token) Arg(name string) *Token {
	for _, a := range t.Args {
		if a.Name == name {
			return a.Token
		}
	}
	return nil
}

// String renders the token in call syntax, e.g. Heal(target=ActingCharacter).
func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Token) write(b *strings.Builder) {
	b.WriteString(t.Type)
	if t.Value == nil && len(t.Args) == 0 {
		return
	}
	b.WriteByte('(')
	if t.Value != nil {
		b.WriteString(strconv.Itoa(*t.Value))
	}
	for i, a := range t.Args {
		if i > 0 || t.Value != nil {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
		b.WriteByte('=')
		a.Token.write(b)
	}
	b.WriteByte(')')
}

// Rule is one ordered guarded action: conditions followed by an action.
type Rule struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Priority int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	When     string   `json:"when,omitempty" yaml:"when,omitempty"`
	Tokens   []*Token `json:"tokens" yaml:"tokens"`
}

// Label names the rule for diagnostics, falling back to its index.
func (r Rule) Label(index int) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("rules[%d]", index)
}

// RuleSet is an ordered list of rules; earlier rules win ties in priority.
type RuleSet struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Rules []Rule `json:"rules" yaml:"rules"`
}
