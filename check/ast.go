// Package check type-checks untyped token trees against the metadata
// registry and infers every type the author left implicit.
package check

import (
	"strconv"
	"strings"

	"github.com/nstehr/gambit/token"
	"github.com/nstehr/gambit/typesys"
)

// AST is a type-checked token. Every Type is concrete; Args follow the
// metadata slot order, so Args[i].Type is the type actually supplied for
// slot i.
type AST struct {
	Token    string
	Slot     string // slot this node fills in its parent, empty at the root
	Type     typesys.Type
	Args     []*AST
	Bindings typesys.Subst
	Value    int
	Pos      token.Pos
}

// ArgType returns the concrete type supplied for slot i.
func (a *AST) ArgType(i int) typesys.Type {
	return a.Args[i].Type
}

// Binding returns the type a signature variable resolved to.
func (a *AST) Binding(name string) (typesys.Type, bool) {
	t, ok := a.Bindings[name]
	return t, ok
}

// String renders the tree with types, e.g. GreaterThan(Number(50): Int, ...): Bool.
func (a *AST) String() string {
	var b strings.Builder
	a.write(&b)
	return b.String()
}

func (a *AST) write(b *strings.Builder) {
	b.WriteString(a.Token)
	if len(a.Args) > 0 || a.Token == "Number" {
		b.WriteByte('(')
		if len(a.Args) == 0 {
			b.WriteString(strconv.Itoa(a.Value))
		}
		for i, arg := range a.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.write(b)
		}
		b.WriteByte(')')
	}
	b.WriteString(": ")
	b.WriteString(a.Type.String())
}
