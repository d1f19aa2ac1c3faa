package codegen

import (
	"sync"

	"github.com/nstehr/gambit/check"
	"github.com/nstehr/gambit/meta"
	"github.com/nstehr/gambit/model"
	"github.com/nstehr/gambit/node"
	"github.com/nstehr/gambit/typesys"
)

// Builtin returns the process-wide converter registry for the builtin
// tokens. It is built on first use and shared afterwards.
var Builtin = sync.OnceValue(newBuiltin)

// builder collects the per-signature tables while registering.
type builder struct {
	reg     *Registry
	maps    map[typesys.Type]map[string]Factory // keyed by Map's result type
	counts  map[string]Factory
	compare map[node.Ordering]map[string]Factory
	eq      map[string]Factory
}

func newBuiltin() *Registry {
	b := &builder{
		reg:    NewRegistry(),
		maps:   make(map[typesys.Type]map[string]Factory),
		counts: make(map[string]Factory),
		compare: map[node.Ordering]map[string]Factory{
			node.Greater: {},
			node.Less:    {},
		},
		eq: make(map[string]Factory),
	}
	r := b.reg

	r.Register(meta.Number, typesys.Int, func(ast *check.AST, _ []node.Erased) (node.Erased, error) {
		return node.Box(typesys.Int, node.Const(node.Int(ast.Value))), nil
	})
	r.Register(meta.TrueOrFalseRandom, typesys.Bool, leaf(node.RandomBool))
	r.Register(meta.ActingCharacter, typesys.Character, leaf(node.ActingCharacter))
	r.Register(meta.CharacterHP, typesys.HP, unary(node.CharacterHP))
	r.Register(meta.CharacterHPToCharacter, typesys.Character, unary(node.CharacterHPToCharacter))
	r.Register(meta.CharacterTeam, typesys.TeamSide, unary(node.CharacterTeam))
	r.Register(meta.Hero, typesys.TeamSide, leaf(func() node.Node[model.TeamSide] { return node.Const(model.SidePlayer) }))
	r.Register(meta.Enemy, typesys.TeamSide, leaf(func() node.Node[model.TeamSide] { return node.Const(model.SideEnemy) }))
	r.Register(meta.OpposingTeam, typesys.TeamSide, leaf(node.OpposingTeam))
	r.Register(meta.AllCharacters, typesys.SeqOf(typesys.Character), leaf(node.AllCharacters))
	r.Register(meta.TeamCharacters, typesys.SeqOf(typesys.Character), leaf(node.TeamCharacters))
	r.Register(meta.TeamMembers, typesys.SeqOf(typesys.Character), unary(node.TeamMembers))
	r.Register(meta.AllTeamSides, typesys.SeqOf(typesys.TeamSide), leaf(node.AllTeamSides))
	r.Register(meta.Strike, typesys.Action, unary(node.Strike))
	r.Register(meta.Heal, typesys.Action, unary(node.Heal))
	r.Register(meta.Check, typesys.Action, binary(node.Check))

	// Element-generic tokens, once per type an element can hold.
	elementKind[model.Character](b, typesys.Character)
	elementKind[node.Int](b, typesys.Int)
	elementKind[model.TeamSide](b, typesys.TeamSide)
	elementKind[model.CharacterHP](b, typesys.HP)

	numericKind[model.Character](b, typesys.Character)
	numericKind[node.Int](b, typesys.Int)
	numericKind[model.CharacterHP](b, typesys.HP)

	numericPair[node.Int, node.Int](b, typesys.Int, typesys.Int)
	numericPair[node.Int, model.CharacterHP](b, typesys.Int, typesys.HP)
	numericPair[model.CharacterHP, node.Int](b, typesys.HP, typesys.Int)
	numericPair[model.CharacterHP, model.CharacterHP](b, typesys.HP, typesys.HP)
	b.eq["Character,Character"] = binary(node.EqualCharacters)
	b.eq["TeamSide,TeamSide"] = binary(node.EqualSides)

	r.Register(meta.GreaterThan, typesys.Bool, bySignature(b.compare[node.Greater]))
	r.Register(meta.LessThan, typesys.Bool, bySignature(b.compare[node.Less]))
	r.Register(meta.Eq, typesys.Bool, bySignature(b.eq))
	r.Register(meta.Count, typesys.Int, bySignature(b.counts))
	for result, table := range b.maps {
		r.Register(meta.Map, result, bySignature(table))
	}
	return r
}

func elementKind[T any](b *builder, t typesys.Type) {
	seq := typesys.SeqOf(t)
	b.reg.Register(meta.Element, t, leaf(node.Element[T]))
	b.reg.Register(meta.RandomPick, t, unary(node.RandomPick[T]))
	b.reg.Register(meta.FilterList, seq, binary(node.Filter[T]))
	b.counts[seq.String()] = unary(node.Count[T])

	mapInto[T, model.Character](b, seq, typesys.Character)
	mapInto[T, node.Int](b, seq, typesys.Int)
	mapInto[T, model.TeamSide](b, seq, typesys.TeamSide)
	mapInto[T, model.CharacterHP](b, seq, typesys.HP)
}

func mapInto[T, U any](b *builder, src, u typesys.Type) {
	result := typesys.SeqOf(u)
	if b.maps[result] == nil {
		b.maps[result] = make(map[string]Factory)
	}
	b.maps[result][src.String()+","+u.String()] = binary(node.Map[T, U])
}

func numericKind[T node.Numeric](b *builder, t typesys.Type) {
	b.reg.Register(meta.Max, t, unary(node.Max[T]))
	b.reg.Register(meta.Min, t, unary(node.Min[T]))
}

func numericPair[L, R node.Numeric](b *builder, l, r typesys.Type) {
	sig := l.String() + "," + r.String()
	for _, op := range []node.Ordering{node.Greater, node.Less} {
		b.compare[op][sig] = binary(func(left node.Node[L], right node.Node[R]) node.Node[bool] {
			return node.Compare(op, left, right)
		})
	}
	b.eq[sig] = binary(node.EqualNumeric[L, R])
}
