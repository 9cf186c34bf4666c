package lang

import "iter"

//go:generate go tool stringer --linecomment --type rule,State --output rule_string.go

// rule identifies a grammar production for memoisation.
type rule uint8

const (
	ruleExpr    rule = iota // expression
	ruleOperand             // operand
	ruleParen               // parenthesis
	ruleBinary              // binary
	ruleRange               // range
	ruleText                // text
	ruleIdent               // identifier
	ruleNumber              // number
)

type altKind uint8

const (
	altLeaf   altKind = iota // one match whose tree is expr
	altParen                 // one match grouping sub's match ending at at
	altSeq                   // every match of sub
	altBinary                // every match of sub as the right operand of left's match ending at at
)

// alt is one entry of a rule's match list. Entries of kind altSeq and
// altBinary refer to the list of another rule instead of copying it, so a
// chain of n operands is held in O(n) space. Trees are built only for the
// match a caller keeps.
type alt struct {
	sub  *alts
	left *alts
	expr Expr
	op   string
	end  int // offset past the match and any whitespace after it
	at   int
	kind altKind
}

// alts is the ordered match list of a rule at a position. Flattened, it may
// repeat an end offset, in which case the first occurrence decides the tree.
type alts struct {
	list  []alt
	empty bool
}

func newAlts(list ...alt) *alts {
	a := &alts{list: list, empty: true}

	for _, x := range list {
		switch x.kind {
		case altLeaf, altParen:
			a.empty = false
		default:
			if !x.sub.isEmpty() {
				a.empty = false
			}
		}
	}

	return a
}

func leaf(e Expr, end int) *alts {
	return &alts{list: []alt{{kind: altLeaf, expr: e, end: end}}}
}

func seq(sub *alts) alt { return alt{kind: altSeq, sub: sub} }

func (a *alts) isEmpty() bool { return a == nil || a.empty }

type frame struct {
	a *alts
	i int
}

// walk visits the single-match entries of a in priority order. Each frame of
// path is positioned at the entry being descended through, and the last one
// at x itself. Visiting stops when visit returns false.
func (a *alts) walk(visit func(path []frame, x *alt) bool) {
	if a.isEmpty() {
		return
	}

	path := []frame{{a: a}}

	for len(path) > 0 {
		top := &path[len(path)-1]

		if top.i == len(top.a.list) {
			path = path[:len(path)-1]
			if len(path) > 0 {
				path[len(path)-1].i++
			}

			continue
		}

		x := &top.a.list[top.i]

		switch x.kind {
		case altLeaf, altParen:
			if !visit(path, x) {
				return
			}

			top.i++

		default:
			if x.sub.isEmpty() {
				top.i++

				continue
			}

			path = append(path, frame{a: x.sub})
		}
	}
}

// ends yields the distinct end offsets of a's matches in priority order.
func (a *alts) ends() iter.Seq[int] {
	return func(yield func(int) bool) {
		seen := make(map[int]struct{})

		a.walk(func(_ []frame, x *alt) bool {
			if _, dup := seen[x.end]; dup {
				return true
			}

			seen[x.end] = struct{}{}

			return yield(x.end)
		})
	}
}

// build returns the tree of the first match of a ending at end, or nil if
// there is none.
func (a *alts) build(end int) Expr {
	var e Expr

	a.walk(func(path []frame, x *alt) bool {
		if x.end != end {
			return true
		}

		e = x.expr
		if x.kind == altParen {
			e = x.sub.build(x.at)
		}

		for i := len(path) - 2; i >= 0; i-- {
			y := &path[i].a.list[path[i].i]
			if y.kind != altBinary {
				continue
			}

			left := y.left.build(y.at)
			e = &Binary{
				Op:    y.op,
				Left:  left,
				Right: e,
				Pos:   Span{Start: left.Span().Start, End: e.Span().End},
			}
		}

		return false
	})

	return e
}

type memoKey struct {
	rule rule
	pos  int
}

// memo caches the match list of each rule at each position. It belongs to a
// single parse call and is dropped when that call returns.
type memo struct {
	enabled bool
	table   map[memoKey]*alts
	hits    int
	misses  int
}

func newMemo(enabled bool) *memo {
	m := &memo{enabled: enabled}
	if enabled {
		m.table = make(map[memoKey]*alts)
	}

	return m
}

// apply returns the cached matches of r at pos, computing them with fn on the
// first request. With memoisation disabled fn runs every time.
func (m *memo) apply(r rule, pos int, fn func(int) *alts) *alts {
	if !m.enabled {
		m.misses++

		return fn(pos)
	}

	key := memoKey{rule: r, pos: pos}
	if a, ok := m.table[key]; ok {
		m.hits++

		return a
	}

	m.misses++
	a := fn(pos)
	m.table[key] = a

	return a
}

// entries returns the number of cached (rule, position) results.
func (m *memo) entries() int { return len(m.table) }
