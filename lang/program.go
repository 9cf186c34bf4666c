package lang

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"unicode"
	"unicode/utf8"
)

// IR is a parsed program: a mapping from declared name to expression tree.
//
// The trees borrow their text from the Source the IR was parsed from, which
// the IR keeps alive. An IR is never modified after parsing.
type IR struct {
	src   *Source
	defs  map[string]Expr
	order []string
}

func newIR(src *Source) *IR {
	return &IR{src: src, defs: make(map[string]Expr)}
}

// define stores e under name, replacing any earlier declaration.
func (ir *IR) define(name string, e Expr) {
	if _, ok := ir.defs[name]; !ok {
		ir.order = append(ir.order, name)
	}

	ir.defs[name] = e
}

// Source returns the buffer the IR was parsed from.
func (ir *IR) Source() *Source { return ir.src }

// Len returns the number of distinct declared names.
func (ir *IR) Len() int { return len(ir.defs) }

// Lookup returns the expression declared under name.
func (ir *IR) Lookup(name string) (Expr, bool) {
	e, ok := ir.defs[name]

	return e, ok
}

// Names returns the declared names in order of first declaration.
func (ir *IR) Names() []string {
	return append([]string(nil), ir.order...)
}

// All returns an iterator over the declarations in order of first
// declaration. A redeclared name yields its latest expression.
func (ir *IR) All() iter.Seq2[string, Expr] {
	return func(yield func(string, Expr) bool) {
		for _, name := range ir.order {
			if !yield(name, ir.defs[name]) {
				return
			}
		}
	}
}

// Map returns a copy of the name to expression mapping.
func (ir *IR) Map() map[string]Expr {
	m := make(map[string]Expr, len(ir.defs))
	for name, e := range ir.defs {
		m[name] = e
	}

	return m
}

// State is a state of the program assembler.
type State uint8

const (
	StateScanning   State = iota // scanning
	StateName                    // parsing name
	StateExpression              // parsing expression
	StateSuccess                 // success
	StateFailed                  // failed
)

// decl is one declaration on the assembler's backtracking stack: the name and
// the end offsets of the candidate expressions that could follow it, of which
// ends[next-1] is the one currently in use.
type decl struct {
	expr  *alts
	name  string
	ends  []int
	start int
	next  int
}

// Parse assembles src into an IR.
//
// The source is a sequence of declarations, each a name followed by an
// expression, separated by whitespace. On any failure the IR is nil and the
// diagnostics describe the furthest point the parse reached.
func Parse(ctx context.Context, src *Source, opts ...Option) (*IR, Diagnostics) {
	o := makeOptions(ctx, opts...)
	p := newParser(src, o)

	stack, state := p.assemble()

	var (
		ir    *IR
		diags Diagnostics
	)

	if state == StateSuccess {
		ir = newIR(src)
		for _, d := range stack {
			ir.define(d.name, d.expr.build(d.ends[d.next-1]))
		}
	} else {
		diags = p.fail.diagnostics(p.text)
	}

	p.trace(ctx, o, "parse complete",
		slog.String("state", state.String()),
		slog.Int("declarations", len(stack)),
		slog.Int("diagnostics", len(diags)),
	)

	return ir, diags
}

// ParseString assembles text into an IR.
func ParseString(ctx context.Context, text string, opts ...Option) (*IR, Diagnostics) {
	return Parse(ctx, NewSource("", text), opts...)
}

// assemble runs the declaration state machine over the whole input.
//
// Choosing the first candidate expression for a declaration can leave input
// that no longer forms declarations, for example when a parenthesised operand
// is followed by an operator. The machine then backtracks to the most recent
// declaration with an untried candidate. Offsets from which the rest of the
// input is known not to parse are remembered so that each is explored once.
func (p *parser) assemble() ([]decl, State) {
	var (
		stack []decl
		dead  = make(map[int]struct{})
		state = StateScanning
		pos   = 0
		name  string
		start int
	)

	for {
		switch state {
		case StateScanning:
			pos = p.skipSpace(pos)
			_, known := dead[pos]

			switch {
			case pos == len(p.text):
				state = StateSuccess
			case known && p.memo.enabled:
				state = p.backtrack(&stack, dead, &pos)
			default:
				state = StateName
			}

		case StateName:
			start = pos

			end := p.declName(pos)
			if end == pos {
				p.fail.add(failure{
					at:     pos,
					span:   runeSpan(p.text, pos),
					reason: ReasonExpectedIdentifier,
				})

				state = p.backtrack(&stack, dead, &pos)

				continue
			}

			name, pos = p.text[start:end], end
			state = StateExpression

		case StateExpression:
			expr := p.expr(pos)
			if expr.isEmpty() {
				dead[start] = struct{}{}
				state = p.backtrack(&stack, dead, &pos)

				continue
			}

			ends := slices.Collect(expr.ends())

			stack = append(stack, decl{start: start, name: name, expr: expr, ends: ends, next: 1})
			pos = ends[0]
			state = StateScanning

		case StateSuccess, StateFailed:
			return stack, state
		}
	}
}

// backtrack resumes the most recent declaration that still has an untried
// candidate expression, discarding exhausted ones. It returns StateFailed when
// none is left.
func (p *parser) backtrack(stack *[]decl, dead map[int]struct{}, pos *int) State {
	for len(*stack) > 0 {
		top := &(*stack)[len(*stack)-1]
		if top.next < len(top.ends) {
			*pos = top.ends[top.next]
			top.next++

			return StateScanning
		}

		dead[top.start] = struct{}{}
		*stack = (*stack)[:len(*stack)-1]
	}

	return StateFailed
}

// declName returns the end of the declaration name starting at pos, or pos if
// there is none. Declaration names are runs of letters, which unlike
// identifiers inside expressions need not be ASCII.
func (p *parser) declName(pos int) int {
	for pos < len(p.text) {
		r, size := utf8.DecodeRuneInString(p.text[pos:])
		if !unicode.IsLetter(r) {
			break
		}

		pos += size
	}

	return pos
}
