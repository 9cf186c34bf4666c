package lang

import (
	"strconv"
	"strings"
)

// Expr is a node of an expression tree.
//
// The concrete types are [*Number], [*Text], [*Identifier], [*Range] and
// [*Binary].
type Expr interface {
	// Span returns the source range of the node, excluding surrounding
	// whitespace and grouping parentheses.
	Span() Span

	// String returns source text that parses back to an equal tree.
	String() string

	expr()
}

// Number is an unsigned decimal literal.
type Number struct {
	Value uint64
	Pos   Span
}

// Text is a string literal. Literal includes the surrounding quotes.
type Text struct {
	Literal string
	Pos     Span
}

// Identifier is a reference to a name.
type Identifier struct {
	Name string
	Pos  Span
}

// Range is the literal-range token [1;100]. Its meaning belongs to later
// stages.
type Range struct {
	Literal string
	Pos     Span
}

// Binary is an infix operation. Op is a non-empty run of symbol characters.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Span
}

// RangeLiteral is the only spelling accepted for a [Range].
const RangeLiteral = "[1;100]"

func (*Number) expr()     {}
func (*Text) expr()       {}
func (*Identifier) expr() {}
func (*Range) expr()      {}
func (*Binary) expr()     {}

func (n *Number) Span() Span     { return n.Pos }
func (t *Text) Span() Span       { return t.Pos }
func (i *Identifier) Span() Span { return i.Pos }
func (r *Range) Span() Span      { return r.Pos }
func (b *Binary) Span() Span     { return b.Pos }

func (n *Number) String() string     { return strconv.FormatUint(n.Value, 10) }
func (t *Text) String() string       { return t.Literal }
func (i *Identifier) String() string { return i.Name }
func (r *Range) String() string      { return r.Literal }

// String renders the operation with single spaces around the operator. A
// binary left operand is parenthesised since the grammar never produces one
// without parentheses.
func (b *Binary) String() string {
	var sb strings.Builder

	if _, ok := b.Left.(*Binary); ok {
		sb.WriteByte('(')
		sb.WriteString(b.Left.String())
		sb.WriteByte(')')
	} else {
		sb.WriteString(b.Left.String())
	}

	sb.WriteByte(' ')
	sb.WriteString(b.Op)
	sb.WriteByte(' ')
	sb.WriteString(b.Right.String())

	return sb.String()
}

// Value returns the text between the quotes.
func (t *Text) Value() string {
	if len(t.Literal) < 2 {
		return ""
	}

	return t.Literal[1 : len(t.Literal)-1]
}

// Kind returns a short lowercase name for the node type of e.
func Kind(e Expr) string {
	switch e.(type) {
	case *Number:
		return "number"
	case *Text:
		return "text"
	case *Identifier:
		return "identifier"
	case *Range:
		return "range"
	case *Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Equal reports whether a and b are the same tree, ignoring spans.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)

		return ok && x.Value == y.Value
	case *Text:
		y, ok := b.(*Text)

		return ok && x.Literal == y.Literal
	case *Identifier:
		y, ok := b.(*Identifier)

		return ok && x.Name == y.Name
	case *Range:
		y, ok := b.(*Range)

		return ok && x.Literal == y.Literal
	case *Binary:
		y, ok := b.(*Binary)

		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	default:
		return a == nil && b == nil
	}
}

// Walk calls fn for e and each of its descendants in depth-first pre-order.
// Children of a node are skipped when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	if b, ok := e.(*Binary); ok {
		Walk(b.Left, fn)
		Walk(b.Right, fn)
	}
}

// Depth returns the height of the tree rooted at e.
func Depth(e Expr) int {
	b, ok := e.(*Binary)
	if !ok {
		return 1
	}

	return 1 + max(Depth(b.Left), Depth(b.Right))
}
