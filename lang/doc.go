// Package lang parses hugo source into an IR: a mapping from declared names
// to expression trees.
//
// # Grammar
//
// A program is a sequence of declarations separated by whitespace:
//
//	Program    → (Name Expr)* EOF
//	Name       → letter+
//	Expr       → '(' Expr ')'
//	           | Operand Op Expr
//	           | '[1;100]'
//	           | '"' (any but '"')* '"'
//	           | ASCII letter+
//	           | digit+
//	Operand    → Expr without the binary alternative
//	Op         → one or more of @ # $ % ^ & * + - < > , ; :
//
// Alternatives are tried in the order listed and whitespace between tokens is
// ignored. There is no precedence table. Since the left operand of a binary
// operation cannot itself be an unparenthesised binary operation, chains
// associate to the right:
//
//	a + b * c    →  a + (b * c)
//	(a + b) * c  →  (a + b) * c
//
// An operator is a single token. Whitespace ends it like any other token, so
// the symbols after a space start a new operator rather than continue the
// first one:
//
//	a +- b   →  a +- b
//	a + -b   →  expected expression, found '-'
//
// # Example
//
//	f 1
//	g f + 2
//	greeting "hello"
//	r [1;100]
//
// # Parsing
//
// Every grammar rule yields all of the ways it can match at a position, and
// the first one that lets the enclosing rule succeed is taken. A rule's
// matches are kept as end offsets that refer back to the matches they extend,
// and a tree is built only for the match finally taken, so a long operator
// chain costs space in proportion to its length. Results are
// memoised per rule and position for the duration of one call to [Parse] or
// [ParseExpr]; [WithMemo] turns that off without changing any result.
//
// A program whose first choice of expression leaves input that does not
// continue as declarations is retried with the next choice, so
//
//	f (a)+b g 1
//
// declares f as (a)+b rather than failing at the '+'.
//
// # Diagnostics
//
// A failed parse returns no IR and one [Diagnostic] for every distinct reason
// recorded at the furthest offset reached, plus any out-of-range number
// literal wherever it occurred. [Diagnostics] is an error, and package report
// renders it against the [Source].
//
// # Stages
//
// A parsed IR is handed to a sequence of [Stage] values by [Pipeline].
// [Optimise] and [Interpret] currently pass the IR through unchanged.
package lang
