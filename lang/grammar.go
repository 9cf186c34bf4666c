package lang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// operatorSymbols is the alphabet of binary operator spellings.
const operatorSymbols = "@#$%^&*+-<>,;:"

// parser holds the state of one top-level parse call.
//
// Every rule method returns all of the ways the rule can match at a position,
// ordered by alternative priority. Callers pick the first end offset that lets
// the rest of their own production succeed, which gives ordered backtracking
// choice without re-deriving shared sub-spans, and build the tree for that end
// alone.
type parser struct {
	src  *Source
	text string
	memo *memo
	fail failures
}

func newParser(src *Source, opts options) *parser {
	return &parser{
		src:  src,
		text: src.Text(),
		memo: newMemo(opts.memo),
		fail: newFailures(),
	}
}

// ParseExpr parses the whole of src as a single expression.
//
// Leading and trailing whitespace is ignored. Any input left over after the
// expression is a failure.
func ParseExpr(ctx context.Context, src *Source, opts ...Option) (Expr, Diagnostics) {
	o := makeOptions(ctx, opts...)
	p := newParser(src, o)

	var result Expr

	top := p.expr(0)
	for end := range top.ends() {
		if end == len(p.text) {
			result = top.build(end)

			break
		}

		p.fail.add(failure{
			at:     end,
			span:   runeSpan(p.text, end),
			reason: ReasonExpectedEnd,
		})
	}

	var diags Diagnostics
	if result == nil {
		diags = p.fail.diagnostics(p.text)
	}

	p.trace(ctx, o, "parse expression complete", slog.Bool("ok", result != nil), slog.Int("diagnostics", len(diags)))

	return result, diags
}

// ParseExprString parses text as a single expression.
func ParseExprString(ctx context.Context, text string, opts ...Option) (Expr, Diagnostics) {
	return ParseExpr(ctx, NewSource("", text), opts...)
}

func (p *parser) trace(ctx context.Context, o options, msg string, attrs ...slog.Attr) {
	o.logger.TraceContext(ctx, msg, append(attrs,
		slog.String("source", p.src.Name()),
		slog.Any("source_hash", fingerprint(p.text)),
		slog.Bool("memo", p.memo.enabled),
		slog.Int("memo_entries", p.memo.entries()),
		slog.Int("memo_hits", p.memo.hits),
		slog.Int("memo_misses", p.memo.misses),
	)...)
}

// expr matches an expression surrounded by optional whitespace, trying in
// order: parenthesised expression, binary operation, range literal, string
// literal, identifier, number.
func (p *parser) expr(pos int) *alts {
	return p.memo.apply(ruleExpr, p.skipSpace(pos), func(start int) *alts {
		a := newAlts(seq(p.paren(start)), seq(p.binary(start)), seq(p.atoms(start)))

		if a.isEmpty() {
			p.fail.add(failure{
				at:     start,
				span:   runeSpan(p.text, start),
				reason: ReasonExpectedExpression,
			})
		}

		return a
	})
}

// operand matches the left operand of a binary operation at start: every
// expression alternative except the binary operation itself. Re-entering the
// binary rule at its own start position could never terminate, so a left
// operand that is itself a binary operation needs parentheses.
func (p *parser) operand(start int) *alts {
	return p.memo.apply(ruleOperand, start, func(start int) *alts {
		return newAlts(seq(p.paren(start)), seq(p.atoms(start)))
	})
}

// atoms matches the single-token alternatives. At most one of them can match
// at any position since each requires a different first character.
func (p *parser) atoms(start int) *alts {
	for _, a := range []*alts{
		p.rangeLit(start),
		p.str(start),
		p.ident(start),
		p.number(start),
	} {
		if !a.isEmpty() {
			return a
		}
	}

	return nil
}

// paren matches '(' expr ')'. The parentheses only group: the match carries
// the inner tree unchanged.
func (p *parser) paren(start int) *alts {
	return p.memo.apply(ruleParen, start, func(start int) *alts {
		if !p.at(start, '(') {
			return nil
		}

		inner := p.expr(start + 1)

		var list []alt

		for end := range inner.ends() {
			if p.at(end, ')') {
				list = append(list, alt{
					kind: altParen,
					sub:  inner,
					at:   end,
					end:  p.skipSpace(end + 1),
				})

				continue
			}

			p.fail.add(failure{
				at:     end,
				span:   Span{Start: start, End: runeSpan(p.text, end).End},
				reason: ReasonUnterminatedParen,
			})
		}

		return newAlts(list...)
	})
}

// binary matches operand op expr, where op is the longest run of operator
// symbols following the operand. Its matches are those of the right operand,
// each paired with the left operand that precedes it.
func (p *parser) binary(start int) *alts {
	return p.memo.apply(ruleBinary, start, func(start int) *alts {
		left := p.operand(start)

		var list []alt

		for end := range left.ends() {
			op := p.operator(end)
			if op == "" {
				p.fail.add(failure{
					at:     end,
					span:   runeSpan(p.text, end),
					reason: ReasonExpectedOperator,
				})

				continue
			}

			list = append(list, alt{
				kind: altBinary,
				sub:  p.expr(end + len(op)),
				left: left,
				at:   end,
				op:   op,
			})
		}

		return newAlts(list...)
	})
}

func (p *parser) rangeLit(start int) *alts {
	return p.memo.apply(ruleRange, start, func(start int) *alts {
		if !p.at(start, '[') {
			return nil
		}

		if !strings.HasPrefix(p.text[start:], RangeLiteral) {
			p.fail.add(failure{
				at:     start,
				span:   runeSpan(p.text, start),
				reason: ReasonInvalidRange,
			})

			return nil
		}

		end := start + len(RangeLiteral)

		return leaf(&Range{Literal: p.text[start:end], Pos: Span{Start: start, End: end}}, p.skipSpace(end))
	})
}

// str matches '"' (any character except '"')* '"'.
func (p *parser) str(start int) *alts {
	return p.memo.apply(ruleText, start, func(start int) *alts {
		if !p.at(start, '"') {
			return nil
		}

		n := strings.IndexByte(p.text[start+1:], '"')
		if n < 0 {
			p.fail.add(failure{
				at:     len(p.text),
				span:   Span{Start: start, End: len(p.text)},
				reason: ReasonUnterminatedString,
			})

			return nil
		}

		end := start + 1 + n + 1

		return leaf(&Text{Literal: p.text[start:end], Pos: Span{Start: start, End: end}}, p.skipSpace(end))
	})
}

// ident matches one or more ASCII letters.
func (p *parser) ident(start int) *alts {
	return p.memo.apply(ruleIdent, start, func(start int) *alts {
		end := start
		for end < len(p.text) && isLetter(p.text[end]) {
			end++
		}

		if end == start {
			return nil
		}

		return leaf(&Identifier{Name: p.text[start:end], Pos: Span{Start: start, End: end}}, p.skipSpace(end))
	})
}

// number matches one or more decimal digits. A digit run that does not fit in
// a uint64 is reported even if another alternative later succeeds elsewhere.
func (p *parser) number(start int) *alts {
	return p.memo.apply(ruleNumber, start, func(start int) *alts {
		end := start
		for end < len(p.text) && isDigit(p.text[end]) {
			end++
		}

		if end == start {
			return nil
		}

		span := Span{Start: start, End: end}

		v, err := strconv.ParseUint(p.text[start:end], 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				p.fail.add(failure{at: start, span: span, reason: ReasonNumberRange, sticky: true})
			}

			return nil
		}

		return leaf(&Number{Value: v, Pos: span}, p.skipSpace(end))
	})
}

// operator returns the run of operator symbols at pos.
func (p *parser) operator(pos int) string {
	end := pos
	for end < len(p.text) && strings.IndexByte(operatorSymbols, p.text[end]) >= 0 {
		end++
	}

	return p.text[pos:end]
}

func (p *parser) at(pos int, c byte) bool {
	return pos < len(p.text) && p.text[pos] == c
}

func (p *parser) skipSpace(pos int) int {
	for pos < len(p.text) {
		r, size := utf8.DecodeRuneInString(p.text[pos:])
		if !unicode.IsSpace(r) {
			break
		}

		pos += size
	}

	return pos
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
