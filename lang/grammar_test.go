package lang

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"
)

func num(v uint64) Expr { return &Number{Value: v} }

func ident(name string) Expr { return &Identifier{Name: name} }

func text(lit string) Expr { return &Text{Literal: lit} }

func bin(op string, l, r Expr) Expr { return &Binary{Op: op, Left: l, Right: r} }

func mustParseExpr(t testing.TB, src string, opts ...Option) Expr {
	t.Helper()

	e, diags := ParseExprString(context.Background(), src, opts...)
	if len(diags) > 0 {
		t.Fatalf("ParseExprString(%q): %v", src, diags)
	}

	return e
}

func reasons(diags Diagnostics) []string {
	rs := make([]string, len(diags))
	for i, d := range diags {
		rs[i] = d.Reason
	}

	return rs
}

func TestParseExpr_Trees(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Expr
	}{
		{"number", "42", num(42)},
		{"max uint64", "18446744073709551615", num(18446744073709551615)},
		{"leading zeros", "007", num(7)},
		{"text", `"hi there"`, text(`"hi there"`)},
		{"empty text", `""`, text(`""`)},
		{"text keeps symbols", `"a+(b)"`, text(`"a+(b)"`)},
		{"identifier", "abc", ident("abc")},
		{"range", "[1;100]", &Range{Literal: "[1;100]"}},
		{"nested parens", "(((1)))", num(1)},
		{"binary", "a+b", bin("+", ident("a"), ident("b"))},
		{"operator run", "a+-b", bin("+-", ident("a"), ident("b"))},
		{"spaced operator run", "a +- b", bin("+-", ident("a"), ident("b"))},
		{"split operator run", "a + -b", nil},
		{"every symbol", "a@#$%^&*+-<>,;:b", bin("@#$%^&*+-<>,;:", ident("a"), ident("b"))},
		{"right associative", "a+b*c", bin("+", ident("a"), bin("*", ident("b"), ident("c")))},
		{"grouped left", "(a+b)*c", bin("*", bin("+", ident("a"), ident("b")), ident("c"))},
		{"mixed operands", `1 <> "x"`, bin("<>", num(1), text(`"x"`))},
		{"range operand", "[1;100]:n", bin(":", &Range{Literal: "[1;100]"}, ident("n"))},
		{"digits then letters", "1a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := ParseExprString(context.Background(), tt.src)

			if tt.want == nil {
				if got != nil || len(diags) == 0 {
					t.Fatalf("ParseExprString(%q) = %v, %v; want failure", tt.src, got, diags)
				}

				return
			}

			if len(diags) > 0 {
				t.Fatalf("ParseExprString(%q): %v", tt.src, diags)
			}

			if !Equal(got, tt.want) {
				t.Errorf("ParseExprString(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseExpr_Spans(t *testing.T) {
	tests := []struct {
		src  string
		want Span
	}{
		{"42", Span{0, 2}},
		{"  42  ", Span{2, 4}},
		{"(((1)))", Span{3, 4}},
		{`"ab"`, Span{0, 4}},
		{"a + b", Span{0, 5}},
		{" ( x ) ", Span{3, 4}},
		{"(a)+b", Span{1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := mustParseExpr(t, tt.src).Span(); got != tt.want {
				t.Errorf("Span() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseExpr_SlicesShareSource(t *testing.T) {
	src := NewSource("t", `f + "x"`)

	e, diags := ParseExpr(context.Background(), src)
	if len(diags) > 0 {
		t.Fatal(diags)
	}

	b := e.(*Binary)

	if got := src.Slice(b.Left.Span()); got != "f" {
		t.Errorf("left slice = %q", got)
	}

	if got := src.Slice(b.Right.Span()); got != `"x"` {
		t.Errorf("right slice = %q", got)
	}

	if got := b.Right.(*Text).Value(); got != "x" {
		t.Errorf("Value() = %q", got)
	}
}

func TestParseExpr_DigitRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 9, 10, 255, 65536, 1 << 40, 18446744073709551615} {
		e := mustParseExpr(t, (&Number{Value: v}).String())

		n, ok := e.(*Number)
		if !ok || n.Value != v {
			t.Errorf("round trip of %d = %v", v, e)
		}
	}
}

func TestParseExpr_WhitespaceInsensitive(t *testing.T) {
	want := mustParseExpr(t, "a+(b*c)")

	for _, src := range []string{
		" a + ( b * c ) ",
		"a\t+\n(\r\nb * c)",
		"\n\na+(b*c)\n\n",
	} {
		if got := mustParseExpr(t, src); !Equal(got, want) {
			t.Errorf("ParseExprString(%q) = %s, want %s", src, got, want)
		}
	}
}

func TestParseExpr_Diagnostics(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		reasons []string
		span    Span
		message string
	}{
		{
			name:    "empty",
			src:     "",
			reasons: []string{ReasonExpectedExpression},
			span:    Span{0, 0},
			message: "expected expression, found end of input",
		},
		{
			name:    "invalid range",
			src:     "[1;101]",
			reasons: []string{ReasonExpectedExpression, ReasonInvalidRange},
			span:    Span{0, 1},
			message: "expected expression, found '['",
		},
		{
			name:    "unterminated string",
			src:     `"abc`,
			reasons: []string{ReasonUnterminatedString},
			span:    Span{0, 4},
			message: "unterminated string, found end of input",
		},
		{
			name:    "unterminated paren",
			src:     "(a",
			reasons: []string{ReasonUnterminatedParen, ReasonExpectedOperator},
			span:    Span{0, 2},
			message: "unterminated parenthesis, found end of input",
		},
		{
			name:    "missing right operand",
			src:     "a+",
			reasons: []string{ReasonExpectedExpression},
			span:    Span{2, 2},
			message: "expected expression, found end of input",
		},
		{
			name:    "trailing input",
			src:     "a b",
			reasons: []string{ReasonExpectedEnd, ReasonExpectedOperator},
			span:    Span{2, 3},
			message: "expected end of input, found 'b'",
		},
		{
			name:    "whitespace inside operator",
			src:     "a + -b",
			reasons: []string{ReasonExpectedExpression},
			span:    Span{4, 5},
			message: "expected expression, found '-'",
		},
		{
			name:    "number overflow",
			src:     "18446744073709551616",
			reasons: []string{ReasonExpectedExpression, ReasonNumberRange},
			span:    Span{0, 1},
			message: "expected expression, found '1'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, diags := ParseExprString(context.Background(), tt.src)
			if e != nil {
				t.Fatalf("ParseExprString(%q) = %s, want failure", tt.src, e)
			}

			if got := reasons(diags); !slices.Equal(got, tt.reasons) {
				t.Errorf("reasons = %q, want %q", got, tt.reasons)
			}

			if diags[0].Span != tt.span {
				t.Errorf("span = %+v, want %+v", diags[0].Span, tt.span)
			}

			if diags[0].Message != tt.message {
				t.Errorf("message = %q, want %q", diags[0].Message, tt.message)
			}

			if err := diags.Err(); err == nil || !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Err() = %v", err)
			}
		})
	}
}

func TestParseExpr_OverflowReportedWhenParseFailsElsewhere(t *testing.T) {
	_, diags := ParseExprString(context.Background(), "(99999999999999999999999 + a) +")

	if !slices.Contains(reasons(diags), ReasonNumberRange) {
		t.Errorf("reasons = %q, want %q among them", reasons(diags), ReasonNumberRange)
	}
}

func TestParseExpr_StringRoundTrip(t *testing.T) {
	for _, src := range []string{
		"a", "12", `"q r"`, "[1;100]",
		"a+b", "a+b*c", "(a+b)*c", "((a+b)*c)-d",
		"((a<>b)<>(c<>d))<>e",
		`f :: "s" @ [1;100]`,
	} {
		t.Run(src, func(t *testing.T) {
			e := mustParseExpr(t, src)

			again := mustParseExpr(t, e.String())
			if !Equal(e, again) {
				t.Errorf("%q printed as %q which parses to %s", src, e.String(), again)
			}
		})
	}
}

// memoInputs exercise backtracking, nesting and failures.
var memoInputs = []string{
	"", "1", "a+b", "a+b*c", "(a+b)*(c+d)", "((((x))))",
	"(((a)+b)+c)+d", "[1;100]+[1;100]", "[1;10", `"abc`, "(a", "a+",
	"a b", "18446744073709551616", "(a)(b)", ") (", "a+-*b<>c",
	"a + -b", "(a+b)+(c+d)+e",
}

func TestParseExpr_MemoTransparent(t *testing.T) {
	for _, src := range memoInputs {
		t.Run(src, func(t *testing.T) {
			e1, d1 := ParseExprString(context.Background(), src, WithMemo(true))
			e2, d2 := ParseExprString(context.Background(), src, WithMemo(false))

			if !reflect.DeepEqual(e1, e2) {
				t.Errorf("trees differ: memo %v, no memo %v", e1, e2)
			}

			if !reflect.DeepEqual(d1, d2) {
				t.Errorf("diagnostics differ: memo %v, no memo %v", d1, d2)
			}
		})
	}
}

func TestParseExpr_Concurrent(t *testing.T) {
	srcs := []string{"a+b", "(1)", `"x"*y`, "[1;100]"}
	done := make(chan Expr, len(srcs))

	for _, src := range srcs {
		go func() {
			e, _ := ParseExprString(context.Background(), src)
			done <- e
		}()
	}

	for range srcs {
		if e := <-done; e == nil {
			t.Error("concurrent parse failed")
		}
	}
}

func TestDepthAndWalk(t *testing.T) {
	e := mustParseExpr(t, "a+(b*c)+d")

	if got := Depth(e); got != 4 {
		t.Errorf("Depth() = %d, want 4", got)
	}

	var kinds []string

	Walk(e, func(n Expr) bool {
		kinds = append(kinds, Kind(n))

		return true
	})

	want := []string{"binary", "identifier", "binary", "binary", "identifier", "identifier", "identifier"}
	if !slices.Equal(kinds, want) {
		t.Errorf("Walk visited %v, want %v", kinds, want)
	}
}

func TestParseExpr_LongChain(t *testing.T) {
	const terms = 4000

	tests := []struct {
		name  string
		src   string
		parse func(string) bool
	}{
		{
			name: "expression",
			src:  strings.Repeat("a+", terms-1) + "a",
			parse: func(src string) bool {
				e, _ := ParseExprString(context.Background(), src)

				return e != nil && Depth(e) == terms
			},
		},
		{
			name: "parenthesised",
			src:  "(" + strings.Repeat("a + ", terms-1) + "a)",
			parse: func(src string) bool {
				e, _ := ParseExprString(context.Background(), src)

				return e != nil && Depth(e) == terms
			},
		},
		{
			name: "declaration",
			src:  "f " + strings.Repeat("a * ", terms-1) + "a\ng 1",
			parse: func(src string) bool {
				ir, _ := ParseString(context.Background(), src)

				return ir != nil && ir.Len() == 2
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := true

			allocs := testing.AllocsPerRun(1, func() {
				ok = ok && tt.parse(tt.src)
			})

			if !ok {
				t.Fatalf("chain of %d terms did not parse", terms)
			}

			// One tree per split of the chain would need terms*terms/2.
			if limit := float64(100 * terms); allocs > limit {
				t.Errorf("%.0f allocations, want at most %.0f", allocs, limit)
			}
		})
	}
}

func BenchmarkParseExpr_NestedParens(b *testing.B) {
	src := strings.Repeat("(", 14) + "a+b" + strings.Repeat(")", 14)

	for _, memo := range []bool{true, false} {
		name := "memo"
		if !memo {
			name = "nomemo"
		}

		b.Run(name, func(b *testing.B) {
			for b.Loop() {
				if _, diags := ParseExprString(context.Background(), src, WithMemo(memo)); diags != nil {
					b.Fatal(diags)
				}
			}
		})
	}
}

func BenchmarkParseExpr_Chain(b *testing.B) {
	src := strings.Repeat("a + ", 200) + "a"

	for b.Loop() {
		if _, diags := ParseExprString(context.Background(), src); diags != nil {
			b.Fatal(diags)
		}
	}
}

func FuzzParseExpr_MemoTransparent(f *testing.F) {
	for _, src := range memoInputs {
		f.Add(src)
	}

	f.Fuzz(func(t *testing.T, src string) {
		// Without memoisation nested parentheses cost time exponential in
		// their depth.
		if !utf8.ValidString(src) || len(src) > 64 || strings.Count(src, "(") > 8 {
			t.Skip()
		}

		e1, d1 := ParseExprString(context.Background(), src, WithMemo(true))
		e2, d2 := ParseExprString(context.Background(), src, WithMemo(false))

		if !reflect.DeepEqual(e1, e2) || !reflect.DeepEqual(d1, d2) {
			t.Fatalf("memo changes result of %q", src)
		}

		if (e1 == nil) == (len(d1) == 0) {
			t.Fatalf("%q: tree %v with %d diagnostics", src, e1, len(d1))
		}

		for _, d := range d1 {
			if d.Span.Start < 0 || d.Span.End > len(src) || d.Span.Start > d.Span.End {
				t.Fatalf("%q: diagnostic span %+v out of bounds", src, d.Span)
			}
		}

		if e1 != nil {
			again, diags := ParseExprString(context.Background(), e1.String())
			if len(diags) > 0 || !Equal(e1, again) {
				t.Fatalf("%q printed as %q does not parse back", src, e1.String())
			}
		}
	})
}
