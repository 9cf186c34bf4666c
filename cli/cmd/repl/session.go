package repl

import (
	"context"
	"strings"

	"github.com/ardnew/hugo/lang"
)

// Session accumulates the declarations entered at the prompt. Its IR is the
// parse of every accepted line joined by newlines, so it has the same
// redeclaration behavior as a source file.
type Session struct {
	opts  []lang.Option
	lines []string
	ir    *lang.IR
}

// NewSession returns an empty session that parses with opts.
func NewSession(opts ...lang.Option) *Session {
	return &Session{opts: opts}
}

// Result is the outcome of evaluating one line.
type Result struct {
	// Source holds the line itself.
	Source *lang.Source
	// Declared lists the names the line declared, if it was a program.
	Declared []string
	// Expr is the parsed expression, if the line was a bare expression.
	Expr lang.Expr
	// Diagnostics explain why the line was neither.
	Diagnostics lang.Diagnostics
}

// Eval handles one line. A line that parses as one or more declarations is
// added to the session; otherwise it is parsed as a bare expression. When both
// fail, the diagnostics of the attempt that got further are returned.
func (s *Session) Eval(ctx context.Context, line string) Result {
	src := lang.NewSource("<repl>", line)

	ir, progDiags := lang.Parse(ctx, src, s.opts...)
	if ir != nil && ir.Len() > 0 {
		if diags := s.add(ctx, line); diags != nil {
			return Result{Source: s.source(), Diagnostics: diags}
		}

		return Result{Source: src, Declared: ir.Names()}
	}

	x, exprDiags := lang.ParseExpr(ctx, src, s.opts...)
	if x != nil {
		return Result{Source: src, Expr: x}
	}

	diags := exprDiags
	if furthest(progDiags) > furthest(exprDiags) {
		diags = progDiags
	}

	return Result{Source: src, Diagnostics: diags}
}

// Load adds the declarations of src to the session.
func (s *Session) Load(ctx context.Context, src *lang.Source) lang.Diagnostics {
	if _, diags := lang.Parse(ctx, src, s.opts...); diags != nil {
		return diags
	}

	return s.add(ctx, src.Text())
}

// add appends text to the session and reparses it. The text is dropped again
// if the combination does not parse.
func (s *Session) add(ctx context.Context, text string) lang.Diagnostics {
	s.lines = append(s.lines, text)

	ir, diags := lang.Parse(ctx, s.source(), s.opts...)
	if diags != nil {
		s.lines = s.lines[:len(s.lines)-1]

		return diags
	}

	s.ir = ir

	return nil
}

func (s *Session) source() *lang.Source {
	return lang.NewSource("<session>", strings.Join(s.lines, "\n"))
}

// IR returns the parsed session, or nil before anything was declared.
func (s *Session) IR() *lang.IR { return s.ir }

// Names returns the declared names in order of first declaration.
func (s *Session) Names() []string {
	if s.ir == nil {
		return nil
	}

	return s.ir.Names()
}

// Clear forgets every declaration.
func (s *Session) Clear() {
	s.lines = nil
	s.ir = nil
}

// List returns the session in native syntax.
func (s *Session) List() string {
	if s.ir == nil {
		return ""
	}

	var sb strings.Builder

	_ = s.ir.Format(&sb)

	return strings.TrimSuffix(sb.String(), "\n")
}

// furthest returns the largest end offset among diags, or -1.
func furthest(diags lang.Diagnostics) int {
	n := -1
	for _, d := range diags {
		n = max(n, d.Span.End)
	}

	return n
}
