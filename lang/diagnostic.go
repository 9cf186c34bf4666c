package lang

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Reasons attached to diagnostics.
const (
	ReasonExpectedExpression = "expected expression"
	ReasonExpectedOperator   = "expected operator"
	ReasonExpectedIdentifier = "expected identifier"
	ReasonExpectedEnd        = "expected end of input"
	ReasonUnterminatedString = "unterminated string"
	ReasonUnterminatedParen  = "unterminated parenthesis"
	ReasonInvalidRange       = "expected range literal " + RangeLiteral
	ReasonNumberRange        = "number literal out of range"
)

// Diagnostic describes one parse failure.
type Diagnostic struct {
	// Span is the offending source range. It may be empty at end of input.
	Span Span
	// Reason is the short label for the failure, one of the Reason constants.
	Reason string
	// Message is Reason followed by what was found at the failure position.
	Message string
}

// Error implements the error interface.
func (d Diagnostic) Error() string { return d.Message }

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("start", d.Span.Start),
		slog.Int("end", d.Span.End),
		slog.String("reason", d.Reason),
		slog.String("message", d.Message),
	)
}

// Diagnostics is an ordered list of parse failures.
type Diagnostics []Diagnostic

// Error joins the messages of all diagnostics.
func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Message
	}

	return strings.Join(msgs, "; ")
}

// Err returns ds as an error, or nil if ds is empty.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}

	return ds
}

// failure is a diagnostic candidate recorded while alternatives are tried.
// Only failures at the furthest position reached survive, unless sticky.
type failure struct {
	at     int
	span   Span
	reason string
	sticky bool
}

// failures tracks the furthest position at which any alternative failed and
// every distinct reason recorded there.
type failures struct {
	furthest int
	items    []failure
	sticky   []failure
}

func newFailures() failures { return failures{furthest: -1} }

func (fs *failures) add(f failure) {
	if f.sticky {
		if !slices.Contains(fs.sticky, f) {
			fs.sticky = append(fs.sticky, f)
		}

		return
	}

	switch {
	case f.at > fs.furthest:
		fs.furthest = f.at
		fs.items = append(fs.items[:0], f)
	case f.at == fs.furthest && !slices.Contains(fs.items, f):
		fs.items = append(fs.items, f)
	}
}

// diagnostics converts the surviving failures into ordered diagnostics.
func (fs *failures) diagnostics(text string) Diagnostics {
	all := slices.Concat(fs.sticky, fs.items)
	if len(all) == 0 {
		return nil
	}

	slices.SortStableFunc(all, func(a, b failure) int {
		return cmp.Or(
			cmp.Compare(a.span.Start, b.span.Start),
			cmp.Compare(a.span.End, b.span.End),
			strings.Compare(a.reason, b.reason),
		)
	})

	all = slices.CompactFunc(all, func(a, b failure) bool {
		return a.span == b.span && a.reason == b.reason
	})

	ds := make(Diagnostics, len(all))
	for i, f := range all {
		ds[i] = Diagnostic{
			Span:    f.span,
			Reason:  f.reason,
			Message: f.reason + ", found " + found(text, f.at),
		}
	}

	return ds
}

// found describes the input at offset for a diagnostic message.
func found(text string, offset int) string {
	if offset >= len(text) {
		return "end of input"
	}

	r, _ := utf8.DecodeRuneInString(text[offset:])

	return strconv.QuoteRune(r)
}

// runeSpan returns the span of the single rune at offset, or an empty span at
// end of input.
func runeSpan(text string, offset int) Span {
	if offset >= len(text) {
		return Span{Start: len(text), End: len(text)}
	}

	_, size := utf8.DecodeRuneInString(text[offset:])

	return Span{Start: offset, End: offset + size}
}
