package lang

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/klauspost/readahead"
)

// Span is a half-open byte range [Start, End) into a [Source].
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Source owns the text of one input buffer.
//
// Every slice held by an expression tree parsed from a Source is a substring
// of Text, so the tree keeps the buffer alive and never copies it. Trees from
// different sources must not be mixed.
type Source struct {
	name  string
	text  string
	lines []int // byte offset of the first byte of each line
}

// NewSource returns a Source for text. The name is only used for display.
func NewSource(name, text string) *Source {
	lines := []int{0}

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}

	return &Source{name: name, text: text, lines: lines}
}

// ReadSource reads all of r into a new Source.
func ReadSource(ctx context.Context, r io.Reader, name string) (*Source, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", name))
	}

	src := NewSource(name, string(data))

	loggerFrom(ctx).TraceContext(ctx, "read source",
		slog.String("source", name),
		slog.Int("source_bytes", len(data)),
		slog.Int("source_lines", src.LineCount()),
	)

	return src, nil
}

// Name returns the display name of the source.
func (s *Source) Name() string { return s.name }

// Text returns the entire source text.
func (s *Source) Text() string { return s.text }

// Len returns the length of the source in bytes.
func (s *Source) Len() int { return len(s.text) }

// Slice returns the text covered by span, clamped to the source bounds.
func (s *Source) Slice(span Span) string {
	start := min(max(span.Start, 0), len(s.text))
	end := min(max(span.End, start), len(s.text))

	return s.text[start:end]
}

// LineCount returns the number of lines in the source.
func (s *Source) LineCount() int { return len(s.lines) }

// Position converts a byte offset into a 1-based line and a 1-based column
// counted in runes.
func (s *Source) Position(offset int) (line, col int) {
	offset = min(max(offset, 0), len(s.text))

	idx := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > offset
	}) - 1

	col = utf8.RuneCountInString(s.text[s.lines[idx]:offset]) + 1

	return idx + 1, col
}

// Line returns the text of the 1-based line n without its terminator, along
// with the byte offset where it starts.
func (s *Source) Line(n int) (text string, start int, ok bool) {
	if n < 1 || n > len(s.lines) {
		return "", 0, false
	}

	start = s.lines[n-1]

	end := len(s.text)
	if n < len(s.lines) {
		end = s.lines[n] - 1
	}

	text = s.text[start:end]
	if l := len(text); l > 0 && text[l-1] == '\r' {
		text = text[:l-1]
	}

	return text, start, true
}
