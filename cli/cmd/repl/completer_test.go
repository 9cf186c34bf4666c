package repl

import (
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_operator", "a + fo", 6, "fo", 4, 6},
		{"inside_parens", "(ab)", 3, "ab", 1, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"digits_break_words", "ab12cd", 2, "ab", 0, 2},
		{"unicode", "héllo", 6, "héllo", 0, 6},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCompletions(t *testing.T) {
	names := []string{"abc", "abd", "xyz"}

	matches, start, end := completions("f + ab", 6, names)
	if len(matches) != 2 || start != 4 || end != 6 {
		t.Errorf("names: %d matches at [%d, %d)", len(matches), start, end)
	}

	matches, _, _ = completions("f + ", 4, names)
	if matches != nil {
		t.Errorf("empty word matched %d names", len(matches))
	}

	matches, start, end = completions(":li", 3, names)
	if len(matches) != 1 || matches[0].Str != ":list" || start != 0 || end != 3 {
		t.Errorf("command: %v at [%d, %d)", matches, start, end)
	}

	if matches, _, _ = completions(":list extra", 11, names); matches != nil {
		t.Errorf("command with argument matched %d commands", len(matches))
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("a", []string{"alpha", "beta", "gamma", "delta"})

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("no matches rendered %q", got)
	}

	full := stripANSI(renderCandidateBar(matches, 0, false, 80))
	for _, m := range matches {
		if !strings.Contains(full, m.Str) {
			t.Errorf("bar %q lacks %q", full, m.Str)
		}
	}

	narrow := stripANSI(renderCandidateBar(matches, 0, false, 12))
	if !strings.HasSuffix(narrow, "...") {
		t.Errorf("narrow bar %q not ellipsized", narrow)
	}
}

// stripANSI removes SGR sequences.
func stripANSI(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}

			continue
		}

		b.WriteByte(s[i])
	}

	return b.String()
}
