package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commands are the control commands accepted at the prompt.
var commands = []string{":clear", ":help", ":list", ":quit"}

// isWordRune reports whether r can be part of a declared name.
func isWordRune(r rune) bool { return unicode.IsLetter(r) }

// wordBounds returns the name at the cursor and its byte offsets in input. The
// word is empty when the cursor is not next to a letter.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// completions returns the candidates for the word at the cursor, ranked best
// first, with the word's offsets. A line starting with ':' completes as a
// command; anything else completes the names in names.
func completions(input string, cursor int, names []string) (fuzzy.Matches, int, int) {
	if strings.HasPrefix(input, ":") {
		word := strings.TrimRightFunc(input, unicode.IsSpace)
		if strings.ContainsFunc(word, unicode.IsSpace) {
			return nil, 0, len(input)
		}

		return fuzzy.Find(word, commands), 0, len(word)
	}

	word, start, end := wordBounds(input, cursor)
	if word == "" || len(names) == 0 {
		return nil, start, end
	}

	return fuzzy.Find(word, names), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(matches fuzzy.Matches, selected int, tabActive bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w > room {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
