package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"

	"github.com/ardnew/hugo/lang"
)

// LabelColor is the color of underlines and their labels.
const LabelColor = "#FF327F"

// Option configures rendering.
type Option func(*config)

type config struct {
	profile  termenv.Profile
	explicit bool
	tabWidth int
}

// WithColor forces colors on or off instead of detecting them from the
// output.
func WithColor(enable bool) Option {
	return func(c *config) {
		c.explicit = true
		c.profile = termenv.Ascii

		if enable {
			c.profile = termenv.TrueColor
		}
	}
}

// WithProfile renders with the given terminal color profile.
func WithProfile(p termenv.Profile) Option {
	return func(c *config) {
		c.explicit = true
		c.profile = p
	}
}

// WithTabWidth sets the number of cells a tab expands to. The default is 4.
func WithTabWidth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tabWidth = n
		}
	}
}

type styles struct {
	header, frame, label lipgloss.Style
}

// Render writes one report block per diagnostic to w.
func Render(w io.Writer, src *lang.Source, diags lang.Diagnostics, opts ...Option) error {
	cfg := config{tabWidth: 4}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.explicit {
		cfg.profile = termenv.NewOutput(w).EnvColorProfile()
	}

	_, err := io.WriteString(w, render(src, diags, cfg))

	return err
}

// String returns the report that Render would write.
func String(src *lang.Source, diags lang.Diagnostics, opts ...Option) string {
	cfg := config{tabWidth: 4, profile: termenv.Ascii, explicit: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	return render(src, diags, cfg)
}

func render(src *lang.Source, diags lang.Diagnostics, cfg config) string {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(cfg.profile)

	st := styles{
		header: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		frame:  r.NewStyle().Foreground(lipgloss.Color("8")),
		label:  r.NewStyle().Foreground(lipgloss.Color(LabelColor)),
	}

	var sb strings.Builder

	for _, d := range diags {
		block(&sb, src, d, st, cfg.tabWidth)
	}

	return sb.String()
}

// block renders a single diagnostic. Only the line holding the start of the
// span is shown; a span running past it is underlined to the end of that line.
func block(sb *strings.Builder, src *lang.Source, d lang.Diagnostic, st styles, tabWidth int) {
	lineNo, col := src.Position(d.Span.Start)
	text, lineStart, _ := src.Line(lineNo)

	num := strconv.Itoa(lineNo)
	pad := strings.Repeat(" ", len(num)+2)

	name := src.Name()
	if name == "" {
		name = "<unknown>"
	}

	from := clamp(d.Span.Start-lineStart, len(text))
	to := clamp(d.Span.End-lineStart, len(text))

	before := cells(expand(text[:from], tabWidth))
	width := max(cells(expand(text[from:max(from, to)], tabWidth)), 1)

	indent := strings.Repeat(" ", before)

	sb.WriteString(st.header.Render("Error:") + " " + d.Message + "\n")
	sb.WriteString(pad + st.frame.Render("╭─[") + name + ":" + num + ":" + strconv.Itoa(col) + st.frame.Render("]") + "\n")
	sb.WriteString(pad + st.frame.Render("│") + "\n")
	sb.WriteString(" " + st.frame.Render(num+" │") + " " + expand(text, tabWidth) + "\n")
	sb.WriteString(pad + st.frame.Render("│") + " " + indent + st.label.Render("┬"+strings.Repeat("─", width-1)) + "\n")
	sb.WriteString(pad + st.frame.Render("│") + " " + indent + st.label.Render("╰── "+d.Reason) + "\n")
	sb.WriteString(st.frame.Render(strings.Repeat("─", len(pad))+"╯") + "\n")
}

func clamp(n, hi int) int { return min(max(n, 0), hi) }

func expand(s string, tabWidth int) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// cells returns the number of terminal cells s occupies, measuring each
// grapheme cluster as a unit.
func cells(s string) int {
	n := 0

	g := uniseg.NewGraphemes(s)
	for g.Next() {
		n += runewidth.StringWidth(g.Str())
	}

	return n
}
