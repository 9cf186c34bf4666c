package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. The renderer behind it
// inspects the output writer, so colors are dropped when it is not a terminal.
type palette struct {
	key, str, num, yes, no, time, null lipgloss.Style

	levels map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		time:  fg("4"),
		null:  fg("8"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	best := slog.Level(LevelTrace)
	for k := range p.levels {
		if k <= l && k > best {
			best = k
		}
	}

	return p.levels[best]
}

// prettyBase carries what both pretty handlers share: the output, the lock
// serialising writes to it, and attributes and groups added with WithAttrs and
// WithGroup.
type prettyBase struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors palette
	attrs  []slog.Attr
	groups []string
}

func newPrettyBase(w io.Writer, opts *slog.HandlerOptions) prettyBase {
	return prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w, colors: newPalette(w)}
}

func (h prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

// collect returns the header and body attributes of r after ReplaceAttr.
func (h prettyBase) collect(r slog.Record) []slog.Attr {
	var out []slog.Attr

	add := func(groups []string, a slog.Attr) {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(groups, a)
		}

		if a.Equal(slog.Attr{}) {
			return
		}

		if len(groups) > 0 {
			a.Key = strings.Join(groups, ".") + "." + a.Key
		}

		out = append(out, a)
	}

	if !r.Time.IsZero() {
		add(nil, slog.Time(slog.TimeKey, r.Time))
	}

	add(nil, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			add(nil, slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	add(nil, slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		add(h.groups, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		add(h.groups, a)

		return true
	})

	return out
}

func (h prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return h
}

func (h prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	}

	return h
}

// value renders v with the style of its kind. Strings are not quoted.
func (h prettyBase) value(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return h.colors.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colors.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")

	case slog.KindDuration:
		return h.colors.time.Render(v.Duration().String())

	case slog.KindTime:
		return h.colors.time.Render(v.Time().Format(time.RFC3339))

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, h.colors.key.Render(a.Key)+"="+h.value(a.Value))
		}

		return "{" + strings.Join(parts, " ") + "}"

	default:
		if l, ok := v.Any().(slog.Level); ok {
			return h.colors.level(l).Render(strings.ToUpper(Level(l).String()))
		}

		if v.Any() == nil {
			return h.colors.null.Render("null")
		}

		return h.colors.str.Render(v.String())
	}
}

// attrValue renders a, styling the level attribute by the record's level.
func (h prettyBase) attrValue(r slog.Record, a slog.Attr) string {
	if a.Key == slog.LevelKey {
		return h.colors.level(r.Level).Render(a.Value.String())
	}

	return h.value(a.Value)
}

// prettyTextHandler writes key=value records with colored keys and values.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.collect(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.attrValue(r, a))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes one indented JSON-like object per record with
// colored keys and unquoted string values.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, a := range h.collect(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.colors.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		if v := a.Value.Resolve(); v.Kind() == slog.KindAny && a.Key != slog.LevelKey {
			if data, err := json.Marshal(v.Any()); err == nil {
				buf.WriteString(h.colors.str.Render(string(data)))

				continue
			}
		}

		buf.WriteString(h.attrValue(r, a))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
