package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	logger := Make(nil)

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}

	if got := logger.Format(); got != DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, DefaultFormat)
	}

	if !logger.pretty {
		t.Error("pretty disabled by default")
	}
}

func TestLogger_ZeroValueDiscards(t *testing.T) {
	var logger Logger

	logger.Info("nothing")
	logger.TraceContext(context.Background(), "nothing")

	if got := logger.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With on zero Logger produced a live logger")
	}

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger)
		want  bool
	}{
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("msg") }, true},
		{"trace at debug", LevelDebug, func(l Logger) { l.Trace("msg") }, false},
		{"debug at info", LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{"info at info", LevelInfo, func(l Logger) { l.Info("msg") }, true},
		{"warn at error", LevelError, func(l Logger) { l.Warn("msg") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := strings.Contains(buf.String(), "msg"); got != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSONRecord(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	)

	logger.TraceContext(context.Background(), "parse complete", slog.Int("declarations", 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["msg"] != "parse complete" {
		t.Errorf("msg = %v", rec["msg"])
	}

	if rec["declarations"] != float64(2) {
		t.Errorf("declarations = %v", rec["declarations"])
	}

	if _, ok := rec["time"]; ok {
		t.Error("time present with layout none")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller missing from %q", buf.String())
	}
}

func TestLogger_WrapKeepsOutput(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false))
	wrapped := base.Wrap(WithLevel(LevelError))

	wrapped.Info("hidden")
	wrapped.Error("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}

	if base.Level() != DefaultLevel {
		t.Error("Wrap modified the original logger")
	}
}

func TestLogger_With(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		Make(&buf, WithPretty(pretty)).With(slog.String("source", "test.hl")).Info("read")

		if !strings.Contains(buf.String(), "test.hl") {
			t.Errorf("pretty=%v: attribute missing from %q", pretty, buf.String())
		}
	}
}

func TestPrettyText_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithTimeLayout(""), WithLevel(LevelTrace)).
		Trace("memo", slog.Bool("enabled", true), slog.Int("hits", 3))

	want := "level=TRACE msg=memo enabled=true hits=3\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrettyJSON_Groups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout(""), WithFormat(FormatJSON))
	logger.With(slog.String("a", "b")).Info("hello")

	out := buf.String()
	for _, want := range []string{`"level": INFO`, `"msg": hello`, `"a": b`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"Info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"bogus":   DefaultLevel,
		" debug ": LevelDebug,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  FormatJSON,
		"JSON":  FormatJSON,
		"text":  FormatText,
		"other": DefaultFormat,
	}

	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	var levels []string
	for l := range Levels() {
		levels = append(levels, l)
	}

	if got := strings.Join(levels, ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %s", got)
	}

	var formats []string
	for f := range Formats() {
		formats = append(formats, f)
	}

	if got := strings.Join(formats, ","); got != "text,json" {
		t.Errorf("Formats() = %s", got)
	}
}

func TestPackageFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) {
				t.Errorf("level %s missing from %s", tt.level, out)
			}

			if !strings.Contains(out, `"key":"value"`) {
				t.Errorf("attribute missing from %s", out)
			}
		})
	}
}

func TestConfig_Reconfigures(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf, WithPretty(false))
	Config(WithLevel(LevelError))

	Info("hidden")

	if buf.Len() != 0 {
		t.Errorf("info logged after Config(WithLevel(error)): %q", buf.String())
	}

	if Default().Level() != LevelError {
		t.Errorf("Default().Level() = %v", Default().Level())
	}
}
