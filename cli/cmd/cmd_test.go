package cmd

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"

	"github.com/ardnew/hugo/lang"
)

// testContext returns a context whose "-" source reads input and whose
// output is collected in the returned buffer.
func testContext(input string) (context.Context, *bytes.Buffer) {
	var out bytes.Buffer

	ctx := context.Background()
	ctx = WithInput(ctx, strings.NewReader(input))
	ctx = WithOutput(ctx, &out)
	ctx = WithSettings(ctx, Settings{Memo: true, Color: ColorNever})

	return ctx, &out
}

func TestRun_Success(t *testing.T) {
	ctx, out := testContext("f 1")

	if err := (&Run{Source: "-"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := heredoc.Doc(`
		continuing compilation with: {
		    "f": Number(1),
		}
		optimised form: {
		    "f": Number(1),
		}
		Interpreter Started
		Interpretation Done
	`)

	if got := out.String(); got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRun_ParseFailure(t *testing.T) {
	ctx, out := testContext("f 1+\ng 2")

	if err := (&Run{Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("parse failure returned %v", err)
	}

	got := out.String()

	if !strings.HasPrefix(got, "Error: ") {
		t.Errorf("diagnostics not rendered first:\n%s", got)
	}

	if !strings.HasSuffix(got, "Fatal Error, Cannot Continue\n") {
		t.Errorf("missing fatal marker:\n%s", got)
	}

	if strings.Contains(got, "Interpreter Started") {
		t.Errorf("stages ran on a failed parse:\n%s", got)
	}
}

func TestRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.hl")
	if err := os.WriteFile(path, []byte("greeting \"hi\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, out := testContext("")

	if err := (&Run{Source: path}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), `"greeting": Text("\"hi\"")`) {
		t.Errorf("output:\n%s", out)
	}
}

func TestRun_MissingFile(t *testing.T) {
	ctx, _ := testContext("")

	err := (&Run{Source: filepath.Join(t.TempDir(), "missing.hl")}).Run(ctx)

	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("error %v is not ErrOpenSource", err)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		quiet   bool
		want    string
		wantErr bool
	}{
		{name: "valid", input: "f 1 g 2", want: "<stdin>: 2 declarations\n"},
		{name: "quiet", input: "f 1", quiet: true, want: ""},
		{name: "invalid", input: "f", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(tt.input)

			err := (&Check{Source: "-", Quiet: tt.quiet}).Run(ctx)

			if tt.wantErr {
				if !errors.Is(err, lang.ErrParse) {
					t.Fatalf("error %v is not ErrParse", err)
				}

				var diags lang.Diagnostics
				if !errors.As(err, &diags) || len(diags) == 0 {
					t.Errorf("error %v carries no diagnostics", err)
				}

				if !strings.Contains(out.String(), lang.ReasonExpectedExpression) {
					t.Errorf("diagnostics not rendered:\n%s", out)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFmt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		run   func(context.Context) error
		want  string
	}{
		{
			name:  "native",
			input: "g a+b  f   1",
			run:   (&Native{Source: "-"}).Run,
			want:  "g a + b\nf 1\n",
		},
		{
			name:  "json",
			input: `n 7 s "x"`,
			run:   (&JSON{Source: "-"}).Run,
			want:  "{\"n\":7,\"s\":\"x\"}\n",
		},
		{
			name:  "yaml",
			input: `size 42 name "hugo"`,
			run:   (&YAML{Source: "-", Indent: 2}).Run,
			want:  "size: 42\nname: hugo\n",
		},
		{
			name:  "tree",
			input: "r [1;100]",
			run:   (&Tree{Source: "-"}).Run,
			want:  "{\n    \"r\": Range(\"[1;100]\"),\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(tt.input)

			if err := tt.run(ctx); err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFmt_Errors(t *testing.T) {
	ctx, _ := testContext("f 1")

	if err := format(ctx, "-", "xml", 0); !errors.Is(err, lang.ErrInvalidFormat) {
		t.Errorf("unknown format: %v", err)
	}

	ctx, out := testContext("f (")

	if err := (&Native{Source: "-"}).Run(ctx); !errors.Is(err, lang.ErrParse) {
		t.Errorf("invalid source: %v", err)
	}

	if !strings.Contains(out.String(), "Error: ") {
		t.Errorf("diagnostics not rendered:\n%s", out)
	}
}

func TestExpr(t *testing.T) {
	ctx, out := testContext("")

	if err := (&Expr{Text: []string{"a", "+", "(b)"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := heredoc.Doc(`
		Binary {
		    op: "+",
		    left: Identifier("a"),
		    right: Identifier("b"),
		}
	`)

	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestExpr_Invalid(t *testing.T) {
	ctx, out := testContext("")

	err := (&Expr{Text: []string{"a", "b"}}).Run(ctx)
	if !errors.Is(err, lang.ErrParse) {
		t.Fatalf("error %v is not ErrParse", err)
	}

	if !strings.Contains(out.String(), lang.ReasonExpectedEnd) {
		t.Errorf("output:\n%s", out)
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()

	if got := settingsFrom(ctx); got != DefaultSettings {
		t.Errorf("settingsFrom(empty) = %+v", got)
	}

	if got := reportOptions(ctx); got != nil {
		t.Errorf("auto color selected %d options", len(got))
	}

	for _, color := range []string{ColorAlways, ColorNever} {
		ctx := WithSettings(ctx, Settings{Color: color})
		if got := reportOptions(ctx); len(got) != 1 {
			t.Errorf("%s color selected %d options", color, len(got))
		}
	}

	if outputFrom(ctx) != os.Stdout || inputFrom(ctx) != os.Stdin {
		t.Error("default streams are not stdout and stdin")
	}
}
