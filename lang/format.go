package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the IR in native syntax, one declaration per line, in order
// of first declaration.
func (ir *IR) Format(w io.Writer) error {
	for name, e := range ir.All() {
		if _, err := fmt.Fprintln(w, name, e.String()); err != nil {
			return err
		}
	}

	return nil
}

// FormatTree writes the IR as an indented debug tree.
func (ir *IR) FormatTree(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("{\n")

	for name, e := range ir.All() {
		sb.WriteString(treeIndent)
		sb.WriteString(strconv.Quote(name))
		sb.WriteString(": ")
		writeTree(&sb, e, 1)
		sb.WriteString(",\n")
	}

	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes the IR as JSON. A positive indent pretty-prints with that
// many spaces per level.
func (ir *IR) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ir, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ir)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the IR as YAML in order of first declaration. A zero
// indent selects flow style.
func (ir *IR) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	doc := make(yaml.MapSlice, 0, ir.Len())
	for name, e := range ir.All() {
		doc = append(doc, yaml.MapItem{Key: name, Value: ToNative(e)})
	}

	data, err := yaml.MarshalContext(ctx, doc, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// MarshalJSON implements json.Marshaler.
func (ir *IR) MarshalJSON() ([]byte, error) {
	return json.Marshal(ir.ToMap())
}

// ToMap converts the IR to native Go values keyed by declaration name.
func (ir *IR) ToMap() map[string]any {
	m := make(map[string]any, ir.Len())
	for name, e := range ir.All() {
		m[name] = ToNative(e)
	}

	return m
}

// ToNative converts an expression tree to native Go values. Numbers become
// uint64 and strings their unquoted text. Identifiers, ranges and binary
// operations become maps so they stay distinguishable from strings.
func ToNative(e Expr) any {
	switch x := e.(type) {
	case *Number:
		return x.Value
	case *Text:
		return x.Value()
	case *Identifier:
		return map[string]any{"ident": x.Name}
	case *Range:
		return map[string]any{"range": x.Literal}
	case *Binary:
		return map[string]any{
			"op":    x.Op,
			"left":  ToNative(x.Left),
			"right": ToNative(x.Right),
		}
	default:
		return nil
	}
}

// Tree returns the indented debug tree of e.
func Tree(e Expr) string {
	var sb strings.Builder

	writeTree(&sb, e, 0)

	return sb.String()
}

const treeIndent = "    "

func writeTree(sb *strings.Builder, e Expr, depth int) {
	switch x := e.(type) {
	case *Number:
		fmt.Fprintf(sb, "Number(%d)", x.Value)
	case *Text:
		fmt.Fprintf(sb, "Text(%s)", strconv.Quote(x.Literal))
	case *Identifier:
		fmt.Fprintf(sb, "Identifier(%q)", x.Name)
	case *Range:
		fmt.Fprintf(sb, "Range(%q)", x.Literal)
	case *Binary:
		pad := strings.Repeat(treeIndent, depth+1)

		sb.WriteString("Binary {\n")
		fmt.Fprintf(sb, "%sop: %q,\n", pad, x.Op)
		sb.WriteString(pad + "left: ")
		writeTree(sb, x.Left, depth+1)
		sb.WriteString(",\n" + pad + "right: ")
		writeTree(sb, x.Right, depth+1)
		sb.WriteString(",\n" + strings.Repeat(treeIndent, depth) + "}")
	default:
		sb.WriteString("<nil>")
	}
}
