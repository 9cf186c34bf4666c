package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hugo/lang"
	"github.com/ardnew/hugo/log"
)

// settings implements [kong.Resolver] over flag values read from a
// configuration file. Keys are stored by [settingKey], so "log-level",
// "log_level" and "loglevel" all name the same flag.
type settings map[string]any

// settingKey folds case and drops every character that is not a letter or
// digit.
func settingKey(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return -1
	}, name)
}

// Validate implements [kong.Resolver].
func (settings) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (s settings) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := s[settingKey(flag.Name)]; ok {
		return v, nil
	}

	return nil, nil
}

// resolve returns a [kong.ConfigurationLoader] for configuration written in
// the hugo language. Each declaration sets the flag of the same name with
// its hyphens removed:
//
//	loglevel "debug"
//	logformat json
//	logpretty false
//	memo true
//
// Strings are unquoted, numbers are written in decimal, and identifiers stand
// for their own name, which covers enum and boolean values. Declarations of
// any other kind are ignored. A file that does not parse configures nothing.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		src, err := lang.ReadSource(ctx, r, baseConfig+extHL)
		if err != nil {
			return nil, err
		}

		ir, diags := lang.Parse(ctx, src)
		if diags != nil {
			log.WarnContext(ctx, "configuration ignored",
				slog.String("source", src.Name()),
				slog.Any("error", diags),
			)

			return settings{}, nil
		}

		s := make(settings, ir.Len())

		for name, e := range ir.All() {
			v, ok := settingValue(e)
			if !ok {
				log.DebugContext(ctx, "configuration value ignored",
					slog.String("name", name),
					slog.String("kind", lang.Kind(e)),
				)

				continue
			}

			s[settingKey(name)] = v
		}

		return s, nil
	}
}

// settingValue returns the flag value e stands for.
func settingValue(e lang.Expr) (string, bool) {
	switch x := e.(type) {
	case *lang.Text:
		return x.Value(), true
	case *lang.Number:
		return strconv.FormatUint(x.Value, 10), true
	case *lang.Identifier:
		return x.Name, true
	default:
		return "", false
	}
}
