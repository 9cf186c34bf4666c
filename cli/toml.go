package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// loadTOML is a [kong.ConfigurationLoader] for TOML files. Tables are
// flattened into flag names, so both of these set --log-level:
//
//	log-level = "debug"
//
//	[log]
//	level = "debug"
func loadTOML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	s := make(settings)
	flattenTOML(s, "", doc)

	return s, nil
}

func flattenTOML(s settings, prefix string, table map[string]any) {
	for key, v := range table {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			flattenTOML(s, key, sub)

			continue
		}

		s[settingKey(key)] = tomlValue(v)
	}
}

// tomlValue converts a decoded TOML value to the string form kong parses.
// Arrays become comma separated lists.
func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = tomlValue(e)
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}
