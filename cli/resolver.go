package cli

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/clearsys/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML mapping of flag
// names to values:
//
//	log-level: debug
//	log-pretty: true
//	search-path:
//	  - ~/clearsys/lib
//	max-depth: 500
//
// Flag names may be spelled with underscores instead of hyphens. A file that
// is empty or not a mapping yields no values. Command-line flags override
// configuration values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("ignoring invalid configuration", slog.Any("error", err))

		return config{}, nil
	}

	cfg := make(config, len(doc))
	for key, val := range doc {
		cfg[key] = native(val)
	}

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// native converts a decoded YAML value to the form kong expects: scalars as
// strings, sequences element-wise. Booleans are kept for switch flags.
func native(val any) any {
	switch v := val.(type) {
	case bool, string, nil:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = native(e)
		}

		return out
	default:
		return v
	}
}
