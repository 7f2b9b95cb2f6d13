// Package config loads optional YAML defaults for command-line flags.
//
// Keys are flag names in snake_case or kebab-case. Flags of a subcommand can
// also be nested under the command name:
//
//	config: ~/.config/habitual/habitual.db
//	debug: false
//	remind:
//	  nats_url: nats://127.0.0.1:4222
//	  metrics_addr: :9464
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader for YAML documents.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		raw, ok := lookup(values, commandPath(parent), flag.Name)
		if !ok {
			return nil, nil
		}
		return normalize(raw), nil
	}
	return f, nil
}

// commandPath returns the command names from the root to parent.
func commandPath(parent *kong.Path) []string {
	if parent == nil {
		return nil
	}
	var names []string
	for node := parent.Node(); node != nil && node.Type == kong.CommandNode; node = node.Parent {
		names = append([]string{node.Name}, names...)
	}
	return names
}

func lookup(values map[string]any, commands []string, flag string) (any, bool) {
	keys := []string{flag, strings.ReplaceAll(flag, "-", "_")}

	// Most specific section first.
	for depth := len(commands); depth >= 0; depth-- {
		section := values
		found := true
		for _, cmd := range commands[:depth] {
			next, ok := asMap(section[cmd])
			if !ok {
				next, ok = asMap(section[strings.ReplaceAll(cmd, "-", "_")])
			}
			if !ok {
				found = false
				break
			}
			section = next
		}
		if !found {
			continue
		}
		for _, key := range keys {
			if raw, ok := section[key]; ok {
				if _, isMap := asMap(raw); isMap {
					continue
				}
				return raw, true
			}
		}
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// normalize turns YAML scalars into the strings kong mappers parse best.
func normalize(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
