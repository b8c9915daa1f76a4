package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ApplyOverrides applies --set key=value pairs on top of a config. Keys
// use dots for nesting ("mat.damping=120", "pump.target=1.5"); values
// are parsed as numbers when they look like numbers, otherwise kept as
// strings.
func ApplyOverrides(cfg *Config, overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}

	tree := make(map[string]any)
	for _, o := range overrides {
		key, raw, ok := strings.Cut(o, "=")
		if !ok {
			return fmt.Errorf("invalid override %q (want key=value)", o)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("invalid override %q (empty key)", o)
		}
		insert(tree, strings.Split(key, "."), parseValue(strings.TrimSpace(raw)))
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(tree); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}
	return nil
}

func insert(tree map[string]any, path []string, value any) {
	if len(path) == 1 {
		tree[path[0]] = value
		return
	}
	child, ok := tree[path[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		tree[path[0]] = child
	}
	insert(child, path[1:], value)
}

func parseValue(raw string) any {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return raw
}
