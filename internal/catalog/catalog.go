package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps a lowercase muscle group to candidate exercise names.
// It is never modified after construction.
type Catalog struct {
	groups map[string][]string
}

// New builds a Catalog from an in-memory mapping. Keys are lower-cased;
// keys that collide after lower-casing are merged in sorted key order.
func New(groups map[string][]string) Catalog {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := Catalog{groups: make(map[string][]string, len(groups))}
	for _, k := range keys {
		lk := strings.ToLower(k)
		c.groups[lk] = append(c.groups[lk], groups[k]...)
	}
	return c
}

// Lookup returns the exercises for a muscle group, compared case-insensitively.
// The returned slice is a copy.
func (c Catalog) Lookup(group string) ([]string, bool) {
	names, ok := c.groups[strings.ToLower(group)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), names...), true
}

// Groups returns all muscle group keys, sorted.
func (c Catalog) Groups() []string {
	keys := make([]string, 0, len(c.groups))
	for k := range c.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of muscle groups.
func (c Catalog) Len() int {
	return len(c.groups)
}

// Load reads a catalog file. Both YAML and JSON are accepted:
//
//	chest: ["Bench Press", "Push-ups"]
//	legs:
//	  - Squats
//	  - Lunges
//
// The document must be a mapping of string to list of strings; contents are
// not otherwise checked.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog document bytes. An empty document is an empty catalog.
func Parse(data []byte) (Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, err
	}
	if doc.Kind == 0 || (doc.Kind == yaml.DocumentNode && len(doc.Content) == 0) {
		return New(nil), nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return Catalog{}, fmt.Errorf("line %d: catalog must be a mapping of muscle group to exercise list", root.Line)
	}

	groups := make(map[string][]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || k.ShortTag() != "!!str" {
			return Catalog{}, fmt.Errorf("line %d: muscle group key must be a string", k.Line)
		}
		if v.Kind != yaml.SequenceNode {
			return Catalog{}, fmt.Errorf("line %d: exercises for %q must be a list", v.Line, k.Value)
		}
		names := make([]string, 0, len(v.Content))
		for _, item := range v.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
				return Catalog{}, fmt.Errorf("line %d: exercise names for %q must be strings", item.Line, k.Value)
			}
			names = append(names, item.Value)
		}
		lk := strings.ToLower(k.Value)
		groups[lk] = append(groups[lk], names...)
	}

	return Catalog{groups: groups}, nil
}
