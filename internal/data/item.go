package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemKind distinguishes item definition categories for game logic.
type ItemKind string

const (
	ItemKindLantern ItemKind = "lantern"
	ItemKindTool    ItemKind = "tool"
	ItemKindMisc    ItemKind = "misc"
)

// Ability is one entry of a tool's ordered ability list.
type Ability struct {
	Name  string  `yaml:"name"`
	Power float32 `yaml:"power"`
}

// Item is a static item definition keyed by asset path. Definitions are
// immutable after load; entities reference them, they never own them.
type Item struct {
	Key  string   `yaml:"key"`
	Name string   `yaml:"name"`
	Kind ItemKind `yaml:"kind"`

	// Lantern kind
	Color    [3]uint8 `yaml:"color"`
	Strength float32  `yaml:"strength"`

	// Tool kind
	ToolType  string    `yaml:"tool_type"`
	Abilities []Ability `yaml:"abilities"`
}

// ItemTable holds all item definitions keyed by asset key.
type ItemTable struct {
	byKey map[string]*Item
}

// LoadItemTable loads item definitions from a YAML list file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item table %s: %w", path, err)
	}
	var items []*Item
	if err := yaml.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse item table %s: %w", path, err)
	}

	t := &ItemTable{byKey: make(map[string]*Item, len(items))}
	for _, it := range items {
		if it.Key == "" {
			return nil, fmt.Errorf("item table %s: entry %q has no key", path, it.Name)
		}
		if _, dup := t.byKey[it.Key]; dup {
			return nil, fmt.Errorf("item table %s: duplicate key %s", path, it.Key)
		}
		if it.Kind == "" {
			it.Kind = ItemKindMisc
		}
		t.byKey[it.Key] = it
	}
	return t, nil
}

// Get returns the item definition for an asset key.
func (t *ItemTable) Get(key string) (*Item, bool) {
	it, ok := t.byKey[key]
	return it, ok
}

// MustGet returns the item definition or panics. Used for well-known assets
// whose absence is a broken install, not a runtime condition.
func (t *ItemTable) MustGet(key string) *Item {
	it, ok := t.byKey[key]
	if !ok {
		panic(fmt.Sprintf("missing required item asset %q", key))
	}
	return it
}

func (t *ItemTable) Count() int {
	return len(t.byKey)
}
