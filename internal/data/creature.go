package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CreatureSpawn describes one world creature placed at boot.
type CreatureSpawn struct {
	Name     string  `yaml:"name"`
	Rideable bool    `yaml:"rideable"`
	X        float32 `yaml:"x"`
	Y        float32 `yaml:"y"`
	Z        float32 `yaml:"z"`
}

// CreatureTable is the boot spawn list.
type CreatureTable struct {
	spawns []CreatureSpawn
}

// LoadCreatureTable loads the creature spawn list from a YAML file.
// A missing file is not an error; the world simply starts empty.
func LoadCreatureTable(path string) (*CreatureTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &CreatureTable{}, nil
		}
		return nil, fmt.Errorf("read creature table %s: %w", path, err)
	}
	var spawns []CreatureSpawn
	if err := yaml.Unmarshal(raw, &spawns); err != nil {
		return nil, fmt.Errorf("parse creature table %s: %w", path, err)
	}
	return &CreatureTable{spawns: spawns}, nil
}

func (t *CreatureTable) Spawns() []CreatureSpawn {
	return t.spawns
}

func (t *CreatureTable) Count() int {
	return len(t.spawns)
}
