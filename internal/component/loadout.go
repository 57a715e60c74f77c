package component

import "github.com/veilmere/server/internal/data"

// ItemConfig is an equipped item plus its resolved ability slots.
type ItemConfig struct {
	Item *data.Item

	Ability1 *data.Ability
	Ability2 *data.Ability
	Ability3 *data.Ability

	BlockAbility *data.Ability
	DodgeAbility *data.Ability
}

// NewItemConfig resolves an item into an equip slot, binding up to three of
// its abilities in definition order. Block and dodge slots start empty.
func NewItemConfig(item *data.Item) *ItemConfig {
	cfg := &ItemConfig{Item: item}
	if len(item.Abilities) > 0 {
		cfg.Ability1 = &item.Abilities[0]
	}
	if len(item.Abilities) > 1 {
		cfg.Ability2 = &item.Abilities[1]
	}
	if len(item.Abilities) > 2 {
		cfg.Ability3 = &item.Abilities[2]
	}
	return cfg
}

// Loadout is an entity's equipment slot set.
type Loadout struct {
	Active  *ItemConfig
	Second  *ItemConfig
	Lantern *data.Item
}
