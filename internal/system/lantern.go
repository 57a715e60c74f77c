package system

import (
	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/data"
)

const lanternFlicker float32 = 0.35

// SetLantern toggles an entity's lantern light. An entity counts as lit when
// it carries a LightEmitter with positive strength. Both directions are
// idempotent; enabling needs a lantern-kind item in the loadout lantern slot
// and copies its color and strength onto the emitter.
func (s *Interaction) SetLantern(id ecs.EntityID, enable bool) {
	lit := false
	if le, ok := s.w.LightEmitters.Get(id); ok && le.Strength > 0 {
		lit = true
	}

	if !enable {
		if lit {
			s.w.LightEmitters.Remove(id)
		}
		return
	}
	if lit {
		return
	}

	lo, ok := s.w.Loadouts.Get(id)
	if !ok || lo.Lantern == nil || lo.Lantern.Kind != data.ItemKindLantern {
		return
	}

	s.w.LightEmitters.Set(id, &component.LightEmitter{
		Col:      lo.Lantern.Color,
		Strength: lo.Lantern.Strength,
		Flicker:  lanternFlicker,
		Animated: true,
	})
}
