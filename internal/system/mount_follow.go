package system

import (
	"time"

	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/core/system"
	"github.com/veilmere/server/internal/world"
)

// MountFollowSystem keeps riders glued to their mounts. Runs after game
// logic so riders see the mount's position from the same tick. A rider whose
// mount has been destroyed is detached here, which is what keeps Riding from
// ever pointing at a retired stable id across ticks.
type MountFollowSystem struct {
	w *world.World
}

func NewMountFollowSystem(w *world.World) *MountFollowSystem {
	return &MountFollowSystem{w: w}
}

func (s *MountFollowSystem) Phase() system.Phase {
	return system.PhasePostUpdate
}

func (s *MountFollowSystem) Update(_ time.Duration) {
	var orphaned []ecs.EntityID

	ecs.Each2(s.w.Ridings, s.w.Pos, func(rider ecs.EntityID, riding *component.Riding, pos *component.Pos) {
		mount, ok := s.w.EntityFromUID(riding.Mount)
		if !ok {
			orphaned = append(orphaned, rider)
			return
		}
		if mountPos, ok := s.w.Pos.Get(mount); ok {
			*pos = *mountPos
		}
	})

	for _, rider := range orphaned {
		s.w.Ridings.Remove(rider)
	}
}
