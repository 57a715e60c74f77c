package system

import (
	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/data"
	"github.com/veilmere/server/internal/world"
	"go.uber.org/zap"
)

// MaxMountRange is the farthest a rider may stand from a mount, in world
// units. Compared against squared distance, strictly less than.
const MaxMountRange float32 = 14.0

// Interaction implements the entity-interaction entry points: the mount
// relation, the possession transfer, and the lantern equip sync. All calls
// run synchronously on the game loop goroutine and either complete or abort
// before returning; no operation suspends mid-way.
//
// MountState and Riding are written only here, always in pairs, which is
// what keeps the two sides of the relation mutually consistent.
type Interaction struct {
	w     *world.World
	items *data.ItemTable
	bus   *event.Bus
	log   *zap.Logger
}

func NewInteraction(w *world.World, items *data.ItemTable, bus *event.Bus, log *zap.Logger) *Interaction {
	return &Interaction{w: w, items: items, bus: bus, log: log}
}

// Mount pairs a rider with a rideable entity. A silent no-op unless the
// rider is not already riding, the mountee is present and unmounted, both
// stable ids resolve, and the two are within mounting range.
func (s *Interaction) Mount(rider, mountee ecs.EntityID) {
	if s.w.Ridings.Has(rider) {
		return
	}

	ms, ok := s.w.MountStates.Get(mountee)
	if !ok || ms.Kind != component.MountUnmounted {
		return
	}

	riderPos, riderHasPos := s.w.Pos.Get(rider)
	mountPos, mountHasPos := s.w.Pos.Get(mountee)
	if !riderHasPos || !mountHasPos {
		return // missing position fails closed
	}
	if component.DistSquared(*riderPos, *mountPos) >= MaxMountRange*MaxMountRange {
		return
	}

	riderUID, ok := s.w.UIDFor(rider)
	if !ok {
		return
	}
	mounteeUID, ok := s.w.UIDFor(mountee)
	if !ok {
		return
	}

	*ms = component.MountedBy(riderUID)
	s.w.Ridings.Set(rider, &component.Riding{Mount: mounteeUID})
}

// Unmount tears down the rider's side of the relation unconditionally and
// the mount's side whenever the mount still exists. A rider is never left
// attached to a nonexistent mount.
func (s *Interaction) Unmount(rider ecs.EntityID) {
	riding, ok := s.w.Ridings.Take(rider)
	if !ok {
		return
	}

	mount, ok := s.w.EntityFromUID(riding.Mount)
	if !ok {
		return // mount already destroyed, nothing to clear
	}
	if ms, ok := s.w.MountStates.Get(mount); ok {
		*ms = component.Unmounted()
	}
}
