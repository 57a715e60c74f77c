package system

import (
	"time"

	"github.com/veilmere/server/internal/core/system"
	"github.com/veilmere/server/internal/world"
)

// CleanupSystem runs last in the tick and performs the deferred entity
// destruction: components removed from every store, stable id retired,
// handle slot recycled with a bumped generation.
type CleanupSystem struct {
	w *world.World
}

func NewCleanupSystem(w *world.World) *CleanupSystem {
	return &CleanupSystem{w: w}
}

func (s *CleanupSystem) Phase() system.Phase {
	return system.PhaseCleanup
}

func (s *CleanupSystem) Update(_ time.Duration) {
	s.w.FlushDestroyQueue()
}
