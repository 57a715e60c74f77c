package system

import (
	"time"

	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/core/system"
)

// EventDispatchSystem delivers last tick's events to their subscribers.
// The buffer swap happens at tick start in the game loop, so everything
// emitted during tick N is visible here in tick N+1.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() system.Phase {
	return system.PhasePreUpdate
}

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.DispatchAll()
}
