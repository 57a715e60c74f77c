package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain session packet queues
	PhasePreUpdate               // 1: process last tick's events
	PhaseUpdate                  // 2: game logic
	PhasePostUpdate              // 3: derived state (mount follow, etc.)
	PhaseOutput                  // 4: flush session output
	PhasePersist                 // 5: batch saves
	PhaseCleanup                 // 6: destroy queued entities
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
