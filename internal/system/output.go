package system

import (
	"time"

	"github.com/veilmere/server/internal/core/system"
	"github.com/veilmere/server/internal/net"
)

// OutputSystem flushes every session's buffered packets to its writer
// goroutine once per tick.
type OutputSystem struct {
	sessions *net.SessionStore
}

func NewOutputSystem(sessions *net.SessionStore) *OutputSystem {
	return &OutputSystem{sessions: sessions}
}

func (s *OutputSystem) Phase() system.Phase {
	return system.PhaseOutput
}

func (s *OutputSystem) Update(_ time.Duration) {
	s.sessions.ForEach(func(sess *net.Session) {
		if !sess.IsClosed() {
			sess.FlushOutput()
		}
	})
}
