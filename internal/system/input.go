package system

import (
	"time"

	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/core/system"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"github.com/veilmere/server/internal/world"
	"go.uber.org/zap"
)

// maxPacketsPerTick bounds how many packets one session can have processed
// in a single tick. The rest stay queued; the reader goroutine blocks once
// InQueue is full.
const maxPacketsPerTick = 32

// InputSystem owns the session lifecycle on the game loop side: it adopts
// new connections, drains per-session packet queues through the opcode
// registry, and tears down sessions that died since last tick.
type InputSystem struct {
	server   *net.Server
	sessions *net.SessionStore
	registry *packet.Registry
	w        *world.World
	interact *Interaction
	bus      *event.Bus
	log      *zap.Logger

	// onDisconnect runs before the entity is destroyed, while its components
	// are still readable. Used for the character save.
	onDisconnect func(sess *net.Session, id ecs.EntityID)
}

func NewInputSystem(
	server *net.Server,
	sessions *net.SessionStore,
	registry *packet.Registry,
	w *world.World,
	interact *Interaction,
	bus *event.Bus,
	log *zap.Logger,
	onDisconnect func(sess *net.Session, id ecs.EntityID),
) *InputSystem {
	return &InputSystem{
		server:       server,
		sessions:     sessions,
		registry:     registry,
		w:            w,
		interact:     interact,
		bus:          bus,
		log:          log,
		onDisconnect: onDisconnect,
	}
}

func (s *InputSystem) Phase() system.Phase {
	return system.PhaseInput
}

func (s *InputSystem) Update(_ time.Duration) {
	s.adoptNewSessions()
	s.reapDeadSessions()

	var dead []*net.Session
	s.sessions.ForEach(func(sess *net.Session) {
		if sess.IsClosed() {
			dead = append(dead, sess)
			return
		}
		s.drainSession(sess)
	})
	for _, sess := range dead {
		s.disconnect(sess)
	}
}

func (s *InputSystem) adoptNewSessions() {
	for {
		select {
		case sess := <-s.server.NewSessions():
			s.sessions.Add(sess)
		default:
			return
		}
	}
}

func (s *InputSystem) reapDeadSessions() {
	for {
		select {
		case id := <-s.server.DeadSessions():
			if sess := s.sessions.Get(id); sess != nil {
				s.disconnect(sess)
			}
		default:
			return
		}
	}
}

func (s *InputSystem) drainSession(sess *net.Session) {
	for i := 0; i < maxPacketsPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Debug("packet rejected",
					zap.Uint64("session", sess.ID), zap.Error(err))
			}
		default:
			return
		}
	}
}

// disconnect tears a session down: the controlled entity is dismounted,
// handed to the save hook, and queued for destruction; the session binding
// and store entry go with it.
func (s *InputSystem) disconnect(sess *net.Session) {
	if id, ok := s.w.EntityBySession(sess.ID); ok {
		s.interact.Unmount(id)
		if s.onDisconnect != nil {
			s.onDisconnect(sess, id)
		}
		s.w.MarkForDestruction(id)
		s.w.UnbindSession(sess.ID)
		event.Emit(s.bus, event.PlayerLeft{EntityID: id, SessionID: sess.ID})
	}
	s.sessions.Remove(sess.ID)
	sess.Close()
	s.log.Info("session removed",
		zap.Uint64("session", sess.ID),
		zap.String("account", sess.AccountName),
	)
}
