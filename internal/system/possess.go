package system

import (
	"fmt"

	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"go.uber.org/zap"
)

// PossessToolKey names the debug tool installed on a possessed body. Checked
// with MustGet at boot; a missing definition is a broken install.
const PossessToolKey = "common.items.debug.possess"

// Possess moves session control from the possessor's body to the target.
// The mandatory session bundle (client handle plus the five channel streams)
// moves atomically: every component is staged off the possessor first, then
// committed onto the target, and any conflict rolls the whole bundle back
// before the error returns. Optional player components move best-effort
// afterwards, one by one.
func (s *Interaction) Possess(possessorUID, possesseeUID ecs.UID) error {
	if possessorUID == possesseeUID {
		return fmt.Errorf("possess: %d targeting itself", possessorUID)
	}

	possessor, ok := s.w.EntityFromUID(possessorUID)
	if !ok {
		return fmt.Errorf("possess: possessor %d no longer exists", possessorUID)
	}
	possessee, ok := s.w.EntityFromUID(possesseeUID)
	if !ok {
		return fmt.Errorf("possess: target %d no longer exists", possesseeUID)
	}
	if s.w.Clients.Has(possessee) {
		return fmt.Errorf("possess: target %d is already client-controlled", possesseeUID)
	}

	// Stage. Take removes the components from the possessor, so every abort
	// path below must restore exactly what was taken.
	client, okClient := s.w.Clients.Take(possessor)
	general, okGeneral := s.w.GeneralStreams.Take(possessor)
	ping, okPing := s.w.PingStreams.Take(possessor)
	register, okRegister := s.w.RegisterStreams.Take(possessor)
	charScreen, okCharScreen := s.w.CharScreenStreams.Take(possessor)
	inGame, okInGame := s.w.InGameStreams.Take(possessor)

	restore := func() {
		if okClient {
			s.w.Clients.Set(possessor, client)
		}
		if okGeneral {
			s.w.GeneralStreams.Set(possessor, general)
		}
		if okPing {
			s.w.PingStreams.Set(possessor, ping)
		}
		if okRegister {
			s.w.RegisterStreams.Set(possessor, register)
		}
		if okCharScreen {
			s.w.CharScreenStreams.Set(possessor, charScreen)
		}
		if okInGame {
			s.w.InGameStreams.Set(possessor, inGame)
		}
	}

	if !okClient || !okGeneral || !okPing || !okRegister || !okCharScreen || !okInGame {
		restore()
		return fmt.Errorf("possess: possessor %d is missing part of its session bundle", possessorUID)
	}

	// Commit. Insert refuses to overwrite, so a conflicting component on the
	// target aborts the transfer instead of clobbering it.
	var undo []func()
	commit := func(ok bool, u func()) bool {
		if ok {
			undo = append(undo, u)
		}
		return ok
	}
	committed := commit(s.w.Clients.Insert(possessee, client), func() { s.w.Clients.Remove(possessee) }) &&
		commit(s.w.GeneralStreams.Insert(possessee, general), func() { s.w.GeneralStreams.Remove(possessee) }) &&
		commit(s.w.PingStreams.Insert(possessee, ping), func() { s.w.PingStreams.Remove(possessee) }) &&
		commit(s.w.RegisterStreams.Insert(possessee, register), func() { s.w.RegisterStreams.Remove(possessee) }) &&
		commit(s.w.CharScreenStreams.Insert(possessee, charScreen), func() { s.w.CharScreenStreams.Remove(possessee) }) &&
		commit(s.w.InGameStreams.Insert(possessee, inGame), func() { s.w.InGameStreams.Remove(possessee) })
	if !committed {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		restore()
		return fmt.Errorf("possess: target %d already holds a session component", possesseeUID)
	}

	s.w.BindSession(client.Sess.ID, possessee)

	// Optional components move independently. A conflict drops the component
	// rather than failing the transfer, which is already committed.
	moveOptional(s.log, "Player", possessorUID, possesseeUID, s.w.Players, possessor, possessee)
	moveOptional(s.log, "RegionSubscription", possessorUID, possesseeUID, s.w.Subscriptions, possessor, possessee)
	moveOptional(s.log, "Admin", possessorUID, possesseeUID, s.w.Admins, possessor, possessee)
	moveOptional(s.log, "Waypoint", possessorUID, possesseeUID, s.w.Waypoints, possessor, possessee)

	s.notifyPlayerEntity(general, possesseeUID)
	s.installPossessTool(possessee)

	// The new body is client-driven from here on.
	s.w.Agents.Remove(possessee)
	if _, ok := s.w.Controllers.Get(possessee); !ok {
		s.w.Controllers.Set(possessee, &component.Controller{})
	}

	// The vacated body stays in the world; neutralize any in-flight input.
	if ctrl, ok := s.w.Controllers.Get(possessor); ok {
		ctrl.Reset()
	}

	event.Emit(s.bus, event.ControlTransferred{From: possessorUID, To: possesseeUID})
	s.log.Info("possession complete",
		zap.Uint64("from", uint64(possessorUID)),
		zap.Uint64("to", uint64(possesseeUID)),
		zap.Uint64("session", client.Sess.ID),
	)
	return nil
}

func moveOptional[T any](log *zap.Logger, name string, fromUID, toUID ecs.UID, store *ecs.Store[T], from, to ecs.EntityID) {
	c, ok := store.Take(from)
	if !ok {
		return
	}
	if !store.Insert(to, c) {
		log.Warn("dropping component during possession",
			zap.String("component", name),
			zap.Uint64("from", uint64(fromUID)),
			zap.Uint64("to", uint64(toUID)),
		)
	}
}

// notifyPlayerEntity tells the client which entity it now controls.
func (s *Interaction) notifyPlayerEntity(general *net.GeneralStream, uid ecs.UID) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_SET_PLAYER_ENTITY)
	w.WriteQ(uint64(uid))
	if err := general.Send(w.Bytes()); err != nil {
		s.log.Warn("player entity notification failed",
			zap.Uint64("uid", uint64(uid)), zap.Error(err))
	}
}

// installPossessTool puts the possession tool in the active slot, shifting
// the previous active item to the second slot. Up to three abilities come
// from the tool definition; block and dodge slots stay empty.
func (s *Interaction) installPossessTool(possessee ecs.EntityID) {
	cfg := component.NewItemConfig(s.items.MustGet(PossessToolKey))

	lo, ok := s.w.Loadouts.Get(possessee)
	if !ok {
		lo = &component.Loadout{}
		s.w.Loadouts.Set(possessee, lo)
	}
	lo.Second = lo.Active
	lo.Active = cfg
}
