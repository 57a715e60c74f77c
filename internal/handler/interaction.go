package handler

import (
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"go.uber.org/zap"
)

// controlledEntity resolves the entity a session drives. Sessions in world
// always have one; its absence means the entity died this tick.
func (d *Deps) controlledEntity(sess *net.Session) (ecs.EntityID, bool) {
	id, ok := d.World.EntityBySession(sess.ID)
	if !ok || !d.World.Alive(id) {
		return 0, false
	}
	return id, true
}

func (d *Deps) handleMount(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	targetUID := ecs.UID(r.ReadQ())

	rider, ok := d.controlledEntity(sess)
	if !ok {
		return
	}
	target, ok := d.World.EntityFromUID(targetUID)
	if !ok {
		d.Log.Debug("mount target gone",
			zap.Uint64("session", sess.ID), zap.Uint64("uid", uint64(targetUID)))
		return
	}
	d.Interact.Mount(rider, target)
}

func (d *Deps) handleUnmount(s any, _ *packet.Reader) {
	sess := s.(*net.Session)
	if rider, ok := d.controlledEntity(sess); ok {
		d.Interact.Unmount(rider)
	}
}

func (d *Deps) handleLantern(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	enable := r.ReadC() != 0

	if id, ok := d.controlledEntity(sess); ok {
		d.Interact.SetLantern(id, enable)
	}
}
