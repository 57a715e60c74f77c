package world

import (
	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/net"
)

// World owns the entity pool, the stable UID index, and one typed store per
// component kind. Accessed only from the game loop goroutine, no locks.
type World struct {
	ecs *ecs.World

	Pos           *ecs.Store[component.Pos]
	MountStates   *ecs.Store[component.MountState]
	Ridings       *ecs.Store[component.Riding]
	LightEmitters *ecs.Store[component.LightEmitter]
	Loadouts      *ecs.Store[component.Loadout]
	Agents        *ecs.Store[component.Agent]
	Controllers   *ecs.Store[component.Controller]
	Players       *ecs.Store[component.Player]
	Admins        *ecs.Store[component.Admin]
	Waypoints     *ecs.Store[component.Waypoint]
	Subscriptions *ecs.Store[component.RegionSubscription]

	// Session-owned components. Exactly one of each per controlling entity;
	// they are created at connection time, destroyed at disconnect, and moved
	// (never duplicated) by the possession transfer.
	Clients           *ecs.Store[net.Client]
	GeneralStreams    *ecs.Store[net.GeneralStream]
	PingStreams       *ecs.Store[net.PingStream]
	RegisterStreams   *ecs.Store[net.RegisterStream]
	CharScreenStreams *ecs.Store[net.CharacterScreenStream]
	InGameStreams     *ecs.Store[net.InGameStream]

	bySession map[uint64]ecs.EntityID // session ID → controlling entity
}

func NewWorld() *World {
	w := &World{
		ecs:               ecs.NewWorld(),
		Pos:               ecs.NewStore[component.Pos](),
		MountStates:       ecs.NewStore[component.MountState](),
		Ridings:           ecs.NewStore[component.Riding](),
		LightEmitters:     ecs.NewStore[component.LightEmitter](),
		Loadouts:          ecs.NewStore[component.Loadout](),
		Agents:            ecs.NewStore[component.Agent](),
		Controllers:       ecs.NewStore[component.Controller](),
		Players:           ecs.NewStore[component.Player](),
		Admins:            ecs.NewStore[component.Admin](),
		Waypoints:         ecs.NewStore[component.Waypoint](),
		Subscriptions:     ecs.NewStore[component.RegionSubscription](),
		Clients:           ecs.NewStore[net.Client](),
		GeneralStreams:    ecs.NewStore[net.GeneralStream](),
		PingStreams:       ecs.NewStore[net.PingStream](),
		RegisterStreams:   ecs.NewStore[net.RegisterStream](),
		CharScreenStreams: ecs.NewStore[net.CharacterScreenStream](),
		InGameStreams:     ecs.NewStore[net.InGameStream](),
		bySession:         make(map[uint64]ecs.EntityID, 64),
	}

	reg := w.ecs.Registry()
	reg.Register(w.Pos)
	reg.Register(w.MountStates)
	reg.Register(w.Ridings)
	reg.Register(w.LightEmitters)
	reg.Register(w.Loadouts)
	reg.Register(w.Agents)
	reg.Register(w.Controllers)
	reg.Register(w.Players)
	reg.Register(w.Admins)
	reg.Register(w.Waypoints)
	reg.Register(w.Subscriptions)
	reg.Register(w.Clients)
	reg.Register(w.GeneralStreams)
	reg.Register(w.PingStreams)
	reg.Register(w.RegisterStreams)
	reg.Register(w.CharScreenStreams)
	reg.Register(w.InGameStreams)

	return w
}

// CreateEntity allocates a handle and its stable UID.
func (w *World) CreateEntity() (ecs.EntityID, ecs.UID) {
	return w.ecs.CreateEntity()
}

// Alive checks both the handle generation and the UID index membership.
func (w *World) Alive(id ecs.EntityID) bool {
	return w.ecs.Alive(id)
}

// UIDFor resolves a live handle to its stable UID.
func (w *World) UIDFor(id ecs.EntityID) (ecs.UID, bool) {
	return w.ecs.UIDFor(id)
}

// EntityFromUID resolves a stable UID to a handle; fails if the entity is gone.
func (w *World) EntityFromUID(uid ecs.UID) (ecs.EntityID, bool) {
	return w.ecs.EntityFromUID(uid)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id ecs.EntityID) {
	w.ecs.MarkForDestruction(id)
}

// FlushDestroyQueue destroys queued entities, clearing every component store
// and retiring UIDs. Called by CleanupSystem.
func (w *World) FlushDestroyQueue() {
	w.ecs.FlushDestroyQueue()
}

// BindSession records which entity a session currently controls.
// Re-bound by the possession transfer when control moves.
func (w *World) BindSession(sessionID uint64, id ecs.EntityID) {
	w.bySession[sessionID] = id
}

// UnbindSession forgets a session's controlling entity.
func (w *World) UnbindSession(sessionID uint64) {
	delete(w.bySession, sessionID)
}

// EntityBySession returns the entity a session controls, if any.
func (w *World) EntityBySession(sessionID uint64) (ecs.EntityID, bool) {
	id, ok := w.bySession[sessionID]
	return id, ok
}
