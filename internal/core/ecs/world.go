package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the stable UID index, and a deferred destruction queue flushed by
// CleanupSystem at the end of each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	uids         *UIDIndex
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		uids:         NewUIDIndex(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// CreateEntity allocates a handle and a stable UID for it.
func (w *World) CreateEntity() (EntityID, UID) {
	id := w.pool.Create()
	return id, w.uids.Allocate(id)
}

// Alive reports whether the handle refers to a live, registered entity.
// Both the generation and the index membership are checked; a handle can
// be stale in either dimension independently.
func (w *World) Alive(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	_, ok := w.uids.UIDFor(id)
	return ok
}

// UIDFor resolves a live entity handle to its stable UID.
func (w *World) UIDFor(id EntityID) (UID, bool) {
	return w.uids.UIDFor(id)
}

// EntityFromUID resolves a stable UID to a transient handle, failing when the
// entity no longer exists.
func (w *World) EntityFromUID(uid UID) (EntityID, bool) {
	id, ok := w.uids.EntityFor(uid)
	if !ok || !w.pool.Alive(id) {
		return 0, false
	}
	return id, true
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities, clearing their components
// and retiring their UIDs. Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.uids.Unregister(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}
