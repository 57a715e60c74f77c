package ecs

// UID is a stable, network-visible entity identifier. Unlike EntityID it
// survives handle churn: once allocated it is never reused, so a UID stored
// in another entity's component or carried in a packet stays meaningful
// even after the underlying entity is destroyed and its slot recycled.
type UID uint64

// UIDIndex maintains the two-way mapping between stable UIDs and transient
// entity handles. entity→uid always succeeds while the entity is registered;
// uid→entity fails once the entity is gone (or never existed).
type UIDIndex struct {
	next     UID
	byUID    map[UID]EntityID
	byEntity map[EntityID]UID
}

func NewUIDIndex() *UIDIndex {
	return &UIDIndex{
		next:     1, // 0 is reserved as "no entity"
		byUID:    make(map[UID]EntityID, 256),
		byEntity: make(map[EntityID]UID, 256),
	}
}

// Allocate assigns a fresh UID to the entity and returns it.
func (x *UIDIndex) Allocate(id EntityID) UID {
	uid := x.next
	x.next++
	x.byUID[uid] = id
	x.byEntity[id] = uid
	return uid
}

// UIDFor resolves an entity handle to its stable UID.
func (x *UIDIndex) UIDFor(id EntityID) (UID, bool) {
	uid, ok := x.byEntity[id]
	return uid, ok
}

// EntityFor resolves a stable UID back to a transient handle. The caller
// must still liveness-check the handle: the index entry can be stale
// relative to destruction happening elsewhere in the same tick.
func (x *UIDIndex) EntityFor(uid UID) (EntityID, bool) {
	id, ok := x.byUID[uid]
	return id, ok
}

// Unregister drops both directions of the mapping. The UID is retired, never
// reallocated.
func (x *UIDIndex) Unregister(id EntityID) {
	uid, ok := x.byEntity[id]
	if !ok {
		return
	}
	delete(x.byEntity, id)
	delete(x.byUID, uid)
}
