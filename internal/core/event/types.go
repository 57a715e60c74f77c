package event

import "github.com/veilmere/server/internal/core/ecs"

// PlayerJoined fires after a player entity enters the world.
type PlayerJoined struct {
	EntityID ecs.EntityID
	UID      ecs.UID
	Alias    string
}

// PlayerLeft fires after a player entity is removed from the world.
type PlayerLeft struct {
	EntityID  ecs.EntityID
	SessionID uint64
}

// ControlTransferred fires after a possession completes, carrying the stable
// ids of the vacated shell and the newly controlled entity.
type ControlTransferred struct {
	From ecs.UID
	To   ecs.UID
}
