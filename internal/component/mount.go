package component

import "github.com/veilmere/server/internal/core/ecs"

// MountKind tags the MountState variant.
type MountKind uint8

const (
	MountUnmounted MountKind = iota
	MountMountedBy
)

// MountState is attached to a rideable entity. Rider is meaningful only when
// Kind is MountMountedBy; at most one rider at a time. Both MountState and
// Riding are written only by the mount relation manager, always in pairs.
type MountState struct {
	Kind  MountKind
	Rider ecs.UID
}

func Unmounted() MountState {
	return MountState{Kind: MountUnmounted}
}

func MountedBy(rider ecs.UID) MountState {
	return MountState{Kind: MountMountedBy, Rider: rider}
}

// Riding is attached to the rider and holds the mount's stable id. Its
// presence implies the referenced mount's MountState points back at this
// rider's UID.
type Riding struct {
	Mount ecs.UID
}
