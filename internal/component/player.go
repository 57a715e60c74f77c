package component

// Player marks an entity as belonging to a connected account.
type Player struct {
	Alias        string
	ViewDistance uint32
}

// Admin marks an entity with elevated command access.
type Admin struct{}

// Waypoint is the entity's saved respawn location.
type Waypoint struct {
	Pos Pos
}

// RegionKey addresses one world region cell.
type RegionKey struct {
	X, Y int32
}

// RegionSubscription tracks which world regions an entity receives updates
// for.
type RegionSubscription struct {
	Regions map[RegionKey]struct{}
}
