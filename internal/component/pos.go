package component

// Pos is an entity's 3D world position.
type Pos struct {
	X, Y, Z float32
}

// DistSquared returns the squared Euclidean distance between two positions.
func DistSquared(a, b Pos) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx + dy*dy + dz*dz
}
