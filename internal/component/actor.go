package component

// Agent drives non-networked actors. It must be absent from any entity that
// owns a session client: an entity is either AI-driven or player-driven,
// never both.
type Agent struct {
	PatrolOrigin Pos
}

// Controller holds pending and continuous input state for a controlled
// entity.
type Controller struct {
	MoveX, MoveY float32
	Jump         bool
	Primary      bool
	Secondary    bool
}

// Reset discards all in-flight input, returning the controller to neutral.
// Called when an entity stops being session-controlled.
func (c *Controller) Reset() {
	*c = Controller{}
}
