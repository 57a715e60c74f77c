package component

// LightEmitter makes an entity emit light. A lantern counts as lit when the
// emitter is present with Strength > 0. Created and removed only by the
// lantern equip sync.
type LightEmitter struct {
	Col      [3]uint8
	Strength float32
	Flicker  float32
	Animated bool
}
