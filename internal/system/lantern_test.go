package system

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veilmere/server/internal/component"
)

func TestLanternToggle(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	id, _ := spawnAt(w, 0, 0, 0)
	lantern := it.items.MustGet("common.items.lantern.black_0")
	w.Loadouts.Set(id, &component.Loadout{Lantern: lantern})

	it.SetLantern(id, true)

	le, ok := w.LightEmitters.Get(id)
	require.True(t, ok)
	require.Equal(t, lantern.Color, le.Col)
	require.Equal(t, lantern.Strength, le.Strength)
	require.Equal(t, float32(0.35), le.Flicker)
	require.True(t, le.Animated)

	// Enabling twice changes nothing.
	it.SetLantern(id, true)
	again, _ := w.LightEmitters.Get(id)
	require.Same(t, le, again)

	it.SetLantern(id, false)
	require.False(t, w.LightEmitters.Has(id))

	// Disabling twice changes nothing.
	it.SetLantern(id, false)
	require.False(t, w.LightEmitters.Has(id))
}

func TestLanternRequiresEquippedLantern(t *testing.T) {
	w, it, _ := newTestInteraction(t)

	// No loadout at all.
	bare, _ := spawnAt(w, 0, 0, 0)
	it.SetLantern(bare, true)
	require.False(t, w.LightEmitters.Has(bare))

	// Loadout with an empty lantern slot.
	empty, _ := spawnAt(w, 1, 0, 0)
	w.Loadouts.Set(empty, &component.Loadout{})
	it.SetLantern(empty, true)
	require.False(t, w.LightEmitters.Has(empty))

	// Wrong item kind in the slot.
	wrong, _ := spawnAt(w, 2, 0, 0)
	w.Loadouts.Set(wrong, &component.Loadout{Lantern: it.items.MustGet("common.items.misc.stone")})
	it.SetLantern(wrong, true)
	require.False(t, w.LightEmitters.Has(wrong))
}

func TestLanternZeroStrengthEmitterCountsAsUnlit(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	id, _ := spawnAt(w, 0, 0, 0)
	lantern := it.items.MustGet("common.items.lantern.black_0")
	w.Loadouts.Set(id, &component.Loadout{Lantern: lantern})

	w.LightEmitters.Set(id, &component.LightEmitter{Strength: 0})

	it.SetLantern(id, true)
	le, _ := w.LightEmitters.Get(id)
	require.Equal(t, lantern.Strength, le.Strength, "dark emitter replaced by the lit one")

	// A dark emitter is already off: disable leaves it in place.
	w.LightEmitters.Set(id, &component.LightEmitter{Strength: 0})
	it.SetLantern(id, false)
	require.True(t, w.LightEmitters.Has(id))
}
