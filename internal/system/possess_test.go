package system

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/net/packet"
	"github.com/veilmere/server/internal/world"
)

func hasSessionBundle(w *world.World, id ecs.EntityID) bool {
	return w.Clients.Has(id) &&
		w.GeneralStreams.Has(id) &&
		w.PingStreams.Has(id) &&
		w.RegisterStreams.Has(id) &&
		w.CharScreenStreams.Has(id) &&
		w.InGameStreams.Has(id)
}

func TestPossessMovesControl(t *testing.T) {
	w, it, bus := newTestInteraction(t)

	possessor, possessorUID := spawnAt(w, 0, 0, 0)
	sess := attachSession(t, w, possessor, 1)
	w.Players.Set(possessor, &component.Player{Alias: "gm"})
	w.Admins.Set(possessor, &component.Admin{})
	w.Controllers.Set(possessor, &component.Controller{Primary: true})
	w.Loadouts.Set(possessor, &component.Loadout{})

	target, targetUID := spawnAt(w, 5, 0, 0)
	w.Agents.Set(target, &component.Agent{})

	require.NoError(t, it.Possess(possessorUID, targetUID))

	// Session bundle moved wholesale.
	require.True(t, hasSessionBundle(w, target))
	require.False(t, hasSessionBundle(w, possessor))
	bound, ok := w.EntityBySession(sess.ID)
	require.True(t, ok)
	require.Equal(t, target, bound)

	// Optional components followed.
	pl, ok := w.Players.Get(target)
	require.True(t, ok)
	require.Equal(t, "gm", pl.Alias)
	require.True(t, w.Admins.Has(target))
	require.False(t, w.Players.Has(possessor))

	// The new body is client-driven and armed with the possession tool.
	require.False(t, w.Agents.Has(target))
	require.True(t, w.Controllers.Has(target))
	lo, ok := w.Loadouts.Get(target)
	require.True(t, ok)
	require.Equal(t, PossessToolKey, lo.Active.Item.Key)
	require.NotNil(t, lo.Active.Ability1)
	require.Nil(t, lo.Active.BlockAbility)

	// The vacated body's input went neutral.
	ctrl, ok := w.Controllers.Get(possessor)
	require.True(t, ok)
	require.False(t, ctrl.Primary)

	// Client learned its new entity on the general channel.
	sess.FlushOutput()
	frame := <-sess.OutQueue
	require.Equal(t, byte(0), frame[0]) // general channel
	r := packet.NewReader(frame[1:])
	require.Equal(t, packet.S_OPCODE_SET_PLAYER_ENTITY, r.Opcode())
	require.Equal(t, uint64(targetUID), r.ReadQ())

	// Transfer event lands next tick.
	var got []event.ControlTransferred
	event.Subscribe(bus, func(ev event.ControlTransferred) { got = append(got, ev) })
	bus.SwapBuffers()
	bus.DispatchAll()
	require.Len(t, got, 1)
	require.Equal(t, possessorUID, got[0].From)
	require.Equal(t, targetUID, got[0].To)
}

func TestPossessShiftsActiveItemToSecondSlot(t *testing.T) {
	w, it, _ := newTestInteraction(t)

	possessor, possessorUID := spawnAt(w, 0, 0, 0)
	attachSession(t, w, possessor, 1)

	target, targetUID := spawnAt(w, 1, 0, 0)
	stone := &component.ItemConfig{Item: it.items.MustGet("common.items.misc.stone")}
	w.Loadouts.Set(target, &component.Loadout{Active: stone})

	require.NoError(t, it.Possess(possessorUID, targetUID))

	lo, _ := w.Loadouts.Get(target)
	require.Equal(t, PossessToolKey, lo.Active.Item.Key)
	require.Same(t, stone, lo.Second)
}

func TestPossessRejectsControlledTarget(t *testing.T) {
	w, it, _ := newTestInteraction(t)

	possessor, possessorUID := spawnAt(w, 0, 0, 0)
	attachSession(t, w, possessor, 1)

	target, targetUID := spawnAt(w, 1, 0, 0)
	attachSession(t, w, target, 2)

	require.Error(t, it.Possess(possessorUID, targetUID))

	// Both parties keep their full bundles and bindings.
	require.True(t, hasSessionBundle(w, possessor))
	require.True(t, hasSessionBundle(w, target))
	bound, _ := w.EntityBySession(1)
	require.Equal(t, possessor, bound)
	bound, _ = w.EntityBySession(2)
	require.Equal(t, target, bound)
}

func TestPossessRollsBackOnPartialConflict(t *testing.T) {
	w, it, _ := newTestInteraction(t)

	possessor, possessorUID := spawnAt(w, 0, 0, 0)
	sess := attachSession(t, w, possessor, 1)

	// A target with a stray channel component but no client handle. The
	// commit fails midway and must restore the possessor exactly.
	target, targetUID := spawnAt(w, 1, 0, 0)
	strayOwner, _ := spawnAt(w, 2, 0, 0)
	attachSession(t, w, strayOwner, 2)
	stray, _ := w.PingStreams.Get(strayOwner)
	w.PingStreams.Remove(strayOwner)
	w.PingStreams.Set(target, stray)

	require.Error(t, it.Possess(possessorUID, targetUID))

	require.True(t, hasSessionBundle(w, possessor))
	require.False(t, w.Clients.Has(target))
	require.False(t, w.GeneralStreams.Has(target))
	require.True(t, w.PingStreams.Has(target), "pre-existing component untouched")
	bound, _ := w.EntityBySession(sess.ID)
	require.Equal(t, possessor, bound)
}

func TestPossessLivenessChecks(t *testing.T) {
	w, it, _ := newTestInteraction(t)

	possessor, possessorUID := spawnAt(w, 0, 0, 0)
	attachSession(t, w, possessor, 1)
	target, targetUID := spawnAt(w, 1, 0, 0)

	require.Error(t, it.Possess(possessorUID, possessorUID), "self possession")

	w.MarkForDestruction(target)
	w.FlushDestroyQueue()
	require.Error(t, it.Possess(possessorUID, targetUID), "dead target")

	ghost, ghostUID := spawnAt(w, 2, 0, 0)
	w.MarkForDestruction(ghost)
	w.FlushDestroyQueue()
	live, liveUID := spawnAt(w, 3, 0, 0)
	require.Error(t, it.Possess(ghostUID, liveUID), "dead possessor")
	require.False(t, hasSessionBundle(w, live))
}

func TestPossessRequiresSessionBundle(t *testing.T) {
	w, it, _ := newTestInteraction(t)

	// No client handle at all.
	_, possessorUID := spawnAt(w, 0, 0, 0)
	target, targetUID := spawnAt(w, 1, 0, 0)
	require.Error(t, it.Possess(possessorUID, targetUID))
	require.False(t, hasSessionBundle(w, target))

	// Client present but a channel missing: abort restores what was staged.
	broken, brokenUID := spawnAt(w, 2, 0, 0)
	attachSession(t, w, broken, 1)
	w.InGameStreams.Remove(broken)
	require.Error(t, it.Possess(brokenUID, targetUID))
	require.True(t, w.Clients.Has(broken))
	require.True(t, w.GeneralStreams.Has(broken))
	require.False(t, w.Clients.Has(target))
}
