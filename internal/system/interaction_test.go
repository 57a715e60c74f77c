package system

import (
	stdnet "net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/data"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/world"
	"go.uber.org/zap"
)

const testItemsYAML = `
- key: common.items.debug.possess
  name: Admin's Guise
  kind: tool
  tool_type: debug
  abilities:
    - name: possess_bolt
      power: 1
- key: common.items.lantern.black_0
  name: Black Lantern
  kind: lantern
  color: [255, 190, 90]
  strength: 24
- key: common.items.misc.stone
  name: Stone
`

func newTestItems(t *testing.T) *data.ItemTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testItemsYAML), 0o644))
	items, err := data.LoadItemTable(path)
	require.NoError(t, err)
	return items
}

func newTestInteraction(t *testing.T) (*world.World, *Interaction, *event.Bus) {
	t.Helper()
	w := world.NewWorld()
	bus := event.NewBus()
	return w, NewInteraction(w, newTestItems(t), bus, zap.NewNop()), bus
}

func spawnAt(w *world.World, x, y, z float32) (ecs.EntityID, ecs.UID) {
	id, uid := w.CreateEntity()
	w.Pos.Set(id, &component.Pos{X: x, Y: y, Z: z})
	return id, uid
}

func spawnMountAt(w *world.World, x, y, z float32) (ecs.EntityID, ecs.UID) {
	id, uid := spawnAt(w, x, y, z)
	ms := component.Unmounted()
	w.MountStates.Set(id, &ms)
	return id, uid
}

// attachSession wires a full session bundle onto an entity, the way the
// enter-world path does for a real connection.
func attachSession(t *testing.T, w *world.World, id ecs.EntityID, sessID uint64) *net.Session {
	t.Helper()
	conn, _ := stdnet.Pipe()
	sess := net.NewSession(conn, sessID, 8, 8, time.Second, zap.NewNop())
	client, general, ping, register, charScreen, inGame := net.OpenStreams(sess)
	w.Clients.Set(id, client)
	w.GeneralStreams.Set(id, general)
	w.PingStreams.Set(id, ping)
	w.RegisterStreams.Set(id, register)
	w.CharScreenStreams.Set(id, charScreen)
	w.InGameStreams.Set(id, inGame)
	w.BindSession(sessID, id)
	return sess
}

func TestMountPairsBothSides(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	rider, riderUID := spawnAt(w, 0, 0, 0)
	mount, mountUID := spawnMountAt(w, 13.9, 0, 0)

	it.Mount(rider, mount)

	ms, ok := w.MountStates.Get(mount)
	require.True(t, ok)
	require.Equal(t, component.MountMountedBy, ms.Kind)
	require.Equal(t, riderUID, ms.Rider)

	riding, ok := w.Ridings.Get(rider)
	require.True(t, ok)
	require.Equal(t, mountUID, riding.Mount)
}

func TestMountOutOfRangeIsNoOp(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	rider, _ := spawnAt(w, 0, 0, 0)

	// Exactly at range: the comparison is strict.
	atEdge, _ := spawnMountAt(w, MaxMountRange, 0, 0)
	it.Mount(rider, atEdge)
	require.False(t, w.Ridings.Has(rider))

	beyond, _ := spawnMountAt(w, MaxMountRange+0.1, 0, 0)
	it.Mount(rider, beyond)
	require.False(t, w.Ridings.Has(rider))
}

func TestMountMissingPositionFailsClosed(t *testing.T) {
	w, it, _ := newTestInteraction(t)

	rider, _ := w.CreateEntity() // no Pos
	mount, _ := spawnMountAt(w, 0, 0, 0)
	it.Mount(rider, mount)
	require.False(t, w.Ridings.Has(rider))

	rider2, _ := spawnAt(w, 0, 0, 0)
	bare, _ := w.CreateEntity() // rideable but positionless
	ms := component.Unmounted()
	w.MountStates.Set(bare, &ms)
	it.Mount(rider2, bare)
	require.False(t, w.Ridings.Has(rider2))
}

func TestMountRejectsBusyParties(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	rider, riderUID := spawnAt(w, 0, 0, 0)
	mount, _ := spawnMountAt(w, 1, 0, 0)
	it.Mount(rider, mount)

	// Occupied mount refuses a second rider.
	second, _ := spawnAt(w, 0, 1, 0)
	it.Mount(second, mount)
	require.False(t, w.Ridings.Has(second))
	ms, _ := w.MountStates.Get(mount)
	require.Equal(t, riderUID, ms.Rider)

	// A rider already riding cannot take another mount.
	other, _ := spawnMountAt(w, 0, 2, 0)
	it.Mount(rider, other)
	riding, _ := w.Ridings.Get(rider)
	require.NotEqual(t, riding.Mount, mustUID(t, w, other))
}

func TestMountNonRideableIsNoOp(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	rider, _ := spawnAt(w, 0, 0, 0)
	target, _ := spawnAt(w, 1, 0, 0) // no MountState

	it.Mount(rider, target)
	require.False(t, w.Ridings.Has(rider))
}

func TestUnmountClearsBothSides(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	rider, _ := spawnAt(w, 0, 0, 0)
	mount, _ := spawnMountAt(w, 1, 0, 0)
	it.Mount(rider, mount)

	it.Unmount(rider)

	require.False(t, w.Ridings.Has(rider))
	ms, _ := w.MountStates.Get(mount)
	require.Equal(t, component.MountUnmounted, ms.Kind)

	// Idempotent.
	it.Unmount(rider)
	require.False(t, w.Ridings.Has(rider))
}

func TestUnmountSurvivesDestroyedMount(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	rider, _ := spawnAt(w, 0, 0, 0)
	mount, _ := spawnMountAt(w, 1, 0, 0)
	it.Mount(rider, mount)

	w.MarkForDestruction(mount)
	w.FlushDestroyQueue()

	it.Unmount(rider)
	require.False(t, w.Ridings.Has(rider))
}

func TestMountFollowTracksAndDetaches(t *testing.T) {
	w, it, _ := newTestInteraction(t)
	rider, _ := spawnAt(w, 0, 0, 0)
	mount, _ := spawnMountAt(w, 1, 0, 0)
	it.Mount(rider, mount)

	follow := NewMountFollowSystem(w)

	mountPos, _ := w.Pos.Get(mount)
	*mountPos = component.Pos{X: 40, Y: -3, Z: 7}
	follow.Update(0)

	riderPos, _ := w.Pos.Get(rider)
	require.Equal(t, component.Pos{X: 40, Y: -3, Z: 7}, *riderPos)

	w.MarkForDestruction(mount)
	w.FlushDestroyQueue()
	follow.Update(0)
	require.False(t, w.Ridings.Has(rider), "rider detached once the mount is gone")
}

func mustUID(t *testing.T, w *world.World, id ecs.EntityID) ecs.UID {
	t.Helper()
	uid, ok := w.UIDFor(id)
	require.True(t, ok)
	return uid
}
