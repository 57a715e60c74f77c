package handler

import (
	"fmt"
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
	"github.com/veilmere/server/internal/net/packet"
	"github.com/veilmere/server/internal/scripting"
	"github.com/veilmere/server/internal/system"
	"github.com/veilmere/server/internal/world"
	"go.uber.org/zap"
)

const handlerItemsYAML = `
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
`

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte(handlerItemsYAML), 0o644))
	items, err := data.LoadItemTable(path)
	require.NoError(t, err)

	w := world.NewWorld()
	bus := event.NewBus()
	scripts := scripting.New(zap.NewNop())
	t.Cleanup(scripts.Close)

	return &Deps{
		World:    w,
		Interact: system.NewInteraction(w, items, bus, zap.NewNop()),
		Items:    items,
		Scripts:  scripts,
		Bus:      bus,
		Log:      zap.NewNop(),
	}
}

// enterAs puts a fresh player entity in the world, fully session-bound and
// in the InWorld protocol state.
func enterAs(t *testing.T, d *Deps, sessID uint64, admin bool) (*net.Session, ecs.EntityID, ecs.UID) {
	t.Helper()
	conn, _ := stdnet.Pipe()
	sess := net.NewSession(conn, sessID, 8, 8, time.Second, zap.NewNop())
	sess.SetState(packet.StateInWorld)

	id, uid := d.World.CreateEntity()
	d.World.Pos.Set(id, &component.Pos{})
	d.World.Controllers.Set(id, &component.Controller{})
	if admin {
		d.World.Admins.Set(id, &component.Admin{})
	}

	client, general, ping, register, charScreen, inGame := net.OpenStreams(sess)
	d.World.Clients.Set(id, client)
	d.World.GeneralStreams.Set(id, general)
	d.World.PingStreams.Set(id, ping)
	d.World.RegisterStreams.Set(id, register)
	d.World.CharScreenStreams.Set(id, charScreen)
	d.World.InGameStreams.Set(id, inGame)
	d.World.BindSession(sessID, id)
	return sess, id, uid
}

func TestHandleMountAndUnmount(t *testing.T) {
	d := newTestDeps(t)
	sess, rider, _ := enterAs(t, d, 1, false)

	mount, mountUID := d.World.CreateEntity()
	d.World.Pos.Set(mount, &component.Pos{X: 3})
	ms := component.Unmounted()
	d.World.MountStates.Set(mount, &ms)

	w := packet.NewWriterWithOpcode(packet.C_OPCODE_MOUNT)
	w.WriteQ(uint64(mountUID))
	d.handleMount(sess, packet.NewReader(w.Bytes()))

	require.True(t, d.World.Ridings.Has(rider))

	d.handleUnmount(sess, packet.NewReader([]byte{packet.C_OPCODE_UNMOUNT}))
	require.False(t, d.World.Ridings.Has(rider))
}

func TestHandleLantern(t *testing.T) {
	d := newTestDeps(t)
	sess, id, _ := enterAs(t, d, 1, false)
	lantern, _ := d.Items.Get("common.items.lantern.black_0")
	d.World.Loadouts.Set(id, &component.Loadout{Lantern: lantern})

	w := packet.NewWriterWithOpcode(packet.C_OPCODE_LANTERN)
	w.WriteC(1)
	d.handleLantern(sess, packet.NewReader(w.Bytes()))
	require.True(t, d.World.LightEmitters.Has(id))

	w = packet.NewWriterWithOpcode(packet.C_OPCODE_LANTERN)
	w.WriteC(0)
	d.handleLantern(sess, packet.NewReader(w.Bytes()))
	require.False(t, d.World.LightEmitters.Has(id))
}

func gmPacket(command string) *packet.Reader {
	w := packet.NewWriterWithOpcode(packet.C_OPCODE_GM_COMMAND)
	w.WriteS(command)
	return packet.NewReader(w.Bytes())
}

func TestGMPossessRequiresAdmin(t *testing.T) {
	d := newTestDeps(t)
	sess, _, _ := enterAs(t, d, 1, false)

	npc, npcUID := d.World.CreateEntity()
	d.World.Pos.Set(npc, &component.Pos{})
	d.World.Agents.Set(npc, &component.Agent{})

	d.handleGMCommand(sess, gmPacket("possess "+uidString(npcUID)))
	require.False(t, d.World.Clients.Has(npc))
}

func TestGMPossessCommand(t *testing.T) {
	d := newTestDeps(t)
	sess, issuer, _ := enterAs(t, d, 1, true)

	npc, npcUID := d.World.CreateEntity()
	d.World.Pos.Set(npc, &component.Pos{})
	d.World.Agents.Set(npc, &component.Agent{})

	d.handleGMCommand(sess, gmPacket("possess "+uidString(npcUID)))

	require.True(t, d.World.Clients.Has(npc))
	require.False(t, d.World.Clients.Has(issuer))
	require.False(t, d.World.Agents.Has(npc))
	bound, _ := d.World.EntityBySession(sess.ID)
	require.Equal(t, npc, bound)
}

func uidString(uid ecs.UID) string {
	return fmt.Sprintf("%d", uint64(uid))
}
