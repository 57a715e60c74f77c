package handler

import (
	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/data"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"github.com/veilmere/server/internal/persist"
	"github.com/veilmere/server/internal/scripting"
	"github.com/veilmere/server/internal/system"
	"github.com/veilmere/server/internal/world"
	"go.uber.org/zap"
)

// Deps bundles everything packet handlers need. Handlers run on the game
// loop goroutine; database calls inside them block the tick, which is
// acceptable at character screen volume.
type Deps struct {
	World      *world.World
	Interact   *system.Interaction
	Items      *data.ItemTable
	Accounts   *persist.AccountRepo
	Characters *persist.CharacterRepo
	Scripts    *scripting.Engine
	Bus        *event.Bus
	Log        *zap.Logger
}

// RegisterAll wires every client opcode into the registry with its allowed
// session states.
func (d *Deps) RegisterAll(reg *packet.Registry) {
	reg.Register(packet.C_OPCODE_VERSION,
		[]packet.SessionState{packet.StateHandshake}, d.handleVersion)
	reg.Register(packet.C_OPCODE_LOGIN,
		[]packet.SessionState{packet.StateVersionOK}, d.handleLogin)

	charScreen := []packet.SessionState{packet.StateAuthenticated}
	reg.Register(packet.C_OPCODE_CHAR_LIST, charScreen, d.handleCharList)
	reg.Register(packet.C_OPCODE_CREATE_CHAR, charScreen, d.handleCreateChar)
	reg.Register(packet.C_OPCODE_DELETE_CHAR, charScreen, d.handleDeleteChar)
	reg.Register(packet.C_OPCODE_ENTER_WORLD, charScreen, d.handleEnterWorld)

	inWorld := []packet.SessionState{packet.StateInWorld}
	reg.Register(packet.C_OPCODE_MOUNT, inWorld, d.handleMount)
	reg.Register(packet.C_OPCODE_UNMOUNT, inWorld, d.handleUnmount)
	reg.Register(packet.C_OPCODE_LANTERN, inWorld, d.handleLantern)
	reg.Register(packet.C_OPCODE_GM_COMMAND, inWorld, d.handleGMCommand)

	anyActive := []packet.SessionState{
		packet.StateHandshake, packet.StateVersionOK,
		packet.StateAuthenticated, packet.StateInWorld,
	}
	reg.Register(packet.C_OPCODE_ALIVE, anyActive, func(any, *packet.Reader) {})
	reg.Register(packet.C_OPCODE_QUIT, anyActive, d.handleQuit)
}

// reply queues a packet on one of the session's channels. Used before the
// session owns an entity with stream components.
func reply(sess *net.Session, ch net.ChannelID, w *packet.Writer) {
	buf := make([]byte, 0, w.Len()+1)
	buf = append(buf, byte(ch))
	buf = append(buf, w.Bytes()...)
	sess.Send(buf)
}

// message sends a plain text line on the in-game channel.
func message(sess *net.Session, text string) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_MESSAGE)
	w.WriteS(text)
	reply(sess, net.ChannelInGame, w)
}

func (d *Deps) handleQuit(s any, _ *packet.Reader) {
	sess := s.(*net.Session)
	d.Log.Info("client quit", zap.Uint64("session", sess.ID))
	sess.Close()
}
