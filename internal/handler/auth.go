package handler

import (
	"context"
	"errors"

	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"github.com/veilmere/server/internal/persist"
	"go.uber.org/zap"
)

// Login result codes.
const (
	loginOK          byte = 0
	loginBadAuth     byte = 1
	loginServerError byte = 2
)

func (d *Deps) handleVersion(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	clientVersion := r.ReadH()

	w := packet.NewWriterWithOpcode(packet.S_OPCODE_VERSION_RESULT)
	if clientVersion != packet.ProtocolVersion {
		w.WriteC(1)
		w.WriteH(packet.ProtocolVersion)
		reply(sess, net.ChannelGeneral, w)
		d.Log.Info("protocol mismatch",
			zap.Uint64("session", sess.ID),
			zap.Uint16("client", clientVersion),
			zap.Uint16("server", packet.ProtocolVersion),
		)
		sess.FlushOutput()
		sess.Close()
		return
	}

	w.WriteC(0)
	w.WriteH(packet.ProtocolVersion)
	reply(sess, net.ChannelGeneral, w)
	sess.SetState(packet.StateVersionOK)
}

func (d *Deps) handleLogin(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	name := r.ReadS()
	password := r.ReadS()

	w := packet.NewWriterWithOpcode(packet.S_OPCODE_LOGIN_RESULT)

	acc, err := d.Accounts.Authenticate(context.Background(), name, password)
	switch {
	case errors.Is(err, persist.ErrBadCredentials):
		w.WriteC(loginBadAuth)
		reply(sess, net.ChannelRegister, w)
		d.Log.Info("login rejected",
			zap.Uint64("session", sess.ID), zap.String("account", name))
		return
	case err != nil:
		w.WriteC(loginServerError)
		reply(sess, net.ChannelRegister, w)
		d.Log.Error("login failed",
			zap.Uint64("session", sess.ID), zap.String("account", name), zap.Error(err))
		return
	}

	sess.AccountName = acc.Name
	sess.AccountID = acc.ID
	sess.IsAdmin = acc.Admin
	sess.SetState(packet.StateAuthenticated)

	w.WriteC(loginOK)
	w.WriteS(acc.Name)
	reply(sess, net.ChannelRegister, w)
	d.Log.Info("login ok",
		zap.Uint64("session", sess.ID), zap.String("account", acc.Name))
}
