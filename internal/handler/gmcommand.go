package handler

import (
	"strconv"
	"strings"

	"github.com/veilmere/server/internal/core/ecs"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"go.uber.org/zap"
)

func (d *Deps) handleGMCommand(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	command := strings.TrimSpace(r.ReadS())

	issuer, ok := d.controlledEntity(sess)
	if !ok {
		return
	}
	if !d.World.Admins.Has(issuer) {
		message(sess, "you are not authorized to do that")
		d.Log.Warn("gm command refused",
			zap.Uint64("session", sess.ID),
			zap.String("account", sess.AccountName),
			zap.String("command", command),
		)
		return
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "possess":
		d.gmPossess(sess, issuer, fields[1:])
	default:
		handled, err := d.Scripts.RunGMCommand(sess.AccountName, command)
		if err != nil {
			message(sess, "command error: "+err.Error())
			d.Log.Error("gm script hook failed",
				zap.String("command", command), zap.Error(err))
			return
		}
		if !handled {
			message(sess, "unknown command: "+fields[0])
		}
	}
}

func (d *Deps) gmPossess(sess *net.Session, issuer ecs.EntityID, args []string) {
	if len(args) != 1 {
		message(sess, "usage: possess <uid>")
		return
	}
	targetUID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		message(sess, "usage: possess <uid>")
		return
	}

	issuerUID, ok := d.World.UIDFor(issuer)
	if !ok {
		return
	}
	if err := d.Interact.Possess(issuerUID, ecs.UID(targetUID)); err != nil {
		message(sess, "possess failed: "+err.Error())
		d.Log.Warn("possess failed",
			zap.Uint64("from", uint64(issuerUID)),
			zap.Uint64("to", targetUID),
			zap.Error(err),
		)
	}
}
