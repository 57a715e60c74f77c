package handler

import (
	"context"

	"github.com/veilmere/server/internal/component"
	"github.com/veilmere/server/internal/core/event"
	"github.com/veilmere/server/internal/data"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"go.uber.org/zap"
)

// defaultLanternKey is equipped on every fresh player entity so the lantern
// toggle has something to light.
const defaultLanternKey = "common.items.lantern.black_0"

func (d *Deps) handleEnterWorld(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	charID := int64(r.ReadD())

	ch, err := d.Characters.Get(context.Background(), sess.AccountID, charID)
	if err != nil {
		message(sess, "character unavailable")
		d.Log.Warn("enter world rejected",
			zap.Uint64("session", sess.ID),
			zap.Int64("character", charID),
			zap.Error(err),
		)
		return
	}

	id, uid := d.World.CreateEntity()

	pos := component.Pos{}
	if ch.Waypoint != nil {
		pos = component.Pos{X: ch.Waypoint[0], Y: ch.Waypoint[1], Z: ch.Waypoint[2]}
		d.World.Waypoints.Set(id, &component.Waypoint{Pos: pos})
	}
	d.World.Pos.Set(id, &pos)
	d.World.Players.Set(id, &component.Player{Alias: ch.Alias, ViewDistance: 10})
	d.World.Controllers.Set(id, &component.Controller{})
	d.World.Subscriptions.Set(id, &component.RegionSubscription{
		Regions: make(map[component.RegionKey]struct{}),
	})
	if sess.IsAdmin {
		d.World.Admins.Set(id, &component.Admin{})
	}

	lo := &component.Loadout{}
	if ch.Tool != "" {
		if item, ok := d.Items.Get(ch.Tool); ok && item.Kind == data.ItemKindTool {
			lo.Active = component.NewItemConfig(item)
		}
	}
	if lantern, ok := d.Items.Get(defaultLanternKey); ok {
		lo.Lantern = lantern
	}
	d.World.Loadouts.Set(id, lo)

	client, general, ping, register, charScreen, inGame := net.OpenStreams(sess)
	d.World.Clients.Set(id, client)
	d.World.GeneralStreams.Set(id, general)
	d.World.PingStreams.Set(id, ping)
	d.World.RegisterStreams.Set(id, register)
	d.World.CharScreenStreams.Set(id, charScreen)
	d.World.InGameStreams.Set(id, inGame)
	d.World.BindSession(sess.ID, id)
	sess.SetState(packet.StateInWorld)

	w := packet.NewWriterWithOpcode(packet.S_OPCODE_ENTER_WORLD_OK)
	w.WriteQ(uint64(uid))
	w.WriteS(ch.Alias)
	reply(sess, net.ChannelGeneral, w)

	event.Emit(d.Bus, event.PlayerJoined{EntityID: id, UID: uid, Alias: ch.Alias})
	d.Log.Info("player entered world",
		zap.Uint64("session", sess.ID),
		zap.String("alias", ch.Alias),
		zap.Uint64("uid", uint64(uid)),
	)
}
