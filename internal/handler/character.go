package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/veilmere/server/internal/net"
	"github.com/veilmere/server/internal/net/packet"
	"github.com/veilmere/server/internal/persist"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Character create result codes.
const (
	charCreateOK      byte = 0
	charCreateBadName byte = 1
	charCreateFull    byte = 2
	charCreateTaken   byte = 3
	charCreateDBError byte = 4
)

const (
	aliasMinRunes = 2
	aliasMaxRunes = 20
)

// normalizeAlias canonicalizes a requested character name. Names arrive as
// arbitrary UTF-8; NFC normalization keeps the uniqueness check from being
// fooled by combining-character variants of the same visible name.
func normalizeAlias(raw string) (string, error) {
	alias := norm.NFC.String(strings.TrimSpace(raw))
	if !utf8.ValidString(alias) {
		return "", fmt.Errorf("alias is not valid UTF-8")
	}
	n := utf8.RuneCountInString(alias)
	if n < aliasMinRunes || n > aliasMaxRunes {
		return "", fmt.Errorf("alias must be %d to %d characters", aliasMinRunes, aliasMaxRunes)
	}
	for _, r := range alias {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return "", fmt.Errorf("alias contains forbidden character %q", r)
		}
	}
	return alias, nil
}

func (d *Deps) sendCharacterList(sess *net.Session) {
	chars, err := d.Characters.List(context.Background(), sess.AccountID)
	if err != nil {
		d.Log.Error("character list failed",
			zap.Uint64("session", sess.ID),
			zap.String("account", sess.AccountName),
			zap.Error(err),
		)
		message(sess, "character list unavailable")
		return
	}

	w := packet.NewWriterWithOpcode(packet.S_OPCODE_CHAR_LIST)
	w.WriteC(byte(len(chars)))
	w.WriteC(persist.MaxCharactersPerPlayer)
	for _, ch := range chars {
		w.WriteD(int32(ch.ID))
		w.WriteS(ch.Alias)
		w.WriteS(ch.Tool)
		w.WriteC(byte(ch.Body.Race))
		w.WriteC(byte(ch.Body.BodyType))
		w.WriteC(byte(ch.Body.HairStyle))
		w.WriteC(byte(ch.Body.Beard))
		w.WriteC(byte(ch.Body.Eyebrows))
		w.WriteC(byte(ch.Body.Accessory))
		w.WriteC(byte(ch.Body.HairColor))
		w.WriteC(byte(ch.Body.Skin))
		w.WriteC(byte(ch.Body.EyeColor))
		w.WriteD(ch.Stats.Level)
		w.WriteD(ch.Stats.Exp)
	}
	reply(sess, net.ChannelCharacterScreen, w)
}

func (d *Deps) handleCharList(s any, _ *packet.Reader) {
	d.sendCharacterList(s.(*net.Session))
}

func (d *Deps) handleCreateChar(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	rawAlias := r.ReadS()
	tool := r.ReadS()
	body := persist.Body{
		Race:      int16(r.ReadC()),
		BodyType:  int16(r.ReadC()),
		HairStyle: int16(r.ReadC()),
		Beard:     int16(r.ReadC()),
		Eyebrows:  int16(r.ReadC()),
		Accessory: int16(r.ReadC()),
		HairColor: int16(r.ReadC()),
		Skin:      int16(r.ReadC()),
		EyeColor:  int16(r.ReadC()),
	}

	w := packet.NewWriterWithOpcode(packet.S_OPCODE_CHAR_CREATE_RESULT)

	alias, err := normalizeAlias(rawAlias)
	if err != nil {
		w.WriteC(charCreateBadName)
		reply(sess, net.ChannelCharacterScreen, w)
		return
	}
	if tool != "" {
		if _, ok := d.Items.Get(tool); !ok {
			w.WriteC(charCreateBadName)
			reply(sess, net.ChannelCharacterScreen, w)
			return
		}
	}

	ch, err := d.Characters.Create(context.Background(), sess.AccountID, alias, tool, body)
	switch {
	case errors.Is(err, persist.ErrCharacterLimit):
		w.WriteC(charCreateFull)
		reply(sess, net.ChannelCharacterScreen, w)
		return
	case err != nil:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation

			w.WriteC(charCreateTaken)
		} else {
			w.WriteC(charCreateDBError)
			d.Log.Error("character create failed",
				zap.String("account", sess.AccountName),
				zap.String("alias", alias),
				zap.Error(err),
			)
		}
		reply(sess, net.ChannelCharacterScreen, w)
		return
	}

	w.WriteC(charCreateOK)
	w.WriteD(int32(ch.ID))
	reply(sess, net.ChannelCharacterScreen, w)
	d.sendCharacterList(sess)
	d.Log.Info("character created",
		zap.String("account", sess.AccountName), zap.String("alias", alias))
}

func (d *Deps) handleDeleteChar(s any, r *packet.Reader) {
	sess := s.(*net.Session)
	charID := int64(r.ReadD())

	w := packet.NewWriterWithOpcode(packet.S_OPCODE_CHAR_DELETE_RESULT)
	err := d.Characters.Delete(context.Background(), sess.AccountID, charID)
	switch {
	case errors.Is(err, persist.ErrCharacterMissing):
		w.WriteC(1)
	case err != nil:
		w.WriteC(2)
		d.Log.Error("character delete failed",
			zap.String("account", sess.AccountName),
			zap.Int64("character", charID),
			zap.Error(err),
		)
	default:
		w.WriteC(0)
	}
	reply(sess, net.ChannelCharacterScreen, w)
	d.sendCharacterList(sess)
}
