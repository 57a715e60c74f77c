package net

import "errors"

// ErrSessionClosed is returned when sending on a stream whose underlying
// session has already shut down.
var ErrSessionClosed = errors.New("session closed")

// ChannelID tags which logical message channel a server packet belongs to.
// All channels multiplex over the session's single TCP connection; the
// channel byte is the first byte of every outbound frame.
type ChannelID uint8

const (
	ChannelGeneral ChannelID = iota
	ChannelPing
	ChannelRegister
	ChannelCharacterScreen
	ChannelInGame
)

// Client is the session-handle component. Its presence on an entity marks it
// as player-controlled and network-attached; at most one live entity owns it
// per connected client.
type Client struct {
	Sess *Session
}

// Stream is one typed outbound channel bound to a session. Sends are
// fire-and-forget: a failure is reported to the caller once and never
// retried here.
type Stream struct {
	sess *Session
	ch   ChannelID
}

// Send queues a packet on this channel. The channel byte is prepended; the
// frame goes out at the next output flush.
func (st *Stream) Send(pkt []byte) error {
	if st.sess == nil || st.sess.IsClosed() {
		return ErrSessionClosed
	}
	buf := make([]byte, 0, len(pkt)+1)
	buf = append(buf, byte(st.ch))
	buf = append(buf, pkt...)
	st.sess.Send(buf)
	return nil
}

// Session returns the underlying session.
func (st *Stream) Session() *Session {
	return st.sess
}

// The five channel components. Exactly one of each accompanies a Client and
// they always move together with it.

type GeneralStream struct{ Stream }

type PingStream struct{ Stream }

type RegisterStream struct{ Stream }

type CharacterScreenStream struct{ Stream }

type InGameStream struct{ Stream }

// OpenStreams builds the client component and its five channel components
// for a freshly connected session.
func OpenStreams(s *Session) (*Client, *GeneralStream, *PingStream, *RegisterStream, *CharacterScreenStream, *InGameStream) {
	return &Client{Sess: s},
		&GeneralStream{Stream{sess: s, ch: ChannelGeneral}},
		&PingStream{Stream{sess: s, ch: ChannelPing}},
		&RegisterStream{Stream{sess: s, ch: ChannelRegister}},
		&CharacterScreenStream{Stream{sess: s, ch: ChannelCharacterScreen}},
		&InGameStream{Stream{sess: s, ch: ChannelInGame}}
}
