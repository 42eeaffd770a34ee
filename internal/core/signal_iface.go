package core

import (
	"time"

	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

// OutboundMessage is the send_message payload on the signaling channel.
type OutboundMessage struct {
	RoomID  domain.RoomID
	Sender  string
	Message string
	Time    time.Time
}

// PresenceEvent is an explicit join/leave transition for a remote peer.
// Departure is reported as an event, never inferred from map absence.
type PresenceEvent struct {
	PeerID   domain.PeerID
	Username string
	Joined   bool
}

// SignalChannel abstracts the room-scoped event transport carrying chat
// and presence. Emissions are fire-and-forget; delivery failure is only
// visible as the returned error, which callers may ignore.
// Owned by the adapter; the adapter must Close() it.
type SignalChannel interface {
	JoinRoom(room domain.RoomID, username string) error
	SendMessage(OutboundMessage) error
	// OnMessage registers an inbound chat handler and returns its remover.
	// Exactly one register/remove pair per session, or handlers accumulate
	// across remounts and duplicate deliveries.
	OnMessage(func(domain.ChatMessage)) (off func())
	OnPresence(func(PresenceEvent)) (off func())
	Close()
}
