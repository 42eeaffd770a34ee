package session

import (
	"slices"

	"github.com/samber/lo"

	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

// Snapshot is the presentation contract: everything a rendering surface
// needs, copied out so the surface never shares mutable engine state.
type Snapshot struct {
	Room         domain.RoomID
	Self         domain.User
	Participants []domain.Participant
	Messages     []domain.ChatMessage
	Controls     domain.ControlState
	Focused      domain.PeerID
	View         ViewBinding
	Summary      string
	Ended        bool
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Room: e.room,
		Self: e.self,
		Participants: lo.Map(e.participants, func(p *domain.Participant, _ int) domain.Participant {
			return *p
		}),
		Messages: slices.Clone(e.messages),
		Controls: e.controls,
		Focused:  e.focused,
		View:     e.viewLocked(),
		Summary:  e.summary,
		Ended:    e.torn,
	}
}
