package session

import (
	"maps"

	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

// ViewBinding assigns stream handles to rendering targets: one main target
// and a grid of per-peer targets plus the local self-view. Exactly one
// stream is bound to the main target: the focused peer's remote stream when
// focused, otherwise the local one.
type ViewBinding struct {
	Main core.MediaStream
	Self core.MediaStream
	// SelfVisible gates rendering of the self-view, not its binding: the
	// local stream stays bound while the camera is off.
	SelfVisible bool
	Grid        map[domain.PeerID]core.MediaStream
	// Hidden marks grid tiles filtered out while another peer is focused.
	Hidden map[domain.PeerID]bool
}

// viewLocked recomputes the binding deterministically from current state.
// Callers hold e.mu.
func (e *Engine) viewLocked() ViewBinding {
	local := e.media.LocalVideo()
	vb := ViewBinding{
		Main:        local,
		Self:        local,
		SelfVisible: local != nil && e.controls.CameraOn,
		Grid:        maps.Clone(e.remote),
	}
	if e.focused == "" {
		return vb
	}
	// Focus with an absent stream never survives an event; the fallback to
	// the local stream here only covers the window before it is cleared.
	if s, ok := e.remote[e.focused]; ok {
		vb.Main = s
	}
	vb.Hidden = make(map[domain.PeerID]bool, len(vb.Grid))
	for id := range vb.Grid {
		if id != e.focused {
			vb.Hidden[id] = true
		}
	}
	return vb
}
