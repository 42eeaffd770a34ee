package media

import (
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"

	"github.com/iaas-dront/frontend-meet2/internal/core"
)

// trackState carries the enabled/stopped flags shared by local and remote
// track handles. Stop is idempotent.
type trackState struct {
	kind string

	mu      sync.Mutex
	enabled bool
	stopped bool
	onStop  func()
}

func (t *trackState) Kind() string { return t.kind }

func (t *trackState) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && !t.stopped
}

func (t *trackState) SetEnabled(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = v
}

func (t *trackState) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	onStop := t.onStop
	t.mu.Unlock()
	if onStop != nil {
		onStop()
	}
}

// localTrack wraps a static RTP track fed by the capture pipeline. A
// disabled or stopped track silently drops writes; capture keeps running.
type localTrack struct {
	trackState
	rtp *webrtc.TrackLocalStaticRTP
}

func newLocalTrack(kind string, t *webrtc.TrackLocalStaticRTP) *localTrack {
	return &localTrack{
		trackState: trackState{kind: kind, enabled: true},
		rtp:        t,
	}
}

func (t *localTrack) WriteRTP(pkt *rtp.Packet) error {
	if !t.Enabled() {
		return nil
	}
	return t.rtp.WriteRTP(pkt)
}

// remoteTrack is a read-only handle on a peer's track. Enabled gates local
// rendering only; Stop detaches nothing upstream.
type remoteTrack struct {
	trackState
	rtp *webrtc.TrackRemote
}

func newRemoteTrack(kind string, t *webrtc.TrackRemote) *remoteTrack {
	return &remoteTrack{
		trackState: trackState{kind: kind, enabled: true},
		rtp:        t,
	}
}

// Stream groups tracks under one opaque handle.
type Stream struct {
	id string

	mu     sync.RWMutex
	tracks []core.MediaTrack
}

var _ core.MediaStream = (*Stream)(nil)

func newStream(id string) *Stream {
	return &Stream{id: id}
}

func (s *Stream) ID() string { return s.id }

func (s *Stream) Tracks() []core.MediaTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MediaTrack, len(s.tracks))
	copy(out, s.tracks)
	return out
}

func (s *Stream) AudioTracks() []core.MediaTrack { return s.kindTracks(core.TrackKindAudio) }
func (s *Stream) VideoTracks() []core.MediaTrack { return s.kindTracks(core.TrackKindVideo) }

func (s *Stream) kindTracks(kind string) []core.MediaTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MediaTrack, 0, len(s.tracks))
	for _, t := range s.tracks {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

func (s *Stream) add(t core.MediaTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = append(s.tracks, t)
}

func (s *Stream) remove(t core.MediaTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.tracks {
		if cur == t {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			return
		}
	}
}

func (s *Stream) empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks) == 0
}
