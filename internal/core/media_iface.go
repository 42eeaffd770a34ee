package core

import "github.com/iaas-dront/frontend-meet2/internal/domain"

const (
	TrackKindAudio = "audio"
	TrackKindVideo = "video"
)

// MediaTrack is a single capture or remote track. Stop is idempotent:
// stopping an already-stopped track is a no-op, never an error.
type MediaTrack interface {
	Kind() string
	Enabled() bool
	SetEnabled(bool)
	Stop()
}

// MediaStream is an opaque stream handle grouping tracks. The session
// only reads track references and toggles enabled flags; it must never
// stop tracks it does not own outside its own teardown.
type MediaStream interface {
	ID() string
	Tracks() []MediaTrack
	AudioTracks() []MediaTrack
	VideoTracks() []MediaTrack
}

// MediaProvider owns the device lifecycle and the remote stream set.
// Callbacks are setter-style: one callback per event kind, installed
// before the provider starts delivering.
type MediaProvider interface {
	// LocalAudio returns the locally captured audio stream, or nil when
	// no capture device is available.
	LocalAudio() MediaStream
	LocalVideo() MediaStream

	// OnStream fires when a remote peer's stream becomes live.
	OnStream(func(id domain.PeerID, s MediaStream))
	// OnStreamEnded fires when a remote stream goes away; the entry must
	// be dropped, never left stale.
	OnStreamEnded(func(id domain.PeerID))
	// OnSpeaking reports the per-remote speaking-activity signal.
	OnSpeaking(func(id domain.PeerID, talking bool))

	// Close releases peer connections and capture devices. Idempotent.
	Close()
}
