// Package media owns the local capture tracks and the remote stream set:
// the provisioning side of the session. The session only reads stream
// references and toggles enabled flags; this package is the single owner
// of device and peer-connection lifecycle.
package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

const defaultQuietWindow = 600 * time.Millisecond

type Config struct {
	StunServers []string
	// QuietWindow is how long a remote may stay silent before its
	// speaking signal drops.
	QuietWindow time.Duration
}

func webrtcConfig(stun []string) webrtc.Configuration {
	if len(stun) == 0 {
		stun = []string{"stun:stun.l.google.com:19302"}
	}
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: stun}},
	}
}

// Provider implements core.MediaProvider on a pion peer connection.
type Provider struct {
	pc     *webrtc.PeerConnection
	ctx    context.Context
	cancel context.CancelFunc
	quiet  time.Duration

	localAudio *Stream
	localVideo *Stream
	audioOut   *localTrack
	videoOut   *localTrack

	mu            sync.RWMutex
	closed        bool
	remotes       map[domain.PeerID]*Stream
	onStream      func(domain.PeerID, core.MediaStream)
	onStreamEnded func(domain.PeerID)
	onSpeaking    func(domain.PeerID, bool)
}

var _ core.MediaProvider = (*Provider)(nil)

func New(ctx context.Context, cfg Config) (*Provider, error) {
	pc, err := webrtc.NewPeerConnection(webrtcConfig(cfg.StunServers))
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}

	quiet := cfg.QuietWindow
	if quiet <= 0 {
		quiet = defaultQuietWindow
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Provider{
		pc:      pc,
		ctx:     ctx,
		cancel:  cancel,
		quiet:   quiet,
		remotes: make(map[domain.PeerID]*Stream),
	}

	if err := p.setupLocal(); err != nil {
		cancel()
		_ = pc.Close()
		return nil, err
	}

	pc.OnTrack(func(tr *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		p.handleTrack(tr)
	})
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "media").Str("peer_connection_state", s.String()).Msg("peer state")
		if s == webrtc.PeerConnectionStateFailed || s == webrtc.PeerConnectionStateClosed {
			p.dropAll()
		}
	})

	return p, nil
}

func (p *Provider) setupLocal() error {
	streamID := "local-" + uuid.NewString()

	audio, err := webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2},
		"audio-out", streamID,
	)
	if err != nil {
		return fmt.Errorf("local audio track: %w", err)
	}
	video, err := webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000},
		"video-out", streamID,
	)
	if err != nil {
		return fmt.Errorf("local video track: %w", err)
	}
	if _, err := p.pc.AddTrack(audio); err != nil {
		return fmt.Errorf("add audio track: %w", err)
	}
	if _, err := p.pc.AddTrack(video); err != nil {
		return fmt.Errorf("add video track: %w", err)
	}

	p.audioOut = newLocalTrack(core.TrackKindAudio, audio)
	p.videoOut = newLocalTrack(core.TrackKindVideo, video)

	p.localAudio = newStream(streamID + "-audio")
	p.localAudio.add(p.audioOut)
	p.localVideo = newStream(streamID + "-video")
	p.localVideo.add(p.videoOut)
	return nil
}

func (p *Provider) LocalAudio() core.MediaStream {
	if p.localAudio == nil {
		return nil
	}
	return p.localAudio
}

func (p *Provider) LocalVideo() core.MediaStream {
	if p.localVideo == nil {
		return nil
	}
	return p.localVideo
}

// WriteLocalAudio feeds one captured audio packet. Disabled tracks drop
// writes silently.
func (p *Provider) WriteLocalAudio(pkt *rtp.Packet) error {
	return p.audioOut.WriteRTP(pkt)
}

func (p *Provider) WriteLocalVideo(pkt *rtp.Packet) error {
	return p.videoOut.WriteRTP(pkt)
}

func (p *Provider) OnStream(fn func(domain.PeerID, core.MediaStream)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onStream = fn
}

func (p *Provider) OnStreamEnded(fn func(domain.PeerID)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onStreamEnded = fn
}

func (p *Provider) OnSpeaking(fn func(domain.PeerID, bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSpeaking = fn
}

// handleTrack maps a remote track into its peer's stream handle. The
// remote stream id identifies the peer.
func (p *Provider) handleTrack(tr *webrtc.TrackRemote) {
	id := domain.PeerID(tr.StreamID())
	kind := core.TrackKindVideo
	if tr.Kind() == webrtc.RTPCodecTypeAudio {
		kind = core.TrackKindAudio
	}
	log.Info().
		Str("module", "media").
		Str("peer", string(id)).
		Str("kind", kind).
		Str("track_id", tr.ID()).
		Msg("remote track received")

	t := newRemoteTrack(kind, tr)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	s, known := p.remotes[id]
	if !known {
		s = newStream(tr.StreamID())
		p.remotes[id] = s
	}
	s.add(t)
	onStream := p.onStream
	p.mu.Unlock()

	if !known && onStream != nil {
		onStream(id, s)
	}

	if kind == core.TrackKindAudio {
		go p.audioLoop(p.ctx, id, t)
	} else {
		go p.drainLoop(p.ctx, id, t)
	}
}

// trackDone removes a dead track; when the last track of a peer's stream
// is gone the stream entry is dropped, never left stale.
func (p *Provider) trackDone(id domain.PeerID, t *remoteTrack) {
	p.mu.Lock()
	s, ok := p.remotes[id]
	var ended bool
	if ok {
		s.remove(t)
		if s.empty() {
			delete(p.remotes, id)
			ended = true
		}
	}
	cb := p.onStreamEnded
	p.mu.Unlock()

	if ended && cb != nil {
		cb(id)
	}
}

func (p *Provider) dropAll() {
	p.mu.Lock()
	ids := make([]domain.PeerID, 0, len(p.remotes))
	for id := range p.remotes {
		ids = append(ids, id)
	}
	p.remotes = make(map[domain.PeerID]*Stream)
	cb := p.onStreamEnded
	p.mu.Unlock()

	for _, id := range ids {
		if cb != nil {
			cb(id)
		}
	}
}

// Close releases the peer connection and capture tracks. Idempotent; the
// session's teardown is its only authorized caller.
func (p *Provider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.audioOut.Stop()
	p.videoOut.Stop()
	p.cancel()
	if err := p.pc.Close(); err != nil {
		log.Error().Err(err).Str("module", "media").Msg("peer connection close")
	} else {
		log.Info().Str("module", "media").Msg("media released")
	}
}
