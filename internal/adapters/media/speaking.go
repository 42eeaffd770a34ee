package media

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/pion/rtp"
	"github.com/rs/zerolog/log"

	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

// audioLoop derives the per-remote speaking signal from packet activity:
// audio flowing within the quiet window means talking, a read deadline
// expiring means silence.
func (p *Provider) audioLoop(ctx context.Context, id domain.PeerID, t *remoteTrack) {
	logger := log.With().Str("module", "media").Str("peer", string(id)).Logger()
	talking := false

	for {
		select {
		case <-ctx.Done():
			if talking {
				p.emitSpeaking(id, false)
			}
			return
		default:
		}

		if err := t.rtp.SetReadDeadline(time.Now().Add(p.quiet)); err != nil {
			logger.Error().Err(err).Msg("audio loop set deadline")
			p.trackDone(id, t)
			return
		}
		pkt, _, err := t.rtp.ReadRTP()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if talking {
					talking = false
					p.emitSpeaking(id, false)
				}
				continue
			}
			logger.Info().Err(err).Msg("audio track ended")
			if talking {
				p.emitSpeaking(id, false)
			}
			p.trackDone(id, t)
			return
		}
		if hasAudio(pkt) && !talking {
			talking = true
			p.emitSpeaking(id, true)
		}
	}
}

// drainLoop keeps a non-audio track's receive buffer empty and detects
// track end.
func (p *Provider) drainLoop(ctx context.Context, id domain.PeerID, t *remoteTrack) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, _, err := t.rtp.ReadRTP(); err != nil {
			log.Info().Err(err).Str("module", "media").Str("peer", string(id)).Msg("video track ended")
			p.trackDone(id, t)
			return
		}
	}
}

func hasAudio(pkt *rtp.Packet) bool {
	return pkt != nil && len(pkt.Payload) > 0
}

func (p *Provider) emitSpeaking(id domain.PeerID, talking bool) {
	p.mu.RLock()
	cb := p.onSpeaking
	p.mu.RUnlock()
	if cb != nil {
		cb(id, talking)
	}
}
