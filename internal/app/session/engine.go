// Package session reconciles the signaling, media and assistant event
// streams into one consistent room view and mediates user intents
// against it.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

var ErrNoRoom = errors.New("no room bound")

// Deps are the external collaborators a session runs against.
type Deps struct {
	Signal    core.SignalChannel
	Assistant core.AssistantChannel
	Media     core.MediaProvider
	Nav       core.Navigator
}

// Engine is the session state machine: Idle -> Joining -> Active -> Ended.
// One instance per mounted room view. All mutations happen under one lock,
// driven by inbound channel events, media callbacks and user intents.
type Engine struct {
	room domain.RoomID
	self domain.User

	signal    core.SignalChannel
	assistant core.AssistantChannel
	media     core.MediaProvider
	nav       core.Navigator

	now func() time.Time

	mu           sync.RWMutex
	started      bool
	ended        bool
	torn         bool
	participants []*domain.Participant
	byPeer       map[domain.PeerID]*domain.Participant
	messages     []domain.ChatMessage
	remote       map[domain.PeerID]core.MediaStream
	focused      domain.PeerID
	controls     domain.ControlState
	summary      string
	unsubs       []func()
}

func New(room domain.RoomID, self domain.User, d Deps) *Engine {
	return &Engine{
		room:      room,
		self:      self,
		signal:    d.Signal,
		assistant: d.Assistant,
		media:     d.Media,
		nav:       d.Nav,
		now:       time.Now,
		byPeer:    make(map[domain.PeerID]*domain.Participant),
		remote:    make(map[domain.PeerID]core.MediaStream),
	}
}

// Start emits the join notifications and subscribes to both channels.
// There is no joined acknowledgment: the engine accepts events as soon as
// the handlers are installed. Starting twice is a no-op so a remount never
// leaves two live handlers behind.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.started || e.torn {
		e.mu.Unlock()
		return nil
	}
	if e.room == "" {
		e.mu.Unlock()
		return ErrNoRoom
	}
	e.started = true
	e.mu.Unlock()

	if err := e.signal.JoinRoom(e.room, e.self.Username); err != nil {
		log.Warn().Err(err).Str("module", "session").Str("room", string(e.room)).Msg("join_room not delivered")
	}
	if err := e.assistant.Join(e.self.Username, e.self.Email); err != nil {
		log.Warn().Err(err).Str("module", "session").Msg("ai:join not delivered")
	}

	offMsg := e.signal.OnMessage(e.onMessage)
	offPresence := e.signal.OnPresence(e.onPresence)
	offSummary := e.assistant.OnSummary(e.onSummary)
	e.media.OnStream(e.onStream)
	e.media.OnStreamEnded(e.onStreamEnded)
	e.media.OnSpeaking(e.onSpeaking)

	e.mu.Lock()
	e.unsubs = append(e.unsubs, offMsg, offPresence, offSummary)
	e.mu.Unlock()

	log.Info().Str("module", "session").Str("room", string(e.room)).Str("user", e.self.Username).Msg("joined room")
	return nil
}

// SendMessage emits one chat event on the signaling channel and forwards
// the raw pair to the assistant. It never appends to the local log; only
// the inbound echo does. Fire-and-forget: delivery failure degrades chat,
// not the session.
func (e *Engine) SendMessage(text string) {
	if strings.TrimSpace(text) == "" || e.room == "" {
		return
	}
	e.mu.RLock()
	torn := e.torn
	e.mu.RUnlock()
	if torn {
		return
	}

	out := core.OutboundMessage{
		RoomID:  e.room,
		Sender:  e.self.Username,
		Message: text,
		Time:    e.now(),
	}
	if err := e.signal.SendMessage(out); err != nil {
		log.Warn().Err(err).Str("module", "session").Msg("send_message not delivered")
	}
	if err := e.assistant.ForwardChat(e.self.Username, text); err != nil {
		log.Warn().Err(err).Str("module", "session").Msg("ai:chat not delivered")
	}
}

// End is the explicit end-call intent. Order matters: the assistant is
// notified before media teardown so the summary sees the full transcript,
// media stops strictly before navigation.
func (e *Engine) End() {
	e.mu.Lock()
	if e.ended || e.torn {
		e.mu.Unlock()
		return
	}
	e.ended = true
	e.mu.Unlock()

	if err := e.assistant.EndMeeting(); err != nil {
		log.Warn().Err(err).Str("module", "session").Msg("ai:end-meeting not delivered")
	}
	e.teardown()
	if e.nav != nil {
		e.nav.Leave()
	}
}

// Close is the unmount safety net: the same unsubscribe and track-stop
// sequence as End, without the assistant notice or navigation. Failing to
// run it leaks device handles and stale socket listeners.
func (e *Engine) Close() {
	e.teardown()
}

func (e *Engine) teardown() {
	e.mu.Lock()
	if e.torn {
		e.mu.Unlock()
		return
	}
	e.torn = true
	unsubs := e.unsubs
	e.unsubs = nil
	e.controls = domain.ControlState{}
	e.focused = ""
	e.mu.Unlock()

	stopTracks(e.media.LocalVideo())
	stopTracks(e.media.LocalAudio())
	e.media.Close()
	for _, off := range unsubs {
		off()
	}
	log.Info().Str("module", "session").Str("room", string(e.room)).Msg("session torn down")
}

func stopTracks(s core.MediaStream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}

func (e *Engine) onMessage(m domain.ChatMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	// Arrival order, verbatim, no dedup, no cap.
	e.messages = append(e.messages, m)
}

func (e *Engine) onPresence(ev core.PresenceEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	if ev.Joined {
		if p, ok := e.byPeer[ev.PeerID]; ok {
			p.Username = ev.Username
			return
		}
		p := domain.NewParticipant(ev.PeerID, ev.Username)
		e.byPeer[ev.PeerID] = p
		e.participants = append(e.participants, p)
		return
	}

	if _, ok := e.byPeer[ev.PeerID]; !ok {
		return
	}
	delete(e.byPeer, ev.PeerID)
	for i, p := range e.participants {
		if p.PeerID == ev.PeerID {
			e.participants = append(e.participants[:i], e.participants[i+1:]...)
			break
		}
	}
	if e.focused == ev.PeerID {
		e.focused = ""
	}
}

func (e *Engine) onSummary(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	e.summary = text
}

// DismissSummary clears a displayed summary. Display-only state, not part
// of session correctness.
func (e *Engine) DismissSummary() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.summary = ""
}

func (e *Engine) onStream(id domain.PeerID, s core.MediaStream) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	e.remote[id] = s
	// A stream may land before the presence event for its peer; the later
	// presence event fills in the username.
	if _, ok := e.byPeer[id]; !ok {
		p := domain.NewParticipant(id, string(id))
		e.byPeer[id] = p
		e.participants = append(e.participants, p)
	}
}

func (e *Engine) onStreamEnded(id domain.PeerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	delete(e.remote, id)
	if e.focused == id {
		e.focused = ""
	}
}

func (e *Engine) onSpeaking(id domain.PeerID, talking bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	if p, ok := e.byPeer[id]; ok {
		p.Talking = talking
	}
}
