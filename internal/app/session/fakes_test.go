package session_test

import (
	"sync"

	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

// journal records labelled events so tests can assert relative ordering
// across collaborators.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(ev string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.events))
	copy(out, j.events)
	return out
}

func (j *journal) indexOf(ev string) int {
	for i, e := range j.list() {
		if e == ev {
			return i
		}
	}
	return -1
}

type fakeTrack struct {
	j       *journal
	kind    string
	enabled bool
	stops   int
}

func (t *fakeTrack) Kind() string      { return t.kind }
func (t *fakeTrack) Enabled() bool     { return t.enabled }
func (t *fakeTrack) SetEnabled(v bool) { t.enabled = v }
func (t *fakeTrack) Stop() {
	t.stops++
	if t.j != nil {
		t.j.add("stop:" + t.kind)
	}
}

type fakeStream struct {
	id     string
	tracks []core.MediaTrack
}

func (s *fakeStream) ID() string                { return s.id }
func (s *fakeStream) Tracks() []core.MediaTrack { return s.tracks }
func (s *fakeStream) AudioTracks() []core.MediaTrack {
	return s.kindTracks(core.TrackKindAudio)
}
func (s *fakeStream) VideoTracks() []core.MediaTrack {
	return s.kindTracks(core.TrackKindVideo)
}
func (s *fakeStream) kindTracks(kind string) []core.MediaTrack {
	out := []core.MediaTrack{}
	for _, t := range s.tracks {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

type fakeMedia struct {
	j      *journal
	audio  core.MediaStream
	video  core.MediaStream
	closed int

	onStream      func(domain.PeerID, core.MediaStream)
	onStreamEnded func(domain.PeerID)
	onSpeaking    func(domain.PeerID, bool)
}

func (m *fakeMedia) LocalAudio() core.MediaStream { return m.audio }
func (m *fakeMedia) LocalVideo() core.MediaStream { return m.video }
func (m *fakeMedia) OnStream(fn func(domain.PeerID, core.MediaStream)) {
	m.onStream = fn
}
func (m *fakeMedia) OnStreamEnded(fn func(domain.PeerID)) { m.onStreamEnded = fn }
func (m *fakeMedia) OnSpeaking(fn func(domain.PeerID, bool)) {
	m.onSpeaking = fn
}
func (m *fakeMedia) Close() {
	m.closed++
	if m.j != nil {
		m.j.add("media.close")
	}
}

func (m *fakeMedia) emitStream(id domain.PeerID, s core.MediaStream) {
	if m.onStream != nil {
		m.onStream(id, s)
	}
}

func (m *fakeMedia) emitStreamEnded(id domain.PeerID) {
	if m.onStreamEnded != nil {
		m.onStreamEnded(id)
	}
}

func (m *fakeMedia) emitSpeaking(id domain.PeerID, talking bool) {
	if m.onSpeaking != nil {
		m.onSpeaking(id, talking)
	}
}

type joinRecord struct {
	room     domain.RoomID
	username string
}

type fakeSignal struct {
	j      *journal
	joins  []joinRecord
	sent   []core.OutboundMessage
	nextID int
	onMsg  map[int]func(domain.ChatMessage)
	onPres map[int]func(core.PresenceEvent)
	closed int
}

func newFakeSignal(j *journal) *fakeSignal {
	return &fakeSignal{
		j:      j,
		onMsg:  make(map[int]func(domain.ChatMessage)),
		onPres: make(map[int]func(core.PresenceEvent)),
	}
}

func (s *fakeSignal) JoinRoom(room domain.RoomID, username string) error {
	s.joins = append(s.joins, joinRecord{room: room, username: username})
	return nil
}

func (s *fakeSignal) SendMessage(m core.OutboundMessage) error {
	s.sent = append(s.sent, m)
	return nil
}

func (s *fakeSignal) OnMessage(fn func(domain.ChatMessage)) func() {
	id := s.nextID
	s.nextID++
	s.onMsg[id] = fn
	return func() {
		delete(s.onMsg, id)
		if s.j != nil {
			s.j.add("unsub:message")
		}
	}
}

func (s *fakeSignal) OnPresence(fn func(core.PresenceEvent)) func() {
	id := s.nextID
	s.nextID++
	s.onPres[id] = fn
	return func() {
		delete(s.onPres, id)
	}
}

func (s *fakeSignal) Close() { s.closed++ }

func (s *fakeSignal) deliver(m domain.ChatMessage) {
	for _, fn := range s.onMsg {
		fn(m)
	}
}

func (s *fakeSignal) deliverPresence(ev core.PresenceEvent) {
	for _, fn := range s.onPres {
		fn(ev)
	}
}

func (s *fakeSignal) liveMessageHandlers() int { return len(s.onMsg) }

type chatRecord struct {
	username string
	message  string
}

type aiJoinRecord struct {
	username string
	email    string
}

type fakeAssistant struct {
	j      *journal
	joins  []aiJoinRecord
	chats  []chatRecord
	ends   int
	nextID int
	onSum  map[int]func(string)
	closed int
}

func newFakeAssistant(j *journal) *fakeAssistant {
	return &fakeAssistant{j: j, onSum: make(map[int]func(string))}
}

func (a *fakeAssistant) Join(username, email string) error {
	a.joins = append(a.joins, aiJoinRecord{username: username, email: email})
	return nil
}

func (a *fakeAssistant) ForwardChat(username, message string) error {
	a.chats = append(a.chats, chatRecord{username: username, message: message})
	return nil
}

func (a *fakeAssistant) EndMeeting() error {
	a.ends++
	if a.j != nil {
		a.j.add("assistant.end")
	}
	return nil
}

func (a *fakeAssistant) OnSummary(fn func(string)) func() {
	id := a.nextID
	a.nextID++
	a.onSum[id] = fn
	return func() {
		delete(a.onSum, id)
	}
}

func (a *fakeAssistant) Close() { a.closed++ }

func (a *fakeAssistant) deliverSummary(text string) {
	for _, fn := range a.onSum {
		fn(text)
	}
}

type fakeNav struct {
	j     *journal
	calls int
}

func (n *fakeNav) Leave() {
	n.calls++
	if n.j != nil {
		n.j.add("nav.leave")
	}
}

var (
	acceptAll  = core.ConfirmerFunc(func(string) bool { return true })
	declineAll = core.ConfirmerFunc(func(string) bool { return false })
)
