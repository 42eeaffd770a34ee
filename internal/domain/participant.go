package domain

// Participant represents a remote member of the room as seen by the
// session. PeerID allocation happens upstream; the session only stores it.
type Participant struct {
	PeerID   PeerID `json:"peerId"`
	Username string `json:"username"`
	Talking  bool   `json:"talking"`
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
func NewParticipant(id PeerID, username string) *Participant {
	return &Participant{PeerID: id, Username: username}
}
