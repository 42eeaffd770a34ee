package domain

import "time"

// ChatMessage is an immutable chat log entry. The log is append-only and
// ordered by arrival on the signaling channel, not by sender clocks.
type ChatMessage struct {
	Sender  string    `json:"sender"`
	Message string    `json:"message"`
	Time    time.Time `json:"time,omitzero"`
}
