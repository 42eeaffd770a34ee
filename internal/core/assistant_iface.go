package core

// AssistantChannel is the session-scoped transport to the summarization
// service. It receives the raw username/message pair without the roomId
// envelope. The summary carries no correlation id, so at most one meeting
// may be pending summary per client.
// Owned by the adapter; the adapter must Close() it.
type AssistantChannel interface {
	Join(username, email string) error
	ForwardChat(username, message string) error
	// EndMeeting asks for a summary; it never blocks waiting for one.
	EndMeeting() error
	OnSummary(func(summary string)) (off func())
	Close()
}
