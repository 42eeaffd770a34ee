// Package assistant is the session-scoped channel to the meeting
// summarization service.
package assistant

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/iaas-dront/frontend-meet2/internal/adapters/wschan"
	"github.com/iaas-dront/frontend-meet2/internal/core"
)

// Client implements core.AssistantChannel over a websocket connection.
type Client struct {
	conn *wschan.Conn

	mu        sync.RWMutex
	nextID    int
	onSummary map[int]func(string)
}

var _ core.AssistantChannel = (*Client)(nil)

func Dial(ctx context.Context, url string, opts wschan.Options) (*Client, error) {
	if opts.Module == "" {
		opts.Module = "assistant"
	}
	c := &Client{onSummary: make(map[int]func(string))}
	conn, err := wschan.Dial(ctx, url, opts, c.handleFrame)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

type joinFrame struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type chatFrame struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type endMeetingFrame struct {
	Type string `json:"type"`
}

type summaryFrame struct {
	Summary string `json:"summary"`
}

func (c *Client) Join(username, email string) error {
	return c.conn.SendJSON(joinFrame{Type: "ai:join", Username: username, Email: email})
}

// ForwardChat sends the raw username/message pair, without the roomId or
// timestamp envelope the signaling channel carries.
func (c *Client) ForwardChat(username, message string) error {
	return c.conn.SendJSON(chatFrame{Type: "ai:chat", Username: username, Message: message})
}

func (c *Client) EndMeeting() error {
	return c.conn.SendJSON(endMeetingFrame{Type: "ai:end-meeting"})
}

// OnSummary registers a summary handler and returns its remover. Summaries
// may fire zero or more times, with no correlation to a specific
// end-meeting request.
func (c *Client) OnSummary(fn func(string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.onSummary[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.onSummary, id)
	}
}

func (c *Client) Close() {
	c.conn.Close()
}

func (c *Client) handleFrame(data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "assistant").Msg("bad json")
		return
	}

	switch env.Type {
	case "ai:summary":
		var p summaryFrame
		if err := json.Unmarshal(data, &p); err != nil {
			log.Error().Err(err).Str("module", "assistant").Msg("bad summary payload")
			return
		}
		c.mu.RLock()
		handlers := make([]func(string), 0, len(c.onSummary))
		for _, fn := range c.onSummary {
			handlers = append(handlers, fn)
		}
		c.mu.RUnlock()
		for _, fn := range handlers {
			fn(p.Summary)
		}
	default:
		log.Warn().Str("module", "assistant").Str("type", env.Type).Msg("unknown assistant event")
	}
}
