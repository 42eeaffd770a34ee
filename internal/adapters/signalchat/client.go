// Package signalchat is the room-scoped signaling channel client carrying
// chat messages and participant join/leave notifications.
package signalchat

import (
	"context"
	"sync"

	"github.com/iaas-dront/frontend-meet2/internal/adapters/wschan"
	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

// Client implements core.SignalChannel over a websocket connection.
type Client struct {
	conn *wschan.Conn

	mu     sync.RWMutex
	nextID int
	onMsg  map[int]func(domain.ChatMessage)
	onPres map[int]func(core.PresenceEvent)
}

var _ core.SignalChannel = (*Client)(nil)

func Dial(ctx context.Context, url string, opts wschan.Options) (*Client, error) {
	if opts.Module == "" {
		opts.Module = "signalchat"
	}
	c := &Client{
		onMsg:  make(map[int]func(domain.ChatMessage)),
		onPres: make(map[int]func(core.PresenceEvent)),
	}
	conn, err := wschan.Dial(ctx, url, opts, c.handleFrame)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *Client) JoinRoom(room domain.RoomID, username string) error {
	return c.conn.SendJSON(joinRoomFrame{
		Type:     "join_room",
		RoomID:   string(room),
		Username: username,
	})
}

func (c *Client) SendMessage(m core.OutboundMessage) error {
	return c.conn.SendJSON(sendMessageFrame{
		Type:    "send_message",
		RoomID:  string(m.RoomID),
		Sender:  m.Sender,
		Message: m.Message,
		Time:    m.Time.UnixMilli(),
	})
}

// OnMessage registers an inbound chat handler and returns its remover.
func (c *Client) OnMessage(fn func(domain.ChatMessage)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.onMsg[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.onMsg, id)
	}
}

func (c *Client) OnPresence(fn func(core.PresenceEvent)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.onPres[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.onPres, id)
	}
}

func (c *Client) Close() {
	c.conn.Close()
}
