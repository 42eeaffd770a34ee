package signalchat

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

type joinRoomFrame struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type sendMessageFrame struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Time    int64  `json:"time"`
}

type receiveMessageFrame struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Time    int64  `json:"time,omitempty"`
}

type presenceFrame struct {
	PeerID   string `json:"peerId"`
	Username string `json:"username,omitempty"`
}

func (c *Client) handleFrame(data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signalchat").Msg("bad json")
		return
	}

	switch env.Type {
	case "receive_message":
		c.handleReceiveMessage(data)
	case "member_joined":
		c.handlePresence(data, true)
	case "member_left":
		c.handlePresence(data, false)
	default:
		log.Warn().Str("module", "signalchat").Str("type", env.Type).Msg("unknown signal")
	}
}

func (c *Client) handleReceiveMessage(data []byte) {
	var p receiveMessageFrame
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signalchat").Msg("bad receive_message payload")
		return
	}
	m := domain.ChatMessage{Sender: p.Sender, Message: p.Message}
	if p.Time != 0 {
		m.Time = time.UnixMilli(p.Time)
	}
	for _, fn := range c.messageHandlers() {
		fn(m)
	}
}

func (c *Client) handlePresence(data []byte, joined bool) {
	var p presenceFrame
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signalchat").Msg("bad presence payload")
		return
	}
	ev := core.PresenceEvent{
		PeerID:   domain.PeerID(p.PeerID),
		Username: p.Username,
		Joined:   joined,
	}
	for _, fn := range c.presenceHandlers() {
		fn(ev)
	}
}

func (c *Client) messageHandlers() []func(domain.ChatMessage) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]func(domain.ChatMessage), 0, len(c.onMsg))
	for _, fn := range c.onMsg {
		out = append(out, fn)
	}
	return out
}

func (c *Client) presenceHandlers() []func(core.PresenceEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]func(core.PresenceEvent), 0, len(c.onPres))
	for _, fn := range c.onPres {
		out = append(out, fn)
	}
	return out
}
