package signalchat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

func newTestClient() *Client {
	return &Client{
		onMsg:  make(map[int]func(domain.ChatMessage)),
		onPres: make(map[int]func(core.PresenceEvent)),
	}
}

func TestHandleFrame_ReceiveMessage(t *testing.T) {
	c := newTestClient()
	var got []domain.ChatMessage
	c.OnMessage(func(m domain.ChatMessage) { got = append(got, m) })

	c.handleFrame([]byte(`{"type":"receive_message","sender":"bob","message":"hi","time":1700000000000}`))

	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].Sender)
	assert.Equal(t, "hi", got[0].Message)
	assert.Equal(t, time.UnixMilli(1700000000000), got[0].Time)
}

func TestHandleFrame_MessageWithoutTime(t *testing.T) {
	c := newTestClient()
	var got []domain.ChatMessage
	c.OnMessage(func(m domain.ChatMessage) { got = append(got, m) })

	c.handleFrame([]byte(`{"type":"receive_message","sender":"bob","message":"hi"}`))

	require.Len(t, got, 1)
	assert.True(t, got[0].Time.IsZero())
}

func TestHandleFrame_Presence(t *testing.T) {
	c := newTestClient()
	var got []core.PresenceEvent
	c.OnPresence(func(ev core.PresenceEvent) { got = append(got, ev) })

	c.handleFrame([]byte(`{"type":"member_joined","peerId":"p1","username":"bob"}`))
	c.handleFrame([]byte(`{"type":"member_left","peerId":"p1"}`))

	require.Len(t, got, 2)
	assert.Equal(t, core.PresenceEvent{PeerID: "p1", Username: "bob", Joined: true}, got[0])
	assert.Equal(t, core.PresenceEvent{PeerID: "p1", Joined: false}, got[1])
}

func TestHandleFrame_UnknownAndBadFramesAreIgnored(t *testing.T) {
	c := newTestClient()
	fired := 0
	c.OnMessage(func(domain.ChatMessage) { fired++ })

	c.handleFrame([]byte(`{"type":"whatever"}`))
	c.handleFrame([]byte(`not json`))

	assert.Zero(t, fired)
}

func TestOnMessage_UnsubscribeRemovesHandler(t *testing.T) {
	c := newTestClient()
	fired := 0
	off := c.OnMessage(func(domain.ChatMessage) { fired++ })

	c.handleFrame([]byte(`{"type":"receive_message","sender":"a","message":"m"}`))
	off()
	c.handleFrame([]byte(`{"type":"receive_message","sender":"a","message":"m"}`))

	assert.Equal(t, 1, fired)
}
