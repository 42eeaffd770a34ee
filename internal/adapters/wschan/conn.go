// Package wschan is the websocket client transport shared by the
// signaling and assistant channels: a dialed connection with a buffered
// send queue, write/read pumps and fire-and-forget semantics.
package wschan

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

type Options struct {
	// Module names the owning adapter in log fields.
	Module       string
	SendBuffer   int
	WriteTimeout time.Duration
}

func (o *Options) withDefaults() {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 32
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
}

// Conn wraps one websocket connection. Sends never block the caller: a
// full queue surfaces ErrBackpressure and the frame is dropped.
type Conn struct {
	ws   *websocket.Conn
	send chan []byte
	log  zerolog.Logger

	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// Dial connects and starts both pumps. Every inbound frame is handed to
// onFrame from the read pump, one at a time, preserving arrival order.
func Dial(ctx context.Context, url string, opts Options, onFrame func(data []byte)) (*Conn, error) {
	opts.withDefaults()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		ws:           ws,
		send:         make(chan []byte, opts.SendBuffer),
		log:          log.With().Str("module", opts.Module).Logger(),
		writeTimeout: opts.WriteTimeout,
	}
	c.log.Info().Str("url", url).Msg("channel connected")

	go c.writePump(ctx)
	go c.readPump(ctx, onFrame)
	return c, nil
}

func (c *Conn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

// SendJSON marshals v and queues it.
func (c *Conn) SendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.TrySend(b)
}

// Close is idempotent and safe from any goroutine.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.ws.Close()
	c.mu.Unlock()
	c.log.Info().Msg("channel closed")
}

func (c *Conn) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				c.log.Error().Err(err).Msg("writePump set deadline")
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Error().Err(err).Msg("writePump write error")
				return
			}
		}
	}
}

func (c *Conn) readPump(ctx context.Context, onFrame func(data []byte)) {
	defer func() {
		c.log.Info().Msg("readPump closing")
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("readPump ctx done")
			return
		default:
			_, data, err := c.ws.ReadMessage()
			if err != nil {
				c.log.Error().Err(err).Msg("readPump read error")
				return
			}
			onFrame(data)
		}
	}
}
