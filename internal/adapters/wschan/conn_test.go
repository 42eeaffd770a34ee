package wschan

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_TrySendBackpressure(t *testing.T) {
	c := &Conn{send: make(chan []byte, 1), log: zerolog.Nop()}

	require.NoError(t, c.TrySend([]byte("a")))
	assert.ErrorIs(t, c.TrySend([]byte("b")), ErrBackpressure)
}

func TestConn_TrySendAfterClose(t *testing.T) {
	c := &Conn{send: make(chan []byte, 1), log: zerolog.Nop()}
	c.closed = true

	assert.ErrorIs(t, c.TrySend([]byte("a")), ErrClosed)
}

func TestConn_SendJSONMarshals(t *testing.T) {
	c := &Conn{send: make(chan []byte, 1), log: zerolog.Nop()}

	require.NoError(t, c.SendJSON(map[string]string{"type": "ping"}))
	assert.JSONEq(t, `{"type":"ping"}`, string(<-c.send))
}

func TestOptions_Defaults(t *testing.T) {
	var o Options
	o.withDefaults()

	assert.Equal(t, 32, o.SendBuffer)
	assert.Equal(t, 5*time.Second, o.WriteTimeout)
}
