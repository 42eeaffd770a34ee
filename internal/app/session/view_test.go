package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

func TestView_SelfViewBoundRegardlessOfCamera(t *testing.T) {
	h := newHarness(t, "r1")
	h.start(t)

	// Camera off: the local stream stays bound, only visibility is gated.
	snap := h.eng.Snapshot()
	assert.Equal(t, h.media.video, snap.View.Self)
	assert.False(t, snap.View.SelfVisible)

	h.eng.ToggleCamera(acceptAll)
	snap = h.eng.Snapshot()
	assert.Equal(t, h.media.video, snap.View.Self)
	assert.True(t, snap.View.SelfVisible)
}

func TestView_NoLocalVideoBindsNothing(t *testing.T) {
	h := newHarness(t, "r1")
	h.media.video = nil
	h.start(t)

	snap := h.eng.Snapshot()
	assert.Nil(t, snap.View.Main)
	assert.Nil(t, snap.View.Self)
	assert.False(t, snap.View.SelfVisible)
}

func TestView_GridHoldsOneTargetPerLiveStream(t *testing.T) {
	h := newHarness(t, "r1")
	h.start(t)

	streamA := &fakeStream{id: "stream-a"}
	streamB := &fakeStream{id: "stream-b"}
	h.media.emitStream("A", streamA)
	h.media.emitStream("B", streamB)

	grid := h.eng.Snapshot().View.Grid
	require.Len(t, grid, 2)
	assert.Equal(t, streamA, grid[domain.PeerID("A")])
	assert.Equal(t, streamB, grid[domain.PeerID("B")])

	h.media.emitStreamEnded("B")
	grid = h.eng.Snapshot().View.Grid
	require.Len(t, grid, 1)
	assert.NotContains(t, grid, domain.PeerID("B"))
}

func TestView_FocusHidesOtherTiles(t *testing.T) {
	h := newHarness(t, "r1")
	h.start(t)

	h.media.emitStream("A", &fakeStream{id: "stream-a"})
	h.media.emitStream("B", &fakeStream{id: "stream-b"})

	// Without focus nothing is filtered.
	assert.Empty(t, h.eng.Snapshot().View.Hidden)

	h.eng.Focus("A")
	view := h.eng.Snapshot().View
	assert.True(t, view.Hidden[domain.PeerID("B")])
	assert.False(t, view.Hidden[domain.PeerID("A")])

	h.eng.Focus("")
	assert.Empty(t, h.eng.Snapshot().View.Hidden)
}
