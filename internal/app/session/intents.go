package session

import (
	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

// ToggleMute flips the muted flag and mirrors it onto every local audio
// track's enabled flag. Turning audio on for the first time in the session
// passes through the one-shot mic consent gate; a decline leaves state
// unchanged. No-op without a local audio stream.
func (e *Engine) ToggleMute(consent core.Confirmer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	stream := e.media.LocalAudio()
	if stream == nil {
		return
	}

	next := !e.controls.Muted
	if !next && !e.controls.MicConfirmed {
		if consent == nil || !consent.Confirm("turn on microphone?") {
			return
		}
		e.controls.MicConfirmed = true
	}
	e.controls.Muted = next
	for _, t := range stream.AudioTracks() {
		t.SetEnabled(!next)
	}
}

// ToggleCamera flips the cameraOn flag and mirrors it onto every local
// video track. First enable passes through the camera consent gate.
// No-op without a local video stream: nothing to enable.
func (e *Engine) ToggleCamera(consent core.Confirmer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	stream := e.media.LocalVideo()
	if stream == nil {
		return
	}

	next := !e.controls.CameraOn
	if next && !e.controls.CameraConfirmed {
		if consent == nil || !consent.Confirm("turn on camera?") {
			return
		}
		e.controls.CameraConfirmed = true
	}
	e.controls.CameraOn = next
	for _, t := range stream.VideoTracks() {
		t.SetEnabled(next)
	}
}

// ToggleHand raises or lowers the hand. Pure UI flag.
func (e *Engine) ToggleHand() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	e.controls.HandRaised = !e.controls.HandRaised
}

// ToggleSharing flips the sharing flag. Screen-share acquisition itself is
// owned elsewhere.
func (e *Engine) ToggleSharing() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	e.controls.Sharing = !e.controls.Sharing
}

// Focus selects which peer's video occupies the main target. An empty id
// clears the selection (clicking the self-view). Focusing a peer without a
// live stream is a no-op.
func (e *Engine) Focus(id domain.PeerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.torn {
		return
	}
	if id == "" {
		e.focused = ""
		return
	}
	if _, ok := e.remote[id]; !ok {
		return
	}
	e.focused = id
}
