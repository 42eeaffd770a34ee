package domain

type (
	RoomID string
	PeerID string
)
