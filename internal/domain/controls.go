package domain

// ControlState holds the session-scoped device and UI flags. It is reset
// only when the session ends.
//
// MicConfirmed and CameraConfirmed are one-shot consent latches: the first
// transition that would enable a sensitive device needs explicit user
// confirmation, after which the latch stays set for the whole session.
type ControlState struct {
	Muted           bool `json:"muted"`
	CameraOn        bool `json:"cameraOn"`
	HandRaised      bool `json:"handRaised"`
	Sharing         bool `json:"sharing"`
	MicConfirmed    bool `json:"micConfirmed"`
	CameraConfirmed bool `json:"cameraConfirmed"`
}
