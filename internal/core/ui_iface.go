package core

// Confirmer is the synchronous consent gate shown before first enabling a
// sensitive device. A decline is not an error, it is a no-op.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a plain function to Confirmer.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Navigator hands control back to the surrounding application once the
// session has been torn down.
type Navigator interface {
	Leave()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) Leave() { f() }
