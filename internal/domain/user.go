// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxUsernameLen = 36

	// FallbackEmail is sent to the assistant service when the identity
	// provider did not resolve an address.
	FallbackEmail = "no-email@test.com"
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// User is the local identity a session runs under. It is resolved once
// before joining and never changes during the session.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(username, email string) (*User, error) {
	if len(username) == 0 {
		return nil, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	if email == "" {
		email = FallbackEmail
	}
	return &User{Username: username, Email: email}, nil
}

// ResolveUser applies the display-name fallback chain: explicit display
// name, then the local part of the email, then a generated User-<random>
// label when identity is unavailable.
func ResolveUser(displayName, email string) User {
	name := displayName
	if name == "" && email != "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	if name == "" {
		name = fmt.Sprintf("User-%s", uuid.NewString()[:4])
	}
	if len(name) > MaxUsernameLen {
		name = name[:MaxUsernameLen]
	}
	if email == "" {
		email = FallbackEmail
	}
	return User{Username: name, Email: email}
}
