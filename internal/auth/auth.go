// Package auth gates the workspace behind a signed-in account.
package auth

import (
	"context"
	"errors"
)

// User is the signed-in account.
type User struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Authenticator is the account collaborator. CurrentUser returns nil when nobody is signed in.
type Authenticator interface {
	CurrentUser(ctx context.Context) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
}

// Failure categories. Provider errors are wrapped in one of these.
var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("weak password")
	ErrAuthFailed         = errors.New("authentication failed")
)

// Message returns the user-facing text for an authentication failure.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmailInUse):
		return "Email already in use. Please sign in instead."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrWeakPassword):
		return "Password should be at least 6 characters."
	default:
		return "Authentication failed. Please try again."
	}
}

// CredentialsKey is the kv document holding the signed-in user.
const CredentialsKey = "perspecto_auth"

// MinPasswordLength matches the provider's own rule so weak passwords fail before a round trip.
const MinPasswordLength = 6
