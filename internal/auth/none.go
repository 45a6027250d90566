package auth

import "context"

// LocalUser is the account reported when authentication is disabled.
var LocalUser = User{UID: "local", Email: "local"}

// NoAuth is used with auth.provider=none: someone is always signed in.
type NoAuth struct{}

// CurrentUser implements Authenticator.
func (NoAuth) CurrentUser(context.Context) (*User, error) {
	u := LocalUser
	return &u, nil
}

// SignIn implements Authenticator.
func (n NoAuth) SignIn(ctx context.Context, _, _ string) (*User, error) {
	return n.CurrentUser(ctx)
}

// SignUp implements Authenticator.
func (n NoAuth) SignUp(ctx context.Context, _, password string) (*User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	return n.CurrentUser(ctx)
}

// SignOut implements Authenticator.
func (NoAuth) SignOut(context.Context) error { return nil }
