package app

import (
	"context"

	"github.com/josephgoksu/perspecto/internal/auth"
	"github.com/josephgoksu/perspecto/models"
)

// SignIn authenticates and leaves the landing view. Failures are returned unchanged;
// auth.Message turns them into user-facing text.
func (c *Controller) SignIn(ctx context.Context, email, password string) (*auth.User, error) {
	return c.authenticate(ctx, "Welcome back!", func() (*auth.User, error) {
		return c.deps.Auth.SignIn(ctx, email, password)
	})
}

// SignUp creates an account and signs it in.
func (c *Controller) SignUp(ctx context.Context, email, password string) (*auth.User, error) {
	return c.authenticate(ctx, "Account created successfully", func() (*auth.User, error) {
		return c.deps.Auth.SignUp(ctx, email, password)
	})
}

func (c *Controller) authenticate(ctx context.Context, notice string, fn func() (*auth.User, error)) (*auth.User, error) {
	user, err := fn()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.User = user
	c.state.Notice = notice
	c.gateOnUser()
	u := *user
	return &u, c.persistSession(ctx)
}

// SignOut ends the session and returns to landing. The last snapshot is kept for the
// next sign-in on this machine.
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.deps.Auth.SignOut(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.User = nil
	c.setView(models.ViewLanding)
	c.state.Notice = "Signed out successfully"
	return nil
}

// LandingStart moves a signed-in user from landing to home.
func (c *Controller) LandingStart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.User == nil {
		return ErrNotAuthenticated
	}
	c.setView(models.ViewHome)
	return c.persistSession(ctx)
}
