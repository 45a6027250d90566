package auth

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/josephgoksu/perspecto/internal/kv"
)

// FirebaseConfig selects the Firebase project.
type FirebaseConfig struct {
	APIKey          string
	ProjectID       string
	CredentialsFile string // optional service account; enables ID token verification

	// ClientOptions are appended to every Google API client, e.g. a test endpoint.
	ClientOptions []option.ClientOption
}

// tokenVerifier is the part of the Admin SDK auth client used here.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseAuthenticator signs users in with email and password through the Identity Toolkit
// REST API and keeps the resulting credentials in the local kv store.
type FirebaseAuthenticator struct {
	relyingparty *identitytoolkit.RelyingpartyService
	verifier     tokenVerifier
	kv           kv.Store
}

// NewFirebase builds the authenticator. The Admin SDK is only initialized when a
// credentials file is configured.
func NewFirebase(ctx context.Context, cfg FirebaseConfig, kvs kv.Store) (*FirebaseAuthenticator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("auth.firebase.apiKey is required for the firebase provider")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, cfg.ClientOptions...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create identity toolkit client: %w", err)
	}

	a := &FirebaseAuthenticator{relyingparty: svc.Relyingparty, kv: kvs}
	if cfg.CredentialsFile != "" {
		client, err := initializeAdmin(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.verifier = client
	}
	return a, nil
}

func initializeAdmin(ctx context.Context, cfg FirebaseConfig) (*fbauth.Client, error) {
	var conf *firebase.Config
	if cfg.ProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}
	return client, nil
}

// CurrentUser implements Authenticator. A stored token that no longer verifies signs the user out.
func (a *FirebaseAuthenticator) CurrentUser(ctx context.Context) (*User, error) {
	data, err := a.kv.Get(ctx, CredentialsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil || user.UID == "" {
		slog.Warn("discarding unreadable credentials")
		return nil, a.kv.Delete(ctx, CredentialsKey)
	}

	if a.verifier != nil {
		if _, err := a.verifier.VerifyIDToken(ctx, user.IDToken); err != nil {
			slog.Info("stored session expired, signing out", "email", user.Email, "error", err)
			return nil, a.kv.Delete(ctx, CredentialsKey)
		}
	}
	return &user, nil
}

// SignIn implements Authenticator.
func (a *FirebaseAuthenticator) SignIn(ctx context.Context, email, password string) (*User, error) {
	resp, err := a.relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	return a.remember(ctx, User{UID: resp.LocalId, Email: resp.Email, IDToken: resp.IdToken, RefreshToken: resp.RefreshToken})
}

// SignUp implements Authenticator.
func (a *FirebaseAuthenticator) SignUp(ctx context.Context, email, password string) (*User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	resp, err := a.relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	email = cmp.Or(resp.Email, email)
	return a.remember(ctx, User{UID: resp.LocalId, Email: email, IDToken: resp.IdToken, RefreshToken: resp.RefreshToken})
}

// SignOut implements Authenticator.
func (a *FirebaseAuthenticator) SignOut(ctx context.Context) error {
	return a.kv.Delete(ctx, CredentialsKey)
}

func (a *FirebaseAuthenticator) remember(ctx context.Context, user User) (*User, error) {
	if user.UID == "" {
		return nil, fmt.Errorf("%w: provider returned no user id", ErrAuthFailed)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := a.kv.Set(ctx, CredentialsKey, data); err != nil {
		return nil, fmt.Errorf("store credentials: %w", err)
	}
	return &user, nil
}

// classify maps Identity Toolkit error codes onto the package categories.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	codes := []string{apiErr.Message}
	for _, item := range apiErr.Errors {
		codes = append(codes, item.Message)
	}
	for _, code := range codes {
		switch {
		case strings.HasPrefix(code, "EMAIL_EXISTS"):
			return fmt.Errorf("%w: %s", ErrEmailInUse, code)
		case strings.HasPrefix(code, "INVALID_PASSWORD"),
			strings.HasPrefix(code, "EMAIL_NOT_FOUND"),
			strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
			strings.HasPrefix(code, "INVALID_EMAIL"):
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, code)
		case strings.HasPrefix(code, "WEAK_PASSWORD"):
			return fmt.Errorf("%w: %s", ErrWeakPassword, code)
		}
	}
	return fmt.Errorf("%w: %v", ErrAuthFailed, err)
}
