package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/jobhunter/internal/storage"
	"github.com/jonathan/jobhunter/internal/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// TokenKey is the storage key of the persisted OAuth2 token.
const TokenKey = "token"

// TokenPath is the OAuth2 token endpoint relative to the API base URL.
const TokenPath = "o/token/"

var (
	// ErrNotLoggedIn means no token is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrTokenExpired means the stored token has expired and cannot be refreshed.
	ErrTokenExpired = errors.New("session expired, log in again")
)

// ProfileLoader fetches the profile of the authenticated user.
type ProfileLoader interface {
	CurrentUser(ctx context.Context) (*types.User, error)
}

// Authenticator performs the OAuth2 password grant and keeps the resulting token in storage.
// It implements fetch.BearerSource.
type Authenticator struct {
	config     oauth2.Config
	store      storage.Store
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewAuthenticator creates an authenticator for the API at baseURL. httpClient may be nil.
func NewAuthenticator(baseURL, clientID, clientSecret string, store storage.Store, httpClient *http.Client, logger logrus.FieldLogger) *Authenticator {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Authenticator{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  strings.TrimRight(baseURL, "/") + "/" + TokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:      store,
		httpClient: httpClient,
		logger:     logger,
	}
}

// TokenURL returns the token endpoint.
func (a *Authenticator) TokenURL() string {
	return a.config.Endpoint.TokenURL
}

// Login exchanges credentials for a token and persists it.
func (a *Authenticator) Login(ctx context.Context, req types.LoginRequest) (*oauth2.Token, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	token, err := a.config.PasswordCredentialsToken(a.context(ctx), req.Username, req.Password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := a.saveToken(ctx, token); err != nil {
		return nil, err
	}

	a.logger.WithField("username", req.Username).Info("logged in")
	return token, nil
}

// Logout deletes the stored token.
func (a *Authenticator) Logout(ctx context.Context) error {
	if err := a.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// LoadToken returns the stored token, or ErrNotLoggedIn.
func (a *Authenticator) LoadToken(ctx context.Context) (*oauth2.Token, error) {
	data, err := a.store.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to parse stored token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return token, nil
}

// BearerToken returns a valid access token, refreshing and re-persisting it when the stored
// one has expired and carries a refresh token.
func (a *Authenticator) BearerToken(ctx context.Context) (string, error) {
	token, err := a.LoadToken(ctx)
	if err != nil {
		return "", err
	}
	if token.Valid() {
		return token.AccessToken, nil
	}
	if token.RefreshToken == "" {
		return "", ErrTokenExpired
	}

	fresh, err := a.config.TokenSource(a.context(ctx), token).Token()
	if err != nil {
		a.logger.WithError(err).Warn("token refresh failed")
		return "", ErrTokenExpired
	}
	if err := a.saveToken(ctx, fresh); err != nil {
		return "", err
	}
	return fresh.AccessToken, nil
}

// Restore loads the stored token and the user's profile into store. It dispatches
// LoggedOutAction when no usable token is stored.
func (a *Authenticator) Restore(ctx context.Context, store *Store, profiles ProfileLoader) error {
	token, err := a.LoadToken(ctx)
	if errors.Is(err, ErrNotLoggedIn) {
		store.Dispatch(LoggedOutAction{})
		return nil
	}
	if err != nil {
		return err
	}

	user, err := profiles.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	store.Dispatch(LoggedInAction{User: user, Token: token})
	return nil
}

func (a *Authenticator) saveToken(ctx context.Context, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := a.store.Set(ctx, TokenKey, data); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// context routes oauth2 requests through the configured HTTP client.
func (a *Authenticator) context(ctx context.Context) context.Context {
	if a.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}
