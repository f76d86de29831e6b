// Package oauth implements the Google OAuth code-flow handshake.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"inkwell/internal/auth"
)

const (
	userinfoURL      = "https://www.googleapis.com/oauth2/v2/userinfo"
	handshakeTimeout = 15 * time.Second
)

var (
	// ErrInvalidState is returned when the callback's state token is missing,
	// expired or already consumed.
	ErrInvalidState = errors.New("invalid oauth state")
	// ErrExchangeFailed is returned when the code exchange or profile fetch fails.
	ErrExchangeFailed = errors.New("oauth exchange failed")
)

// Profile is the identity returned by Google for an authenticated user.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleClient drives the redirect handshake against Google. State tokens are
// one-shot and short-lived, which is all the CSRF protection the callback needs.
type GoogleClient struct {
	cfg    *oauth2.Config
	states auth.StateStoreInterface
}

// NewGoogleClient creates a Google OAuth client.
func NewGoogleClient(clientID, clientSecret, redirectURL string, states auth.StateStoreInterface) *GoogleClient {
	return &GoogleClient{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		states: states,
	}
}

// Enabled reports whether Google login is configured.
func (g *GoogleClient) Enabled() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

// AuthURL issues a fresh state token and returns the consent page URL.
func (g *GoogleClient) AuthURL(ctx context.Context) (string, error) {
	state, err := g.states.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("issue state: %w", err)
	}
	return g.cfg.AuthCodeURL(state), nil
}

// Exchange consumes the state token, trades the code for a token and fetches
// the user's profile.
func (g *GoogleClient) Exchange(ctx context.Context, state, code string) (*Profile, error) {
	ok, err := g.states.Consume(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("consume state: %w", err)
	}
	if !ok {
		return nil, ErrInvalidState
	}

	ctx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()

	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	resp, err := g.cfg.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: incomplete profile", ErrExchangeFailed)
	}

	return &profile, nil
}
