// Package session stores the CLI's GitHub credentials between runs.
//
// A [Session] holds the access token obtained by the device flow and the
// profile of the user it belongs to. [FileStore] keeps sessions as JSON files
// under ~/.config/starctl/sessions with owner-only permissions; [CLIStore]
// narrows it to the single session the CLI uses.
//
//	store, err := session.NewCLIStore()
//	sess, err := session.New(token.AccessToken, user, session.DefaultTTL)
//	err = store.SaveSession(ctx, sess)
//
//	sess, err = store.GetSession(ctx) // nil, nil when absent or expired
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/starctl/pkg/integrations/github"
)

// ErrNoToken is returned by [New] for an empty access token.
var ErrNoToken = errors.New("session requires an access token")

// DefaultTTL is how long a CLI login stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// Session stores user session data.
type Session struct {
	ID          string       `json:"id"`
	AccessToken string       `json:"access_token"`
	User        *github.User `json:"user"`
	ExpiresAt   time.Time    `json:"expires_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Login returns the GitHub login of the session's user, or "" if unknown.
func (s *Session) Login() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Login
}

// UserID returns a provider-namespaced user identifier ("github:{id}").
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return fmt.Sprintf("github:%d", s.User.ID)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// New creates a new session with the given token and user.
func New(accessToken string, user *github.User, ttl time.Duration) (*Session, error) {
	if accessToken == "" {
		return nil, ErrNoToken
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := time.Now()
	return &Session{
		ID:          id.String(),
		AccessToken: accessToken,
		User:        user,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}, nil
}
