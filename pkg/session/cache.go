package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blues/notehub-mcp-server/internal/log"
	"github.com/blues/notehub-mcp-server/pkg/notehub"
)

const (
	// ServerTTL is the validity window Notehub enforces on session tokens.
	ServerTTL = 30 * time.Minute

	// EffectiveTTL is the client-side validity window, deliberately shorter
	// than ServerTTL. A token that passes the staleness check here must still
	// be valid server-side after request latency and clock drift are paid.
	EffectiveTTL = ServerTTL - time.Minute
)

// LoginFunc exchanges a credential for a session token. It is typically
// [notehub.Client.Login].
type LoginFunc func(ctx context.Context, username, password string) (string, error)

// credential keys the cache. Both fields participate: a request carrying the
// right username but the wrong password must never reuse a token obtained
// with the right password.
type credential struct {
	username string
	password string
}

type entry struct {
	// mu is held across the staleness check and any login for this
	// credential, so concurrent callers share a single login (single-flight).
	mu       sync.Mutex
	token    string
	issuedAt time.Time
}

// Cache holds at most one live session token per credential, refreshing each
// through its login function once the token's age reaches TTL.
type Cache struct {
	TTL   time.Duration
	login LoginFunc
	now   func() time.Time

	mu      sync.Mutex
	entries map[credential]*entry
}

// New returns a Cache that obtains tokens through login and retains each for
// [EffectiveTTL].
func New(login LoginFunc) *Cache {
	return &Cache{
		TTL:     EffectiveTTL,
		login:   login,
		now:     time.Now,
		entries: make(map[credential]*entry),
	}
}

func (c *Cache) entryFor(key credential) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Token returns a session token for the credential, reusing the cached token
// while its age is below TTL and performing at most one login otherwise.
//
// A failed login leaves any prior entry in place and propagates the error;
// the prior token is not returned, since it is at best stale. A login that
// produces an empty token is treated as an authentication failure and nothing
// is cached.
func (c *Cache) Token(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", &notehub.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return "", &notehub.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	e := c.entryFor(credential{username: username, password: password})
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.token != "" && c.now().Sub(e.issuedAt) < c.TTL {
		return e.token, nil
	}

	log.Debug("Session token missing or stale; logging in")
	token, err := c.login(ctx, username, password)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", &notehub.AuthenticationError{Err: errors.New("login returned an empty session token")}
	}
	e.token = token
	e.issuedAt = c.now()
	return token, nil
}

// Invalidate discards the cached entry for the credential, but only if it
// still holds token. A newer token stored by a racing login survives; the
// caller's evidence of rejection does not apply to it.
func (c *Cache) Invalidate(username, password, token string) {
	c.mu.Lock()
	e, ok := c.entries[credential{username: username, password: password}]
	c.mu.Unlock()
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.token == token {
		e.token = ""
		e.issuedAt = time.Time{}
	}
}
