// Package adapter exposes Notehub operations as MCP tools.
//
// Each tool invocation carries its own Notehub credential. The adapter
// resolves the credential to a session token through a [session.Cache], calls
// the matching API operation, and hands the service's JSON response back to
// the MCP caller unmodified.
package adapter

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/blues/notehub-mcp-server/internal/log"
	"github.com/blues/notehub-mcp-server/pkg/notehub"
	"github.com/blues/notehub-mcp-server/pkg/session"
)

// Gateway is the subset of the Notehub API the tool surface depends on.
// [*notehub.Client] implements it.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	GetProjects(ctx context.Context, token string) (json.RawMessage, error)
	GetProjectDevices(ctx context.Context, token, projectUID string, filter notehub.DeviceFilter) (json.RawMessage, error)
	GetProjectEvents(ctx context.Context, token, projectUID string, filter notehub.EventFilter) (json.RawMessage, error)
	SendNote(ctx context.Context, token, projectUID, deviceUID, notefileID string, note notehub.Note) (json.RawMessage, error)
}

// Credentials identify a Notehub account for a single invocation. They are
// never persisted and never logged.
type Credentials struct {
	Username string
	Password string
}

// Adapter binds a Gateway and its session cache to the MCP tool handlers.
type Adapter struct {
	gateway  Gateway
	sessions *session.Cache
}

func New(gateway Gateway) *Adapter {
	return &Adapter{
		gateway:  gateway,
		sessions: session.New(gateway.Login),
	}
}

// call resolves a session token for creds and invokes fn with it. If the
// service rejects the token (revoked before its nominal TTL), the cached
// entry is discarded and the call retried exactly once with a freshly minted
// token; any further rejection propagates.
func (a *Adapter) call(ctx context.Context, op string, creds Credentials, fn func(token string) (json.RawMessage, error)) (json.RawMessage, error) {
	id := uuid.NewString()
	log.Debug("%s %s: resolving session token", op, id)
	token, err := a.sessions.Token(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	rsp, err := fn(token)
	if err == nil || !notehub.IsAuthenticationError(err) {
		return rsp, err
	}

	log.Info("%s %s: session token rejected before expiry, forcing re-login", op, id)
	a.sessions.Invalidate(creds.Username, creds.Password, token)
	fresh, loginErr := a.sessions.Token(ctx, creds.Username, creds.Password)
	if loginErr != nil {
		return nil, loginErr
	}
	if fresh == token {
		// The fresh login produced the token the service just rejected;
		// retrying with it is pointless.
		return nil, err
	}
	return fn(fresh)
}

// Projects lists the projects accessible to the credential.
func (a *Adapter) Projects(ctx context.Context, creds Credentials) (json.RawMessage, error) {
	return a.call(ctx, "getProjects", creds, func(token string) (json.RawMessage, error) {
		return a.gateway.GetProjects(ctx, token)
	})
}

// Devices lists a project's devices, optionally filtered.
func (a *Adapter) Devices(ctx context.Context, creds Credentials, projectUID string, filter notehub.DeviceFilter) (json.RawMessage, error) {
	return a.call(ctx, "getDevices", creds, func(token string) (json.RawMessage, error) {
		return a.gateway.GetProjectDevices(ctx, token, projectUID, filter)
	})
}

// Events lists a page of a project's events, optionally filtered.
func (a *Adapter) Events(ctx context.Context, creds Credentials, projectUID string, filter notehub.EventFilter) (json.RawMessage, error) {
	return a.call(ctx, "getEvents", creds, func(token string) (json.RawMessage, error) {
		return a.gateway.GetProjectEvents(ctx, token, projectUID, filter)
	})
}

// SendNote delivers a note to a device's notefile.
func (a *Adapter) SendNote(ctx context.Context, creds Credentials, projectUID, deviceUID, notefileID string, note notehub.Note) (json.RawMessage, error) {
	return a.call(ctx, "sendNote", creds, func(token string) (json.RawMessage, error) {
		return a.gateway.SendNote(ctx, token, projectUID, deviceUID, notefileID, note)
	})
}
