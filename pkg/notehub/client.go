// Package notehub implements a client for the Notehub API
// (https://api.notefile.net), covering the subset of endpoints the MCP tool
// surface exposes: session login, project enumeration, device and event
// listing, and note delivery.
package notehub

import (
	"bytes"
	"context"
	_ "embed" // Used to embed version for use with user agent
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/blues/notehub-mcp-server/internal/log"
)

var (
	//go:embed version.txt
	libraryVersion string
)

// DefaultHost is the production Notehub API domain.
const DefaultHost = "api.notefile.net"

// Version returns the library version embedded at build time.
func Version() string {
	return strings.TrimSpace(libraryVersion)
}

// MaxResponseLength caps the byte-length of API responses the client will
// read. Event listings are paginated server-side, so well-formed responses
// stay far below this.
const MaxResponseLength = 4 * 1024 * 1024

// DefaultTimeout bounds each API request, including the login path. A login
// that exceeds it surfaces as a temporary (transport) error rather than
// hanging the invocation.
const DefaultTimeout = 30 * time.Second

func buildUserAgent(app string) string {
	library := strings.TrimSpace("notehub-mcp/" + libraryVersion)
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return library
	}
	path := strings.Split(build.Path, "/")
	if len(path) == 0 {
		return library
	}

	if app == "" {
		app = path[len(path)-1]
		var version string
		if build.Main.Version != "(devel)" && build.Main.Version != "" {
			version = build.Main.Version
		} else {
			for _, info := range build.Settings {
				if info.Key == "vcs.revision" {
					if len(info.Value) > 8 {
						version = info.Value[0:8]
					}
					break
				}
			}
		}

		if version != "" {
			app = fmt.Sprintf("%s/%s", app, version)
		}
	}

	return fmt.Sprintf("%s %s", app, library)
}

// Client issues requests against a Notehub API host. The zero value is not
// usable; construct with [NewClient].
type Client struct {
	// The default UserAgent is constructed from build info, but can be overridden.
	UserAgent string
	Host      string
	client    http.Client
}

// NewClient returns a Client for the given API host (DefaultHost if empty).
// Optional app can be passed in for the User-Agent header - otherwise it is
// generated from build info.
func NewClient(host, app string, timeout time.Duration) *Client {
	if host == "" {
		host = DefaultHost
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		UserAgent: buildUserAgent(app),
		Host:      host,
		client:    http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string `json:"session_token"`
}

// Login exchanges a username and password for a session token. The token is
// valid for a bounded server-side TTL; callers should obtain tokens through
// [session.Cache] rather than calling Login directly.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", missingParameter("username")
	}
	if password == "" {
		return "", missingParameter("password")
	}
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	rsp, err := c.do(ctx, "POST", "auth/login", nil, "", body)
	if err != nil {
		return "", err
	}
	var login loginResponse
	if err := json.Unmarshal(rsp, &login); err != nil {
		return "", newAuthenticationError("malformed login response: %s", err)
	}
	if login.SessionToken == "" {
		return "", newAuthenticationError("login response missing session token")
	}
	return login.SessionToken, nil
}

// GetProjects returns the projects accessible with the given session token, as
// the raw JSON document the service produced.
func (c *Client) GetProjects(ctx context.Context, token string) (json.RawMessage, error) {
	return c.do(ctx, "GET", "v1/projects", nil, token, nil)
}

// GetProjectDevices returns the devices in a project, optionally narrowed by
// filter.
func (c *Client) GetProjectDevices(ctx context.Context, token, projectUID string, filter DeviceFilter) (json.RawMessage, error) {
	if projectUID == "" {
		return nil, missingParameter("project_uid")
	}
	endpoint := fmt.Sprintf("v1/projects/%s/devices", url.PathEscape(projectUID))
	return c.do(ctx, "GET", endpoint, filter.values(), token, nil)
}

// GetProjectEvents returns a page of events for a project, optionally narrowed
// by filter.
func (c *Client) GetProjectEvents(ctx context.Context, token, projectUID string, filter EventFilter) (json.RawMessage, error) {
	if projectUID == "" {
		return nil, missingParameter("project_uid")
	}
	endpoint := fmt.Sprintf("v1/projects/%s/events", url.PathEscape(projectUID))
	return c.do(ctx, "GET", endpoint, filter.values(), token, nil)
}

// Note is the payload delivered to a device's notefile. At least one of Body
// and Payload must be set.
type Note struct {
	Body    map[string]interface{} `json:"body,omitempty"`
	Payload string                 `json:"payload,omitempty"`
}

// DefaultNotefile receives notes sent without an explicit notefile ID.
const DefaultNotefile = "data.qo"

// SendNote enqueues a note for a device. An empty notefileID targets
// [DefaultNotefile].
func (c *Client) SendNote(ctx context.Context, token, projectUID, deviceUID, notefileID string, note Note) (json.RawMessage, error) {
	if projectUID == "" {
		return nil, missingParameter("project_uid")
	}
	if deviceUID == "" {
		return nil, missingParameter("device_uid")
	}
	if notefileID == "" {
		notefileID = DefaultNotefile
	}
	body, err := json.Marshal(&note)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("v1/projects/%s/devices/%s/notes/%s",
		url.PathEscape(projectUID), url.PathEscape(deviceUID), url.PathEscape(notefileID))
	return c.do(ctx, "POST", endpoint, nil, token, body)
}

// do sends a single API request and maps the response status onto the package
// error taxonomy. The endpoint contains only the path; the domain comes from
// c.Host. A non-empty token is attached as the X-Session-Token header.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, token string, body []byte) (json.RawMessage, error) {
	u := fmt.Sprintf("https://%s/%s", c.Host, endpoint)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("error constructing request to %s: %w", endpoint, err)
	}
	log.Debug("Requesting %s %s...", method, u)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", c.UserAgent)
	if token != "" {
		request.Header.Set("X-Session-Token", token)
	}
	response, err := c.client.Do(request)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer response.Body.Close()

	limited := io.LimitedReader{R: response.Body, N: MaxResponseLength}
	rsp, err := io.ReadAll(&limited)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	log.Debug("Server returned %d: %s", response.StatusCode, http.StatusText(response.StatusCode))

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return rsp, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, newAuthenticationError("%s rejected by %s: %s", method, endpoint, errorMessage(rsp, response.Status))
	}
	return nil, &HttpError{Code: response.StatusCode, Message: errorMessage(rsp, response.Status)}
}

// errorMessage extracts the "err" field Notehub includes in error bodies,
// falling back to the HTTP status line.
func errorMessage(body []byte, status string) string {
	var parsed struct {
		Err string `json:"err"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Err != "" {
		return parsed.Err
	}
	return status
}
