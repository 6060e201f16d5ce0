package notehub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient("", "notehub-test", time.Second)
	httpmock.ActivateNonDefault(&c.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestLogin(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", "https://api.notefile.net/auth/login",
		func(req *http.Request) (*http.Response, error) {
			var login loginRequest
			if err := json.NewDecoder(req.Body).Decode(&login); err != nil {
				t.Errorf("malformed login body: %s", err)
			}
			if login.Username != "alice@example.com" || login.Password != "hunter2" {
				t.Errorf("unexpected credentials in login body: %+v", login)
			}
			return httpmock.NewJsonResponse(200, map[string]string{"session_token": "tok123"})
		})

	token, err := c.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %s", err)
	}
	if token != "tok123" {
		t.Errorf("token = %q, want tok123", token)
	}
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", "https://api.notefile.net/auth/login",
		httpmock.NewStringResponder(401, `{"err": "invalid username or password"}`))

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	if !IsAuthenticationError(err) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if Temporary(err) {
		t.Errorf("rejected credentials must not be temporary")
	}
}

func TestLoginMissingToken(t *testing.T) {
	c := newTestClient(t)
	for name, body := range map[string]string{
		"empty object": `{}`,
		"empty token":  `{"session_token": ""}`,
		"not JSON":     `<html>maintenance</html>`,
	} {
		httpmock.RegisterResponder("POST", "https://api.notefile.net/auth/login",
			httpmock.NewStringResponder(200, body))
		if _, err := c.Login(context.Background(), "alice@example.com", "hunter2"); !IsAuthenticationError(err) {
			t.Errorf("%s: expected AuthenticationError, got %v", name, err)
		}
	}
}

func TestLoginValidatesLocally(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.Login(context.Background(), "", "hunter2"); !IsValidationError(err) {
		t.Errorf("expected ValidationError for empty username, got %v", err)
	}
	if _, err := c.Login(context.Background(), "alice@example.com", ""); !IsValidationError(err) {
		t.Errorf("expected ValidationError for empty password, got %v", err)
	}
	if httpmock.GetTotalCallCount() != 0 {
		t.Errorf("validation failures must not hit the network")
	}
}

func TestGetProjectsSendsToken(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("GET", "https://api.notefile.net/v1/projects",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Session-Token") != "tok123" {
				t.Errorf("X-Session-Token = %q", req.Header.Get("X-Session-Token"))
			}
			return httpmock.NewStringResponse(200, `{"projects": []}`), nil
		})

	rsp, err := c.GetProjects(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("GetProjects failed: %s", err)
	}
	if string(rsp) != `{"projects": []}` {
		t.Errorf("response altered in transit: %s", rsp)
	}
}

func TestRejectedTokenIsAuthenticationError(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("GET", "https://api.notefile.net/v1/projects",
		httpmock.NewStringResponder(401, `{"err": "session expired"}`))

	_, err := c.GetProjects(context.Background(), "revoked")
	if !IsAuthenticationError(err) {
		t.Fatalf("expected AuthenticationError for rejected token, got %v", err)
	}
}

func TestGetProjectDevicesQuery(t *testing.T) {
	c := newTestClient(t)
	var query url.Values
	httpmock.RegisterResponder("GET", "https://api.notefile.net/v1/projects/app:123/devices",
		func(req *http.Request) (*http.Response, error) {
			query = req.URL.Query()
			return httpmock.NewStringResponse(200, `{"devices": []}`), nil
		})

	filter := DeviceFilter{FleetUID: "fleet:9", Tags: []string{"outdoor", "beta"}, DeviceUID: "dev:5"}
	if _, err := c.GetProjectDevices(context.Background(), "tok", "app:123", filter); err != nil {
		t.Fatalf("GetProjectDevices failed: %s", err)
	}
	if query.Get("fleetUID") != "fleet:9" || query.Get("deviceUID") != "dev:5" {
		t.Errorf("unexpected query: %v", query)
	}
	if tags := query["tag"]; len(tags) != 2 || tags[0] != "outdoor" || tags[1] != "beta" {
		t.Errorf("tag values not repeated: %v", query["tag"])
	}
}

func TestGetProjectEventsQuery(t *testing.T) {
	c := newTestClient(t)
	var query url.Values
	httpmock.RegisterResponder("GET", "https://api.notefile.net/v1/projects/app:123/events",
		func(req *http.Request) (*http.Response, error) {
			query = req.URL.Query()
			return httpmock.NewStringResponse(200, `{"events": []}`), nil
		})

	filter := EventFilter{
		DeviceUIDs: []string{"dev:1", "dev:2"},
		PageSize:   50,
		PageNum:    2,
		Files:      "_health.qo",
	}
	if _, err := c.GetProjectEvents(context.Background(), "tok", "app:123", filter); err != nil {
		t.Fatalf("GetProjectEvents failed: %s", err)
	}
	if query.Get("pageSize") != "50" || query.Get("pageNum") != "2" || query.Get("files") != "_health.qo" {
		t.Errorf("unexpected query: %v", query)
	}
	if len(query["deviceUID"]) != 2 {
		t.Errorf("deviceUID not repeated: %v", query["deviceUID"])
	}
}

func TestMissingProjectUID(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.GetProjectDevices(context.Background(), "tok", "", DeviceFilter{}); !IsValidationError(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if _, err := c.GetProjectEvents(context.Background(), "tok", "", EventFilter{}); !IsValidationError(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if _, err := c.SendNote(context.Background(), "tok", "", "dev:5", "", Note{}); !IsValidationError(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if _, err := c.SendNote(context.Background(), "tok", "app:123", "", "", Note{}); !IsValidationError(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if httpmock.GetTotalCallCount() != 0 {
		t.Errorf("validation failures must not hit the network")
	}
}

func TestSendNoteDefaultsNotefile(t *testing.T) {
	c := newTestClient(t)
	var sent Note
	httpmock.RegisterResponder("POST", "https://api.notefile.net/v1/projects/app:123/devices/dev:5/notes/data.qo",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&sent); err != nil {
				t.Errorf("malformed note body: %s", err)
			}
			return httpmock.NewStringResponse(200, `{}`), nil
		})

	note := Note{Body: map[string]interface{}{"temp": 21.5}}
	if _, err := c.SendNote(context.Background(), "tok", "app:123", "dev:5", "", note); err != nil {
		t.Fatalf("SendNote failed: %s", err)
	}
	if sent.Body["temp"] != 21.5 {
		t.Errorf("note body altered in transit: %+v", sent)
	}
}

func TestServerErrorsAreTemporary(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("GET", "https://api.notefile.net/v1/projects",
		httpmock.NewStringResponder(503, `{"err": "service restarting"}`))

	_, err := c.GetProjects(context.Background(), "tok")
	var httpErr *HttpError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HttpError, got %v", err)
	}
	if !Temporary(err) {
		t.Errorf("503 should be temporary")
	}
	if IsAuthenticationError(err) {
		t.Errorf("503 is not an authentication failure")
	}
}

func TestTransportFailureIsTemporary(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("GET", "https://api.notefile.net/v1/projects",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := c.GetProjects(context.Background(), "tok")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !Temporary(err) {
		t.Errorf("transport failures should be temporary")
	}
}
