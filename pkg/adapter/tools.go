package adapter

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/blues/notehub-mcp-server/pkg/notehub"
)

// Register adds the four Notehub tools to srv.
func (a *Adapter) Register(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("getProjects",
		mcp.WithDescription("Get all Notehub projects accessible with the provided credentials."),
		mcp.WithString("username", mcp.Required(), mcp.Description("Notehub account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Notehub account password")),
	), a.handleGetProjects)

	srv.AddTool(mcp.NewTool("getDevices",
		mcp.WithDescription("Get all devices for a specific Notehub project with optional filtering."),
		mcp.WithString("username", mcp.Required(), mcp.Description("Notehub account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Notehub account password")),
		mcp.WithString("project_uid", mcp.Required(), mcp.Description("UID of the Notehub project")),
		mcp.WithString("fleet_uid", mcp.Description("Filter by specific fleet UID")),
		mcp.WithArray("tag", mcp.Description("Filter by device tags"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("device_uid", mcp.Description("Filter by specific device UID")),
	), a.handleGetDevices)

	srv.AddTool(mcp.NewTool("getEvents",
		mcp.WithDescription("Get events for a specific Notehub project with optional filtering."),
		mcp.WithString("username", mcp.Required(), mcp.Description("Notehub account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Notehub account password")),
		mcp.WithString("project_uid", mcp.Required(), mcp.Description("UID of the Notehub project")),
		mcp.WithArray("device_uid", mcp.Description("Filter by specific device UIDs"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("serial_number", mcp.Description("Filter by device serial numbers"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithNumber("page_size", mcp.Description("Number of events to return per page"), mcp.DefaultNumber(50)),
		mcp.WithNumber("page_num", mcp.Description("Page number to return"), mcp.DefaultNumber(1)),
		mcp.WithArray("notecard_firmware", mcp.Description("Filter by Notecard firmware version"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("location", mcp.Description("Filter by device location"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("host_firmware", mcp.Description("Filter by host firmware version"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("host_name", mcp.Description("Filter by host name"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("product_uid", mcp.Description("Filter by product UID"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("sku", mcp.Description("Filter by SKU"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("fleet_uid", mcp.Description("Filter by specific fleet UID")),
		mcp.WithString("files", mcp.Description("Filter by specific notefiles, such as \"_health.qo\" or \"data.qo\"")),
		mcp.WithString("select_fields", mcp.Description("Comma-separated list of fields to return from the JSON payload")),
	), a.handleGetEvents)

	srv.AddTool(mcp.NewTool("sendNote",
		mcp.WithDescription("Send a note to a specific device in a Notehub project."),
		mcp.WithString("username", mcp.Required(), mcp.Description("Notehub account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Notehub account password")),
		mcp.WithString("project_uid", mcp.Required(), mcp.Description("UID of the Notehub project")),
		mcp.WithString("device_uid", mcp.Required(), mcp.Description("UID of the device")),
		mcp.WithString("notefile_id", mcp.Description("ID of the notefile; defaults to "+notehub.DefaultNotefile)),
		mcp.WithObject("body", mcp.Description("JSON body to send")),
		mcp.WithString("payload", mcp.Description("Base64-encoded binary payload to send")),
	), a.handleSendNote)
}

func credentialsFromRequest(request mcp.CallToolRequest) (Credentials, error) {
	username, err := request.RequireString("username")
	if err != nil {
		return Credentials{}, &notehub.ValidationError{Field: "username", Reason: err.Error()}
	}
	password, err := request.RequireString("password")
	if err != nil {
		return Credentials{}, &notehub.ValidationError{Field: "password", Reason: err.Error()}
	}
	return Credentials{Username: username, Password: password}, nil
}

// stringSliceParam reads an optional array-of-strings parameter. A bare string
// is accepted as a single-element list.
func stringSliceParam(request mcp.CallToolRequest, key string) []string {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	switch value := raw.(type) {
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	case []interface{}:
		var out []string
		for _, item := range value {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func objectParam(request mcp.CallToolRequest, key string) map[string]interface{} {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	object, _ := raw.(map[string]interface{})
	return object
}

// result converts an API response, or the error that took its place, into a
// tool result. Errors become tool failures rather than protocol errors so the
// model sees a message distinguishing bad credentials from bad parameters
// from an unreachable service.
func result(rsp json.RawMessage, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rsp) == 0 {
		rsp = json.RawMessage(`{}`)
	}
	return mcp.NewToolResultText(string(rsp)), nil
}

func (a *Adapter) handleGetProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := credentialsFromRequest(request)
	if err != nil {
		return result(nil, err)
	}
	return result(a.Projects(ctx, creds))
}

func (a *Adapter) handleGetDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := credentialsFromRequest(request)
	if err != nil {
		return result(nil, err)
	}
	projectUID, err := request.RequireString("project_uid")
	if err != nil {
		return result(nil, &notehub.ValidationError{Field: "project_uid", Reason: err.Error()})
	}
	filter := notehub.DeviceFilter{
		FleetUID:  request.GetString("fleet_uid", ""),
		Tags:      stringSliceParam(request, "tag"),
		DeviceUID: request.GetString("device_uid", ""),
	}
	return result(a.Devices(ctx, creds, projectUID, filter))
}

func (a *Adapter) handleGetEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := credentialsFromRequest(request)
	if err != nil {
		return result(nil, err)
	}
	projectUID, err := request.RequireString("project_uid")
	if err != nil {
		return result(nil, &notehub.ValidationError{Field: "project_uid", Reason: err.Error()})
	}
	filter := notehub.EventFilter{
		DeviceUIDs:       stringSliceParam(request, "device_uid"),
		SerialNumbers:    stringSliceParam(request, "serial_number"),
		PageSize:         request.GetInt("page_size", 50),
		PageNum:          request.GetInt("page_num", 1),
		NotecardFirmware: stringSliceParam(request, "notecard_firmware"),
		Locations:        stringSliceParam(request, "location"),
		HostFirmware:     stringSliceParam(request, "host_firmware"),
		HostNames:        stringSliceParam(request, "host_name"),
		ProductUIDs:      stringSliceParam(request, "product_uid"),
		SKUs:             stringSliceParam(request, "sku"),
		FleetUID:         request.GetString("fleet_uid", ""),
		Files:            request.GetString("files", ""),
		SelectFields:     request.GetString("select_fields", ""),
	}
	return result(a.Events(ctx, creds, projectUID, filter))
}

func (a *Adapter) handleSendNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := credentialsFromRequest(request)
	if err != nil {
		return result(nil, err)
	}
	projectUID, err := request.RequireString("project_uid")
	if err != nil {
		return result(nil, &notehub.ValidationError{Field: "project_uid", Reason: err.Error()})
	}
	deviceUID, err := request.RequireString("device_uid")
	if err != nil {
		return result(nil, &notehub.ValidationError{Field: "device_uid", Reason: err.Error()})
	}
	note := notehub.Note{
		Body:    objectParam(request, "body"),
		Payload: request.GetString("payload", ""),
	}
	notefileID := request.GetString("notefile_id", "")
	return result(a.SendNote(ctx, creds, projectUID, deviceUID, notefileID, note))
}
