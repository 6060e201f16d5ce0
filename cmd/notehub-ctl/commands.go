package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/blues/notehub-mcp-server/pkg/adapter"
	"github.com/blues/notehub-mcp-server/pkg/notehub"
)

var ErrCommandLineArgs = errors.New("invalid command line arguments")

type Argument struct {
	name string
	help string
}

type Handler func(ctx context.Context, env *environment, args map[string]string) error

// environment carries the authenticated state shared by all commands in a
// session of the tool.
type environment struct {
	adapter *adapter.Adapter
	creds   adapter.Credentials
}

type Command struct {
	help     string
	args     []Argument
	optional []Argument
	handler  Handler
}

var commands = map[string]*Command{
	"projects": {
		help:    "List Notehub projects accessible with your credentials",
		handler: runProjects,
	},
	"devices": {
		help: "List devices in a project",
		args: []Argument{
			{name: "PROJECT_UID", help: "UID of the Notehub project"},
		},
		optional: []Argument{
			{name: "FLEET_UID", help: "Only list devices in this fleet"},
			{name: "DEVICE_UID", help: "Only list this device"},
		},
		handler: runDevices,
	},
	"events": {
		help: "List events in a project",
		args: []Argument{
			{name: "PROJECT_UID", help: "UID of the Notehub project"},
		},
		optional: []Argument{
			{name: "FILES", help: "Only list events from these notefiles, e.g. _health.qo"},
			{name: "PAGE_SIZE", help: "Events per page (default 50)"},
			{name: "PAGE_NUM", help: "Page number (default 1)"},
		},
		handler: runEvents,
	},
	"send": {
		help: "Send a JSON note to a device",
		args: []Argument{
			{name: "PROJECT_UID", help: "UID of the Notehub project"},
			{name: "DEVICE_UID", help: "UID of the device"},
			{name: "BODY", help: "JSON object to send, e.g. '{\"cmd\": \"restart\"}'"},
		},
		optional: []Argument{
			{name: "NOTEFILE_ID", help: "Target notefile (default " + notehub.DefaultNotefile + ")"},
		},
		handler: runSend,
	},
}

func printJSON(rsp json.RawMessage) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, rsp, "", "  "); err != nil {
		fmt.Println(string(rsp))
		return
	}
	fmt.Println(pretty.String())
}

func runProjects(ctx context.Context, env *environment, _ map[string]string) error {
	rsp, err := env.adapter.Projects(ctx, env.creds)
	if err != nil {
		return err
	}
	printJSON(rsp)
	return nil
}

func runDevices(ctx context.Context, env *environment, args map[string]string) error {
	filter := notehub.DeviceFilter{
		FleetUID:  args["FLEET_UID"],
		DeviceUID: args["DEVICE_UID"],
	}
	rsp, err := env.adapter.Devices(ctx, env.creds, args["PROJECT_UID"], filter)
	if err != nil {
		return err
	}
	printJSON(rsp)
	return nil
}

func runEvents(ctx context.Context, env *environment, args map[string]string) error {
	filter := notehub.EventFilter{Files: args["FILES"]}
	var err error
	if value, ok := args["PAGE_SIZE"]; ok {
		if filter.PageSize, err = strconv.Atoi(value); err != nil || filter.PageSize <= 0 {
			return fmt.Errorf("%w: PAGE_SIZE must be a positive integer", ErrCommandLineArgs)
		}
	}
	if value, ok := args["PAGE_NUM"]; ok {
		if filter.PageNum, err = strconv.Atoi(value); err != nil || filter.PageNum <= 0 {
			return fmt.Errorf("%w: PAGE_NUM must be a positive integer", ErrCommandLineArgs)
		}
	}
	rsp, err := env.adapter.Events(ctx, env.creds, args["PROJECT_UID"], filter)
	if err != nil {
		return err
	}
	printJSON(rsp)
	return nil
}

func runSend(ctx context.Context, env *environment, args map[string]string) error {
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(args["BODY"]), &body); err != nil {
		return fmt.Errorf("%w: BODY must be a JSON object: %s", ErrCommandLineArgs, err)
	}
	note := notehub.Note{Body: body}
	rsp, err := env.adapter.SendNote(ctx, env.creds, args["PROJECT_UID"], args["DEVICE_UID"], args["NOTEFILE_ID"], note)
	if err != nil {
		return err
	}
	printJSON(rsp)
	return nil
}

// bindArguments maps positional arguments onto the command's declared
// parameter names. Required parameters bind first, then optionals in order.
func bindArguments(info *Command, args []string) (map[string]string, error) {
	if len(args) < len(info.args) || len(args) > len(info.args)+len(info.optional) {
		return nil, fmt.Errorf("%w: %d given (%d required, %d optional)",
			ErrCommandLineArgs, len(args), len(info.args), len(info.optional))
	}
	keywords := make(map[string]string)
	for i, argInfo := range info.args {
		keywords[argInfo.name] = args[i]
	}
	for i, argInfo := range info.optional {
		index := len(info.args) + i
		if index >= len(args) {
			break
		}
		keywords[argInfo.name] = args[index]
	}
	return keywords, nil
}

func execute(ctx context.Context, env *environment, args []string) error {
	if len(args) == 0 {
		return errors.New("missing COMMAND")
	}
	info, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unrecognized command: %s", args[0])
	}
	keywords, err := bindArguments(info, args[1:])
	if err == nil {
		err = info.handler(ctx, env, keywords)
	}

	// Print command-specific help
	if errors.Is(err, ErrCommandLineArgs) {
		info.Usage(args[0])
	}
	return err
}

func (c *Command) Usage(name string) {
	fmt.Printf("Usage: %s", name)
	maxLength := 0
	for _, arg := range c.args {
		fmt.Printf(" %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Printf(" [")
	}
	for _, arg := range c.optional {
		fmt.Printf(" %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Printf(" ]")
	}
	fmt.Printf("\n%s\n", c.help)
	if len(c.args)+len(c.optional) > 0 {
		fmt.Printf("Parameters:\n")
	}
	format := fmt.Sprintf("  %%-%ds %%s\n", maxLength)
	for _, arg := range c.args {
		fmt.Printf(format, arg.name, arg.help)
	}
	for _, arg := range c.optional {
		fmt.Printf(format, arg.name, arg.help+" (optional)")
	}
}

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

func describeError(err error) string {
	switch {
	case notehub.IsAuthenticationError(err):
		return "authentication failed; check your username and password"
	case notehub.IsValidationError(err):
		return err.Error()
	case notehub.Temporary(err):
		return fmt.Sprintf("Notehub unreachable, try again later: %s", err)
	}
	return err.Error()
}

func commandHelpSummary() string {
	maxLength := 0
	var labels []string
	for command := range commands {
		labels = append(labels, command)
		if len(command) > maxLength {
			maxLength = len(command)
		}
	}
	sort.Strings(labels)
	var b strings.Builder
	for _, command := range labels {
		info := commands[command]
		fmt.Fprintf(&b, "  %s%s %s\n", command, strings.Repeat(" ", maxLength-len(command)), info.help)
	}
	return b.String()
}
