package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/shlex"
	"golang.org/x/term"

	"github.com/blues/notehub-mcp-server/internal/log"
	"github.com/blues/notehub-mcp-server/pkg/adapter"
	"github.com/blues/notehub-mcp-server/pkg/notehub"
)

// Environment variable equivalents for the command-line flags.
const (
	EnvUser = "NOTEHUB_USER"
	EnvPass = "NOTEHUB_PASS"
	EnvHost = "NOTEHUB_HOST"
)

func Usage() {
	fmt.Printf("Usage: %s [OPTION...] COMMAND [ARG...]\n", os.Args[0])
	fmt.Printf("\nQuery Notehub projects, devices, and events, or send notes to devices.\n")
	fmt.Printf("Run without a COMMAND to start an interactive shell.\n")
	fmt.Println("")
	fmt.Printf("Available OPTIONs:\n")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Printf("Available COMMANDs:\n")
	fmt.Print(commandHelpSummary())
}

// readPassword prompts for the account password without echoing it.
func readPassword(prompt string) (string, error) {
	var w io.Writer
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fd = int(os.Stderr.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("no terminal available for password prompt; set $%s", EnvPass)
		}
		w = os.Stderr
	} else {
		w = os.Stdout
	}

	fmt.Fprintf(w, "%s: ", prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w)
	return string(b), nil
}

func runCommand(env *environment, args []string, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := execute(ctx, env, args); err != nil {
		writeErr("Failed to execute command: %s", describeError(err))
		return 1
	}
	return 0
}

func runInteractiveShell(env *environment, timeout time.Duration) int {
	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Printf("> "); scanner.Scan(); fmt.Printf("> ") {
		args, err := shlex.Split(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			return 0
		}
		if err != nil {
			writeErr("Invalid command: %s", err)
			continue
		}
		runCommand(env, args, timeout)
	}
	if err := scanner.Err(); err != nil {
		writeErr("Error reading command: %s", err)
		return 1
	}
	return 0
}

func main() {
	status := 1
	defer func() {
		os.Exit(status)
	}()

	var (
		username string
		host     string
		timeout  time.Duration
		verbose  bool
	)
	flag.Usage = Usage
	flag.StringVar(&username, "username", "", "Notehub account `email`. Defaults to $NOTEHUB_USER.")
	flag.StringVar(&host, "host", "", "Notehub API `hostname`. Defaults to $NOTEHUB_HOST, then "+notehub.DefaultHost+".")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout `interval` for Notehub API requests.")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if verbose {
		log.SetLevel(log.LevelDebug)
	}
	if username == "" {
		username = os.Getenv(EnvUser)
	}
	if username == "" {
		writeErr("Provide a Notehub account email with -username or $%s", EnvUser)
		return
	}
	if host == "" {
		host = os.Getenv(EnvHost)
	}

	password := os.Getenv(EnvPass)
	if password == "" {
		var err error
		if password, err = readPassword("Notehub password for " + username); err != nil {
			writeErr("Failed to read password: %s", err)
			return
		}
	}

	client := notehub.NewClient(host, "notehub-ctl", timeout)
	env := &environment{
		adapter: adapter.New(client),
		creds:   adapter.Credentials{Username: username, Password: password},
	}

	if flag.NArg() == 0 {
		status = runInteractiveShell(env, timeout)
		return
	}
	status = runCommand(env, flag.Args(), timeout)
}
