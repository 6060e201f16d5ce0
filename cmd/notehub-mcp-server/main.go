package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/blues/notehub-mcp-server/internal/log"
	"github.com/blues/notehub-mcp-server/pkg/adapter"
	"github.com/blues/notehub-mcp-server/pkg/notehub"
)

// Environment variable equivalents for the command-line flags.
const (
	EnvHost    = "NOTEHUB_HOST"
	EnvTimeout = "NOTEHUB_TIMEOUT"
	EnvVerbose = "NOTEHUB_VERBOSE"
	EnvConfig  = "NOTEHUB_CONFIG"
)

type serverOptions struct {
	host       string
	timeout    time.Duration
	verbose    bool
	configFile string
}

var options = &serverOptions{}

func init() {
	flag.StringVar(&options.host, "host", "", "Notehub API `hostname`. Defaults to $NOTEHUB_HOST, then "+notehub.DefaultHost+".")
	flag.DurationVar(&options.timeout, "timeout", 0, "Timeout `interval` for Notehub API requests. Defaults to $NOTEHUB_TIMEOUT.")
	flag.BoolVar(&options.verbose, "verbose", false, "Enable verbose logging")
	flag.StringVar(&options.configFile, "config", "", "Load configuration from YAML `file`. Defaults to $NOTEHUB_CONFIG.")
}

func Usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [OPTION...]\n", os.Args[0])
	fmt.Fprintf(out, "\nAn MCP server that exposes Notehub projects, devices, events, and note sending as tools.\n")
	fmt.Fprintf(out, "The server communicates over stdio; credentials are supplied per tool call and are never stored.\n")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
}

// readFromEnvironment fills in options that were not set on the command line.
// Precedence is flags, then the config file, then the environment.
func readFromEnvironment() error {
	if options.configFile == "" {
		options.configFile = os.Getenv(EnvConfig)
	}
	var fileConfig *Config
	if options.configFile != "" {
		var err error
		fileConfig, err = loadConfig(options.configFile)
		if err != nil {
			return err
		}
	}

	if options.host == "" && fileConfig != nil {
		options.host = fileConfig.API.Host
	}
	if options.host == "" {
		options.host = os.Getenv(EnvHost)
	}

	if options.timeout == 0 && fileConfig != nil {
		options.timeout = fileConfig.API.Timeout
	}
	if options.timeout == 0 {
		if value := os.Getenv(EnvTimeout); value != "" {
			timeout, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
			}
			options.timeout = timeout
		}
	}

	if !options.verbose && os.Getenv(EnvVerbose) != "" {
		options.verbose = true
	}

	if options.verbose {
		log.SetLevel(log.LevelDebug)
	} else if fileConfig != nil && fileConfig.Logging.Level != "" {
		log.SetLevel(logLevels[fileConfig.Logging.Level])
	} else {
		log.SetLevel(log.LevelError)
	}
	return nil
}

func main() {
	flag.Usage = Usage
	flag.Parse()
	if err := readFromEnvironment(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	client := notehub.NewClient(options.host, "", options.timeout)
	srv := server.NewMCPServer("notehub", notehub.Version(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	adapter.New(client).Register(srv)

	log.Info("Serving Notehub tools over stdio (API host %s)", client.Host)
	if err := server.ServeStdio(srv); err != nil {
		log.Error("Server stopped: %s", err)
		os.Exit(1)
	}
}
