package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"keybus/internal/config"
)

var version = "dev"

// Options holds the effective daemon and client settings.
type Options struct {
	Addr           string
	ConfigPath     string
	MaxSubscribers int
	ClientBuffer   int
	MaxDepth       int
	KeepAlive      time.Duration
	Roots          []string
	RootsFile      string
	LogLevel       string
	LogFormat      string
	CORSOrigins    []string
	MaxBodyBytes   int64
	LogRequests    string
	Server         string

	// rootsPinned is set when --roots or --roots-file was given.
	rootsPinned bool
}

// defaultOptions returns defaults with environment overrides applied.
func defaultOptions() *Options {
	return &Options{
		Addr:           envStr("KEYBUSD_ADDR", ":8080"),
		MaxSubscribers: envInt("KEYBUSD_MAX_SUBSCRIBERS", 1024),
		ClientBuffer:   envInt("KEYBUSD_CLIENT_BUFFER", 64),
		MaxDepth:       16,
		KeepAlive:      15 * time.Second,
		LogLevel:       envStr("KEYBUSD_LOG_LEVEL", "info"),
		LogFormat:      envStr("KEYBUSD_LOG_FORMAT", ""),
		MaxBodyBytes:   1 << 20,
		LogRequests:    envStr("KEYBUSD_LOG_REQUESTS", ""),
		Server:         envStr("KEYBUSD_SERVER", "http://localhost:8080"),
	}
}

// applyFile copies non-zero values from a config file for every option whose
// flag was not set on the command line. Flags win over the file.
func (o *Options) applyFile(fc config.Config, changed func(string) bool) {
	if fc.Addr != "" && !changed("addr") {
		o.Addr = fc.Addr
	}
	if fc.MaxSubscribers > 0 && !changed("max-subscribers") {
		o.MaxSubscribers = fc.MaxSubscribers
	}
	if fc.ClientBuffer > 0 && !changed("client-buffer") {
		o.ClientBuffer = fc.ClientBuffer
	}
	if fc.MaxDepth > 0 && !changed("max-depth") {
		o.MaxDepth = fc.MaxDepth
	}
	if fc.KeepAliveSeconds > 0 && !changed("keepalive") {
		o.KeepAlive = time.Duration(fc.KeepAliveSeconds) * time.Second
	}
	if len(fc.Roots) > 0 && !changed("roots") {
		o.Roots = append([]string(nil), fc.Roots...)
	}
	if fc.RootsFile != "" && !changed("roots-file") {
		o.RootsFile = fc.RootsFile
	}
	if fc.LogLevel != "" && !changed("log-level") {
		o.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" && !changed("log-format") {
		o.LogFormat = fc.LogFormat
	}
	if len(fc.CORSOrigins) > 0 && !changed("cors-origins") {
		o.CORSOrigins = append([]string(nil), fc.CORSOrigins...)
	}
	if fc.MaxBodyBytes > 0 && !changed("max-body-bytes") {
		o.MaxBodyBytes = fc.MaxBodyBytes
	}
	if fc.LogRequests != "" && !changed("log-requests") {
		o.LogRequests = fc.LogRequests
	}
}

// allowedRoots merges --roots with the roots file, if any.
func (o *Options) allowedRoots() ([]string, error) {
	return config.Config{Roots: o.Roots, RootsFile: o.RootsFile}.AllowedRoots()
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(ctx context.Context, args []string) int {
	root := buildRootCmdWith(defaultOptions())
	if len(args) == 0 {
		_ = root.Help()
		return 2
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "keybusd:", err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/keybusd.
func Main() int { return MainWithArgs(context.Background(), os.Args[1:]) }
