package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"keybus/internal/common/fsutil"
	"keybus/internal/registry"
)

// Config holds runtime parameters for keybusd.
// Zero values mean "unspecified" and keep the command-line defaults.
type Config struct {
	Addr             string   `json:"addr" yaml:"addr" toml:"addr"`
	MaxSubscribers   int      `json:"max_subscribers" yaml:"max_subscribers" toml:"max_subscribers"`
	ClientBuffer     int      `json:"client_buffer" yaml:"client_buffer" toml:"client_buffer"`
	MaxDepth         int      `json:"max_depth" yaml:"max_depth" toml:"max_depth"`
	KeepAliveSeconds int      `json:"keepalive_seconds" yaml:"keepalive_seconds" toml:"keepalive_seconds"`
	Roots            []string `json:"roots" yaml:"roots" toml:"roots"`
	RootsFile        string   `json:"roots_file" yaml:"roots_file" toml:"roots_file"`
	LogLevel         string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat        string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORSOrigins      []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	MaxBodyBytes     int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogRequests      string   `json:"log_requests" yaml:"log_requests" toml:"log_requests"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. A leading '~' is expanded.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if cfg.RootsFile != "" && !filepath.IsAbs(cfg.RootsFile) && !strings.HasPrefix(cfg.RootsFile, "~") {
		// roots_file is relative to the config file
		cfg.RootsFile = filepath.Join(filepath.Dir(p), cfg.RootsFile)
	}
	if cfg.RootsFile != "" {
		rf, err := fsutil.ExpandHome(cfg.RootsFile)
		if err != nil {
			return cfg, err
		}
		if !fsutil.PathExists(rf) {
			return cfg, fmt.Errorf("roots_file %s does not exist", rf)
		}
		cfg.RootsFile = rf
	}
	return cfg, nil
}

// AllowedRoots merges Roots with the entries of RootsFile. The result is
// nil when neither is set, which leaves the registry open.
func (c Config) AllowedRoots() ([]string, error) {
	roots := append([]string(nil), c.Roots...)
	if c.RootsFile == "" {
		return roots, nil
	}
	reg, err := registry.LoadFile(c.RootsFile)
	if err != nil {
		return nil, err
	}
	return append(roots, reg.Roots()...), nil
}
