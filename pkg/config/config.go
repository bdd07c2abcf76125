// Package config loads the pnpgraph daemon configuration from a JSON or
// YAML file, an optional .env file and PNPGRAPH_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kylerisse/pnpgraph/pkg/template"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Defaults applied to omitted fields.
const (
	DefaultListenPort = "1982"
	DefaultRRDDir     = "/var/lib/pnp4nagios/perfdata"
	DefaultGraphDir   = "./graphs"
	DefaultLogLevel   = "info"
	DefaultRRDTool    = "rrdtool"
	DefaultRPS        = 10
	DefaultBurst      = 20
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PNPGRAPH_"

// RateLimit bounds the request rate of the HTTP API.
type RateLimit struct {
	RPS   float64 `json:"rps" yaml:"rps"`
	Burst int     `json:"burst" yaml:"burst"`
}

// Config is the daemon configuration.
type Config struct {
	ListenPort string    `json:"listen_port" yaml:"listen_port"`
	RRDDir     string    `json:"rrd_dir" yaml:"rrd_dir"`
	GraphDir   string    `json:"graph_dir" yaml:"graph_dir"`
	RRDTool    string    `json:"rrdtool" yaml:"rrdtool"`
	DNSServer  string    `json:"dns_server" yaml:"dns_server"`
	LogLevel   string    `json:"log_level" yaml:"log_level"`
	RateLimit  RateLimit `json:"rate_limit" yaml:"rate_limit"`

	// Aliases maps additional check commands to registered ones, e.g.
	// check_lm_sensors to check_sensors.
	Aliases map[string]string `json:"aliases" yaml:"aliases"`
}

// Default returns a Config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration file at path. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse YAML config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse JSON config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads envFile into the environment when it exists, without
// overriding variables that are already set, then applies PNPGRAPH_*
// overrides to cfg.
func (c *Config) LoadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not load env file %s: %w", envFile, err)
		}
	}

	strs := map[string]*string{
		"LISTEN_PORT": &c.ListenPort,
		"RRD_DIR":     &c.RRDDir,
		"GRAPH_DIR":   &c.GraphDir,
		"RRDTOOL":     &c.RRDTool,
		"DNS_SERVER":  &c.DNSServer,
		"LOG_LEVEL":   &c.LogLevel,
	}
	for key, field := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*field = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "RATE_LIMIT_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT_RPS %q: %w", EnvPrefix, v, err)
		}
		c.RateLimit.RPS = rps
	}
	if v, ok := os.LookupEnv(EnvPrefix + "RATE_LIMIT_BURST"); ok {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT_BURST %q: %w", EnvPrefix, v, err)
		}
		c.RateLimit.Burst = burst
	}

	c.applyDefaults()
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.ListenPort == "" {
		c.ListenPort = DefaultListenPort
	}
	if c.RRDDir == "" {
		c.RRDDir = DefaultRRDDir
	}
	if c.GraphDir == "" {
		c.GraphDir = DefaultGraphDir
	}
	if c.RRDTool == "" {
		c.RRDTool = DefaultRRDTool
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = DefaultRPS
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = DefaultBurst
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.ListenPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("listen_port must be a number between 1 and 65535, got %q", c.ListenPort)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must be positive, got %v", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.burst must be positive, got %d", c.RateLimit.Burst)
	}
	for command, target := range c.Aliases {
		if command == "" || target == "" {
			return fmt.Errorf("aliases must map a command to a command, got %q: %q", command, target)
		}
	}
	return nil
}

// Level returns the parsed log level. It falls back to info for a Config
// that was not validated.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// ApplyAliases registers every alias in reg.
func (c *Config) ApplyAliases(reg *template.Registry) error {
	for command, target := range c.Aliases {
		if err := reg.Alias(command, target); err != nil {
			return err
		}
	}
	return nil
}
