package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// ServerConfig names one remote tool server. Order in the resolved list is
// registration order and therefore the dispatch tie-break order.
type ServerConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ClientConfig holds the per-exchange transport settings.
type ClientConfig struct {
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=30s" description:"Timeout for one protocol exchange"`
}

// Config holds the configuration for the tool bridge.
type Config struct {
	ApplicationName string `env:"APPLICATION_NAME, default=toolbridge" description:"The name of the application"`
	Environment     string `env:"ENVIRONMENT, default=production" description:"The environment"`
	EnableTools     bool   `env:"ENABLE_TOOLS, default=true" description:"Enable embedded tool execution"`

	// Client settings
	Client *ClientConfig `env:", prefix=CLIENT_" description:"Transport client configuration"`

	// TOOL_SERVERS is a comma-separated list of name=url entries. When
	// SERVERS_CONFIG_PATH is set, the YAML manifest there wins.
	ToolServers       string `env:"TOOL_SERVERS" description:"Comma-separated name=url tool server list"`
	ServersConfigPath string `env:"SERVERS_CONFIG_PATH" description:"Path to a YAML tool server manifest"`

	// Servers is the resolved server list, in registration order.
	Servers []ServerConfig
}

// serverManifest is the YAML shape of the file SERVERS_CONFIG_PATH points at.
type serverManifest struct {
	Servers []ServerConfig `yaml:"servers"`
}

// Load populates the configuration from the lookuper and resolves the tool
// server list.
func (cfg *Config) Load(lookuper envconfig.Lookuper) (Config, error) {
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, err
	}

	if cfg.ServersConfigPath != "" {
		servers, err := loadServerManifest(cfg.ServersConfigPath)
		if err != nil {
			return Config{}, err
		}
		cfg.Servers = servers
		return *cfg, nil
	}

	servers, err := parseServerList(cfg.ToolServers)
	if err != nil {
		return Config{}, err
	}
	cfg.Servers = servers
	return *cfg, nil
}

// loadServerManifest reads the YAML server manifest.
func loadServerManifest(path string) ([]ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read server manifest: %w", err)
	}

	var manifest serverManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse server manifest %s: %w", path, err)
	}

	for i, server := range manifest.Servers {
		if server.Name == "" || server.URL == "" {
			return nil, fmt.Errorf("server manifest entry %d is missing name or url", i)
		}
	}
	return manifest.Servers, nil
}

// parseServerList parses the comma-separated name=url form. A bare URL gets
// its own value as the name.
func parseServerList(raw string) ([]ServerConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var servers []ServerConfig
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, url, found := strings.Cut(entry, "=")
		if !found {
			servers = append(servers, ServerConfig{Name: entry, URL: entry})
			continue
		}
		if name == "" || url == "" {
			return nil, fmt.Errorf("invalid tool server entry %q, want name=url", entry)
		}
		servers = append(servers, ServerConfig{Name: name, URL: url})
	}
	return servers, nil
}
