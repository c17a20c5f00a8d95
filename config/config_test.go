package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolbridge/toolbridge/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectedCfg   config.Config
		expectedError string
	}{
		{
			name: "Success_Defaults",
			env:  map[string]string{},
			expectedCfg: config.Config{
				ApplicationName: "toolbridge",
				Environment:     "production",
				EnableTools:     true,
				Client: &config.ClientConfig{
					RequestTimeout: 30 * time.Second,
				},
			},
		},
		{
			name: "Success_ServerList",
			env: map[string]string{
				"ENVIRONMENT":            "development",
				"CLIENT_REQUEST_TIMEOUT": "5s",
				"TOOL_SERVERS":           "files=http://localhost:8081, search=http://localhost:8082",
			},
			expectedCfg: config.Config{
				ApplicationName: "toolbridge",
				Environment:     "development",
				EnableTools:     true,
				Client: &config.ClientConfig{
					RequestTimeout: 5 * time.Second,
				},
				ToolServers: "files=http://localhost:8081, search=http://localhost:8082",
				Servers: []config.ServerConfig{
					{Name: "files", URL: "http://localhost:8081"},
					{Name: "search", URL: "http://localhost:8082"},
				},
			},
		},
		{
			name: "Success_BareURLUsesURLAsName",
			env: map[string]string{
				"TOOL_SERVERS": "http://localhost:9090",
			},
			expectedCfg: config.Config{
				ApplicationName: "toolbridge",
				Environment:     "production",
				EnableTools:     true,
				Client: &config.ClientConfig{
					RequestTimeout: 30 * time.Second,
				},
				ToolServers: "http://localhost:9090",
				Servers: []config.ServerConfig{
					{Name: "http://localhost:9090", URL: "http://localhost:9090"},
				},
			},
		},
		{
			name: "Error_EmptyName",
			env: map[string]string{
				"TOOL_SERVERS": "=http://localhost:8081",
			},
			expectedError: "invalid tool server entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			got, err := cfg.Load(envconfig.MapLookuper(tt.env))
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCfg, got)
		})
	}
}

func TestLoadServerManifest(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "servers.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`servers:
  - name: files
    url: http://localhost:8081
  - name: search
    url: http://localhost:8082
`), 0o600))

	var cfg config.Config
	got, err := cfg.Load(envconfig.MapLookuper(map[string]string{
		"SERVERS_CONFIG_PATH": manifest,
		// the manifest wins over the inline list
		"TOOL_SERVERS": "ignored=http://localhost:9999",
	}))
	require.NoError(t, err)

	assert.Equal(t, []config.ServerConfig{
		{Name: "files", URL: "http://localhost:8081"},
		{Name: "search", URL: "http://localhost:8082"},
	}, got.Servers)
}

func TestLoadServerManifestMissingFile(t *testing.T) {
	var cfg config.Config
	_, err := cfg.Load(envconfig.MapLookuper(map[string]string{
		"SERVERS_CONFIG_PATH": "/does/not/exist.yaml",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read server manifest")
}

func TestLoadServerManifestIncompleteEntry(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "servers.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`servers:
  - name: files
`), 0o600))

	var cfg config.Config
	_, err := cfg.Load(envconfig.MapLookuper(map[string]string{
		"SERVERS_CONFIG_PATH": manifest,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name or url")
}
