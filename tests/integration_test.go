package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolbridge/toolbridge/engine"
	"github.com/toolbridge/toolbridge/logger"
	"github.com/toolbridge/toolbridge/prompt"
	"github.com/toolbridge/toolbridge/registry"
	"github.com/toolbridge/toolbridge/transport"
)

// newFileServer serves the full wire protocol for a server declaring
// read_file, answering every call with "hello".
func newFileServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProtocolVersion string                 `json:"protocol-version"`
			ID              string                 `json:"id"`
			Method          string                 `json:"method"`
			Params          map[string]interface{} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result interface{}
		switch req.Method {
		case "initialize":
			result = map[string]interface{}{
				"protocolVersion": "2.0",
				"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
				"serverInfo":      map[string]interface{}{"name": "files", "version": "1.0"},
			}
		case "tools/list":
			result = map[string]interface{}{"tools": []interface{}{
				map[string]interface{}{
					"name":        "read_file",
					"description": "Read a file",
					"inputSchema": map[string]interface{}{},
				},
			}}
		case "tools/call":
			assert.Equal(t, "read_file", req.Params["name"])
			arguments, _ := req.Params["arguments"].(map[string]interface{})
			assert.Equal(t, "a.txt", arguments["path"])
			result = map[string]interface{}{
				"content": []interface{}{map[string]interface{}{"type": "text", "text": "hello"}},
				"isError": false,
			}
		}

		response := map[string]interface{}{"protocol-version": "2.0", "id": req.ID, "result": result}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEmbeddedCallEndToEnd(t *testing.T) {
	server := newFileServer(t)

	log := logger.NewNoOpLogger()
	client := transport.NewClient("files", server.URL, 5*time.Second, log)
	reg := registry.New([]*transport.Client{client}, nil, log)

	results := reg.InitializeAll(context.Background())
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	eng := engine.New(reg, log)
	got := eng.Process(context.Background(), `before <tool>read_file(path="a.txt")</tool> after`)
	assert.Equal(t, "before hello after", got)
}

func TestEmbeddedCallUnknownToolEndToEnd(t *testing.T) {
	log := logger.NewNoOpLogger()
	reg := registry.New(nil, nil, log)
	reg.InitializeAll(context.Background())

	eng := engine.New(reg, log)
	got := eng.Process(context.Background(), `before <tool>read_file(path="a.txt")</tool> after`)
	assert.Equal(t, "before [Error: Unknown tool: read_file] after", got)
}

func TestSystemPromptEndToEnd(t *testing.T) {
	server := newFileServer(t)

	log := logger.NewNoOpLogger()
	client := transport.NewClient("files", server.URL, 5*time.Second, log)
	reg := registry.New([]*transport.Client{client}, nil, log)
	reg.InitializeAll(context.Background())

	assembler := prompt.New(reg, "You are a coding assistant.", true)
	system := assembler.SystemPrompt()
	assert.Contains(t, system, "You are a coding assistant.")
	assert.Contains(t, system, "read_file (server: files): Read a file")
}
