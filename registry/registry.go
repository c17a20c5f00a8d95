package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/toolbridge/toolbridge/logger"
	"github.com/toolbridge/toolbridge/transport"
)

// ContextProvider turns local project files into human-readable context
// blurbs for the outbound prompt. The heuristics behind it are not part of
// this subsystem.
//
//go:generate mockgen -source=registry.go -destination=../tests/mocks/registry.go -package=mocks
type ContextProvider interface {
	Summarize(ctx context.Context, path string) (string, error)
}

// InitResult is the per-server outcome of a best-effort initialization pass.
type InitResult struct {
	Server string
	State  transport.State
	Err    error
}

// Registry owns a fixed, ordered set of transport clients plus the local
// context provider, and presents one dispatch surface that degrades
// gracefully when individual servers are unavailable. The client set never
// changes after construction.
type Registry struct {
	clients  []*transport.Client
	provider ContextProvider
	logger   logger.Logger

	mu     sync.RWMutex
	owners map[string]*transport.Client
}

// New builds a registry over the given clients. Slice order is registration
// order and fixes the tie-break for tools declared by several servers.
func New(clients []*transport.Client, provider ContextProvider, log logger.Logger) *Registry {
	return &Registry{
		clients:  clients,
		provider: provider,
		logger:   log,
		owners:   map[string]*transport.Client{},
	}
}

// Servers returns the owned clients in registration order.
func (r *Registry) Servers() []*transport.Client {
	return r.clients
}

// InitializeAll initializes every owned client concurrently. Each attempt is
// independent: one server failing never prevents the others from reaching
// Ready, and there is no overall failure state. The returned results follow
// registration order.
func (r *Registry) InitializeAll(ctx context.Context) []InitResult {
	results := make([]InitResult, len(r.clients))

	var wg sync.WaitGroup
	for i, client := range r.clients {
		wg.Add(1)
		go func(i int, client *transport.Client) {
			defer wg.Done()
			err := client.Initialize(ctx)
			if err != nil {
				r.logger.Error("Failed to initialize tool server", err, "server", client.Name())
			}
			results[i] = InitResult{Server: client.Name(), State: client.State(), Err: err}
		}(i, client)
	}
	wg.Wait()

	r.rebuildOwners()
	return results
}

// RefreshCatalogs re-fetches the tool catalog of every Ready server and
// rebuilds the dispatch index. Fetch failures leave the previous snapshot in
// place.
func (r *Registry) RefreshCatalogs(ctx context.Context) {
	for _, client := range r.clients {
		if client.State() != transport.StateReady {
			continue
		}
		if _, err := client.ListTools(ctx); err != nil {
			r.logger.Warn("Failed to refresh tool catalog", "server", client.Name(), "error", err.Error())
		}
	}
	r.rebuildOwners()
}

// rebuildOwners builds the tool name to owning server index. First-registered
// server wins when several declare the same name.
func (r *Registry) rebuildOwners() {
	owners := map[string]*transport.Client{}
	for _, client := range r.clients {
		if client.State() != transport.StateReady {
			continue
		}
		for _, tool := range client.Tools() {
			if _, taken := owners[tool.Name]; !taken {
				owners[tool.Name] = client
			}
		}
	}

	r.mu.Lock()
	r.owners = owners
	r.mu.Unlock()
}

// Dispatch routes one tool invocation to the server whose catalog declares
// it. Unknown names, not-Ready owners and transport failures are reported as
// error-flagged results, never raised: the input is untrusted model output
// and must not abort the caller's response pipeline.
func (r *Registry) Dispatch(ctx context.Context, toolName string, arguments map[string]string) transport.ToolResult {
	r.mu.RLock()
	owner, ok := r.owners[toolName]
	r.mu.RUnlock()

	if !ok {
		return transport.TextResult(fmt.Sprintf("Unknown tool: %s", toolName), true)
	}
	if owner.State() != transport.StateReady {
		return transport.TextResult(
			fmt.Sprintf("Tool %s is declared by server %s, which is not available", toolName, owner.Name()), true)
	}

	r.logger.Debug("Dispatching tool call", "tool", toolName, "server", owner.Name())

	result, err := owner.CallTool(ctx, toolName, arguments)
	if err != nil {
		r.logger.Error("Tool dispatch failed", err, "tool", toolName, "server", owner.Name())
		return transport.TextResult(fmt.Sprintf("Tool %s failed: %v", toolName, err), true)
	}
	return result
}

// DescribeAvailableTools enumerates every tool of every Ready server for the
// outbound prompt, qualified by the declaring server. Ordering is stable:
// registration order, then tool name.
func (r *Registry) DescribeAvailableTools() string {
	var b strings.Builder
	for _, client := range r.clients {
		if client.State() != transport.StateReady {
			continue
		}
		tools := append([]transport.ToolDescriptor(nil), client.Tools()...)
		sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

		for _, tool := range tools {
			fmt.Fprintf(&b, "- %s (server: %s)", tool.Name, client.Name())
			if tool.Description != "" {
				fmt.Fprintf(&b, ": %s", tool.Description)
			}
			if params := describeSchema(tool.InputSchema); params != "" {
				fmt.Fprintf(&b, " [parameters: %s]", params)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// describeSchema flattens a declared input schema into "name (type), ..."
// with required parameters marked.
func describeSchema(schema map[string]interface{}) string {
	properties := cast.ToStringMap(schema["properties"])
	if len(properties) == 0 {
		return ""
	}

	required := map[string]bool{}
	for _, name := range cast.ToStringSlice(schema["required"]) {
		required[name] = true
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		property := cast.ToStringMap(properties[name])
		part := name
		if typeName := cast.ToString(property["type"]); typeName != "" {
			part += " (" + typeName + ")"
		}
		if required[name] {
			part += ", required"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

// BuildContext passes the current focus through to the context provider.
func (r *Registry) BuildContext(ctx context.Context, currentFocus string) (string, error) {
	if r.provider == nil {
		return "", nil
	}
	return r.provider.Summarize(ctx, currentFocus)
}
