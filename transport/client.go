package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/toolbridge/toolbridge/logger"
)

// State is the lifecycle phase of a server connection.
type State int32

const (
	StateUnconnected State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// clientInfo is sent to every server during the handshake.
var clientInfo = ServerInfo{Name: "toolbridge", Version: "0.1.0"}

// catalog is an immutable tool-catalog snapshot, replaced wholesale on
// refresh so readers never observe a partial update.
type catalog struct {
	tools  []ToolDescriptor
	byName map[string]ToolDescriptor
}

var emptyCatalog = &catalog{byName: map[string]ToolDescriptor{}}

// rpcError is a delivered protocol-level error response. Kept unexported;
// each operation translates it into its own failure surface.
type rpcError struct {
	obj *ErrorObject
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.obj.Code, e.obj.Message)
}

// Client speaks the wire protocol to exactly one remote tool server. Each
// call issues its own independent exchange and waits only for its own
// response, correlated by id.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger

	state             atomic.Int32
	catalog           atomic.Pointer[catalog]
	negotiatedVersion string
	capabilities      Capabilities
	serverInfo        ServerInfo
}

// NewClient builds an unconnected client for one tool server. The timeout
// applies to every exchange, handshake included.
func NewClient(name, baseURL string, timeout time.Duration, log logger.Logger) *Client {
	c := &Client{
		name:       name,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
	c.catalog.Store(emptyCatalog)
	return c
}

// Name returns the configured display name of the server.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the server address this client exchanges with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// NegotiatedVersion returns the protocol version agreed during the
// handshake. Empty until the client reaches Ready.
func (c *Client) NegotiatedVersion() string {
	return c.negotiatedVersion
}

// ServerInfo returns the identity the server declared during the handshake.
func (c *Client) ServerInfo() ServerInfo {
	return c.serverInfo
}

// Capabilities returns the capability set the server advertised.
func (c *Client) Capabilities() Capabilities {
	return c.capabilities
}

// Tools returns the cached tool catalog in the order the server declared it.
// The catalog is only trusted when the client is Ready.
func (c *Client) Tools() []ToolDescriptor {
	return c.catalog.Load().tools
}

// Tool looks up one cached descriptor by name.
func (c *Client) Tool(name string) (ToolDescriptor, bool) {
	d, ok := c.catalog.Load().byName[name]
	return d, ok
}

// Initialize performs the handshake and, when the server advertises tool
// support, prefetches the tool catalog. A catalog-fetch failure is swallowed
// (the catalog stays empty) and does not revert the Ready state. Retrying a
// Failed client is the caller's policy, not this component's.
func (c *Client) Initialize(ctx context.Context) error {
	c.state.Store(int32(StateInitializing))

	params := initializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    Capabilities{Tools: map[string]interface{}{}, Resources: map[string]interface{}{}},
		ClientInfo:      clientInfo,
	}

	var result initializeResult
	if err := c.exchange(ctx, "initialize", params, &result); err != nil {
		c.state.Store(int32(StateFailed))
		if re, ok := err.(*rpcError); ok {
			return &HandshakeError{Server: c.name, Code: re.obj.Code, Message: re.obj.Message}
		}
		return &HandshakeError{Server: c.name, Err: err}
	}

	c.negotiatedVersion = result.ProtocolVersion
	c.capabilities = result.Capabilities
	c.serverInfo = result.ServerInfo
	c.state.Store(int32(StateReady))

	c.logger.Info("Tool server initialized",
		"server", c.name,
		"identity", result.ServerInfo.Name,
		"version", result.ServerInfo.Version)

	if result.Capabilities.Tools != nil {
		if _, err := c.ListTools(ctx); err != nil {
			c.logger.Warn("Failed to prefetch tool catalog", "server", c.name, "error", err.Error())
			c.catalog.Store(emptyCatalog)
		}
	}
	return nil
}

// ListTools fetches the server's tool catalog and replaces the cached
// snapshot. Requires a Ready connection.
func (c *Client) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	if c.State() != StateReady {
		return nil, &NotInitializedError{Server: c.name, State: c.State()}
	}

	var result listToolsResult
	if err := c.exchange(ctx, "tools/list", nil, &result); err != nil {
		return nil, c.asTransportError("tools/list", err)
	}

	byName := make(map[string]ToolDescriptor, len(result.Tools))
	for _, tool := range result.Tools {
		byName[tool.Name] = tool
	}
	c.catalog.Store(&catalog{tools: result.Tools, byName: byName})

	return result.Tools, nil
}

// CallTool dispatches one tool invocation. A protocol-level error response is
// returned as a ToolResult with the error flag set, never as a failure; only
// transport-level problems produce an error.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]string) (ToolResult, error) {
	if c.State() != StateReady {
		return ToolResult{}, &NotInitializedError{Server: c.name, State: c.State()}
	}

	if arguments == nil {
		arguments = map[string]string{}
	}

	var result ToolResult
	err := c.exchange(ctx, "tools/call", callToolParams{Name: name, Arguments: arguments}, &result)
	if err != nil {
		if re, ok := err.(*rpcError); ok {
			return TextResult(fmt.Sprintf("Tool %s failed: %s", name, re.obj.Message), true), nil
		}
		return ToolResult{}, err
	}
	return result, nil
}

// ListResources fetches the server's resource catalog. Requires Ready.
func (c *Client) ListResources(ctx context.Context) ([]ResourceDescriptor, error) {
	if c.State() != StateReady {
		return nil, &NotInitializedError{Server: c.name, State: c.State()}
	}

	var result listResourcesResult
	if err := c.exchange(ctx, "resources/list", nil, &result); err != nil {
		return nil, c.asTransportError("resources/list", err)
	}
	return result.Resources, nil
}

// ReadResource reads one URI-addressed artifact. Requires Ready.
func (c *Client) ReadResource(ctx context.Context, uri string) (ResourceContents, error) {
	if c.State() != StateReady {
		return ResourceContents{}, &NotInitializedError{Server: c.name, State: c.State()}
	}

	var result ResourceContents
	if err := c.exchange(ctx, "resources/read", readResourceParams{URI: uri}, &result); err != nil {
		return ResourceContents{}, c.asTransportError("resources/read", err)
	}
	return result, nil
}

// asTransportError folds delivered protocol errors into the transport
// taxonomy for the methods that do not report them as data.
func (c *Client) asTransportError(op string, err error) error {
	if _, ok := err.(*rpcError); ok {
		return &TransportError{Server: c.name, Op: op, Err: err}
	}
	return err
}

// exchange performs one request/response cycle. It returns *rpcError for a
// delivered protocol-level error and *TransportError for everything else.
func (c *Client) exchange(ctx context.Context, method string, params interface{}, out interface{}) error {
	id := uuid.NewString()

	body, err := json.Marshal(Request{
		ProtocolVersion: ProtocolVersion,
		ID:              id,
		Method:          method,
		Params:          params,
	})
	if err != nil {
		return &TransportError{Server: c.name, Op: method, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Server: c.name, Op: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Server: c.name, Op: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Server: c.name, Op: method, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &TransportError{Server: c.name, Op: method, Err: fmt.Errorf("malformed response body: %w", err)}
	}

	if envelope.ID != nil && *envelope.ID != id {
		return &TransportError{Server: c.name, Op: method,
			Err: fmt.Errorf("correlation id mismatch: sent %s, got %s", id, *envelope.ID)}
	}

	if envelope.Error != nil {
		return &rpcError{obj: envelope.Error}
	}

	if out != nil {
		if envelope.Result == nil {
			return &TransportError{Server: c.name, Op: method, Err: fmt.Errorf("response carries neither result nor error")}
		}
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return &TransportError{Server: c.name, Op: method, Err: fmt.Errorf("malformed result: %w", err)}
		}
	}
	return nil
}
