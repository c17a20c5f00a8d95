package transport

// ProtocolVersion is the wire protocol revision this client speaks and
// declares during the handshake.
const ProtocolVersion = "2.0"

// Request is the envelope sent for every exchange with a tool server.
type Request struct {
	ProtocolVersion string      `json:"protocol-version"`
	ID              string      `json:"id"`
	Method          string      `json:"method"`
	Params          interface{} `json:"params"`
}

// Response is the envelope a tool server answers with. Exactly one of Result
// and Error is populated.
type Response struct {
	ProtocolVersion string       `json:"protocol-version"`
	ID              *string      `json:"id"`
	Result          RawMessage   `json:"result,omitempty"`
	Error           *ErrorObject `json:"error,omitempty"`
}

// ErrorObject is the protocol-level error payload of a failed exchange.
type ErrorObject struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Capabilities is the feature set a server advertises during the handshake.
// A nil sub-map means the capability is absent.
type Capabilities struct {
	Tools     map[string]interface{} `json:"tools,omitempty"`
	Resources map[string]interface{} `json:"resources,omitempty"`
	Prompts   map[string]interface{} `json:"prompts,omitempty"`
}

// ServerInfo identifies the remote peer.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeParams struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ClientInfo      ServerInfo   `json:"clientInfo"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ToolDescriptor describes one tool a server declares in its catalog.
// Immutable once fetched; a refresh replaces the whole catalog.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// ContentItem is one element of a tool result or resource body. Type is one
// of "text", "image" or "resource".
type ContentItem struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	MimeType string      `json:"mimeType,omitempty"`
}

// ToolResult is the outcome of one tool dispatch. IsError marks a failure the
// remote tool reported itself; transport failures never produce a ToolResult.
type ToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError"`
}

// TextResult builds a single-item text result, optionally flagged as an
// error. The registry uses it for locally reported dispatch failures.
func TextResult(text string, isError bool) ToolResult {
	return ToolResult{
		Content: []ContentItem{{Type: "text", Text: text}},
		IsError: isError,
	}
}

type callToolParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

// ResourceDescriptor describes one URI-addressed artifact a server exposes.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

type listResourcesResult struct {
	Resources []ResourceDescriptor `json:"resources"`
}

type readResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is the body of one resource read.
type ResourceContents struct {
	Contents []ContentItem `json:"contents"`
}
