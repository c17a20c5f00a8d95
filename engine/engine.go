package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/toolbridge/toolbridge/logger"
	"github.com/toolbridge/toolbridge/transport"
)

// Dispatcher routes one extracted tool call to its owning server. Failures
// are reported inside the result, never raised.
//
//go:generate mockgen -source=engine.go -destination=../tests/mocks/engine.go -package=mocks
type Dispatcher interface {
	Dispatch(ctx context.Context, toolName string, arguments map[string]string) transport.ToolResult
}

// Engine finds tool-call expressions embedded in generated text, executes
// them, and splices the rendered results back in place. Everything outside a
// matched span stays byte-identical to the input.
type Engine struct {
	dispatcher Dispatcher
	logger     logger.Logger
}

// New builds an engine over the given dispatcher.
func New(dispatcher Dispatcher, log logger.Logger) *Engine {
	return &Engine{dispatcher: dispatcher, logger: log}
}

// Process replaces every embedded call in text with its rendered result.
// Calls are dispatched sequentially in source order, so the output is
// deterministic given deterministic dispatch results. One bad call never
// fails the whole pass.
func (e *Engine) Process(ctx context.Context, text string) string {
	calls := Extract(text)
	if len(calls) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, call := range calls {
		b.WriteString(text[last:call.Start])
		b.WriteString(e.execute(ctx, call))
		last = call.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// execute dispatches one call and renders the outcome. A panic from dispatch
// or rendering becomes an inline error marker instead of propagating.
func (e *Engine) execute(ctx context.Context, call ToolCall) (rendered string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Tool call execution panicked", fmt.Errorf("%v", r), "tool", call.Name)
			rendered = fmt.Sprintf("[error executing %s: %v]", call.Name, r)
		}
	}()

	e.logger.Debug("Executing embedded tool call", "tool", call.Name, "arguments", len(call.Arguments))
	return renderResult(e.dispatcher.Dispatch(ctx, call.Name, call.Arguments))
}

// renderResult turns a tool result into replacement text. Text items join
// with newlines; image and resource items render as bracketed placeholders
// naming their media type; an error-flagged result renders as a bracketed
// message. An empty result renders as the empty string.
func renderResult(result transport.ToolResult) string {
	if result.IsError {
		message := "tool execution failed"
		if len(result.Content) > 0 && result.Content[0].Text != "" {
			message = result.Content[0].Text
		}
		return fmt.Sprintf("[Error: %s]", message)
	}

	parts := make([]string, 0, len(result.Content))
	for _, item := range result.Content {
		switch item.Type {
		case "text":
			parts = append(parts, item.Text)
		case "image", "resource":
			mediaType := item.MimeType
			if mediaType == "" {
				mediaType = "unknown"
			}
			parts = append(parts, fmt.Sprintf("[%s: %s]", item.Type, mediaType))
		default:
			if text := cast.ToString(item.Data); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
