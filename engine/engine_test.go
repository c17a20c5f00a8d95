package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/toolbridge/toolbridge/engine"
	"github.com/toolbridge/toolbridge/logger"
	"github.com/toolbridge/toolbridge/tests/mocks"
	"github.com/toolbridge/toolbridge/transport"
)

func newEngine(t *testing.T) (*engine.Engine, *mocks.MockDispatcher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	return engine.New(dispatcher, logger.NewNoOpLogger()), dispatcher
}

func TestProcessIdentityWithoutCalls(t *testing.T) {
	eng, _ := newEngine(t)

	inputs := []string{
		"",
		"no calls here",
		"some text with <tool>unclosed(",
		"whitespace \n\t preserved exactly\n",
	}
	for _, input := range inputs {
		assert.Equal(t, input, eng.Process(context.Background(), input))
	}
}

func TestProcessSingleCall(t *testing.T) {
	eng, dispatcher := newEngine(t)

	dispatcher.EXPECT().
		Dispatch(gomock.Any(), "read_file", map[string]string{"path": "a.txt"}).
		Return(transport.TextResult("hello", false))

	got := eng.Process(context.Background(), `before <tool>read_file(path="a.txt")</tool> after`)
	assert.Equal(t, "before hello after", got)
}

func TestProcessUnknownToolRendersErrorMarker(t *testing.T) {
	eng, dispatcher := newEngine(t)

	dispatcher.EXPECT().
		Dispatch(gomock.Any(), "read_file", gomock.Any()).
		Return(transport.TextResult("Unknown tool: read_file", true))

	got := eng.Process(context.Background(), `before <tool>read_file(path="a.txt")</tool> after`)
	assert.Equal(t, "before [Error: Unknown tool: read_file] after", got)
	assert.NotContains(t, got, "<tool>")
}

func TestProcessMultipleCallsInOrder(t *testing.T) {
	eng, dispatcher := newEngine(t)

	gomock.InOrder(
		dispatcher.EXPECT().
			Dispatch(gomock.Any(), "one", map[string]string{}).
			Return(transport.TextResult("R1", false)),
		dispatcher.EXPECT().
			Dispatch(gomock.Any(), "two", map[string]string{"x": "1"}).
			Return(transport.TextResult("R2", false)),
	)

	got := eng.Process(context.Background(), "a <tool>one()</tool> b <tool>two(x=\"1\")</tool> c")
	assert.Equal(t, "a R1 b R2 c", got)
}

func TestProcessPreservesTextOutsideSpans(t *testing.T) {
	eng, dispatcher := newEngine(t)

	dispatcher.EXPECT().
		Dispatch(gomock.Any(), "f", gomock.Any()).
		Return(transport.TextResult("X", false))

	input := "  leading\n\n<tool>f()</tool>\ttrailing\twhitespace  \n"
	got := eng.Process(context.Background(), input)
	assert.Equal(t, "  leading\n\nX\ttrailing\twhitespace  \n", got)
}

func TestProcessMultipleTextItemsJoinWithNewline(t *testing.T) {
	eng, dispatcher := newEngine(t)

	dispatcher.EXPECT().
		Dispatch(gomock.Any(), "f", gomock.Any()).
		Return(transport.ToolResult{Content: []transport.ContentItem{
			{Type: "text", Text: "line one"},
			{Type: "text", Text: "line two"},
		}})

	got := eng.Process(context.Background(), "<tool>f()</tool>")
	assert.Equal(t, "line one\nline two", got)
}

func TestProcessImageAndResourcePlaceholders(t *testing.T) {
	eng, dispatcher := newEngine(t)

	dispatcher.EXPECT().
		Dispatch(gomock.Any(), "f", gomock.Any()).
		Return(transport.ToolResult{Content: []transport.ContentItem{
			{Type: "image", Data: "iVBOR...", MimeType: "image/png"},
			{Type: "resource", MimeType: "text/markdown"},
		}})

	got := eng.Process(context.Background(), "<tool>f()</tool>")
	assert.Equal(t, "[image: image/png]\n[resource: text/markdown]", got)
}

func TestProcessEmptyResultRendersEmpty(t *testing.T) {
	eng, dispatcher := newEngine(t)

	dispatcher.EXPECT().
		Dispatch(gomock.Any(), "f", gomock.Any()).
		Return(transport.ToolResult{})

	got := eng.Process(context.Background(), "x <tool>f()</tool> y")
	assert.Equal(t, "x  y", got)
}

func TestProcessErrorWithEmptyContent(t *testing.T) {
	eng, dispatcher := newEngine(t)

	dispatcher.EXPECT().
		Dispatch(gomock.Any(), "f", gomock.Any()).
		Return(transport.ToolResult{IsError: true})

	got := eng.Process(context.Background(), "<tool>f()</tool>")
	assert.Equal(t, "[Error: tool execution failed]", got)
}

func TestProcessDispatchPanicBecomesInlineMarker(t *testing.T) {
	eng, dispatcher := newEngine(t)

	gomock.InOrder(
		dispatcher.EXPECT().
			Dispatch(gomock.Any(), "boom", gomock.Any()).
			DoAndReturn(func(context.Context, string, map[string]string) transport.ToolResult {
				panic("argument parsing exploded")
			}),
		dispatcher.EXPECT().
			Dispatch(gomock.Any(), "fine", gomock.Any()).
			Return(transport.TextResult("ok", false)),
	)

	got := eng.Process(context.Background(), "a <tool>boom()</tool> b <tool>fine()</tool> c")
	assert.Equal(t, "a [error executing boom: argument parsing exploded] b ok c", got)
}
