package prompt

import (
	"context"
	"strings"
)

// Describer exposes the registry surface the assembler composes from.
//
//go:generate mockgen -source=assembler.go -destination=../tests/mocks/prompt.go -package=mocks
type Describer interface {
	DescribeAvailableTools() string
	BuildContext(ctx context.Context, currentFocus string) (string, error)
}

// Assembler composes the outbound system and user prompts. Pure string
// composition; everything interesting happens in the registry.
type Assembler struct {
	registry     Describer
	identity     string
	toolsEnabled bool
}

// New builds an assembler. identity is the system preamble's opening line.
func New(registry Describer, identity string, toolsEnabled bool) *Assembler {
	return &Assembler{registry: registry, identity: identity, toolsEnabled: toolsEnabled}
}

// SystemPrompt returns the identity preamble, extended with the available
// tool enumeration and call syntax when tool execution is enabled.
func (a *Assembler) SystemPrompt() string {
	var b strings.Builder
	b.WriteString(a.identity)

	if a.toolsEnabled {
		if tools := a.registry.DescribeAvailableTools(); tools != "" {
			b.WriteString("\n\nYou can call the following tools by embedding ")
			b.WriteString(`<tool>name(key="value")</tool> in your reply:`)
			b.WriteString("\n")
			b.WriteString(tools)
		}
	}
	return b.String()
}

// UserPrompt returns the user-turn payload, prefixed with project context for
// the current focus when the provider yields any. Context failures degrade to
// the bare message.
func (a *Assembler) UserPrompt(ctx context.Context, currentFocus, message string) string {
	projectContext, err := a.registry.BuildContext(ctx, currentFocus)
	if err != nil || projectContext == "" {
		return message
	}
	return projectContext + "\n\n" + message
}
