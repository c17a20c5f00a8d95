package engine

import "regexp"

// ToolCall is one invocation parsed out of generated text, with the exact
// source span it was matched from.
type ToolCall struct {
	Name      string
	Arguments map[string]string
	Start     int
	End       int
}

// callPattern matches one embedded call expression. The argument capture is
// non-greedy, so a ')' inside a value terminates the match early; the grammar
// has no escape mechanism.
var callPattern = regexp.MustCompile(`<tool>([A-Za-z0-9_]+)\((.*?)\)</tool>`)

// argPattern matches one key="value" pair. A '"' inside a value ends it
// early; anything between recognized pairs is ignored.
var argPattern = regexp.MustCompile(`([A-Za-z0-9_]+)\s*=\s*"([^"]*)"`)

// Extract scans text left to right for non-overlapping call expressions and
// returns them in source order. It is pure: no dispatch, no network.
func Extract(text string) []ToolCall {
	matches := callPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	calls := make([]ToolCall, 0, len(matches))
	for _, m := range matches {
		calls = append(calls, ToolCall{
			Name:      text[m[2]:m[3]],
			Arguments: parseArguments(text[m[4]:m[5]]),
			Start:     m[0],
			End:       m[1],
		})
	}
	return calls
}

// parseArguments parses a raw argument list into a map. Duplicate keys keep
// the last-seen value.
func parseArguments(raw string) map[string]string {
	arguments := map[string]string{}
	for _, pair := range argPattern.FindAllStringSubmatch(raw, -1) {
		arguments[pair[1]] = pair[2]
	}
	return arguments
}
