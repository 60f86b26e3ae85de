package cli

import (
	"bytes"
	"encoding/json"
	"strings"
)

// parseArgs turns command-line arguments into ABI values.
// true and false are booleans. Arrays, tuples and quoted strings are JSON
// ('[1,2]', '{"a":1}', '"true"'). Anything else passes through as a string
// and is coerced to the parameter type by the codec.
func parseArgs(raw []string) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		args[i] = parseArg(s)
	}
	return args
}

func parseArg(s string) any {
	trimmed := strings.TrimSpace(s)
	switch trimmed {
	case "true":
		return true
	case "false":
		return false
	}
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, `"`) {
		return s
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return s
	}
	return v
}
