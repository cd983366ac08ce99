// Package tools defines the tool catalog and the dispatcher that validates
// and routes tool invocations to their handlers.
package tools

import "context"

// Handler executes one tool against validated arguments and returns the
// formatted text report.
type Handler func(ctx context.Context, args map[string]interface{}) (string, error)

// Tool describes one invocable operation: its name, what it does, the JSON
// schema its arguments must satisfy, and the handler that implements it.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Handler     Handler `json:"-"`
}

// StringArg returns the named string argument, or the empty string when the
// argument is absent. The dispatcher has already enforced presence and type
// for required fields.
func StringArg(args map[string]interface{}, name string) string {
	if value, ok := args[name].(string); ok {
		return value
	}
	return ""
}

// BoolArg returns the named boolean argument, defaulting to false.
func BoolArg(args map[string]interface{}, name string) bool {
	if value, ok := args[name].(bool); ok {
		return value
	}
	return false
}

// NumberArg returns the named numeric argument and whether it was present.
// JSON decoding yields float64 for every number.
func NumberArg(args map[string]interface{}, name string) (float64, bool) {
	value, ok := args[name].(float64)
	return value, ok
}

// ObjectSchema builds the standard input-schema envelope around a property
// map and its required field names.
func ObjectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
