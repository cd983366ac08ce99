package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jojohnathon/canvas-mcp/internal/observability"
)

// ErrUnknownTool is returned when an invocation names a tool that is not in
// the catalog. It is distinct from any handler failure.
var ErrUnknownTool = errors.New("unknown tool")

// ValidationError is an argument-validation failure. It is produced before
// any remote call is issued and is distinct from remote-API errors.
type ValidationError struct {
	Tool  string
	Cause error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Cause)
}

// Unwrap returns the underlying schema violation.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

type registeredTool struct {
	tool   Tool
	schema *jsonschema.Schema
}

// Registry is the fixed, enumerable catalog of tools. Registration happens
// once at startup; lookups and calls are read-only afterwards.
type Registry struct {
	tools  map[string]registeredTool
	order  []string
	logger zerolog.Logger
}

// NewRegistry constructs an empty tool registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]registeredTool),
		logger: logger.With().Str("component", "tool_registry").Logger(),
	}
}

// Register compiles the tool's input schema and adds it to the catalog.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s has no handler", tool.Name)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s is already registered", tool.Name)
	}

	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return fmt.Errorf("encode schema for %s: %w", tool.Name, err)
	}

	compiler := jsonschema.NewCompiler()
	resource := fmt.Sprintf("mem://%s.schema.json", tool.Name)
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("add schema for %s: %w", tool.Name, err)
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", tool.Name, err)
	}

	r.tools[tool.Name] = registeredTool{tool: tool, schema: schema}
	r.order = append(r.order, tool.Name)

	return nil
}

// MustRegister registers a tool and panics on a catalog-definition mistake.
// Tool definitions are static, so a failure here is a programming error.
func (r *Registry) MustRegister(tool Tool) {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
}

// List returns every registered tool in registration order.
func (r *Registry) List() []Tool {
	result := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name].tool)
	}
	return result
}

// Get retrieves a tool by exact name.
func (r *Registry) Get(name string) (Tool, bool) {
	entry, ok := r.tools[name]
	return entry.tool, ok
}

// Call validates the arguments against the tool's schema and invokes its
// handler. Validation failures are rejected before any remote call happens.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	entry, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]interface{}{}
	}
	if err := entry.schema.Validate(normalizeArgs(args)); err != nil {
		observability.ToolInvocations().WithLabelValues(name, "invalid").Inc()
		return "", &ValidationError{Tool: name, Cause: err}
	}

	start := time.Now()
	result, err := entry.tool.Handler(ctx, args)
	observability.ToolLatency().WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ToolInvocations().WithLabelValues(name, "error").Inc()
		r.logger.Error().Err(err).Str("tool", name).Msg("tool invocation failed")
		return "", fmt.Errorf("tool %s: %w", name, err)
	}

	observability.ToolInvocations().WithLabelValues(name, "ok").Inc()
	r.logger.Info().Str("tool", name).Dur("elapsed", time.Since(start)).Msg("tool invocation completed")

	return result, nil
}

// normalizeArgs round-trips the argument map through JSON so the validator
// sees the exact value shapes it expects regardless of how the transport
// decoded them.
func normalizeArgs(args map[string]interface{}) interface{} {
	raw, err := json.Marshal(args)
	if err != nil {
		return args
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return args
	}
	return normalized
}
