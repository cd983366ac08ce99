package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func echoTool(name string, invoked *bool) Tool {
	return Tool{
		Name:        name,
		Description: "echoes the course id back",
		InputSchema: ObjectSchema(map[string]interface{}{
			"courseId": map[string]interface{}{"type": "string"},
		}, "courseId"),
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			if invoked != nil {
				*invoked = true
			}
			return "course " + StringArg(args, "courseId"), nil
		},
	}
}

func TestRegisterRejectsInvalidDefinitions(t *testing.T) {
	registry := NewRegistry(testLogger())

	err := registry.Register(Tool{Name: "", Handler: func(context.Context, map[string]interface{}) (string, error) { return "", nil }})
	require.ErrorContains(t, err, "name is required")

	err = registry.Register(Tool{Name: "no-handler", InputSchema: ObjectSchema(nil)})
	require.ErrorContains(t, err, "no handler")

	require.NoError(t, registry.Register(echoTool("list-courses", nil)))
	err = registry.Register(echoTool("list-courses", nil))
	require.ErrorContains(t, err, "already registered")
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry(testLogger())
	names := []string{"list-courses", "get-assignment-details", "get-my-todo-items"}
	for _, name := range names {
		require.NoError(t, registry.Register(echoTool(name, nil)))
	}

	listed := registry.List()
	require.Len(t, listed, len(names))
	for i, name := range names {
		require.Equal(t, name, listed[i].Name)
	}
}

func TestCallUnknownTool(t *testing.T) {
	registry := NewRegistry(testLogger())

	_, err := registry.Call(context.Background(), "no-such-tool", nil)
	require.ErrorIs(t, err, ErrUnknownTool)
	require.Contains(t, err.Error(), "no-such-tool")
}

func TestCallRejectsMissingRequiredArgument(t *testing.T) {
	registry := NewRegistry(testLogger())
	invoked := false
	require.NoError(t, registry.Register(echoTool("get-course-grade", &invoked)))

	_, err := registry.Call(context.Background(), "get-course-grade", map[string]interface{}{})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "get-course-grade", validationErr.Tool)
	require.False(t, invoked, "handler must not run on invalid arguments")
}

func TestCallRejectsWrongArgumentType(t *testing.T) {
	registry := NewRegistry(testLogger())
	invoked := false
	require.NoError(t, registry.Register(echoTool("get-course-grade", &invoked)))

	_, err := registry.Call(context.Background(), "get-course-grade", map[string]interface{}{
		"courseId": 42,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.False(t, invoked)
}

func TestCallInvokesHandler(t *testing.T) {
	registry := NewRegistry(testLogger())
	invoked := false
	require.NoError(t, registry.Register(echoTool("get-course-grade", &invoked)))

	result, err := registry.Call(context.Background(), "get-course-grade", map[string]interface{}{
		"courseId": "101",
	})
	require.NoError(t, err)
	require.Equal(t, "course 101", result)
	require.True(t, invoked)
}

func TestCallWrapsHandlerErrors(t *testing.T) {
	registry := NewRegistry(testLogger())
	cause := errors.New("remote unavailable")
	require.NoError(t, registry.Register(Tool{
		Name:        "list-courses",
		Description: "always fails",
		InputSchema: ObjectSchema(nil),
		Handler: func(context.Context, map[string]interface{}) (string, error) {
			return "", fmt.Errorf("listing courses: %w", cause)
		},
	}))

	_, err := registry.Call(context.Background(), "list-courses", nil)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "tool list-courses")
}
