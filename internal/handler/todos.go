package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// TodoHandler implements the todo-list tool.
type TodoHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewTodoHandler constructs the handler.
func NewTodoHandler(api CanvasAPI, logger zerolog.Logger) *TodoHandler {
	return &TodoHandler{
		api:    api,
		logger: logger.With().Str("component", "todo_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *TodoHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "get-my-todo-items",
			Description: "List the student's current todo items across all courses.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}),
			Handler:     h.todoItems,
		},
	}
}

func (h *TodoHandler) todoItems(ctx context.Context, args map[string]interface{}) (string, error) {
	items, err := h.api.ListTodoItems(ctx)
	if err != nil {
		return "", fmt.Errorf("list todo items: %w", err)
	}

	if len(items) == 0 {
		return "Your todo list is empty. Nothing needs attention right now.", nil
	}

	var b strings.Builder
	b.WriteString("Your todo items:\n")
	for _, item := range items {
		b.WriteString("\n")
		fmt.Fprintf(&b, "- %s (%s)\n", item.DisplayTitle(), item.ContextName)
		if item.Type != "" {
			fmt.Fprintf(&b, "  Type: %s\n", item.Type)
		}
		if assignment := item.Assignment; assignment != nil {
			fmt.Fprintf(&b, "  Due Date: %s\n", formatDueDate(assignment.DueAt))
			if assignment.PointsPossible != nil {
				fmt.Fprintf(&b, "  Points: %s\n", formatPoints(assignment.PointsPossible))
			}
		}
		if item.HTMLURL != "" {
			fmt.Fprintf(&b, "  URL: %s\n", item.HTMLURL)
		}
	}

	return b.String(), nil
}
