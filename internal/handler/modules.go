package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// ModuleHandler implements the course-module tool.
type ModuleHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewModuleHandler constructs the handler.
func NewModuleHandler(api CanvasAPI, logger zerolog.Logger) *ModuleHandler {
	return &ModuleHandler{
		api:    api,
		logger: logger.With().Str("component", "module_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *ModuleHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-course-modules",
			Description: "List the modules of a course in sequence, with their items.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
			}, "courseId"),
			Handler: h.listModules,
		},
	}
}

func (h *ModuleHandler) listModules(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")

	modules, err := h.api.ListModules(ctx, courseID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("list modules for course %s: %w", courseID, err)
	}

	if len(modules) == 0 {
		return fmt.Sprintf("Course %s has no modules.", courseID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Modules in course %s:\n", courseID)
	for _, module := range modules {
		b.WriteString("\n")
		fmt.Fprintf(&b, "- %s (ID: %d)\n", module.Name, module.ID)
		if module.State != "" {
			fmt.Fprintf(&b, "  State: %s\n", module.State)
		}
		if len(module.Items) > 0 {
			b.WriteString("  Items:\n")
			for _, item := range module.Items {
				fmt.Fprintf(&b, "    - %s [%s]\n", item.Title, item.Type)
			}
		} else if module.ItemsCount > 0 {
			fmt.Fprintf(&b, "  Items: %d\n", module.ItemsCount)
		}
	}

	return b.String(), nil
}
