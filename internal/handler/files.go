package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/models"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// FileHandler implements the course file tools.
type FileHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewFileHandler constructs the handler.
func NewFileHandler(api CanvasAPI, logger zerolog.Logger) *FileHandler {
	return &FileHandler{
		api:    api,
		logger: logger.With().Str("component", "file_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *FileHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "find-course-files",
			Description: "Search a course's files by display name (case-insensitive substring match).",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
				"searchTerm": map[string]interface{}{
					"type":        "string",
					"description": "Substring to match against file display names",
				},
			}, "courseId", "searchTerm"),
			Handler: h.findFiles,
		},
		{
			Name:        "list-course-files",
			Description: "List every file in a course with size and type.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
			}, "courseId"),
			Handler: h.listFiles,
		},
	}
}

func (h *FileHandler) findFiles(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	searchTerm := tools.StringArg(args, "searchTerm")

	files, err := h.api.SearchFiles(ctx, courseID, searchTerm)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("search files in course %s: %w", courseID, err)
	}

	// The remote search may match on other metadata; keep only genuine
	// display-name matches.
	matches := files[:0]
	for _, file := range files {
		if containsFold(file.DisplayName, searchTerm) {
			matches = append(matches, file)
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No files matching %q found in course %s.", searchTerm, courseID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Files matching %q in course %s:\n", searchTerm, courseID)
	for _, file := range matches {
		renderFile(&b, file)
	}

	return b.String(), nil
}

func (h *FileHandler) listFiles(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")

	files, err := h.api.ListFiles(ctx, courseID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("list files in course %s: %w", courseID, err)
	}

	if len(files) == 0 {
		return fmt.Sprintf("Course %s has no files.", courseID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Files in course %s:\n", courseID)
	for _, file := range files {
		renderFile(&b, file)
	}

	return b.String(), nil
}

func renderFile(b *strings.Builder, file models.CourseFile) {
	b.WriteString("\n")
	fmt.Fprintf(b, "- %s\n", file.DisplayName)
	fmt.Fprintf(b, "  Size: %s\n", formatFileSize(file.Size))
	if file.ContentType != "" {
		fmt.Fprintf(b, "  Type: %s\n", file.ContentType)
	}
	fmt.Fprintf(b, "  Updated: %s\n", formatDate(file.UpdatedAt))
	if file.URL != "" {
		fmt.Fprintf(b, "  URL: %s\n", file.URL)
	}
}
