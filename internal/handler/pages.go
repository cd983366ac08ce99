package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// PageHandler implements the wiki page tools.
type PageHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewPageHandler constructs the handler.
func NewPageHandler(api CanvasAPI, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		api:    api,
		logger: logger.With().Str("component", "page_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *PageHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-pages",
			Description: "List the published wiki pages of a course.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
			}, "courseId"),
			Handler: h.listPages,
		},
		{
			Name:        "get-page-content",
			Description: "Fetch the full text content of one wiki page by its URL slug.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
				"pageUrl": map[string]interface{}{
					"type":        "string",
					"description": "The page's URL slug (from list-pages)",
				},
			}, "courseId", "pageUrl"),
			Handler: h.pageContent,
		},
	}
}

func (h *PageHandler) listPages(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")

	pages, err := h.api.ListPages(ctx, courseID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("list pages for course %s: %w", courseID, err)
	}

	if len(pages) == 0 {
		return fmt.Sprintf("Course %s has no published pages.", courseID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Published pages in course %s:\n\n", courseID)
	for _, page := range pages {
		fmt.Fprintf(&b, "- %s\n", page.Title)
		fmt.Fprintf(&b, "  Slug: %s\n", page.URL)
	}

	return b.String(), nil
}

func (h *PageHandler) pageContent(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	slug := tools.StringArg(args, "pageUrl")

	page, err := h.api.GetPage(ctx, courseID, slug)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("page %q not found in course %s", slug, courseID)
		}
		return "", fmt.Errorf("fetch page %q: %w", slug, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", page.Title)
	body := stripHTML(page.Body)
	if body == "" {
		b.WriteString("This page has no text content.")
	} else {
		b.WriteString(body)
	}

	return b.String(), nil
}
