package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jojohnathon/canvas-mcp/internal/models"
)

func TestListPages(t *testing.T) {
	api := &stubAPI{
		listPages: func(ctx context.Context, courseID string) ([]models.Page, error) {
			return []models.Page{
				{URL: "course-syllabus", Title: "Course Syllabus", Published: true},
				{URL: "week-1", Title: "Week 1", Published: true},
			}, nil
		},
	}
	h := NewPageHandler(api, testLogger())

	out, err := h.listPages(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)
	require.Contains(t, out, "Published pages in course 42:")
	require.Contains(t, out, "- Course Syllabus\n  Slug: course-syllabus\n")
	require.Contains(t, out, "- Week 1\n  Slug: week-1\n")
}

func TestListPagesEmpty(t *testing.T) {
	h := NewPageHandler(&stubAPI{}, testLogger())

	out, err := h.listPages(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)
	require.Equal(t, "Course 42 has no published pages.", out)
}

func TestPageContentStripsMarkup(t *testing.T) {
	api := &stubAPI{
		getPage: func(ctx context.Context, courseID, slug string) (models.Page, error) {
			require.Equal(t, "course-syllabus", slug)
			return models.Page{
				URL:   slug,
				Title: "Course Syllabus",
				Body:  "<h2>Office Hours</h2><p>Tuesdays &amp; Thursdays, 2-4pm</p>",
			}, nil
		},
	}
	h := NewPageHandler(api, testLogger())

	out, err := h.pageContent(context.Background(), map[string]interface{}{
		"courseId": "42",
		"pageUrl":  "course-syllabus",
	})
	require.NoError(t, err)
	require.Contains(t, out, "Course Syllabus")
	require.Contains(t, out, "Tuesdays & Thursdays, 2-4pm")
	require.NotContains(t, out, "<p>")
}

func TestPageContentEmptyBody(t *testing.T) {
	api := &stubAPI{
		getPage: func(ctx context.Context, courseID, slug string) (models.Page, error) {
			return models.Page{URL: slug, Title: "Blank"}, nil
		},
	}
	h := NewPageHandler(api, testLogger())

	out, err := h.pageContent(context.Background(), map[string]interface{}{
		"courseId": "42",
		"pageUrl":  "blank",
	})
	require.NoError(t, err)
	require.Contains(t, out, "This page has no text content.")
}
