package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jojohnathon/canvas-mcp/internal/models"
)

func TestListModules(t *testing.T) {
	api := &stubAPI{
		listModules: func(ctx context.Context, courseID string) ([]models.Module, error) {
			require.Equal(t, "42", courseID)
			return []models.Module{
				{
					ID: 1, Name: "Week 1: Foundations", State: "completed",
					Items: []models.ModuleItem{
						{Title: "Course Syllabus", Type: "Page"},
						{Title: "Lab Report", Type: "Assignment"},
					},
				},
				{ID: 2, Name: "Week 2: Cells", State: "unlocked", ItemsCount: 3},
			}, nil
		},
	}
	h := NewModuleHandler(api, testLogger())

	out, err := h.listModules(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)

	require.Contains(t, out, "Modules in course 42:")
	require.Contains(t, out, "- Week 1: Foundations (ID: 1)")
	require.Contains(t, out, "State: completed")
	require.Contains(t, out, "    - Course Syllabus [Page]")
	require.Contains(t, out, "    - Lab Report [Assignment]")

	// A module without included items falls back to the item count.
	require.Contains(t, out, "- Week 2: Cells (ID: 2)")
	require.Contains(t, out, "Items: 3\n")
}

func TestListModulesEmpty(t *testing.T) {
	h := NewModuleHandler(&stubAPI{}, testLogger())

	out, err := h.listModules(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)
	require.Equal(t, "Course 42 has no modules.", out)
}

func TestListModulesPropagatesAPIError(t *testing.T) {
	cause := errors.New("boom")
	api := &stubAPI{
		listModules: func(ctx context.Context, courseID string) ([]models.Module, error) {
			return nil, cause
		},
	}
	h := NewModuleHandler(api, testLogger())

	_, err := h.listModules(context.Background(), map[string]interface{}{"courseId": "42"})
	require.ErrorIs(t, err, cause)
}
