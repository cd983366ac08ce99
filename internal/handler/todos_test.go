package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jojohnathon/canvas-mcp/internal/models"
)

func TestTodoItemsRendersOptionalFields(t *testing.T) {
	due := time.Date(2023, 4, 12, 23, 59, 0, 0, time.UTC)
	api := &stubAPI{
		listTodoItems: func(ctx context.Context) ([]models.TodoItem, error) {
			return []models.TodoItem{
				{
					Type:        "submitting",
					ContextName: "Biology",
					HTMLURL:     "https://canvas.example.com/courses/42/assignments/10",
					Assignment:  &models.Assignment{Name: "Lab Report", DueAt: timePtr(due), PointsPossible: floatPtr(5)},
				},
				{
					Type:        "submitting",
					ContextName: "Chemistry",
					Assignment:  &models.Assignment{Name: "Problem Set"},
				},
			}, nil
		},
	}
	h := NewTodoHandler(api, testLogger())

	out, err := h.todoItems(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	require.Contains(t, out, "- Lab Report (Biology)")
	require.Contains(t, out, "Points: 5\n")
	require.Contains(t, out, "URL: https://canvas.example.com/courses/42/assignments/10")

	// An assignment without a due date or point value still renders, with
	// the due-date placeholder and no points line.
	require.Contains(t, out, "- Problem Set (Chemistry)")
	require.Contains(t, out, "Due Date: No due date")
}

func TestTodoItemsPreferItemTitle(t *testing.T) {
	api := &stubAPI{
		listTodoItems: func(ctx context.Context) ([]models.TodoItem, error) {
			return []models.TodoItem{{
				Type:        "submitting",
				Title:       "Read Chapter",
				ContextName: "History 101",
				Assignment:  &models.Assignment{Name: "Chapter Quiz", PointsPossible: floatPtr(5)},
			}}, nil
		},
	}
	h := NewTodoHandler(api, testLogger())

	out, err := h.todoItems(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	// The item's own title wins over the nested assignment name.
	require.Contains(t, out, "- Read Chapter (History 101)")
	require.NotContains(t, out, "- Chapter Quiz")
	require.Contains(t, out, "Points: 5\n")
}

func TestTodoItemsUntitledFallback(t *testing.T) {
	api := &stubAPI{
		listTodoItems: func(ctx context.Context) ([]models.TodoItem, error) {
			return []models.TodoItem{{Type: "grading", ContextName: "Biology"}}, nil
		},
	}
	h := NewTodoHandler(api, testLogger())

	out, err := h.todoItems(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	require.Contains(t, out, "- Untitled item (Biology)")
}

func TestTodoItemsEmpty(t *testing.T) {
	h := NewTodoHandler(&stubAPI{}, testLogger())

	out, err := h.todoItems(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	require.Equal(t, "Your todo list is empty. Nothing needs attention right now.", out)
}
