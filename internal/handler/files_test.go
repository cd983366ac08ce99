package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jojohnathon/canvas-mcp/internal/models"
)

func TestFindFilesKeepsOnlyDisplayNameMatches(t *testing.T) {
	api := &stubAPI{
		searchFiles: func(ctx context.Context, courseID, term string) ([]models.CourseFile, error) {
			require.Equal(t, "syllabus", term)
			return []models.CourseFile{
				{DisplayName: "Syllabus-Fall.pdf", Size: 2048, ContentType: "application/pdf"},
				{DisplayName: "week1-notes.pdf", Size: 1024},
			}, nil
		},
	}
	h := NewFileHandler(api, testLogger())

	out, err := h.findFiles(context.Background(), map[string]interface{}{
		"courseId":   "42",
		"searchTerm": "syllabus",
	})
	require.NoError(t, err)
	require.Contains(t, out, "Syllabus-Fall.pdf")
	require.Contains(t, out, "Size: 2.00 KB")
	require.Contains(t, out, "Type: application/pdf")
	require.NotContains(t, out, "week1-notes.pdf")
}

func TestFindFilesNoMatches(t *testing.T) {
	api := &stubAPI{
		searchFiles: func(ctx context.Context, courseID, term string) ([]models.CourseFile, error) {
			return []models.CourseFile{{DisplayName: "unrelated.txt"}}, nil
		},
	}
	h := NewFileHandler(api, testLogger())

	out, err := h.findFiles(context.Background(), map[string]interface{}{
		"courseId":   "42",
		"searchTerm": "syllabus",
	})
	require.NoError(t, err)
	require.Equal(t, `No files matching "syllabus" found in course 42.`, out)
}

func TestListFiles(t *testing.T) {
	api := &stubAPI{
		listFiles: func(ctx context.Context, courseID string) ([]models.CourseFile, error) {
			return []models.CourseFile{
				{DisplayName: "empty.txt", Size: 0},
				{DisplayName: "tiny.txt", Size: 512},
				{DisplayName: "big.bin", Size: 5 * 1024 * 1024},
			}, nil
		},
	}
	h := NewFileHandler(api, testLogger())

	out, err := h.listFiles(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)
	require.Contains(t, out, "Size: 0 Bytes")
	require.Contains(t, out, "Size: 512 Bytes")
	require.Contains(t, out, "Size: 5.00 MB")
}

func TestListFilesEmpty(t *testing.T) {
	h := NewFileHandler(&stubAPI{}, testLogger())

	out, err := h.listFiles(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)
	require.Equal(t, "Course 42 has no files.", out)
}
