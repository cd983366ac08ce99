package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jojohnathon/canvas-mcp/internal/models"
)

func TestListCoursesFiltersUnavailableCourses(t *testing.T) {
	api := &stubAPI{
		listActiveCourses: func(ctx context.Context) ([]models.Course, error) {
			return []models.Course{
				{ID: 1, Name: "Course A", CourseCode: "A101", WorkflowState: "available", Term: &models.Term{Name: "Fall"}},
				{ID: 2, Name: "Course B", CourseCode: "B202", WorkflowState: "unpublished"},
			}, nil
		},
	}
	h := NewCourseHandler(api, testLogger())

	out, err := h.listCourses(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	require.Contains(t, out, "Your active courses:")
	require.Contains(t, out, "- Course A (Fall)\n")
	require.Contains(t, out, "  ID: 1\n")
	require.Contains(t, out, "  Code: A101\n")
	require.NotContains(t, out, "Course B")
}

func TestListCoursesEmpty(t *testing.T) {
	api := &stubAPI{
		listActiveCourses: func(ctx context.Context) ([]models.Course, error) {
			return []models.Course{
				{ID: 3, Name: "Old Course", WorkflowState: "completed"},
			}, nil
		},
	}
	h := NewCourseHandler(api, testLogger())

	out, err := h.listCourses(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	require.Equal(t, "You have no active courses.", out)
}

func TestListCoursesPropagatesAPIError(t *testing.T) {
	cause := errors.New("boom")
	api := &stubAPI{
		listActiveCourses: func(ctx context.Context) ([]models.Course, error) {
			return nil, cause
		},
	}
	h := NewCourseHandler(api, testLogger())

	_, err := h.listCourses(context.Background(), map[string]interface{}{})
	require.ErrorIs(t, err, cause)
}

func TestCourseGradeRendersStudentGrades(t *testing.T) {
	api := &stubAPI{
		getCourse: func(ctx context.Context, courseID string) (models.Course, error) {
			require.Equal(t, "42", courseID)
			return models.Course{ID: 42, Name: "Biology", WorkflowState: "available"}, nil
		},
		listEnrollments: func(ctx context.Context, courseID string) ([]models.Enrollment, error) {
			return []models.Enrollment{
				{Type: "TeacherEnrollment"},
				{Type: "StudentEnrollment", Grades: &models.EnrollmentGrades{
					CurrentGrade: stringPtr("A-"),
					CurrentScore: floatPtr(92),
					FinalGrade:   stringPtr("A-"),
					FinalScore:   floatPtr(91.5),
				}},
			}, nil
		},
	}
	h := NewCourseHandler(api, testLogger())

	out, err := h.courseGrade(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)

	require.Contains(t, out, "Grades for Biology (course 42):")
	require.Contains(t, out, "Current Grade: A-\n")
	require.Contains(t, out, "Current Score: 92\n")
	require.Contains(t, out, "Final Score: 91.5\n")
}

func TestCourseGradeWithoutStudentEnrollment(t *testing.T) {
	api := &stubAPI{
		getCourse: func(ctx context.Context, courseID string) (models.Course, error) {
			return models.Course{ID: 42, Name: "Biology"}, nil
		},
		listEnrollments: func(ctx context.Context, courseID string) ([]models.Enrollment, error) {
			return []models.Enrollment{{Type: "TeacherEnrollment"}}, nil
		},
	}
	h := NewCourseHandler(api, testLogger())

	out, err := h.courseGrade(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)
	require.Equal(t, "No student enrollment found for Biology (course 42).", out)
}

func TestCourseGradeWithoutGradeData(t *testing.T) {
	api := &stubAPI{
		getCourse: func(ctx context.Context, courseID string) (models.Course, error) {
			return models.Course{ID: 42, Name: "Biology"}, nil
		},
		listEnrollments: func(ctx context.Context, courseID string) ([]models.Enrollment, error) {
			return []models.Enrollment{{Type: "StudentEnrollment"}}, nil
		},
	}
	h := NewCourseHandler(api, testLogger())

	out, err := h.courseGrade(context.Background(), map[string]interface{}{"courseId": "42"})
	require.NoError(t, err)
	require.Contains(t, out, "No grade information is available yet.")
}
