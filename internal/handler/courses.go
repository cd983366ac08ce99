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

// CourseHandler implements the course listing and grade tools.
type CourseHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(api CanvasAPI, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		api:    api,
		logger: logger.With().Str("component", "course_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *CourseHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-courses",
			Description: "List all courses the student is actively enrolled in, with term, ID, and course code.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}),
			Handler:     h.listCourses,
		},
		{
			Name:        "get-course-grade",
			Description: "Get the student's current and final grade for a course.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
			}, "courseId"),
			Handler: h.courseGrade,
		},
	}
}

func (h *CourseHandler) listCourses(ctx context.Context, args map[string]interface{}) (string, error) {
	courses, err := h.api.ListActiveCourses(ctx)
	if err != nil {
		return "", fmt.Errorf("list courses: %w", err)
	}

	var b strings.Builder
	count := 0
	for _, course := range courses {
		if !course.Available() {
			continue
		}
		count++

		b.WriteString("- ")
		b.WriteString(course.Name)
		if course.Term != nil && course.Term.Name != "" {
			fmt.Fprintf(&b, " (%s)", course.Term.Name)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "  ID: %d\n", course.ID)
		fmt.Fprintf(&b, "  Code: %s\n", course.CourseCode)
	}

	if count == 0 {
		return "You have no active courses.", nil
	}

	return fmt.Sprintf("Your active courses:\n\n%s", b.String()), nil
}

func (h *CourseHandler) courseGrade(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")

	course, err := h.api.GetCourse(ctx, courseID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("fetch course %s: %w", courseID, err)
	}

	enrollments, err := h.api.ListEnrollments(ctx, courseID)
	if err != nil {
		return "", fmt.Errorf("fetch enrollments for course %s: %w", courseID, err)
	}

	var student *models.Enrollment
	for i := range enrollments {
		if enrollments[i].Student() {
			student = &enrollments[i]
			break
		}
	}

	// Absence of a student enrollment is a valid outcome, not an error.
	if student == nil {
		return fmt.Sprintf("No student enrollment found for %s (course %s).", course.Name, courseID), nil
	}

	grades := student.Grades

	var b strings.Builder
	fmt.Fprintf(&b, "Grades for %s (course %d):\n\n", course.Name, course.ID)
	if grades == nil {
		b.WriteString("No grade information is available yet.")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Current Grade: %s\n", orDefault(grades.CurrentGrade, "not available"))
	fmt.Fprintf(&b, "Current Score: %s\n", formatScore(grades.CurrentScore))
	fmt.Fprintf(&b, "Final Grade: %s\n", orDefault(grades.FinalGrade, "not available"))
	fmt.Fprintf(&b, "Final Score: %s\n", formatScore(grades.FinalScore))
	if grades.HTMLURL != "" {
		fmt.Fprintf(&b, "Gradebook: %s\n", grades.HTMLURL)
	}

	return b.String(), nil
}
