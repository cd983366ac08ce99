// Package handler implements one handler per tool: each composes the Canvas
// client into a cohesive operation and renders a formatted text report.
package handler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/models"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// CanvasAPI is the remote surface the handlers consume. *canvas.Client
// implements it; tests substitute stubs.
type CanvasAPI interface {
	ListActiveCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, courseID string) (models.Course, error)
	ListEnrollments(ctx context.Context, courseID string) ([]models.Enrollment, error)
	ListAssignments(ctx context.Context, courseID string, opts canvas.AssignmentOptions) ([]models.Assignment, error)
	GetAssignment(ctx context.Context, courseID, assignmentID string) (models.Assignment, error)
	ListUpcomingAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error)
	ListAnnouncements(ctx context.Context, contextCodes []string, startDate time.Time) ([]models.Announcement, error)
	SearchFiles(ctx context.Context, courseID, term string) ([]models.CourseFile, error)
	ListFiles(ctx context.Context, courseID string) ([]models.CourseFile, error)
	ListPages(ctx context.Context, courseID string) ([]models.Page, error)
	GetPage(ctx context.Context, courseID, slug string) (models.Page, error)
	ListModules(ctx context.Context, courseID string) ([]models.Module, error)
	ListTodoItems(ctx context.Context) ([]models.TodoItem, error)
	ListQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error)
	ListQuizSubmissions(ctx context.Context, courseID string, quizID int64) ([]models.QuizSubmission, error)
	ListDiscussionTopics(ctx context.Context, courseID string) ([]models.DiscussionTopic, error)
	PostDiscussionEntry(ctx context.Context, courseID, topicID, message string) (models.DiscussionEntry, error)
	SubmitAssignment(ctx context.Context, courseID, assignmentID, text string) (models.Submission, error)
	AddSubmissionComment(ctx context.Context, courseID, assignmentID, comment string) error
}

var _ CanvasAPI = (*canvas.Client)(nil)

// RegisterAll wires every tool handler into the registry.
func RegisterAll(registry *tools.Registry, api CanvasAPI, logger zerolog.Logger) {
	courses := NewCourseHandler(api, logger)
	assignments := NewAssignmentHandler(api, logger)
	announcements := NewAnnouncementHandler(api, logger)
	files := NewFileHandler(api, logger)
	pages := NewPageHandler(api, logger)
	modules := NewModuleHandler(api, logger)
	todos := NewTodoHandler(api, logger)
	quizzes := NewQuizHandler(api, logger)
	discussions := NewDiscussionHandler(api, logger)
	officeHours := NewOfficeHoursHandler(api, logger)

	for _, handler := range []interface{ Tools() []tools.Tool }{
		courses, assignments, announcements, files, pages, modules, todos, quizzes, discussions, officeHours,
	} {
		for _, tool := range handler.Tools() {
			registry.MustRegister(tool)
		}
	}
}

// courseIDProperty is the schema fragment shared by every course-scoped tool.
func courseIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "The Canvas course ID",
	}
}
