package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/models"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// AssignmentHandler implements the assignment listing, detail, upcoming, and
// submission tools.
type AssignmentHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(api CanvasAPI, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		api:    api,
		logger: logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *AssignmentHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-assignments",
			Description: "List all assignments for a course, optionally with the student's submission, teacher comments, and submission history.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
				"studentId": map[string]interface{}{
					"type":        "string",
					"description": "Optional student ID; when present, submission details and teacher comments are included",
				},
				"includeSubmissionHistory": map[string]interface{}{
					"type":        "boolean",
					"description": "Include every historical submission attempt",
				},
			}, "courseId"),
			Handler: h.listAssignments,
		},
		{
			Name:        "get-assignment-details",
			Description: "Get full details for one assignment, including the student's submission state.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
				"assignmentId": map[string]interface{}{
					"type":        "string",
					"description": "The assignment ID",
				},
			}, "courseId", "assignmentId"),
			Handler: h.assignmentDetails,
		},
		{
			Name:        "get-upcoming-assignments",
			Description: "List upcoming assignments across every active course, sorted by due date.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}),
			Handler:     h.upcomingAssignments,
		},
		{
			Name:        "submit-assignment",
			Description: "Submit a text entry for an assignment.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
				"assignmentId": map[string]interface{}{
					"type":        "string",
					"description": "The assignment ID",
				},
				"submissionText": map[string]interface{}{
					"type":        "string",
					"description": "The text body to submit",
				},
			}, "courseId", "assignmentId", "submissionText"),
			Handler: h.submitAssignment,
		},
		{
			Name:        "add-submission-comment",
			Description: "Add a comment to the student's submission for an assignment.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
				"assignmentId": map[string]interface{}{
					"type":        "string",
					"description": "The assignment ID",
				},
				"comment": map[string]interface{}{
					"type":        "string",
					"description": "The comment text",
				},
			}, "courseId", "assignmentId", "comment"),
			Handler: h.addSubmissionComment,
		},
	}
}

func (h *AssignmentHandler) listAssignments(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	studentID := tools.StringArg(args, "studentId")
	includeHistory := tools.BoolArg(args, "includeSubmissionHistory")

	opts := canvas.AssignmentOptions{
		StudentID:         studentID,
		IncludeSubmission: studentID != "",
		IncludeHistory:    includeHistory,
	}

	assignments, err := h.api.ListAssignments(ctx, courseID, opts)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("list assignments for course %s: %w", courseID, err)
	}

	if len(assignments) == 0 {
		return fmt.Sprintf("No assignments found for course %s.", courseID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Assignments for course %s:\n", courseID)
	for _, assignment := range assignments {
		b.WriteString("\n")
		h.renderAssignment(&b, assignment, includeHistory)
	}

	return b.String(), nil
}

func (h *AssignmentHandler) renderAssignment(b *strings.Builder, assignment models.Assignment, includeHistory bool) {
	fmt.Fprintf(b, "- %s (ID: %d)\n", assignment.Name, assignment.ID)
	fmt.Fprintf(b, "  Due Date: %s\n", formatDueDate(assignment.DueAt))
	fmt.Fprintf(b, "  Points: %s\n", formatPoints(assignment.PointsPossible))
	if !assignment.Published {
		b.WriteString("  Unpublished\n")
	}

	submission := assignment.Submission
	if submission == nil {
		return
	}

	if submission.SubmittedAt != nil {
		fmt.Fprintf(b, "  Submitted: %s\n", formatDate(submission.SubmittedAt))
	} else {
		b.WriteString("  Submitted: not yet\n")
	}
	fmt.Fprintf(b, "  Score: %s", formatScore(submission.Score))
	if submission.Grade != nil {
		fmt.Fprintf(b, " (%s)", *submission.Grade)
	}
	b.WriteString("\n")
	if submission.Late {
		b.WriteString("  Late\n")
	}
	if submission.Missing {
		b.WriteString("  Missing\n")
	}

	// Comments from non-teacher roles stay out of this section entirely.
	teacherComments := make([]models.SubmissionComment, 0, len(submission.SubmissionComments))
	for _, comment := range submission.SubmissionComments {
		if comment.AuthoredByTeacher() {
			teacherComments = append(teacherComments, comment)
		}
	}
	if len(teacherComments) > 0 {
		b.WriteString("  Teacher Comments:\n")
		for _, comment := range teacherComments {
			author := "Teacher"
			if comment.Author != nil && comment.Author.DisplayName != "" {
				author = comment.Author.DisplayName
			}
			fmt.Fprintf(b, "    - %s (%s): %s\n", author, formatDate(comment.CreatedAt), stripHTML(comment.Comment))
		}
	}

	if includeHistory && len(submission.SubmissionHistory) > 0 {
		b.WriteString("  Submission History:\n")
		for _, attempt := range submission.SubmissionHistory {
			fmt.Fprintf(b, "    - Attempt %d (%s): score %s, grade %s, type %s\n",
				attempt.Attempt,
				formatDate(attempt.SubmittedAt),
				formatScore(attempt.Score),
				orDefault(attempt.Grade, "none"),
				attempt.SubmissionType)
		}
	}
}

func (h *AssignmentHandler) assignmentDetails(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	assignmentID := tools.StringArg(args, "assignmentId")

	assignment, err := h.api.GetAssignment(ctx, courseID, assignmentID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("assignment %s not found in course %s", assignmentID, courseID)
		}
		return "", fmt.Errorf("fetch assignment %s: %w", assignmentID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", assignment.Name)
	fmt.Fprintf(&b, "Due Date: %s\n", formatDueDate(assignment.DueAt))
	fmt.Fprintf(&b, "Points: %s\n", formatPoints(assignment.PointsPossible))
	if assignment.HTMLURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", assignment.HTMLURL)
	}
	if description := stripHTML(assignment.Description); description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", description)
	}
	if submission := assignment.Submission; submission != nil {
		b.WriteString("\nYour submission:\n")
		if submission.SubmittedAt != nil {
			fmt.Fprintf(&b, "Submitted: %s\n", formatDate(submission.SubmittedAt))
		} else {
			b.WriteString("Submitted: not yet\n")
		}
		fmt.Fprintf(&b, "Score: %s\n", formatScore(submission.Score))
	}

	return b.String(), nil
}

// courseAssignments pairs one course with its upcoming bucket, so results
// from the concurrent fetches can be merged deterministically afterwards.
type courseAssignments struct {
	course      models.Course
	assignments []models.Assignment
}

func (h *AssignmentHandler) upcomingAssignments(ctx context.Context, args map[string]interface{}) (string, error) {
	courses, err := h.api.ListActiveCourses(ctx)
	if err != nil {
		return "", fmt.Errorf("list courses: %w", err)
	}

	active := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if course.Available() {
			active = append(active, course)
		}
	}
	if len(active) == 0 {
		return "You have no active courses, so there are no upcoming assignments.", nil
	}

	// Fan out one fetch per course. A failing course degrades to an empty
	// list for that course only; it never fails the whole report.
	results := make([]courseAssignments, len(active))
	var wg sync.WaitGroup
	for i, course := range active {
		wg.Add(1)
		go func(i int, course models.Course) {
			defer wg.Done()
			assignments, err := h.api.ListUpcomingAssignments(ctx, course.ID)
			if err != nil {
				h.logger.Warn().Err(err).Int64("course_id", course.ID).Msg("skipping course with failed assignment fetch")
				assignments = nil
			}
			results[i] = courseAssignments{course: course, assignments: assignments}
		}(i, course)
	}
	wg.Wait()

	type upcomingEntry struct {
		assignment models.Assignment
		courseName string
	}
	var entries []upcomingEntry
	for _, result := range results {
		for _, assignment := range result.assignments {
			entries = append(entries, upcomingEntry{assignment: assignment, courseName: result.course.Name})
		}
	}

	if len(entries) == 0 {
		return "No upcoming assignments found in any of your courses.", nil
	}

	// Concurrent fetches finish in arbitrary order; sort explicitly by due
	// date ascending, assignments without one last.
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := entries[i].assignment.DueAt, entries[j].assignment.DueAt
		if left == nil {
			return false
		}
		if right == nil {
			return true
		}
		return left.Before(*right)
	})

	var b strings.Builder
	b.WriteString("Upcoming assignments across your courses:\n")
	for _, entry := range entries {
		b.WriteString("\n")
		fmt.Fprintf(&b, "- %s (%s)\n", entry.assignment.Name, entry.courseName)
		fmt.Fprintf(&b, "  Due Date: %s\n", formatDueDate(entry.assignment.DueAt))
		fmt.Fprintf(&b, "  Points: %s\n", formatPoints(entry.assignment.PointsPossible))
	}

	return b.String(), nil
}

func (h *AssignmentHandler) submitAssignment(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	assignmentID := tools.StringArg(args, "assignmentId")
	text := tools.StringArg(args, "submissionText")

	submission, err := h.api.SubmitAssignment(ctx, courseID, assignmentID, text)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("assignment %s not found in course %s", assignmentID, courseID)
		}
		return "", fmt.Errorf("submit assignment %s: %w", assignmentID, err)
	}

	when := "just now"
	if submission.SubmittedAt != nil {
		when = formatDate(submission.SubmittedAt)
	}
	return fmt.Sprintf("Assignment %s submitted successfully (%s).", assignmentID, when), nil
}

func (h *AssignmentHandler) addSubmissionComment(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	assignmentID := tools.StringArg(args, "assignmentId")
	comment := tools.StringArg(args, "comment")

	if err := h.api.AddSubmissionComment(ctx, courseID, assignmentID, comment); err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("assignment %s not found in course %s", assignmentID, courseID)
		}
		return "", fmt.Errorf("add comment to assignment %s: %w", assignmentID, err)
	}

	return fmt.Sprintf("Comment added to your submission for assignment %s.", assignmentID), nil
}
