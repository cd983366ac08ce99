package canvas

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jojohnathon/canvas-mcp/internal/models"
)

// ListActiveCourses fetches every course the caller is actively enrolled in,
// with term metadata included. This is the highest-traffic entry point, so it
// is the one wrapped by the transient-failure retry policy.
func (c *Client) ListActiveCourses(ctx context.Context) ([]models.Course, error) {
	query := url.Values{}
	query.Set("enrollment_state", "active")
	query.Add("include[]", "term")

	var courses []models.Course
	err := c.withRetry(ctx, "list courses", func() error {
		var innerErr error
		courses, innerErr = FetchAllPages[models.Course](ctx, c, "/courses", query)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse fetches a single course by id.
func (c *Client) GetCourse(ctx context.Context, courseID string) (models.Course, error) {
	var course models.Course
	if err := c.Get(ctx, fmt.Sprintf("/courses/%s", courseID), nil, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// ListEnrollments fetches the caller's enrollment records for a course.
func (c *Client) ListEnrollments(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	query := url.Values{}
	query.Set("user_id", "self")
	return FetchAllPages[models.Enrollment](ctx, c, fmt.Sprintf("/courses/%s/enrollments", courseID), query)
}

// AssignmentOptions scope what ListAssignments asks Canvas to include.
type AssignmentOptions struct {
	StudentID         string
	IncludeSubmission bool
	IncludeHistory    bool
}

// ListAssignments paginates the full assignment collection for a course.
func (c *Client) ListAssignments(ctx context.Context, courseID string, opts AssignmentOptions) ([]models.Assignment, error) {
	query := url.Values{}
	if opts.IncludeSubmission {
		// A submission request always carries comments and history; the
		// caller decides which of them to surface.
		query.Add("include[]", "submission")
		query.Add("include[]", "submission_comments")
		query.Add("include[]", "submission_history")
	} else if opts.IncludeHistory {
		query.Add("include[]", "submission_history")
	}
	return FetchAllPages[models.Assignment](ctx, c, fmt.Sprintf("/courses/%s/assignments", courseID), query)
}

// GetAssignment fetches a single assignment with the caller's submission.
func (c *Client) GetAssignment(ctx context.Context, courseID, assignmentID string) (models.Assignment, error) {
	query := url.Values{}
	query.Add("include[]", "submission")

	var assignment models.Assignment
	path := fmt.Sprintf("/courses/%s/assignments/%s", courseID, assignmentID)
	if err := c.Get(ctx, path, query, &assignment); err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// ListUpcomingAssignments fetches the "upcoming" assignment bucket for a course.
func (c *Client) ListUpcomingAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	query := url.Values{}
	query.Set("bucket", "upcoming")
	query.Add("include[]", "submission")
	return FetchAllPages[models.Assignment](ctx, c, fmt.Sprintf("/courses/%d/assignments", courseID), query)
}

// ListAnnouncements fetches announcements for the given context codes
// ("course_<id>") posted on or after startDate.
func (c *Client) ListAnnouncements(ctx context.Context, contextCodes []string, startDate time.Time) ([]models.Announcement, error) {
	query := url.Values{}
	for _, code := range contextCodes {
		query.Add("context_codes[]", code)
	}
	if !startDate.IsZero() {
		query.Set("start_date", startDate.UTC().Format("2006-01-02"))
	}
	return FetchAllPages[models.Announcement](ctx, c, "/announcements", query)
}

// SearchFiles runs Canvas's file search for a course. The match is a
// case-insensitive substring test against display names, performed remotely.
func (c *Client) SearchFiles(ctx context.Context, courseID, term string) ([]models.CourseFile, error) {
	query := url.Values{}
	query.Set("search_term", term)
	return FetchAllPages[models.CourseFile](ctx, c, fmt.Sprintf("/courses/%s/files", courseID), query)
}

// ListFiles fetches every file in a course.
func (c *Client) ListFiles(ctx context.Context, courseID string) ([]models.CourseFile, error) {
	return FetchAllPages[models.CourseFile](ctx, c, fmt.Sprintf("/courses/%s/files", courseID), nil)
}

// ListPages fetches the published wiki pages of a course. List views carry no
// page body; fetch individual pages for content.
func (c *Client) ListPages(ctx context.Context, courseID string) ([]models.Page, error) {
	query := url.Values{}
	query.Set("published", "true")
	return FetchAllPages[models.Page](ctx, c, fmt.Sprintf("/courses/%s/pages", courseID), query)
}

// GetPage fetches a single wiki page, including its body, by URL slug.
func (c *Client) GetPage(ctx context.Context, courseID, slug string) (models.Page, error) {
	var page models.Page
	path := fmt.Sprintf("/courses/%s/pages/%s", courseID, url.PathEscape(slug))
	if err := c.Get(ctx, path, nil, &page); err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// ListModules paginates the modules of a course, with their items included.
func (c *Client) ListModules(ctx context.Context, courseID string) ([]models.Module, error) {
	query := url.Values{}
	query.Add("include[]", "items")
	return FetchAllPages[models.Module](ctx, c, fmt.Sprintf("/courses/%s/modules", courseID), query)
}

// ListTodoItems fetches the caller's todo list.
func (c *Client) ListTodoItems(ctx context.Context) ([]models.TodoItem, error) {
	return FetchAllPages[models.TodoItem](ctx, c, "/users/self/todo", nil)
}

// ListQuizzes paginates the quizzes of a course.
func (c *Client) ListQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error) {
	return FetchAllPages[models.Quiz](ctx, c, fmt.Sprintf("/courses/%s/quizzes", courseID), nil)
}

// ListQuizSubmissions fetches the caller's submissions for one quiz. Canvas
// nests them under a "quiz_submissions" envelope rather than returning a
// bare array.
func (c *Client) ListQuizSubmissions(ctx context.Context, courseID string, quizID int64) ([]models.QuizSubmission, error) {
	var envelope struct {
		QuizSubmissions []models.QuizSubmission `json:"quiz_submissions"`
	}
	path := fmt.Sprintf("/courses/%s/quizzes/%d/submissions", courseID, quizID)
	if err := c.Get(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.QuizSubmissions, nil
}

// ListDiscussionTopics paginates the discussion topics of a course.
func (c *Client) ListDiscussionTopics(ctx context.Context, courseID string) ([]models.DiscussionTopic, error) {
	return FetchAllPages[models.DiscussionTopic](ctx, c, fmt.Sprintf("/courses/%s/discussion_topics", courseID), nil)
}

// PostDiscussionEntry posts a reply to a discussion topic.
func (c *Client) PostDiscussionEntry(ctx context.Context, courseID, topicID, message string) (models.DiscussionEntry, error) {
	payload := map[string]string{"message": message}

	var entry models.DiscussionEntry
	path := fmt.Sprintf("/courses/%s/discussion_topics/%s/entries", courseID, topicID)
	if err := c.Post(ctx, path, payload, &entry); err != nil {
		return models.DiscussionEntry{}, err
	}
	return entry, nil
}

// SubmitAssignment submits a text entry for an assignment on behalf of the caller.
func (c *Client) SubmitAssignment(ctx context.Context, courseID, assignmentID, text string) (models.Submission, error) {
	payload := map[string]map[string]string{
		"submission": {
			"submission_type": "online_text_entry",
			"body":            text,
		},
	}

	var submission models.Submission
	path := fmt.Sprintf("/courses/%s/assignments/%s/submissions", courseID, assignmentID)
	if err := c.Post(ctx, path, payload, &submission); err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

// AddSubmissionComment attaches a text comment to the caller's submission.
func (c *Client) AddSubmissionComment(ctx context.Context, courseID, assignmentID, comment string) error {
	payload := map[string]map[string]string{
		"comment": {"text_comment": comment},
	}
	path := fmt.Sprintf("/courses/%s/assignments/%s/submissions/self", courseID, assignmentID)
	return c.Put(ctx, path, payload, nil)
}
