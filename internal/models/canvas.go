package models

import "time"

// Course is a Canvas course as returned by the courses endpoints.
type Course struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	CourseCode    string  `json:"course_code"`
	WorkflowState string  `json:"workflow_state"`
	Term          *Term   `json:"term,omitempty"`
	Syllabus      string  `json:"syllabus_body,omitempty"`
	EnrollmentIDs []int64 `json:"-"`
}

// Term is the enrollment term attached to a course when include[]=term is requested.
type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Available reports whether the course is published and visible to students.
func (c Course) Available() bool {
	return c.WorkflowState == "available"
}

// Assignment is a Canvas assignment, optionally carrying the caller's submission.
type Assignment struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	DueAt          *time.Time  `json:"due_at"`
	PointsPossible *float64    `json:"points_possible"`
	Published      bool        `json:"published"`
	HTMLURL        string      `json:"html_url"`
	Submission     *Submission `json:"submission,omitempty"`
}

// Submission is the caller's submission state for one assignment.
type Submission struct {
	SubmittedAt        *time.Time          `json:"submitted_at"`
	Score              *float64            `json:"score"`
	Grade              *string             `json:"grade"`
	Late               bool                `json:"late"`
	Missing            bool                `json:"missing"`
	SubmissionType     string              `json:"submission_type"`
	WorkflowState      string              `json:"workflow_state"`
	SubmissionComments []SubmissionComment `json:"submission_comments,omitempty"`
	SubmissionHistory  []SubmissionAttempt `json:"submission_history,omitempty"`
}

// SubmissionComment is a single comment left on a submission.
type SubmissionComment struct {
	ID        int64          `json:"id"`
	Comment   string         `json:"comment"`
	CreatedAt *time.Time     `json:"created_at"`
	Author    *CommentAuthor `json:"author,omitempty"`
}

// CommentAuthor identifies who wrote a submission comment. Role carries the
// enrollment role names Canvas reports (e.g. "TeacherEnrollment").
type CommentAuthor struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role,omitempty"`
}

// AuthoredByTeacher reports whether the comment came from a teacher or TA role.
func (c SubmissionComment) AuthoredByTeacher() bool {
	if c.Author == nil {
		return false
	}
	switch c.Author.Role {
	case "TeacherEnrollment", "TaEnrollment", "teacher", "ta":
		return true
	}
	return false
}

// SubmissionAttempt is one historical attempt from submission_history.
type SubmissionAttempt struct {
	Attempt        int        `json:"attempt"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	Score          *float64   `json:"score"`
	Grade          *string    `json:"grade"`
	SubmissionType string     `json:"submission_type"`
}

// Enrollment is one enrollment record for the caller in a course.
type Enrollment struct {
	ID     int64             `json:"id"`
	Type   string            `json:"type"`
	Role   string            `json:"role"`
	UserID int64             `json:"user_id"`
	Grades *EnrollmentGrades `json:"grades,omitempty"`
}

// EnrollmentGrades carries the grade summary nested in a student enrollment.
type EnrollmentGrades struct {
	CurrentGrade *string  `json:"current_grade"`
	CurrentScore *float64 `json:"current_score"`
	FinalGrade   *string  `json:"final_grade"`
	FinalScore   *float64 `json:"final_score"`
	HTMLURL      string   `json:"html_url"`
}

// Student reports whether the enrollment marks the caller as a student.
func (e Enrollment) Student() bool {
	return e.Type == "StudentEnrollment" || e.Role == "StudentEnrollment" || e.Type == "student"
}

// Announcement is a Canvas announcement (a discussion topic scoped by a
// context code of the form "course_<id>").
type Announcement struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	PostedAt    *time.Time `json:"posted_at"`
	ContextCode string     `json:"context_code"`
	Author      *Author    `json:"author,omitempty"`
	HTMLURL     string     `json:"html_url"`
}

// Author identifies who posted an announcement or discussion topic.
type Author struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// CourseFile is a file stored in a course.
type CourseFile struct {
	ID          int64      `json:"id"`
	DisplayName string     `json:"display_name"`
	Size        int64      `json:"size"`
	ContentType string     `json:"content-type"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	URL         string     `json:"url"`
}

// Page is a wiki page. The URL slug, not a numeric id, identifies the page;
// Body is only populated when a single page is fetched.
type Page struct {
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Published bool       `json:"published"`
	Body      string     `json:"body,omitempty"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TodoItem is one entry from the caller's todo list.
type TodoItem struct {
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	ContextName string      `json:"context_name"`
	HTMLURL     string      `json:"html_url"`
	Assignment  *Assignment `json:"assignment,omitempty"`
}

// DisplayTitle returns the item's own title, falling back to the nested
// assignment name when the item carries none.
func (t TodoItem) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if t.Assignment != nil && t.Assignment.Name != "" {
		return t.Assignment.Name
	}
	return "Untitled item"
}

// Module is one entry in a course's module sequence. Items are only
// populated when include[]=items is requested.
type Module struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Position   int          `json:"position"`
	State      string       `json:"state"`
	ItemsCount int          `json:"items_count"`
	Items      []ModuleItem `json:"items,omitempty"`
}

// ModuleItem is one entry inside a module: a page, assignment, file, link,
// or similar.
type ModuleItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Position int    `json:"position"`
	HTMLURL  string `json:"html_url"`
}

// Quiz is a course quiz.
type Quiz struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	DueAt          *time.Time `json:"due_at"`
	PointsPossible *float64   `json:"points_possible"`
	QuestionCount  int        `json:"question_count"`
}

// QuizSubmission is one attempt at a course quiz.
type QuizSubmission struct {
	ID            int64      `json:"id"`
	QuizID        int64      `json:"quiz_id"`
	Attempt       int        `json:"attempt"`
	Score         *float64   `json:"score"`
	KeptScore     *float64   `json:"kept_score"`
	StartedAt     *time.Time `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	TimeSpent     int64      `json:"time_spent"`
	WorkflowState string     `json:"workflow_state"`
}

// DiscussionTopic is a course discussion thread. ReadState is "read" or
// "unread" for the caller; UnreadCount counts their unread replies.
type DiscussionTopic struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	PostedAt      *time.Time `json:"posted_at"`
	ReplyCount    int        `json:"discussion_subentry_count"`
	ReadState     string     `json:"read_state"`
	UnreadCount   int        `json:"unread_count"`
	LockedForUser bool       `json:"locked_for_user"`
	HTMLURL       string     `json:"html_url"`
	Author        *Author    `json:"author,omitempty"`
}

// Unread reports whether the topic or any of its replies is unread.
func (t DiscussionTopic) Unread() bool {
	return t.ReadState == "unread" || t.UnreadCount > 0
}

// DiscussionEntry is a reply posted to a discussion topic.
type DiscussionEntry struct {
	ID        int64      `json:"id"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"created_at"`
}
