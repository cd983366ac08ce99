package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// QuizHandler implements the quiz-submission tool.
type QuizHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewQuizHandler constructs the handler.
func NewQuizHandler(api CanvasAPI, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		api:    api,
		logger: logger.With().Str("component", "quiz_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *QuizHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "get-quiz-submissions",
			Description: "List the student's quiz attempts and scores for a course.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
			}, "courseId"),
			Handler: h.quizSubmissions,
		},
	}
}

func (h *QuizHandler) quizSubmissions(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")

	quizzes, err := h.api.ListQuizzes(ctx, courseID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("list quizzes for course %s: %w", courseID, err)
	}

	if len(quizzes) == 0 {
		return fmt.Sprintf("Course %s has no quizzes.", courseID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Quiz attempts for course %s:\n", courseID)
	attempts := 0
	for _, quiz := range quizzes {
		submissions, err := h.api.ListQuizSubmissions(ctx, courseID, quiz.ID)
		if err != nil {
			// One quiz failing to load should not hide the others.
			h.logger.Warn().Err(err).Int64("quiz_id", quiz.ID).Msg("skipping quiz with failed submission fetch")
			continue
		}
		for _, submission := range submissions {
			attempts++
			b.WriteString("\n")
			fmt.Fprintf(&b, "- %s, attempt %d (%s)\n", quiz.Title, submission.Attempt, submission.WorkflowState)
			fmt.Fprintf(&b, "  Score: %s", formatScore(submission.Score))
			if submission.KeptScore != nil && submission.Score != nil && *submission.KeptScore != *submission.Score {
				fmt.Fprintf(&b, " (kept: %s)", formatScore(submission.KeptScore))
			}
			b.WriteString("\n")
			if submission.StartedAt != nil {
				fmt.Fprintf(&b, "  Started: %s\n", formatDate(submission.StartedAt))
			}
			if submission.FinishedAt != nil {
				fmt.Fprintf(&b, "  Finished: %s\n", formatDate(submission.FinishedAt))
			}
			if submission.TimeSpent > 0 {
				fmt.Fprintf(&b, "  Time Spent: %s\n", formatTimeSpent(submission.TimeSpent))
			}
		}
	}

	if attempts == 0 {
		return fmt.Sprintf("You have no quiz attempts in course %s yet.", courseID), nil
	}

	return b.String(), nil
}

func formatTimeSpent(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
