package handler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

const defaultAnnouncementDays = 14

// AnnouncementHandler implements the recent-announcements tool.
type AnnouncementHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(api CanvasAPI, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		api:    api,
		logger: logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *AnnouncementHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "get-recent-announcements",
			Description: "List recent announcements, for one course or across every active course.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": map[string]interface{}{
					"type":        "string",
					"description": "Optional course ID; when omitted, every active course is scanned",
				},
				"days": map[string]interface{}{
					"type":        "number",
					"description": "Lookback window in days (default 14)",
				},
			}),
			Handler: h.recentAnnouncements,
		},
	}
}

func (h *AnnouncementHandler) recentAnnouncements(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	days := defaultAnnouncementDays
	if value, ok := tools.NumberArg(args, "days"); ok && value > 0 {
		days = int(value)
	}

	contextCodes, courseNames, notice := h.resolveContextCodes(ctx, courseID)
	if len(contextCodes) == 0 {
		if notice != "" {
			return notice, nil
		}
		return "You have no active courses to fetch announcements from.", nil
	}

	startDate := time.Now().AddDate(0, 0, -days)
	announcements, err := h.api.ListAnnouncements(ctx, contextCodes, startDate)
	if err != nil {
		return "", fmt.Errorf("fetch announcements: %w", err)
	}

	if len(announcements) == 0 {
		return fmt.Sprintf("No announcements posted in the last %d days.", days), nil
	}

	sort.SliceStable(announcements, func(i, j int) bool {
		left, right := announcements[i].PostedAt, announcements[j].PostedAt
		if left == nil {
			return false
		}
		if right == nil {
			return true
		}
		return left.After(*right)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Announcements from the last %d days:\n", days)
	for _, announcement := range announcements {
		b.WriteString("\n")
		fmt.Fprintf(&b, "- %s\n", announcement.Title)
		fmt.Fprintf(&b, "  Course: %s\n", courseLabel(announcement.ContextCode, courseNames))
		fmt.Fprintf(&b, "  Posted: %s\n", formatDate(announcement.PostedAt))
		if announcement.Author != nil && announcement.Author.DisplayName != "" {
			fmt.Fprintf(&b, "  By: %s\n", announcement.Author.DisplayName)
		}
		if message := stripHTML(announcement.Message); message != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(message, 200))
		}
	}

	return b.String(), nil
}

// resolveContextCodes builds the "course_<id>" context keys for the query.
// When no explicit course is given and course enumeration fails, it degrades
// to a descriptive notice instead of an error.
func (h *AnnouncementHandler) resolveContextCodes(ctx context.Context, courseID string) ([]string, map[string]string, string) {
	if courseID != "" {
		return []string{"course_" + courseID}, nil, ""
	}

	courses, err := h.api.ListActiveCourses(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("could not enumerate courses for announcement scan")
		return nil, nil, "Could not list your courses to fetch announcements. Try again, or pass a specific courseId."
	}

	codes := make([]string, 0, len(courses))
	names := make(map[string]string, len(courses))
	for _, course := range courses {
		if !course.Available() {
			continue
		}
		code := fmt.Sprintf("course_%d", course.ID)
		codes = append(codes, code)
		names[code] = course.Name
	}

	return codes, names, ""
}

// courseLabel turns a composite context code back into a display label,
// tolerating codes without a numeric suffix.
func courseLabel(contextCode string, names map[string]string) string {
	if name, ok := names[contextCode]; ok && name != "" {
		return name
	}

	suffix := strings.TrimPrefix(contextCode, "course_")
	if _, err := strconv.ParseInt(suffix, 10, 64); err == nil {
		return "course " + suffix
	}
	if contextCode != "" {
		return contextCode
	}
	return "unknown course"
}
