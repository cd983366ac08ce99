package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// DiscussionHandler implements the discussion topic tools.
type DiscussionHandler struct {
	api    CanvasAPI
	logger zerolog.Logger
}

// NewDiscussionHandler constructs the handler.
func NewDiscussionHandler(api CanvasAPI, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		api:    api,
		logger: logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *DiscussionHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-discussion-topics",
			Description: "List the discussion topics of a course.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
			}, "courseId"),
			Handler: h.listTopics,
		},
		{
			Name:        "post-discussion-reply",
			Description: "Post a reply to a course discussion topic.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
				"topicId": map[string]interface{}{
					"type":        "string",
					"description": "The discussion topic ID",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The reply text",
				},
			}, "courseId", "topicId", "message"),
			Handler: h.postReply,
		},
	}
}

func (h *DiscussionHandler) listTopics(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")

	topics, err := h.api.ListDiscussionTopics(ctx, courseID)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("course %s not found", courseID)
		}
		return "", fmt.Errorf("list discussion topics for course %s: %w", courseID, err)
	}

	if len(topics) == 0 {
		return fmt.Sprintf("Course %s has no discussion topics.", courseID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Discussion topics in course %s:\n", courseID)
	for _, topic := range topics {
		b.WriteString("\n")
		fmt.Fprintf(&b, "- %s (ID: %d)\n", topic.Title, topic.ID)
		fmt.Fprintf(&b, "  Posted: %s\n", formatDate(topic.PostedAt))
		fmt.Fprintf(&b, "  Replies: %d\n", topic.ReplyCount)
		if topic.Unread() {
			if topic.UnreadCount > 0 {
				fmt.Fprintf(&b, "  Unread: %d\n", topic.UnreadCount)
			} else {
				b.WriteString("  Unread\n")
			}
		}
		if topic.LockedForUser {
			b.WriteString("  Locked\n")
		}
		if message := stripHTML(topic.Message); message != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(message, 160))
		}
	}

	return b.String(), nil
}

func (h *DiscussionHandler) postReply(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")
	topicID := tools.StringArg(args, "topicId")
	message := tools.StringArg(args, "message")

	entry, err := h.api.PostDiscussionEntry(ctx, courseID, topicID, message)
	if err != nil {
		if canvas.IsNotFound(err) {
			return "", fmt.Errorf("discussion topic %s not found in course %s", topicID, courseID)
		}
		return "", fmt.Errorf("post reply to topic %s: %w", topicID, err)
	}

	return fmt.Sprintf("Reply posted to discussion topic %s (entry %d).", topicID, entry.ID), nil
}
