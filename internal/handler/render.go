package handler

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// stripHTML reduces Canvas rich-text to plain text for display and keyword
// scanning. bluemonday escapes the entities it keeps, so the result is
// unescaped afterwards.
func stripHTML(input string) string {
	stripped := stripPolicy.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// formatFileSize renders a byte count using binary (1024-based) units with
// two-decimal precision.
func formatFileSize(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d Bytes", size)
	}
	return fmt.Sprintf("%.2f %s", value, units[unit])
}

// formatDueDate renders an optional timestamp, with the fixed fallback the
// report format requires for assignments without one.
func formatDueDate(due *time.Time) string {
	if due == nil {
		return "No due date"
	}
	return due.Local().Format("Jan 2, 2006 3:04 PM")
}

// formatDate renders an optional timestamp as a date.
func formatDate(t *time.Time) string {
	if t == nil {
		return "unknown date"
	}
	return t.Local().Format("Jan 2, 2006")
}

// formatPoints renders an optional point value without trailing zeros.
func formatPoints(points *float64) string {
	if points == nil {
		return "ungraded"
	}
	return strconv.FormatFloat(*points, 'f', -1, 64)
}

// formatScore renders an optional numeric score.
func formatScore(score *float64) string {
	if score == nil {
		return "not graded"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// orDefault substitutes fallback for an absent string pointer.
func orDefault(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

// truncate shortens text to at most n runes for compact report lines.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// containsFold reports a case-insensitive substring match.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
