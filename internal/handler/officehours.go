package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/models"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// fileNameFragments are the candidate name fragments searched against course
// file display names.
var fileNameFragments = []string{"syllabus", "schedule", "contact", "info", "details", "welcome", "overview"}

// officeHoursKeywords are tested case-insensitively against announcement and
// page text.
var officeHoursKeywords = []string{"office", "hours", "contact", "schedule", "zoom", "meet", "appointment", "syllabus"}

const officeHoursDisclaimer = "Note: this search cannot read inside binary file contents such as PDF or Word documents. " +
	"It covered file names and metadata, announcement text, and page text only."

const announcementLookbackDays = 30

// OfficeHoursHandler implements the cross-source office-hours search. The
// remote API has no unified endpoint for this, so three independent passes
// (file names, recent announcements, page content) are merged into one
// ranked report.
type OfficeHoursHandler struct {
	api    CanvasAPI
	logger zerolog.Logger

	// delay between per-fragment file searches; shortened in tests.
	searchDelay time.Duration
}

// NewOfficeHoursHandler constructs the handler.
func NewOfficeHoursHandler(api CanvasAPI, logger zerolog.Logger) *OfficeHoursHandler {
	return &OfficeHoursHandler{
		api:         api,
		logger:      logger.With().Str("component", "office_hours_handler").Logger(),
		searchDelay: 150 * time.Millisecond,
	}
}

// Tools returns the tool descriptors backed by this handler.
func (h *OfficeHoursHandler) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name: "find-office-hours-info",
			Description: "Search a course's files, recent announcements, and pages for office hours, " +
				"contact, and scheduling information.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{
				"courseId": courseIDProperty(),
			}, "courseId"),
			Handler: h.findOfficeHours,
		},
	}
}

// officeHoursFindings collects the structured results of the three passes.
// Passes exchange records, never formatted text.
type officeHoursFindings struct {
	files         []models.CourseFile
	announcements []models.Announcement
	syllabusPages []models.Page
	otherPages    []models.Page

	minorErrors       []string
	significantErrors []string
}

func (f *officeHoursFindings) empty() bool {
	return len(f.files) == 0 && len(f.announcements) == 0 && len(f.syllabusPages) == 0 && len(f.otherPages) == 0
}

func (h *OfficeHoursHandler) findOfficeHours(ctx context.Context, args map[string]interface{}) (string, error) {
	courseID := tools.StringArg(args, "courseId")

	findings := &officeHoursFindings{}
	h.searchFileNames(ctx, courseID, findings)
	h.scanAnnouncements(ctx, courseID, findings)
	h.scanPages(ctx, courseID, findings)

	return h.renderReport(courseID, findings), nil
}

// searchFileNames runs one file search per candidate fragment, sequentially
// with a small delay between searches, deduplicating matches by display
// name. A single fragment's failure is a minor error and does not stop the
// remaining fragments.
func (h *OfficeHoursHandler) searchFileNames(ctx context.Context, courseID string, findings *officeHoursFindings) {
	seen := make(map[string]bool)
	for i, fragment := range fileNameFragments {
		if i > 0 && h.searchDelay > 0 {
			select {
			case <-ctx.Done():
				findings.minorErrors = append(findings.minorErrors, fmt.Sprintf("file search cancelled: %v", ctx.Err()))
				return
			case <-time.After(h.searchDelay):
			}
		}

		files, err := h.api.SearchFiles(ctx, courseID, fragment)
		if err != nil {
			h.logger.Warn().Err(err).Str("fragment", fragment).Msg("file-name search fragment failed")
			findings.minorErrors = append(findings.minorErrors, fmt.Sprintf("file search for %q failed: %v", fragment, err))
			continue
		}

		for _, file := range files {
			if seen[file.DisplayName] {
				continue
			}
			seen[file.DisplayName] = true
			findings.files = append(findings.files, file)
		}
	}
}

// scanAnnouncements tests recent announcement titles and stripped bodies
// against the keyword set.
func (h *OfficeHoursHandler) scanAnnouncements(ctx context.Context, courseID string, findings *officeHoursFindings) {
	startDate := time.Now().AddDate(0, 0, -announcementLookbackDays)
	announcements, err := h.api.ListAnnouncements(ctx, []string{"course_" + courseID}, startDate)
	if err != nil {
		h.logger.Warn().Err(err).Msg("announcement scan failed")
		findings.significantErrors = append(findings.significantErrors, fmt.Sprintf("announcement scan failed: %v", err))
		return
	}

	for _, announcement := range announcements {
		text := announcement.Title + " " + stripHTML(announcement.Message)
		if matchesAnyKeyword(text) {
			findings.announcements = append(findings.announcements, announcement)
		}
	}
}

// scanPages fetches every published page's content and tests it against the
// keyword set. Pages matching on "syllabus" are surfaced ahead of the rest;
// a page whose content fetch fails is skipped with a warning.
func (h *OfficeHoursHandler) scanPages(ctx context.Context, courseID string, findings *officeHoursFindings) {
	pages, err := h.api.ListPages(ctx, courseID)
	if err != nil {
		h.logger.Warn().Err(err).Msg("page listing failed")
		findings.significantErrors = append(findings.significantErrors, fmt.Sprintf("page scan failed: %v", err))
		return
	}

	for _, page := range pages {
		full, err := h.api.GetPage(ctx, courseID, page.URL)
		if err != nil {
			h.logger.Warn().Err(err).Str("page", page.URL).Msg("skipping page with failed content fetch")
			findings.minorErrors = append(findings.minorErrors, fmt.Sprintf("could not read page %q: %v", page.Title, err))
			continue
		}

		text := full.Title + " " + stripHTML(full.Body)
		if containsFold(text, "syllabus") {
			findings.syllabusPages = append(findings.syllabusPages, full)
		} else if matchesAnyKeyword(text) {
			findings.otherPages = append(findings.otherPages, full)
		}
	}
}

func matchesAnyKeyword(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range officeHoursKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// renderReport merges the findings in priority order: syllabus-flagged pages
// first, then files, announcements, and other pages. Minor errors are
// suppressed whenever the search produced useful findings.
func (h *OfficeHoursHandler) renderReport(courseID string, findings *officeHoursFindings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Office hours search for course %s:\n", courseID)

	if findings.empty() {
		b.WriteString("\nNo office hours information was found in the course files, recent announcements, or pages.\n")
	} else {
		if len(findings.syllabusPages) > 0 {
			b.WriteString("\nSyllabus pages (most likely to contain office hours):\n")
			for _, page := range findings.syllabusPages {
				fmt.Fprintf(&b, "- %s (slug: %s)\n", page.Title, page.URL)
			}
		}
		if len(findings.files) > 0 {
			b.WriteString("\nPotential files:\n")
			for _, file := range findings.files {
				fmt.Fprintf(&b, "- %s", file.DisplayName)
				if file.URL != "" {
					fmt.Fprintf(&b, " (%s)", file.URL)
				}
				b.WriteString("\n")
			}
		}
		if len(findings.announcements) > 0 {
			b.WriteString("\nRelevant announcements:\n")
			for _, announcement := range findings.announcements {
				fmt.Fprintf(&b, "- %s (posted %s)\n", announcement.Title, formatDate(announcement.PostedAt))
			}
		}
		if len(findings.otherPages) > 0 {
			b.WriteString("\nOther relevant pages:\n")
			for _, page := range findings.otherPages {
				fmt.Fprintf(&b, "- %s (slug: %s)\n", page.Title, page.URL)
			}
		}
	}

	b.WriteString("\n" + officeHoursDisclaimer + "\n")

	showMinor := findings.empty() && len(findings.minorErrors) > 0
	if len(findings.significantErrors) > 0 || showMinor {
		b.WriteString("\nSearch diagnostics:\n")
		for _, message := range findings.significantErrors {
			fmt.Fprintf(&b, "- %s\n", message)
		}
		if showMinor {
			for _, message := range findings.minorErrors {
				fmt.Fprintf(&b, "- %s\n", message)
			}
		}
	}

	return b.String()
}
