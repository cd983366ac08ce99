// Package prompts holds the static prompt templates the server serves
// alongside its tools. Templates are canned text; the only processing is
// placeholder substitution.
package prompts

import (
	"fmt"
	"strings"
)

// Argument describes one substitutable placeholder in a template.
type Argument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Prompt is one named template in the catalog.
type Prompt struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Arguments   []Argument `json:"arguments,omitempty"`
	Template    string     `json:"-"`
}

// Render substitutes {{name}} placeholders from the provided arguments.
func (p Prompt) Render(args map[string]string) string {
	rendered := p.Template
	for name, value := range args {
		rendered = strings.ReplaceAll(rendered, "{{"+name+"}}", value)
	}
	return rendered
}

// Catalog returns every prompt in a fixed order.
func Catalog() []Prompt {
	return []Prompt{
		{
			Name:        "check-upcoming-work",
			Description: "Summarize what is due soon across every course.",
			Template: "Use the get-upcoming-assignments and get-my-todo-items tools to find everything due soon. " +
				"Summarize the results by urgency: overdue first, then due within 48 hours, then the rest of the week. " +
				"Mention point values so the student can prioritize.",
		},
		{
			Name:        "course-overview",
			Description: "Build an overview of one course: grade, recent announcements, and upcoming work.",
			Arguments: []Argument{
				{Name: "courseId", Description: "The Canvas course ID to summarize", Required: true},
			},
			Template: "Build an overview of course {{courseId}}. Call get-course-grade, get-recent-announcements, and " +
				"list-assignments for course {{courseId}}, then summarize: current standing, anything new from the " +
				"instructor, and what is due next.",
		},
		{
			Name:        "find-instructor-help",
			Description: "Locate office hours and contact details for a course's instructor.",
			Arguments: []Argument{
				{Name: "courseId", Description: "The Canvas course ID to search", Required: true},
			},
			Template: "Call find-office-hours-info for course {{courseId}}. If it finds syllabus pages or files, fetch " +
				"their content with get-page-content where possible and extract the instructor's office hours, location or " +
				"meeting link, and email. Present the result as a short contact card.",
		},
	}
}

// Get looks up a prompt by exact name.
func Get(name string) (Prompt, error) {
	for _, prompt := range Catalog() {
		if prompt.Name == name {
			return prompt, nil
		}
	}
	return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
}
