package ui

import (
	"fmt"
	"strings"
)

// LoadingLine is shown while a request is outstanding.
func LoadingLine(s Styles) string {
	return s.Muted.Render("Loading...")
}

// ErrorPanel renders an inline error box with the message.
func ErrorPanel(s Styles, msg string) string {
	return s.ErrorPanel.Render(s.Error.Render("Error: ") + s.Body.Render(msg))
}

// EmptyState renders the no-data message and an optional call to action.
func EmptyState(s Styles, msg, action string) string {
	out := s.Subtitle.Render(msg)
	if action != "" {
		out += "\n" + s.Muted.Render("→ ") + s.Info.Render(action)
	}
	return out
}

// Warnings renders a bulleted warning list, or "" when empty.
func Warnings(s Styles, warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(s.Warning.Render("! "))
		sb.WriteString(s.Body.Render(w))
		sb.WriteString("\n")
	}
	return sb.String()
}

// KeyValue is one labelled line of a stat panel.
type KeyValue struct {
	Key   string
	Value string
}

// StatPanel renders labelled values inside a bordered panel.
func StatPanel(s Styles, title string, rows []KeyValue) string {
	width := 0
	for _, kv := range rows {
		if len(kv.Key) > width {
			width = len(kv.Key)
		}
	}
	var sb strings.Builder
	sb.WriteString(s.Title.Render(title))
	for _, kv := range rows {
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render(fmt.Sprintf("%-*s", width, kv.Key)))
		sb.WriteString("  ")
		sb.WriteString(s.Bold.Render(kv.Value))
	}
	return s.Panel.Render(sb.String())
}

// SuccessLine renders a confirmation line.
func SuccessLine(s Styles, msg string) string {
	return s.Success.Render("✓ ") + s.Body.Render(msg)
}
