package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownWidth is the word wrap used for assistant replies.
const markdownWidth = 80

// RenderMarkdown renders assistant text as terminal Markdown. If the
// renderer cannot be built or fails, text is returned in the body style.
func RenderMarkdown(s Styles, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var (
		renderer *glamour.TermRenderer
		err      error
	)
	if s.Theme.IsDark {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(markdownWidth),
		)
	} else {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(markdownWidth),
		)
	}
	if err != nil {
		return s.Body.Render(text)
	}

	out, err := renderer.Render(text)
	if err != nil {
		return s.Body.Render(text)
	}
	return strings.Trim(out, "\n")
}
