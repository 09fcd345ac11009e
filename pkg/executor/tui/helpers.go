package tui

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// getLoadingMessage returns a loading message to display while the agent
// is working on a turn.
func getLoadingMessage() string {
	messages := []string{
		"Thinking...",
		"Working on it...",
		"Checking your tasks...",
		"Looking at the schedule...",
		"Putting a plan together...",
		"Sorting out the day...",
	}
	return messages[rand.Intn(len(messages))] //nolint:gosec
}

// formatTokenCount formats a token count with K/M suffixes for readability
func formatTokenCount(count int) string {
	switch {
	case count >= 1000000:
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	case count >= 1000:
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	default:
		return fmt.Sprintf("%d", count)
	}
}

// formatEntry formats a transcript entry with a prefix and styling,
// wrapped to the current terminal width.
func formatEntry(prefix string, text string, style lipgloss.Style, width int) string {
	wrapWidth := width - 4
	if wrapWidth <= 0 {
		wrapWidth = 80
	}
	return style.Render(wordWrap(prefix+text, wrapWidth))
}

// wordWrap wraps text to the given width, dropping blank lines but
// keeping one line break between paragraphs.
func wordWrap(text string, width int) string {
	if width <= 0 {
		width = 80
	}

	var wrapped []string
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		wrapped = append(wrapped, wrapParagraph(para, width))
	}
	return strings.Join(wrapped, "\n")
}

func wrapParagraph(para string, width int) string {
	var lines []string
	line := ""

	flush := func() {
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
	}

	for _, word := range strings.Fields(para) {
		// Words longer than the width get hard-split
		if len(word) > width {
			flush()
			for len(word) > width {
				lines = append(lines, word[:width])
				word = word[width:]
			}
			if len(word) > 0 {
				lines = append(lines, word)
			}
			continue
		}

		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			flush()
			line = word
		default:
			line += " " + word
		}
	}
	flush()

	return strings.Join(lines, "\n")
}

// newViewport builds a viewport sized for the transcript area.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return vp
}

// viewportHeight computes the transcript height from the other fixed
// UI sections: header, tips, input box and status bar.
func (m *model) viewportHeight() int {
	fixed := headerHeight + tipsHeight + statusBarHeight + m.inputBoxHeight()
	if m.agentBusy {
		fixed++
	}
	h := m.height - fixed
	if h < 3 {
		h = 3
	}
	return h
}

// inputBoxHeight is the textarea height plus its border rows.
func (m *model) inputBoxHeight() int {
	return m.textarea.Height() + 2
}

// recalculateLayout resizes the viewport after any change that affects
// the fixed sections.
func (m *model) recalculateLayout() {
	if !m.ready {
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.viewportHeight()
}

// updateTextAreaHeight grows the textarea with multi-line input,
// accounting for wrapping.
func (m *model) updateTextAreaHeight() {
	value := m.textarea.Value()
	if value == "" {
		if m.textarea.Height() != 1 {
			m.textarea.SetHeight(1)
			m.recalculateLayout()
		}
		return
	}

	// The "> " prompt eats two columns
	effectiveWidth := m.textarea.Width() - 2
	if effectiveWidth <= 0 {
		effectiveWidth = 78
	}

	visualLines := 0
	for _, line := range strings.Split(value, "\n") {
		if line == "" {
			visualLines++
			continue
		}
		rows := (len(line) + effectiveWidth - 1) / effectiveWidth
		if rows == 0 {
			rows = 1
		}
		visualLines += rows
	}

	if visualLines < 1 {
		visualLines = 1
	}
	if visualLines > maxInputLines {
		visualLines = maxInputLines
	}

	if visualLines != m.textarea.Height() {
		m.textarea.SetHeight(visualLines)
		m.recalculateLayout()
	}
}
