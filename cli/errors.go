package cli

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/journal"
	"github.com/jfvdberg/taxfolio/journalio"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and, when the error carries a
// source position into the loaded journal, a few lines of context.
func (r *ErrorRenderer) Render(err error) string {
	if pos, ok := errorPosition(err); ok && r.source != nil && pos.Line > 0 {
		return r.renderWithSourceContext(pos, err.Error())
	}
	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// errorPosition extracts a source position from the error types decode and
// balancing produce.
func errorPosition(err error) (journal.Position, bool) {
	var terr *balance.TransactionError
	if stdErrors.As(err, &terr) {
		return terr.Pos, terr.Pos.Filename != ""
	}

	var derr *journalio.DecodeError
	if stdErrors.As(err, &derr) {
		return derr.Pos, derr.Pos.Filename != ""
	}

	return journal.Position{}, false
}

func (r *ErrorRenderer) renderWithSourceContext(pos journal.Position, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(r.source), "\n")

	startLine := pos.Line - 3
	endLine := pos.Line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine > len(sourceLines) {
		endLine = len(sourceLines)
	}

	for i := startLine; i < endLine; i++ {
		lineNum := i + 1
		line := sourceLines[i]

		prefix := fmt.Sprintf("%4d | ", lineNum)
		if lineNum == pos.Line {
			buf.WriteString(errCaretStyle.Render(prefix))
			buf.WriteString(line)
			buf.WriteString("\n")
			if pos.Column > 0 {
				buf.WriteString(errCaretStyle.Render(strings.Repeat(" ", len(prefix)+pos.Column-1) + "^"))
				buf.WriteString("\n")
			}
		} else {
			buf.WriteString(errContextStyle.Render(prefix + line))
			buf.WriteString("\n")
		}
	}

	return strings.TrimRight(buf.String(), "\n")
}
