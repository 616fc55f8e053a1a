package source

import (
	"fmt"
	"strings"

	"golang.org/x/term"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Note is supplementary context attached to an Error, e.g. "previously
// declared here".
type Note struct {
	Span    Span
	Message string
}

// Error is the sum type every failable compiler operation returns, per the
// error handling design: a span, a message and zero or more notes added by
// callers that wrap a failing sub-operation with additional context.
type Error struct {
	Span    Span
	Message string
	Notes   []Note
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	ansiRed    = "\x1b[1;31m"
	ansiYellow = "\x1b[1;33m"
	ansiBlue   = "\x1b[1;34m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

// ---------------------
// ----- functions -----
// ---------------------

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// WithNote appends a note to e and returns e, so that a higher-level
// operation can wrap a failing sub-operation with additional context.
func (e *Error) WithNote(span Span, message string) *Error {
	e.Notes = append(e.Notes, Note{Span: span, Message: message})
	return e
}

// Errorf constructs an *Error at span with a formatted message.
func Errorf(span Span, format string, args ...interface{}) *Error {
	return &Error{Span: span, Message: fmt.Sprintf(format, args...)}
}

// Render produces the full caret-underlined diagnostic text for err,
// labelled "error". UseColor controls whether ANSI escapes are emitted;
// callers typically pass Map.Color && term.IsTerminal(os.Stdout.Fd()).
func (m *Map) Render(err *Error, useColor bool) string {
	sb := strings.Builder{}
	m.renderOne(&sb, err.Span, "error", err.Message, ansiRed, useColor)
	for _, n := range err.Notes {
		sb.WriteRune('\n')
		m.renderOne(&sb, n.Span, "note", n.Message, ansiBlue, useColor)
	}
	return sb.String()
}

// RenderWarning renders a non-fatal diagnostic at span with the "warning"
// label.
func (m *Map) RenderWarning(span Span, message string, useColor bool) string {
	sb := strings.Builder{}
	m.renderOne(&sb, span, "warning", message, ansiYellow, useColor)
	return sb.String()
}

// renderOne writes one "file:line:col: label: message" header, the
// offending source line, and a caret underline beneath the span.
func (m *Map) renderOne(sb *strings.Builder, span Span, label, message, color string, useColor bool) {
	f := m.File(span.File)
	pos := f.PositionFor(span.Start)

	if useColor {
		sb.WriteString(ansiBold)
	}
	sb.WriteString(m.String(span))
	sb.WriteString(": ")
	if useColor {
		sb.WriteString(color)
	}
	sb.WriteString(label)
	sb.WriteString(": ")
	if useColor {
		sb.WriteString(ansiReset)
		sb.WriteString(ansiBold)
	}
	sb.WriteString(message)
	if useColor {
		sb.WriteString(ansiReset)
	}

	if f.Index() == NoSource {
		return
	}
	line := f.Line(pos.Line)
	sb.WriteRune('\n')
	sb.WriteString(line)
	sb.WriteRune('\n')

	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	if pos.Column+width > len(line) {
		width = len(line) - pos.Column
		if width < 1 {
			width = 1
		}
	}
	if useColor {
		sb.WriteString(color)
	}
	sb.WriteString(strings.Repeat(" ", pos.Column))
	sb.WriteString(strings.Repeat("^", width))
	if useColor {
		sb.WriteString(ansiReset)
	}
}

// IsTerminalStdout reports whether fd refers to a terminal, used by callers
// deciding whether to pass useColor=true to Render.
func IsTerminalStdout(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
