package parsekit

import (
	"fmt"
	"strings"
)

// --- Source locations -------------------------------------------------

// Location is a position within a source text. Position is a byte offset,
// Line and Column are 0-based and count runes.
type Location struct {
	Position int
	Line     int
	Column   int
}

func (loc Location) String() string {
	return fmt.Sprintf("(%d:%d)", loc.Line+1, loc.Column+1)
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input. For every
// terminal and non-terminal, a parse tree will track which input positions
// this symbol covers. A span denotes a start location and a length in bytes.
type Span struct {
	Location Location
	Length   int
}

// From returns the start position of a span.
func (s Span) From() int {
	return s.Location.Position
}

// To returns the position just behind the end of a span.
func (s Span) To() int {
	return s.Location.Position + s.Length
}

// Len returns the length of a span.
func (s Span) Len() int {
	return s.Length
}

// IsNull is a predicate: does the span cover no input at all?
func (s Span) IsNull() bool {
	return s.Length == 0
}

// Extend returns a span covering both s and other.
func (s Span) Extend(other Span) Span {
	if s.IsNull() && s.Location == (Location{}) {
		return other
	}
	to := s.To()
	if other.To() > to {
		to = other.To()
	}
	if other.Location.Position < s.Location.Position {
		s.Location = other.Location
	}
	s.Length = to - s.Location.Position
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s.From(), s.To())
}

// --- Messages ---------------------------------------------------------

// MessageLevel is the severity of a log message.
type MessageLevel int8

// Message levels, ordered by severity.
const (
	Info MessageLevel = iota
	Warning
	Error
)

func (lvl MessageLevel) String() string {
	switch lvl {
	case Info:
		return "info"
	case Warning:
		return "warning"
	}
	return "error"
}

// LogMessage is a message produced while scanning, parsing or evaluating.
// ParserState is an optional reference to the parser state the message
// originated in (typed as interface{} to keep this package free of
// parser types).
type LogMessage struct {
	Level       MessageLevel
	Location    Location
	Message     string
	ParserState interface{}
}

func (msg LogMessage) String() string {
	return fmt.Sprintf("%s%s: %s", msg.Level, msg.Location, msg.Message)
}

// LogMessages is a list of messages.
type LogMessages []LogMessage

// HasErrors checks for messages of level Error.
func (msgs LogMessages) HasErrors() bool {
	return msgs.Count(Error) > 0
}

// Count counts the messages of a given level.
func (msgs LogMessages) Count(lvl MessageLevel) int {
	cnt := 0
	for _, m := range msgs {
		if m.Level == lvl {
			cnt++
		}
	}
	return cnt
}

func (msgs LogMessages) String() string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.String())
	}
	return b.String()
}
