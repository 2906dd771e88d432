package lr

import (
	"fmt"
	"strings"
)

// ErrorLevel is the severity of a grammar construction problem.
type ErrorLevel int8

// Levels for grammar errors. Conflicts do not prevent a parser from being
// built (a default resolution is installed), errors do.
const (
	LevelNone ErrorLevel = iota
	LevelInfo
	LevelWarning
	LevelConflict
	LevelError
	LevelInternalError
)

func (lvl ErrorLevel) String() string {
	switch lvl {
	case LevelNone:
		return "none"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelConflict:
		return "conflict"
	case LevelError:
		return "error"
	}
	return "internal error"
}

// GrammarError is a problem found while analysing a grammar or constructing
// parser tables.
type GrammarError struct {
	Level   ErrorLevel
	State   *ParserState // may be nil
	Message string
}

func (e GrammarError) Error() string {
	if e.State != nil {
		return fmt.Sprintf("%s (state %s): %s", e.Level, e.State.Name, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Level, e.Message)
}

// GrammarErrorList collects grammar errors. It implements the error interface.
type GrammarErrorList []GrammarError

// Add appends a new error.
func (l *GrammarErrorList) Add(level ErrorLevel, state *ParserState, format string, args ...interface{}) {
	e := GrammarError{
		Level:   level,
		State:   state,
		Message: fmt.Sprintf(format, args...),
	}
	switch {
	case level >= LevelError:
		tracer().Errorf(e.Error())
	case level == LevelConflict:
		tracer().Infof(e.Error())
	default:
		tracer().Debugf(e.Error())
	}
	*l = append(*l, e)
}

// MaxLevel returns the highest level found in the list.
func (l GrammarErrorList) MaxLevel() ErrorLevel {
	max := LevelNone
	for _, e := range l {
		if e.Level > max {
			max = e.Level
		}
	}
	return max
}

// Count counts the errors of a given level.
func (l GrammarErrorList) Count(level ErrorLevel) int {
	cnt := 0
	for _, e := range l {
		if e.Level == level {
			cnt++
		}
	}
	return cnt
}

// AsError returns the list as an error if it contains an entry of level min
// or higher, nil otherwise.
func (l GrammarErrorList) AsError(min ErrorLevel) error {
	if len(l) == 0 || l.MaxLevel() < min {
		return nil
	}
	return l
}

func (l GrammarErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
