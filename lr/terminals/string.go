package terminals

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/parsekit/lr"
)

// StringOptions configure a kind of string literal.
type StringOptions = ScanFlags

// Options for string literals.
const (
	StringIsChar             StringOptions = 1 << iota // value is a single rune
	StringAllowsDoubledQuote                           // "" inside "…" stands for "
	StringAllowsLineBreak                              // literal may span lines
	StringNoEscapes                                    // backslash has no special meaning
)

// StringSubType is one kind of string literal, identified by its start
// and end symbols.
type StringSubType struct {
	Start, End string
	Options    StringOptions
	index      int
}

// StringLiteral is a terminal for string and character literals. A single
// terminal may recognize several kinds of literals, e.g. "…" and '…'.
type StringLiteral struct {
	CompoundTerminal
	SubTypes []*StringSubType
}

var _ lr.Terminal = (*StringLiteral)(nil)

// NewStringLiteral creates a string terminal for one kind of literals.
// More kinds may be added with AddSubType.
func NewStringLiteral(name, start, end string, options ...StringOptions) *StringLiteral {
	s := &StringLiteral{}
	s.CompoundTerminal = makeCompoundTerminal(name, s, lr.IsLiteral)
	var opts StringOptions
	for _, o := range options {
		opts |= o
	}
	s.AddSubType(start, end, opts)
	return s
}

// AddSubType adds a kind of string literal.
func (s *StringLiteral) AddSubType(start, end string, options StringOptions) {
	s.SubTypes = append(s.SubTypes, &StringSubType{
		Start:   start,
		End:     end,
		Options: options,
		index:   len(s.SubTypes),
	})
	if options.IsSet(StringAllowsLineBreak) {
		s.SetFlag(lr.IsMultiline)
	}
}

// Firsts is part of interface lr.Terminal.
func (s *StringLiteral) Firsts() []string {
	firsts := s.prefixFirsts()
	for _, st := range s.SubTypes {
		firsts = append(firsts, st.Start)
	}
	return firsts
}

// Init is part of interface lr.TerminalInitializer.
func (s *StringLiteral) Init(gd *lr.GrammarData, errs *lr.GrammarErrorList) {
	s.CompoundTerminal.Init(gd, errs)
	if len(s.SubTypes) == 0 {
		errs.Add(lr.LevelError, nil, "string literal %s has no start/end symbols", s.Name)
	}
	for _, st := range s.SubTypes {
		if st.Start == "" || st.End == "" {
			errs.Add(lr.LevelError, nil, "string literal %s has an empty start or end symbol", s.Name)
		}
	}
}

// TryMatch is part of interface lr.Terminal.
func (s *StringLiteral) TryMatch(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	return s.match(ctx, src)
}

func (s *StringLiteral) readBody(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool {
	var st *StringSubType
	if d.PartialContinues {
		if d.SubTypeIndex >= len(s.SubTypes) {
			d.Error = "invalid resume state for string literal"
			return true
		}
		st = s.SubTypes[d.SubTypeIndex]
	} else {
		for _, sub := range s.SubTypes { // longest start symbol first
			if src.MatchSymbol(sub.Start, true) && (st == nil || len(sub.Start) > len(st.Start)) {
				st = sub
			}
		}
		if st == nil {
			return false
		}
		src.SetPreviewPosition(src.PreviewPosition() + len(st.Start))
		d.StartSymbol = st.Start
		d.SubTypeIndex = st.index
	}
	d.Flags |= st.Options
	text := src.Text()
	start := src.PreviewPosition()
	pos := start
	for {
		i := strings.Index(text[pos:], st.End)
		if i < 0 {
			break
		}
		end := pos + i
		if !st.Options.IsSet(StringNoEscapes) && isEscaped(text, start, end) {
			pos = end + 1
			continue
		}
		if st.Options.IsSet(StringAllowsDoubledQuote) && strings.HasPrefix(text[end+len(st.End):], st.End) {
			pos = end + 2*len(st.End)
			continue
		}
		body := text[start:end]
		if !st.Options.IsSet(StringAllowsLineBreak) && strings.ContainsAny(body, "\r\n") {
			break
		}
		d.Body = body
		d.EndSymbol = st.End
		src.SetPreviewPosition(end + len(st.End))
		return true
	}
	// no end symbol (on this line, unless line breaks are allowed)
	if st.Options.IsSet(StringAllowsLineBreak) && d.PartialOK {
		d.Body = text[start:]
		d.IsPartial = true
		src.SetPreviewPosition(len(text))
		return true
	}
	if eol := strings.IndexAny(text[start:], "\r\n"); eol >= 0 {
		src.SetPreviewPosition(start + eol)
	} else {
		src.SetPreviewPosition(len(text))
	}
	d.Error = fmt.Sprintf("mal-formed %s: cannot find termination symbol", s.Name)
	return true
}

// isEscaped checks for an odd number of backslashes in front of text[pos].
func isEscaped(text string, from, pos int) bool {
	n := 0
	for i := pos - 1; i >= from && text[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func (s *StringLiteral) convertValue(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool {
	st := s.SubTypes[d.SubTypeIndex]
	value := d.Body
	if st.Options.IsSet(StringAllowsDoubledQuote) {
		value = strings.ReplaceAll(value, st.End+st.End, st.End)
	}
	if !st.Options.IsSet(StringNoEscapes) {
		v, err := unescape(value, st.End)
		if err != nil {
			d.Error = err.Error()
			return false
		}
		value = v
	}
	if st.Options.IsSet(StringIsChar) {
		if utf8.RuneCountInString(value) != 1 {
			d.Error = "invalid length of char literal"
			return false
		}
		r, _ := utf8.DecodeRuneInString(value)
		d.Value = r
		return true
	}
	d.Value = value
	return true
}

// unescape resolves backslash escapes. An escaped end symbol stands for
// itself, all other escapes follow Go syntax.
func unescape(s string, end string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for len(s) > 0 {
		if s[0] == '\\' && len(s) > 1 && strings.HasPrefix(s[1:], end) {
			b.WriteString(end)
			s = s[1+len(end):]
			continue
		}
		if strings.HasPrefix(s, `\'`) || strings.HasPrefix(s, `\"`) {
			b.WriteByte(s[1])
			s = s[2:]
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			return "", fmt.Errorf("invalid escape sequence in %q", s)
		}
		if multibyte {
			b.WriteRune(r)
		} else {
			b.WriteByte(byte(r))
		}
		s = tail
	}
	return b.String(), nil
}
