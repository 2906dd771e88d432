package terminals

import (
	"strings"

	"github.com/npillmayer/parsekit/lr"
)

// CommentTerminal recognizes line comments and block comments. A comment
// with an end symbol containing a newline is a line comment; line comments
// do not include the line break, and may end at end of input.
//
//    line  := NewCommentTerminal("line-comment", "//", "\n", "\r\n")
//    block := NewCommentTerminal("block-comment", "/*", "*/")
//
// Block comments support partial tokens for line-by-line scanning.
type CommentTerminal struct {
	lr.TerminalBase
	StartSymbol string
	EndSymbols  []string
	isLine      bool
}

var _ lr.Terminal = (*CommentTerminal)(nil)

// NewCommentTerminal creates a comment terminal.
func NewCommentTerminal(name, start string, ends ...string) *CommentTerminal {
	c := &CommentTerminal{
		TerminalBase: lr.MakeTerminalBase(name, lr.CategoryComment),
		StartSymbol:  start,
		EndSymbols:   ends,
	}
	c.Priority = lr.HighestPriority // "//" must win against "/"
	for _, e := range ends {
		if strings.Contains(e, "\n") {
			c.isLine = true
		}
	}
	if !c.isLine {
		c.SetFlag(lr.IsMultiline)
	}
	return c
}

// IsLineComment is true for comments ending at a line break.
func (c *CommentTerminal) IsLineComment() bool {
	return c.isLine
}

// Firsts is part of interface lr.Terminal.
func (c *CommentTerminal) Firsts() []string {
	return []string{c.StartSymbol}
}

// Init is part of interface lr.TerminalInitializer.
func (c *CommentTerminal) Init(gd *lr.GrammarData, errs *lr.GrammarErrorList) {
	if c.StartSymbol == "" {
		errs.Add(lr.LevelError, nil, "comment terminal %s has an empty start symbol", c.Name)
	}
	if len(c.EndSymbols) == 0 {
		errs.Add(lr.LevelError, nil, "comment terminal %s has no end symbol", c.Name)
	}
	for _, e := range c.EndSymbols {
		if e == "" {
			errs.Add(lr.LevelError, nil, "comment terminal %s has an empty end symbol", c.Name)
		}
	}
}

// TryMatch is part of interface lr.Terminal.
func (c *CommentTerminal) TryMatch(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	if !ctx.State.IsContinuation() {
		if !src.MatchSymbol(c.StartSymbol, true) {
			return nil
		}
		src.SetPreviewPosition(src.PreviewPosition() + len(c.StartSymbol))
	}
	text := src.Text()
	from := src.PreviewPosition()
	end, endLen := -1, 0
	for _, e := range c.EndSymbols {
		if e == "" {
			continue
		}
		if i := strings.Index(text[from:], e); i >= 0 && (end < 0 || from+i < end) {
			end, endLen = from+i, len(e)
		}
	}
	switch {
	case end >= 0:
		if c.isLine {
			src.SetPreviewPosition(end)
		} else {
			src.SetPreviewPosition(end + endLen)
		}
	case c.isLine:
		src.SetPreviewPosition(len(text))
	case ctx.Partial && c.MultilineIndex > 0:
		src.SetPreviewPosition(len(text))
		tok := src.CreateToken(c, nil)
		tok.Value = tok.Text
		tok.Flags |= lr.TokenIsIncomplete
		ctx.State = lr.PackScannerState(c.MultilineIndex, 0, 0)
		return tok
	default:
		src.SetPreviewPosition(len(text))
		ctx.State = 0
		return ctx.ErrorToken(src, "unclosed comment")
	}
	ctx.State = 0
	tok := src.CreateToken(c, nil)
	tok.Value = tok.Text
	return tok
}
