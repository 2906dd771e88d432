package terminals

import (
	"fmt"
	"sort"

	"github.com/npillmayer/parsekit/lr"
)

// ScanFlags are terminal-specific flags, set by prefixes or by a terminal's
// configuration. They are stored in the packed scanner state of partial
// tokens.
type ScanFlags uint16

// IsSet checks for flags.
func (f ScanFlags) IsSet(mask ScanFlags) bool {
	return f&mask != 0
}

// TypeCode selects the Go type of a token value.
type TypeCode int8

// Type codes for literal values.
const (
	TypeNone TypeCode = iota
	TypeInt32
	TypeInt64
	TypeUInt32
	TypeUInt64
	TypeBigInt
	TypeFloat32
	TypeFloat64
	TypeComplex
	TypeString
	TypeChar
)

func (tc TypeCode) String() string {
	return [...]string{"none", "int32", "int64", "uint32", "uint64", "bigint", "float32",
		"float64", "complex", "string", "char"}[tc]
}

// Affix is a prefix or suffix of a compound terminal.
type Affix struct {
	Text      string
	Flags     ScanFlags  // set by prefixes
	TypeCodes []TypeCode // selected by suffixes
}

// TokenDetails is the scan state of a compound token. It is attached to
// the resulting token as lr.Token.Details.
type TokenDetails struct {
	Prefix           string
	Body             string
	Suffix           string
	Sign             string
	Flags            ScanFlags
	TypeCodes        []TypeCode
	StartSymbol      string
	EndSymbol        string
	SubTypeIndex     int // e.g. which kind of string literal, stored in partial scan states
	Exponent         bool
	Value            interface{}
	Error            string // non-empty turns the token into an error token
	IsPartial        bool   // body continues on the next line
	PartialOK        bool   // partial tokens are allowed
	PartialContinues bool   // scanning continues a partial token
}

// compoundScanner is implemented by terminals built on CompoundTerminal.
type compoundScanner interface {
	// quickParse recognizes trivial tokens without the prefix/body/suffix
	// machinery. Returns nil if not applicable.
	quickParse(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token
	// readPrefix reads an optional prefix. The default is to match the
	// declared prefixes.
	readPrefix(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool
	// readBody reads the body of a token. Returns false if the input does not
	// match at all.
	readBody(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool
	// convertValue converts the body to the token value.
	convertValue(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool
	// createToken wraps the result in a token.
	createToken(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) *lr.Token
}

// CompoundTerminal is the common part of terminals with prefix, body and
// suffix. It is not usable by itself but embedded by concrete terminals.
type CompoundTerminal struct {
	lr.TerminalBase
	Prefixes         []Affix
	Suffixes         []Affix
	DefaultTypeCodes []TypeCode
	self             compoundScanner
}

func makeCompoundTerminal(name string, self compoundScanner, flags ...lr.TermFlags) CompoundTerminal {
	return CompoundTerminal{
		TerminalBase: lr.MakeTerminalBase(name, lr.CategoryContent, flags...),
		self:         self,
	}
}

// AddPrefix adds a prefix, setting scan flags for the token.
func (c *CompoundTerminal) AddPrefix(prefix string, flags ScanFlags) {
	c.Prefixes = append(c.Prefixes, Affix{Text: prefix, Flags: flags})
	sortAffixes(c.Prefixes)
}

// AddSuffix adds a suffix, selecting the type(s) of the token value.
func (c *CompoundTerminal) AddSuffix(suffix string, typeCodes ...TypeCode) {
	c.Suffixes = append(c.Suffixes, Affix{Text: suffix, TypeCodes: typeCodes})
	sortAffixes(c.Suffixes)
}

// longest affixes first
func sortAffixes(affixes []Affix) {
	sort.SliceStable(affixes, func(i, j int) bool {
		return len(affixes[i].Text) > len(affixes[j].Text)
	})
}

func (c *CompoundTerminal) prefixFirsts() []string {
	firsts := make([]string, len(c.Prefixes))
	for i, p := range c.Prefixes {
		firsts[i] = p.Text
	}
	return firsts
}

// Init is part of interface lr.TerminalInitializer.
func (c *CompoundTerminal) Init(gd *lr.GrammarData, errs *lr.GrammarErrorList) {
	for _, a := range append(c.Prefixes, c.Suffixes...) {
		if a.Text == "" {
			errs.Add(lr.LevelError, nil, "terminal %s has an empty prefix or suffix", c.Name)
		}
	}
}

func (c *CompoundTerminal) partialOK(ctx *lr.ScanContext) bool {
	return ctx.Partial && c.MultilineIndex > 0
}

// match runs the compound scan: quick parse, prefix, body, suffix, value
// conversion. Partial tokens store their state in ctx.State.
func (c *CompoundTerminal) match(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	continues := ctx.State.IsContinuation()
	if !continues {
		if tok := c.self.quickParse(ctx, src); tok != nil {
			return tok
		}
		src.SetPreviewPosition(src.Position())
	}
	d := &TokenDetails{
		PartialOK:        c.partialOK(ctx),
		PartialContinues: continues,
	}
	if continues {
		d.SubTypeIndex = ctx.State.TokenSubType()
		d.Flags = ScanFlags(ctx.State.Flags())
	} else {
		c.self.readPrefix(ctx, src, d)
	}
	if !c.self.readBody(ctx, src, d) {
		return nil
	}
	if d.Error != "" {
		ctx.State = 0
		return ctx.ErrorToken(src, "%s", d.Error)
	}
	if d.IsPartial {
		d.Value = d.Body
	} else {
		c.readSuffix(src, d)
		if !c.self.convertValue(ctx, src, d) {
			if d.Error == "" {
				d.Error = fmt.Sprintf("invalid %s literal %q", c.Name, src.PreviewText())
			}
			ctx.State = 0
			return ctx.ErrorToken(src, "%s", d.Error)
		}
	}
	tok := c.self.createToken(ctx, src, d)
	if d.IsPartial {
		ctx.State = lr.PackScannerState(c.MultilineIndex, d.SubTypeIndex, uint16(d.Flags))
	} else {
		ctx.State = 0
	}
	return tok
}

func (c *CompoundTerminal) quickParse(ctx *lr.ScanContext, src *lr.SourceStream) *lr.Token {
	return nil
}

func (c *CompoundTerminal) readPrefix(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) bool {
	for _, p := range c.Prefixes {
		if src.MatchSymbol(p.Text, ctx.CaseSensitive()) {
			d.Prefix = p.Text
			d.Flags |= p.Flags
			src.SetPreviewPosition(src.PreviewPosition() + len(p.Text))
			return true
		}
	}
	return false
}

func (c *CompoundTerminal) readSuffix(src *lr.SourceStream, d *TokenDetails) bool {
	for _, s := range c.Suffixes {
		if src.MatchSymbol(s.Text, false) {
			d.Suffix = s.Text
			d.TypeCodes = s.TypeCodes
			src.SetPreviewPosition(src.PreviewPosition() + len(s.Text))
			return true
		}
	}
	return false
}

func (c *CompoundTerminal) createToken(ctx *lr.ScanContext, src *lr.SourceStream, d *TokenDetails) *lr.Token {
	tok := src.CreateToken(c.self.(lr.Terminal), d.Value)
	tok.Details = d
	if d.IsPartial {
		tok.Flags |= lr.TokenIsIncomplete
	}
	return tok
}
