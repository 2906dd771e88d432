package lr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestScannerStatePacking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	s := PackScannerState(3, 2, 0x8001)
	if s.TerminalIndex() != 3 || s.TokenSubType() != 2 || s.Flags() != 0x8001 {
		t.Errorf("unpacking failed: %v", s)
	}
	if !s.IsContinuation() {
		t.Errorf("expected state to signal continuation")
	}
	if ScannerState(0).IsContinuation() {
		t.Errorf("zero state must not signal continuation")
	}
}

func TestSourceStreamLocations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	src := NewSourceStream("ab\n\tcä", 4)
	src.SetPreviewPosition(4) // behind the tab
	src.MoveLocationToPreviewPosition()
	loc := src.Location()
	if loc.Line != 1 || loc.Column != 4 || loc.Position != 4 {
		t.Errorf("unexpected location %+v", loc)
	}
	if src.PreviewChar() != 'c' || src.NextPreviewChar() != 'ä' {
		t.Errorf("unexpected preview chars %q %q", src.PreviewChar(), src.NextPreviewChar())
	}
	src.Advance()
	src.Advance()
	if !src.PreviewEOF() || src.PreviewChar() != EOFChar {
		t.Errorf("expected preview to be at end of input")
	}
	if src.PreviewText() != "cä" {
		t.Errorf("unexpected preview text %q", src.PreviewText())
	}
}

func TestKeyTermMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Keys", CaseSensitive(false))
	kw := b.Key("if")
	ctx := &ScanContext{Grammar: b.g}
	src := NewSourceStream("IF x", 4)
	if tok := kw.TryMatch(ctx, src); tok == nil || tok.Text != "IF" {
		t.Errorf("expected case-insensitive match of 'if', got %v", tok)
	}
	src = NewSourceStream("iffy", 4)
	if tok := kw.TryMatch(ctx, src); tok != nil {
		t.Errorf("key word must not match prefix of identifier, got %v", tok)
	}
}
