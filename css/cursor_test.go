package css

import "testing"

func tokensOf(input string) []Token {
	return NewTokenizer(input).TokenizeAll()
}

func TestTokenCursorPeekAdvance(t *testing.T) {
	cur := NewTokenCursor(tokensOf("a b"))

	if got := cur.Current().Type; got != TokenIdent {
		t.Fatalf("Current().Type = %v, want TokenIdent", got)
	}
	if got := cur.Peek(1).Type; got != TokenWhitespace {
		t.Fatalf("Peek(1).Type = %v, want TokenWhitespace", got)
	}

	tok := cur.Advance()
	if tok.Value != "a" {
		t.Errorf("Advance() returned %q, want %q", tok.Value, "a")
	}
	if cur.Current().Type != TokenWhitespace {
		t.Errorf("after advance, Current().Type = %v, want TokenWhitespace", cur.Current().Type)
	}
}

func TestTokenCursorReconsume(t *testing.T) {
	cur := NewTokenCursor(tokensOf("a b"))
	cur.Advance()
	cur.Reconsume()
	if cur.Current().Value != "a" {
		t.Errorf("after Reconsume, Current().Value = %q, want %q", cur.Current().Value, "a")
	}
}

func TestTokenCursorEOFBeyondEnd(t *testing.T) {
	cur := NewTokenCursor(tokensOf(""))
	if !cur.EOF() {
		t.Fatalf("expected EOF on empty input")
	}
	if got := cur.Current().Type; got != TokenEOF {
		t.Errorf("Current().Type past end = %v, want TokenEOF", got)
	}
	// Advancing past EOF should not panic or move the position further.
	cur.Advance()
	cur.Advance()
	if got := cur.Current().Type; got != TokenEOF {
		t.Errorf("Current().Type after repeated advance past EOF = %v, want TokenEOF", got)
	}
}

func TestTokenCursorSeekPos(t *testing.T) {
	cur := NewTokenCursor(tokensOf("a b c"))
	cur.Advance()
	cur.Advance()
	saved := cur.Pos()
	cur.Advance()
	cur.Advance()
	cur.Seek(saved)
	if cur.Current().Value != "b" {
		t.Errorf("after Seek, Current().Value = %q, want %q", cur.Current().Value, "b")
	}
}

func TestTokenCursorSkipWhitespace(t *testing.T) {
	cur := NewTokenCursor(tokensOf("   a"))
	cur.SkipWhitespace()
	if cur.Current().Value != "a" {
		t.Errorf("after SkipWhitespace, Current().Value = %q, want %q", cur.Current().Value, "a")
	}
}

func TestTokenCursorSkipToSemicolonDepthTracked(t *testing.T) {
	cur := NewTokenCursor(tokensOf(`f(a;b); rest`))
	cur.SkipToSemicolon()
	if cur.Current().Type != TokenSemicolon {
		t.Fatalf("expected cursor on semicolon, got %v", cur.Current().Type)
	}
	cur.SkipPastSemicolon()
	cur.SkipWhitespace()
	if cur.Current().Value != "rest" {
		t.Errorf("after skip past semicolon, Current().Value = %q, want %q", cur.Current().Value, "rest")
	}
}

func TestTokenCursorSliceUntilSemicolon(t *testing.T) {
	cur := NewTokenCursor(tokensOf("red; blue"))
	sliced := cur.SliceUntilSemicolon()
	if len(sliced) != 1 || sliced[0].Value != "red" {
		t.Errorf("SliceUntilSemicolon = %+v, want single ident 'red'", sliced)
	}
	if cur.Current().Type != TokenSemicolon {
		t.Errorf("cursor left at %v, want TokenSemicolon", cur.Current().Type)
	}
}

func TestTokenCursorSliceCurrentBlock(t *testing.T) {
	cur := NewTokenCursor(tokensOf("{ a { b } c }"))
	errs := &errorSink{}
	interior := cur.SliceCurrentBlock(errs)

	inner := NewTokenCursor(interior)
	inner.SkipWhitespace()
	if inner.Current().Value != "a" {
		t.Errorf("interior starts with %q, want %q", inner.Current().Value, "a")
	}
	if !cur.EOF() {
		t.Errorf("cursor should be just past the closing brace, which ends the input (EOF)")
	}
	if len(errs.errors) != 0 {
		t.Errorf("balanced block reported errors: %+v", errs.errors)
	}
}

func TestTokenCursorSliceCurrentBlockUnterminated(t *testing.T) {
	cur := NewTokenCursor(tokensOf("{ a: b"))
	errs := &errorSink{}
	cur.SliceCurrentBlock(errs)
	if len(errs.errors) == 0 {
		t.Errorf("expected an unbalanced-bracket error for an unterminated block")
	}
}
