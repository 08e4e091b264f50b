package css

// TokenCursor is a restartable, random-access view over a materialized
// token slice. The raw Tokenizer only looks forward one token at a
// time; grammar-level consumers (declarations, rules, selectors) need
// to mark a position, scan ahead to find a boundary, and then replay
// the tokens in between — this is that layer.
type TokenCursor struct {
	tokens []Token
	pos    int
}

// NewTokenCursor wraps an already-tokenized slice. Callers normally
// obtain the slice from Tokenizer.TokenizeAll.
func NewTokenCursor(tokens []Token) *TokenCursor {
	return &TokenCursor{tokens: tokens}
}

// Current returns the token at the cursor without advancing. At or
// past the end it synthesizes a TokenEOF rather than panicking, so
// callers can loop on Current().Type without a separate bounds check.
func (c *TokenCursor) Current() Token {
	return c.Peek(0)
}

// Peek returns the token at offset from the cursor without advancing.
func (c *TokenCursor) Peek(offset int) Token {
	pos := c.pos + offset
	if pos < 0 || pos >= len(c.tokens) {
		return Token{Type: TokenEOF}
	}
	return c.tokens[pos]
}

// Advance returns the current token and moves the cursor forward.
func (c *TokenCursor) Advance() Token {
	tok := c.Current()
	if c.pos < len(c.tokens) {
		c.pos++
	}
	return tok
}

// Reconsume backs the cursor up by one token.
func (c *TokenCursor) Reconsume() {
	if c.pos > 0 {
		c.pos--
	}
}

// EOF reports whether the cursor has reached the end of the token slice.
func (c *TokenCursor) EOF() bool {
	return c.pos >= len(c.tokens) || c.tokens[c.pos].Type == TokenEOF
}

// Pos returns the cursor's current index, for callers that need to
// save and restore a position across a speculative parse attempt.
func (c *TokenCursor) Pos() int {
	return c.pos
}

// Seek restores a previously saved position.
func (c *TokenCursor) Seek(pos int) {
	c.pos = pos
}

// SkipWhitespace advances past any run of whitespace tokens starting
// at the cursor.
func (c *TokenCursor) SkipWhitespace() {
	for c.Current().Type == TokenWhitespace {
		c.Advance()
	}
}

// AdvanceToNonWhitespace is SkipWhitespace with the resulting token
// returned, for callers that immediately need to inspect what follows.
func (c *TokenCursor) AdvanceToNonWhitespace() Token {
	c.SkipWhitespace()
	return c.Current()
}

// SkipToSemicolon advances up to, but not past, the next top-level
// semicolon or EOF. Braces, brackets, and parens are depth-tracked so a
// semicolon nested inside a function or block (e.g. inside a function's
// argument list) does not prematurely end the skip — this is the error
// recovery boundary the grammar uses to resynchronize after a malformed
// declaration or rule.
func (c *TokenCursor) SkipToSemicolon() {
	depth := 0
	for {
		tok := c.Current()
		switch tok.Type {
		case TokenEOF:
			return
		case TokenSemicolon:
			if depth == 0 {
				return
			}
		case TokenOpenCurly, TokenOpenSquare, TokenOpenParen, TokenFunction:
			depth++
		case TokenCloseCurly, TokenCloseSquare, TokenCloseParen:
			if depth > 0 {
				depth--
			} else {
				return
			}
		}
		c.Advance()
	}
}

// SkipPastSemicolon is SkipToSemicolon followed by consuming the
// semicolon itself, if one was found.
func (c *TokenCursor) SkipPastSemicolon() {
	c.SkipToSemicolon()
	if c.Current().Type == TokenSemicolon {
		c.Advance()
	}
}

// SliceUntilSemicolon returns the tokens from the cursor up to (not
// including) the next top-level semicolon or EOF, leaving the cursor
// positioned at that boundary. Used to extract a declaration's raw
// token run before handing it to the value builder.
func (c *TokenCursor) SliceUntilSemicolon() []Token {
	start := c.pos
	c.SkipToSemicolon()
	return c.tokens[start:c.pos]
}

// SliceCurrentBlock consumes a `{ ... }` block starting at the cursor
// (which must be positioned on the opening brace) and returns its
// interior tokens, with the cursor left just past the matching closing
// brace. Nested braces are depth-tracked; an unterminated block
// consumes to EOF and reports ErrUnbalancedBracket.
func (c *TokenCursor) SliceCurrentBlock(errs *errorSink) []Token {
	open := c.Current()
	if open.Type != TokenOpenCurly {
		return nil
	}
	c.Advance()
	start := c.pos
	depth := 1

	for {
		tok := c.Current()
		switch tok.Type {
		case TokenEOF:
			if errs != nil {
				errs.report(ErrUnbalancedBracket, open.Line, open.Column, "unterminated block")
			}
			return c.tokens[start:c.pos]
		case TokenOpenCurly:
			depth++
		case TokenCloseCurly:
			depth--
			if depth == 0 {
				interior := c.tokens[start:c.pos]
				c.Advance() // consume the closing brace
				return interior
			}
		}
		c.Advance()
	}
}
