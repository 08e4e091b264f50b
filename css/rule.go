package css

import "strings"

// RuleKind tags which variant a Rule holds.
type RuleKind int

const (
	RuleStyle RuleKind = iota
	RuleMedia
	RulePage
	RuleImport
	RuleCharset
	RuleNamespace
	RuleFontFace
	RuleKeyframes
	RuleSupports
	RuleDocument
	RuleUnknown
)

// Keyframe is one `key_text { declarations }` entry inside @keyframes.
type Keyframe struct {
	KeyText      string
	Declarations []Declaration
}

// DocumentConditionKind names one @document condition function.
type DocumentConditionKind int

const (
	DocumentURL DocumentConditionKind = iota
	DocumentURLPrefix
	DocumentDomain
	DocumentRegExp
)

// DocumentCondition is one `kind(text)` entry in an @document prelude.
type DocumentCondition struct {
	Kind DocumentConditionKind
	Text string
}

// Rule is a tagged-variant node in the parsed rule tree. Which field
// group is meaningful is selected by Kind; a flat struct mirrors Value
// and Token rather than a class hierarchy per variant.
type Rule struct {
	Kind RuleKind

	// Style, Page (Selector and Declarations); FontFace (Declarations)
	Selector     *CSSSelector
	Declarations []Declaration

	// Media, Supports, Document: at-rules that carry a block of
	// nested rules.
	Rules []*Rule

	// Media, Import
	MediaQuery string

	// Import
	Href string

	// Charset
	Encoding string

	// Namespace
	Prefix string
	URI    string

	// Keyframes
	Name      string
	Keyframes []Keyframe

	// Supports
	ConditionText string

	// Document
	Conditions []DocumentCondition

	// Unknown
	RawText string

	Line, Column int

	// Parent is a weak back-link to the enclosing rule, nil for
	// top-level rules. It is a relation, not ownership — the
	// Stylesheet or enclosing Rule.Rules slice owns the node.
	Parent *Rule

	// Sheet is a weak back-link to the owning Stylesheet, set once
	// construction completes.
	Sheet *Stylesheet
}

// walk visits r and every rule nested inside it (depth-first,
// pre-order), used to stamp the owning Stylesheet back-link.
func (r *Rule) walk(visit func(*Rule)) {
	visit(r)
	for _, child := range r.Rules {
		child.walk(visit)
	}
}

// RuleBuilder dispatches on `@`-keyword or qualified-rule tokens,
// producing typed Rules. It is recursive for every block-carrying
// variant, threading an explicit open-rule stack so nested rules can
// be given their Parent back-link as they're constructed.
type RuleBuilder struct {
	errs     *errorSink
	decls    *DeclarationBuilder
	selector func(tokens []Token) *CSSSelector
	stack    []*Rule
}

func newRuleBuilder(errs *errorSink, registry PropertyRegistry, strict bool) *RuleBuilder {
	return &RuleBuilder{
		errs:  errs,
		decls: newDeclarationBuilder(errs, registry, strict),
		selector: func(tokens []Token) *CSSSelector {
			sc := newSelectorConstructor(NewTokenCursor(tokens), errs)
			return sc.parseSelectorList()
		},
	}
}

func (b *RuleBuilder) currentParent() *Rule {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *RuleBuilder) push(r *Rule) {
	r.Parent = b.currentParent()
	b.stack = append(b.stack, r)
}

func (b *RuleBuilder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}

// AppendRules consumes a sequence of rules (top-level, or the interior
// of a block-carrying at-rule) until EOF, skipping whitespace and
// stray semicolons between them (legacy CDO/CDC tokens are also
// skipped, matching historical HTML-embedded-stylesheet tolerance).
// An unmatched `}` is reported as ErrUnbalancedBracket and skipped.
func (b *RuleBuilder) AppendRules(cur *TokenCursor) []*Rule {
	var rules []*Rule
	for {
		switch cur.Current().Type {
		case TokenEOF:
			return rules
		case TokenCloseCurly:
			tok := cur.Advance()
			if b.errs != nil {
				b.errs.report(ErrUnbalancedBracket, tok.Line, tok.Column, "unmatched '}'")
			}
		case TokenWhitespace, TokenSemicolon, TokenCDO, TokenCDC:
			cur.Advance()
		case TokenAtKeyword:
			if r := b.atRule(cur); r != nil {
				rules = append(rules, r)
			}
		default:
			if r := b.styleRule(cur); r != nil {
				rules = append(rules, r)
			}
		}
	}
}

// Rule consumes exactly one rule at the cursor.
func (b *RuleBuilder) Rule(cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	if cur.Current().Type == TokenAtKeyword {
		return b.atRule(cur)
	}
	return b.styleRule(cur)
}

// preludeUntil collects tokens up to (not including) a token of the
// given terminating type(s), tracking bracket/function depth so a
// terminator nested inside e.g. a function argument doesn't end the
// prelude early.
func preludeUntil(cur *TokenCursor, terminators ...TokenType) []Token {
	var tokens []Token
	depth := 0
	for {
		tok := cur.Current()
		if tok.Type == TokenEOF {
			return tokens
		}
		if depth == 0 {
			for _, t := range terminators {
				if tok.Type == t {
					return tokens
				}
			}
		}
		switch tok.Type {
		case TokenOpenCurly, TokenOpenSquare, TokenOpenParen, TokenFunction:
			depth++
		case TokenCloseCurly, TokenCloseSquare, TokenCloseParen:
			if depth > 0 {
				depth--
			}
		}
		tokens = append(tokens, cur.Advance())
	}
}

func (b *RuleBuilder) styleRule(cur *TokenCursor) *Rule {
	start := cur.Current()
	prelude := preludeUntil(cur, TokenOpenCurly, TokenSemicolon)

	if cur.Current().Type != TokenOpenCurly {
		// Malformed: no block ever appeared. Recover to the next
		// boundary without producing a rule.
		if cur.Current().Type == TokenSemicolon {
			cur.Advance()
		}
		if b.errs != nil {
			b.errs.report(ErrSyntaxError, start.Line, start.Column, "qualified rule has no block")
		}
		return nil
	}

	rule := &Rule{Kind: RuleStyle, Line: start.Line, Column: start.Column}
	b.push(rule)
	rule.Selector = b.selector(trimWhitespaceTokens(prelude))
	interior := cur.SliceCurrentBlock(b.errs)
	rule.Declarations = b.decls.DeclarationList(NewTokenCursor(interior))
	b.pop()
	return rule
}

func trimWhitespaceTokens(tokens []Token) []Token {
	start := 0
	for start < len(tokens) && tokens[start].Type == TokenWhitespace {
		start++
	}
	end := len(tokens)
	for end > start && tokens[end-1].Type == TokenWhitespace {
		end--
	}
	return tokens[start:end]
}

func tokenText(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		switch tok.Type {
		case TokenWhitespace:
			sb.WriteString(" ")
		case TokenString:
			sb.WriteString(`"`)
			sb.WriteString(tok.Value)
			sb.WriteString(`"`)
		case TokenDimension:
			sb.WriteString(tok.Value)
			sb.WriteString(tok.Unit)
		case TokenDelim:
			sb.WriteRune(tok.Delim)
		case TokenColon:
			sb.WriteString(":")
		case TokenComma:
			sb.WriteString(",")
		case TokenPercentage:
			sb.WriteString(tok.Value)
			sb.WriteString("%")
		case TokenHash:
			sb.WriteString("#")
			sb.WriteString(tok.Value)
		case TokenFunction:
			sb.WriteString(tok.Value)
			sb.WriteString("(")
		case TokenOpenParen:
			sb.WriteString("(")
		case TokenCloseParen:
			sb.WriteString(")")
		case TokenOpenSquare:
			sb.WriteString("[")
		case TokenCloseSquare:
			sb.WriteString("]")
		default:
			sb.WriteString(tok.Value)
		}
	}
	return strings.TrimSpace(sb.String())
}

func (b *RuleBuilder) atRule(cur *TokenCursor) *Rule {
	at := cur.Advance() // the AtKeyword token itself
	name := strings.ToLower(at.Value)

	switch name {
	case "media":
		return b.mediaRuleImpl(at, cur)
	case "import":
		return b.importRule(at, cur)
	case "charset":
		return b.charsetRule(at, cur)
	case "namespace":
		return b.namespaceRule(at, cur)
	case "page":
		return b.pageRule(at, cur)
	case "font-face":
		return b.fontFaceRule(at, cur)
	case "keyframes", "-webkit-keyframes", "-moz-keyframes":
		return b.keyframesRule(at, cur)
	case "supports":
		return b.supportsRule(at, cur)
	case "document", "-moz-document":
		return b.documentRule(at, cur)
	default:
		return b.unknownRule(at, cur)
	}
}

func (b *RuleBuilder) mediaRuleImpl(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	prelude := preludeUntil(cur, TokenOpenCurly, TokenSemicolon)
	rule := &Rule{Kind: RuleMedia, MediaQuery: tokenText(prelude), Line: at.Line, Column: at.Column}

	if cur.Current().Type != TokenOpenCurly {
		if cur.Current().Type == TokenSemicolon {
			cur.Advance()
		}
		return rule
	}

	b.push(rule)
	interior := cur.SliceCurrentBlock(b.errs)
	rule.Rules = b.AppendRules(NewTokenCursor(interior))
	b.pop()
	return rule
}

func (b *RuleBuilder) importRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	rule := &Rule{Kind: RuleImport, Line: at.Line, Column: at.Column}

	tok := cur.Current()
	if tok.Type == TokenString || tok.Type == TokenURL {
		rule.Href = cur.Advance().Value
	} else if tok.Type == TokenFunction && strings.EqualFold(tok.Value, "url") {
		cur.Advance()
		cur.SkipWhitespace()
		if cur.Current().Type == TokenString {
			rule.Href = cur.Advance().Value
		}
		cur.SkipWhitespace()
		if cur.Current().Type == TokenCloseParen {
			cur.Advance()
		}
	} else if b.errs != nil {
		b.errs.report(ErrInputUnexpected, tok.Line, tok.Column, "@import expects a string or url, got token type %d", tok.Type)
	}

	cur.SkipWhitespace()
	prelude := preludeUntil(cur, TokenSemicolon)
	rule.MediaQuery = tokenText(prelude)
	if cur.Current().Type == TokenSemicolon {
		cur.Advance()
	}
	return rule
}

func (b *RuleBuilder) charsetRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	rule := &Rule{Kind: RuleCharset, Line: at.Line, Column: at.Column}

	if cur.Current().Type == TokenString {
		rule.Encoding = cur.Advance().Value
	} else if b.errs != nil {
		t := cur.Current()
		b.errs.report(ErrInputUnexpected, t.Line, t.Column, "@charset expects a quoted string")
	}

	cur.SkipToSemicolon()
	if cur.Current().Type == TokenSemicolon {
		cur.Advance()
	}
	return rule
}

func (b *RuleBuilder) namespaceRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	rule := &Rule{Kind: RuleNamespace, Line: at.Line, Column: at.Column}

	if cur.Current().Type == TokenIdent {
		rule.Prefix = cur.Advance().Value
		cur.SkipWhitespace()
	}

	tok := cur.Current()
	if tok.Type == TokenString || tok.Type == TokenURL {
		rule.URI = cur.Advance().Value
	} else if tok.Type == TokenFunction && strings.EqualFold(tok.Value, "url") {
		cur.Advance()
		cur.SkipWhitespace()
		if cur.Current().Type == TokenString {
			rule.URI = cur.Advance().Value
		}
		cur.SkipToSemicolon()
	}

	cur.SkipToSemicolon()
	if cur.Current().Type == TokenSemicolon {
		cur.Advance()
	}
	return rule
}

func (b *RuleBuilder) pageRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	prelude := preludeUntil(cur, TokenOpenCurly, TokenSemicolon)
	rule := &Rule{Kind: RulePage, Line: at.Line, Column: at.Column}
	if len(trimWhitespaceTokens(prelude)) > 0 {
		rule.Selector = b.selector(trimWhitespaceTokens(prelude))
	}

	if cur.Current().Type != TokenOpenCurly {
		if cur.Current().Type == TokenSemicolon {
			cur.Advance()
		}
		return rule
	}

	interior := cur.SliceCurrentBlock(b.errs)
	rule.Declarations = b.decls.DeclarationList(NewTokenCursor(interior))
	return rule
}

func (b *RuleBuilder) fontFaceRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	rule := &Rule{Kind: RuleFontFace, Line: at.Line, Column: at.Column}

	if cur.Current().Type != TokenOpenCurly {
		cur.SkipPastSemicolon()
		return rule
	}
	interior := cur.SliceCurrentBlock(b.errs)
	rule.Declarations = b.decls.DeclarationList(NewTokenCursor(interior))
	return rule
}

func (b *RuleBuilder) keyframesRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	rule := &Rule{Kind: RuleKeyframes, Line: at.Line, Column: at.Column}

	if cur.Current().Type == TokenIdent || cur.Current().Type == TokenString {
		rule.Name = cur.Advance().Value
	}
	cur.SkipWhitespace()

	if cur.Current().Type != TokenOpenCurly {
		cur.SkipPastSemicolon()
		return rule
	}

	b.push(rule)
	interior := NewTokenCursor(cur.SliceCurrentBlock(b.errs))
	for {
		interior.SkipWhitespace()
		if interior.Current().Type == TokenEOF {
			break
		}
		keyTokens := preludeUntil(interior, TokenOpenCurly)
		keyText := tokenText(trimWhitespaceTokens(keyTokens))
		if interior.Current().Type != TokenOpenCurly {
			break
		}
		body := interior.SliceCurrentBlock(b.errs)
		decls := b.decls.DeclarationList(NewTokenCursor(body))
		rule.Keyframes = append(rule.Keyframes, Keyframe{KeyText: keyText, Declarations: decls})
	}
	b.pop()
	return rule
}

// parseKeyframeRule parses a single standalone `key_text { decls }`
// entry, e.g. for CSSKeyframesRule.appendRule's dynamic insertion API.
func (b *RuleBuilder) parseKeyframeRule(cur *TokenCursor) *Keyframe {
	cur.SkipWhitespace()
	keyTokens := preludeUntil(cur, TokenOpenCurly)
	keyText := tokenText(trimWhitespaceTokens(keyTokens))
	if cur.Current().Type != TokenOpenCurly {
		return nil
	}
	body := cur.SliceCurrentBlock(b.errs)
	decls := b.decls.DeclarationList(NewTokenCursor(body))
	return &Keyframe{KeyText: keyText, Declarations: decls}
}

func (b *RuleBuilder) supportsRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	prelude := preludeUntil(cur, TokenOpenCurly, TokenSemicolon)
	rule := &Rule{Kind: RuleSupports, ConditionText: tokenText(prelude), Line: at.Line, Column: at.Column}

	if cur.Current().Type != TokenOpenCurly {
		cur.SkipPastSemicolon()
		return rule
	}

	b.push(rule)
	interior := cur.SliceCurrentBlock(b.errs)
	rule.Rules = b.AppendRules(NewTokenCursor(interior))
	b.pop()
	return rule
}

func (b *RuleBuilder) documentRule(at Token, cur *TokenCursor) *Rule {
	cur.SkipWhitespace()
	rule := &Rule{Kind: RuleDocument, Line: at.Line, Column: at.Column}

	for {
		cur.SkipWhitespace()
		tok := cur.Current()
		if tok.Type == TokenOpenCurly || tok.Type == TokenEOF || tok.Type == TokenSemicolon {
			break
		}

		var cond DocumentCondition
		switch {
		case tok.Type == TokenURL:
			cond = DocumentCondition{Kind: DocumentURL, Text: cur.Advance().Value}
		case tok.Type == TokenFunction && strings.EqualFold(tok.Value, "url-prefix"):
			cur.Advance()
			cond = DocumentCondition{Kind: DocumentURLPrefix, Text: consumeQuotedFunctionArg(cur)}
		case tok.Type == TokenFunction && strings.EqualFold(tok.Value, "domain"):
			cur.Advance()
			cond = DocumentCondition{Kind: DocumentDomain, Text: consumeQuotedFunctionArg(cur)}
		case tok.Type == TokenFunction && strings.EqualFold(tok.Value, "regexp"):
			cur.Advance()
			cond = DocumentCondition{Kind: DocumentRegExp, Text: consumeQuotedFunctionArg(cur)}
		default:
			if b.errs != nil {
				b.errs.report(ErrInputUnexpected, tok.Line, tok.Column, "unrecognized @document condition near %q", tok.Value)
			}
			cur.Advance()
			continue
		}
		rule.Conditions = append(rule.Conditions, cond)

		cur.SkipWhitespace()
		if cur.Current().Type == TokenComma {
			cur.Advance()
			continue
		}
		if cur.Current().Type != TokenOpenCurly {
			if b.errs != nil {
				t := cur.Current()
				b.errs.report(ErrInputUnexpected, t.Line, t.Column, "expected ',' between @document conditions")
			}
		}
		break
	}

	if cur.Current().Type != TokenOpenCurly {
		cur.SkipPastSemicolon()
		return rule
	}

	b.push(rule)
	interior := cur.SliceCurrentBlock(b.errs)
	rule.Rules = b.AppendRules(NewTokenCursor(interior))
	b.pop()
	return rule
}

// consumeQuotedFunctionArg reads a condition function's argument up to
// and including its closing paren: a quoted string, or else the
// reconstructed text of an unquoted argument such as `example.org`.
func consumeQuotedFunctionArg(cur *TokenCursor) string {
	cur.SkipWhitespace()
	var text string
	if cur.Current().Type == TokenString {
		text = cur.Advance().Value
	}
	var raw []Token
	for cur.Current().Type != TokenCloseParen && cur.Current().Type != TokenEOF {
		raw = append(raw, cur.Advance())
	}
	if text == "" {
		text = tokenText(raw)
	}
	if cur.Current().Type == TokenCloseParen {
		cur.Advance()
	}
	return text
}

func (b *RuleBuilder) unknownRule(at Token, cur *TokenCursor) *Rule {
	rule := &Rule{Kind: RuleUnknown, Line: at.Line, Column: at.Column}
	var raw strings.Builder
	raw.WriteString("@")
	raw.WriteString(at.Value)

	depth := 0
	for {
		tok := cur.Current()
		if tok.Type == TokenEOF {
			break
		}
		if tok.Type == TokenSemicolon && depth == 0 {
			cur.Advance()
			break
		}
		if tok.Type == TokenOpenCurly {
			if depth == 0 {
				raw.WriteString(" ")
				block := cur.SliceCurrentBlock(b.errs)
				raw.WriteString("{ ")
				raw.WriteString(tokenText(block))
				raw.WriteString(" }")
				break
			}
			depth++
		}
		if tok.Type == TokenCloseCurly {
			if depth > 0 {
				depth--
			}
		}
		raw.WriteString(tokenText([]Token{tok}))
		cur.Advance()
	}

	rule.RawText = strings.TrimSpace(raw.String())
	return rule
}
