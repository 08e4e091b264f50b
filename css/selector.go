package css

import "strings"

// CSSSelector is a selector list: complex selectors separated by commas.
type CSSSelector struct {
	ComplexSelectors []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors linked by combinators.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors applying to one
// element in a complex selector's chain, plus the combinator that
// follows it (CombinatorNone on the chain's last compound).
type CompoundSelector struct {
	TypeSelector      *TypeSelector
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClassSelector
	PseudoElement     *PseudoElementSelector
	Combinator        CombinatorType
}

// CombinatorType names the relationship between two compound selectors.
type CombinatorType int

const (
	CombinatorNone              CombinatorType = iota
	CombinatorDescendant                       // (whitespace)
	CombinatorChild                            // >
	CombinatorNextSibling                      // +
	CombinatorSubsequentSibling                // ~
	CombinatorColumn                           // ||
)

// TypeSelector matches an element by tag name, optionally namespaced.
type TypeSelector struct {
	Namespace string // "*" for any namespace, "" for none, else explicit prefix
	Name      string // "*" for the universal selector, else a tag name
}

// AttributeMatcher is a `[name op value]` selector component.
type AttributeMatcher struct {
	Namespace       string
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// AttributeOperator names the comparison an AttributeMatcher performs.
type AttributeOperator int

const (
	AttrExists     AttributeOperator = iota // [attr]
	AttrEquals                              // [attr=value]
	AttrIncludes                            // [attr~=value]
	AttrDashMatch                           // [attr|=value]
	AttrPrefix                              // [attr^=value]
	AttrSuffix                              // [attr$=value]
	AttrSubstring                           // [attr*=value]
)

// PseudoClassSelector is a `:name` or `:name(...)` component. Functional
// pseudo-classes that take a selector list (:not, :is, :where, :has)
// get their argument parsed eagerly into Selector; others keep the raw
// argument text in Argument for the caller to interpret.
type PseudoClassSelector struct {
	Name     string
	Argument string
	Selector *CSSSelector
}

// PseudoElementSelector is a `::name` or `::name(...)` component.
type PseudoElementSelector struct {
	Name     string
	Argument string
}

// Specificity is the (A, B, C) specificity tuple per Selectors Level 4:
// A counts ID selectors, B counts classes/attributes/pseudo-classes, C
// counts type selectors and pseudo-elements.
type Specificity struct {
	A, B, C int
}

// Compare returns -1, 0, or 1 as s is less than, equal to, or greater
// than other, comparing A then B then C.
func (s Specificity) Compare(other Specificity) int {
	if s.A != other.A {
		if s.A > other.A {
			return 1
		}
		return -1
	}
	if s.B != other.B {
		if s.B > other.B {
			return 1
		}
		return -1
	}
	if s.C != other.C {
		if s.C > other.C {
			return 1
		}
		return -1
	}
	return 0
}

// Less reports whether s is strictly less specific than other.
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

// CalculateSpecificity sums one complex selector's contribution.
func (cs *ComplexSelector) CalculateSpecificity() Specificity {
	var spec Specificity
	for _, compound := range cs.Compounds {
		spec.A += len(compound.IDSelectors)
		spec.B += len(compound.ClassSelectors) + len(compound.AttributeMatchers) + len(compound.PseudoClasses)
		if compound.TypeSelector != nil && compound.TypeSelector.Name != "*" {
			spec.C++
		}
		if compound.PseudoElement != nil {
			spec.C++
		}
	}
	return spec
}

// CalculateSpecificity returns the highest specificity among a
// selector list's complex selectors, per the cascade's tie-breaking
// rule for comma-separated selector lists.
func (s *CSSSelector) CalculateSpecificity() Specificity {
	var max Specificity
	for _, cs := range s.ComplexSelectors {
		if spec := cs.CalculateSpecificity(); max.Less(spec) {
			max = spec
		}
	}
	return max
}

// SelectorConstructor builds a CSSSelector AST from a token run. It
// does not match selectors against any element tree — that stays an
// external collaborator's responsibility.
type SelectorConstructor struct {
	cur  *TokenCursor
	errs *errorSink
}

func newSelectorConstructor(cur *TokenCursor, errs *errorSink) *SelectorConstructor {
	return &SelectorConstructor{cur: cur, errs: errs}
}

// ParseSelector parses a standalone selector string, e.g. for the
// driver's parse_selector static entry point.
func ParseSelector(input string) (*CSSSelector, error) {
	tokens := NewTokenizer(input).TokenizeAll()
	return ParseSelectorFromTokens(tokens)
}

// ParseSelectorFromTokens parses a selector from an already-tokenized
// run, e.g. a qualified rule's prelude.
func ParseSelectorFromTokens(tokens []Token) (*CSSSelector, error) {
	sc := newSelectorConstructor(NewTokenCursor(tokens), &errorSink{})
	return sc.parseSelectorList(), nil
}

func (sc *SelectorConstructor) parseSelectorList() *CSSSelector {
	sel := &CSSSelector{}
	sc.cur.SkipWhitespace()

	for {
		if complex := sc.parseComplexSelector(); complex != nil {
			sel.ComplexSelectors = append(sel.ComplexSelectors, complex)
		}
		sc.cur.SkipWhitespace()

		if sc.cur.Current().Type == TokenComma {
			sc.cur.Advance()
			sc.cur.SkipWhitespace()
			continue
		}
		break
	}
	return sel
}

func (sc *SelectorConstructor) parseComplexSelector() *ComplexSelector {
	complex := &ComplexSelector{}

	for {
		compound := sc.parseCompoundSelector()
		if compound == nil {
			break
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := false
		for sc.cur.Current().Type == TokenWhitespace {
			sc.cur.Advance()
			hadWhitespace = true
		}

		tok := sc.cur.Current()
		switch {
		case tok.Type == TokenDelim && tok.Delim == '>':
			sc.cur.Advance()
			compound.Combinator = CombinatorChild
			sc.cur.SkipWhitespace()
		case tok.Type == TokenDelim && tok.Delim == '+':
			sc.cur.Advance()
			compound.Combinator = CombinatorNextSibling
			sc.cur.SkipWhitespace()
		case tok.Type == TokenDelim && tok.Delim == '~':
			sc.cur.Advance()
			compound.Combinator = CombinatorSubsequentSibling
			sc.cur.SkipWhitespace()
		case tok.Type == TokenDelim && tok.Delim == '|' && sc.cur.Peek(1).Type == TokenDelim && sc.cur.Peek(1).Delim == '|':
			sc.cur.Advance()
			sc.cur.Advance()
			compound.Combinator = CombinatorColumn
			sc.cur.SkipWhitespace()
		case tok.Type == TokenEOF || tok.Type == TokenComma || tok.Type == TokenOpenCurly:
			return complex
		default:
			if hadWhitespace {
				compound.Combinator = CombinatorDescendant
			} else {
				return complex
			}
		}
	}
	return complex
}

func (sc *SelectorConstructor) parseCompoundSelector() *CompoundSelector {
	compound := &CompoundSelector{}
	hasContent := false

	if sc.isTypeSelector() {
		compound.TypeSelector = sc.parseTypeSelector()
		hasContent = true
	}

loop:
	for {
		tok := sc.cur.Current()
		switch {
		case tok.Type == TokenHash && tok.HashType == HashID:
			sc.cur.Advance()
			compound.IDSelectors = append(compound.IDSelectors, tok.Value)
			hasContent = true

		case tok.Type == TokenDelim && tok.Delim == '.':
			sc.cur.Advance()
			if sc.cur.Current().Type == TokenIdent {
				compound.ClassSelectors = append(compound.ClassSelectors, sc.cur.Advance().Value)
				hasContent = true
			}

		case tok.Type == TokenDelim && tok.Delim == '*' && compound.TypeSelector == nil && !hasContent:
			sc.cur.Advance()
			compound.TypeSelector = &TypeSelector{Name: "*"}
			hasContent = true

		case tok.Type == TokenColon:
			sc.cur.Advance()
			if sc.cur.Current().Type == TokenColon {
				sc.cur.Advance()
				compound.PseudoElement = sc.parsePseudoElement()
			} else {
				compound.PseudoClasses = append(compound.PseudoClasses, sc.parsePseudoClass())
			}
			hasContent = true

		case tok.Type == TokenOpenSquare:
			if attr := sc.parseAttributeSelector(); attr != nil {
				compound.AttributeMatchers = append(compound.AttributeMatchers, attr)
				hasContent = true
			}

		default:
			break loop
		}
	}

	if !hasContent {
		return nil
	}
	return compound
}

func (sc *SelectorConstructor) isTypeSelector() bool {
	tok := sc.cur.Current()
	if tok.Type == TokenIdent {
		return true
	}
	return tok.Type == TokenDelim && (tok.Delim == '*' || tok.Delim == '|')
}

func (sc *SelectorConstructor) parseTypeSelector() *TypeSelector {
	ts := &TypeSelector{}
	tok := sc.cur.Current()

	switch {
	case tok.Type == TokenDelim && tok.Delim == '*':
		sc.cur.Advance()
		if sc.cur.Current().Type == TokenDelim && sc.cur.Current().Delim == '|' {
			sc.cur.Advance()
			ts.Namespace = "*"
			tok = sc.cur.Current()
		} else {
			ts.Name = "*"
			return ts
		}
	case tok.Type == TokenDelim && tok.Delim == '|':
		sc.cur.Advance()
		tok = sc.cur.Current()
	case tok.Type == TokenIdent:
		if next := sc.cur.Peek(1); next.Type == TokenDelim && next.Delim == '|' {
			ts.Namespace = tok.Value
			sc.cur.Advance()
			sc.cur.Advance()
			tok = sc.cur.Current()
		}
	}

	switch {
	case tok.Type == TokenIdent:
		ts.Name = strings.ToLower(sc.cur.Advance().Value)
	case tok.Type == TokenDelim && tok.Delim == '*':
		sc.cur.Advance()
		ts.Name = "*"
	case ts.Namespace != "":
		ts.Name = "*"
	}
	return ts
}

func (sc *SelectorConstructor) parseAttributeSelector() *AttributeMatcher {
	open := sc.cur.Advance() // [
	attr := &AttributeMatcher{}
	sc.cur.SkipWhitespace()

	tok := sc.cur.Current()
	switch {
	case tok.Type == TokenDelim && tok.Delim == '*':
		sc.cur.Advance()
		if sc.cur.Current().Type == TokenDelim && sc.cur.Current().Delim == '|' {
			sc.cur.Advance()
			attr.Namespace = "*"
		}
	case tok.Type == TokenDelim && tok.Delim == '|':
		sc.cur.Advance()
	case tok.Type == TokenIdent:
		next, nextNext := sc.cur.Peek(1), sc.cur.Peek(2)
		if next.Type == TokenDelim && next.Delim == '|' && nextNext.Type == TokenIdent {
			attr.Namespace = tok.Value
			sc.cur.Advance()
			sc.cur.Advance()
		}
	}

	if sc.cur.Current().Type == TokenIdent {
		attr.Name = strings.ToLower(sc.cur.Advance().Value)
	}
	sc.cur.SkipWhitespace()

	tok = sc.cur.Current()
	if tok.Type == TokenCloseSquare {
		sc.cur.Advance()
		attr.Operator = AttrExists
		return attr
	}

	if tok.Type == TokenDelim {
		consumeEq := func() bool {
			if sc.cur.Current().Type == TokenDelim && sc.cur.Current().Delim == '=' {
				sc.cur.Advance()
				return true
			}
			return false
		}
		switch tok.Delim {
		case '=':
			sc.cur.Advance()
			attr.Operator = AttrEquals
		case '~':
			sc.cur.Advance()
			if consumeEq() {
				attr.Operator = AttrIncludes
			}
		case '|':
			sc.cur.Advance()
			if consumeEq() {
				attr.Operator = AttrDashMatch
			}
		case '^':
			sc.cur.Advance()
			if consumeEq() {
				attr.Operator = AttrPrefix
			}
		case '$':
			sc.cur.Advance()
			if consumeEq() {
				attr.Operator = AttrSuffix
			}
		case '*':
			sc.cur.Advance()
			if consumeEq() {
				attr.Operator = AttrSubstring
			}
		}
	}

	sc.cur.SkipWhitespace()
	if tok := sc.cur.Current(); tok.Type == TokenString || tok.Type == TokenIdent {
		attr.Value = sc.cur.Advance().Value
	}
	sc.cur.SkipWhitespace()

	if tok := sc.cur.Current(); tok.Type == TokenIdent && len(tok.Value) == 1 {
		if tok.Value == "i" || tok.Value == "I" {
			attr.CaseInsensitive = true
		}
		if tok.Value == "i" || tok.Value == "I" || tok.Value == "s" || tok.Value == "S" {
			sc.cur.Advance()
			sc.cur.SkipWhitespace()
		}
	}

	if sc.cur.Current().Type == TokenCloseSquare {
		sc.cur.Advance()
	} else if sc.errs != nil {
		sc.errs.report(ErrUnbalancedBracket, open.Line, open.Column, "unterminated attribute selector")
	}
	return attr
}

func (sc *SelectorConstructor) parsePseudoClass() *PseudoClassSelector {
	pc := &PseudoClassSelector{}
	tok := sc.cur.Current()

	switch tok.Type {
	case TokenIdent:
		pc.Name = strings.ToLower(sc.cur.Advance().Value)
	case TokenFunction:
		pc.Name = strings.ToLower(sc.cur.Advance().Value)
		sc.cur.SkipWhitespace()

		switch pc.Name {
		case "not", "is", "where", "has":
			inner := sc.sliceParenArgument()
			sub := newSelectorConstructor(NewTokenCursor(inner), sc.errs)
			pc.Selector = sub.parseSelectorList()
		default:
			pc.Argument = sc.renderParenArgument()
		}
	}
	return pc
}

func (sc *SelectorConstructor) parsePseudoElement() *PseudoElementSelector {
	pe := &PseudoElementSelector{}
	tok := sc.cur.Current()

	switch tok.Type {
	case TokenIdent:
		pe.Name = strings.ToLower(sc.cur.Advance().Value)
	case TokenFunction:
		pe.Name = strings.ToLower(sc.cur.Advance().Value)
		pe.Argument = sc.renderParenArgument()
	}
	return pe
}

// sliceParenArgument consumes a balanced `( ... )` run, already past
// the opening paren (absorbed by the Function token), and returns its
// interior tokens.
func (sc *SelectorConstructor) sliceParenArgument() []Token {
	var tokens []Token
	depth := 1
	for {
		tok := sc.cur.Current()
		if tok.Type == TokenEOF {
			return tokens
		}
		if tok.Type == TokenOpenParen || tok.Type == TokenFunction {
			depth++
		} else if tok.Type == TokenCloseParen {
			depth--
			if depth == 0 {
				sc.cur.Advance()
				return tokens
			}
		}
		tokens = append(tokens, sc.cur.Advance())
	}
}

// renderParenArgument is sliceParenArgument plus a minimal textual
// rendering, for pseudo-classes/elements whose argument isn't itself a
// selector (e.g. :nth-child(2n+1)).
func (sc *SelectorConstructor) renderParenArgument() string {
	var sb strings.Builder
	for _, tok := range sc.sliceParenArgument() {
		switch tok.Type {
		case TokenWhitespace:
			sb.WriteString(" ")
		case TokenIdent, TokenNumber:
			sb.WriteString(tok.Value)
		case TokenDimension:
			sb.WriteString(tok.Value)
			sb.WriteString(tok.Unit)
		case TokenDelim:
			sb.WriteRune(tok.Delim)
		}
	}
	return strings.TrimSpace(sb.String())
}
