// Package css provides CSS parsing functionality following CSS Syntax Module Level 3.
// Reference: https://www.w3.org/TR/css-syntax-3/
package css

import (
	"sync"
)

// ParserState is the Parser's lifecycle state.
type ParserState int

const (
	StateFresh ParserState = iota
	StateRunning
	StateDone
)

// ParserOption configures a Parser, mirroring the network client's
// functional-options idiom.
type ParserOption func(*Parser)

// WithPropertyRegistry injects a PropertyRegistry for declaration
// validation. Omitted or nil keeps the lenient default.
func WithPropertyRegistry(r PropertyRegistry) ParserOption {
	return func(p *Parser) {
		p.registry = r
	}
}

// WithStrictMode rejects declarations the PropertyRegistry refuses,
// instead of keeping them as generic name/value/important triples.
func WithStrictMode(strict bool) ParserOption {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithQuirksMode sets the parser's initial quirks-mode flag. This core
// does not itself change tokenization/grammar behavior under quirks
// mode (that's a property-resolution concern); the flag is carried for
// callers (e.g. a cascade engine) that need it alongside the parsed tree.
func WithQuirksMode(quirks bool) ParserOption {
	return func(p *Parser) {
		p.quirksMode = quirks
	}
}

// WithErrorHandler subscribes h to every error reported during Parse.
func WithErrorHandler(h ErrorHandler) ParserOption {
	return func(p *Parser) {
		p.errs.setHandler(h)
	}
}

// Parser drives tokenization and rule construction over a single input
// string. States progress Fresh -> Running -> Done under mu; Parse is
// idempotent once Done, and ParseAsync marks Running immediately so a
// subsequent synchronous Parse call is rejected rather than racing the
// worker goroutine.
type Parser struct {
	mu sync.Mutex

	input      string
	registry   PropertyRegistry
	strict     bool
	quirksMode bool
	errs       *errorSink

	state  ParserState
	result *Stylesheet
}

// NewParser creates a Parser over input, in the Fresh state.
func NewParser(input string, opts ...ParserOption) *Parser {
	p := &Parser{
		input: input,
		errs:  &errorSink{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// QuirksMode reports the parser's quirks-mode flag.
func (p *Parser) QuirksMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quirksMode
}

// SetQuirksMode updates the quirks-mode flag. Safe to call before or
// after Parse; it has no effect on an already-completed parse.
func (p *Parser) SetQuirksMode(quirks bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quirksMode = quirks
}

// OnError subscribes h to errors reported during Parse. Subscribing
// after Parse has already run delivers nothing retroactively — read
// Errors() instead.
func (p *Parser) OnError(h ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs.setHandler(h)
}

// Errors returns every error reported so far, in source order.
func (p *Parser) Errors() []*ParseError {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs.errors
}

// Parse runs synchronously on the caller's goroutine. Calling Parse
// again after it has completed is a no-op returning the cached result.
// Calling it while a ParseAsync run is in flight (or after one has
// started) returns ErrInvalidOperation.
func (p *Parser) Parse() (*Stylesheet, error) {
	p.mu.Lock()
	switch p.state {
	case StateDone:
		result := p.result
		p.mu.Unlock()
		return result, nil
	case StateRunning:
		p.mu.Unlock()
		return nil, newParseError(ErrInvalidOperation, 0, 0, "parse already running")
	}
	p.state = StateRunning
	p.mu.Unlock()

	result := p.run()

	p.mu.Lock()
	p.result = result
	p.state = StateDone
	p.mu.Unlock()

	return result, nil
}

// ParseAsync starts the parse on a worker goroutine and returns a
// channel delivering the single result. It marks the parser Running
// immediately, so a concurrent Parse call observes the guard rather
// than racing the goroutine for p.result.
func (p *Parser) ParseAsync() <-chan *Stylesheet {
	out := make(chan *Stylesheet, 1)

	p.mu.Lock()
	if p.state != StateFresh {
		p.mu.Unlock()
		if p.state == StateDone {
			out <- p.result
		}
		close(out)
		return out
	}
	p.state = StateRunning
	p.mu.Unlock()

	go func() {
		result := p.run()
		p.mu.Lock()
		p.result = result
		p.state = StateDone
		p.mu.Unlock()
		out <- result
		close(out)
	}()

	return out
}

// Result lazily drives Parse on first access and returns the populated
// Stylesheet, discarding any error (Parse only errors on misuse of the
// Fresh/Running/Done contract, never on malformed CSS).
func (p *Parser) Result() *Stylesheet {
	stylesheet, _ := p.Parse()
	return stylesheet
}

func (p *Parser) run() *Stylesheet {
	tokens := newTokenizerWithSink(p.input, p.errs).TokenizeAll()
	cur := NewTokenCursor(tokens)
	rb := newRuleBuilder(p.errs, p.registry, p.strict)
	return newStylesheet(rb.AppendRules(cur))
}

// ParseResult is ParseStylesheetString's return value: the parsed tree
// plus every error accumulated along the way.
type ParseResult struct {
	Stylesheet *Stylesheet
	Errors     []*ParseError
}

// ParseStylesheetString parses a complete stylesheet synchronously.
func ParseStylesheetString(input string, opts ...ParserOption) ParseResult {
	p := NewParser(input, opts...)
	sheet, _ := p.Parse()
	return ParseResult{Stylesheet: sheet, Errors: p.Errors()}
}

// ParseRuleString parses a single top-level rule (qualified or at-rule).
func ParseRuleString(input string, opts ...ParserOption) (*Rule, error) {
	p := NewParser(input, opts...)
	cur := NewTokenCursor(newTokenizerWithSink(p.input, p.errs).TokenizeAll())
	rb := newRuleBuilder(p.errs, p.registry, p.strict)
	rule := rb.Rule(cur)
	if rule == nil {
		return nil, newParseError(ErrSyntaxError, 0, 0, "no rule could be parsed from input")
	}
	return rule, nil
}

// ParseDeclarationString parses a single `name: value` declaration.
func ParseDeclarationString(input string, opts ...ParserOption) (*Declaration, error) {
	p := NewParser(input, opts...)
	cur := NewTokenCursor(newTokenizerWithSink(p.input, p.errs).TokenizeAll())
	db := newDeclarationBuilder(p.errs, p.registry, p.strict)
	decl := db.Declaration(cur)
	if decl == nil {
		return nil, newParseError(ErrSyntaxError, 0, 0, "no declaration could be parsed from input")
	}
	return decl, nil
}

// ParseDeclarationsString parses a `;`-separated run of declarations,
// as found inside a style block's interior.
func ParseDeclarationsString(input string, opts ...ParserOption) []Declaration {
	p := NewParser(input, opts...)
	cur := NewTokenCursor(newTokenizerWithSink(p.input, p.errs).TokenizeAll())
	db := newDeclarationBuilder(p.errs, p.registry, p.strict)
	return db.DeclarationList(cur)
}

// ParseValueString parses one atomic value.
func ParseValueString(input string) *Value {
	errs := &errorSink{}
	cur := NewTokenCursor(newTokenizerWithSink(input, errs).TokenizeAll())
	return newValueBuilder(errs).Value(cur)
}

// ParseValueListString parses a whitespace/comma-separated value list.
func ParseValueListString(input string) Value {
	errs := &errorSink{}
	cur := NewTokenCursor(newTokenizerWithSink(input, errs).TokenizeAll())
	return newValueBuilder(errs).MultiValues(cur)
}

// ParseKeyframeRuleString parses a single `key_text { declarations }`
// keyframe entry.
func ParseKeyframeRuleString(input string, opts ...ParserOption) *Keyframe {
	p := NewParser(input, opts...)
	cur := NewTokenCursor(newTokenizerWithSink(p.input, p.errs).TokenizeAll())
	rb := newRuleBuilder(p.errs, p.registry, p.strict)
	return rb.parseKeyframeRule(cur)
}
