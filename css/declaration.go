package css

import "strings"

// Declaration is a property/value pair with an !important flag.
// Property names are case-insensitive and normalized to lower.
type Declaration struct {
	Name      string
	Value     Value
	Important bool
}

// ValidationOutcome is the PropertyRegistry's verdict on a declaration.
type ValidationOutcome struct {
	Accepted bool
	Reason   string
}

// PropertyRegistry validates a property/value pair. It is an external
// collaborator: this package defines the interface and a permissive
// default, but real property semantics (accepted units, keyword enums,
// shorthand expansion) live outside this parsing core.
type PropertyRegistry interface {
	Validate(name string, value Value) ValidationOutcome
}

// lenientRegistry accepts every declaration unconditionally. It is the
// default used when no PropertyRegistry is supplied, matching the
// driver's documented lenient-by-default behavior.
type lenientRegistry struct{}

func (lenientRegistry) Validate(name string, value Value) ValidationOutcome {
	return ValidationOutcome{Accepted: true}
}

// DeclarationBuilder consumes `property: value` pairs, reporting
// structured errors and recovering to the next `;` without aborting.
type DeclarationBuilder struct {
	errs     *errorSink
	values   *ValueBuilder
	registry PropertyRegistry
	strict   bool
}

func newDeclarationBuilder(errs *errorSink, registry PropertyRegistry, strict bool) *DeclarationBuilder {
	if registry == nil {
		registry = lenientRegistry{}
	}
	return &DeclarationBuilder{
		errs:     errs,
		values:   newValueBuilder(errs),
		registry: registry,
		strict:   strict,
	}
}

// Declaration consumes one declaration at the cursor, which must be
// positioned at (or before, across whitespace) an Ident token. The
// cursor is always left past the next top-level `;` (or EOF), whether
// or not a usable declaration was produced.
func (b *DeclarationBuilder) Declaration(cur *TokenCursor) *Declaration {
	cur.SkipWhitespace()
	start := cur.Pos()

	nameTok := cur.Current()
	if nameTok.Type != TokenIdent {
		cur.SkipPastSemicolon()
		return nil
	}
	cur.Advance()

	cur.SkipWhitespace()
	if cur.Current().Type != TokenColon {
		if b.errs != nil {
			b.errs.report(ErrInvalidCharacter, nameTok.Line, nameTok.Column, "expected ':' after property name %q", nameTok.Value)
		}
		cur.Seek(start)
		cur.SkipPastSemicolon()
		return nil
	}
	cur.Advance()
	cur.SkipWhitespace()

	value := b.values.MultiValues(cur)
	if value.Kind == ValueList && len(value.Items) == 0 {
		if b.errs != nil {
			t := cur.Current()
			b.errs.report(ErrInputUnexpected, t.Line, t.Column, "property %q has no value", strings.ToLower(nameTok.Value))
		}
		cur.SkipPastSemicolon()
		return nil
	}

	important := false
	cur.SkipWhitespace()
	if important = consumeImportant(cur); important {
		cur.SkipWhitespace()
	}

	decl := &Declaration{
		Name:      strings.ToLower(nameTok.Value),
		Value:     value,
		Important: important,
	}

	outcome := b.registry.Validate(decl.Name, decl.Value)
	if !outcome.Accepted {
		if b.errs != nil {
			b.errs.report(ErrInvalidProperty, nameTok.Line, nameTok.Column, "property %q rejected: %s", decl.Name, outcome.Reason)
		}
		if b.strict {
			decl = nil
		}
	}

	cur.SkipPastSemicolon()
	return decl
}

// consumeImportant recognizes a trailing `! important` (whitespace
// between ! and the keyword permitted, matching legacy authoring
// tools) and advances past it if found, leaving the cursor unchanged
// otherwise.
func consumeImportant(cur *TokenCursor) bool {
	save := cur.Pos()
	if cur.Current().Type != TokenDelim || cur.Current().Delim != '!' {
		return false
	}
	cur.Advance()
	cur.SkipWhitespace()
	if cur.Current().Type == TokenIdent && strings.EqualFold(cur.Current().Value, "important") {
		cur.Advance()
		return true
	}
	cur.Seek(save)
	return false
}

// DeclarationList consumes a `{ ... }` block's interior as a sequence
// of declarations, skipping whitespace and stray semicolons between
// them and recovering from malformed entries one at a time.
func (b *DeclarationBuilder) DeclarationList(cur *TokenCursor) []Declaration {
	var decls []Declaration
	for {
		cur.SkipWhitespace()
		switch cur.Current().Type {
		case TokenEOF:
			return decls
		case TokenSemicolon:
			cur.Advance()
		case TokenIdent:
			if d := b.Declaration(cur); d != nil {
				decls = append(decls, *d)
			}
		default:
			cur.SkipPastSemicolon()
		}
	}
}
