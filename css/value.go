package css

import "strings"

// ValueKind tags the variant a Value holds — the mini-language shared
// by every typed property schema that sits above this package.
type ValueKind int

const (
	ValuePrimitive ValueKind = iota
	ValueFunction
	ValueList
	ValueInherit
	ValueInitial
)

// PrimitiveUnit classifies a Primitive value's payload.
type PrimitiveUnit int

const (
	UnitString PrimitiveUnit = iota
	UnitUri
	UnitIdent
	UnitNumber
	UnitPercentage
	UnitLength
	UnitAngle
	UnitTime
	UnitFrequency
	UnitColor
	UnitUnknown
)

// Value is a tagged variant: exactly one of the field groups below is
// meaningful, selected by Kind. A single flat struct (rather than an
// interface per variant) keeps construction and pattern-dispatch in
// the rest of the package straightforward, mirroring how Token itself
// is represented.
type Value struct {
	Kind ValueKind

	// Primitive fields (Kind == ValuePrimitive).
	Unit   PrimitiveUnit
	Text   string // Ident name, String contents, Uri target, unit suffix, or Unknown's raw text
	Number float64
	Color  Color

	// Function fields (Kind == ValueFunction).
	FunctionName string
	Args         []Value

	// List fields (Kind == ValueList).
	Items          []Value
	CommaSeparated bool
}

var lengthUnits = map[string]bool{
	"px": true, "em": true, "rem": true, "ex": true, "ch": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true,
	"cm": true, "mm": true, "in": true, "pt": true, "pc": true, "q": true,
}

var angleUnits = map[string]bool{"deg": true, "grad": true, "rad": true, "turn": true}
var timeUnits = map[string]bool{"s": true, "ms": true}
var frequencyUnits = map[string]bool{"hz": true, "khz": true}

func classifyDimensionUnit(unit string) PrimitiveUnit {
	lower := strings.ToLower(unit)
	switch {
	case lengthUnits[lower]:
		return UnitLength
	case angleUnits[lower]:
		return UnitAngle
	case timeUnits[lower]:
		return UnitTime
	case frequencyUnits[lower]:
		return UnitFrequency
	default:
		return UnitUnknown
	}
}

func isValueTerminator(t TokenType) bool {
	switch t {
	case TokenComma, TokenSemicolon, TokenEOF,
		TokenCloseParen, TokenCloseSquare, TokenCloseCurly:
		return true
	default:
		return false
	}
}

// ValueBuilder converts token ranges into Value trees. It holds no
// state of its own beyond the error sink it reports into; every entry
// point takes the TokenCursor to operate on.
type ValueBuilder struct {
	errs *errorSink
}

func newValueBuilder(errs *errorSink) *ValueBuilder {
	return &ValueBuilder{errs: errs}
}

// Value consumes one atomic value at the cursor and advances past it,
// per the token-to-Value table: strings, URLs, idents (including the
// inherit/initial keywords), numbers, percentages, dimensions (with
// ratio-syntax folding), hex and legacy hash colors, and functions.
// Returns nil, with the cursor still advanced past the offending
// token, for anything that produces no value (spec's "other" row).
func (vb *ValueBuilder) Value(cur *TokenCursor) *Value {
	tok := cur.Current()

	switch tok.Type {
	case TokenString:
		cur.Advance()
		return &Value{Kind: ValuePrimitive, Unit: UnitString, Text: tok.Value}

	case TokenURL:
		cur.Advance()
		return &Value{Kind: ValuePrimitive, Unit: UnitUri, Text: tok.Value}

	case TokenIdent:
		cur.Advance()
		switch strings.ToLower(tok.Value) {
		case "inherit":
			return &Value{Kind: ValueInherit}
		case "initial":
			return &Value{Kind: ValueInitial}
		}
		if c, ok := lookupNamedColor(tok.Value); ok {
			return &Value{Kind: ValuePrimitive, Unit: UnitColor, Color: c, Text: tok.Value}
		}
		return &Value{Kind: ValuePrimitive, Unit: UnitIdent, Text: tok.Value}

	case TokenPercentage:
		cur.Advance()
		return &Value{Kind: ValuePrimitive, Unit: UnitPercentage, Number: tok.NumValue, Text: tok.Value}

	case TokenNumber:
		cur.Advance()
		return &Value{Kind: ValuePrimitive, Unit: UnitNumber, Number: tok.NumValue, Text: tok.Value}

	case TokenDimension:
		cur.Advance()
		return vb.dimensionValue(cur, tok)

	case TokenHash:
		cur.Advance()
		if c, ok := parseHexColor(tok.Value); ok {
			return &Value{Kind: ValuePrimitive, Unit: UnitColor, Color: c, Text: "#" + tok.Value}
		}
		return nil

	case TokenDelim:
		if tok.Delim == '#' {
			cur.Advance()
			return vb.legacyHashColor(cur)
		}
		cur.Advance()
		return nil

	case TokenFunction:
		cur.Advance()
		return vb.functionValue(cur, tok.Value)

	default:
		cur.Advance()
		return nil
	}
}

// dimensionValue handles the Dimension row, including the ratio-syntax
// special case: a Dimension immediately followed by `/` and a Number
// folds into a single composite Primitive(Unknown) carrying the
// textual form, used by font shorthand and aspect-ratio.
func (vb *ValueBuilder) dimensionValue(cur *TokenCursor, dim Token) *Value {
	save := cur.Pos()
	if cur.Current().Type == TokenDelim && cur.Current().Delim == '/' {
		cur.Advance()
		if cur.Current().Type == TokenNumber {
			numTok := cur.Advance()
			text := dim.Value + dim.Unit + "/" + numTok.Value
			return &Value{Kind: ValuePrimitive, Unit: UnitUnknown, Text: text}
		}
		cur.Seek(save)
	}
	unit := classifyDimensionUnit(dim.Unit)
	text := dim.Unit
	if unit == UnitUnknown {
		text = dim.Value + dim.Unit
	}
	return &Value{
		Kind:   ValuePrimitive,
		Unit:   unit,
		Text:   text,
		Number: dim.NumValue,
	}
}

// legacyHashColor reconstructs a short color from a bare `#` delimiter
// followed by restricted (non-name) characters — the tokenizer emits
// Hash whenever `#` is followed by a name code point (letters and digits
// included, so `#123` is a Hash token), and only a `#` followed by some
// other character reaches here. Per spec open question (b), the stop condition
// used is: accumulate consecutive Number/Dimension/Ident token text up
// to 6 hex characters, stopping at the first non-hex-digit character.
func (vb *ValueBuilder) legacyHashColor(cur *TokenCursor) *Value {
	var sb strings.Builder

	for sb.Len() < 6 {
		tok := cur.Current()
		var piece string
		switch tok.Type {
		case TokenNumber:
			piece = tok.Value
		case TokenDimension:
			piece = tok.Value + tok.Unit
		case TokenIdent:
			piece = tok.Value
		default:
			piece = ""
		}
		if piece == "" {
			break
		}

		consumedAny := false
		for _, r := range piece {
			if sb.Len() >= 6 {
				break
			}
			if !isHexDigit(r) {
				break
			}
			sb.WriteRune(r)
			consumedAny = true
		}
		if !consumedAny {
			break
		}
		cur.Advance()
		if len(piece) > sb.Len() {
			break // trailing non-hex characters in this token end reconstruction
		}
	}

	hex := sb.String()
	c, ok := parseHexColor(hex)
	if !ok {
		if vb.errs != nil {
			line, col := 0, 0
			if t := cur.Current(); true {
				line, col = t.Line, t.Column
			}
			vb.errs.report(ErrInvalidValue, line, col, "could not reconstruct legacy hash color from %q", hex)
		}
		return nil
	}
	return &Value{Kind: ValuePrimitive, Unit: UnitColor, Color: c, Text: "#" + hex}
}

// functionValue consumes a function's argument list (already past the
// opening paren, since the Function token itself absorbs it) into a
// generic Function value for the caller to interpret. Color functions
// are not resolved here; see ResolveFunctionColor.
func (vb *ValueBuilder) functionValue(cur *TokenCursor, name string) *Value {
	args := vb.functionArgs(cur)
	return &Value{Kind: ValueFunction, FunctionName: name, Args: args}
}

// ResolveFunctionColor resolves an rgb()/rgba()/hsl()/hsla() Function
// value into a Color, for callers that want functional-color resolution
// on top of the plain value grammar. Reports false for any other
// function name.
func ResolveFunctionColor(v *Value) (Color, bool) {
	if v == nil || v.Kind != ValueFunction {
		return Color{}, false
	}
	switch strings.ToLower(v.FunctionName) {
	case "rgb", "rgba":
		return resolveRGBFunction(rgbComponents(v.Args)), true
	case "hsl", "hsla":
		return resolveHSLFunction(hslComponents(v.Args)), true
	default:
		return Color{}, false
	}
}

func rgbComponents(args []Value) []float64 {
	var nums []float64
	for i, a := range args {
		if a.Kind != ValuePrimitive {
			continue
		}
		switch a.Unit {
		case UnitPercentage:
			if i == 3 {
				nums = append(nums, a.Number/100)
			} else {
				nums = append(nums, a.Number/100*255)
			}
		case UnitNumber:
			nums = append(nums, a.Number)
		}
	}
	return nums
}

func hslComponents(args []Value) []float64 {
	var nums []float64
	for _, a := range args {
		if a.Kind != ValuePrimitive {
			continue
		}
		switch a.Unit {
		case UnitPercentage, UnitNumber, UnitAngle:
			nums = append(nums, a.Number)
		}
	}
	return nums
}

// functionArgs consumes comma-separated argument groups up to and
// including the closing paren.
func (vb *ValueBuilder) functionArgs(cur *TokenCursor) []Value {
	var args []Value
	cur.SkipWhitespace()

	if cur.Current().Type == TokenCloseParen {
		cur.Advance()
		return args
	}

	for {
		args = append(args, vb.ValueList(cur))
		cur.SkipWhitespace()
		if cur.Current().Type == TokenComma {
			cur.Advance()
			cur.SkipWhitespace()
			continue
		}
		break
	}

	if cur.Current().Type == TokenCloseParen {
		cur.Advance()
	}
	return args
}

// ValueList accumulates whitespace-separated Values until a comma,
// semicolon, block/function end, or a `!` delimiter (the start of a
// trailing `!important`), per spec's value_list entry point.
// A single accumulated value is returned bare rather than wrapped in a
// one-element List.
func (vb *ValueBuilder) ValueList(cur *TokenCursor) Value {
	cur.SkipWhitespace()

	var items []Value
	for !isValueTerminator(cur.Current().Type) {
		if t := cur.Current(); t.Type == TokenDelim && t.Delim == '!' {
			break
		}
		if v := vb.Value(cur); v != nil {
			items = append(items, *v)
		}
		cur.SkipWhitespace()
	}

	if len(items) == 1 {
		return items[0]
	}
	return Value{Kind: ValueList, Items: items, CommaSeparated: false}
}

// MultiValues repeatedly applies ValueList across top-level commas,
// per DeclarationBuilder's use of "multi_values": a lone group collapses
// to its bare value; more than one group wraps in a comma-separated List.
func (vb *ValueBuilder) MultiValues(cur *TokenCursor) Value {
	groups := []Value{vb.ValueList(cur)}

	for cur.Current().Type == TokenComma {
		cur.Advance()
		cur.SkipWhitespace()
		groups = append(groups, vb.ValueList(cur))
	}

	if len(groups) == 1 {
		return groups[0]
	}
	return Value{Kind: ValueList, Items: groups, CommaSeparated: true}
}
