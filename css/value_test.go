package css

import "testing"

func parseOneValue(t *testing.T, input string) *Value {
	t.Helper()
	cur := NewTokenCursor(tokensOf(input))
	vb := newValueBuilder(&errorSink{})
	v := vb.Value(cur)
	if v == nil {
		t.Fatalf("Value(%q) returned nil", input)
	}
	return v
}

func TestValueString(t *testing.T) {
	v := parseOneValue(t, `"hello"`)
	if v.Kind != ValuePrimitive || v.Unit != UnitString || v.Text != "hello" {
		t.Errorf("Value(%q) = %+v, want String primitive 'hello'", `"hello"`, v)
	}
}

func TestValueURL(t *testing.T) {
	v := parseOneValue(t, "url(foo.png)")
	if v.Kind != ValuePrimitive || v.Unit != UnitUri || v.Text != "foo.png" {
		t.Errorf("Value(url) = %+v, want Uri primitive 'foo.png'", v)
	}
}

func TestValueIdentKeywords(t *testing.T) {
	if v := parseOneValue(t, "inherit"); v.Kind != ValueInherit {
		t.Errorf("Value(inherit).Kind = %v, want ValueInherit", v.Kind)
	}
	if v := parseOneValue(t, "initial"); v.Kind != ValueInitial {
		t.Errorf("Value(initial).Kind = %v, want ValueInitial", v.Kind)
	}
	v := parseOneValue(t, "solid")
	if v.Kind != ValuePrimitive || v.Unit != UnitIdent || v.Text != "solid" {
		t.Errorf("Value(solid) = %+v, want Ident primitive 'solid'", v)
	}
}

func TestValueNamedColor(t *testing.T) {
	v := parseOneValue(t, "red")
	if v.Kind != ValuePrimitive || v.Unit != UnitColor {
		t.Fatalf("Value(red) = %+v, want Color primitive", v)
	}
	if v.Color != (Color{R: 255, G: 0, B: 0, A: 255}) {
		t.Errorf("Value(red).Color = %+v, want pure red", v.Color)
	}
}

func TestValuePercentageAndNumber(t *testing.T) {
	v := parseOneValue(t, "50%")
	if v.Kind != ValuePrimitive || v.Unit != UnitPercentage || v.Number != 50 {
		t.Errorf("Value(50%%) = %+v, want Percentage primitive 50", v)
	}
	v = parseOneValue(t, "3.5")
	if v.Kind != ValuePrimitive || v.Unit != UnitNumber || v.Number != 3.5 {
		t.Errorf("Value(3.5) = %+v, want Number primitive 3.5", v)
	}
}

func TestValueDimensionClassification(t *testing.T) {
	tests := []struct {
		input string
		unit  PrimitiveUnit
	}{
		{"10px", UnitLength},
		{"2em", UnitLength},
		{"90deg", UnitAngle},
		{"1.5s", UnitTime},
		{"200ms", UnitTime},
		{"44hz", UnitFrequency},
		{"5zz", UnitUnknown},
	}
	for _, tt := range tests {
		v := parseOneValue(t, tt.input)
		if v.Unit != tt.unit {
			t.Errorf("Value(%q).Unit = %v, want %v", tt.input, v.Unit, tt.unit)
		}
	}
}

func TestValueRatioFolding(t *testing.T) {
	v := parseOneValue(t, "16px/9")
	if v.Kind != ValuePrimitive || v.Unit != UnitUnknown {
		t.Fatalf("Value(16px/9) = %+v, want folded Unknown primitive", v)
	}
	if v.Text != "16px/9" {
		t.Errorf("Value(16px/9).Text = %q, want %q", v.Text, "16px/9")
	}
}

func TestValueHexColors(t *testing.T) {
	tests := []struct {
		input string
		want  Color
	}{
		{"#f00", Color{R: 255, G: 0, B: 0, A: 255}},
		{"#ff0000", Color{R: 255, G: 0, B: 0, A: 255}},
		{"#ff000080", Color{R: 255, G: 0, B: 0, A: 128}},
	}
	for _, tt := range tests {
		v := parseOneValue(t, tt.input)
		if v.Kind != ValuePrimitive || v.Unit != UnitColor {
			t.Fatalf("Value(%q) = %+v, want Color primitive", tt.input, v)
		}
		if v.Color != tt.want {
			t.Errorf("Value(%q).Color = %+v, want %+v", tt.input, v.Color, tt.want)
		}
	}
}

func TestValueLegacyHashColor(t *testing.T) {
	// The tokenizer turns "#123" into a single Hash token, so the legacy
	// path (a bare `#` delimiter followed by a number) is fed directly.
	cur := NewTokenCursor([]Token{
		{Type: TokenDelim, Delim: '#'},
		{Type: TokenNumber, Value: "123", NumValue: 123},
		{Type: TokenEOF},
	})
	v := newValueBuilder(&errorSink{}).Value(cur)
	if v == nil {
		t.Fatalf("Value(# 123) = nil, want Color primitive")
	}
	if v.Kind != ValuePrimitive || v.Unit != UnitColor {
		t.Fatalf("Value(#123) = %+v, want Color primitive", v)
	}
	want, _ := parseHexColor("123")
	if v.Color != want {
		t.Errorf("Value(#123).Color = %+v, want %+v", v.Color, want)
	}
}

func TestValueRGBFunction(t *testing.T) {
	v := parseOneValue(t, "rgb(255, 0, 0)")
	if v.Kind != ValueFunction || v.FunctionName != "rgb" {
		t.Fatalf("Value(rgb(255,0,0)) = %+v, want Function 'rgb'", v)
	}
	if len(v.Args) != 3 {
		t.Fatalf("rgb(255,0,0) args = %+v, want 3", v.Args)
	}
	c, ok := ResolveFunctionColor(v)
	if !ok || c != (Color{R: 255, G: 0, B: 0, A: 255}) {
		t.Errorf("ResolveFunctionColor(rgb(255,0,0)) = %+v, %v, want pure red", c, ok)
	}
}

func TestValueRGBAPercentageAlpha(t *testing.T) {
	v := parseOneValue(t, "rgba(0%, 50%, 100%, 0.5)")
	if v.Kind != ValueFunction || v.FunctionName != "rgba" {
		t.Fatalf("Value(rgba(...)) = %+v, want Function 'rgba'", v)
	}
	c, ok := ResolveFunctionColor(v)
	if !ok {
		t.Fatalf("ResolveFunctionColor(rgba(...)) returned false")
	}
	if c.R != 0 || c.B != 255 || c.A != 127 {
		t.Errorf("rgba(0%%,50%%,100%%,0.5) = %+v, want R=0 B=255 A~127", c)
	}
}

func TestValueHSLFunction(t *testing.T) {
	v := parseOneValue(t, "hsl(0, 100%, 50%)")
	if v.Kind != ValueFunction || v.FunctionName != "hsl" {
		t.Fatalf("Value(hsl(...)) = %+v, want Function 'hsl'", v)
	}
	c, ok := ResolveFunctionColor(v)
	if !ok {
		t.Fatalf("ResolveFunctionColor(hsl(...)) returned false")
	}
	if c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("hsl(0,100%%,50%%) = %+v, want pure red", c)
	}
}

func TestResolveFunctionColorRejectsNonColorFunction(t *testing.T) {
	v := parseOneValue(t, "calc(1px + 2px)")
	if _, ok := ResolveFunctionColor(v); ok {
		t.Errorf("ResolveFunctionColor(calc(...)) = true, want false")
	}
}

func TestValueGenericFunction(t *testing.T) {
	v := parseOneValue(t, "calc(1px + 2px)")
	if v.Kind != ValueFunction || v.FunctionName != "calc" {
		t.Fatalf("Value(calc(...)) = %+v, want Function 'calc'", v)
	}
	if len(v.Args) != 1 {
		t.Fatalf("calc(1px + 2px) args = %+v, want 1 whitespace-joined arg", v.Args)
	}
}

func TestValueListWhitespaceSeparated(t *testing.T) {
	cur := NewTokenCursor(tokensOf("1px solid red"))
	vb := newValueBuilder(&errorSink{})
	v := vb.ValueList(cur)
	if v.Kind != ValueList || len(v.Items) != 3 {
		t.Fatalf("ValueList(1px solid red) = %+v, want 3-item List", v)
	}
	if v.CommaSeparated {
		t.Errorf("ValueList should not mark CommaSeparated for whitespace-joined values")
	}
}

func TestMultiValuesCommaSeparated(t *testing.T) {
	cur := NewTokenCursor(tokensOf("Arial, sans-serif"))
	vb := newValueBuilder(&errorSink{})
	v := vb.MultiValues(cur)
	if v.Kind != ValueList || !v.CommaSeparated || len(v.Items) != 2 {
		t.Fatalf("MultiValues(Arial, sans-serif) = %+v, want 2-item comma List", v)
	}
}

func TestMultiValuesSingleGroupCollapses(t *testing.T) {
	cur := NewTokenCursor(tokensOf("10px"))
	vb := newValueBuilder(&errorSink{})
	v := vb.MultiValues(cur)
	if v.Kind != ValuePrimitive || v.Unit != UnitLength {
		t.Fatalf("MultiValues(10px) = %+v, want bare Primitive(Length)", v)
	}
}
