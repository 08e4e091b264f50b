package css

import "testing"

func parseOneDeclaration(t *testing.T, input string) *Declaration {
	t.Helper()
	cur := NewTokenCursor(tokensOf(input))
	db := newDeclarationBuilder(&errorSink{}, nil, false)
	return db.Declaration(cur)
}

func TestDeclarationBasic(t *testing.T) {
	d := parseOneDeclaration(t, "color: red;")
	if d == nil {
		t.Fatal("Declaration(color: red;) returned nil")
	}
	if d.Name != "color" {
		t.Errorf("Name = %q, want %q", d.Name, "color")
	}
	if d.Value.Kind != ValuePrimitive || d.Value.Unit != UnitColor {
		t.Errorf("Value = %+v, want Color primitive", d.Value)
	}
	if d.Important {
		t.Errorf("Important = true, want false")
	}
}

func TestDeclarationNameLowercased(t *testing.T) {
	d := parseOneDeclaration(t, "COLOR: red;")
	if d == nil || d.Name != "color" {
		t.Fatalf("Declaration(COLOR: red;) = %+v, want lowercased name", d)
	}
}

func TestDeclarationImportant(t *testing.T) {
	d := parseOneDeclaration(t, "color: red !important;")
	if d == nil || !d.Important {
		t.Fatalf("Declaration(color: red !important;) = %+v, want Important=true", d)
	}
}

func TestDeclarationImportantWithInternalWhitespace(t *testing.T) {
	d := parseOneDeclaration(t, "color: red !  important;")
	if d == nil || !d.Important {
		t.Fatalf("Declaration with spaced !important = %+v, want Important=true", d)
	}
}

func TestDeclarationMissingColonRecovers(t *testing.T) {
	errs := &errorSink{}
	cur := NewTokenCursor(tokensOf("color red; margin: 1px;"))
	db := newDeclarationBuilder(errs, nil, false)

	d := db.Declaration(cur)
	if d != nil {
		t.Errorf("Declaration with missing colon = %+v, want nil", d)
	}
	if len(errs.errors) == 0 {
		t.Errorf("expected an error to be reported for the missing colon")
	}

	next := db.Declaration(cur)
	if next == nil || next.Name != "margin" {
		t.Fatalf("recovery declaration = %+v, want margin", next)
	}
}

func TestDeclarationEmptyValueDropsAndReports(t *testing.T) {
	errs := &errorSink{}
	cur := NewTokenCursor(tokensOf("color: ; margin: 1px;"))
	db := newDeclarationBuilder(errs, nil, false)

	d := db.Declaration(cur)
	if d != nil {
		t.Errorf("Declaration(color: ;) = %+v, want nil for an empty value", d)
	}
	if len(errs.errors) == 0 {
		t.Errorf("expected an error to be reported for the empty value")
	}

	next := db.Declaration(cur)
	if next == nil || next.Name != "margin" {
		t.Fatalf("recovery declaration = %+v, want margin", next)
	}
}

func TestDeclarationListSkipsStraySemicolons(t *testing.T) {
	cur := NewTokenCursor(tokensOf(";; color: red;; margin: 1px"))
	db := newDeclarationBuilder(&errorSink{}, nil, false)
	decls := db.DeclarationList(cur)
	if len(decls) != 2 {
		t.Fatalf("DeclarationList = %+v, want 2 declarations", decls)
	}
	if decls[0].Name != "color" || decls[1].Name != "margin" {
		t.Errorf("DeclarationList names = [%q, %q], want [color, margin]", decls[0].Name, decls[1].Name)
	}
}

func TestDeclarationListNoTrailingSemicolon(t *testing.T) {
	cur := NewTokenCursor(tokensOf("color: red"))
	db := newDeclarationBuilder(&errorSink{}, nil, false)
	decls := db.DeclarationList(cur)
	if len(decls) != 1 || decls[0].Name != "color" {
		t.Fatalf("DeclarationList(no trailing ;) = %+v, want [color]", decls)
	}
}

type rejectEverything struct{}

func (rejectEverything) Validate(name string, value Value) ValidationOutcome {
	return ValidationOutcome{Accepted: false, Reason: "rejected for test"}
}

func TestDeclarationStrictModeDropsRejected(t *testing.T) {
	errs := &errorSink{}
	cur := NewTokenCursor(tokensOf("color: red;"))
	db := newDeclarationBuilder(errs, rejectEverything{}, true)
	d := db.Declaration(cur)
	if d != nil {
		t.Errorf("strict mode Declaration = %+v, want nil for rejected property", d)
	}
	if len(errs.errors) == 0 {
		t.Errorf("expected an error to be reported for the rejected property")
	}
}

func TestDeclarationLenientModeKeepsRejected(t *testing.T) {
	cur := NewTokenCursor(tokensOf("color: red;"))
	db := newDeclarationBuilder(&errorSink{}, rejectEverything{}, false)
	d := db.Declaration(cur)
	if d == nil {
		t.Fatalf("non-strict Declaration = nil, want a kept declaration despite rejection")
	}
}
