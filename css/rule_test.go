package css

import "testing"

func parseOneRule(t *testing.T, input string) *Rule {
	t.Helper()
	cur := NewTokenCursor(tokensOf(input))
	rb := newRuleBuilder(&errorSink{}, nil, false)
	r := rb.Rule(cur)
	if r == nil {
		t.Fatalf("Rule(%q) returned nil", input)
	}
	return r
}

func TestRuleStyle(t *testing.T) {
	r := parseOneRule(t, "h1 { color: red; }")
	if r.Kind != RuleStyle {
		t.Fatalf("Kind = %v, want RuleStyle", r.Kind)
	}
	if r.Selector == nil || len(r.Selector.ComplexSelectors) != 1 {
		t.Fatalf("Selector = %+v, want a single complex selector", r.Selector)
	}
	if len(r.Declarations) != 1 || r.Declarations[0].Name != "color" {
		t.Fatalf("Declarations = %+v, want [color: red]", r.Declarations)
	}
}

func TestRuleStyleParentBackLinkIsNilAtTopLevel(t *testing.T) {
	r := parseOneRule(t, "div { margin: 0; }")
	if r.Parent != nil {
		t.Errorf("top-level rule Parent = %v, want nil", r.Parent)
	}
}

func TestRuleMediaNestsAndLinksParent(t *testing.T) {
	r := parseOneRule(t, "@media screen { p { color: blue; } }")
	if r.Kind != RuleMedia {
		t.Fatalf("Kind = %v, want RuleMedia", r.Kind)
	}
	if r.MediaQuery != "screen" {
		t.Errorf("MediaQuery = %q, want %q", r.MediaQuery, "screen")
	}
	if len(r.Rules) != 1 {
		t.Fatalf("Rules = %+v, want 1 nested rule", r.Rules)
	}
	nested := r.Rules[0]
	if nested.Parent != r {
		t.Errorf("nested rule Parent = %p, want %p", nested.Parent, r)
	}
}

func TestRuleImportWithMedia(t *testing.T) {
	r := parseOneRule(t, `@import "theme.css" screen and (min-width: 400px);`)
	if r.Kind != RuleImport {
		t.Fatalf("Kind = %v, want RuleImport", r.Kind)
	}
	if r.Href != "theme.css" {
		t.Errorf("Href = %q, want %q", r.Href, "theme.css")
	}
	if r.MediaQuery == "" {
		t.Errorf("MediaQuery is empty, want the trailing media condition text")
	}
}

func TestRuleCharset(t *testing.T) {
	r := parseOneRule(t, `@charset "utf-8";`)
	if r.Kind != RuleCharset || r.Encoding != "utf-8" {
		t.Fatalf("Rule(@charset) = %+v, want Charset{utf-8}", r)
	}
}

func TestRuleNamespaceWithPrefix(t *testing.T) {
	r := parseOneRule(t, `@namespace svg url(http://www.w3.org/2000/svg);`)
	if r.Kind != RuleNamespace {
		t.Fatalf("Kind = %v, want RuleNamespace", r.Kind)
	}
	if r.Prefix != "svg" {
		t.Errorf("Prefix = %q, want %q", r.Prefix, "svg")
	}
	if r.URI != "http://www.w3.org/2000/svg" {
		t.Errorf("URI = %q, want the svg namespace URI", r.URI)
	}
}

func TestRulePage(t *testing.T) {
	r := parseOneRule(t, "@page :first { margin: 1in; }")
	if r.Kind != RulePage {
		t.Fatalf("Kind = %v, want RulePage", r.Kind)
	}
	if r.Selector == nil {
		t.Errorf("Selector is nil, want :first pseudo-class selector")
	}
	if len(r.Declarations) != 1 {
		t.Fatalf("Declarations = %+v, want 1", r.Declarations)
	}
}

func TestRuleFontFace(t *testing.T) {
	r := parseOneRule(t, `@font-face { font-family: "Pixel"; src: url(pixel.woff); }`)
	if r.Kind != RuleFontFace {
		t.Fatalf("Kind = %v, want RuleFontFace", r.Kind)
	}
	if len(r.Declarations) != 2 {
		t.Fatalf("Declarations = %+v, want 2", r.Declarations)
	}
}

func TestRuleKeyframes(t *testing.T) {
	r := parseOneRule(t, "@keyframes spin { from { transform: none; } 100% { transform: none; } }")
	if r.Kind != RuleKeyframes || r.Name != "spin" {
		t.Fatalf("Rule(@keyframes) = %+v, want Keyframes{spin}", r)
	}
	if len(r.Keyframes) != 2 {
		t.Fatalf("Keyframes = %+v, want 2 entries", r.Keyframes)
	}
	if r.Keyframes[0].KeyText != "from" || r.Keyframes[1].KeyText != "100%" {
		t.Errorf("Keyframe key texts = [%q, %q], want [from, 100%%]", r.Keyframes[0].KeyText, r.Keyframes[1].KeyText)
	}
}

func TestRuleSupportsNests(t *testing.T) {
	r := parseOneRule(t, "@supports (display: grid) { div { display: grid; } }")
	if r.Kind != RuleSupports {
		t.Fatalf("Kind = %v, want RuleSupports", r.Kind)
	}
	if r.ConditionText == "" {
		t.Errorf("ConditionText is empty, want the raw condition text")
	}
	if len(r.Rules) != 1 {
		t.Fatalf("Rules = %+v, want 1 nested rule", r.Rules)
	}
}

func TestRuleDocumentConditions(t *testing.T) {
	r := parseOneRule(t, `@document url(https://example.com/), domain(example.org) { div { color: red; } }`)
	if r.Kind != RuleDocument {
		t.Fatalf("Kind = %v, want RuleDocument", r.Kind)
	}
	if len(r.Conditions) != 2 {
		t.Fatalf("Conditions = %+v, want 2", r.Conditions)
	}
	if r.Conditions[0].Kind != DocumentURL {
		t.Errorf("Conditions[0].Kind = %v, want DocumentURL", r.Conditions[0].Kind)
	}
	if r.Conditions[1].Kind != DocumentDomain || r.Conditions[1].Text != "example.org" {
		t.Errorf("Conditions[1] = %+v, want Domain{example.org}", r.Conditions[1])
	}
}

func TestRuleUnknownAtRuleBalancesBraces(t *testing.T) {
	r := parseOneRule(t, "@unknown-thing foo { bar: baz; }")
	if r.Kind != RuleUnknown {
		t.Fatalf("Kind = %v, want RuleUnknown", r.Kind)
	}
	if r.RawText == "" {
		t.Errorf("RawText is empty, want the reconstructed at-rule text")
	}
}

func TestAppendRulesRecoversFromMalformedRule(t *testing.T) {
	cur := NewTokenCursor(tokensOf("color: red; h2 { color: blue; }"))
	rb := newRuleBuilder(&errorSink{}, nil, false)
	rules := rb.AppendRules(cur)
	// "color: red;" has no block, so the malformed-rule recovery path
	// drops it and resynchronizes at the next top-level rule.
	if len(rules) != 1 || rules[0].Kind != RuleStyle {
		t.Fatalf("AppendRules = %+v, want a single recovered style rule", rules)
	}
	if rules[0].Selector == nil || len(rules[0].Selector.ComplexSelectors) != 1 {
		t.Fatalf("recovered rule selector = %+v, want h2", rules[0].Selector)
	}
}

func TestAppendRulesMultipleTopLevel(t *testing.T) {
	cur := NewTokenCursor(tokensOf("h1 { color: red; } h2 { color: blue; }"))
	rb := newRuleBuilder(&errorSink{}, nil, false)
	rules := rb.AppendRules(cur)
	if len(rules) != 2 {
		t.Fatalf("AppendRules = %+v, want 2 top-level rules", rules)
	}
}

func TestParseKeyframeRuleStandalone(t *testing.T) {
	cur := NewTokenCursor(tokensOf("50% { opacity: 0.5; }"))
	rb := newRuleBuilder(&errorSink{}, nil, false)
	kf := rb.parseKeyframeRule(cur)
	if kf == nil {
		t.Fatal("parseKeyframeRule returned nil")
	}
	if kf.KeyText != "50%" {
		t.Errorf("KeyText = %q, want %q", kf.KeyText, "50%")
	}
	if len(kf.Declarations) != 1 {
		t.Fatalf("Declarations = %+v, want 1", kf.Declarations)
	}
}
