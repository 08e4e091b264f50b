// Package css provides CSS rule types for CSSOM.
package css

import (
	"strings"
)

// CSSRuleType represents the type of a CSS rule.
type CSSRuleType int

const (
	UnknownRule           CSSRuleType = 0
	StyleRule             CSSRuleType = 1
	CharsetRule           CSSRuleType = 2
	ImportRule            CSSRuleType = 3
	MediaRule             CSSRuleType = 4
	FontFaceRule          CSSRuleType = 5
	PageRule              CSSRuleType = 6
	KeyframesRule         CSSRuleType = 7
	KeyframeRule          CSSRuleType = 8
	MarginRule            CSSRuleType = 9
	NamespaceRule         CSSRuleType = 10
	CounterStyleRule      CSSRuleType = 11
	SupportsRule          CSSRuleType = 12
	DocumentRule          CSSRuleType = 13
	FontFeatureValuesRule CSSRuleType = 14
	ViewportRule          CSSRuleType = 15
)

// CSSRuleInterface is the interface for all CSS rules.
type CSSRuleInterface interface {
	Type() CSSRuleType
	CSSText() string
	ParentStyleSheet() *CSSStyleSheet
	ParentRule() CSSRuleInterface
	SetParentStyleSheet(*CSSStyleSheet)
	SetParentRule(CSSRuleInterface)
}

type baseCSSRule struct {
	ruleType         CSSRuleType
	parentStyleSheet *CSSStyleSheet
	parentRule       CSSRuleInterface
}

func (r *baseCSSRule) Type() CSSRuleType                  { return r.ruleType }
func (r *baseCSSRule) ParentStyleSheet() *CSSStyleSheet   { return r.parentStyleSheet }
func (r *baseCSSRule) ParentRule() CSSRuleInterface       { return r.parentRule }
func (r *baseCSSRule) SetParentStyleSheet(s *CSSStyleSheet) { r.parentStyleSheet = s }
func (r *baseCSSRule) SetParentRule(rule CSSRuleInterface) { r.parentRule = rule }

// CSSRuleList represents a list of CSS rules.
type CSSRuleList struct {
	rules []CSSRuleInterface
}

func NewCSSRuleList() *CSSRuleList {
	return &CSSRuleList{rules: make([]CSSRuleInterface, 0)}
}

func (l *CSSRuleList) Length() int { return len(l.rules) }

func (l *CSSRuleList) Item(index int) CSSRuleInterface {
	if index < 0 || index >= len(l.rules) {
		return nil
	}
	return l.rules[index]
}

func (l *CSSRuleList) Rules() []CSSRuleInterface { return l.rules }

// CSSStyleRule represents a style rule (e.g., "div { color: red }").
type CSSStyleRule struct {
	baseCSSRule
	selectorText string
	style        *CSSRuleStyleDeclaration
}

func (r *CSSStyleRule) SelectorText() string { return r.selectorText }

func (r *CSSStyleRule) SetSelectorText(text string) {
	if _, err := ParseSelector(text); err == nil {
		r.selectorText = text
	}
}

func (r *CSSStyleRule) Style() *CSSRuleStyleDeclaration { return r.style }

func (r *CSSStyleRule) CSSText() string {
	cssText := r.style.CSSText()
	if cssText == "" {
		return r.selectorText + " { }"
	}
	return r.selectorText + " { " + cssText + " }"
}

// CSSKeyframesRule represents a @keyframes rule.
type CSSKeyframesRule struct {
	baseCSSRule
	name         string
	keyframeList []*CSSKeyframeRule
}

func (r *CSSKeyframesRule) Name() string      { return r.name }
func (r *CSSKeyframesRule) SetName(name string) { r.name = name }

func (r *CSSKeyframesRule) CSSRules() *CSSRuleList {
	list := NewCSSRuleList()
	for _, kf := range r.keyframeList {
		list.rules = append(list.rules, kf)
	}
	return list
}

// AppendRule parses a single keyframe rule ("50% { ... }") and appends it.
func (r *CSSKeyframesRule) AppendRule(ruleText string) {
	tokens := NewTokenizer(ruleText).TokenizeAll()
	cur := NewTokenCursor(tokens)
	rb := newRuleBuilder(&errorSink{}, nil, false)
	parsed := rb.parseKeyframeRule(cur)
	if parsed == nil {
		return
	}
	keyframe := &CSSKeyframeRule{baseCSSRule: baseCSSRule{ruleType: KeyframeRule, parentRule: r}}
	keyframe.keyText = parsed.KeyText
	keyframe.style = NewCSSStyleDeclarationFromDeclarations(parsed.Declarations, keyframe)
	r.keyframeList = append(r.keyframeList, keyframe)
}

func (r *CSSKeyframesRule) DeleteRule(key string) {
	key = strings.TrimSpace(key)
	for i, kf := range r.keyframeList {
		if kf.keyText == key {
			r.keyframeList = append(r.keyframeList[:i], r.keyframeList[i+1:]...)
			return
		}
	}
}

func (r *CSSKeyframesRule) FindRule(key string) *CSSKeyframeRule {
	key = strings.TrimSpace(key)
	for _, kf := range r.keyframeList {
		if kf.keyText == key {
			return kf
		}
	}
	return nil
}

func (r *CSSKeyframesRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@keyframes ")
	sb.WriteString(r.name)
	sb.WriteString(" { ")
	for i, kf := range r.keyframeList {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(kf.CSSText())
	}
	sb.WriteString(" }")
	return sb.String()
}

// CSSKeyframeRule represents a single keyframe in @keyframes.
type CSSKeyframeRule struct {
	baseCSSRule
	keyText string
	style   *CSSRuleStyleDeclaration
}

func (r *CSSKeyframeRule) KeyText() string          { return r.keyText }
func (r *CSSKeyframeRule) SetKeyText(text string)   { r.keyText = text }
func (r *CSSKeyframeRule) Style() *CSSRuleStyleDeclaration { return r.style }

func (r *CSSKeyframeRule) CSSText() string {
	cssText := r.style.CSSText()
	if cssText == "" {
		return r.keyText + " { }"
	}
	return r.keyText + " { " + cssText + " }"
}

// CSSMediaRule represents a @media rule.
type CSSMediaRule struct {
	baseCSSRule
	media    *MediaList
	cssRules *CSSRuleList
}

func (r *CSSMediaRule) Media() *MediaList       { return r.media }
func (r *CSSMediaRule) CSSRules() *CSSRuleList  { return r.cssRules }

func (r *CSSMediaRule) InsertRule(ruleText string, index int) (int, error) {
	parsed, err := ParseRuleString(ruleText)
	if err != nil {
		return 0, err
	}
	cssRule := wrapRule(parsed)
	if cssRule == nil {
		return 0, nil
	}
	cssRule.SetParentRule(r)
	if index < 0 || index > len(r.cssRules.rules) {
		index = len(r.cssRules.rules)
	}
	rules := make([]CSSRuleInterface, 0, len(r.cssRules.rules)+1)
	rules = append(rules, r.cssRules.rules[:index]...)
	rules = append(rules, cssRule)
	rules = append(rules, r.cssRules.rules[index:]...)
	r.cssRules.rules = rules
	return index, nil
}

func (r *CSSMediaRule) DeleteRule(index int) {
	if index >= 0 && index < len(r.cssRules.rules) {
		r.cssRules.rules = append(r.cssRules.rules[:index], r.cssRules.rules[index+1:]...)
	}
}

func (r *CSSMediaRule) ConditionText() string { return r.media.MediaText() }

func (r *CSSMediaRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@media ")
	sb.WriteString(r.media.MediaText())
	sb.WriteString(" { ")
	for i, rule := range r.cssRules.rules {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(rule.CSSText())
	}
	sb.WriteString(" }")
	return sb.String()
}

// CSSImportRule represents an @import rule.
type CSSImportRule struct {
	baseCSSRule
	href       string
	media      *MediaList
	styleSheet *CSSStyleSheet
}

func (r *CSSImportRule) Href() string                { return r.href }
func (r *CSSImportRule) Media() *MediaList            { return r.media }
func (r *CSSImportRule) StyleSheet() *CSSStyleSheet   { return r.styleSheet }

func (r *CSSImportRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@import url(\"")
	sb.WriteString(r.href)
	sb.WriteString("\")")
	if r.media.MediaText() != "" {
		sb.WriteString(" ")
		sb.WriteString(r.media.MediaText())
	}
	sb.WriteString(";")
	return sb.String()
}

// CSSFontFaceRule represents a @font-face rule.
type CSSFontFaceRule struct {
	baseCSSRule
	style *CSSRuleStyleDeclaration
}

func (r *CSSFontFaceRule) Style() *CSSRuleStyleDeclaration { return r.style }

func (r *CSSFontFaceRule) CSSText() string {
	cssText := r.style.CSSText()
	if cssText == "" {
		return "@font-face { }"
	}
	return "@font-face { " + cssText + " }"
}

// CSSNamespaceRule represents a @namespace rule.
type CSSNamespaceRule struct {
	baseCSSRule
	prefix       string
	namespaceURI string
}

func (r *CSSNamespaceRule) NamespaceURI() string { return r.namespaceURI }
func (r *CSSNamespaceRule) Prefix() string       { return r.prefix }

func (r *CSSNamespaceRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@namespace ")
	if r.prefix != "" {
		sb.WriteString(r.prefix)
		sb.WriteString(" ")
	}
	sb.WriteString("url(\"")
	sb.WriteString(r.namespaceURI)
	sb.WriteString("\");")
	return sb.String()
}

// CSSSupportsRule represents a @supports rule.
type CSSSupportsRule struct {
	baseCSSRule
	conditionText string
	cssRules      *CSSRuleList
}

func (r *CSSSupportsRule) ConditionText() string   { return r.conditionText }
func (r *CSSSupportsRule) CSSRules() *CSSRuleList  { return r.cssRules }

func (r *CSSSupportsRule) InsertRule(ruleText string, index int) (int, error) {
	parsed, err := ParseRuleString(ruleText)
	if err != nil {
		return 0, err
	}
	cssRule := wrapRule(parsed)
	if cssRule == nil {
		return 0, nil
	}
	cssRule.SetParentRule(r)
	if index < 0 || index > len(r.cssRules.rules) {
		index = len(r.cssRules.rules)
	}
	rules := make([]CSSRuleInterface, 0, len(r.cssRules.rules)+1)
	rules = append(rules, r.cssRules.rules[:index]...)
	rules = append(rules, cssRule)
	rules = append(rules, r.cssRules.rules[index:]...)
	r.cssRules.rules = rules
	return index, nil
}

func (r *CSSSupportsRule) DeleteRule(index int) {
	if index >= 0 && index < len(r.cssRules.rules) {
		r.cssRules.rules = append(r.cssRules.rules[:index], r.cssRules.rules[index+1:]...)
	}
}

func (r *CSSSupportsRule) CSSText() string {
	var sb strings.Builder
	sb.WriteString("@supports ")
	sb.WriteString(r.conditionText)
	sb.WriteString(" { ")
	for i, rule := range r.cssRules.rules {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(rule.CSSText())
	}
	sb.WriteString(" }")
	return sb.String()
}

// CSSGenericAtRule represents an at-rule with no dedicated CSSOM
// interface (@page, @charset, @document, or any unrecognized @-rule).
type CSSGenericAtRule struct {
	baseCSSRule
	name string
}

func (r *CSSGenericAtRule) CSSText() string { return "@" + r.name }
