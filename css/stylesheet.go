// Package css provides CSSStyleSheet and CSSOM APIs.
package css

import (
	"fmt"
	"strings"
)

// Stylesheet is the plain parsed-rule tree: an ordered sequence of
// top-level Rules. It is logically immutable once construction
// completes — mutation through InsertRule/DeleteRule is a CSSOM
// wrapper concern (CSSStyleSheet), not this type's.
type Stylesheet struct {
	Rules []*Rule
}

// newStylesheet stamps the owning-Stylesheet weak back-link on every
// rule in the tree, top-level and nested alike.
func newStylesheet(rules []*Rule) *Stylesheet {
	sheet := &Stylesheet{Rules: rules}
	for _, r := range rules {
		r.walk(func(n *Rule) { n.Sheet = sheet })
	}
	return sheet
}

// CSSStyleSheet represents a CSS stylesheet.
// Reference: https://drafts.csswg.org/cssom/#cssstylesheet
type CSSStyleSheet struct {
	ownerNode interface{}
	disabled  bool
	href      string
	title     string
	media     *MediaList
	cssRules  *CSSRuleList
	ownerRule *CSSImportRule
	cssType   string

	parsed   *Stylesheet
	registry PropertyRegistry
}

// NewCSSStyleSheet creates a new CSSStyleSheet from CSS text, parsed
// with the default lenient property registry.
func NewCSSStyleSheet(cssText string, ownerNode interface{}) *CSSStyleSheet {
	return NewCSSStyleSheetWithRegistry(cssText, ownerNode, nil)
}

// NewCSSStyleSheetWithRegistry is NewCSSStyleSheet with an explicit
// PropertyRegistry, e.g. for callers running in strict mode.
func NewCSSStyleSheetWithRegistry(cssText string, ownerNode interface{}, registry PropertyRegistry) *CSSStyleSheet {
	sheet := &CSSStyleSheet{
		ownerNode: ownerNode,
		cssType:   "text/css",
		media:     NewMediaList(""),
		registry:  registry,
	}

	result := ParseStylesheetString(cssText, WithPropertyRegistry(registry))
	sheet.parsed = result.Stylesheet

	sheet.cssRules = NewCSSRuleList()
	for _, rule := range sheet.parsed.Rules {
		cssRule := wrapRule(rule)
		if cssRule != nil {
			cssRule.SetParentStyleSheet(sheet)
			sheet.cssRules.rules = append(sheet.cssRules.rules, cssRule)
		}
	}
	return sheet
}

// wrapRule builds the CSSOM-facing wrapper for one plain Rule,
// recursing into block-carrying variants. Rule kinds with no CSSOM
// interface of their own (@page, @charset, @document) fall through to
// CSSGenericAtRule, matching how an unrecognized at-rule is handled.
func wrapRule(r *Rule) CSSRuleInterface {
	switch r.Kind {
	case RuleStyle:
		rule := &CSSStyleRule{baseCSSRule: baseCSSRule{ruleType: StyleRule}}
		if r.Selector != nil {
			rule.selectorText = selectorText(r.Selector)
		}
		rule.style = NewCSSStyleDeclarationFromDeclarations(r.Declarations, rule)
		return rule

	case RuleMedia:
		rule := &CSSMediaRule{baseCSSRule: baseCSSRule{ruleType: MediaRule}, cssRules: NewCSSRuleList()}
		rule.media = NewMediaList(r.MediaQuery)
		for _, nested := range r.Rules {
			if wrapped := wrapRule(nested); wrapped != nil {
				wrapped.SetParentRule(rule)
				rule.cssRules.rules = append(rule.cssRules.rules, wrapped)
			}
		}
		return rule

	case RuleImport:
		rule := &CSSImportRule{baseCSSRule: baseCSSRule{ruleType: ImportRule}}
		rule.href = r.Href
		rule.media = NewMediaList(r.MediaQuery)
		return rule

	case RuleFontFace:
		rule := &CSSFontFaceRule{baseCSSRule: baseCSSRule{ruleType: FontFaceRule}}
		rule.style = NewCSSStyleDeclarationFromDeclarations(r.Declarations, rule)
		return rule

	case RuleNamespace:
		rule := &CSSNamespaceRule{baseCSSRule: baseCSSRule{ruleType: NamespaceRule}}
		rule.prefix = r.Prefix
		rule.namespaceURI = r.URI
		return rule

	case RuleKeyframes:
		rule := &CSSKeyframesRule{baseCSSRule: baseCSSRule{ruleType: KeyframesRule}}
		rule.name = r.Name
		for _, kf := range r.Keyframes {
			keyframe := &CSSKeyframeRule{baseCSSRule: baseCSSRule{ruleType: KeyframeRule, parentRule: rule}}
			keyframe.keyText = kf.KeyText
			keyframe.style = NewCSSStyleDeclarationFromDeclarations(kf.Declarations, keyframe)
			rule.keyframeList = append(rule.keyframeList, keyframe)
		}
		return rule

	case RuleSupports:
		rule := &CSSSupportsRule{baseCSSRule: baseCSSRule{ruleType: SupportsRule}, cssRules: NewCSSRuleList()}
		rule.conditionText = r.ConditionText
		for _, nested := range r.Rules {
			if wrapped := wrapRule(nested); wrapped != nil {
				wrapped.SetParentRule(rule)
				rule.cssRules.rules = append(rule.cssRules.rules, wrapped)
			}
		}
		return rule

	default:
		return &CSSGenericAtRule{baseCSSRule: baseCSSRule{ruleType: UnknownRule}, name: genericAtRuleName(r)}
	}
}

func genericAtRuleName(r *Rule) string {
	switch r.Kind {
	case RulePage:
		return "page"
	case RuleCharset:
		return "charset"
	case RuleDocument:
		return "document"
	case RuleUnknown:
		return strings.TrimPrefix(r.RawText, "@")
	default:
		return ""
	}
}

func selectorText(sel *CSSSelector) string {
	var parts []string
	for _, cs := range sel.ComplexSelectors {
		parts = append(parts, complexSelectorText(cs))
	}
	return strings.Join(parts, ", ")
}

func complexSelectorText(cs *ComplexSelector) string {
	var sb strings.Builder
	for i, compound := range cs.Compounds {
		if i > 0 {
			switch cs.Compounds[i-1].Combinator {
			case CombinatorChild:
				sb.WriteString(" > ")
			case CombinatorNextSibling:
				sb.WriteString(" + ")
			case CombinatorSubsequentSibling:
				sb.WriteString(" ~ ")
			case CombinatorColumn:
				sb.WriteString(" || ")
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteString(compoundSelectorText(compound))
	}
	return sb.String()
}

func compoundSelectorText(c *CompoundSelector) string {
	var sb strings.Builder
	if c.TypeSelector != nil {
		if c.TypeSelector.Namespace != "" {
			sb.WriteString(c.TypeSelector.Namespace)
			sb.WriteString("|")
		}
		sb.WriteString(c.TypeSelector.Name)
	}
	for _, id := range c.IDSelectors {
		sb.WriteString("#")
		sb.WriteString(id)
	}
	for _, cl := range c.ClassSelectors {
		sb.WriteString(".")
		sb.WriteString(cl)
	}
	for _, attr := range c.AttributeMatchers {
		sb.WriteString("[")
		sb.WriteString(attr.Name)
		sb.WriteString("]")
	}
	for _, pc := range c.PseudoClasses {
		sb.WriteString(":")
		sb.WriteString(pc.Name)
	}
	if c.PseudoElement != nil {
		sb.WriteString("::")
		sb.WriteString(c.PseudoElement.Name)
	}
	return sb.String()
}

func (s *CSSStyleSheet) OwnerNode() interface{}  { return s.ownerNode }
func (s *CSSStyleSheet) Disabled() bool          { return s.disabled }
func (s *CSSStyleSheet) SetDisabled(v bool)      { s.disabled = v }
func (s *CSSStyleSheet) Href() string            { return s.href }
func (s *CSSStyleSheet) SetHref(href string)     { s.href = href }
func (s *CSSStyleSheet) Title() string           { return s.title }
func (s *CSSStyleSheet) Media() *MediaList       { return s.media }
func (s *CSSStyleSheet) CSSRules() *CSSRuleList  { return s.cssRules }
func (s *CSSStyleSheet) OwnerRule() *CSSImportRule { return s.ownerRule }
func (s *CSSStyleSheet) Type() string            { return s.cssType }

// Stylesheet returns the plain parsed-rule tree backing this CSSOM view.
func (s *CSSStyleSheet) Stylesheet() *Stylesheet { return s.parsed }

// InsertRule parses ruleText as a single rule and inserts it at index.
func (s *CSSStyleSheet) InsertRule(ruleText string, index int) (int, error) {
	rule, err := ParseRuleString(ruleText, WithPropertyRegistry(s.registry))
	if err != nil {
		return 0, fmt.Errorf("SyntaxError: %w", err)
	}

	cssRule := wrapRule(rule)
	if cssRule == nil {
		return 0, fmt.Errorf("SyntaxError: invalid rule")
	}
	if index < 0 || index > len(s.cssRules.rules) {
		return 0, fmt.Errorf("IndexSizeError: index out of bounds")
	}

	cssRule.SetParentStyleSheet(s)
	rules := make([]CSSRuleInterface, 0, len(s.cssRules.rules)+1)
	rules = append(rules, s.cssRules.rules[:index]...)
	rules = append(rules, cssRule)
	rules = append(rules, s.cssRules.rules[index:]...)
	s.cssRules.rules = rules

	s.parsed.Rules = append(append(append([]*Rule{}, s.parsed.Rules[:index]...), rule), s.parsed.Rules[index:]...)
	return index, nil
}

// DeleteRule removes the rule at the given index.
func (s *CSSStyleSheet) DeleteRule(index int) error {
	if index < 0 || index >= len(s.cssRules.rules) {
		return fmt.Errorf("IndexSizeError: index out of bounds")
	}
	s.cssRules.rules = append(s.cssRules.rules[:index], s.cssRules.rules[index+1:]...)
	if index < len(s.parsed.Rules) {
		s.parsed.Rules = append(s.parsed.Rules[:index], s.parsed.Rules[index+1:]...)
	}
	return nil
}

// CSSText returns the serialized stylesheet.
func (s *CSSStyleSheet) CSSText() string {
	var sb strings.Builder
	for i, rule := range s.cssRules.rules {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(rule.CSSText())
	}
	return sb.String()
}

// MediaList represents a list of media queries.
type MediaList struct {
	mediaText string
	queries   []string
}

// NewMediaList creates a new MediaList from media text.
func NewMediaList(mediaText string) *MediaList {
	ml := &MediaList{mediaText: mediaText}
	if mediaText != "" {
		ml.queries = strings.Split(mediaText, ",")
		for i := range ml.queries {
			ml.queries[i] = strings.TrimSpace(ml.queries[i])
		}
	}
	return ml
}

func (ml *MediaList) MediaText() string { return ml.mediaText }

func (ml *MediaList) SetMediaText(text string) {
	ml.mediaText = text
	ml.queries = strings.Split(text, ",")
	for i := range ml.queries {
		ml.queries[i] = strings.TrimSpace(ml.queries[i])
	}
}

func (ml *MediaList) Length() int {
	if ml.mediaText == "" {
		return 0
	}
	return len(ml.queries)
}

func (ml *MediaList) Item(index int) string {
	if index < 0 || index >= len(ml.queries) {
		return ""
	}
	return ml.queries[index]
}

func (ml *MediaList) AppendMedium(medium string) {
	ml.queries = append(ml.queries, medium)
	ml.mediaText = strings.Join(ml.queries, ", ")
}

func (ml *MediaList) DeleteMedium(medium string) {
	for i, q := range ml.queries {
		if q == medium {
			ml.queries = append(ml.queries[:i], ml.queries[i+1:]...)
			ml.mediaText = strings.Join(ml.queries, ", ")
			return
		}
	}
}
