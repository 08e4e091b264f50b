// Package css provides CSSRuleStyleDeclaration for rule-based style declarations.
package css

import (
	"sort"
	"strconv"
	"strings"
)

// CSSRuleStyleDeclaration represents a style declaration within a CSS rule.
// Unlike inline style declarations, these belong to a parent rule.
type CSSRuleStyleDeclaration struct {
	parentRule CSSRuleInterface

	declarations map[string]*ruleStyleProperty

	// propertyOrder preserves insertion order for CSSText serialization.
	propertyOrder []string
}

type ruleStyleProperty struct {
	value    string
	priority string // "important" or ""
}

// NewCSSRuleStyleDeclaration creates a new CSSRuleStyleDeclaration for a rule.
func NewCSSRuleStyleDeclaration(parentRule CSSRuleInterface) *CSSRuleStyleDeclaration {
	return &CSSRuleStyleDeclaration{
		parentRule:   parentRule,
		declarations: make(map[string]*ruleStyleProperty),
	}
}

// NewCSSStyleDeclarationFromDeclarations builds a style declaration from
// the parser's Declaration slice (the RuleBuilder's output), rendering
// each Value back to its textual form for the CSSOM getPropertyValue
// surface.
func NewCSSStyleDeclarationFromDeclarations(decls []Declaration, parentRule CSSRuleInterface) *CSSRuleStyleDeclaration {
	sd := NewCSSRuleStyleDeclaration(parentRule)
	for _, decl := range decls {
		property := normalizeRuleCSSPropertyName(decl.Name)
		if property == "" {
			continue
		}
		value := renderValue(decl.Value)
		if value == "" {
			continue
		}

		priority := ""
		if decl.Important {
			priority = "important"
		}

		if _, exists := sd.declarations[property]; !exists {
			sd.propertyOrder = append(sd.propertyOrder, property)
		}
		sd.declarations[property] = &ruleStyleProperty{value: value, priority: priority}
	}
	return sd
}

// renderValue serializes a Value tree back to CSS text, used for the
// CSSOM's string-typed getPropertyValue surface.
func renderValue(v Value) string {
	switch v.Kind {
	case ValueInherit:
		return "inherit"
	case ValueInitial:
		return "initial"
	case ValuePrimitive:
		switch v.Unit {
		case UnitString:
			return `"` + v.Text + `"`
		case UnitUri:
			return "url(" + v.Text + ")"
		case UnitPercentage:
			return v.Text + "%"
		case UnitColor:
			return v.Text
		case UnitLength, UnitAngle, UnitTime, UnitFrequency:
			return formatNumber(v.Number) + v.Text
		case UnitUnknown:
			return v.Text
		default:
			if v.Text != "" {
				return v.Text
			}
			return formatNumber(v.Number)
		}
	case ValueFunction:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = renderValue(a)
		}
		return v.FunctionName + "(" + strings.Join(parts, ", ") + ")"
	case ValueList:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = renderValue(item)
		}
		sep := " "
		if v.CommaSeparated {
			sep = ", "
		}
		return strings.Join(parts, sep)
	}
	return ""
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// CSSText returns the textual representation of the declaration block.
func (sd *CSSRuleStyleDeclaration) CSSText() string {
	if len(sd.declarations) == 0 {
		return ""
	}

	var parts []string
	for _, prop := range sd.propertyOrder {
		if sp, ok := sd.declarations[prop]; ok {
			part := prop + ": " + sp.value
			if sp.priority == "important" {
				part += " !important"
			}
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "; ")
}

// SetCSSText parses and sets all properties from a CSS text string.
func (sd *CSSRuleStyleDeclaration) SetCSSText(cssText string) {
	sd.declarations = make(map[string]*ruleStyleProperty)
	sd.propertyOrder = nil

	cur := NewTokenCursor(NewTokenizer(cssText).TokenizeAll())
	db := newDeclarationBuilder(nil, lenientRegistry{}, false)
	for _, decl := range db.DeclarationList(cur) {
		property := normalizeRuleCSSPropertyName(decl.Name)
		if property == "" {
			continue
		}
		priority := ""
		if decl.Important {
			priority = "important"
		}
		if _, exists := sd.declarations[property]; !exists {
			sd.propertyOrder = append(sd.propertyOrder, property)
		}
		sd.declarations[property] = &ruleStyleProperty{value: renderValue(decl.Value), priority: priority}
	}
}

// Length returns the number of properties set.
func (sd *CSSRuleStyleDeclaration) Length() int {
	return len(sd.declarations)
}

// Item returns the property name at the given index.
func (sd *CSSRuleStyleDeclaration) Item(index int) string {
	if index < 0 || index >= len(sd.propertyOrder) {
		return ""
	}
	return sd.propertyOrder[index]
}

// GetPropertyValue returns the value of a CSS property.
func (sd *CSSRuleStyleDeclaration) GetPropertyValue(property string) string {
	property = normalizeRuleCSSPropertyName(property)
	if sp, ok := sd.declarations[property]; ok {
		return sp.value
	}
	return ""
}

// GetPropertyPriority returns the priority of a CSS property ("important" or "").
func (sd *CSSRuleStyleDeclaration) GetPropertyPriority(property string) string {
	property = normalizeRuleCSSPropertyName(property)
	if sp, ok := sd.declarations[property]; ok {
		return sp.priority
	}
	return ""
}

// SetProperty sets a CSS property with an optional priority.
func (sd *CSSRuleStyleDeclaration) SetProperty(property, value string, priority ...string) {
	property = normalizeRuleCSSPropertyName(property)
	if property == "" {
		return
	}
	if value == "" {
		sd.RemoveProperty(property)
		return
	}

	pri := ""
	if len(priority) > 0 && strings.ToLower(priority[0]) == "important" {
		pri = "important"
	}

	if _, exists := sd.declarations[property]; !exists {
		sd.propertyOrder = append(sd.propertyOrder, property)
	}
	sd.declarations[property] = &ruleStyleProperty{value: value, priority: pri}
}

// RemoveProperty removes a CSS property and returns its old value.
func (sd *CSSRuleStyleDeclaration) RemoveProperty(property string) string {
	property = normalizeRuleCSSPropertyName(property)
	if sp, ok := sd.declarations[property]; ok {
		oldValue := sp.value
		delete(sd.declarations, property)
		for i, p := range sd.propertyOrder {
			if p == property {
				sd.propertyOrder = append(sd.propertyOrder[:i], sd.propertyOrder[i+1:]...)
				break
			}
		}
		return oldValue
	}
	return ""
}

// ParentRule returns the parent CSS rule.
func (sd *CSSRuleStyleDeclaration) ParentRule() CSSRuleInterface {
	return sd.parentRule
}

// PropertyNames returns all property names in declaration order.
func (sd *CSSRuleStyleDeclaration) PropertyNames() []string {
	result := make([]string, len(sd.propertyOrder))
	copy(result, sd.propertyOrder)
	return result
}

// GetAllProperties returns a sorted list of all CSS properties.
func (sd *CSSRuleStyleDeclaration) GetAllProperties() []string {
	result := make([]string, 0, len(sd.declarations))
	for prop := range sd.declarations {
		result = append(result, prop)
	}
	sort.Strings(result)
	return result
}

// normalizeRuleCSSPropertyName converts camelCase to kebab-case and lowercases.
func normalizeRuleCSSPropertyName(name string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}

	var result strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteByte(byte(r - 'A' + 'a'))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
