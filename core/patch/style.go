// ABOUTME: Inline style codec for the patch engine
// ABOUTME: Parses style attributes with the tdewolff CSS parser and serializes them back in order

package patch

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// declaration is one "property: value" pair of an inline style
type declaration struct {
	Property string
	Value    string
}

// InlineStyle is an ordered list of inline declarations.
// Setting an existing property keeps its position; new properties are appended.
type InlineStyle struct {
	decls []declaration
}

// ParseInlineStyle parses the value of a style attribute.
// Malformed declarations are dropped, everything else is kept.
func ParseInlineStyle(s string) *InlineStyle {
	style := &InlineStyle{}
	if strings.TrimSpace(s) == "" {
		return style
	}

	p := css.NewParser(parse.NewInputString(s), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.HasParseError() {
				continue
			}
			return style
		case css.DeclarationGrammar:
			style.Set(string(data), joinTokens(p.Values()))
		case css.CustomPropertyGrammar:
			style.Set(string(data), strings.TrimSpace(joinTokens(p.Values())))
		}
	}
}

func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// Get returns the value of a property and whether it is declared
func (s *InlineStyle) Get(property string) (string, bool) {
	property = propertyName(property)
	for _, d := range s.decls {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Set declares a property, overwriting only that property's previous value.
// An empty value removes the declaration.
func (s *InlineStyle) Set(property, value string) {
	property = propertyName(property)
	value = strings.TrimSpace(value)
	if property == "" {
		return
	}
	if value == "" {
		s.Remove(property)
		return
	}
	for i := range s.decls {
		if s.decls[i].Property == property {
			s.decls[i].Value = value
			return
		}
	}
	s.decls = append(s.decls, declaration{Property: property, Value: value})
}

// Remove deletes a property declaration if present
func (s *InlineStyle) Remove(property string) {
	property = propertyName(property)
	kept := s.decls[:0]
	for _, d := range s.decls {
		if d.Property != property {
			kept = append(kept, d)
		}
	}
	s.decls = kept
}

// propertyName normalizes a property name. Custom properties are case-sensitive.
func propertyName(property string) string {
	property = strings.TrimSpace(property)
	if strings.HasPrefix(property, "--") {
		return property
	}
	return strings.ToLower(property)
}

// Len returns the number of declarations
func (s *InlineStyle) Len() int {
	return len(s.decls)
}

// String serializes the style as "prop: value;" declarations separated by a space
func (s *InlineStyle) String() string {
	parts := make([]string, 0, len(s.decls))
	for _, d := range s.decls {
		parts = append(parts, d.Property+": "+d.Value+";")
	}
	return strings.Join(parts, " ")
}

// FirstFamily returns the first family name of a font-family value with quotes removed
func FirstFamily(value string) string {
	first := value
	if i := strings.IndexByte(value, ','); i >= 0 {
		first = value[:i]
	}
	return strings.Trim(strings.TrimSpace(first), `"'`)
}
