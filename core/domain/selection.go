// ABOUTME: Selection domain model describes the element currently picked in the preview
// ABOUTME: Carries the element's selector, content and the computed style subset seen by the panel

package domain

import "strings"

// Styles is the subset of computed styles the inspector reports for a picked element.
// Empty fields mean the value was not reported.
type Styles struct {
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
	FontWeight      string `json:"fontWeight,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	FontStyle       string `json:"fontStyle,omitempty"`
	TextDecoration  string `json:"textDecoration,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	TextAlign       string `json:"textAlign,omitempty"`
	TextShadow      string `json:"textShadow,omitempty"`
}

// Selection is the element currently picked in the preview.
// It is transient: recomputed on every pick and never persisted.
type Selection struct {
	Selector    string `json:"selector"`
	TagName     string `json:"tagName"`
	TextContent string `json:"textContent"`
	InnerHTML   string `json:"innerHTML"`
	Styles      Styles `json:"styles"`
}

// IsImage reports whether the selected element is an image element
func (s *Selection) IsImage() bool {
	return s != nil && strings.EqualFold(s.TagName, "img")
}

// Clone returns a copy that shares no state with s
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// ApplyStyles folds written inline declarations back into the last-known styles,
// so the next panel diff compares against what the document now holds.
func (s *Selection) ApplyStyles(props map[string]string) {
	for prop, value := range props {
		switch CSSPropertyName(prop) {
		case "color":
			s.Styles.Color = value
		case "background-color":
			s.Styles.BackgroundColor = value
		case "font-size":
			s.Styles.FontSize = value
		case "font-weight":
			s.Styles.FontWeight = value
		case "font-family":
			s.Styles.FontFamily = value
		case "font-style":
			s.Styles.FontStyle = value
		case "text-decoration":
			s.Styles.TextDecoration = value
		case "background-image":
			s.Styles.BackgroundImage = value
		case "text-align":
			s.Styles.TextAlign = value
		case "text-shadow":
			s.Styles.TextShadow = value
		}
	}
}

// CSSPropertyName converts a camelCase style key (backgroundColor) into its
// CSS property name (background-color). Kebab-case input is returned lowercased.
func CSSPropertyName(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "--") {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
