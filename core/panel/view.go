// ABOUTME: Property panel view model derived from the current selection
// ABOUTME: Decides which controls are shown and seeds them from the selection's computed styles

// Package panel translates panel intent into style and text mutations.
// It never edits documents; every change leaves as a domain.Mutation.
package panel

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"hostgenie-api/core/domain"
	"hostgenie-api/core/patch"
)

// ViewKind selects the panel variant
type ViewKind string

const (
	ViewPlaceholder ViewKind = "placeholder"
	ViewImage       ViewKind = "image"
	ViewText        ViewKind = "text"
)

// Background source types
const (
	BackgroundColor = "color"
	BackgroundImage = "image"
)

const (
	MinFontSize     = 8
	MaxFontSize     = 72
	DefaultFontSize = 16

	customCategory = "Custom"
	placeholderMsg = "Click any element in the preview to edit it here."
)

// Controls lists which control groups are visible
type Controls struct {
	Text       bool `json:"text"`
	Typography bool `json:"typography"`
	Color      bool `json:"color"`
	Background bool `json:"background"`
	Image      bool `json:"image"`
}

// Values are the editable panel values
type Values struct {
	Text            string `json:"text"`
	Color           string `json:"color"`
	BackgroundType  string `json:"backgroundType"`
	BackgroundColor string `json:"backgroundColor"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	FontFamily      string `json:"fontFamily"`
	FontSize        int    `json:"fontSize"`
	Bold            bool   `json:"bold"`
	Italic          bool   `json:"italic"`
	Underline       bool   `json:"underline"`
	TextAlign       string `json:"textAlign"`
	TextShadow      bool   `json:"textShadow"`
	ShadowColor     string `json:"shadowColor"`
}

// View is what the panel renders for a selection
type View struct {
	Kind     ViewKind          `json:"kind"`
	Message  string            `json:"message,omitempty"`
	Selector string            `json:"selector,omitempty"`
	TagName  string            `json:"tagName,omitempty"`
	Controls Controls          `json:"controls"`
	Values   *Values           `json:"values,omitempty"`
	Fonts    []patch.FontGroup `json:"fonts,omitempty"`
}

// Render builds the panel view. Custom fonts are listed after the presets.
func Render(sel *domain.Selection, catalog *patch.FontCatalog, customFonts []string) View {
	if sel == nil || sel.Selector == "" {
		return View{Kind: ViewPlaceholder, Message: placeholderMsg}
	}

	values := Seed(sel)
	view := View{
		Selector: sel.Selector,
		TagName:  strings.ToLower(sel.TagName),
		Values:   &values,
	}

	if sel.IsImage() {
		view.Kind = ViewImage
		view.Controls = Controls{Background: true, Image: true}
		return view
	}

	view.Kind = ViewText
	view.Controls = Controls{
		Text:       strings.TrimSpace(sel.TextContent) != "",
		Typography: true,
		Color:      true,
		Background: true,
		Image:      true,
	}
	view.Fonts = fontOptions(catalog, customFonts)
	return view
}

func fontOptions(catalog *patch.FontCatalog, customFonts []string) []patch.FontGroup {
	var groups []patch.FontGroup
	if catalog != nil {
		groups = catalog.Presets()
	}
	if len(customFonts) > 0 {
		custom := patch.FontGroup{Category: customCategory}
		for _, name := range customFonts {
			custom.Fonts = append(custom.Fonts, patch.Font{Name: name, Value: CustomFontValue(name), Category: customCategory})
		}
		groups = append(groups, custom)
	}
	return groups
}

// CustomFontValue is the font-family value selecting a registered font
func CustomFontValue(name string) string {
	return "'" + name + "'"
}

// Seed derives the initial panel values from the selection's last known styles
func Seed(sel *domain.Selection) Values {
	s := sel.Styles
	v := Values{
		Text:            sel.TextContent,
		Color:           normalizeColor(s.Color, "#000000"),
		BackgroundType:  BackgroundColor,
		BackgroundColor: normalizeColor(s.BackgroundColor, "transparent"),
		FontFamily:      orDefault(strings.TrimSpace(s.FontFamily), "inherit"),
		FontSize:        parsePx(s.FontSize),
		Bold:            isBold(s.FontWeight),
		Italic:          s.FontStyle == "italic",
		Underline:       strings.Contains(s.TextDecoration, "underline"),
		TextAlign:       orDefault(s.TextAlign, "left"),
		TextShadow:      hasShadow(s.TextShadow),
		ShadowColor:     "#000000",
	}
	if url := backgroundURL(s.BackgroundImage); url != "" {
		v.BackgroundType = BackgroundImage
		v.BackgroundImage = url
	}
	if v.TextShadow {
		if c := shadowColor(s.TextShadow); c != "" {
			v.ShadowColor = c
		}
	}
	return v
}

// normalizeColor turns rgb()/rgba()/hex colors into #rrggbb.
// Fully transparent colors become "transparent"; anything else is kept as written.
func normalizeColor(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if strings.EqualFold(value, "transparent") {
		return "transparent"
	}
	if c, err := colorful.Hex(value); err == nil {
		return c.Hex()
	}
	if c, alpha, ok := parseRGB(value); ok {
		if alpha == 0 {
			return "transparent"
		}
		return c.Hex()
	}
	return value
}

// parseRGB parses rgb(r, g, b) and rgba(r, g, b, a) with 0-255 channels
func parseRGB(value string) (colorful.Color, float64, bool) {
	lower := strings.ToLower(value)
	var body string
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")"):
		body = lower[len("rgba(") : len(lower)-1]
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		body = lower[len("rgb(") : len(lower)-1]
	default:
		return colorful.Color{}, 0, false
	}

	parts := strings.FieldsFunc(body, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, 0, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseFloat(parts[i], 64)
		if err != nil || n < 0 || n > 255 {
			return colorful.Color{}, 0, false
		}
		ch[i] = n / 255
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSuffix(parts[3], "%"), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		if strings.HasSuffix(parts[3], "%") {
			a /= 100
		}
		alpha = a
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, alpha, true
}

func parsePx(size string) int {
	size = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(size), "px"))
	if size == "" {
		return DefaultFontSize
	}
	f, err := strconv.ParseFloat(size, 64)
	if err != nil {
		return DefaultFontSize
	}
	return int(f + 0.5)
}

func isBold(weight string) bool {
	if weight == "bold" || weight == "bolder" {
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(weight))
	return err == nil && n >= 700
}

func hasShadow(shadow string) bool {
	shadow = strings.TrimSpace(shadow)
	return shadow != "" && shadow != "none"
}

// shadowColor picks the color out of a computed text-shadow such as
// "rgb(0, 0, 0) 2px 2px 4px" or "2px 2px 4px #333"
func shadowColor(shadow string) string {
	if i := strings.Index(strings.ToLower(shadow), "rgb"); i >= 0 {
		if j := strings.IndexByte(shadow[i:], ')'); j >= 0 {
			return normalizeColor(shadow[i:i+j+1], "")
		}
	}
	for _, f := range strings.Fields(shadow) {
		if strings.HasPrefix(f, "#") {
			return normalizeColor(f, "")
		}
	}
	return ""
}

// backgroundURL extracts the URL from url(...) in a background-image value
func backgroundURL(value string) string {
	i := strings.Index(value, "url(")
	if i < 0 {
		return ""
	}
	rest := value[i+len("url("):]
	j := strings.LastIndexByte(rest, ')')
	if j < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(rest[:j]), `"'`)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
