// ABOUTME: Hosted font catalog used by the patch engine and the property panel
// ABOUTME: Maps preset font-family values to the stylesheet that serves them

package patch

import (
	"net/url"
	"strings"
)

const googleFontsCSS = "https://fonts.googleapis.com/css2"

// Font is one preset entry of the font-family control
type Font struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Category string `json:"category"`
	// Stylesheet is the hosted stylesheet URL, empty for system fonts
	Stylesheet string `json:"stylesheet,omitempty"`
}

// FontCatalog is the static list of selectable preset fonts
type FontCatalog struct {
	fonts  []Font
	byName map[string]Font
}

// NewFontCatalog builds a catalog from the given fonts
func NewFontCatalog(fonts []Font) *FontCatalog {
	c := &FontCatalog{
		fonts:  fonts,
		byName: make(map[string]Font, len(fonts)),
	}
	for _, f := range fonts {
		if f.Stylesheet != "" {
			c.byName[strings.ToLower(FirstFamily(f.Value))] = f
		}
	}
	return c
}

// DefaultFontCatalog returns the built-in preset fonts
func DefaultFontCatalog() *FontCatalog {
	return NewFontCatalog([]Font{
		{Name: "Default", Value: "inherit", Category: "System"},
		{Name: "Sans Serif", Value: "Arial, Helvetica, sans-serif", Category: "System"},
		{Name: "Serif", Value: "Georgia, 'Times New Roman', serif", Category: "System"},
		{Name: "Monospace", Value: "'Courier New', monospace", Category: "System"},
		hosted("Noto Sans SC", "sans-serif", "Chinese", "wght@400;700"),
		hosted("Noto Serif SC", "serif", "Chinese", "wght@400;700"),
		hosted("ZCOOL KuaiLe", "cursive", "Chinese", ""),
		hosted("Ma Shan Zheng", "cursive", "Chinese", ""),
		hosted("Long Cang", "cursive", "Chinese", ""),
		hosted("Roboto", "sans-serif", "Sans Serif", "wght@400;700"),
		hosted("Open Sans", "sans-serif", "Sans Serif", "wght@400;700"),
		hosted("Montserrat", "sans-serif", "Sans Serif", "wght@400;700"),
		hosted("Poppins", "sans-serif", "Sans Serif", "wght@400;700"),
		hosted("Playfair Display", "serif", "Serif", "wght@400;700"),
		hosted("Merriweather", "serif", "Serif", "wght@400;700"),
		hosted("Lobster", "cursive", "Display", ""),
		hosted("Pacifico", "cursive", "Display", ""),
		hosted("Fira Code", "monospace", "Monospace", ""),
	})
}

func hosted(family, fallback, category, axes string) Font {
	spec := family
	if axes != "" {
		spec += ":" + axes
	}
	q := url.Values{}
	q.Set("family", spec)
	q.Set("display", "swap")

	value := family
	if strings.Contains(family, " ") {
		value = "'" + family + "'"
	}
	return Font{
		Name:       family,
		Value:      value + ", " + fallback,
		Category:   category,
		Stylesheet: googleFontsCSS + "?" + q.Encode(),
	}
}

// Fonts returns the preset fonts in catalog order
func (c *FontCatalog) Fonts() []Font {
	out := make([]Font, len(c.fonts))
	copy(out, c.fonts)
	return out
}

// Stylesheet returns the hosted stylesheet URL for a font-family value
func (c *FontCatalog) Stylesheet(fontFamily string) (string, bool) {
	if c == nil {
		return "", false
	}
	f, ok := c.byName[strings.ToLower(FirstFamily(fontFamily))]
	if !ok {
		return "", false
	}
	return f.Stylesheet, true
}

// FontGroup is one category of the font-family control
type FontGroup struct {
	Category string `json:"category"`
	Fonts    []Font `json:"fonts"`
}

// Presets returns the catalog grouped by category, in first-seen category order
func (c *FontCatalog) Presets() []FontGroup {
	var groups []FontGroup
	index := make(map[string]int)
	for _, f := range c.fonts {
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, FontGroup{Category: f.Category})
		}
		groups[i].Fonts = append(groups[i].Fonts, f)
	}
	return groups
}
