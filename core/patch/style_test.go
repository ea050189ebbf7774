package patch

import "testing"

func TestParseInlineStyle_KeepsOrder(t *testing.T) {
	style := ParseInlineStyle("color: red; font-size: 12px")

	if got := style.String(); got != "color: red; font-size: 12px;" {
		t.Errorf("String() = %q", got)
	}
	if style.Len() != 2 {
		t.Errorf("Len() = %d, want 2", style.Len())
	}
}

func TestParseInlineStyle_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", ";"} {
		if got := ParseInlineStyle(in).Len(); got != 0 {
			t.Errorf("ParseInlineStyle(%q).Len() = %d, want 0", in, got)
		}
	}
}

func TestParseInlineStyle_DropsMalformedDeclaration(t *testing.T) {
	style := ParseInlineStyle("color red; font-size: 12px")

	if _, ok := style.Get("color"); ok {
		t.Error("malformed declaration should be dropped")
	}
	if v, _ := style.Get("font-size"); v != "12px" {
		t.Errorf("font-size = %q, want 12px", v)
	}
}

func TestParseInlineStyle_URLValue(t *testing.T) {
	style := ParseInlineStyle(`background-image: url("data:image/png;base64,AAAA"); color: blue`)

	if v, _ := style.Get("background-image"); v != `url("data:image/png;base64,AAAA")` {
		t.Errorf("background-image = %q", v)
	}
	if v, _ := style.Get("color"); v != "blue" {
		t.Errorf("color = %q", v)
	}
}

func TestInlineStyle_SetOverwritesInPlace(t *testing.T) {
	style := ParseInlineStyle("color: red; margin: 0")
	style.Set("COLOR", "blue")
	style.Set("padding", "4px")

	if got := style.String(); got != "color: blue; margin: 0; padding: 4px;" {
		t.Errorf("String() = %q", got)
	}
}

func TestInlineStyle_SetEmptyRemoves(t *testing.T) {
	style := ParseInlineStyle("color: red; margin: 0")
	style.Set("color", "")

	if got := style.String(); got != "margin: 0;" {
		t.Errorf("String() = %q", got)
	}
}

func TestFirstFamily(t *testing.T) {
	tests := map[string]string{
		"Roboto":                    "Roboto",
		"'Open Sans', sans-serif":   "Open Sans",
		`"Noto Sans SC",sans-serif`: "Noto Sans SC",
		"":                          "",
	}
	for in, want := range tests {
		if got := FirstFamily(in); got != want {
			t.Errorf("FirstFamily(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFontCatalog_Stylesheet(t *testing.T) {
	catalog := DefaultFontCatalog()

	href, ok := catalog.Stylesheet("'Open Sans', sans-serif")
	if !ok {
		t.Fatal("Open Sans should be hosted")
	}
	if href != "https://fonts.googleapis.com/css2?display=swap&family=Open+Sans%3Awght%40400%3B700" {
		t.Errorf("unexpected stylesheet %q", href)
	}

	if _, ok := catalog.Stylesheet("Arial, Helvetica, sans-serif"); ok {
		t.Error("system fonts have no stylesheet")
	}
}

func TestFontCatalog_PresetsGroupedByCategory(t *testing.T) {
	groups := DefaultFontCatalog().Presets()

	if len(groups) == 0 || groups[0].Category != "System" {
		t.Fatalf("first group should be System, got %+v", groups)
	}
	total := 0
	for _, g := range groups {
		total += len(g.Fonts)
		for _, f := range g.Fonts {
			if f.Category != g.Category {
				t.Errorf("font %s listed under %s", f.Name, g.Category)
			}
		}
	}
	if total != len(DefaultFontCatalog().Fonts()) {
		t.Errorf("presets hold %d fonts, catalog has %d", total, len(DefaultFontCatalog().Fonts()))
	}
}

func TestInlineStyle_CustomPropertiesAreCaseSensitive(t *testing.T) {
	style := ParseInlineStyle("--Brand-Color: #fff; --brand-color: #000; COLOR: red")

	if v, _ := style.Get("--Brand-Color"); v != "#fff" {
		t.Errorf("--Brand-Color = %q, want #fff", v)
	}
	if v, _ := style.Get("--brand-color"); v != "#000" {
		t.Errorf("--brand-color = %q, want #000", v)
	}
	if v, _ := style.Get("Color"); v != "red" {
		t.Errorf("color = %q, want red", v)
	}

	style.Remove("--BRAND-COLOR")
	if style.Len() != 3 {
		t.Errorf("Remove with a different case should not match, Len() = %d", style.Len())
	}
	style.Remove("--brand-color")
	if got := style.String(); got != "--Brand-Color: #fff; color: red;" {
		t.Errorf("String() = %q", got)
	}
}
