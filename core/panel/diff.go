// ABOUTME: Diffs pending property panel values against the seeded values
// ABOUTME: Emits at most one text and one style mutation for what actually changed

package panel

import (
	"fmt"
	"strings"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/upload"
)

var textAligns = map[string]bool{"left": true, "center": true, "right": true, "justify": true}

// Diff compares pending panel values with the values seeded from sel and returns
// the mutations for what actually changed: at most one text mutation followed by
// at most one style mutation. Values the panel does not show for the selection
// are ignored.
func Diff(sel *domain.Selection, pending Values) ([]domain.Mutation, error) {
	if sel == nil || sel.Selector == "" {
		return nil, &coreerrors.ValidationError{Field: "selection", Message: "no element selected"}
	}
	base := Seed(sel)
	props := map[string]string{}
	var out []domain.Mutation

	if !sel.IsImage() {
		if strings.TrimSpace(sel.TextContent) != "" && pending.Text != sel.TextContent {
			out = append(out, domain.TextMutation{Selector: sel.Selector, Text: pending.Text})
		}

		if c := normalizeColor(pending.Color, base.Color); c != base.Color {
			if err := checkValue("color", c); err != nil {
				return nil, err
			}
			props["color"] = c
		}

		family := strings.TrimSpace(pending.FontFamily)
		if family != "" && family != base.FontFamily {
			if err := checkValue("fontFamily", family); err != nil {
				return nil, err
			}
			props["fontFamily"] = family
		}

		if size := clamp(pending.FontSize); pending.FontSize != 0 && size != base.FontSize {
			props["fontSize"] = fmt.Sprintf("%dpx", size)
		}

		if pending.Bold != base.Bold {
			props["fontWeight"] = pick(pending.Bold, "bold", "normal")
		}
		if pending.Italic != base.Italic {
			props["fontStyle"] = pick(pending.Italic, "italic", "normal")
		}
		if pending.Underline != base.Underline {
			props["textDecoration"] = pick(pending.Underline, "underline", "none")
		}

		if align := strings.ToLower(strings.TrimSpace(pending.TextAlign)); align != "" && align != base.TextAlign {
			if !textAligns[align] {
				return nil, &coreerrors.ValidationError{Field: "textAlign", Message: "must be left, center, right or justify"}
			}
			props["textAlign"] = align
		}

		shadowColor := normalizeColor(pending.ShadowColor, "#000000")
		switch {
		case pending.TextShadow && (!base.TextShadow || shadowColor != base.ShadowColor):
			if err := checkValue("shadowColor", shadowColor); err != nil {
				return nil, err
			}
			props["textShadow"] = "2px 2px 4px " + shadowColor
		case !pending.TextShadow && base.TextShadow:
			props["textShadow"] = "none"
		}
	}

	if pending.BackgroundType == "" || pending.BackgroundType == BackgroundColor {
		bg := normalizeColor(pending.BackgroundColor, base.BackgroundColor)
		if bg != base.BackgroundColor || base.BackgroundType == BackgroundImage && pending.BackgroundType == BackgroundColor {
			if err := checkValue("backgroundColor", bg); err != nil {
				return nil, err
			}
			props["backgroundColor"] = bg
			props["backgroundImage"] = "none"
		}
	}

	if len(props) > 0 {
		out = append(out, domain.StyleMutation{Selector: sel.Selector, Properties: props})
	}
	return out, nil
}

// FontUpload turns an uploaded font file into a registration mutation and the
// font-family value that selects it.
func FontUpload(filename string, data []byte) (domain.RegisterFontMutation, string, error) {
	uri, err := upload.FontDataURI(filename, data)
	if err != nil {
		return domain.RegisterFontMutation{}, "", err
	}
	name := upload.FontFamily(filename)
	m := domain.RegisterFontMutation{Font: domain.FontRegistration{Name: name, SourceData: uri}}
	return m, CustomFontValue(name), nil
}

func clamp(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

func pick(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}

// checkValue rejects values that would escape their declaration
func checkValue(field, v string) error {
	if strings.ContainsAny(v, ";{}<>\\") {
		return &coreerrors.ValidationError{Field: field, Message: "contains reserved characters"}
	}
	return nil
}
