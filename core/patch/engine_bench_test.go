package patch

import (
	"fmt"
	"strings"
	"testing"

	"hostgenie-api/core/domain"
)

// benchDocument builds a page with n sections of text and nested markup
func benchDocument(n int) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>Bench</title></head><body>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<section class="card"><h2 style="color: #333; margin: 0;">Section %d</h2><p>Paragraph <b>%d</b> text.</p></section>`, i, i)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func benchApply(b *testing.B, sections int, m domain.Mutation) {
	engine := NewEngine(DefaultFontCatalog(), nil)
	doc := benchDocument(sections)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Apply(doc, m); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApply_TextSmallDocument(b *testing.B) {
	benchApply(b, 10, domain.TextMutation{Selector: "section:nth-of-type(5) > h2", Text: "Renamed"})
}

func BenchmarkApply_TextLargeDocument(b *testing.B) {
	benchApply(b, 1000, domain.TextMutation{Selector: "section:nth-of-type(500) > h2", Text: "Renamed"})
}

func BenchmarkApply_StyleLargeDocument(b *testing.B) {
	benchApply(b, 1000, domain.StyleMutation{
		Selector:   "section:nth-of-type(999) > h2",
		Properties: map[string]string{"color": "#ff0000", "fontSize": "24px", "margin": ""},
	})
}

func BenchmarkParseInlineStyle(b *testing.B) {
	style := "color: #333; margin: 0 auto; font-family: 'Open Sans', sans-serif; background-image: url(data:image/png;base64,AAAA);"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := ParseInlineStyle(style)
		s.Set("color", "#fff")
		_ = s.String()
	}
}
