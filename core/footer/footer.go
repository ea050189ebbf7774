// ABOUTME: Attribution footer injected into every saved site
// ABOUTME: A deterministic string transform that runs once per document

package footer

import (
	"html"
	"regexp"
	"strings"
)

// Marker identifies documents that already carry the footer
const Marker = "hg-footer"

var (
	closingHead = regexp.MustCompile(`(?i)</head\s*>`)
	closingBody = regexp.MustCompile(`(?i)</body\s*>`)
)

const styles = `
<style>
  html, body { min-height: 100%; margin: 0; }
  body { display: flex; flex-direction: column; }
  #hg-footer { margin-top: auto; padding: 10px 0; width: 100%; text-align: center; font-size: 12px; opacity: 0.6; z-index: 9999; background: transparent; color: inherit; font-family: inherit; }
  #hg-footer a { color: inherit; text-decoration: none; font-weight: bold; }
  #hg-footer a:hover { text-decoration: underline; }
  #hg-footer p { margin: 2px 0; }
</style>
`

// Footer renders the attribution block
type Footer struct {
	AppURL  string
	Brand   string
	Support string
}

// New creates a footer linking to appURL
func New(appURL, brand, support string) Footer {
	if brand == "" {
		brand = "HostGenie"
	}
	return Footer{AppURL: appURL, Brand: brand, Support: support}
}

func (f Footer) markup() string {
	var b strings.Builder
	b.WriteString("\n<!-- " + html.EscapeString(f.Brand) + " Footer -->\n")
	b.WriteString(`<footer id="` + Marker + `">`)
	b.WriteString(`<p>Hosted on <a href="` + html.EscapeString(f.AppURL) + `" target="_blank" rel="noopener">` + html.EscapeString(f.Brand) + `</a></p>`)
	if f.Support != "" {
		b.WriteString(`<p>` + html.EscapeString(f.Support) + `</p>`)
	}
	b.WriteString("</footer>\n")
	return b.String()
}

// Inject adds the footer styles before </head> (or at the start when there is
// no head) and the footer before the last </body> (or at the end). Documents
// that already reference #hg-footer are returned unchanged.
func (f Footer) Inject(doc string) string {
	if strings.Contains(doc, "#"+Marker) {
		return doc
	}

	if loc := closingHead.FindStringIndex(doc); loc != nil {
		doc = doc[:loc[0]] + styles + doc[loc[0]:]
	} else {
		doc = styles + doc
	}

	footer := f.markup()
	if locs := closingBody.FindAllStringIndex(doc, -1); len(locs) > 0 {
		at := locs[len(locs)-1][0]
		return doc[:at] + footer + doc[at:]
	}
	return doc + footer
}
