package footer

import (
	"strings"
	"testing"
)

func TestInject_FullDocument(t *testing.T) {
	f := New("https://hostgenie.test", "", "")
	doc := "<html><head><title>x</title></head><body><p>hi</p></body></html>"

	out := f.Inject(doc)

	styleAt := strings.Index(out, "#hg-footer {")
	headAt := strings.Index(out, "</head>")
	if styleAt < 0 || styleAt > headAt {
		t.Errorf("footer styles should sit before </head>: %s", out)
	}
	footerAt := strings.Index(out, `<footer id="hg-footer">`)
	bodyAt := strings.LastIndex(out, "</body>")
	if footerAt < 0 || footerAt > bodyAt || footerAt < strings.Index(out, "<p>hi</p>") {
		t.Errorf("footer should sit right before </body>: %s", out)
	}
	if !strings.Contains(out, `<a href="https://hostgenie.test" target="_blank" rel="noopener">HostGenie</a>`) {
		t.Errorf("footer should link to the app: %s", out)
	}
}

func TestInject_Idempotent(t *testing.T) {
	f := New("https://hostgenie.test", "HostGenie", "Support: help@hostgenie.test")
	once := f.Inject("<body>x</body>")
	twice := f.Inject(once)

	if once != twice {
		t.Error("injecting twice should not change the document")
	}
	if strings.Count(twice, `id="hg-footer"`) != 1 {
		t.Error("exactly one footer expected")
	}
}

func TestInject_Fragment(t *testing.T) {
	out := New("/", "", "").Inject("<h1>bare</h1>")

	if !strings.HasPrefix(out, "\n<style>") {
		t.Errorf("styles should be prepended without a head: %q", out[:20])
	}
	if !strings.HasSuffix(out, "</footer>\n") {
		t.Error("footer should be appended without a body")
	}
}

func TestInject_UsesLastClosingBody(t *testing.T) {
	doc := "<head></head><body><script>var s='</body>';</script></BODY>"

	out := New("/", "", "").Inject(doc)

	if !strings.HasSuffix(out, "</footer>\n</BODY>") {
		t.Errorf("footer should precede the final closing tag: %s", out)
	}
}

func TestInject_EscapesURL(t *testing.T) {
	out := New(`https://x.test/"><script>`, "", "").Inject("<body></body>")

	if strings.Contains(out, `"><script>`) {
		t.Error("app URL must be escaped")
	}
}
