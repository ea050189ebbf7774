// ABOUTME: Document patch engine applies structured mutations to an HTML document
// ABOUTME: Every mutation parses a fresh copy, edits it, and serializes the whole tree back

// Package patch implements the document patch engine.
//
// Apply never edits the source text directly. It parses the source into a new
// tree, locates the target through the selector package, mutates the tree and
// renders it back. On any failure the original source is returned unchanged
// together with a *errors.MutationError.
package patch

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/selector"
)

const (
	// DraggableAttr marks images inserted from the clipboard
	DraggableAttr = "data-hg-draggable"
	// FontAttr marks style blocks holding a registered font face
	FontAttr = "data-hg-font"
)

var fontNamePattern = regexp.MustCompile(`^[\p{L}\p{N} _-]{1,64}$`)

// Engine applies mutations to documents
type Engine struct {
	fonts  *FontCatalog
	logger interfaces.Logger
}

// NewEngine creates a patch engine using the given hosted font catalog
func NewEngine(fonts *FontCatalog, logger interfaces.Logger) *Engine {
	if fonts == nil {
		fonts = DefaultFontCatalog()
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Engine{fonts: fonts, logger: logger}
}

// Fonts returns the hosted font catalog
func (e *Engine) Fonts() *FontCatalog {
	return e.fonts
}

// Apply applies m to source and returns the new document.
// If the mutation cannot be applied the returned document is source, byte for byte.
func (e *Engine) Apply(source string, m domain.Mutation) (string, error) {
	if m == nil {
		return source, &coreerrors.MutationError{
			Kind: "unknown",
			Err:  &coreerrors.ValidationError{Field: "mutation", Message: "mutation is required"},
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return source, e.fail(m, err)
	}

	if err := e.mutate(doc, m); err != nil {
		return source, e.fail(m, err)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Nodes[0]); err != nil {
		return source, e.fail(m, err)
	}

	e.logger.Debug("Mutation applied", map[string]interface{}{
		"kind":     string(m.Kind()),
		"selector": m.Target(),
	})
	return buf.String(), nil
}

func (e *Engine) fail(m domain.Mutation, err error) error {
	e.logger.Debug("Mutation rejected", map[string]interface{}{
		"kind":     string(m.Kind()),
		"selector": m.Target(),
		"error":    err.Error(),
	})
	return &coreerrors.MutationError{Kind: string(m.Kind()), Selector: m.Target(), Err: err}
}

func (e *Engine) mutate(doc *goquery.Document, m domain.Mutation) error {
	switch m := m.(type) {
	case domain.TextMutation:
		n, err := selector.Locate(doc, m.Selector)
		if err != nil {
			return err
		}
		replaceText(n, m.Text)
		return nil

	case domain.StyleMutation:
		if len(m.Properties) == 0 {
			return &coreerrors.ValidationError{Field: "properties", Message: "at least one property is required"}
		}
		n, err := selector.Locate(doc, m.Selector)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(m.Properties))
		for key := range m.Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		style := styleOf(n)
		family := ""
		for _, key := range keys {
			name := propertyName(domain.CSSPropertyName(key))
			style.Set(name, m.Properties[key])
			if name == "font-family" {
				family = m.Properties[key]
			}
		}
		setStyle(n, style)

		// only a font-family this mutation sets can pull in a hosted stylesheet
		if family != "" {
			if href, hosted := e.fonts.Stylesheet(family); hosted {
				ensureStylesheet(doc, href)
			}
		}
		return nil

	case domain.ImageMutation:
		if err := requireDataURI("dataUri", m.DataURI, "image/"); err != nil {
			return err
		}
		n, err := selector.Locate(doc, m.Selector)
		if err != nil {
			return err
		}
		if n.DataAtom == atom.Img {
			setAttr(n, "src", m.DataURI)
			return nil
		}
		style := styleOf(n)
		style.Set("background-image", cssURL(m.DataURI))
		style.Set("background-size", "cover")
		style.Set("background-position", "center")
		setStyle(n, style)
		return nil

	case domain.RemoveBackgroundMutation:
		n, err := selector.Locate(doc, m.Selector)
		if err != nil {
			return err
		}
		style := styleOf(n)
		style.Set("background-image", "none")
		style.Set("background-color", "transparent")
		style.Remove("background-size")
		style.Remove("background-position")
		setStyle(n, style)
		return nil

	case domain.RegisterFontMutation:
		return registerFont(doc, m.Font)

	case domain.InsertImageMutation:
		if err := requireDataURI("dataUri", m.DataURI, "image/"); err != nil {
			return err
		}
		body := doc.Find("body")
		if body.Length() == 0 {
			return &coreerrors.NotFoundError{Resource: "element", ID: "body"}
		}
		style := &InlineStyle{}
		style.Set("position", "absolute")
		style.Set("left", px(m.X))
		style.Set("top", px(m.Y))
		style.Set("max-width", "300px")
		style.Set("cursor", "move")
		style.Set("z-index", "1000")
		img := &html.Node{
			Type:     html.ElementNode,
			Data:     "img",
			DataAtom: atom.Img,
			Attr: []html.Attribute{
				{Key: "src", Val: m.DataURI},
				{Key: DraggableAttr, Val: "true"},
				{Key: "style", Val: style.String()},
			},
		}
		body.Get(0).AppendChild(img)
		return nil

	case domain.MoveImageMutation:
		n, err := selector.Locate(doc, m.Selector)
		if err != nil {
			return err
		}
		style := styleOf(n)
		style.Set("left", px(m.Left))
		style.Set("top", px(m.Top))
		setStyle(n, style)
		return nil
	}

	return &coreerrors.ValidationError{Field: "kind", Message: fmt.Sprintf("unsupported mutation %q", m.Kind())}
}

// replaceText sets the text of n. Element children are never removed: when
// present only the first non-blank text child is replaced.
func replaceText(n *html.Node, text string) {
	if !hasElementChild(n) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		return
	}

	var first *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		if strings.TrimSpace(c.Data) != "" {
			c.Data = text
			return
		}
		if first == nil {
			first = c
		}
	}
	if first != nil {
		first.Data = text
		return
	}
	n.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, n.FirstChild)
}

func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func registerFont(doc *goquery.Document, font domain.FontRegistration) error {
	name := strings.TrimSpace(font.Name)
	if !fontNamePattern.MatchString(name) {
		return &coreerrors.ValidationError{Field: "name", Message: "font name must be 1-64 letters, digits, spaces, dashes or underscores"}
	}
	if err := requireDataURI("sourceData", font.SourceData, ""); err != nil {
		return err
	}
	head := doc.Find("head")
	if head.Length() == 0 {
		return &coreerrors.NotFoundError{Resource: "element", ID: "head"}
	}

	rule := fmt.Sprintf("@font-face { font-family: '%s'; src: url('%s'); font-display: swap; }", name, font.SourceData)
	block := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr:     []html.Attribute{{Key: FontAttr, Val: name}},
	}
	block.AppendChild(&html.Node{Type: html.TextNode, Data: rule})
	head.Get(0).AppendChild(block)
	return nil
}

// ensureStylesheet inserts <link rel="stylesheet" href=href> into head unless a
// link with exactly that href is already present anywhere in the document.
func ensureStylesheet(doc *goquery.Document, href string) {
	exists := false
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("href"); ok && v == href {
			exists = true
			return false
		}
		return true
	})
	if exists {
		return
	}
	head := doc.Find("head")
	if head.Length() == 0 {
		return
	}
	head.Get(0).AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "link",
		DataAtom: atom.Link,
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		},
	})
}

func requireDataURI(field, value, mediaPrefix string) error {
	if !strings.HasPrefix(value, "data:") {
		return &coreerrors.ValidationError{Field: field, Message: "must be a data URI"}
	}
	if mediaPrefix != "" && !strings.HasPrefix(strings.ToLower(value[len("data:"):]), mediaPrefix) {
		return &coreerrors.ValidationError{Field: field, Message: "unsupported media type"}
	}
	if strings.ContainsAny(value, `"'()`) {
		return &coreerrors.ValidationError{Field: field, Message: "data URI contains reserved characters"}
	}
	return nil
}

func cssURL(uri string) string {
	return `url("` + uri + `")`
}

func px(v float64) string {
	return strconv.FormatFloat(float64(int64(v)), 'f', -1, 64) + "px"
}

func styleOf(n *html.Node) *InlineStyle {
	v, _ := getAttr(n, "style")
	return ParseInlineStyle(v)
}

func setStyle(n *html.Node, style *InlineStyle) {
	if style.Len() == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", style.String())
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr overwrites key in place, keeping attribute order, or appends it
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}
