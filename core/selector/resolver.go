// ABOUTME: Selector resolver computes re-derivable structural paths for DOM elements
// ABOUTME: The same algorithm runs inside the preview inspector script so both sides agree

// Package selector maps elements to path selectors and back.
//
// A selector is either "#id" (when the id is a plain CSS identifier and unique in
// the document) or a child-combinator path below <body>, for example
//
//	main > section:nth-of-type(2) > p:nth-of-type(3)
//
// The ordinal qualifier is only present when the parent has several children
// with the same tag. SVG and MathML elements appear as "*:nth-child(k)".
// Selectors that already start at body or html are used as written.
//
// A path survives edits elsewhere in the document only as long as the
// element's ancestor chain and same-tag ordinal positions are unchanged.
package selector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	coreerrors "hostgenie-api/core/errors"
)

// Separator joins path segments
const Separator = " > "

var identPattern = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

// Resolve returns the selector for an element node, or "" for anything else
func Resolve(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if n.DataAtom == atom.Body {
		return "body"
	}
	if n.DataAtom == atom.Html {
		return "html"
	}

	if id := attr(n, "id"); identPattern.MatchString(id) && countID(root(n), id) == 1 {
		return "#" + id
	}

	var segments []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if cur.DataAtom == atom.Body || cur.DataAtom == atom.Html {
			break
		}
		segments = append(segments, segment(cur))
	}

	// top-down
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, Separator)
}

// Locate finds the element a selector refers to.
// A selector that no longer matches is a NotFoundError; callers treat it as a lost selection.
func Locate(doc *goquery.Document, selector string) (*html.Node, error) {
	selector = strings.TrimSpace(selector)
	if doc == nil || selector == "" {
		return nil, &coreerrors.NotFoundError{Resource: "element", ID: selector}
	}

	scopedSel := scoped(selector)
	found := doc.Find(scopedSel)
	if found.Length() == 0 && scopedSel != selector {
		found = doc.Find(selector)
	}
	if found.Length() == 0 {
		return nil, &coreerrors.NotFoundError{Resource: "element", ID: selector}
	}
	return found.Get(0), nil
}

// scoped anchors a relative path at the content root.
// Selectors already starting at html or body are left alone.
func scoped(selector string) string {
	switch first := firstType(selector); {
	case strings.HasPrefix(selector, "#"), first == "body", first == "html":
		return selector
	case first == "head":
		return "html" + Separator + selector
	default:
		return "body" + Separator + selector
	}
}

// firstType returns the lowercased type selector of the first compound, if any
func firstType(selector string) string {
	end := strings.IndexAny(selector, " \t\n>+~")
	if end < 0 {
		end = len(selector)
	}
	compound := selector[:end]
	if i := strings.IndexAny(compound, ":.[#"); i >= 0 {
		compound = compound[:i]
	}
	return strings.ToLower(compound)
}

// segment names one step of the path. Foreign elements (SVG, MathML) keep
// case-sensitive tag names that type selectors cannot match, so they are
// addressed by element position instead.
func segment(n *html.Node) string {
	if n.Namespace != "" {
		return fmt.Sprintf("*:nth-child(%d)", elementIndex(n))
	}

	tag := strings.ToLower(n.Data)
	if n.Parent == nil {
		return tag
	}

	position, total := 0, 0
	for sib := n.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode || !strings.EqualFold(sib.Data, n.Data) {
			continue
		}
		total++
		if sib == n {
			position = total
		}
	}
	if total > 1 {
		return fmt.Sprintf("%s:nth-of-type(%d)", tag, position)
	}
	return tag
}

// elementIndex is the 1-based position of n among its parent's element children
func elementIndex(n *html.Node) int {
	i := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode {
			i++
		}
	}
	return i
}

func root(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

func countID(n *html.Node, id string) int {
	count := 0
	if n.Type == html.ElementNode && attr(n, "id") == id {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countID(c, id)
	}
	return count
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
