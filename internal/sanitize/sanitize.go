// Package sanitize implements the allow-list policy consulted when raw HTML
// embedded in Markdown is rendered. A Policy answers two questions: is this
// tag allowed at all, and which of its attributes survive. Both checks are
// exact-match and case-sensitive; anything absent from an allow-list is
// rejected, never an error.
package sanitize

import (
	"git.home.luguber.info/inful/mdhtml/internal/markup"
	"git.home.luguber.info/inful/mdhtml/internal/util/sets"
)

// Policy is an allow-list over element and attribute names. Attributes are
// not scoped per element: an attribute allowed anywhere is allowed on every
// allowed tag. Policies are read-only after construction and safe to share
// across concurrent renders.
type Policy struct {
	Elements   sets.Set[string]
	Attributes sets.Set[string]
}

// DefaultPolicy allows structural and text-semantic elements only: block and
// inline containers, headings, lists, and tables. Scriptable or embeddable
// tags (script, style, iframe, object, form controls) and event-handler
// attributes are deliberately absent, blocking script injection and resource
// embedding while preserving document structure. Attributes are limited to
// name and class.
func DefaultPolicy() Policy {
	return Policy{
		Elements: sets.New(
			"address", "article", "aside", "b", "blockquote", "br",
			"caption", "cite", "code", "col", "colgroup", "dd", "details",
			"div", "dl", "dt", "em", "figcaption", "figure", "footer",
			"h1", "h2", "h3", "h4", "h5", "h6", "hr", "i", "li", "nav",
			"ol", "p", "pre", "section", "small", "strong", "summary",
			"table", "tbody", "td", "tfoot", "th", "thead", "tr", "ul",
		),
		Attributes: sets.New("name", "class"),
	}
}

// ElementAllowed reports whether tag is permitted by the policy.
func (p Policy) ElementAllowed(tag string) bool {
	return p.Elements.Has(tag)
}

// FilterAttributes returns the attributes whose names the policy allows, in
// their original order. Values pass through unmodified when the name is
// allowed; disallowed attributes are dropped name and value both.
func (p Policy) FilterAttributes(attrs []markup.Attr) []markup.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]markup.Attr, 0, len(attrs))
	for _, a := range attrs {
		if p.Attributes.Has(a.Name) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
