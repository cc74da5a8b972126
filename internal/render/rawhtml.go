package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/mdhtml/internal/markup"
	"git.home.luguber.info/inful/mdhtml/internal/sanitize"
)

// maxRawDepth bounds recursion into nested raw-HTML fragments. Elements
// nested deeper than this are treated as disallowed (wrapper stripped).
const maxRawDepth = 64

// renderRawBlock converts a raw HTML block (the whole block source is one
// fragment) according to the active mode.
func renderRawBlock(source string, mode HTMLMode) []*markup.Node {
	switch mode.kind {
	case modeDontParse:
		return []*markup.Node{markup.Text(source)}
	case modeParseUnsafe:
		return []*markup.Node{markup.Raw(source)}
	}
	return sanitizeBlock(source, mode.policy)
}

// renderRawInline converts an inline raw HTML fragment according to the
// active mode. Inline fragments are usually a lone open or close tag whose
// "content" follows as sibling Markdown nodes, so sanitized output is
// emitted as rebuilt tag text rather than a subtree.
func renderRawInline(source string, mode HTMLMode) []*markup.Node {
	switch mode.kind {
	case modeDontParse:
		return []*markup.Node{markup.Text(source)}
	case modeParseUnsafe:
		return []*markup.Node{markup.Raw(source)}
	}
	return sanitizeInline(source, mode.policy)
}

// sanitizeBlock parses source as an HTML fragment and rebuilds it under the
// policy: allowed elements keep their filtered attributes, disallowed
// elements lose their wrapper but keep their (sanitized) content, and
// disallowed elements without content disappear entirely. Unparseable input
// is neutralized to literal text.
func sanitizeBlock(source string, policy sanitize.Policy) []*markup.Node {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(source), body)
	if err != nil {
		return []*markup.Node{markup.Text(source)}
	}
	var out []*markup.Node
	for _, n := range parsed {
		out = append(out, sanitizeTree(n, policy, 0)...)
	}
	return out
}

func sanitizeTree(n *html.Node, policy sanitize.Policy, depth int) []*markup.Node {
	switch n.Type {
	case html.TextNode:
		return []*markup.Node{markup.Text(n.Data)}
	case html.ElementNode:
		var children []*markup.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, sanitizeTree(c, policy, depth+1)...)
		}
		if !policy.ElementAllowed(n.Data) || depth >= maxRawDepth {
			// Tag stripped, content preserved. A disallowed element
			// with nothing inside (void or otherwise) vanishes.
			return children
		}
		attrs := policy.FilterAttributes(htmlAttrs(n.Attr))
		return []*markup.Node{markup.Element(n.Data, attrs, children...)}
	default:
		// Comments, doctypes and anything else are dropped.
		return nil
	}
}

// sanitizeInline tokenizes source and re-emits only allowed tags, with
// filtered attributes. Disallowed open and close tags are dropped so the
// surrounding Markdown content survives unwrapped.
func sanitizeInline(source string, policy sanitize.Policy) []*markup.Node {
	var out []*markup.Node
	z := html.NewTokenizer(strings.NewReader(source))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			out = append(out, markup.Text(tok.Data))
		case html.StartTagToken, html.SelfClosingTagToken:
			if !policy.ElementAllowed(tok.Data) {
				continue
			}
			attrs := policy.FilterAttributes(htmlAttrs(tok.Attr))
			out = append(out, markup.Raw(openTag(tok.Data, attrs, tt == html.SelfClosingTagToken)))
		case html.EndTagToken:
			if !policy.ElementAllowed(tok.Data) {
				continue
			}
			out = append(out, markup.Raw("</"+tok.Data+">"))
		}
		// Comments and doctypes are dropped.
	}
}

func htmlAttrs(attrs []html.Attribute) []markup.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]markup.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, markup.Attr{Name: a.Key, Value: a.Val})
	}
	return out
}

func openTag(name string, attrs []markup.Attr, selfClosing bool) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(name)
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Value))
		sb.WriteString(`"`)
	}
	if selfClosing {
		sb.WriteString(" /")
	}
	sb.WriteByte('>')
	return sb.String()
}
