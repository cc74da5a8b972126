package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdhtml/internal/markup"
)

// Renderer converts Markdown source into a markup node tree. Goldmark
// parses the source; the resulting AST is walked bottom-up, dispatching
// each construct to the configured ElementRenderers and routing raw HTML
// and soft line breaks through Options.
//
// A Renderer holds no per-render state and is safe for concurrent use.
type Renderer struct {
	opts Options
	rs   ElementRenderers
	md   goldmark.Markdown
}

// New builds a Renderer. An incomplete renderer set is rejected here,
// before any rendering begins.
func New(opts Options, rs ElementRenderers) (*Renderer, error) {
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid renderer set: %w", err)
	}
	return &Renderer{opts: opts, rs: rs, md: goldmark.New()}, nil
}

// NewDefault builds a Renderer with DefaultOptions and DefaultRenderers.
func NewDefault() *Renderer {
	return &Renderer{opts: DefaultOptions(), rs: DefaultRenderers(), md: goldmark.New()}
}

// Render parses source and returns the document's top-level markup nodes.
func (r *Renderer) Render(source []byte) ([]*markup.Node, error) {
	doc := r.md.Parser().Parse(gmtext.NewReader(source))
	return r.renderChildren(source, doc), nil
}

// RenderHTML renders source and serializes the result to w as HTML.
func (r *Renderer) RenderHTML(w io.Writer, source []byte) error {
	nodes, err := r.Render(source)
	if err != nil {
		return err
	}
	return markup.WriteHTML(w, nodes...)
}

func (r *Renderer) renderChildren(source []byte, n gmast.Node) []*markup.Node {
	var out []*markup.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, r.renderNode(source, c)...)
	}
	return out
}

func (r *Renderer) renderNode(source []byte, node gmast.Node) []*markup.Node {
	switch n := node.(type) {
	case *gmast.Heading:
		return one(r.rs.Heading(n.Level, r.renderChildren(source, n)))

	case *gmast.Paragraph:
		return r.rs.Paragraph(true, r.renderChildren(source, n))

	case *gmast.TextBlock:
		// Tight list items carry their single-line content in a
		// TextBlock; render it unwrapped.
		return r.rs.Paragraph(false, r.renderChildren(source, n))

	case *gmast.Blockquote:
		return one(r.rs.BlockQuote(r.renderChildren(source, n)))

	case *gmast.FencedCodeBlock:
		var lang string
		if l := n.Language(source); l != nil {
			lang = string(l)
		}
		return one(r.rs.Code(CodeBlock{Language: lang, Code: blockLines(source, n)}))

	case *gmast.CodeBlock:
		return one(r.rs.Code(CodeBlock{Code: blockLines(source, n)}))

	case *gmast.List:
		var items []*markup.Node
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			items = append(items, markup.Element("li", nil, r.renderChildren(source, c)...))
		}
		kind := ListKind{}
		if n.IsOrdered() {
			kind = ListKind{Ordered: true, Start: n.Start}
		}
		return one(r.rs.List(kind, items))

	case *gmast.ThematicBreak:
		return one(r.rs.ThematicBreak())

	case *gmast.HTMLBlock:
		return renderRawBlock(htmlBlockSource(source, n), r.opts.HTML)

	case *gmast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}
		return renderRawInline(buf.String(), r.opts.HTML)

	case *gmast.Text:
		out := []*markup.Node{markup.Text(string(n.Segment.Value(source)))}
		switch {
		case n.HardLineBreak():
			out = append(out, r.rs.HardLineBreak())
		case n.SoftLineBreak():
			if r.opts.SoftAsHardLineBreak {
				out = append(out, r.rs.HardLineBreak())
			} else {
				out = append(out, markup.Text("\n"))
			}
		}
		return out

	case *gmast.String:
		return []*markup.Node{markup.Text(string(n.Value))}

	case *gmast.CodeSpan:
		return one(r.rs.CodeSpan(nodeText(source, n)))

	case *gmast.Emphasis:
		children := r.renderChildren(source, n)
		if n.Level >= 2 {
			return one(r.rs.Strong(children))
		}
		return one(r.rs.Emphasis(children))

	case *gmast.Link:
		link := Link{URL: string(n.Destination), Title: string(n.Title)}
		return one(r.rs.Link(link, r.renderChildren(source, n)))

	case *gmast.AutoLink:
		label := string(n.Label(source))
		href := string(n.URL(source))
		if n.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(href, "mailto:") {
			href = "mailto:" + href
		}
		return one(r.rs.Link(Link{URL: href}, []*markup.Node{markup.Text(label)}))

	case *gmast.Image:
		img := Image{
			Alt:   nodeText(source, n),
			Src:   string(n.Destination),
			Title: string(n.Title),
		}
		return one(r.rs.Image(img))

	default:
		// Node kinds we do not map (extensions, future goldmark types)
		// render their children transparently.
		return r.renderChildren(source, node)
	}
}

func one(n *markup.Node) []*markup.Node { return []*markup.Node{n} }

// blockLines concatenates the source lines backing a block node.
func blockLines(source []byte, n gmast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// htmlBlockSource returns the full source text of a raw HTML block,
// including its closure line when present.
func htmlBlockSource(source []byte, n *gmast.HTMLBlock) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	if n.HasClosure() {
		buf.Write(n.ClosureLine.Value(source))
	}
	return buf.String()
}

// nodeText collects the plain text content beneath n (used for code spans
// and image alt text).
func nodeText(source []byte, n gmast.Node) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
