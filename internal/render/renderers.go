package render

import (
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/mdhtml/internal/markup"
)

// CodeBlock is the payload of a fenced or indented code block. Language is
// the fenced info string, empty when absent.
type CodeBlock struct {
	Language string
	Code     string
}

// ListKind describes a list: unordered, or ordered with a starting display
// index.
type ListKind struct {
	Ordered bool
	Start   int // first item's display index; meaningful only when Ordered
}

// Link is the payload of a link construct. Title is empty when absent.
type Link struct {
	URL   string
	Title string
}

// Image is the payload of an image construct. Title is empty when absent.
type Image struct {
	Alt   string
	Src   string
	Title string
}

// ElementRenderers maps each Markdown construct to the markup it produces.
// Every field must be non-nil; DefaultRenderers fills all of them and
// callers override any subset:
//
//	rs := render.DefaultRenderers()
//	rs.Heading = myHeading
//
// All functions must be pure: no shared state, no caching, no counters.
// That purity is what makes a renderer set safely shareable across
// concurrent renders.
type ElementRenderers struct {
	// Heading renders a heading. Levels 1 through 5 map to h1..h5; any
	// level of 6 or more maps to h6. The clamp is deliberate and callers
	// replacing this entry should preserve it.
	Heading func(level int, children []*markup.Node) *markup.Node

	// Paragraph renders a paragraph. When wrap is false (a single-line
	// paragraph inside a tight list item) the children are returned
	// unwrapped; loose lists and top-level paragraphs get wrap == true.
	Paragraph func(wrap bool, children []*markup.Node) []*markup.Node

	BlockQuote func(children []*markup.Node) *markup.Node

	// Code renders a code block. The code text is always literal text,
	// never markup.
	Code func(block CodeBlock) *markup.Node

	// List renders a list around already-rendered item nodes.
	List func(kind ListKind, items []*markup.Node) *markup.Node

	Emphasis func(children []*markup.Node) *markup.Node
	Strong   func(children []*markup.Node) *markup.Node

	// CodeSpan renders inline code; text is always literal.
	CodeSpan func(text string) *markup.Node

	Link func(link Link, children []*markup.Node) *markup.Node

	// Image renders an image; it is always a leaf node.
	Image func(img Image) *markup.Node

	ThematicBreak func() *markup.Node
	HardLineBreak func() *markup.Node
}

// Validate reports an error naming every nil entry. A renderer set with a
// nil entry is rejected when the Renderer is constructed, before any
// traversal begins.
func (r ElementRenderers) Validate() error {
	var missing []string
	if r.Heading == nil {
		missing = append(missing, "Heading")
	}
	if r.Paragraph == nil {
		missing = append(missing, "Paragraph")
	}
	if r.BlockQuote == nil {
		missing = append(missing, "BlockQuote")
	}
	if r.Code == nil {
		missing = append(missing, "Code")
	}
	if r.List == nil {
		missing = append(missing, "List")
	}
	if r.Emphasis == nil {
		missing = append(missing, "Emphasis")
	}
	if r.Strong == nil {
		missing = append(missing, "Strong")
	}
	if r.CodeSpan == nil {
		missing = append(missing, "CodeSpan")
	}
	if r.Link == nil {
		missing = append(missing, "Link")
	}
	if r.Image == nil {
		missing = append(missing, "Image")
	}
	if r.ThematicBreak == nil {
		missing = append(missing, "ThematicBreak")
	}
	if r.HardLineBreak == nil {
		missing = append(missing, "HardLineBreak")
	}
	if len(missing) > 0 {
		return fmt.Errorf("renderer set missing entries: %v", missing)
	}
	return nil
}

// DefaultRenderers returns the built-in renderer set producing conventional
// HTML elements.
func DefaultRenderers() ElementRenderers {
	return ElementRenderers{
		Heading:       defaultHeading,
		Paragraph:     defaultParagraph,
		BlockQuote:    defaultBlockQuote,
		Code:          defaultCode,
		List:          defaultList,
		Emphasis:      defaultEmphasis,
		Strong:        defaultStrong,
		CodeSpan:      defaultCodeSpan,
		Link:          defaultLink,
		Image:         defaultImage,
		ThematicBreak: defaultThematicBreak,
		HardLineBreak: defaultHardLineBreak,
	}
}

func defaultHeading(level int, children []*markup.Node) *markup.Node {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return markup.Element("h"+strconv.Itoa(level), nil, children...)
}

func defaultParagraph(wrap bool, children []*markup.Node) []*markup.Node {
	if !wrap {
		return children
	}
	return []*markup.Node{markup.Element("p", nil, children...)}
}

func defaultBlockQuote(children []*markup.Node) *markup.Node {
	return markup.Element("blockquote", nil, children...)
}

func defaultCode(block CodeBlock) *markup.Node {
	var attrs []markup.Attr
	if block.Language != "" {
		attrs = []markup.Attr{{Name: "class", Value: "language-" + block.Language}}
	}
	code := markup.Element("code", attrs, markup.Text(block.Code))
	return markup.Element("pre", nil, code)
}

func defaultList(kind ListKind, items []*markup.Node) *markup.Node {
	if !kind.Ordered {
		return markup.Element("ul", nil, items...)
	}
	var attrs []markup.Attr
	// start == 1 matches the implicit default, so no marker is emitted.
	if kind.Start != 1 {
		attrs = []markup.Attr{{Name: "start", Value: strconv.Itoa(kind.Start)}}
	}
	return markup.Element("ol", attrs, items...)
}

func defaultEmphasis(children []*markup.Node) *markup.Node {
	return markup.Element("em", nil, children...)
}

func defaultStrong(children []*markup.Node) *markup.Node {
	return markup.Element("strong", nil, children...)
}

func defaultCodeSpan(text string) *markup.Node {
	return markup.Element("code", nil, markup.Text(text))
}

func defaultLink(link Link, children []*markup.Node) *markup.Node {
	attrs := []markup.Attr{{Name: "href", Value: link.URL}}
	if link.Title != "" {
		attrs = append(attrs, markup.Attr{Name: "title", Value: link.Title})
	}
	return markup.Element("a", attrs, children...)
}

func defaultImage(img Image) *markup.Node {
	attrs := []markup.Attr{
		{Name: "alt", Value: img.Alt},
		{Name: "src", Value: img.Src},
	}
	if img.Title != "" {
		attrs = append(attrs, markup.Attr{Name: "title", Value: img.Title})
	}
	return markup.Element("img", attrs)
}

func defaultThematicBreak() *markup.Node {
	return markup.Element("hr", nil)
}

func defaultHardLineBreak() *markup.Node {
	return markup.Element("br", nil)
}
