package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements are HTML elements that never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoid reports whether tag is an HTML void element (never takes a
// closing tag and can have no children).
func IsVoid(tag string) bool { return voidElements[tag] }

// WriteHTML serializes nodes to w as HTML. Text nodes and attribute values
// are entity-escaped; RawNode content is written as-is.
func WriteHTML(w io.Writer, nodes ...*Node) error {
	for _, n := range nodes {
		if err := writeNode(w, n); err != nil {
			return err
		}
	}
	return nil
}

// RenderHTML serializes nodes to a string. Convenience for tests and small
// callers; prefer WriteHTML for streams.
func RenderHTML(nodes ...*Node) string {
	var sb strings.Builder
	_ = WriteHTML(&sb, nodes...)
	return sb.String()
}

func writeNode(w io.Writer, n *Node) error {
	switch n.Kind {
	case TextNode:
		_, err := io.WriteString(w, html.EscapeString(n.Text))
		return err
	case RawNode:
		_, err := io.WriteString(w, n.Text)
		return err
	}

	if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
		return err
	}
	for _, a := range n.Attrs {
		if _, err := io.WriteString(w, " "+a.Name+`="`+html.EscapeString(a.Value)+`"`); err != nil {
			return err
		}
	}
	if IsVoid(n.Tag) && len(n.Children) == 0 {
		_, err := io.WriteString(w, " />")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+n.Tag+">")
	return err
}
