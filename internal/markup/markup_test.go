package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderHTML_TextIsEscaped(t *testing.T) {
	out := RenderHTML(Text("<script>alert(1)</script>"))
	require.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", out)
}

func TestRenderHTML_RawIsVerbatim(t *testing.T) {
	out := RenderHTML(Raw("<b onclick=\"x\">"))
	require.Equal(t, "<b onclick=\"x\">", out)
}

func TestRenderHTML_ElementWithAttributes(t *testing.T) {
	n := Element("a", []Attr{{Name: "href", Value: "https://example.com?a=1&b=2"}}, Text("link"))
	require.Equal(t, `<a href="https://example.com?a=1&amp;b=2">link</a>`, RenderHTML(n))
}

func TestRenderHTML_VoidElements(t *testing.T) {
	require.Equal(t, "<br />", RenderHTML(Element("br", nil)))
	require.Equal(t, "<hr />", RenderHTML(Element("hr", nil)))
	require.Equal(t, `<img alt="a" src="s" />`, RenderHTML(Element("img", []Attr{{Name: "alt", Value: "a"}, {Name: "src", Value: "s"}})))
}

func TestRenderHTML_NestedElements(t *testing.T) {
	n := Element("p", nil, Text("a "), Element("em", nil, Text("b")), Text(" c"))
	require.Equal(t, "<p>a <em>b</em> c</p>", RenderHTML(n))
}

func TestAttrValue(t *testing.T) {
	n := Element("img", []Attr{{Name: "src", Value: "s"}})
	v, ok := n.AttrValue("src")
	require.True(t, ok)
	require.Equal(t, "s", v)
	_, ok = n.AttrValue("title")
	require.False(t, ok)
}

func TestIsVoid(t *testing.T) {
	require.True(t, IsVoid("br"))
	require.False(t, IsVoid("div"))
}
