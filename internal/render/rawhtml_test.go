package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdhtml/internal/markup"
	"git.home.luguber.info/inful/mdhtml/internal/sanitize"
	"git.home.luguber.info/inful/mdhtml/internal/util/sets"
)

func TestRenderRawBlock_DontParseEscapesEverything(t *testing.T) {
	out := renderRawBlock("<script>alert(1)</script>", DontParse())
	html := markup.RenderHTML(out...)
	require.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", html)
}

func TestRenderRawBlock_ParseUnsafeIsVerbatim(t *testing.T) {
	src := `<div onclick="x" class="y">hi</div>`
	out := renderRawBlock(src, ParseUnsafe())
	require.Equal(t, src, markup.RenderHTML(out...))
}

func TestRenderRawBlock_SanitizeFiltersAttributes(t *testing.T) {
	out := renderRawBlock(`<div onclick="x" class="y">hi</div>`, SanitizeWith(sanitize.DefaultPolicy()))
	require.Equal(t, `<div class="y">hi</div>`, markup.RenderHTML(out...))
}

func TestRenderRawBlock_DisallowedTagKeepsContent(t *testing.T) {
	out := renderRawBlock(`<span class="x">kept</span>`, SanitizeWith(sanitize.DefaultPolicy()))
	require.Equal(t, "kept", markup.RenderHTML(out...))
}

func TestRenderRawBlock_DisallowedEmptyTagDropsEntirely(t *testing.T) {
	// Both void elements and empty non-void elements vanish when
	// disallowed: there is no content to preserve.
	policy := sanitize.Policy{Elements: sets.New("div"), Attributes: sets.New[string]()}
	out := renderRawBlock(`<div>a<span></span><input>b</div>`, SanitizeWith(policy))
	require.Equal(t, "<div>ab</div>", markup.RenderHTML(out...))
}

func TestRenderRawBlock_SanitizeRecursesIntoChildren(t *testing.T) {
	out := renderRawBlock(`<div><p onclick="x">a</p><script>bad()</script></div>`, SanitizeWith(sanitize.DefaultPolicy()))
	html := markup.RenderHTML(out...)
	require.Contains(t, html, "<div><p>a</p>")
	require.NotContains(t, html, "onclick")
	require.NotContains(t, html, "<script>")
}

func TestRenderRawBlock_SanitizeIdempotent(t *testing.T) {
	mode := SanitizeWith(sanitize.DefaultPolicy())
	first := markup.RenderHTML(renderRawBlock(`<div onclick="x" class="y">hi<span>t</span></div>`, mode)...)
	second := markup.RenderHTML(renderRawBlock(first, mode)...)
	require.Equal(t, first, second)
}

func TestRenderRawBlock_ParserNormalizesTagCase(t *testing.T) {
	// The HTML parser lowercases names before the case-sensitive policy
	// sees them, so shouting the tag does not bypass the allow-list.
	out := renderRawBlock(`<DIV CLASS="y" ONCLICK="x">hi</DIV>`, SanitizeWith(sanitize.DefaultPolicy()))
	require.Equal(t, `<div class="y">hi</div>`, markup.RenderHTML(out...))
}

func TestRenderRawBlock_CommentsAreDropped(t *testing.T) {
	out := renderRawBlock("<!-- secret --><p>x</p>", SanitizeWith(sanitize.DefaultPolicy()))
	require.Equal(t, "<p>x</p>", markup.RenderHTML(out...))
}

func TestRenderRawInline_SanitizeDropsDisallowedTags(t *testing.T) {
	mode := SanitizeWith(sanitize.DefaultPolicy())
	open := markup.RenderHTML(renderRawInline(`<span class="x">`, mode)...)
	require.Empty(t, open)
	closing := markup.RenderHTML(renderRawInline(`</span>`, mode)...)
	require.Empty(t, closing)
}

func TestRenderRawInline_SanitizeKeepsAllowedTagsFiltered(t *testing.T) {
	policy := sanitize.DefaultPolicy()
	policy.Elements = policy.Elements.Union(sets.New("span"))
	mode := SanitizeWith(policy)
	out := markup.RenderHTML(renderRawInline(`<span onclick="x" class="y">`, mode)...)
	require.Equal(t, `<span class="y">`, out)
	require.Equal(t, "</span>", markup.RenderHTML(renderRawInline(`</span>`, mode)...))
}

func TestRenderRawInline_DontParse(t *testing.T) {
	out := markup.RenderHTML(renderRawInline("<b>", DontParse())...)
	require.Equal(t, "&lt;b&gt;", out)
}

func TestRenderRawInline_ParseUnsafe(t *testing.T) {
	out := markup.RenderHTML(renderRawInline(`<b onclick="x">`, ParseUnsafe())...)
	require.Equal(t, `<b onclick="x">`, out)
}
