// Package render converts a parsed Markdown tree into a markup node tree.
// It is configuration-driven: Options selects raw-HTML handling and soft
// line break behavior, and ElementRenderers maps each Markdown construct to
// the markup it produces. All configuration values are immutable once built
// and safe to share across concurrent renders.
package render

import "git.home.luguber.info/inful/mdhtml/internal/sanitize"

type htmlModeKind int

const (
	modeSanitize htmlModeKind = iota
	modeParseUnsafe
	modeDontParse
)

// HTMLMode decides what happens to raw HTML embedded in the Markdown source.
// Exactly one of three behaviors is active for a whole render call:
//
//   - ParseUnsafe: tags and attributes pass through verbatim.
//   - SanitizeWith: tags and attributes are filtered by an allow-list policy.
//   - DontParse: raw HTML is emitted as escaped literal text.
//
// The zero value sanitizes with an empty policy, which strips every tag;
// use DefaultOptions or a constructor for something useful.
type HTMLMode struct {
	kind   htmlModeKind
	policy sanitize.Policy
}

// ParseUnsafe returns the mode that trusts raw HTML verbatim.
//
// This is exactly as dangerous as it sounds: script tags, event handlers,
// and anything else in the source reach the output untouched. Only use it
// on input you authored yourself.
func ParseUnsafe() HTMLMode {
	return HTMLMode{kind: modeParseUnsafe}
}

// SanitizeWith returns the mode that filters raw HTML through policy.
func SanitizeWith(policy sanitize.Policy) HTMLMode {
	return HTMLMode{kind: modeSanitize, policy: policy}
}

// DontParse returns the mode that never interprets raw HTML: fragments are
// emitted as literal text with their delimiters intact, so no markup
// injection is possible.
func DontParse() HTMLMode {
	return HTMLMode{kind: modeDontParse}
}

// Options is the top-level render configuration. It is read-only during
// rendering; nothing in this package mutates it.
type Options struct {
	// SoftAsHardLineBreak routes soft line breaks through the
	// HardLineBreak renderer instead of emitting a newline text node.
	SoftAsHardLineBreak bool

	// HTML selects raw-HTML handling for the whole render.
	HTML HTMLMode
}

// DefaultOptions renders soft breaks as text and sanitizes raw HTML with
// the default policy.
func DefaultOptions() Options {
	return Options{
		SoftAsHardLineBreak: false,
		HTML:                SanitizeWith(sanitize.DefaultPolicy()),
	}
}
