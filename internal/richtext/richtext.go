// Package richtext converts contributor-submitted Markdown into HTML and
// sanitizes any HTML body before it is stored or rendered. Contributor text
// arrives from the public submission form; editor text arrives from the
// rich-text edit form. Both pass through the same sanitizer.
package richtext

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks
		extension.Typographer, // smart quotes and dashes
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // raw HTML passes through; the sanitizer strips anything dangerous
	),
)

// embedSrc matches the iframe sources the playlist embeds use. Anything
// else is stripped with the element.
var embedSrc = regexp.MustCompile(`^https://(open\.spotify\.com|w\.soundcloud\.com|www\.youtube(-nocookie)?\.com)/`)

// policy allows the tags and attributes safe for user-generated content,
// including images and platform embed iframes. Script, style, and event
// handlers are stripped.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("src").Matching(embedSrc).OnElements("iframe")
	p.AllowAttrs("width", "height", "frameborder", "allow", "allowfullscreen", "loading", "title").OnElements("iframe")
	return p
}()

// RenderMarkdown converts Markdown source into sanitized HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// SanitizeHTML strips unsafe markup from an HTML fragment. Used for bodies
// that arrive from the rich-text editor already in HTML form.
func SanitizeHTML(fragment string) string {
	return policy.Sanitize(fragment)
}
