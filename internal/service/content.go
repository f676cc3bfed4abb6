package service

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	contentSanitizer = buildContentSanitizer()
)

func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	// Article bodies embed library images with attribution captions.
	policy.AllowAttrs("alt", "title", "width", "height").OnElements("img")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "img")
	return policy
}

// RenderContent converts markdown article content to sanitized HTML.
func RenderContent(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(contentSanitizer.SanitizeBytes(buf.Bytes())), nil
}

// SanitizeHTML strips unsafe markup from rich text that is stored as HTML.
func SanitizeHTML(content string) string {
	return contentSanitizer.Sanitize(content)
}
