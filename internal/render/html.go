// Package render turns todo details markdown into the cached HTML stored on
// an item and into styled terminal output.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	policy = bluemonday.UGCPolicy()
)

// HTML converts details markdown into sanitised HTML. Blank input yields an
// empty string.
func HTML(details string) (string, error) {
	if strings.TrimSpace(details) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(details), &buf); err != nil {
		return "", fmt.Errorf("render details: %w", err)
	}

	return strings.TrimSpace(policy.Sanitize(buf.String())), nil
}
