// Package html extracts readable text from HTML pages.
package html

import (
	"context"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"
)

// Extractor strips markup from saved web pages.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".html", ".htm"}
}

// Extract reads the file and returns its visible text.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Strip(string(data)), nil
}

var (
	invisible  = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg)[^>]*>.*?</(script|style|noscript|head|svg)>`)
	comments   = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockOpen  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	blockClose = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	breaks     = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	tags       = regexp.MustCompile(`<[^>]+>`)
	spaces     = regexp.MustCompile(`[ \t]+`)
)

// Strip removes markup, decodes entities and drops blank lines. Block
// elements end up on their own lines.
func Strip(content string) string {
	content = invisible.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")
	content = blockOpen.ReplaceAllString(content, "\n")
	content = blockClose.ReplaceAllString(content, "\n")
	content = breaks.ReplaceAllString(content, "\n")
	content = tags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = spaces.ReplaceAllString(content, " ")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
