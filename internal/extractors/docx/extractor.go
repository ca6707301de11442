// Package docx extracts paragraph text from Word documents.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// bodyPart is the archive member holding the document body.
const bodyPart = "word/document.xml"

// Extractor reads the body of .docx archives.
type Extractor struct{}

// New creates a new Word extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract returns one line per paragraph. Files that are not a valid
// archive or lack a body fail with domain.ErrUnsupportedFormat.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", domain.ErrUnsupportedFormat, path, err)
	}
	defer r.Close()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, f := range r.File {
		if f.Name != bodyPart {
			continue
		}
		content, err := readMember(f)
		if err != nil {
			return "", fmt.Errorf("%w: read %s: %w", domain.ErrUnsupportedFormat, path, err)
		}
		return Paragraphs(content)
	}
	return "", fmt.Errorf("%w: %s has no %s", domain.ErrUnsupportedFormat, path, bodyPart)
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// Paragraphs decodes word/document.xml and joins the text runs of each
// paragraph. Empty paragraphs are dropped.
func Paragraphs(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: decode body: %w", domain.ErrUnsupportedFormat, err)
	}

	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
