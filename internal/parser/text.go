package parser

import (
	"io"
	"strings"
)

// IDLParser handles raw WebIDL files.
type IDLParser struct{}

func (p *IDLParser) Parse(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Title: baseTitle(filename)}

	// A file with only whitespace contributes nothing but is not an error.
	if src := string(data); strings.TrimSpace(src) != "" {
		doc.Blocks = []string{src}
	}
	return doc, nil
}
