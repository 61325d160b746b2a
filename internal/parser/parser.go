package parser

import (
	"errors"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
)

// ErrNoIDL is returned when a document was read but holds no WebIDL blocks.
var ErrNoIDL = errors.New("no WebIDL found in document")

// Document is the WebIDL pulled out of one source document.
type Document struct {
	Title  string   // Document title (from <title> or the file name)
	Blocks []string // IDL blocks in document order
}

// IDL joins every block into one IDL source.
func (d *Document) IDL() string {
	return strings.Join(d.Blocks, "\n\n")
}

// Parser extracts the WebIDL embedded in a document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions with a dedicated parser. Anything
// else is read as raw IDL.
var SupportedExtensions = map[string]bool{
	".idl":      true,
	".webidl":   true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the parser for a file name or URL path.
func ForFile(filename string) Parser {
	switch ext(filename) {
	case ".md", ".markdown":
		return &MarkdownParser{}
	case ".html", ".htm":
		return &HTMLParser{}
	default:
		return &IDLParser{}
	}
}

// ForContentType picks a parser from an HTTP Content-Type, falling back to
// the file name when the type is missing or generic.
func ForContentType(contentType, filename string) Parser {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ForFile(filename)
	}
	switch mt {
	case "text/html", "application/xhtml+xml":
		return &HTMLParser{}
	case "text/markdown", "text/x-markdown":
		return &MarkdownParser{}
	case "text/plain":
		if p, ok := ForFile(filename).(*MarkdownParser); ok {
			return p
		}
		return &IDLParser{}
	default:
		return ForFile(filename)
	}
}

// IsSupportedExtension checks if a file extension has a dedicated parser.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[ext(filename)]
}

func ext(filename string) string {
	// URLs carry query strings and always use forward slashes.
	if i := strings.IndexAny(filename, "?#"); i >= 0 {
		filename = filename[:i]
	}
	if strings.Contains(filename, "://") {
		return strings.ToLower(path.Ext(filename))
	}
	return strings.ToLower(filepath.Ext(filename))
}

func baseTitle(filename string) string {
	name := filepath.Base(filename)
	if strings.Contains(filename, "://") {
		name = path.Base(strings.TrimRight(filename, "/"))
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
