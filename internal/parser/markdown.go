package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// idlFenceLanguages are the info strings that mark a fenced block as IDL.
var idlFenceLanguages = map[string]bool{
	"webidl": true,
	"idl":    true,
}

// MarkdownParser extracts fenced ```webidl blocks (explainers, READMEs)
// using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Title: baseTitle(filename)}

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			// First h1 names the document.
			if node.Level == 1 && doc.Title == baseTitle(filename) {
				if t := headingText(node, src); t != "" {
					doc.Title = t
				}
			}
		case *ast.FencedCodeBlock:
			lang := strings.ToLower(string(node.Language(src)))
			if idlFenceLanguages[lang] {
				if block := codeLines(node, src); block != "" {
					doc.Blocks = append(doc.Blocks, block)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if len(doc.Blocks) == 0 {
		return doc, ErrNoIDL
	}
	return doc, nil
}

func codeLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimSpace(buf.String())
}

func headingText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
