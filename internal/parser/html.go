package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser extracts IDL from rendered specification documents. Bikeshed and
// ReSpec both emit normative IDL as <pre class="idl">.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{Title: baseTitle(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template:
				return
			case atom.Pre, atom.Xmp:
				if isIDLBlock(n) {
					if t := idlText(n); t != "" {
						doc.Blocks = append(doc.Blocks, t)
					}
					return // IDL blocks don't nest.
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(doc.Blocks) == 0 {
		return doc, ErrNoIDL
	}
	return doc, nil
}

// isIDLBlock reports whether n is normative IDL: class "idl", but not the
// example or non-normative variants.
func isIDLBlock(n *html.Node) bool {
	classes := strings.Fields(attr(n, "class"))
	idl := false
	for _, c := range classes {
		switch c {
		case "idl":
			idl = true
		case "extract", "exclude", "example", "note":
			return false
		}
	}
	return idl
}

// idlText collects the text of an IDL block, skipping the header ReSpec
// injects ("WebIDL" plus a self-link).
func idlText(n *html.Node) string {
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "idlHeader") {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(buf.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
