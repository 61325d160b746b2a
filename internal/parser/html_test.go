package parser

import (
	"errors"
	"strings"
	"testing"
)

const respecPage = `<!DOCTYPE html>
<html>
<head><title>Gamepad</title></head>
<body>
<pre class="idl def"><span class="idlHeader"><a class="self-link" href="#idl-def-gamepad">WebIDL</a></span>[Exposed=Window]
interface <dfn>Gamepad</dfn> {
  readonly attribute <a href="#">DOMString</a> id;
  readonly attribute FrozenArray&lt;double&gt; axes;
};</pre>
<pre class="example idl">interface ExampleOnly {};</pre>
<pre class="idl extract">interface Extracted {};</pre>
<pre class="js">const x = 1;</pre>
<div><pre class="idl">enum GamepadMappingType { "", "standard" };</pre></div>
<script>var s = '<pre class="idl">interface Scripted {};</pre>';</script>
</body>
</html>`

func TestHTMLParser_NormativeBlocks(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(respecPage), "index.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Gamepad" {
		t.Errorf("expected title %q, got %q", "Gamepad", doc.Title)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 IDL blocks, got %d: %q", len(doc.Blocks), doc.Blocks)
	}

	first := doc.Blocks[0]
	if strings.Contains(first, "WebIDL") {
		t.Errorf("expected idlHeader to be dropped, got %q", first)
	}
	if !strings.HasPrefix(first, "[Exposed=Window]") {
		t.Errorf("expected block to start with the extended attribute, got %q", first)
	}
	if !strings.Contains(first, "FrozenArray<double> axes") {
		t.Errorf("expected entities to be decoded and links flattened, got %q", first)
	}

	idl := doc.IDL()
	for _, skipped := range []string{"ExampleOnly", "Extracted", "Scripted", "const x"} {
		if strings.Contains(idl, skipped) {
			t.Errorf("expected %q to be skipped, got %q", skipped, idl)
		}
	}
}

func TestHTMLParser_NoIDL(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<html><body><p>Hello</p></body></html>"), "page.html")
	if !errors.Is(err, ErrNoIDL) {
		t.Fatalf("expected ErrNoIDL, got %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("expected title %q, got %q", "page", doc.Title)
	}
}
