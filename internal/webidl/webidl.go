// Package webidl scans WebIDL source for its top-level declarations.
//
// Only the outer shape of each definition is recognized: its kind and name.
// Members, arguments and types are skipped without being validated.
package webidl

import (
	"fmt"
	"strings"
)

// Kind is the grammar category of a top-level definition. The values are the
// category names used by the webidl2 grammar.
type Kind string

const (
	KindInterface         Kind = "interface"
	KindInterfaceMixin    Kind = "interface mixin"
	KindCallbackInterface Kind = "callback interface"
	KindDictionary        Kind = "dictionary"
	KindNamespace         Kind = "namespace"
	KindTypedef           Kind = "typedef"
	KindEnum              Kind = "enum"
	KindCallback          Kind = "callback"
	KindIncludes          Kind = "includes"
	KindImplements        Kind = "implements"
	KindException         Kind = "exception"
	KindSerializer        Kind = "serializer"
	KindIterator          Kind = "iterator"

	// KindEOF marks the end of a parsed source.
	KindEOF Kind = "eof"
)

// Declaration is a top-level WebIDL definition.
type Declaration struct {
	Kind Kind
	// Name is empty for KindEOF. For includes and implements statements it is
	// the name on the left-hand side.
	Name    string
	Partial bool
	Line    int
}

// SyntaxError reports source that could not be scanned.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("webidl: line %d: %s", e.Line, e.Msg)
}

// Parse returns the top-level declarations in src, in source order, followed
// by a single KindEOF declaration.
func Parse(src string) ([]Declaration, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.definitions()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Line: t.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(val string) error {
	t := p.next()
	if !t.is(val) {
		return p.errorf(t, "expected %q, got %s", val, t)
	}
	return nil
}

func (p *parser) ident() (string, error) {
	t := p.next()
	if t.kind != tokIdent {
		return "", p.errorf(t, "expected identifier, got %s", t)
	}
	// A leading underscore escapes identifiers that collide with keywords.
	return strings.TrimPrefix(t.val, "_"), nil
}

func (p *parser) definitions() ([]Declaration, error) {
	var decls []Declaration
	for {
		if err := p.extendedAttributes(); err != nil {
			return nil, err
		}
		t := p.peek()
		if t.kind == tokEOF {
			decls = append(decls, Declaration{Kind: KindEOF, Line: t.line})
			return decls, nil
		}
		d, err := p.definition()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
}

func (p *parser) definition() (Declaration, error) {
	start := p.next()
	if start.kind != tokIdent {
		return Declaration{}, p.errorf(start, "expected definition, got %s", start)
	}
	d := Declaration{Line: start.line}

	kw := start.val
	if kw == "partial" {
		d.Partial = true
		t := p.next()
		if t.kind != tokIdent {
			return d, p.errorf(t, "expected definition after partial, got %s", t)
		}
		kw = t.val
	}

	var err error
	switch kw {
	case "interface":
		d.Kind = KindInterface
		if p.peek().is("mixin") {
			p.next()
			d.Kind = KindInterfaceMixin
		}
		d.Name, err = p.block(true)
	case "callback":
		if p.peek().is("interface") {
			p.next()
			d.Kind = KindCallbackInterface
			d.Name, err = p.block(true)
			break
		}
		d.Kind = KindCallback
		if d.Name, err = p.ident(); err != nil {
			break
		}
		if err = p.expect("="); err != nil {
			break
		}
		err = p.skipTo(";")
	case "dictionary", "exception", "namespace":
		d.Kind = Kind(kw)
		d.Name, err = p.block(true)
	case "enum":
		d.Kind = KindEnum
		d.Name, err = p.block(false)
	case "typedef":
		d.Kind = KindTypedef
		d.Name, err = p.typedef()
	case "serializer", "iterator":
		d.Kind = Kind(kw)
		if p.peek().kind == tokIdent {
			d.Name = p.peek().val
		}
		err = p.skipTo(";")
	default:
		if d.Partial {
			return d, p.errorf(start, "unexpected partial %q", kw)
		}
		// Foo includes Bar; / Foo implements Bar;
		d.Name = strings.TrimPrefix(kw, "_")
		t := p.next()
		switch {
		case t.is("includes"):
			d.Kind = KindIncludes
		case t.is("implements"):
			d.Kind = KindImplements
		default:
			return d, p.errorf(start, "unknown definition %q", kw)
		}
		if _, err = p.ident(); err == nil {
			err = p.expect(";")
		}
	}
	return d, err
}

// block reads `Name [: Parent] { ... };` and returns Name.
func (p *parser) block(inherits bool) (string, error) {
	name, err := p.ident()
	if err != nil {
		return "", err
	}
	if inherits && p.peek().is(":") {
		p.next()
		if _, err := p.ident(); err != nil {
			return "", err
		}
	}
	if err := p.expect("{"); err != nil {
		return "", err
	}
	if err := p.skipBalanced("{", "}"); err != nil {
		return "", err
	}
	return name, p.expect(";")
}

// typedef skips the aliased type and returns the identifier just before ';'.
func (p *parser) typedef() (string, error) {
	var last token
	for {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return "", p.errorf(t, "unterminated typedef")
		case t.is(";"):
			if last.kind != tokIdent {
				return "", p.errorf(t, "typedef without a name")
			}
			return strings.TrimPrefix(last.val, "_"), nil
		case t.is("["):
			if err := p.skipBalanced("[", "]"); err != nil {
				return "", err
			}
			last = token{}
		default:
			last = t
		}
	}
}

// extendedAttributes skips any [ ... ] lists at the current position.
func (p *parser) extendedAttributes() error {
	for p.peek().is("[") {
		p.next()
		if err := p.skipBalanced("[", "]"); err != nil {
			return err
		}
	}
	return nil
}

// skipBalanced consumes tokens up to and including the close that matches an
// already consumed open.
func (p *parser) skipBalanced(open, close string) error {
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return p.errorf(t, "missing %q", close)
		case t.is(open):
			depth++
		case t.is(close):
			depth--
		}
	}
	return nil
}

// skipTo consumes tokens up to and including val.
func (p *parser) skipTo(val string) error {
	for {
		t := p.next()
		if t.kind == tokEOF {
			return p.errorf(t, "missing %q", val)
		}
		if t.is(val) {
			return nil
		}
	}
}
