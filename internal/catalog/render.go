package catalog

import "strings"

// DefaultName is used when no catalog name is given.
const DefaultName = "API NAME HERE"

const (
	tabSize     = 2
	baseIndent  = 4
	nameColumn  = 11 // section names are padded so every '[' lines up
	entryIndent = 14
)

// renderer tracks the indent level while building the catalog text.
type renderer struct {
	buf    strings.Builder
	indent int
}

// line writes s prefixed with the current indentation. s carries its own
// line ending, if any.
func (r *renderer) line(s string) {
	r.buf.WriteString(strings.Repeat(" ", r.indent*tabSize))
	r.buf.WriteString(s)
}

// Render produces the GroupData text for the given buckets. Buckets are sorted
// before rendering; the callbacks section appears only under Separate.
func Render(name string, b Buckets, policy CallbackPolicy) string {
	if name == "" {
		name = DefaultName
	}
	b = b.Sorted()

	r := &renderer{indent: baseIndent}
	r.line(`"` + name + `": {` + "\n")
	r.indent++

	r.line(`"overview":   [],` + "\n")
	r.line(`"guides":     [],` + "\n")

	r.section("interfaces", b.Interfaces.Names())
	r.buf.WriteString(",\n")
	r.section("dictionaries", b.Dictionaries.Names())
	r.buf.WriteString(",\n")
	r.section("types", b.Types.Names())
	r.buf.WriteString(",\n")

	r.line(`"methods":    [],` + "\n")
	r.line(`"properties": [],` + "\n")
	r.line(`"events":     [],` + "\n")

	if policy == Separate {
		r.section("callbacks", b.Callbacks.Names())
		r.buf.WriteString("\n")
	}

	r.indent--
	r.line("}\n")
	return r.buf.String()
}

// section writes one named array. The caller writes the separator after it.
func (r *renderer) section(name string, names []string) {
	pad := nameColumn - len(name)
	if pad < 1 {
		pad = 1
	}
	head := `"` + name + `":` + strings.Repeat(" ", pad)

	switch len(names) {
	case 0:
		r.line(head + "[]")
		return
	case 1:
		r.line(head + `[ "` + names[0] + `" ]`)
		return
	}

	r.line(head + `[ "` + names[0] + `",` + "\n")
	r.indent++
	align := strings.Repeat(" ", entryIndent)
	for i, n := range names[1:] {
		entry := align + `"` + n + `"`
		if i < len(names)-2 {
			entry += ",\n"
		} else {
			entry += " ]"
		}
		r.line(entry)
	}
	r.indent--
}
