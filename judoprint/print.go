// Package judoprint renders a parsed tree back to JSON text.
//
// Scalars are echoed verbatim from their source spans, so the output
// preserves the exact number and string lexemes of the input, including
// JSON5 forms. Only the text between tokens changes: whitespace, comments,
// and trailing commas are dropped, Compact emits no whitespace, and Pretty
// regenerates it from the nesting structure.
package judoprint

import (
	"github.com/railgunlabs/judo/judotree"
)

// Options controls Pretty's indentation.
type Options struct {
	// Indent is the number of spaces per nesting level. Zero selects the
	// default of four.
	Indent int
	// Tabs indents with one tab per nesting level instead of spaces.
	Tabs bool
}

func (o Options) width() int {
	if o.Indent <= 0 {
		return 4
	}
	return o.Indent
}

func span(source []byte, v *judotree.Value) []byte {
	w := v.Where()
	return source[w.Offset : w.Offset+w.Length]
}

// Compact appends the minimal rendering of the tree to buf and returns the
// extended buffer.
func Compact(buf []byte, root *judotree.Value, source []byte) []byte {
	switch root.Type() {
	case judotree.TypeNull, judotree.TypeBool, judotree.TypeNumber, judotree.TypeString:
		buf = append(buf, span(source, root)...)

	case judotree.TypeArray:
		buf = append(buf, '[')
		for elem := root.First(); elem != nil; elem = elem.Next() {
			buf = Compact(buf, elem, source)
			if elem.Next() != nil {
				buf = append(buf, ',')
			}
		}
		buf = append(buf, ']')

	case judotree.TypeObject:
		buf = append(buf, '{')
		for member := root.FirstMember(); member != nil; member = member.Next() {
			name := member.Name()
			buf = append(buf, source[name.Offset:name.Offset+name.Length]...)
			buf = append(buf, ':')
			buf = Compact(buf, member.Value(), source)
			if member.Next() != nil {
				buf = append(buf, ',')
			}
		}
		buf = append(buf, '}')
	}
	return buf
}

// Pretty appends an indented rendering of the tree to buf and returns the
// extended buffer.
func Pretty(buf []byte, root *judotree.Value, source []byte, opts Options) []byte {
	return pretty(buf, root, source, 0, opts)
}

func indent(buf []byte, depth int, opts Options) []byte {
	if opts.Tabs {
		for i := 0; i < depth; i++ {
			buf = append(buf, '\t')
		}
		return buf
	}
	for i := 0; i < depth*opts.width(); i++ {
		buf = append(buf, ' ')
	}
	return buf
}

func pretty(buf []byte, root *judotree.Value, source []byte, depth int, opts Options) []byte {
	switch root.Type() {
	case judotree.TypeNull, judotree.TypeBool, judotree.TypeNumber, judotree.TypeString:
		buf = append(buf, span(source, root)...)

	case judotree.TypeArray:
		if root.Len() == 0 {
			return append(buf, "[]"...)
		}
		buf = append(buf, '[', '\n')
		for elem := root.First(); elem != nil; elem = elem.Next() {
			buf = indent(buf, depth+1, opts)
			buf = pretty(buf, elem, source, depth+1, opts)
			if elem.Next() != nil {
				buf = append(buf, ',')
			}
			buf = append(buf, '\n')
		}
		buf = indent(buf, depth, opts)
		buf = append(buf, ']')

	case judotree.TypeObject:
		if root.Len() == 0 {
			return append(buf, "{}"...)
		}
		buf = append(buf, '{', '\n')
		for member := root.FirstMember(); member != nil; member = member.Next() {
			buf = indent(buf, depth+1, opts)
			name := member.Name()
			buf = append(buf, source[name.Offset:name.Offset+name.Length]...)
			buf = append(buf, ':', ' ')
			buf = pretty(buf, member.Value(), source, depth+1, opts)
			if member.Next() != nil {
				buf = append(buf, ',')
			}
			buf = append(buf, '\n')
		}
		buf = indent(buf, depth, opts)
		buf = append(buf, '}')
	}
	return buf
}
