// Package judotree builds an in-memory value graph from the judoscan token
// stream.
//
// Values are tagged records rather than a union: every node carries its type
// tag and source span, and arrays and objects hold ordered singly-linked
// lists of their children with a length counter. A value never copies source
// text; strings and numbers are recovered on demand from their spans with
// judoscan.Stringify and judofloat.Numberify.
//
// Allocation is routed through the Allocator interface so the tree can live
// in caller-managed memory; the default allocator is the Go heap.
package judotree

import "github.com/railgunlabs/judo/judoerr"

// Type identifies the kind of a JSON value.
type Type int8

const (
	// TypeInvalid is the type of a nil value.
	TypeInvalid Type = iota
	// TypeNull is the null literal.
	TypeNull
	// TypeBool is a boolean literal.
	TypeBool
	// TypeNumber is a numeric literal.
	TypeNumber
	// TypeString is a string literal.
	TypeString
	// TypeArray is an ordered sequence of values.
	TypeArray
	// TypeObject is an ordered sequence of named members.
	TypeObject
)

// Value is one JSON value. Its span covers the full lexical extent of the
// value in the source text, from the opening to the closing bracket
// inclusive for arrays and objects.
type Value struct {
	next    *Value
	where   judoerr.Span
	kind    Type
	boolean bool
	elems   *Value // first array element
	count   int32
	members *Member // first object member
	size    int32
}

// Member is a name-value pair in an object. The name is kept as a span of
// the source text; decode it with judoscan.Stringify.
type Member struct {
	next  *Member
	name  judoerr.Span
	value *Value
}

// Type returns the value's type. A nil value is TypeInvalid.
func (v *Value) Type() Type {
	if v == nil {
		return TypeInvalid
	}
	return v.kind
}

// Bool returns the value of a boolean. Any other value is false.
func (v *Value) Bool() bool {
	return v != nil && v.kind == TypeBool && v.boolean
}

// Len returns the element count of an array or the member count of an
// object. Any other value has length zero.
func (v *Value) Len() int32 {
	switch v.Type() {
	case TypeArray:
		return v.count
	case TypeObject:
		return v.size
	default:
		return 0
	}
}

// First returns the first element of an array, or nil.
func (v *Value) First() *Value {
	if v.Type() != TypeArray {
		return nil
	}
	return v.elems
}

// Next returns the next sibling element, or nil.
func (v *Value) Next() *Value {
	if v == nil {
		return nil
	}
	return v.next
}

// FirstMember returns the first member of an object, or nil.
func (v *Value) FirstMember() *Member {
	if v.Type() != TypeObject {
		return nil
	}
	return v.members
}

// Where returns the span of the value's source text.
func (v *Value) Where() judoerr.Span {
	if v == nil {
		return judoerr.Span{}
	}
	return v.where
}

// Next returns the next member of the enclosing object, or nil.
func (m *Member) Next() *Member {
	if m == nil {
		return nil
	}
	return m.next
}

// Name returns the span of the member's name lexeme.
func (m *Member) Name() judoerr.Span {
	if m == nil {
		return judoerr.Span{}
	}
	return m.name
}

// Value returns the member's value.
func (m *Member) Value() *Value {
	if m == nil {
		return nil
	}
	return m.value
}
