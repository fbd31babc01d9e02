package judotree

import (
	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoscan"
)

// Options configures Parse.
type Options struct {
	// Dialect selects the grammar; the zero value is RFC 8259.
	Dialect judoscan.Dialect
	// Extensions opts into grammar additions.
	Extensions judoscan.Extensions
	// Allocator provides tree records. Nil selects the Go heap.
	Allocator Allocator
}

func (o *Options) allocator() Allocator {
	if o != nil && o.Allocator != nil {
		return o.Allocator
	}
	return heapAllocator{}
}

// frame tracks the array or object currently receiving children at one
// nesting level, with the tail of its child list for constant-time append.
type frame struct {
	collection  *Value
	elemsTail   *Value
	membersTail *Member
}

type builder struct {
	alloc Allocator
	root  *Value
	depth int32
	stack [judoscan.MaxDepth]frame
}

// Parse scans source to completion and builds the value tree. A negative
// length declares the source NUL terminated. On any failure the partial tree
// is released and the scanner's error is returned unchanged, except that an
// allocation failure reports out-of-memory with its own message.
func Parse(source []byte, length int32) (*Value, error) {
	return ParseWithOptions(source, length, nil)
}

// ParseWithOptions is like Parse but accepts configuration options.
func ParseWithOptions(source []byte, length int32, opts *Options) (*Value, error) {
	b := &builder{alloc: opts.allocator()}

	var stream judoscan.Stream
	if opts != nil {
		stream.Dialect = opts.Dialect
		stream.Extensions = opts.Extensions
	}

	for {
		if err := stream.Scan(source, length); err != nil {
			b.abandon()
			return nil, err
		}
		if err := b.process(&stream); err != nil {
			b.abandon()
			return nil, err
		}
		if stream.Token == judoscan.EOF {
			return b.root, nil
		}
	}
}

// abandon releases every record built so far. The scan result, not the free
// result, is what the caller sees.
func (b *builder) abandon() {
	_ = Free(b.root, b.alloc)
	b.root = nil
}

func (b *builder) outOfMemory(st *judoscan.Stream) error {
	return judoerr.New(judoerr.OutOfMemory, st.Where, "memory allocation failed")
}

// link attaches a completed value to the collection under construction. The
// first value linked becomes the root.
func (b *builder) link(v *Value) {
	if b.root == nil {
		b.root = v
	}
	if b.depth == 0 {
		return
	}
	top := &b.stack[b.depth-1]
	if top.collection.kind == TypeArray {
		array := top.collection
		if top.elemsTail == nil {
			array.elems = v
		} else {
			top.elemsTail.next = v
		}
		top.elemsTail = v
		array.count++
	} else {
		object := top.collection
		top.membersTail.value = v
		object.size++
	}
}

func (b *builder) newValue(st *judoscan.Stream, kind Type) (*Value, error) {
	v, err := b.alloc.NewValue()
	if err != nil || v == nil {
		return nil, b.outOfMemory(st)
	}
	*v = Value{kind: kind, where: st.Where}
	return v, nil
}

// process folds one semantic token into the tree.
func (b *builder) process(st *judoscan.Stream) error {
	switch st.Token {
	case judoscan.ArrayBegin, judoscan.ObjectBegin:
		kind := TypeArray
		if st.Token == judoscan.ObjectBegin {
			kind = TypeObject
		}
		v, err := b.newValue(st, kind)
		if err != nil {
			return err
		}
		b.link(v)
		b.stack[b.depth] = frame{collection: v}
		b.depth++

	case judoscan.ArrayEnd, judoscan.ObjectEnd:
		top := &b.stack[b.depth-1]
		top.collection.where.Length = (st.Where.Offset + st.Where.Length) - top.collection.where.Offset
		b.stack[b.depth-1] = frame{}
		b.depth--

	case judoscan.Null:
		return b.leaf(st, TypeNull, false)
	case judoscan.True:
		return b.leaf(st, TypeBool, true)
	case judoscan.False:
		return b.leaf(st, TypeBool, false)
	case judoscan.Number:
		return b.leaf(st, TypeNumber, false)
	case judoscan.String:
		return b.leaf(st, TypeString, false)

	case judoscan.ObjectName:
		m, err := b.alloc.NewMember()
		if err != nil || m == nil {
			return b.outOfMemory(st)
		}
		*m = Member{name: st.Where}
		top := &b.stack[b.depth-1]
		object := top.collection
		if object.members == nil {
			object.members = m
		} else {
			top.membersTail.next = m
		}
		top.membersTail = m

	case judoscan.EOF:
		// Nothing to build.
	}
	return nil
}

func (b *builder) leaf(st *judoscan.Stream, kind Type, boolean bool) error {
	v, err := b.newValue(st, kind)
	if err != nil {
		return err
	}
	v.boolean = boolean
	b.link(v)
	return nil
}

// Free releases an entire tree through the allocator without recursion: the
// traversal keeps its own fixed-size stack, bounded by the same MaxDepth the
// scanner enforced when the tree was built. Records are released parents
// first: an array or object is handed back before its elements or members,
// and a member before its value. The release order is not post-order.
// A nil allocator selects the Go heap. Passing a nil root is a no-op.
func Free(root *Value, alloc Allocator) error {
	if alloc == nil {
		alloc = heapAllocator{}
	}
	if root == nil {
		return nil
	}

	type freeFrame struct {
		value   *Value
		element *Value
		member  *Member
	}
	var stack [judoscan.MaxDepth]freeFrame

	depth := 1
	stack[0].value = root

	for depth > 0 {
		top := &stack[depth-1]
		switch {
		case top.element != nil:
			next := top.element.Next()
			if next == nil {
				top.value = top.element
			} else {
				stack[depth].value = top.element
				depth++
			}
			top.element = next

		case top.member != nil:
			m := top.member
			next := m.Next()
			if next == nil {
				top.value = m.Value()
			} else {
				stack[depth].value = m.Value()
				depth++
			}
			alloc.FreeMember(m)
			top.member = next

		case top.value == nil:
			depth--

		default:
			v := top.value
			*top = freeFrame{}
			depth--

			switch v.kind {
			case TypeNull, TypeString, TypeNumber, TypeBool:
				alloc.FreeValue(v)
			case TypeArray:
				if first := v.elems; first != nil {
					stack[depth].element = first
					depth++
				}
				alloc.FreeValue(v)
			case TypeObject:
				if m := v.members; m != nil {
					stack[depth].member = m
					depth++
				}
				alloc.FreeValue(v)
			default:
				return judoerr.New(judoerr.Malfunction, judoerr.Span{}, "corrupt value record")
			}
		}
	}
	return nil
}
