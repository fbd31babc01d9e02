package judoscan

import (
	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoutf8"
)

// The surrogate decode constant folds the UTF-16 formula
// (high-0xD800)<<10 + (low-0xDC00) + 0x10000 into a single wrapping
// 32-bit addition.
const surrogateOffset uint32 = 0xFCA02400

// byteBuf counts every byte the decoded string needs while writing only
// those that fit the destination.
type byteBuf struct {
	written int32
	length  int32
	dest    []byte
}

func (b *byteBuf) write(cp rune) {
	var tmp [4]byte
	n := judoutf8.Encode(cp, tmp[:])
	if b.length+n <= int32(len(b.dest)) {
		copy(b.dest[b.length:], tmp[:n])
		b.written += n
	}
	b.length += n
}

// Stringify decodes an already-validated string lexeme, resolving every
// escape sequence, into unescaped UTF-8 bytes in buf. The lexeme must be the
// exact slice a Stream reported for a String or ObjectName token, including
// its quotes; in JSON5 it may also be a bare identifier, whose only escapes
// are \uHHHH.
//
// A nil buf queries the required size: nothing is written and the byte count
// the decoded form needs is returned. Otherwise up to len(buf) bytes are
// written; if the decoded form needs more, the count of bytes actually
// written is returned with a no-buffer-space error.
//
// Escapes the scanner would have rejected make Stringify report a
// malfunction, since the lexeme cannot have come from a successful scan.
func Stringify(lexeme []byte, dialect Dialect, buf []byte) (int32, error) {
	if len(lexeme) == 0 {
		return 0, judoerr.New(judoerr.InvalidOperation, judoerr.Span{}, "empty lexeme")
	}

	out := byteBuf{dest: buf}
	length := int32(len(lexeme))

	var err error
	if dialect == JSON5 && lexeme[0] != '"' && lexeme[0] != '\'' {
		err = stringifyIdentifier(lexeme, length, &out)
	} else {
		err = stringifyQuoted(lexeme, length, dialect, &out)
	}
	if err != nil {
		return 0, err
	}

	if buf == nil {
		return out.length, nil
	}
	if out.length > int32(len(buf)) {
		span := judoerr.Span{}
		return out.written, judoerr.New(judoerr.NoBufferSpace, span, "buffer too small")
	}
	return out.written, nil
}

func malfunction() error {
	return judoerr.New(judoerr.Malfunction, judoerr.Span{}, "corrupt string lexeme")
}

func stringifyQuoted(lexeme []byte, length int32, dialect Dialect, out *byteBuf) error {
	json5 := dialect == JSON5
	index := int32(1)
	stop := length - 1

	for index < stop {
		if lexeme[index] != '\\' {
			cp, n := judoutf8.Decode(lexeme, length, index)
			if n == 0 {
				return malfunction()
			}
			out.write(cp)
			index += n
			continue
		}
		index++ // skip the backslash

		if json5 {
			if n := newlineWidth(lexeme, length, index); n >= 1 {
				index += n
				continue
			}
		}
		if index >= stop {
			return malfunction()
		}

		c := lexeme[index]
		index++
		switch {
		case c == '"':
			out.write('"')
		case c == '\\':
			out.write('\\')
		case c == '/':
			out.write('/')
		case c == 'b':
			out.write('\b')
		case c == 'f':
			out.write('\f')
		case c == 'n':
			out.write('\n')
		case c == 'r':
			out.write('\r')
		case c == 't':
			out.write('\t')
		case json5 && c == '\'':
			out.write('\'')
		case json5 && c == 'v':
			out.write('\v')
		case json5 && c == '0':
			out.write(0)
		case json5 && c == 'x':
			if index+2 > stop {
				return malfunction()
			}
			out.write(hexValue(lexeme[index : index+2]))
			index += 2
		case c == 'u':
			if index+4 > stop {
				return malfunction()
			}
			cp := hexValue(lexeme[index : index+4])
			index += 4

			if isHighSurrogate(cp) {
				// The scanner guarantees a low surrogate escape follows.
				index += 2 // skip the backslash and 'u'
				if index+4 > stop {
					return malfunction()
				}
				low := hexValue(lexeme[index : index+4])
				index += 4
				cp = rune(uint32(cp)<<10 + uint32(low) + surrogateOffset)
			}
			out.write(cp)
		default:
			return malfunction()
		}
	}
	return nil
}

// stringifyIdentifier decodes a bare JSON5 identifier lexeme, where the only
// possible escape is \uHHHH.
func stringifyIdentifier(lexeme []byte, length int32, out *byteBuf) error {
	index := int32(0)
	for index < length {
		if lexeme[index] == '\\' {
			if index+6 > length || lexeme[index+1] != 'u' {
				return malfunction()
			}
			out.write(hexValue(lexeme[index+2 : index+6]))
			index += 6
			continue
		}
		cp, n := judoutf8.Decode(lexeme, length, index)
		if n == 0 {
			return malfunction()
		}
		out.write(cp)
		index += n
	}
	return nil
}
