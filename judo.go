// Package judo is an embeddable JSON and JSON5 parser.
//
// The heavy lifting lives in the subpackages: judoscan pulls semantic tokens
// out of a byte buffer with bounded memory, judotree composes them into a
// value graph, judoscan.Stringify and judofloat.Numberify decode individual
// lexemes, and judoprint renders a tree back to text. This package offers
// the conveniences that tie them together.
package judo

import (
	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoscan"
	"github.com/railgunlabs/judo/judoutf8"
)

// Validate scans source to completion and reports the first error, without
// building a tree. A negative length declares the source NUL terminated.
func Validate(source []byte, length int32, dialect judoscan.Dialect, ext judoscan.Extensions) error {
	stream := judoscan.Stream{Dialect: dialect, Extensions: ext}
	for {
		if err := stream.Scan(source, length); err != nil {
			return err
		}
		if stream.Token == judoscan.EOF {
			return nil
		}
	}
}

// Location converts a byte offset into a 1-based line and column. Line
// terminators are LF, CR, CRLF (counted once), and the Unicode line and
// paragraph separators. The column counts code points, not grapheme
// clusters.
func Location(source []byte, offset int32) (line, column int) {
	line, column = 1, 1
	length := int32(len(source))

	at := int32(0)
	for at < offset {
		if at+1 < length && source[at] == '\r' && source[at+1] == '\n' {
			line++
			column = 1
			at += 2
			continue
		}

		cp, n := judoutf8.Decode(source, length, at)
		if n == 0 {
			// Malformed tail; count the byte and move on.
			column++
			at++
			continue
		}
		switch cp {
		case 0x000A, 0x000D, 0x2028, 0x2029:
			line++
			column = 1
		default:
			column++
		}
		at += n
	}
	return line, column
}

// SpanText returns the source text a span covers, clamped to the source.
func SpanText(source []byte, where judoerr.Span) []byte {
	begin := where.Offset
	end := where.Offset + where.Length
	if begin < 0 || end < begin || end > int32(len(source)) {
		return nil
	}
	return source[begin:end]
}
