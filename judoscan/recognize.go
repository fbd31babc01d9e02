package judoscan

import (
	"github.com/railgunlabs/judo/judoutf8"
)

// match reports whether the lexeme bytes equal the literal. The string
// conversion compiles to a comparison, not an allocation.
func match(lexeme []byte, literal string) bool {
	return string(lexeme) == literal
}

func isHighSurrogate(cp rune) bool {
	return cp >= 0xD800 && cp <= 0xDBFF
}

func isLowSurrogate(cp rune) bool {
	return cp >= 0xDC00 && cp <= 0xDFFF
}

// hexValue accumulates the scalar value of a run of hex digits. The digits
// must already be validated.
func hexValue(digits []byte) rune {
	var cp rune
	for _, c := range digits {
		var digit rune
		switch {
		case c <= '9':
			digit = rune(c - '0')
		case c <= 'F':
			digit = rune(c-'A') + 10
		default:
			digit = rune(c-'a') + 10
		}
		cp = cp*16 + digit
	}
	return cp
}

// newlineWidth reports the byte width of a line terminator at cursor,
// treating CRLF as a single two-byte terminator, or zero if none is present.
func newlineWidth(src []byte, length, cursor int32) int32 {
	if judoutf8.Bounded(src, length, cursor, 2) &&
		src[cursor] == '\r' && src[cursor+1] == '\n' {
		return 2
	}
	if judoutf8.Bounded(src, length, cursor, 1) {
		cp, n := judoutf8.Decode(src, length, cursor)
		switch cp {
		case 0x000A, 0x000D, 0x2028, 0x2029:
			return n
		}
	}
	return 0
}

func (sc *scanner) isNewline(cursor int32) int32 {
	return newlineWidth(sc.src, sc.length, cursor)
}

func (sc *scanner) isStarter(cp rune) bool {
	if sc.stream.Dialect == JSON5 {
		return judoutf8.Flags(cp)&judoutf8.FlagIDStart != 0
	}
	return judoutf8.IsAlpha(cp)
}

func (sc *scanner) isContinue(cp rune) bool {
	if sc.stream.Dialect == JSON5 {
		return judoutf8.Flags(cp)&judoutf8.FlagIDExtend != 0
	}
	return judoutf8.IsAlpha(cp) || judoutf8.IsDigit(cp)
}

func (sc *scanner) isSpace(cp rune) bool {
	if sc.stream.Dialect == JSON5 {
		return judoutf8.IsJSON5Space(cp)
	}
	return judoutf8.IsJSONSpace(cp)
}

func (sc *scanner) scanNumber(tok *token) error {
	if sc.stream.Dialect == JSON5 {
		return sc.scanNumberJSON5(tok)
	}
	return sc.scanNumberStrict(tok)
}

// scanNumberStrict recognizes the RFC grammar: an optional minus sign, an
// integer part without leading zeros, an optional non-empty fraction, and an
// optional non-empty exponent.
func (sc *scanner) scanNumberStrict(tok *token) error {
	index := sc.at

	if sc.src[index] == '-' {
		index++
	}

	cp, _ := judoutf8.Decode(sc.src, sc.length, index)
	if !judoutf8.IsDigit(cp) {
		return sc.badSyntax(index, 1, "expected number")
	}
	index++
	firstDigit := cp
	digits := 1
	for {
		cp, _ = judoutf8.Decode(sc.src, sc.length, index)
		if !judoutf8.IsDigit(cp) {
			break
		}
		index++
		digits++
	}
	if digits > 1 && firstDigit == '0' {
		return sc.badSyntax(sc.at, index-sc.at, "illegal octal number")
	}

	if cp == '.' {
		index++
		digits = 0
		for {
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
			if !judoutf8.IsDigit(cp) {
				break
			}
			index++
			digits++
		}
		if digits == 0 {
			return sc.badSyntax(sc.at, index-sc.at, "expected fractional part")
		}
	}

	if cp == 'e' || cp == 'E' {
		index++
		cp, _ = judoutf8.Decode(sc.src, sc.length, index)
		if cp == '+' || cp == '-' {
			index++
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
		}
		if !judoutf8.IsDigit(cp) {
			return sc.badSyntax(index, 1, "missing exponent")
		}
		for {
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
			if !judoutf8.IsDigit(cp) {
				break
			}
			index++
		}
	}

	tok.tag = tokNumber
	tok.length = index - sc.at
	return nil
}

// scanNumberJSON5 recognizes the JSON5 grammar: either sign, hexadecimal
// integers, NaN and Infinity, and numbers that begin or end with a decimal
// point.
func (sc *scanner) scanNumberJSON5(tok *token) error {
	index := sc.at
	var sign rune
	hasDecimal := false

	switch sc.src[index] {
	case '-':
		sign = '-'
		index++
	case '+':
		sign = '+'
		index++
	}

	cp, _ := judoutf8.Decode(sc.src, sc.length, index)
	switch {
	case judoutf8.IsDigit(cp):
		if judoutf8.Bounded(sc.src, sc.length, index, 2) &&
			sc.src[index] == '0' && (sc.src[index+1] == 'x' || sc.src[index+1] == 'X') {
			index += 2
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
			if !judoutf8.IsXDigit(cp) {
				return sc.badSyntax(index, 1, "expected hexadecimal number")
			}
			for {
				cp, _ = judoutf8.Decode(sc.src, sc.length, index)
				if !judoutf8.IsXDigit(cp) {
					break
				}
				index++
			}
			tok.tag = tokNumber
			tok.length = index - sc.at
			return nil
		}

		index++
		firstDigit := cp
		digits := 1
		for {
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
			if !judoutf8.IsDigit(cp) {
				break
			}
			index++
			digits++
		}
		if digits > 1 && firstDigit == '0' {
			return sc.badSyntax(sc.at, index-sc.at, "illegal octal number")
		}

	case judoutf8.IsAlpha(cp):
		// A signed NaN or Infinity reaches this recognizer through its
		// leading sign.
		idStart := index
		for {
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
			if !judoutf8.IsAlpha(cp) {
				break
			}
			index++
		}
		lexeme := sc.src[idStart:index]
		if !match(lexeme, "NaN") && !match(lexeme, "Infinity") {
			return sc.badSyntax(idStart, index-idStart, "expected NaN or Infinity")
		}
		tok.tag = tokNumber
		tok.length = index - sc.at
		return nil
	}

	if cp == '.' {
		hasDecimal = true
		index++
		for {
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
			if !judoutf8.IsDigit(cp) {
				break
			}
			index++
		}
	}

	// A sign or a decimal point alone is not a number.
	digitCount := index - sc.at
	if sign != 0 {
		digitCount--
	}
	if hasDecimal {
		digitCount--
	}
	if digitCount == 0 {
		return sc.badSyntax(index, 1, "expected number")
	}

	if cp == 'e' || cp == 'E' {
		index++
		cp, _ = judoutf8.Decode(sc.src, sc.length, index)
		if cp == '+' || cp == '-' {
			index++
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
		}
		if !judoutf8.IsDigit(cp) {
			return sc.badSyntax(index, 1, "missing exponent")
		}
		for {
			cp, _ = judoutf8.Decode(sc.src, sc.length, index)
			if !judoutf8.IsDigit(cp) {
				break
			}
			index++
		}
	}

	tok.tag = tokNumber
	tok.length = index - sc.at
	return nil
}

// scanString validates a string literal without materializing its value;
// Stringify decodes a validated lexeme on demand.
func (sc *scanner) scanString(tok *token) error {
	quote := sc.src[sc.at]
	index := sc.at + 1
	json5 := sc.stream.Dialect == JSON5

scan:
	for judoutf8.Bounded(sc.src, sc.length, index, 1) {
		b := sc.src[index]
		switch {
		case b <= 0x1F:
			return sc.badSyntax(index, 1, "unescaped control character")

		case b == '\\':
			escStart := index
			index++
			if !judoutf8.Bounded(sc.src, sc.length, index, 1) {
				break scan
			}

			if json5 {
				// A backslash before a line terminator continues the
				// string on the next line.
				if n := sc.isNewline(index); n >= 1 {
					index += n
					continue
				}
			}

			var digits [4]byte
			digitCount := int32(0)

			c := sc.src[index]
			switch {
			case c == '"' || c == '\\' || c == '/' || c == 'b' ||
				c == 'f' || c == 'n' || c == 'r' || c == 't':
				index++

			case json5 && (c == '\'' || c == 'v' || c == '0'):
				index++

			case json5 && c == 'x':
				index++
				for judoutf8.Bounded(sc.src, sc.length, index, 1) {
					if digitCount == 2 || !judoutf8.IsXDigit(rune(sc.src[index])) {
						break
					}
					digitCount++
					index++
				}
				if digitCount < 2 {
					return sc.badSyntax(escStart, index-escStart, "expected two hex digits")
				}

			case c == 'u':
				index++
				for judoutf8.Bounded(sc.src, sc.length, index, 1) {
					if digitCount == 4 || !judoutf8.IsXDigit(rune(sc.src[index])) {
						break
					}
					digits[digitCount] = sc.src[index]
					digitCount++
					index++
				}
				if digitCount < 4 {
					return sc.badSyntax(escStart, index-escStart, "expected four hex digits")
				}

				cp := hexValue(digits[:])
				if isHighSurrogate(cp) {
					escEnd := index
					digitCount = 0

					// The high surrogate must be immediately followed by a
					// second escape carrying the low surrogate.
					if judoutf8.Bounded(sc.src, sc.length, index, 6) &&
						sc.src[index] == '\\' && sc.src[index+1] == 'u' {
						index += 2
						for digitCount < 4 && judoutf8.IsXDigit(rune(sc.src[index])) {
							digits[digitCount] = sc.src[index]
							digitCount++
							index++
						}
						if digitCount == 4 {
							cp = hexValue(digits[:])
						}
					}
					if !isLowSurrogate(cp) {
						return sc.badSyntax(escStart, escEnd-escStart, "unmatched surrogate pair")
					}
				} else if isLowSurrogate(cp) {
					return sc.badSyntax(escStart, index-escStart, "unmatched surrogate pair")
				}

			default:
				_, n := judoutf8.Decode(sc.src, sc.length, index)
				index += n
				return sc.badSyntax(escStart, index-escStart, "invalid escape sequence")
			}

		case b == quote:
			index++
			tok.tag = tokString
			tok.length = index - sc.at
			return nil

		default:
			cp, n := judoutf8.Decode(sc.src, sc.length, index)
			if cp == judoutf8.BadEncoding {
				return sc.badEncoding(index, 1)
			}
			if cp == judoutf8.InputTooLarge {
				return sc.stream.badInputSize()
			}
			index += n
		}
	}

	return sc.badSyntax(sc.at, 1, "unclosed string")
}

// scanKeyword recognizes the literals null, true, and false, plus NaN and
// Infinity in JSON5 where they are number tokens. An unrecognized run leaves
// the token invalid for the identifier recognizer or the caller to handle.
func (sc *scanner) scanKeyword(tok *token) {
	index := sc.at

	cp, n := judoutf8.Decode(sc.src, sc.length, index)
	if !sc.isStarter(cp) {
		return
	}
	index += n
	for {
		cp, n = judoutf8.Decode(sc.src, sc.length, index)
		if !sc.isContinue(cp) {
			break
		}
		index += n
	}

	lexeme := sc.src[sc.at:index]
	switch {
	case match(lexeme, "null"):
		tok.tag = tokNull
		tok.length = index - sc.at
	case match(lexeme, "true"):
		tok.tag = tokTrue
		tok.length = index - sc.at
	case match(lexeme, "false"):
		tok.tag = tokFalse
		tok.length = index - sc.at
	case sc.stream.Dialect == JSON5 && (match(lexeme, "NaN") || match(lexeme, "Infinity")):
		tok.tag = tokNumber
		tok.length = index - sc.at
	}
}

// reservedWords is the ECMAScript 5.1 Keyword and FutureReservedWord
// (including strict mode) sets that may not be used as JSON5 object keys.
// null, true, and false are not listed: scanKeyword claims them first.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true,
	"typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// scanUnicodeEscape validates a \uHHHH escape inside a JSON5 identifier.
func (sc *scanner) scanUnicodeEscape(cursor int32) error {
	index := cursor + 1 // skip the backslash

	if !judoutf8.Bounded(sc.src, sc.length, index, 5) {
		return sc.badSyntax(cursor, 1, "expected Unicode escape sequence")
	}
	if sc.src[index] != 'u' {
		return sc.badSyntax(cursor, 2, "expected 'u' after backslash")
	}
	index++

	digits := int32(0)
	for digits < 4 && judoutf8.IsXDigit(rune(sc.src[index])) {
		digits++
		index++
	}
	if digits < 4 {
		return sc.badSyntax(cursor, index-cursor, "expected four hex digits")
	}
	return nil
}

// scanES5Identifier recognizes a JSON5 object key written as an ECMAScript
// 5.1 IdentifierName. Unicode escapes may appear anywhere in the name.
func (sc *scanner) scanES5Identifier(tok *token) error {
	index := sc.at

	cp, n := judoutf8.Decode(sc.src, sc.length, index)
	if !sc.isStarter(cp) && cp != '\\' {
		return nil
	}
	if cp == '\\' {
		if err := sc.scanUnicodeEscape(index); err != nil {
			return err
		}
		n = 6
	}
	index += n

	for {
		cp, n = judoutf8.Decode(sc.src, sc.length, index)
		if cp == '\\' {
			if err := sc.scanUnicodeEscape(index); err != nil {
				return err
			}
			n = 6
		} else if !sc.isContinue(cp) {
			break
		}
		index += n
	}

	length := index - sc.at
	if reservedWords[string(sc.src[sc.at:index])] {
		return sc.badSyntax(sc.at, length, "reserved word")
	}
	tok.tag = tokIdentifier
	tok.length = length
	return nil
}

// scanComment consumes a line comment up to, but not through, the next line
// terminator. A malformed byte or the end of input stops the comment and is
// left for the main tokenizer to report.
func (sc *scanner) scanComment() int32 {
	index := sc.at + 2 // skip the two slashes

	for sc.isNewline(index) == 0 {
		_, n := judoutf8.Decode(sc.src, sc.length, index)
		if n == 0 {
			break
		}
		index += n
	}
	return index - sc.at
}

// scanMultilineComment consumes a block comment through its closing */.
func (sc *scanner) scanMultilineComment() (int32, error) {
	index := sc.at + 2 // skip the slash and star
	var cp rune
	count := int32(0)

	for {
		if judoutf8.Bounded(sc.src, sc.length, index, 2) &&
			sc.src[index] == '*' && sc.src[index+1] == '/' {
			index += 2
			count = index - sc.at
			break
		}

		var n int32
		cp, n = judoutf8.Decode(sc.src, sc.length, index)
		index += n
		if n == 0 {
			break
		}
	}

	switch {
	case cp == judoutf8.BadEncoding:
		return 0, sc.badEncoding(index, 1)
	case cp == judoutf8.InputTooLarge:
		return 0, sc.stream.badInputSize()
	case count == 0:
		return 0, sc.badSyntax(sc.at, 2, "unterminated multi-line comment")
	}
	return count, nil
}
