// Package judofloat converts validated number lexemes into host floats.
//
// The conversion is locale independent by construction: it never consults
// the C locale or strconv's general-purpose parsing, both of which accept
// forms the JSON grammars forbid (hex floats, underscores, "inf") and reject
// forms JSON5 requires (bare Infinity, hexadecimal integers, leading '+').
// The accumulation algorithm is sequential multiply-add with a decimal
// exponent counter, matching the scanner's grammar exactly.
package judofloat

import (
	"math"

	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoscan"
)

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Numberify parses a number lexeme previously validated by the scanner into
// a float64. The lexeme must be the exact slice a Stream reported for a
// Number token, and dialect must match the stream's dialect: JSON5 enables
// NaN, Infinity, hexadecimal integers, and the '+' sign.
//
// A value too large for a float64 is reported as out of range; the returned
// float is then infinite with the lexeme's sign.
func Numberify(lexeme []byte, dialect judoscan.Dialect) (float64, error) {
	if len(lexeme) == 0 {
		return 0, judoerr.New(judoerr.InvalidOperation, judoerr.Span{}, "empty lexeme")
	}

	if dialect == judoscan.JSON5 {
		sign := 1.0
		rest := lexeme
		switch lexeme[0] {
		case '-':
			sign = -1.0
			rest = lexeme[1:]
		case '+':
			rest = lexeme[1:]
		}

		switch {
		case string(rest) == "NaN":
			// The sign of a NaN is not observable; it is dropped.
			return math.NaN(), nil
		case string(rest) == "Infinity":
			return sign * math.Inf(1), nil
		case len(rest) >= 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X'):
			return hexToFloat(rest[2:], sign)
		}
	}

	return decimalToFloat(lexeme)
}

// hexToFloat accumulates hexadecimal digits into a float.
func hexToFloat(digits []byte, sign float64) (float64, error) {
	value := 0.0
	for _, c := range digits {
		var digit int
		switch {
		case c <= '9':
			digit = int(c - '0')
		case c <= 'F':
			digit = int(c-'A') + 10
		default:
			digit = int(c-'a') + 10
		}
		value = value*16.0 + float64(digit)
	}
	if math.IsInf(value, 0) {
		return sign * value, judoerr.New(judoerr.OutOfRange, judoerr.Span{}, "number out of range")
	}
	return sign * value, nil
}

// decimalToFloat accumulates decimal digits while tracking a base-10
// exponent for the fractional part, then folds in any explicit exponent and
// scales the result one decade at a time.
func decimalToFloat(lexeme []byte) (float64, error) {
	value := 0.0
	sign := 1.0
	exponent := 0
	i := 0

	if i < len(lexeme) && (lexeme[i] == '+' || lexeme[i] == '-') {
		if lexeme[i] == '-' {
			sign = -1.0
		}
		i++
	}

	var c byte
	for i < len(lexeme) {
		c = lexeme[i]
		i++
		if !isDigit(c) {
			break
		}
		value = value*10.0 + float64(c-'0')
	}

	if c == '.' {
		for i < len(lexeme) {
			c = lexeme[i]
			i++
			if !isDigit(c) {
				break
			}
			value = value*10.0 + float64(c-'0')
			exponent--
		}
	}

	if c == 'e' || c == 'E' {
		expSign := 1
		expValue := 0
		if i < len(lexeme) && (lexeme[i] == '+' || lexeme[i] == '-') {
			if lexeme[i] == '-' {
				expSign = -1
			}
			i++
		}
		for i < len(lexeme) {
			expValue = expValue*10 + int(lexeme[i]-'0')
			i++
		}
		exponent += expValue * expSign
	}

	for exponent > 0 {
		value *= 10.0
		exponent--
	}
	for exponent < 0 {
		value *= 0.1
		exponent++
	}

	if math.IsInf(value, 0) {
		return sign * value, judoerr.New(judoerr.OutOfRange, judoerr.Span{}, "number out of range")
	}
	return sign * value, nil
}
