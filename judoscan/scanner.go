// Package judoscan implements a pull scanner for JSON, JSON5, and the
// comment/trailing-comma extensions. The scanner is non-recursive: structural
// context lives in a fixed-size state stack inside the Stream handle, so a
// handle never allocates and nesting is bounded by MaxDepth.
//
// Each Scan call advances the stream by exactly one semantic token. The call
// sequence forms a lazy token sequence terminated by EOF:
//
//	var stream judoscan.Stream
//	for {
//		if err := stream.Scan(source, int32(len(source))); err != nil {
//			// stream.Where spans the failure; err carries the message
//			break
//		}
//		if stream.Token == judoscan.EOF {
//			break
//		}
//		// stream.Token and stream.Where describe the current token
//	}
//
// Input errors latch: once a stream reports bad syntax, an encoding failure,
// or a nesting overflow, every further Scan call returns the same error with
// the same span without moving the cursor.
package judoscan

import (
	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoutf8"
)

// Structural states, one per stack slot. The zero value of a slot is
// stateRootValue so a zero Stream is ready to scan.
const (
	stateRootValue int8 = iota
	stateFinishedValue
	stateArrayElemOrEnd
	stateFinishedArrayElem
	stateObjectKeyOrEnd
	stateObjectValue
	stateFinishedObjectValue
	stateParsingError
	stateEncodingError
	stateMaxNestingError
	stateFinished
)

// Stream is a scanner handle. The zero value scans RFC 8259 input from the
// start of the source; set Dialect and Extensions before the first Scan call
// to change the grammar. A Stream must not be shared between goroutines,
// but any number of independent Streams may scan the same read-only source.
type Stream struct {
	// Where spans the most recent token or error.
	Where judoerr.Span
	// Token is the most recent semantic token.
	Token Token
	// Dialect selects the grammar. It must not change once scanning begins.
	Dialect Dialect
	// Extensions opts into grammar additions. Forbidden with RFC4627.
	Extensions Extensions

	at    int32
	stack int32
	state [MaxDepth]int8
	code  judoerr.Result
	msg   string
}

// Message returns the most recent error message, or the empty string. The
// message is one of the stable byte strings in the package documentation and
// never exceeds judoerr.ErrMax-1 bytes.
func (s *Stream) Message() string {
	return s.msg
}

// scanner is the per-call view of a Stream bound to its source buffer.
type scanner struct {
	stream *Stream
	src    []byte
	length int32
	at     int32
}

func (sc *scanner) badSyntax(cursor, length int32, msg string) error {
	st := sc.stream
	st.Where = judoerr.Span{Offset: cursor, Length: length}
	st.Token = Invalid
	st.state[st.stack] = stateParsingError
	st.code = judoerr.BadSyntax
	st.msg = msg
	return judoerr.New(st.code, st.Where, msg)
}

func (sc *scanner) badEncoding(cursor, length int32) error {
	st := sc.stream
	st.Where = judoerr.Span{Offset: cursor, Length: length}
	st.Token = Invalid
	st.state[st.stack] = stateEncodingError
	st.code = judoerr.IllegalByteSequence
	st.msg = "malformed encoded character"
	return judoerr.New(st.code, st.Where, st.msg)
}

func (s *Stream) badInputSize() error {
	s.Where = judoerr.Span{Offset: judoutf8.MaxInputSize, Length: 0}
	s.Token = Invalid
	s.state[s.stack] = stateEncodingError
	s.code = judoerr.InputTooLarge
	s.msg = "maximum input size exceeded"
	return judoerr.New(s.code, s.Where, s.msg)
}

func (sc *scanner) maxNesting() error {
	st := sc.stream
	st.Where = judoerr.Span{Offset: sc.at, Length: 1}
	st.Token = Invalid
	st.state[st.stack] = stateMaxNestingError
	st.code = judoerr.MaximumNesting
	st.msg = "maximum nesting depth exceeded"
	return judoerr.New(st.code, st.Where, st.msg)
}

// consumeSpaceAndComments advances the cursor past insignificant whitespace
// and, when the grammar permits them, comments.
func (sc *scanner) consumeSpaceAndComments() error {
	comments := sc.stream.Dialect.comments(sc.stream.Extensions)
	for {
		cp, n := judoutf8.Decode(sc.src, sc.length, sc.at)
		if !sc.isSpace(cp) {
			n = 0
			if comments && judoutf8.Bounded(sc.src, sc.length, sc.at, 2) && sc.src[sc.at] == '/' {
				switch sc.src[sc.at+1] {
				case '/':
					n = sc.scanComment()
				case '*':
					var err error
					n, err = sc.scanMultilineComment()
					if err != nil {
						return err
					}
				}
			}
		}
		if n == 0 {
			return nil
		}
		sc.at += n
	}
}

// peek recognizes the next primitive token without consuming it.
func (sc *scanner) peek(tok *token) error {
	*tok = token{}
	if err := sc.consumeSpaceAndComments(); err != nil {
		return err
	}

	tok.tag = tokInvalid
	tok.lexeme = sc.at

	json5 := sc.stream.Dialect == JSON5
	cp, n := judoutf8.Decode(sc.src, sc.length, sc.at)
	switch {
	case cp == judoutf8.BadEncoding:
		return sc.badEncoding(sc.at, 1)

	case cp == judoutf8.InputTooLarge:
		return sc.stream.badInputSize()

	case cp == 0:
		if n > 0 {
			return sc.badSyntax(sc.at, 1, "unexpected null byte")
		}
		tok.tag = tokEOF

	case cp == '-' || judoutf8.IsDigit(cp) || (json5 && (cp == '.' || cp == '+')):
		return sc.scanNumber(tok)

	case cp == '"' || (json5 && cp == '\''):
		return sc.scanString(tok)

	case cp == ',':
		tok.tag = tokComma
		tok.length = 1

	case cp == ':':
		tok.tag = tokColon
		tok.length = 1

	case cp == '[':
		tok.tag = tokLBracket
		tok.length = 1

	case cp == ']':
		tok.tag = tokRBracket
		tok.length = 1

	case cp == '{':
		tok.tag = tokLBrace
		tok.length = 1

	case cp == '}':
		tok.tag = tokRBrace
		tok.length = 1

	default:
		sc.scanKeyword(tok)
		if json5 && tok.tag == tokInvalid {
			if err := sc.scanES5Identifier(tok); err != nil {
				return err
			}
		}
		if tok.tag == tokInvalid {
			return sc.badSyntax(sc.at, n, "unrecognized token")
		}
	}
	return nil
}

// accept consumes the next token if it has the given tag.
func (sc *scanner) accept(tag tokenTag) (bool, error) {
	var tok token
	if err := sc.peek(&tok); err != nil {
		return false, err
	}
	if tok.tag == tag {
		sc.at += tok.length
		return true, nil
	}
	return false, nil
}

func (sc *scanner) eat(tok *token) {
	sc.at += tok.length
}

// emit consumes tok, publishes it as the semantic token kind, and moves the
// current stack slot to the next state.
func (sc *scanner) emit(tok *token, kind Token, next int8) {
	sc.eat(tok)
	sc.stream.Where = judoerr.Span{Offset: tok.lexeme, Length: tok.length}
	sc.stream.Token = kind
	sc.stream.state[sc.stream.stack] = next
}

// parseValue reserves a stack slot for the next value and dispatches on its
// first token. msg is the syntax error to report when no value is present.
func (sc *scanner) parseValue(msg string) error {
	st := sc.stream
	if st.stack >= MaxDepth-1 {
		return sc.maxNesting()
	}
	st.stack++

	var tok token
	if err := sc.peek(&tok); err != nil {
		return err
	}
	switch tok.tag {
	case tokNull:
		sc.emit(&tok, Null, stateFinishedValue)
	case tokTrue:
		sc.emit(&tok, True, stateFinishedValue)
	case tokFalse:
		sc.emit(&tok, False, stateFinishedValue)
	case tokNumber:
		sc.emit(&tok, Number, stateFinishedValue)
	case tokString:
		sc.emit(&tok, String, stateFinishedValue)
	case tokLBracket:
		sc.emit(&tok, ArrayBegin, stateArrayElemOrEnd)
	case tokLBrace:
		sc.emit(&tok, ObjectBegin, stateObjectKeyOrEnd)
	default:
		return sc.badSyntax(sc.at, 1, msg)
	}
	return nil
}

// parseRoot handles the first token of the document. A UTF-8 byte order
// mark is skipped once; RFC 4627 restricts the root to arrays and objects.
func (sc *scanner) parseRoot() error {
	if judoutf8.Bounded(sc.src, sc.length, sc.at, 3) &&
		sc.src[sc.at] == 0xEF && sc.src[sc.at+1] == 0xBB && sc.src[sc.at+2] == 0xBF {
		sc.at += 3
	}

	var tok token
	if err := sc.peek(&tok); err != nil {
		return err
	}
	scalar := sc.stream.Dialect != RFC4627
	switch {
	case tok.tag == tokLBracket:
		sc.emit(&tok, ArrayBegin, stateArrayElemOrEnd)
	case tok.tag == tokLBrace:
		sc.emit(&tok, ObjectBegin, stateObjectKeyOrEnd)
	case scalar && tok.tag == tokNull:
		sc.emit(&tok, Null, stateFinishedValue)
	case scalar && tok.tag == tokTrue:
		sc.emit(&tok, True, stateFinishedValue)
	case scalar && tok.tag == tokFalse:
		sc.emit(&tok, False, stateFinishedValue)
	case scalar && tok.tag == tokNumber:
		sc.emit(&tok, Number, stateFinishedValue)
	case scalar && tok.tag == tokString:
		sc.emit(&tok, String, stateFinishedValue)
	default:
		return sc.badSyntax(0, 0, "expected root value")
	}
	return nil
}

func (sc *scanner) parseArrayElement() error {
	sc.stream.state[sc.stream.stack] = stateFinishedArrayElem
	return sc.parseValue("expected value")
}

func (sc *scanner) arrayElemOrEnd() error {
	var tok token
	if err := sc.peek(&tok); err != nil {
		return err
	}
	if tok.tag == tokRBracket {
		sc.emit(&tok, ArrayEnd, stateFinishedValue)
		return nil
	}
	return sc.parseArrayElement()
}

func (sc *scanner) finishedArrayElem() error {
	var tok token
	if err := sc.peek(&tok); err != nil {
		return err
	}
	switch tok.tag {
	case tokComma:
		sc.eat(&tok)
		if sc.stream.Dialect.trailingCommas(sc.stream.Extensions) {
			return sc.arrayElemOrEnd()
		}
		return sc.parseArrayElement()
	case tokRBracket:
		sc.emit(&tok, ArrayEnd, stateFinishedValue)
		return nil
	default:
		return sc.badSyntax(sc.at, 1, "expected ']' or ','")
	}
}

func (sc *scanner) parseObjectKey(tok *token) error {
	switch {
	case tok.tag == tokString:
		sc.emit(tok, ObjectName, stateObjectValue)
	case sc.stream.Dialect == JSON5 && tok.tag == tokIdentifier:
		sc.emit(tok, ObjectName, stateObjectValue)
	default:
		return sc.badSyntax(sc.at, 1, "expected '}' or string")
	}
	return nil
}

func (sc *scanner) objectKeyOrEnd() error {
	var tok token
	if err := sc.peek(&tok); err != nil {
		return err
	}
	if tok.tag == tokRBrace {
		sc.emit(&tok, ObjectEnd, stateFinishedValue)
		return nil
	}
	return sc.parseObjectKey(&tok)
}

func (sc *scanner) objectValue() error {
	accepted, err := sc.accept(tokColon)
	if err != nil {
		return err
	}
	if !accepted {
		return sc.badSyntax(sc.at, 1, "expected ':'")
	}
	sc.stream.state[sc.stream.stack] = stateFinishedObjectValue
	return sc.parseValue("expected value after ':'")
}

func (sc *scanner) finishedObjectValue() error {
	var tok token
	if err := sc.peek(&tok); err != nil {
		return err
	}
	switch tok.tag {
	case tokComma:
		sc.eat(&tok)
		if sc.stream.Dialect.trailingCommas(sc.stream.Extensions) {
			return sc.objectKeyOrEnd()
		}
		if err := sc.peek(&tok); err != nil {
			return err
		}
		return sc.parseObjectKey(&tok)
	case tokRBrace:
		sc.emit(&tok, ObjectEnd, stateFinishedValue)
		return nil
	default:
		return sc.badSyntax(sc.at, 1, "expected '}' or ','")
	}
}

// Scan advances the stream by one semantic token over source. A negative
// length declares the source NUL terminated; otherwise length must not
// exceed len(source). On success the stream's Token and Where describe the
// token; EOF marks the end of the sequence. On failure the returned error is
// a *judoerr.Error whose span and message identify the first failure, and
// input errors are latched: subsequent calls repeat the same error without
// advancing.
func (s *Stream) Scan(source []byte, length int32) error {
	if source == nil {
		return judoerr.New(judoerr.InvalidOperation, judoerr.Span{}, "source is nil")
	}
	if s.Dialect == RFC4627 && s.Extensions != 0 {
		return judoerr.New(judoerr.InvalidOperation, judoerr.Span{}, "extensions forbidden by RFC 4627")
	}
	if length >= judoutf8.MaxInputSize {
		return s.badInputSize()
	}
	if length >= 0 && int(length) > len(source) {
		return judoerr.New(judoerr.InvalidOperation, judoerr.Span{}, "length exceeds source")
	}

	sc := scanner{stream: s, src: source, length: length, at: s.at}

	// A finished value pops its frame before dispatch so the switch below
	// always operates on an unfinished value. At the root there is no frame
	// to pop; the document must end here.
	if s.state[s.stack] == stateFinishedValue {
		if s.stack == 0 {
			var tok token
			err := sc.peek(&tok)
			if err == nil {
				if tok.tag == tokEOF {
					s.Token = EOF
					s.Where = judoerr.Span{Offset: tok.lexeme, Length: tok.length}
					s.state[s.stack] = stateFinished
				} else {
					err = sc.badSyntax(sc.at, 1, "expected EOF")
				}
			}
			s.at = sc.at
			return err
		}
		s.stack--
	}

	var err error
	switch s.state[s.stack] {
	case stateRootValue:
		err = sc.parseRoot()
	case stateArrayElemOrEnd:
		err = sc.arrayElemOrEnd()
	case stateFinishedArrayElem:
		err = sc.finishedArrayElem()
	case stateObjectKeyOrEnd:
		err = sc.objectKeyOrEnd()
	case stateObjectValue:
		err = sc.objectValue()
	case stateFinishedObjectValue:
		err = sc.finishedObjectValue()
	case stateParsingError, stateEncodingError, stateMaxNestingError:
		return judoerr.New(s.code, s.Where, s.msg)
	case stateFinished:
		// Scanning already completed; the EOF token remains current.
	default:
		err = judoerr.New(judoerr.Malfunction, s.Where, "corrupt scanner state")
	}
	s.at = sc.at
	return err
}
