package judo_test

import (
	"testing"

	"github.com/railgunlabs/judo"
	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoscan"
)

func TestValidate(t *testing.T) {
	ok := [][]byte{
		[]byte(`{"a":1}`),
		[]byte(`[1,2,3]`),
		[]byte(`"scalar"`),
	}
	for _, src := range ok {
		if err := judo.Validate(src, int32(len(src)), judoscan.RFC8259, 0); err != nil {
			t.Errorf("Validate(%q) = %v", src, err)
		}
	}

	bad := []byte(`[1,`)
	err := judo.Validate(bad, int32(len(bad)), judoscan.RFC8259, 0)
	if judoerr.CodeOf(err) != judoerr.BadSyntax {
		t.Fatalf("Validate(%q) = %v, want bad syntax", bad, err)
	}
}

func TestValidateDialects(t *testing.T) {
	src := []byte(`{a:1,}`)
	if err := judo.Validate(src, int32(len(src)), judoscan.JSON5, 0); err != nil {
		t.Fatalf("JSON5 rejected %q: %v", src, err)
	}
	if err := judo.Validate(src, int32(len(src)), judoscan.RFC8259, 0); err == nil {
		t.Fatalf("RFC 8259 accepted %q", src)
	}
}

func TestLocation(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		offset int32
		line   int
		column int
	}{
		{"start", "abc", 0, 1, 1},
		{"mid line", "abc", 2, 1, 3},
		{"after LF", "a\nb", 2, 2, 1},
		{"after CR", "a\rb", 2, 2, 1},
		{"CRLF counts once", "a\r\nb", 3, 2, 1},
		{"line separator", "a\u2028b", 4, 2, 1},
		{"paragraph separator", "a\u2029b", 4, 2, 1},
		{"multibyte column", "é€x", 5, 1, 3},
		{"second line column", "ab\ncdé", 6, 2, 4},
	}
	for _, tc := range cases {
		line, column := judo.Location([]byte(tc.src), tc.offset)
		if line != tc.line || column != tc.column {
			t.Errorf("%s: Location(%q, %d) = %d:%d, want %d:%d",
				tc.name, tc.src, tc.offset, line, column, tc.line, tc.column)
		}
	}
}

func TestSpanText(t *testing.T) {
	src := []byte(`{"a":1}`)
	if got := judo.SpanText(src, judoerr.Span{Offset: 1, Length: 3}); string(got) != `"a"` {
		t.Fatalf("got %q", got)
	}
	if got := judo.SpanText(src, judoerr.Span{Offset: 5, Length: 10}); got != nil {
		t.Fatalf("out-of-bounds span should be nil, got %q", got)
	}
	if got := judo.SpanText(src, judoerr.Span{Offset: -1, Length: 1}); got != nil {
		t.Fatalf("negative span should be nil, got %q", got)
	}
}
