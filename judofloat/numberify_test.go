package judofloat

import (
	"math"
	"testing"

	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoscan"
)

func mustNumber(t *testing.T, lexeme string, dialect judoscan.Dialect) float64 {
	t.Helper()
	n, err := Numberify([]byte(lexeme), dialect)
	if err != nil {
		t.Fatalf("numberify %q: %v", lexeme, err)
	}
	return n
}

func TestNumberifyIntegers(t *testing.T) {
	cases := map[string]float64{
		"0":       0,
		"7":       7,
		"42":      42,
		"-1":      -1,
		"-123456": -123456,
		"1000000": 1e6,
	}
	for lexeme, want := range cases {
		if got := mustNumber(t, lexeme, judoscan.RFC8259); got != want {
			t.Errorf("%q = %v, want %v", lexeme, got, want)
		}
	}
}

func TestNumberifyFractions(t *testing.T) {
	cases := map[string]float64{
		"0.5":    0.5,
		"2.25":   2.25,
		"-0.125": -0.125,
	}
	for lexeme, want := range cases {
		if got := mustNumber(t, lexeme, judoscan.RFC8259); got != want {
			t.Errorf("%q = %v, want %v", lexeme, got, want)
		}
	}
}

func TestNumberifyExponents(t *testing.T) {
	cases := map[string]float64{
		"1e2":    100,
		"1E2":    100,
		"1e+2":   100,
		"25e-2":  0.25,
		"1.5e3":  1500,
		"-2e3":   -2000,
		"0e0":    0,
		"5e0":    5,
	}
	for lexeme, want := range cases {
		got := mustNumber(t, lexeme, judoscan.RFC8259)
		if math.Abs(got-want) > math.Abs(want)*1e-12 {
			t.Errorf("%q = %v, want %v", lexeme, got, want)
		}
	}
}

func TestNumberifyJSON5Hex(t *testing.T) {
	cases := map[string]float64{
		"0x0":    0,
		"0x10":   16,
		"0XFF":   255,
		"0xdead": 0xDEAD,
		"+0xA":   10,
		"-0x8":   -8,
	}
	for lexeme, want := range cases {
		if got := mustNumber(t, lexeme, judoscan.JSON5); got != want {
			t.Errorf("%q = %v, want %v", lexeme, got, want)
		}
	}
}

func TestNumberifyJSON5Literals(t *testing.T) {
	if got := mustNumber(t, "NaN", judoscan.JSON5); !math.IsNaN(got) {
		t.Fatalf("NaN = %v", got)
	}
	if got := mustNumber(t, "-NaN", judoscan.JSON5); !math.IsNaN(got) {
		t.Fatalf("-NaN = %v", got)
	}
	if got := mustNumber(t, "Infinity", judoscan.JSON5); !math.IsInf(got, 1) {
		t.Fatalf("Infinity = %v", got)
	}
	if got := mustNumber(t, "+Infinity", judoscan.JSON5); !math.IsInf(got, 1) {
		t.Fatalf("+Infinity = %v", got)
	}
	if got := mustNumber(t, "-Infinity", judoscan.JSON5); !math.IsInf(got, -1) {
		t.Fatalf("-Infinity = %v", got)
	}
}

func TestNumberifyJSON5Signs(t *testing.T) {
	if got := mustNumber(t, "+5", judoscan.JSON5); got != 5 {
		t.Fatalf("+5 = %v", got)
	}
	if got := mustNumber(t, ".5", judoscan.JSON5); got != 0.5 {
		t.Fatalf(".5 = %v", got)
	}
	if got := mustNumber(t, "5.", judoscan.JSON5); got != 5 {
		t.Fatalf("5. = %v", got)
	}
}

func TestNumberifyOutOfRange(t *testing.T) {
	n, err := Numberify([]byte("1e400"), judoscan.RFC8259)
	if judoerr.CodeOf(err) != judoerr.OutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}
	if !math.IsInf(n, 1) {
		t.Fatalf("overflow value = %v", n)
	}

	n, err = Numberify([]byte("-1e400"), judoscan.RFC8259)
	if judoerr.CodeOf(err) != judoerr.OutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}
	if !math.IsInf(n, -1) {
		t.Fatalf("overflow value = %v", n)
	}
}

func TestNumberifyInvalidOperation(t *testing.T) {
	if _, err := Numberify(nil, judoscan.RFC8259); judoerr.CodeOf(err) != judoerr.InvalidOperation {
		t.Fatal("empty lexeme must be an invalid operation")
	}
}

// TestNumberifyAgainstScanner feeds scanned number lexemes back through
// Numberify, checking the two layers agree on what a number is.
func TestNumberifyAgainstScanner(t *testing.T) {
	src := `[0, -7, 3.5, 1e3, 0.001]`
	want := []float64{0, -7, 3.5, 1000, 0.001}

	stream := judoscan.Stream{}
	var got []float64
	for {
		if err := stream.Scan([]byte(src), int32(len(src))); err != nil {
			t.Fatal(err)
		}
		if stream.Token == judoscan.EOF {
			break
		}
		if stream.Token == judoscan.Number {
			lexeme := []byte(src)[stream.Where.Offset : stream.Where.Offset+stream.Where.Length]
			got = append(got, mustNumber(t, string(lexeme), judoscan.RFC8259))
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d numbers, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("number %d = %v, want %v", i, got[i], want[i])
		}
	}
}
