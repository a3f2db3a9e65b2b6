package vcard

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeEscaped(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		set  string
		want string
	}{
		{"", RFCEscapeSet, ""},
		{"plain text", RFCEscapeSet, "plain text"},
		{"a,b", RFCEscapeSet, `a\,b`},
		{"a;b", RFCEscapeSet, `a\;b`},
		{`a\b`, RFCEscapeSet, `a\\b`},
		{"line1\nline2", RFCEscapeSet, `line1\nline2`},
		{"line1\r\nline2", RFCEscapeSet, `line1\r\nline2`},
		// compatibility mode leaves commas alone
		{"a,b", CompatibilityEscapeSet, "a,b"},
		{"a;b", CompatibilityEscapeSet, `a\;b`},
	}
	for _, tt := range tests {
		if got := EncodeEscaped(tt.in, tt.set); got != tt.want {
			t.Errorf("EncodeEscaped(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeEscaped(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{`a\,b`, "a,b"},
		{`a\;b`, "a;b"},
		{`a\\b`, `a\b`},
		{`a\nb`, "a\nb"},
		{`a\Nb`, "a\nb"},
		{`a\rb`, "a\rb"},
		// the backslash pair is unescaped first, so \\n is a line feed too
		{`a\\nb`, "a\nb"},
		// unrecognized escapes keep the backslash
		{`a\xb`, `a\xb`},
		{`trailing\`, `trailing\`},
	}
	for _, tt := range tests {
		if got := DecodeEscaped(tt.in); got != tt.want {
			t.Errorf("DecodeEscaped(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeSymmetry(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"",
		"John Doe",
		"a,b;c",
		"multi\nline\r\ntext",
		"tab\tand space",
		"unicode äöü 漢字",
	}
	for _, in := range inputs {
		if got := DecodeEscaped(EncodeEscaped(in, RFCEscapeSet)); got != in {
			t.Errorf("round trip of %q = %q", in, got)
		}
	}
}

func TestSplitEscaped(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a;b", []string{"a", "b"}},
		{"a;b;", []string{"a", "b", ""}},
		{`a\;b`, []string{`a\;b`}},
		{`a\\;b`, []string{`a\\`, "b"}},
		{`Main\;St;Springfield`, []string{`Main\;St`, "Springfield"}},
		{`trailing\`, []string{`trailing\`}},
	}
	for _, tt := range tests {
		got := SplitEscaped(tt.in, ';')
		if len(got) != len(tt.want) {
			t.Errorf("SplitEscaped(%q) = %q, want %q", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitEscaped(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestBase64Symmetry(t *testing.T) {
	t.Parallel()
	inputs := [][]byte{
		{},
		{0},
		[]byte("hello"),
		{0xff, 0x00, 0xab, 0xcd, 0x01},
	}
	for _, in := range inputs {
		out, err := DecodeBase64(EncodeBase64(in))
		if err != nil {
			t.Fatalf("DecodeBase64 failed for %v: %v", in, err)
		}
		if !bytes.Equal(out, in) {
			t.Errorf("round trip of %v = %v", in, out)
		}
	}
}

func TestDecodeBase64IgnoresFoldingWhitespace(t *testing.T) {
	t.Parallel()
	out, err := DecodeBase64("QU JD\r\n RUY=")
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "ABCEF" {
		t.Errorf("got %q, want %q", out, "ABCEF")
	}
}

func TestQuotedPrintableSymmetry(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"",
		"plain ascii",
		"equals = sign",
		"Grüße aus Köln",
		"line1\r\nline2",
		"trailing space ",
		"trailing tab\t",
	}
	for _, in := range inputs {
		enc := EncodeQuotedPrintable(in)
		dec, err := DecodeQuotedPrintable(enc, "")
		if err != nil {
			t.Fatalf("decode of %q failed: %v", enc, err)
		}
		if dec != in {
			t.Errorf("round trip of %q via %q = %q", in, enc, dec)
		}
	}
}

func TestDecodeQuotedPrintableCharset(t *testing.T) {
	t.Parallel()
	got, err := DecodeQuotedPrintable("caf=E9", "ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "café" {
		t.Errorf("got %q, want %q", got, "café")
	}
	if _, err := DecodeQuotedPrintable("x", "no-such-charset"); err == nil {
		t.Error("expected an error for an unknown charset")
	}
}

func TestParseDateBestEffort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2006-01-02", time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"1980-06-15T12:30:00Z", time.Date(1980, 6, 15, 12, 30, 0, 0, time.UTC), true},
		{"20061002T120000Z", time.Date(2006, 10, 2, 12, 0, 0, 0, time.UTC), true},
		{" 2006-01-02 ", time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"20060102", time.Time{}, false}, // compact date form is a BDAY-only fallback
	}
	for _, tt := range tests {
		got, ok := ParseDateBestEffort(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDateBestEffort(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDateBestEffort(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
