package vcard

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/transform"

	"github.com/contactkit/vcard/vcardutil"
)

// timestampLayout is the compact timestamp form emitted by Outlook and
// other producers in REV and anniversary fields.
const timestampLayout = "20060102T150405Z"

// RFCEscapeSet is the set of characters that RFC 2426 requires to be
// backslash-escaped in text values.
const RFCEscapeSet = "\\,;\r\n"

// CompatibilityEscapeSet omits the comma from [RFCEscapeSet]. At least
// one popular mail client does not unescape commas, so a writer in
// compatibility mode leaves them alone.
const CompatibilityEscapeSet = "\\;\r\n"

// EncodeEscaped backslash-escapes every character of set occurring in
// s. CR and LF are written as \r and \n.
func EncodeEscaped(s string, set string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(set, c) < 0 {
			b.WriteByte(c)
			continue
		}
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeReplacements are applied in order by [DecodeEscaped]. The
// backslash pair is unescaped first, so both \n and \\n decode to LF;
// widespread producers rely on that lenient reading.
var escapeReplacements = [][2]string{
	{`\\`, `\`},
	{`\,`, `,`},
	{`\;`, `;`},
	{`\n`, "\n"},
	{`\N`, "\n"},
	{`\r`, "\r"},
	{`\R`, "\r"},
}

// DecodeEscaped reverses backslash escaping. \n and \N decode to LF,
// \r and \R to CR, \\ to a backslash and \, and \; to the bare
// character. Unrecognized escape sequences pass through literally with
// the backslash retained.
func DecodeEscaped(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	for _, r := range escapeReplacements {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}

// SplitEscaped splits s at every sep that is not backslash-escaped.
// The parts keep their escape sequences; decode each one with
// [DecodeEscaped]. A backslash escapes exactly the next byte, so the
// separator after a doubled backslash still splits.
func SplitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// EncodeBase64 encodes data as standard Base64 without line wrapping.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes standard Base64 text. Interior whitespace left
// over from folded lines is ignored.
func DecodeBase64(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(clean)
}

// EncodeQuotedPrintable encodes s as quoted-printable without soft
// line breaks. A trailing whitespace character is escaped so it
// survives transport.
func EncodeQuotedPrintable(s string) string {
	out, _, err := transform.String(&vcardutil.QuotedPrintableEncoder{}, s)
	if err != nil {
		// the encoder never rejects input
		return s
	}
	return out
}

// DecodeQuotedPrintable decodes quoted-printable text and interprets
// the resulting bytes under the named character set. An empty
// charsetName means UTF-8.
func DecodeQuotedPrintable(s string, charsetName string) (string, error) {
	raw, _, err := transform.Bytes(&vcardutil.QuotedPrintableDecoder{}, []byte(s))
	if err != nil {
		return "", err
	}
	if charsetName == "" || strings.EqualFold(charsetName, "UTF-8") {
		return string(raw), nil
	}
	r, err := charset.Reader(charsetName, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// dateLayouts are the generic layouts tried by [ParseDateBestEffort]
// before the Outlook timestamp fallback.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateBestEffort parses text as a date or date-time. Generic
// layouts are tried first, then the compact 20060102T150405Z form.
// The second return value is false when nothing matched.
func ParseDateBestEffort(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
