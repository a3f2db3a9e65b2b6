// Package vcardutil contains streaming helpers for the vCard wire
// format built on [golang.org/x/text/transform].
package vcardutil

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

const cr = '\r'
const lf = '\n'

const hexDigits = "0123456789ABCDEF"

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

type qpState int

const (
	qpNone qpState = iota
	qpExpectHex1
	qpExpectHex2
	qpExpectLineFeed
)

// QuotedPrintableDecoder is a [transform.Transformer] that decodes
// quoted-printable content: =XX hex escapes become the named byte and
// =<CRLF> soft line breaks disappear. A malformed escape sequence is
// passed through verbatim, including one that is still pending at
// end of input.
//
// The decoder produces raw bytes; interpreting them under a character
// set is the caller's concern.
type QuotedPrintableDecoder struct {
	state qpState
	hex1  byte // raw first hex digit, kept for verbatim flush
}

func (t *QuotedPrintableDecoder) pending() []byte {
	switch t.state {
	case qpExpectHex1:
		return []byte{'='}
	case qpExpectHex2:
		return []byte{'=', t.hex1}
	case qpExpectLineFeed:
		return []byte{'=', cr}
	}
	return nil
}

func (t *QuotedPrintableDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		switch t.state {
		case qpNone:
			if c == '=' {
				t.state = qpExpectHex1
				nSrc++
				continue
			}
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
		case qpExpectHex1:
			if c == cr {
				t.state = qpExpectLineFeed
				nSrc++
				continue
			}
			if c == lf {
				// soft break with a bare LF, tolerated
				t.state = qpNone
				nSrc++
				continue
			}
			if _, ok := hexValue(c); ok {
				t.hex1 = c
				t.state = qpExpectHex2
				nSrc++
				continue
			}
			// malformed escape: flush the = and reprocess c as plain
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '='
			nDst++
			t.state = qpNone
		case qpExpectHex2:
			if v2, ok := hexValue(c); ok {
				v1, _ := hexValue(t.hex1)
				if nDst >= len(dst) {
					return nDst, nSrc, transform.ErrShortDst
				}
				dst[nDst] = v1<<4 | v2
				nDst++
				nSrc++
				t.state = qpNone
				continue
			}
			if len(dst) < nDst+2 {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '='
			dst[nDst+1] = t.hex1
			nDst += 2
			t.state = qpNone
		case qpExpectLineFeed:
			if c == lf {
				t.state = qpNone
				nSrc++
				continue
			}
			if len(dst) < nDst+2 {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '='
			dst[nDst+1] = cr
			nDst += 2
			t.state = qpNone
		}
	}
	if atEOF && t.state != qpNone {
		pend := t.pending()
		if len(dst)-nDst < len(pend) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], pend)
		t.state = qpNone
	}
	return
}

func (t *QuotedPrintableDecoder) Reset() {
	t.state = qpNone
	t.hex1 = 0
}

var _ transform.Transformer = &QuotedPrintableDecoder{}

// QuotedPrintableEncoder is a [transform.Transformer] that encodes
// content as quoted-printable without inserting soft line breaks.
// Tab and the printable ASCII range except = pass through, everything
// else becomes an =XX escape. A whitespace character at the very end
// of the input is escaped as well so that it survives transports that
// strip trailing whitespace.
type QuotedPrintableEncoder struct {
	transform.NopResetter
}

func (t *QuotedPrintableEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		plain := c == '\t' || (c >= 32 && c <= 126 && c != '=')
		if plain && (c == ' ' || c == '\t') && nSrc == len(src)-1 {
			if !atEOF {
				// cannot decide yet whether this is the final character
				return nDst, nSrc, transform.ErrShortSrc
			}
			plain = false
		}
		if plain {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if len(dst) < nDst+3 {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = '='
		dst[nDst+1] = hexDigits[c>>4]
		dst[nDst+2] = hexDigits[c&0xF]
		nDst += 3
		nSrc++
	}
	return
}

var _ transform.Transformer = &QuotedPrintableEncoder{}

// DefaultMaximumLineLength is the line length (in bytes) at which
// [FoldingTransformer] folds when its MaximumLength value is zero.
// RFC 2426 recommends folding lines wider than 75 bytes.
const DefaultMaximumLineLength = 75

var errWrongMaximumLineLength = errors.New("MaximumLength must be 4 or more")

// FoldingTransformer is a [transform.Transformer] that folds long
// lines at MaximumLength bytes by inserting a CR LF pair followed by a
// single space, the RFC line folding continuation marker.
//
// CR and LF reset the line counter and do not count toward the line
// length. The transformer is UTF-8 aware: it starts trying to fold at
// MaximumLength - 3 bytes on a rune boundary so a multi-byte rune is
// never split.
type FoldingTransformer struct {
	MaximumLength uint
	length        uint
}

func (t *FoldingTransformer) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	if t.MaximumLength == 0 {
		t.MaximumLength = DefaultMaximumLineLength
	}
	if t.MaximumLength < utf8.UTFMax {
		return 0, 0, errWrongMaximumLineLength
	}

	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		isCrOrLf := c == cr || c == lf
		if !isCrOrLf && ((t.length > t.MaximumLength-utf8.UTFMax && utf8.RuneStart(c)) || (t.length >= t.MaximumLength)) {
			if len(dst) <= nDst+3 {
				err = transform.ErrShortDst
				return
			}
			nDst += copy(dst[nDst:], "\r\n ")
			// the continuation space already occupies one column
			t.length = 1
		}
		dst[nDst] = c
		nDst++
		nSrc++
		if isCrOrLf {
			t.length = 0
		} else {
			t.length++
		}
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return
}

func (t *FoldingTransformer) Reset() {
	t.length = 0
}

var _ transform.Transformer = &FoldingTransformer{}
