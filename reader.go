package vcard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Argument validation errors. These indicate programmer errors, not
// malformed input data; malformed data only ever produces warnings.
var (
	ErrNilStream   = errors.New("vcard: nil input stream")
	ErrNilContact  = errors.New("vcard: nil contact")
	ErrNilProperty = errors.New("vcard: nil property")
)

// valueEncoding is the content transfer encoding of a property value.
type valueEncoding int

const (
	encodingEscaped valueEncoding = iota // the default when no ENCODING is given
	encodingBase64
	encodingQuotedPrintable
)

// Reader parses vCard text into properties and contacts. It owns all
// per-session state (the buffered input and the warnings list), so
// independent Readers can be used concurrently.
type Reader struct {
	br       *bufio.Reader
	warnings []string
	eof      bool
}

// NewReader returns a Reader consuming r. The stream should be
// positioned at or before the BEGIN:VCARD line.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		return &Reader{}
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{br: br}
}

// Warnings returns the parse warnings accumulated so far, in order.
// Recoverable malformed input never produces an error, only warnings.
func (r *Reader) Warnings() []string {
	return r.warnings
}

func (r *Reader) warnf(format string, v ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, v...))
	LogWarning(format, v...)
}

// readLine returns the next line without its EOL sequence. ok is false
// at end of stream.
func (r *Reader) readLine() (line string, ok bool, err error) {
	if r.eof {
		return "", false, nil
	}
	line, err = r.br.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, err
		}
		r.eof = true
		if line == "" {
			return "", false, nil
		}
	}
	return trimEOL(line), true, nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// continuationFollows reports whether the next line starts with the
// RFC folding marker (space or tab).
func (r *Reader) continuationFollows() bool {
	if r.eof {
		return false
	}
	b, err := r.br.Peek(1)
	if err != nil {
		return false
	}
	return b[0] == ' ' || b[0] == '\t'
}

// ReadProperty consumes one logical property from the stream,
// reassembling folded lines and multi-line encoded values, and returns
// it with its value decoded. An escaped value with unescaped separator
// semicolons decodes to a [MultiValue], one part per component. It
// returns nil at end of stream.
//
// Recoverable malformed lines (blank line, missing colon, empty name)
// are skipped with a recorded warning; only a nil stream or an
// underlying read failure produce an error.
func (r *Reader) ReadProperty() (*Property, error) {
	if r.br == nil {
		return nil, ErrNilStream
	}
	for {
		line, ok, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if strings.TrimSpace(line) == "" {
			r.warnf("blank line skipped")
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			r.warnf("line without colon separator skipped: %.40q", line)
			continue
		}

		p := &Property{}
		tokens := strings.Split(line[:colon], ";")
		name := strings.TrimSpace(tokens[0])
		if dot := strings.IndexByte(name, '.'); dot >= 0 {
			p.Group, name = name[:dot], name[dot+1:]
		}
		if name == "" {
			r.warnf("property with empty name skipped: %.40q", line)
			continue
		}
		p.Name = name
		for _, tok := range tokens[1:] {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if eq := strings.IndexByte(tok, '='); eq >= 0 {
				p.AddSubproperty(tok[:eq], tok[eq+1:])
			} else {
				p.AddFlag(tok)
			}
		}
		p.Language = p.SubpropertyValue("LANGUAGE")

		enc := encodingOf(p)
		rawValue := line[colon+1:]

		// RFC folding: continuation lines start with one space or tab
		// which is not part of the value.
		for r.continuationFollows() {
			if _, err := r.br.ReadByte(); err != nil {
				return nil, err
			}
			cont, ok, err := r.readLine()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			rawValue += cont
		}

		// A quoted-printable value ending in = carries a soft line
		// break that folding did not resolve; the value continues on
		// the following raw lines.
		if enc == encodingQuotedPrintable {
			for strings.HasSuffix(rawValue, "=") {
				cont, ok, err := r.readLine()
				if err != nil {
					return nil, err
				}
				if !ok {
					break
				}
				rawValue += "\r\n" + cont
			}
		}

		switch enc {
		case encodingBase64:
			data, err := DecodeBase64(rawValue)
			if err != nil {
				r.warnf("invalid BASE64 content in %s property: %v", p.Name, err)
				continue
			}
			p.Value = Bytes(data)
		case encodingQuotedPrintable:
			text, err := DecodeQuotedPrintable(rawValue, p.SubpropertyValue("CHARSET"))
			if err != nil {
				r.warnf("cannot decode %s property: %v", p.Name, err)
				p.Value = Text(rawValue)
			} else {
				p.Value = Text(text)
			}
		default:
			// Splitting must happen before unescaping or an escaped
			// separator inside a component becomes indistinguishable
			// from a real one.
			parts := SplitEscaped(rawValue, ';')
			if len(parts) == 1 {
				p.Value = Text(DecodeEscaped(parts[0]))
				break
			}
			for i := range parts {
				parts[i] = DecodeEscaped(parts[i])
			}
			p.Value = MultiValue{Parts: parts, Sep: ';'}
		}
		return p, nil
	}
}

// encodingOf determines the content transfer encoding of a property.
// An explicit ENCODING subproperty takes priority; the legacy bare
// flags B, BASE64 and QUOTED-PRINTABLE are recognized as well.
func encodingOf(p *Property) valueEncoding {
	if v := p.SubpropertyValue("ENCODING"); v != "" {
		switch strings.ToUpper(v) {
		case "B", "BASE64":
			return encodingBase64
		case "QUOTED-PRINTABLE":
			return encodingQuotedPrintable
		}
		return encodingEscaped
	}
	if _, ok := p.SubpropertyIn("B", "BASE64"); ok {
		return encodingBase64
	}
	if p.HasFlag("QUOTED-PRINTABLE") {
		return encodingQuotedPrintable
	}
	return encodingEscaped
}
