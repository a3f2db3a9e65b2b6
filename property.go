package vcard

import (
	"errors"
	"strings"
	"time"
)

// Value is the decoded payload of a [Property]. It is a closed set of
// payload shapes: [Text], [Bytes], [MultiValue] and [Date]. The writer
// chooses the wire encoding of a property from its payload shape.
type Value interface {
	isValue()
}

// Text is a plain string payload. On the wire it is backslash-escaped
// or quoted-printable encoded.
type Text string

func (Text) isValue() {}

// Bytes is a binary payload. On the wire it is always BASE64 encoded.
type Bytes []byte

func (Bytes) isValue() {}

// MultiValue is an ordered list of string parts joined by Sep on the
// wire, each part escaped individually. The reader produces one for an
// escaped value whose unescaped semicolons separate components.
type MultiValue struct {
	Parts []string
	Sep   byte
}

func (MultiValue) isValue() {}

// Date is a point-in-time payload.
type Date time.Time

func (Date) isValue() {}

// Subproperty is one semicolon-separated modifier of a property name,
// e.g. TYPE=WORK. A flag-only subproperty (e.g. HOME) has an empty
// Value.
type Subproperty struct {
	Name  string
	Value string
}

// Property is one logical NAME[;SUB=VAL...]:VALUE line of a vCard.
// Duplicate subproperty names are permitted and kept in insertion
// order; real-world producers emit repeated TYPE subproperties.
type Property struct {
	Group         string
	Name          string
	Language      string
	Value         Value
	Subproperties []Subproperty
}

// ErrEmptyName is returned by [NewProperty] when the property name is
// empty.
var ErrEmptyName = errors.New("vcard: property name must not be empty")

// NewProperty creates a property with the given name and payload.
// The name must not be empty.
func NewProperty(name string, value Value) (*Property, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Property{Name: name, Value: value}, nil
}

// newProp is the writer-internal constructor for the fixed set of
// well-known property names.
func newProp(name string, value Value) *Property {
	return &Property{Name: name, Value: value}
}

// AddSubproperty appends a subproperty, keeping insertion order.
func (p *Property) AddSubproperty(name, value string) {
	p.Subproperties = append(p.Subproperties, Subproperty{Name: name, Value: value})
}

// AddFlag appends a flag-only subproperty.
func (p *Property) AddFlag(name string) {
	p.AddSubproperty(name, "")
}

// Subproperty returns the first subproperty whose name equals name,
// compared case-insensitively.
func (p *Property) Subproperty(name string) (*Subproperty, bool) {
	for i := range p.Subproperties {
		if strings.EqualFold(p.Subproperties[i].Name, name) {
			return &p.Subproperties[i], true
		}
	}
	return nil, false
}

// SubpropertyIn returns the first subproperty whose name matches any
// of names, compared case-insensitively. It is used to recover legacy
// flag-style type lists such as ADR;HOME;POSTAL.
func (p *Property) SubpropertyIn(names ...string) (*Subproperty, bool) {
	for i := range p.Subproperties {
		for _, n := range names {
			if strings.EqualFold(p.Subproperties[i].Name, n) {
				return &p.Subproperties[i], true
			}
		}
	}
	return nil, false
}

// SubpropertyValue returns the value of the first subproperty with the
// given name, or the empty string when it is absent or flag-only.
func (p *Property) SubpropertyValue(name string) string {
	if s, ok := p.Subproperty(name); ok {
		return s.Value
	}
	return ""
}

// HasFlag reports whether a subproperty with the given name exists,
// regardless of whether it carries a value.
func (p *Property) HasFlag(name string) bool {
	_, ok := p.Subproperty(name)
	return ok
}

// text returns the payload as a plain string. Bytes payloads are
// interpreted as raw text, Date payloads use the vCard timestamp
// layout.
func (p *Property) text() string {
	switch v := p.Value.(type) {
	case Text:
		return string(v)
	case Bytes:
		return string(v)
	case MultiValue:
		return strings.Join(v.Parts, string(v.Sep))
	case Date:
		return time.Time(v).UTC().Format(timestampLayout)
	default:
		return ""
	}
}

// components returns the payload as semicolon-separated components.
// MultiValue payloads keep their parts; everything else is split on
// the literal separator.
func (p *Property) components() []string {
	if v, ok := p.Value.(MultiValue); ok {
		return v.Parts
	}
	return strings.Split(p.text(), ";")
}

// bytes returns the payload as a byte slice, converting Text payloads.
func (p *Property) bytes() []byte {
	switch v := p.Value.(type) {
	case Bytes:
		return v
	case Text:
		return []byte(v)
	default:
		return nil
	}
}
