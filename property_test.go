package vcard

import (
	"errors"
	"testing"
	"time"
)

func TestNewProperty(t *testing.T) {
	t.Parallel()
	p, err := NewProperty("NOTE", Text("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "NOTE" {
		t.Errorf("name = %q", p.Name)
	}
	if _, err := NewProperty("", Text("x")); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestSubpropertyLookup(t *testing.T) {
	t.Parallel()
	p := &Property{Name: "ADR"}
	p.AddFlag("HOME")
	p.AddSubproperty("TYPE", "WORK")
	p.AddSubproperty("type", "POSTAL")

	if s, ok := p.Subproperty("home"); !ok || s.Name != "HOME" {
		t.Errorf("case-insensitive lookup failed: %v %v", s, ok)
	}
	if !p.HasFlag("Home") {
		t.Error("HasFlag should be case-insensitive")
	}
	if p.HasFlag("PARCEL") {
		t.Error("HasFlag matched an absent name")
	}

	// first match wins, duplicates stay in insertion order
	if got := p.SubpropertyValue("TYPE"); got != "WORK" {
		t.Errorf("SubpropertyValue = %q, want WORK", got)
	}
	if s, ok := p.SubpropertyIn("PARCEL", "type"); !ok || s.Value != "WORK" {
		t.Errorf("SubpropertyIn = %v %v", s, ok)
	}
	if _, ok := p.SubpropertyIn("PARCEL", "DOM"); ok {
		t.Error("SubpropertyIn matched an absent name set")
	}
	if got := p.SubpropertyValue("HOME"); got != "" {
		t.Errorf("flag-only subproperty value = %q, want empty", got)
	}
	if len(p.Subproperties) != 3 {
		t.Errorf("len = %d, want 3", len(p.Subproperties))
	}
}

func TestPropertyText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value Value
		want  string
	}{
		{Text("abc"), "abc"},
		{Bytes([]byte("raw")), "raw"},
		{MultiValue{Parts: []string{"a", "b"}, Sep: ';'}, "a;b"},
		{Date(time.Date(2006, 10, 2, 12, 0, 0, 0, time.UTC)), "20061002T120000Z"},
		// non-UTC times render in UTC, matching the serialized form
		{Date(time.Date(2006, 10, 2, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))), "20061002T120000Z"},
		{nil, ""},
	}
	for _, tt := range tests {
		p := &Property{Name: "X", Value: tt.value}
		if got := p.text(); got != tt.want {
			t.Errorf("text() of %#v = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestPropertyBytes(t *testing.T) {
	t.Parallel()
	p := &Property{Name: "KEY", Value: Bytes([]byte{1, 2})}
	if got := p.bytes(); len(got) != 2 {
		t.Errorf("bytes() = %v", got)
	}
	p = &Property{Name: "KEY", Value: Text("ab")}
	if got := string(p.bytes()); got != "ab" {
		t.Errorf("bytes() of Text = %q", got)
	}
	p = &Property{Name: "KEY", Value: MultiValue{Parts: []string{"a"}}}
	if got := p.bytes(); got != nil {
		t.Errorf("bytes() of MultiValue = %v, want nil", got)
	}
}
