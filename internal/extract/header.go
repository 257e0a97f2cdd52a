package extract

import (
	"strings"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/profiles"
)

// HeaderField is one extracted header value.
type HeaderField struct {
	Name  string
	Value string
}

// Header holds the matched header fields in profile order. Unmatched fields are absent.
type Header struct {
	fields []HeaderField
}

// Fields returns the extracted fields in insertion order.
func (h Header) Fields() []HeaderField {
	return append([]HeaderField(nil), h.fields...)
}

// Get returns the value for name and whether it was extracted.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (h Header) Len() int { return len(h.fields) }

// set overwrites an existing field in place so a name appears at most once.
func (h *Header) set(name, value string) {
	for i := range h.fields {
		if h.fields[i].Name == name {
			h.fields[i].Value = value
			return
		}
	}
	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// ExtractHeader runs the profile's single-line fields and then its multi-line spans over text.
func ExtractHeader(text string, p *profiles.Profile) Header {
	var h Header
	if p == nil {
		return h
	}
	for _, f := range p.Fields {
		if v, ok := singleLine(text, f); ok {
			h.set(f.Name, v)
		}
	}
	for _, s := range p.Spans {
		if v, ok := span(text, s); ok {
			h.set(s.Name, v)
		}
	}
	return h
}

// singleLine returns the trimmed first capture of the first match.
func singleLine(text string, f profiles.Field) (string, bool) {
	m := f.Pattern.FindStringSubmatchIndex(text)
	if m == nil {
		return "", false
	}
	if m[2] < 0 {
		// group did not participate
		return "", true
	}
	return strings.TrimSpace(text[m[2]:m[3]]), true
}

// span returns the trimmed text between the end of the first start marker and
// the first end marker found from the start marker's position onward.
func span(text string, s profiles.Span) (string, bool) {
	start := s.Start.FindStringIndex(text)
	if start == nil {
		return "", false
	}
	from, to := start[1], len(text)
	if s.End != nil {
		if end := s.End.FindStringIndex(text[start[0]:]); end != nil {
			to = start[0] + end[0]
		}
	}
	if to <= from {
		return "", true
	}
	return strings.TrimSpace(text[from:to]), true
}
