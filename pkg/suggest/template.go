package suggest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrTemplate is returned for item templates that cannot be parsed.
var ErrTemplate = errors.New("invalid item template")

// fieldRefRegex matches a field reference such as <% Title %>.
var fieldRefRegex = regexp.MustCompile(`<%([^%>]*)%>`)

type segmentKind int

const (
	literalSegment segmentKind = iota
	fieldSegment
)

type segment struct {
	kind  segmentKind
	value string // literal text or field name
}

// Template renders a candidate into item text. Its source is a list of
// parts joined by '+'; a part holding <% name %> is replaced by that field,
// anything else is copied literally. For example
//
//	<b>+<% Type %>+</b> - +<% Title %>
//
// renders "<b>Movie</b> - Alien" for {"Type": "Movie", "Title": "Alien"}.
type Template struct {
	source   string
	segments []segment
}

// DefaultTemplate displays the matchWith field verbatim.
func DefaultTemplate(matchWith string) *Template {
	return &Template{
		source:   "<% " + matchWith + " %>",
		segments: []segment{{kind: fieldSegment, value: matchWith}},
	}
}

// ParseTemplate compiles source once so rendering is plain concatenation.
func ParseTemplate(source string) (*Template, error) {
	t := &Template{source: source}

	for _, part := range strings.Split(source, "+") {
		matches := fieldRefRegex.FindAllStringSubmatchIndex(part, -1)
		offset := 0

		for _, match := range matches {
			name := strings.TrimSpace(part[match[2]:match[3]])
			if name == "" {
				return nil, fmt.Errorf("%w: empty field reference in %q", ErrTemplate, part)
			}
			if match[0] > offset {
				t.segments = append(t.segments, segment{kind: literalSegment, value: part[offset:match[0]]})
			}
			t.segments = append(t.segments, segment{kind: fieldSegment, value: name})
			offset = match[1]
		}
		rest := part[offset:]

		if strings.Contains(rest, "<%") {
			return nil, fmt.Errorf("%w: unterminated field reference in %q", ErrTemplate, part)
		}
		if rest != "" {
			t.segments = append(t.segments, segment{kind: literalSegment, value: rest})
		}
	}

	return t, nil
}

// Render concatenates the segments left to right. Missing fields render empty.
func (t *Template) Render(c Candidate) string {
	var b strings.Builder
	for _, s := range t.segments {
		switch s.kind {
		case literalSegment:
			b.WriteString(s.value)
		case fieldSegment:
			b.WriteString(c.Field(s.value))
		}
	}
	return b.String()
}

// Fields lists the field names referenced by the template, in order.
func (t *Template) Fields() []string {
	var fields []string
	for _, s := range t.segments {
		if s.kind == fieldSegment {
			fields = append(fields, s.value)
		}
	}
	return fields
}

func (t *Template) String() string {
	return t.source
}
