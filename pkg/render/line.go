package render

import (
	"slices"
	"strings"
)

// Line is one rendered display line.
type Line struct {
	Display   string `json:"display"`
	ElementID string `json:"element_id,omitempty"`
	Class     string `json:"class,omitempty"`

	// Number is the 1-based source line number. Lines inside documentation
	// ranges are not numbered.
	Number *int `json:"number,omitempty"`

	// SectionKey is the leaf side-table index a placeholder line stands for.
	SectionKey *int `json:"section_key,omitempty"`

	// Section is the section id of a heading line.
	Section *int `json:"section,omitempty"`
}

// Equal reports whether l and o show the same content for the same element.
// Class and numbering are presentational and ignored.
func (l Line) Equal(o Line) bool {
	return l.Display == o.Display && l.ElementID == o.ElementID
}

// String returns the display content.
func (l Line) String() string { return l.Display }

// WithClass returns a copy of l with its class replaced.
func (l Line) WithClass(class string) Line {
	l.Class = class
	return l
}

// EqualLines compares two line sequences with [Line.Equal].
func EqualLines(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// MergeClasses prepends the content classes to a hierarchy class list.
// A class already present is kept at its first position.
func MergeClasses(content, hierarchy string) string {
	fields := strings.Fields(content)
	for _, c := range strings.Fields(hierarchy) {
		if !slices.Contains(fields, c) {
			fields = append(fields, c)
		}
	}
	return strings.Join(fields, " ")
}

func intPtr(i int) *int { return &i }
