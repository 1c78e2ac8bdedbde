package token

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/matzehuels/apiview/pkg/errors"
)

// Kind is the semantic category of a token. The numeric values are part of
// the wire format and must not be reordered.
type Kind int

const (
	Text Kind = iota
	Newline
	Whitespace
	Punctuation
	Keyword
	LineIDMarker
	TypeName
	MemberName
	StringLiteral
	Literal
	Comment
	DocumentRangeStart
	DocumentRangeEnd
	DeprecatedRangeStart
	DeprecatedRangeEnd
	SkipDiffRangeStart
	SkipDiffRangeEnd
	SectionHeading
	SectionContentStart
	SectionContentEnd

	numKinds
)

var kindNames = [numKinds]string{
	Text:                 "Text",
	Newline:              "Newline",
	Whitespace:           "Whitespace",
	Punctuation:          "Punctuation",
	Keyword:              "Keyword",
	LineIDMarker:         "LineIdMarker",
	TypeName:             "TypeName",
	MemberName:           "MemberName",
	StringLiteral:        "StringLiteral",
	Literal:              "Literal",
	Comment:              "Comment",
	DocumentRangeStart:   "DocumentRangeStart",
	DocumentRangeEnd:     "DocumentRangeEnd",
	DeprecatedRangeStart: "DeprecatedRangeStart",
	DeprecatedRangeEnd:   "DeprecatedRangeEnd",
	SkipDiffRangeStart:   "SkipDiffRangeStart",
	SkipDiffRangeEnd:     "SkipDiffRangeEnd",
	SectionHeading:       "FoldableSectionHeading",
	SectionContentStart:  "FoldableSectionContentStart",
	SectionContentEnd:    "FoldableSectionContentEnd",
}

// Kinds returns every defined kind in wire order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsSectionMarker reports whether k delimits a foldable region.
func (k Kind) IsSectionMarker() bool {
	return k == SectionHeading || k == SectionContentStart || k == SectionContentEnd
}

// ParseKind resolves a kind from its wire name. The comparison is exact.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidTokenKind, "unknown token kind %q", name)
}

// MarshalJSON encodes the kind as its number.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidTokenKind, "unknown token kind %d", int(k))
	}
	return []byte(strconv.Itoa(int(k))), nil
}

// UnmarshalJSON accepts either the kind's number or its name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTokenKind, err, "decode token kind")
		}
		parsed, err := ParseKind(name)
		if err != nil {
			return err
		}
		*k = parsed
		return nil
	}

	n, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTokenKind, err, "decode token kind %s", data)
	}
	if !Kind(n).Valid() {
		return errors.New(errors.ErrCodeInvalidTokenKind, "unknown token kind %d", n)
	}
	*k = Kind(n)
	return nil
}
