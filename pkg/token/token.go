package token

import (
	"encoding/json"
	"strconv"

	"github.com/matzehuels/apiview/pkg/errors"
)

// Token is one element of a flattened API-surface document.
type Token struct {
	Kind  Kind   `json:"Kind"`
	Value string `json:"Value,omitempty"`

	// LineID identifies the declaration this token defines. The last
	// LineID on a rendered line becomes that line's element id.
	LineID string `json:"DefinitionId,omitempty"`

	// NavigationID is the LineID of the declaration this token refers to.
	NavigationID string `json:"NavigateToId,omitempty"`
}

// New returns a token with only kind and value set.
func New(kind Kind, value string) Token {
	return Token{Kind: kind, Value: value}
}

// Heading returns a SectionHeading token displaying text.
func Heading(text string) Token { return New(SectionHeading, text) }

// ContentStart returns a SectionContentStart marker.
func ContentStart() Token { return New(SectionContentStart, "") }

// ContentEnd returns a SectionContentEnd marker.
func ContentEnd() Token { return New(SectionContentEnd, "") }

// LineBreak returns a Newline token.
func LineBreak() Token { return New(Newline, "") }

// Index returns the literal placeholder that stands in for leaf section i.
func Index(i int) Token { return New(Literal, strconv.Itoa(i)) }

// WithLineID returns a copy of t defining id.
func (t Token) WithLineID(id string) Token {
	t.LineID = id
	return t
}

// WithNavigation returns a copy of t linking to id.
func (t Token) WithNavigation(id string) Token {
	t.NavigationID = id
	return t
}

// UnmarshalJSON decodes a token and rejects objects without a Kind.
func (t *Token) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind         *Kind  `json:"Kind"`
		Value        string `json:"Value"`
		LineID       string `json:"DefinitionId"`
		NavigationID string `json:"NavigateToId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Kind == nil {
		return errors.New(errors.ErrCodeInvalidTokenKind, "token %q has no Kind", raw.Value)
	}
	*t = Token{Kind: *raw.Kind, Value: raw.Value, LineID: raw.LineID, NavigationID: raw.NavigationID}
	return nil
}
