// Package token defines the atomic unit of an API-surface document.
//
// A document is a flat, ordered sequence of [Token] values produced by a
// language-specific parser. Each token carries a [Kind], the text to display,
// and optional identity metadata used for deep links and annotations.
//
// # Section markers
//
// Three kinds encode a tree inside the flat stream:
//
//   - [SectionHeading] marks the line that introduces a collapsible region
//   - [SectionContentStart] opens the region body
//   - [SectionContentEnd] closes it
//
// Well-formed producers nest these markers properly; consumers in this module
// tolerate streams that do not.
//
// # Wire format
//
// Tokens are encoded as JSON objects with the field names used by existing
// producers (Kind, Value, DefinitionId, NavigateToId). A kind is written as
// its number and may be read from either its number or its name:
//
//	{"Kind": 4, "Value": "class"}
//	{"Kind": "Keyword", "Value": "class"}
//
// Unknown kinds are rejected with an INVALID_TOKEN_KIND error.
package token
