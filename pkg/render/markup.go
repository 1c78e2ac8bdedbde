package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/apiview/pkg/token"
)

// spanClass is the markup class of each token kind. Kinds without an entry
// are written as escaped text.
var spanClass = map[token.Kind]string{
	token.Keyword:        "keyword",
	token.TypeName:       "type-name",
	token.MemberName:     "name",
	token.StringLiteral:  "string",
	token.Literal:        "literal",
	token.Comment:        "comment",
	token.SectionHeading: "section-heading",
}

// markup writes the display form of tok for mode. rangeClass is the class of
// any documentation or deprecated range the token sits in.
func markup(b *strings.Builder, tok token.Token, mode Mode, rangeClass string) {
	if mode == ModeText {
		b.WriteString(tok.Value)
		return
	}

	interactive := mode == ModeInteractive
	class := spanClass[tok.Kind]
	id := ""
	if interactive {
		id = tok.LineID
	}
	if rangeClass != "" {
		b.WriteString(`<span class="` + html.EscapeString(rangeClass) + `">`)
		defer b.WriteString("</span>")
	}

	value := html.EscapeString(tok.Value)
	switch {
	case interactive && tok.Kind == token.TypeName && tok.NavigationID != "":
		b.WriteString(`<a href="#` + html.EscapeString(tok.NavigationID) + `" class="` + class + `"`)
		writeID(b, id)
		b.WriteString(">" + value + "</a>")
	case class != "":
		b.WriteString(`<span class="` + class + `"`)
		writeID(b, id)
		b.WriteString(">" + value + "</span>")
	case id != "":
		b.WriteString("<span")
		writeID(b, id)
		b.WriteString(">" + value + "</span>")
	default:
		b.WriteString(value)
	}
}

func writeID(b *strings.Builder, id string) {
	if id != "" {
		b.WriteString(` id="` + html.EscapeString(id) + `"`)
	}
}

// TextOf returns the text a reader sees in a display string produced by mode.
// Markup is stripped and entities are decoded; text-mode displays are
// returned unchanged.
func TextOf(display string, mode Mode) string {
	if !mode.Markup() || !strings.ContainsAny(display, "<&") {
		return display
	}
	z := html.NewTokenizer(strings.NewReader(display))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
