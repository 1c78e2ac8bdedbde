package render_test

import (
	"fmt"

	"github.com/matzehuels/apiview/pkg/fold"
	"github.com/matzehuels/apiview/pkg/render"
	"github.com/matzehuels/apiview/pkg/token"
)

func Example() {
	tokens := []token.Token{
		token.Heading("namespace Foo"), token.LineBreak(),
		token.ContentStart(),
		token.New(token.Keyword, "class"), token.New(token.Whitespace, " "),
		token.New(token.TypeName, "Bar").WithLineID("T:Bar"), token.LineBreak(),
		token.ContentEnd(),
	}
	folded := fold.Fold(tokens)

	res := render.Render(folded.Tokens, render.Options{Mode: render.ModeText, LeafCount: len(folded.Leaves)})
	for _, l := range res.Lines {
		fmt.Printf("%q leaf=%v\n", l.Display, l.SectionKey != nil)
	}
	for _, l := range render.Expand(res, folded.Leaves) {
		fmt.Println(l.Display)
	}
	// Output:
	// "namespace Foo" leaf=false
	// "0" leaf=true
	// namespace Foo
	// class Bar
}

func ExampleRender_interactive() {
	tokens := []token.Token{
		token.New(token.Keyword, "func"), token.New(token.Whitespace, " "),
		token.New(token.MemberName, "Get").WithLineID("M:Get"),
		token.New(token.Punctuation, "() "),
		token.New(token.TypeName, "Item").WithNavigation("T:Item"),
	}
	res := render.Render(tokens, render.Options{Mode: render.ModeInteractive})
	fmt.Println(res.Lines[0].Display)
	fmt.Println(res.Lines[0].ElementID)
	// Output:
	// <span class="keyword">func</span> <span class="name" id="M:Get">Get</span>() <a href="#T:Item" class="type-name">Item</a>
	// M:Get
}
