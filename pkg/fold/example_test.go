package fold_test

import (
	"fmt"

	"github.com/matzehuels/apiview/pkg/fold"
	"github.com/matzehuels/apiview/pkg/token"
)

func ExampleFold() {
	tokens := []token.Token{
		token.Heading("namespace Foo"), token.ContentStart(),
		token.Heading("class Bar"), token.ContentStart(),
		token.New(token.Literal, "void M()"), token.LineBreak(),
		token.ContentEnd(),
		token.ContentEnd(),
	}

	res := fold.Fold(tokens)
	for _, t := range res.Tokens {
		fmt.Printf("%s %q\n", t.Kind, t.Value)
	}
	fmt.Println("leaves:", len(res.Leaves))
	// Output:
	// FoldableSectionHeading "namespace Foo"
	// FoldableSectionContentStart ""
	// FoldableSectionHeading "class Bar"
	// FoldableSectionContentStart ""
	// Literal "0"
	// Newline ""
	// FoldableSectionContentEnd ""
	// FoldableSectionContentEnd ""
	// leaves: 1
}
