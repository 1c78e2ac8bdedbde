package fold

import "github.com/matzehuels/apiview/pkg/token"

// Result is the storage form of a folded stream.
type Result struct {
	// Tokens is the skeleton with every leaf body replaced by its index.
	Tokens []token.Token

	// Leaves holds the extracted leaf bodies, indexed by placeholder value.
	Leaves [][]token.Token
}

// Fold extracts the leaf regions of tokens. It is equivalent to
// Flatten(Build(tokens)).
func Fold(tokens []token.Token) Result {
	return Flatten(Build(tokens))
}

// Flatten emits the skeleton of t in stream order, assigning leaf indexes in
// the order the leaves appear.
func Flatten(t *Tree) Result {
	res := Result{Leaves: [][]token.Token{}}
	flatten(&res, t.Items)
	return res
}

func flatten(res *Result, items []Item) {
	for _, it := range items {
		if !it.IsRegion() {
			res.Tokens = append(res.Tokens, it.Token)
			continue
		}

		r := it.Region
		res.Tokens = append(res.Tokens, r.Start)
		if r.IsLeaf() {
			body := r.Tokens()
			if body == nil {
				body = []token.Token{}
			}
			res.Tokens = append(res.Tokens, token.Index(len(res.Leaves)), token.LineBreak())
			res.Leaves = append(res.Leaves, body)
		} else {
			flatten(res, r.Body)
		}
		if !r.Open {
			res.Tokens = append(res.Tokens, r.End)
		}
	}
}
