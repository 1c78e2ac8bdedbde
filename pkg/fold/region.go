package fold

import "github.com/matzehuels/apiview/pkg/token"

// Item is one entry of a region body: either a single token or a nested region.
type Item struct {
	Token  token.Token
	Region *Region
}

// IsRegion reports whether the item holds a nested region.
func (it Item) IsRegion() bool { return it.Region != nil }

// Region is a span opened by a SectionContentStart token.
type Region struct {
	Start token.Token
	Body  []Item
	End   token.Token

	// Open is true when the stream ended before the region was closed.
	Open bool
}

// IsLeaf reports whether the region body can be extracted into the side
// table. Open regions are never leaves.
func (r *Region) IsLeaf() bool {
	if r.Open {
		return false
	}
	for _, it := range r.Body {
		if it.IsRegion() || it.Token.Kind == token.SectionHeading {
			return false
		}
	}
	return true
}

// Tokens returns the region body in stream order, without the region's own
// start and end markers.
func (r *Region) Tokens() []token.Token {
	var out []token.Token
	appendItems(&out, r.Body)
	return out
}

// Tree is the top level of a parsed token stream.
type Tree struct {
	Items []Item

	// Unmatched counts content ends that had no open region.
	Unmatched int
}

// WellFormed reports whether every content start in the stream was matched
// by exactly one content end.
func (t *Tree) WellFormed() bool {
	if t.Unmatched > 0 {
		return false
	}
	for _, r := range t.Regions() {
		if r.Open {
			return false
		}
	}
	return true
}

// Regions returns every region in the tree in pre-order.
func (t *Tree) Regions() []*Region {
	var out []*Region
	var walk func(items []Item)
	walk = func(items []Item) {
		for _, it := range items {
			if it.IsRegion() {
				out = append(out, it.Region)
				walk(it.Region.Body)
			}
		}
	}
	walk(t.Items)
	return out
}

// Build parses tokens into a region tree. The input slice is not modified.
func Build(tokens []token.Token) *Tree {
	tree := &Tree{}
	var stack []*Region

	add := func(it Item) {
		if n := len(stack); n > 0 {
			stack[n-1].Body = append(stack[n-1].Body, it)
			return
		}
		tree.Items = append(tree.Items, it)
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case token.SectionContentStart:
			r := &Region{Start: tok}
			add(Item{Region: r})
			stack = append(stack, r)
		case token.SectionContentEnd:
			n := len(stack)
			if n == 0 {
				tree.Unmatched++
				add(Item{Token: tok})
				continue
			}
			stack[n-1].End = tok
			stack = stack[:n-1]
		default:
			add(Item{Token: tok})
		}
	}

	for _, r := range stack {
		r.Open = true
	}
	return tree
}

func appendItems(out *[]token.Token, items []Item) {
	for _, it := range items {
		if !it.IsRegion() {
			*out = append(*out, it.Token)
			continue
		}
		r := it.Region
		*out = append(*out, r.Start)
		appendItems(out, r.Body)
		if !r.Open {
			*out = append(*out, r.End)
		}
	}
}
