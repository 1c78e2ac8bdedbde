package render

import "github.com/matzehuels/apiview/pkg/token"

// RenderLeaf renders one extracted leaf body with the options of res.
// Leaves are rendered independently and carry no diagnostics context beyond
// the options' diagnostics. A leaf body never holds placeholders.
func RenderLeaf(res *Result, leaf []token.Token) *Result {
	opts := res.Options
	opts.LeafCount = 0
	return Render(leaf, opts)
}

// Expand returns the lines of res with every placeholder line replaced by the
// rendered lines of the leaf it refers to. Placeholders whose key is outside
// leaves are kept. Line numbers are reassigned in output order.
func Expand(res *Result, leaves [][]token.Token) []Line {
	out := make([]Line, 0, len(res.Lines))
	for _, l := range res.Lines {
		if l.SectionKey == nil || *l.SectionKey >= len(leaves) {
			out = append(out, l)
			continue
		}
		out = append(out, RenderLeaf(res, leaves[*l.SectionKey]).Lines...)
	}
	return renumber(out)
}

func renumber(lines []Line) []Line {
	n := 0
	for i := range lines {
		if lines[i].Number == nil {
			continue
		}
		n++
		lines[i].Number = intPtr(n)
	}
	return lines
}
