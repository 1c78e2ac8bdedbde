// Package nodelink draws the section forest of a render as a node-link
// diagram.
//
// # Usage
//
// Convert a render result to DOT, then render it to SVG:
//
//	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// By default only section headings and leaf placeholders are drawn. Set
// [Options.AllLines] to include every line of the forest.
//
// Placeholder nodes, which stand for a folded leaf body, are drawn with a
// dashed grey outline.
//
// # Dependencies
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
package nodelink
