// Package render turns token streams into display lines and a section tree.
//
// # Overview
//
// [Render] makes one pass over a token stream and produces a [Result]:
//
//   - Lines: every display line in stream order
//   - Sections: the heading node of every foldable region, indexed by section id
//   - Roots: the top-level nodes of the render forest
//
// The same stream always renders to the same result for the same [Options].
// The input is never modified.
//
// # Modes
//
// Three output forms are supported:
//
//   - [ModeInteractive]: escaped HTML spans, navigation anchors and element ids
//   - [ModeReadOnly]: the same spans without anchors or ids
//   - [ModeText]: raw token values, used for byte-level comparison
//
// # Sections
//
// A line holding a [token.SectionHeading] becomes a heading node and receives
// the next section id in stream order. Lines between the following content
// start and its matching content end become children of that node, so
// nesting in the token stream becomes nesting in the forest. Lines between a
// heading and its content start, such as an opening brace, are children too.
//
// Lines directly inside a region that holds no nested heading are leaf
// lines. A region whose body is exactly Literal(index) and a newline, as
// folding leaves behind, is a placeholder: when the index is below
// [Options.LeafCount] its line carries it as [Line.SectionKey].
//
// # Classification
//
// Which token kinds count as documentation, which classes a kind adds to its
// line, and which classes diagnostics add are configured by a [Table]. Tables
// can be loaded from TOML:
//
//	table, err := render.LoadTable("classes.toml")
//	res := render.Render(doc.Tokens, render.Options{Mode: render.ModeText, Table: table})
//
// The [nodelink] subpackage draws a render forest with Graphviz.
//
// [nodelink]: github.com/matzehuels/apiview/pkg/render/nodelink
package render
