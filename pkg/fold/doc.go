// Package fold extracts the innermost foldable regions of a token stream.
//
// A producer encodes a tree of collapsible regions (namespaces, types,
// members) inside a flat token stream with heading and content markers.
// Folding moves the body of every innermost region, called a leaf, into a
// side table and leaves a placeholder behind, so the remaining skeleton stays
// small and leaf bodies can be rendered only when a reader expands them.
//
// # Stages
//
// [Build] parses the stream into an owned [Tree] of [Region] values using an
// explicit stack. [Flatten] walks that tree and produces the skeleton plus the
// leaf side table. [Fold] runs both.
//
// # Leaf regions
//
// A region is a leaf when it is closed and its body holds neither a nested
// region nor a [token.SectionHeading]. A leaf at index i is replaced by:
//
//	SectionContentStart, Literal("i"), Newline, SectionContentEnd
//
// Containers stay inline so nested navigation keeps working.
//
// # Malformed input
//
// Unmatched content ends are kept as ordinary tokens. Regions that are never
// closed stay open and are emitted inline. Neither case is an error.
package fold
