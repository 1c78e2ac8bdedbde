// Package codefile holds the document container for a tokenized API surface.
//
// A [CodeFile] carries package identity metadata, the flat token stream, the
// navigation tree shown next to the rendered listing, and diagnostics keyed
// to line identities. After [CodeFile.Fold] it also carries the leaf-section
// side table that lazy expansion reads from.
//
// # Reading documents
//
// Producers write JSON. [Read] accepts comments and trailing commas, applies
// the legacy version migration, and folds the stream when
// [ReadOptions.HasSections] is set:
//
//	doc, err := codefile.ReadFile("Azure.Storage.Blobs.json", codefile.ReadOptions{HasSections: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(doc.Name, doc.VersionString, len(doc.LeafSections))
//
// # Versions
//
// Old documents only carry an integer Version. [CodeFile.Migrate] fills
// VersionString from it once, at load time.
package codefile
