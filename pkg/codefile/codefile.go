package codefile

import (
	"strconv"

	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/fold"
	"github.com/matzehuels/apiview/pkg/token"
)

// CodeFile is the serializable envelope of one package's API surface.
type CodeFile struct {
	// Version is the legacy integer version. Use VersionString.
	Version       int    `json:"Version,omitempty"`
	VersionString string `json:"VersionString,omitempty"`

	Name               string `json:"Name,omitempty"`
	Language           string `json:"Language,omitempty"`
	LanguageVariant    string `json:"LanguageVariant,omitempty"`
	PackageName        string `json:"PackageName,omitempty"`
	ServiceName        string `json:"ServiceName,omitempty"`
	PackageDisplayName string `json:"PackageDisplayName,omitempty"`

	Tokens []token.Token `json:"Tokens"`

	// LeafSections is nil until the document has been folded.
	LeafSections [][]token.Token `json:"LeafSections,omitempty"`

	Navigation  []NavigationItem `json:"Navigation,omitempty"`
	Diagnostics []Diagnostic     `json:"Diagnostics,omitempty"`
}

// Migrate applies the legacy field rules. It is idempotent.
func (f *CodeFile) Migrate() {
	if f.VersionString == "" {
		f.VersionString = strconv.Itoa(f.Version)
	}
	if f.Tokens == nil {
		f.Tokens = []token.Token{}
	}
}

// Folded reports whether the leaf side table is present.
func (f *CodeFile) Folded() bool {
	return f.LeafSections != nil
}

// Fold extracts the leaf regions of the token stream into LeafSections.
// A document can be folded once; folding it again returns FOLD_APPLIED.
func (f *CodeFile) Fold() error {
	if f.Folded() {
		return errors.New(errors.ErrCodeFoldApplied, "document %q is already folded", f.Name)
	}
	res := fold.Fold(f.Tokens)
	f.Tokens = res.Tokens
	f.LeafSections = res.Leaves
	return nil
}

// LeafSection returns the extracted body at index i.
func (f *CodeFile) LeafSection(i int) ([]token.Token, bool) {
	if i < 0 || i >= len(f.LeafSections) {
		return nil, false
	}
	return f.LeafSections[i], true
}
