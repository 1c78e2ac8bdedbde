package cache

import "github.com/matzehuels/apiview/pkg/render"

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey identifies a render of one document: the mode plus a hash
	// of every option that changes its output.
	RenderKey(mode render.Mode, opts RenderKeyOpts) string

	// ArtifactKey identifies an encoded artifact of a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// RenderKeyOpts are the render options that participate in a render key.
type RenderKeyOpts struct {
	ShowDocumentation bool             `json:"show_documentation"`
	SkipDiff          bool             `json:"skip_diff"`
	Table             render.TableSpec `json:"table"`
}

// ArtifactKeyOpts are the options that participate in an artifact key.
// Artifacts hold rendered lines, so output formats share one entry.
type ArtifactKeyOpts struct {
	Mode              string `json:"mode"`
	ShowDocumentation bool   `json:"show_documentation"`
	SkipDiff          bool   `json:"skip_diff"`
	Expand            bool   `json:"expand"`
	HasSections       bool   `json:"has_sections"`
	Strict            bool   `json:"strict"`
	TableHash         string `json:"table_hash,omitempty"`
}

// DefaultKeyer hashes options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(mode render.Mode, opts RenderKeyOpts) string {
	return hashKey("render:"+mode.String(), opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
