// Package pipeline provides the load → render → encode pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: decode a document envelope and optionally fold it
//  2. Render: render lines through a [cache.RenderedFile]
//  3. Encode: produce text, JSON, or HTML output
//
// Rendered lines are cached as artifacts keyed by the document hash and the
// render options, so repeated CLI runs over an unchanged file skip stages 1
// and 2.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:        "api.json",
//	    HasSections: true,
//	    Mode:        "text",
//	})
//	os.Stdout.Write(result.Artifact)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/render"
)

// Format constants for encoded output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// DefaultFormat is the output format when none is set.
const DefaultFormat = FormatText

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatHTML: true,
}

// Options configures a pipeline run.
type Options struct {
	// Load options
	Path        string `json:"path,omitempty"`
	Data        []byte `json:"-"`
	HasSections bool   `json:"has_sections,omitempty"`
	Strict      bool   `json:"strict,omitempty"`

	// Render options
	Mode              string `json:"mode,omitempty"`
	ShowDocumentation bool   `json:"show_documentation,omitempty"`
	SkipDiff          bool   `json:"skip_diff,omitempty"`
	Expand            bool   `json:"expand,omitempty"`
	TablePath         string `json:"table,omitempty"`

	// Encode options
	Format string `json:"format,omitempty"`

	// Refresh ignores cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger   `json:"-"`
	Table  *render.Table `json:"-"`

	mode      render.Mode
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the loaded document. It is nil when lines came from cache.
	Document *codefile.CodeFile

	// File wraps Document. It is nil when lines came from cache.
	File *cache.RenderedFile

	// DocHash is the content hash of the input envelope.
	DocHash string

	Lines    []render.Line
	Artifact []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TokenCount   int
	LeafCount    int
	LineCount    int
	SectionCount int
	LoadTime     time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether the lines came from the artifact cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, json, html)", format)
	}
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults checks the options, applies defaults, and loads the
// classification table. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if o.Path == "" && o.Data == nil {
		return errors.New(errors.ErrCodeInvalidInput, "a document path or data is required")
	}
	if err := o.ValidateRender(); err != nil {
		return err
	}
	if o.Table == nil && o.TablePath != "" {
		t, err := render.LoadTable(o.TablePath)
		if err != nil {
			return err
		}
		o.Table = t
	}
	if o.Table == nil {
		o.Table = render.DefaultTable()
	}
	o.validated = true
	return nil
}

// ValidateRender checks only the render and encode options. It is used when
// the document is already open.
func (o *Options) ValidateRender() error {
	o.SetDefaults()
	mode, err := render.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	o.mode = mode
	return ValidateFormat(o.Format)
}

// RenderMode returns the parsed mode. Valid after ValidateRender.
func (o *Options) RenderMode() render.Mode { return o.mode }

// ReadOptions returns the load options.
func (o *Options) ReadOptions() codefile.ReadOptions {
	return codefile.ReadOptions{HasSections: o.HasSections, Strict: o.Strict}
}

// ArtifactKeyOpts returns cache key options for rendered lines.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	spec, _ := json.Marshal(o.Table.Spec())
	return cache.ArtifactKeyOpts{
		Mode:              o.mode.String(),
		ShowDocumentation: o.ShowDocumentation,
		SkipDiff:          o.SkipDiff,
		Expand:            o.Expand,
		HasSections:       o.HasSections,
		Strict:            o.Strict,
		TableHash:         cache.Hash(spec),
	}
}
