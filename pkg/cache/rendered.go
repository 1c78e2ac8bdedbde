package cache

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/observability"
	"github.com/matzehuels/apiview/pkg/render"
	"github.com/matzehuels/apiview/pkg/token"
)

// RenderedFile wraps one document and memoizes its renders.
//
// Each mode has one slot holding the most recent cacheable render, keyed by
// the mode and a hash of its options. A render is cacheable when it hides
// inline documentation and keeps skip-diff ranges; other renders never read
// or write a slot.
//
// Renders run outside the lock. Concurrent callers may render the same
// variant twice but never observe a partially written slot.
type RenderedFile struct {
	doc    *codefile.CodeFile
	table  *render.Table
	keyer  Keyer
	logger *log.Logger

	mu    sync.Mutex
	slots map[render.Mode]slot
	last  *render.Result
}

type slot struct {
	key    string
	result *render.Result
}

// Option configures a RenderedFile.
type Option func(*RenderedFile)

// WithTable sets the classification table used for every render.
func WithTable(t *render.Table) Option {
	return func(f *RenderedFile) {
		if t != nil {
			f.table = t
		}
	}
}

// WithLogger sets the logger for cache events.
func WithLogger(l *log.Logger) Option {
	return func(f *RenderedFile) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithKeyer sets the keyer used to derive slot keys.
func WithKeyer(k Keyer) Option {
	return func(f *RenderedFile) {
		if k != nil {
			f.keyer = k
		}
	}
}

// New wraps doc. The document must not be modified afterwards.
func New(doc *codefile.CodeFile, opts ...Option) *RenderedFile {
	f := &RenderedFile{
		doc:    doc,
		table:  render.DefaultTable(),
		keyer:  NewDefaultKeyer(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		slots:  make(map[render.Mode]slot, len(render.Modes)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Document returns the wrapped document.
func (f *RenderedFile) Document() *codefile.CodeFile { return f.doc }

// Table returns the classification table.
func (f *RenderedFile) Table() *render.Table { return f.table }

// Render renders interactive markup.
func (f *RenderedFile) Render(ctx context.Context, showDoc bool) []render.Line {
	return f.lines(f.RenderMode(ctx, render.ModeInteractive, showDoc, false))
}

// RenderReadOnly renders markup without anchors or ids.
func (f *RenderedFile) RenderReadOnly(ctx context.Context, showDoc bool) []render.Line {
	return f.lines(f.RenderMode(ctx, render.ModeReadOnly, showDoc, false))
}

// RenderText renders plain text. Skipping diff ranges bypasses the cache.
func (f *RenderedFile) RenderText(ctx context.Context, showDoc, skipDiff bool) []render.Line {
	return f.lines(f.RenderMode(ctx, render.ModeText, showDoc, skipDiff))
}

func (f *RenderedFile) lines(res *render.Result) []render.Line {
	return slices.Clone(res.Lines)
}

// RenderMode renders the document in mode and records the result for
// section lookups. The returned result is shared and must not be modified.
func (f *RenderedFile) RenderMode(ctx context.Context, mode render.Mode, showDoc, skipDiff bool) *render.Result {
	keyType := mode.String()
	if showDoc || skipDiff {
		observability.Cache().OnCacheBypass(ctx, keyType)
		f.logger.Debug("render cache bypass", "mode", keyType, "docs", showDoc, "skip_diff", skipDiff)
		res := f.render(ctx, mode, showDoc, skipDiff)
		f.record(res)
		return res
	}

	key := f.keyer.RenderKey(mode, RenderKeyOpts{Table: f.table.Spec()})

	f.mu.Lock()
	s, ok := f.slots[mode]
	if ok && s.key == key {
		f.last = s.result
		f.mu.Unlock()
		observability.Cache().OnCacheHit(ctx, keyType)
		f.logger.Debug("render cache hit", "mode", keyType)
		return s.result
	}
	f.mu.Unlock()

	observability.Cache().OnCacheMiss(ctx, keyType)
	f.logger.Debug("render cache miss", "mode", keyType)
	res := f.render(ctx, mode, false, false)

	f.mu.Lock()
	f.slots[mode] = slot{key: key, result: res}
	f.last = res
	f.mu.Unlock()
	observability.Cache().OnCacheSet(ctx, keyType, len(res.Lines))
	return res
}

func (f *RenderedFile) render(ctx context.Context, mode render.Mode, showDoc, skipDiff bool) *render.Result {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, mode.String())
	res := render.RenderFile(f.doc, render.Options{
		Mode:              mode,
		ShowDocumentation: showDoc,
		SkipDiff:          skipDiff,
		Table:             f.table,
	})
	observability.Pipeline().OnRenderComplete(ctx, mode.String(), len(res.Lines), time.Since(start))
	return res
}

func (f *RenderedFile) record(res *render.Result) {
	f.mu.Lock()
	f.last = res
	f.mu.Unlock()
}

// LastResult returns the result of the most recent render, or nil.
func (f *RenderedFile) LastResult() *render.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// GetCodeLineSection returns the expanded body of section id from the most
// recent render. If nothing was rendered yet, an interactive render without
// documentation is performed first. See GetCodeLineSectionOf.
func (f *RenderedFile) GetCodeLineSection(ctx context.Context, id int) ([]render.Line, error) {
	res := f.LastResult()
	if res == nil {
		res = f.RenderMode(ctx, render.ModeInteractive, false, false)
	}
	return f.GetCodeLineSectionOf(ctx, res, id)
}

// GetCodeLineSectionOf returns the expanded body of section id in res, which
// must be a render of this file. Every line gets its hierarchy classes, with
// content classes first. Placeholder lines are replaced by their leaf body.
// Leaves are re-rendered in the mode and with the options of res, so a text
// render expands to text rather than interactive markup. A placeholder whose
// index is not in the side table is returned as is. A section with an empty
// body yields an empty slice.
func (f *RenderedFile) GetCodeLineSectionOf(_ context.Context, res *render.Result, id int) ([]render.Line, error) {
	node, ok := res.Section(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeSectionOutOfRange, "section %d out of range (document has %d sections)", id, len(res.Sections))
	}

	out := []render.Line{}
	for _, n := range node.Descendants() {
		class := render.MergeClasses(n.Line.Class, n.HierarchyClass())
		if leaf, ok := f.leafOf(n); ok {
			for _, l := range render.RenderLeaf(res, leaf).Lines {
				out = append(out, l.WithClass(render.MergeClasses(l.Class, class)))
			}
			continue
		}
		out = append(out, n.Line.WithClass(class))
	}
	return out, nil
}

func (f *RenderedFile) leafOf(n *render.Node) ([]token.Token, bool) {
	if !n.IsLeaf() || n.Line.SectionKey == nil {
		return nil, false
	}
	return f.doc.LeafSection(*n.Line.SectionKey)
}

// Expand renders the document and splices every leaf body into place.
func (f *RenderedFile) Expand(ctx context.Context, mode render.Mode, showDoc, skipDiff bool) []render.Line {
	res := f.RenderMode(ctx, mode, showDoc, skipDiff)
	return render.Expand(res, f.doc.LeafSections)
}
