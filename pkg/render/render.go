package render

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/token"
)

// Options configures a render.
type Options struct {
	Mode Mode

	// ShowDocumentation keeps documentation ranges and documentation kinds.
	ShowDocumentation bool

	// SkipDiff drops tokens inside skip-diff ranges.
	SkipDiff bool

	// Table classifies tokens and diagnostics. Nil uses DefaultTable.
	Table *Table

	// Diagnostics add classes to the lines they target.
	Diagnostics []codefile.Diagnostic

	// LeafCount is the size of the leaf side table of a folded document.
	// A region whose body is a single Literal index below LeafCount is a
	// placeholder and its line gets a SectionKey. Zero marks no placeholders.
	LeafCount int
}

// Result is the output of one render.
type Result struct {
	Lines []Line

	// Sections holds the heading node of each section, indexed by id.
	Sections []*Node

	// Roots holds the top-level nodes of the forest.
	Roots []*Node

	// Options are the options the result was produced with.
	Options Options
}

// Section returns the heading node of section id.
func (r *Result) Section(id int) (*Node, bool) {
	if id < 0 || id >= len(r.Sections) {
		return nil, false
	}
	return r.Sections[id], true
}

// Text joins the display of every line with newlines.
func (r *Result) Text() string {
	var b strings.Builder
	for _, l := range r.Lines {
		b.WriteString(l.Display)
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders tokens into lines and a section forest.
func Render(tokens []token.Token, opts Options) *Result {
	if opts.Table == nil {
		opts.Table = DefaultTable()
	}
	r := &renderer{
		opts:  opts,
		table: opts.Table,
		diags: diagnosticLevels(opts.Diagnostics),
		res:   &Result{Lines: []Line{}, Options: opts},
	}
	for _, tok := range tokens {
		r.token(tok)
	}
	r.endLine(false)
	return r.res
}

// RenderFile renders the token stream of f with its diagnostics and leaf
// side table.
func RenderFile(f *codefile.CodeFile, opts Options) *Result {
	if opts.Diagnostics == nil {
		opts.Diagnostics = f.Diagnostics
	}
	opts.LeafCount = len(f.LeafSections)
	return Render(f.Tokens, opts)
}

func diagnosticLevels(diags []codefile.Diagnostic) map[string]codefile.DiagnosticLevel {
	levels := make(map[string]codefile.DiagnosticLevel)
	for target, ds := range codefile.DiagnosticsByTarget(diags) {
		best := ds[0].Level
		for _, d := range ds[1:] {
			best = max(best, d.Level)
		}
		levels[target] = best
	}
	return levels
}

// frame is an open region during rendering.
type frame struct {
	parent *Node
	nodes  []*Node
	nested bool

	// seen counts the tokens of the body outside nested regions; key and
	// placeholder track whether they are exactly Literal(index), Newline.
	seen        int
	key         int
	placeholder bool
}

func (f *frame) see(tok token.Token) {
	f.seen++
	switch f.seen {
	case 1:
		if tok.Kind == token.Literal {
			f.key, f.placeholder = ParseSectionKey(tok.Value)
		}
	case 2:
		f.placeholder = f.placeholder && tok.Kind == token.Newline
	default:
		f.placeholder = false
	}
}

type renderer struct {
	opts  Options
	table *Table
	diags map[string]codefile.DiagnosticLevel
	res   *Result

	// current line
	buf       strings.Builder
	touched   bool
	elided    bool
	heading   bool
	inDocLine bool
	elementID string
	classes   []string

	inDoc        bool
	inDeprecated bool
	inSkipDiff   bool

	frames []*frame
	number int

	// anchor is the latest heading line. Lines up to the next section
	// marker or heading nest under it, and so does the next region.
	anchor *Node
}

func (r *renderer) token(tok token.Token) {
	k := tok.Kind
	if f := r.top(); f != nil && !k.IsSectionMarker() {
		f.see(tok)
	}
	switch k {
	case token.SkipDiffRangeStart:
		r.inSkipDiff = r.opts.SkipDiff
		return
	case token.SkipDiffRangeEnd:
		r.inSkipDiff = false
		return
	}
	if r.inSkipDiff && !k.IsSectionMarker() {
		return
	}

	switch k {
	case token.DocumentRangeStart:
		r.inDoc = true
		return
	case token.DocumentRangeEnd:
		r.inDoc = false
		return
	case token.DeprecatedRangeStart:
		r.inDeprecated = true
		return
	case token.DeprecatedRangeEnd:
		r.inDeprecated = false
		return
	}

	if !r.opts.ShowDocumentation && !k.IsSectionMarker() && (r.inDoc || r.table.DocumentationKinds[k]) {
		r.elided = true
		return
	}

	switch k {
	case token.Newline:
		r.endLine(true)
	case token.SectionContentStart:
		r.endLine(false)
		r.open()
	case token.SectionContentEnd:
		r.endLine(false)
		r.close()
	case token.SectionHeading:
		r.heading = true
		if f := r.top(); f != nil {
			f.nested = true
		}
		r.append(tok)
	default:
		r.append(tok)
	}
}

func (r *renderer) append(tok token.Token) {
	r.touched = true
	if r.inDoc {
		r.inDocLine = true
		r.addClass(r.table.DocumentationClass)
	}
	if r.inDeprecated {
		r.addClass(r.table.DeprecatedClass)
	}
	r.addClass(r.table.lineClassFor(tok.Kind))
	if tok.LineID != "" {
		r.elementID = tok.LineID
	}
	markup(&r.buf, tok, r.opts.Mode, r.rangeClass())
}

func (r *renderer) rangeClass() string {
	var parts []string
	if r.inDoc && r.table.DocumentationClass != "" {
		parts = append(parts, r.table.DocumentationClass)
	}
	if r.inDeprecated && r.table.DeprecatedClass != "" {
		parts = append(parts, r.table.DeprecatedClass)
	}
	return strings.Join(parts, " ")
}

func (r *renderer) addClass(c string) {
	if c != "" && !slices.Contains(r.classes, c) {
		r.classes = append(r.classes, c)
	}
}

// endLine finishes the current line. A newline always produces a line unless
// everything on it was elided; other boundaries only flush pending content.
func (r *renderer) endLine(newline bool) {
	defer r.resetLine()
	if !r.touched && (r.elided || !newline) {
		return
	}

	if level, ok := r.diags[r.elementID]; ok && r.elementID != "" {
		r.addClass(r.table.DiagnosticClasses[level])
	}
	line := Line{
		Display:   r.buf.String(),
		ElementID: r.elementID,
		Class:     strings.Join(r.classes, " "),
	}
	if !r.inDocLine {
		r.number++
		line.Number = intPtr(r.number)
	}

	node := &Node{Index: len(r.res.Lines)}
	switch f := r.top(); {
	case r.anchor != nil && !r.heading:
		r.anchor.add(node)
	case f != nil:
		f.nodes = append(f.nodes, node)
		if f.parent != nil {
			f.parent.add(node)
		}
	}
	if node.Parent == nil {
		r.res.Roots = append(r.res.Roots, node)
	}

	if r.heading {
		line.Section = intPtr(len(r.res.Sections))
		r.res.Sections = append(r.res.Sections, node)
		r.anchor = node
	}
	node.Line = line
	r.res.Lines = append(r.res.Lines, line)
}

func (r *renderer) resetLine() {
	r.buf.Reset()
	r.touched = false
	r.elided = false
	r.heading = false
	r.inDocLine = false
	r.elementID = ""
	r.classes = r.classes[:0]
}

func (r *renderer) top() *frame {
	if n := len(r.frames); n > 0 {
		return r.frames[n-1]
	}
	return nil
}

func (r *renderer) open() {
	parent := r.anchor
	if f := r.top(); f != nil {
		f.nested = true
		if parent == nil {
			parent = f.parent
		}
	}
	r.frames = append(r.frames, &frame{parent: parent})
	r.anchor = nil
}

func (r *renderer) close() {
	f := r.top()
	if f == nil {
		return
	}
	r.frames = r.frames[:len(r.frames)-1]
	r.anchor = nil
	if f.nested {
		return
	}
	for _, n := range f.nodes {
		n.leaf = true
	}
	if f.placeholder && f.seen == 2 && len(f.nodes) == 1 && f.key < r.opts.LeafCount {
		n := f.nodes[0]
		n.Line.SectionKey = intPtr(f.key)
		r.res.Lines[n.Index].SectionKey = intPtr(f.key)
	}
}

// ParseSectionKey parses a leaf placeholder: one or more decimal digits.
func ParseSectionKey(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
