package render

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/apiview/pkg/fold"
	"github.com/matzehuels/apiview/pkg/token"
)

func TestRenderConcreteScenario(t *testing.T) {
	tokens := []token.Token{
		token.Heading("Namespace Foo"), cs,
		token.Heading("Class Bar"), cs,
		lit("void M()"), nl,
		ce,
		ce,
	}
	folded := fold.Fold(tokens)

	res := Render(folded.Tokens, Options{Mode: ModeText, LeafCount: len(folded.Leaves)})

	if got, want := texts(res.Lines, ModeText), []string{"Namespace Foo", "Class Bar", "0"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	if len(res.Sections) != 2 {
		t.Fatalf("len(Sections) = %d, want 2", len(res.Sections))
	}

	ns, bar := res.Sections[0], res.Sections[1]
	if !ns.IsRoot() || ns.Level != 0 {
		t.Errorf("namespace node: root=%v level=%d", ns.IsRoot(), ns.Level)
	}
	if bar.Parent != ns || bar.Level != 1 {
		t.Errorf("class node: parent=%v level=%d", bar.Parent, bar.Level)
	}
	if len(bar.Children) != 1 {
		t.Fatalf("class children = %d, want 1", len(bar.Children))
	}
	placeholder := bar.Children[0]
	if !placeholder.IsLeaf() || placeholder.Level != 2 {
		t.Errorf("placeholder: leaf=%v level=%d", placeholder.IsLeaf(), placeholder.Level)
	}
	if k := res.Lines[2].SectionKey; k == nil || *k != 0 {
		t.Errorf("placeholder SectionKey = %v, want 0", k)
	}
	if ns.IsLeaf() || bar.IsLeaf() {
		t.Error("heading nodes must not be leaves")
	}
	if s := res.Lines[1].Section; s == nil || *s != 1 {
		t.Errorf("class line Section = %v, want 1", s)
	}

	leaf := Render(folded.Leaves[0], Options{Mode: ModeInteractive})
	if len(leaf.Lines) != 1 || TextOf(leaf.Lines[0].Display, ModeInteractive) != "void M()" {
		t.Errorf("leaf render = %+v, want single line %q", leaf.Lines, "void M()")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	folded := sampleFolded()
	if len(folded.Leaves) != 3 {
		t.Fatalf("len(Leaves) = %d, want 3", len(folded.Leaves))
	}

	for _, mode := range Modes {
		for _, docs := range []bool{false, true} {
			for _, skip := range []bool{false, true} {
				t.Run(fmt.Sprintf("%s/docs=%v/skip=%v", mode, docs, skip), func(t *testing.T) {
					opts := Options{Mode: mode, ShowDocumentation: docs, SkipDiff: skip, Diagnostics: sampleDiagnostics}
					want := Render(sampleTokens(), opts).Lines
					opts.LeafCount = len(folded.Leaves)
					got := Expand(Render(folded.Tokens, opts), folded.Leaves)
					if !EqualLines(got, want) {
						t.Errorf("expanded lines differ\n got: %q\nwant: %q", texts(got, mode), texts(want, mode))
					}
				})
			}
		}
	}
}

func TestRenderIdempotent(t *testing.T) {
	tokens := sampleTokens()
	orig := append([]token.Token(nil), tokens...)
	opts := Options{Mode: ModeInteractive, Diagnostics: sampleDiagnostics}

	a := Render(tokens, opts)
	b := Render(tokens, opts)

	if !reflect.DeepEqual(a.Lines, b.Lines) {
		t.Error("two renders with the same options differ")
	}
	if !reflect.DeepEqual(tokens, orig) {
		t.Error("Render modified its input")
	}
}

func TestRenderDocumentation(t *testing.T) {
	hidden := Render(sampleTokens(), Options{Mode: ModeText})
	shown := Render(sampleTokens(), Options{Mode: ModeText, ShowDocumentation: true})

	wantHidden := []string{
		"namespace Azure.Storage",
		"public class BlobClient",
		`    public Response Upload("a<b>");`,
		"    void Old();",
		"// generated 2024",
		"public enum Tier",
		"Hot",
		"struct Empty",
		"}",
	}
	if got := texts(hidden.Lines, ModeText); !reflect.DeepEqual(got, wantHidden) {
		t.Errorf("hidden docs lines =\n%q\nwant\n%q", got, wantHidden)
	}

	if got := len(shown.Lines); got != len(wantHidden)+2 {
		t.Fatalf("len(shown.Lines) = %d, want %d", got, len(wantHidden)+2)
	}
	doc := shown.Lines[0]
	if doc.Display != "/// Storage APIs" || doc.Number != nil || doc.Class != "documentation" {
		t.Errorf("doc line = %+v", doc)
	}
	if n := shown.Lines[1].Number; n == nil || *n != 1 {
		t.Errorf("first code line number = %v, want 1", n)
	}

	// Documentation inside the namespace becomes a child of its heading.
	ns := shown.Sections[0]
	if first := ns.Children[0]; first.Line.Display != "/// A client." || first.Level != 1 {
		t.Errorf("first namespace child = %+v", first.Line)
	}
	if len(shown.Sections) != len(hidden.Sections) {
		t.Errorf("section count changed with documentation: %d vs %d", len(shown.Sections), len(hidden.Sections))
	}
}

func TestRenderSkipDiff(t *testing.T) {
	res := Render(sampleTokens(), Options{Mode: ModeText, SkipDiff: true})
	for _, l := range res.Lines {
		if strings.Contains(l.Display, "generated") {
			t.Errorf("skip-diff line rendered: %q", l.Display)
		}
	}
}

func TestRenderLineIdentityAndClasses(t *testing.T) {
	res := Render(sampleTokens(), Options{Mode: ModeText, Diagnostics: sampleDiagnostics})

	byID := map[string]Line{}
	for _, l := range res.Lines {
		if l.ElementID != "" {
			byID[l.ElementID] = l
		}
	}

	if got := byID["M:Upload"].Class; got != "diagnostic-warning" {
		t.Errorf("Upload class = %q, want %q", got, "diagnostic-warning")
	}
	if got := byID["M:Old"].Class; got != "deprecated" {
		t.Errorf("Old class = %q, want %q", got, "deprecated")
	}
	if got := byID["F:Hot"].Display; got != "Hot" {
		t.Errorf("F:Hot display = %q", got)
	}
	if _, ok := byID["T:Response"]; ok {
		t.Error("navigation targets must not become element ids")
	}
}

func TestRenderMarkup(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeInteractive, `    <span class="keyword">public</span> <a href="#T:Response" class="type-name">Response</a> <span class="name" id="M:Upload">Upload</span>(<span class="string">&#34;a&lt;b&gt;&#34;</span>);`},
		{ModeReadOnly, `    <span class="keyword">public</span> <span class="type-name">Response</span> <span class="name">Upload</span>(<span class="string">&#34;a&lt;b&gt;&#34;</span>);`},
		{ModeText, `    public Response Upload("a<b>");`},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			res := Render(sampleTokens(), Options{Mode: tt.mode})
			if got := res.Lines[2].Display; got != tt.want {
				t.Errorf("display =\n%s\nwant\n%s", got, tt.want)
			}
			if got := TextOf(res.Lines[2].Display, tt.mode); got != `    public Response Upload("a<b>");` {
				t.Errorf("TextOf = %q", got)
			}
		})
	}
}

func TestRenderRangeMarkup(t *testing.T) {
	res := Render(sampleTokens(), Options{Mode: ModeReadOnly})
	old := res.Lines[3].Display
	if !strings.HasPrefix(old, `<span class="deprecated">`) {
		t.Errorf("deprecated line not wrapped: %s", old)
	}
	if strings.Count(old, "<span") != strings.Count(old, "</span>") {
		t.Errorf("unbalanced spans: %s", old)
	}
}

func TestRenderTree(t *testing.T) {
	folded := sampleFolded()
	res := Render(folded.Tokens, Options{Mode: ModeText, LeafCount: len(folded.Leaves)})

	wantSections := []string{"namespace Azure.Storage", "public class BlobClient", "public enum Tier", "struct Empty"}
	for i, want := range wantSections {
		n, ok := res.Section(i)
		if !ok || n.Line.Display != want {
			t.Errorf("Section(%d) = %v, want %q", i, n, want)
		}
	}
	if _, ok := res.Section(len(wantSections)); ok {
		t.Error("Section beyond range should not exist")
	}
	if _, ok := res.Section(-1); ok {
		t.Error("Section(-1) should not exist")
	}

	if len(res.Roots) != 2 {
		t.Errorf("len(Roots) = %d, want 2 (namespace and closing brace)", len(res.Roots))
	}

	ns := res.Sections[0]
	var keys []int
	for n := range ns.All() {
		if n.Line.SectionKey != nil {
			keys = append(keys, *n.Line.SectionKey)
		}
	}
	if !reflect.DeepEqual(keys, []int{0, 1, 2}) {
		t.Errorf("section keys in pre-order = %v, want [0 1 2]", keys)
	}
	if got := len(ns.Descendants()); got != 6 {
		t.Errorf("len(Descendants()) = %d, want 6", got)
	}
}

func TestHierarchyClass(t *testing.T) {
	res := Render(sampleFolded().Tokens, Options{Mode: ModeText})
	ns, blob := res.Sections[0], res.Sections[1]

	if got := ns.HierarchyClass(); got != "level_0_Parent" {
		t.Errorf("namespace = %q", got)
	}
	if got := blob.HierarchyClass(); got != "level_1_Parent level_1_Child" {
		t.Errorf("class = %q", got)
	}
	if got := blob.Children[0].HierarchyClass(); got != "level_2_Child" {
		t.Errorf("placeholder = %q", got)
	}
	if got := res.Roots[1].HierarchyClass(); got != "" {
		t.Errorf("closing brace = %q", got)
	}
}

func TestRenderUnfoldedLeafLinesHaveNoKey(t *testing.T) {
	res := Render(sampleTokens(), Options{Mode: ModeText})
	blob := res.Sections[1]
	for _, c := range blob.Children {
		if !c.IsLeaf() {
			t.Errorf("%q should be a leaf line", c.Line.Display)
		}
		if c.Line.SectionKey != nil {
			t.Errorf("%q has SectionKey %d", c.Line.Display, *c.Line.SectionKey)
		}
	}
	if res.Sections[0].Children[0].IsLeaf() {
		t.Error("lines of a container region must not be leaves")
	}
}

func TestRenderHeadingBeforeContent(t *testing.T) {
	tokens := []token.Token{
		token.Heading("class X"), nl,
		lit("{"), nl,
		cs, lit("void M()"), nl, ce,
		lit("}"), nl,
	}
	folded := fold.Fold(tokens)

	tests := []struct {
		name   string
		tokens []token.Token
		leaves int
		body   []string
	}{
		{"unfolded", tokens, 0, []string{"{", "void M()"}},
		{"folded", folded.Tokens, len(folded.Leaves), []string{"{", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Render(tt.tokens, Options{Mode: ModeText, LeafCount: tt.leaves})
			heading := res.Sections[0]

			var body []string
			for _, c := range heading.Children {
				body = append(body, c.Line.Display)
				if c.Level != 1 {
					t.Errorf("%q level = %d, want 1", c.Line.Display, c.Level)
				}
			}
			if !reflect.DeepEqual(body, tt.body) {
				t.Errorf("section body = %q, want %q", body, tt.body)
			}
			if got := len(res.Roots); got != 2 {
				t.Errorf("len(Roots) = %d, want 2 (heading and closing brace)", got)
			}
		})
	}

	res := Render(folded.Tokens, Options{Mode: ModeText, LeafCount: len(folded.Leaves)})
	if k := res.Sections[0].Children[1].Line.SectionKey; k == nil || *k != 0 {
		t.Errorf("placeholder SectionKey = %v, want 0", k)
	}
}

func TestRenderPlaceholderKeys(t *testing.T) {
	enum := func(body ...token.Token) []token.Token {
		return append(append([]token.Token{token.Heading("enum E"), nl, cs}, body...), ce)
	}

	tests := []struct {
		name   string
		tokens []token.Token
		leaves int
		want   map[string]int
	}{
		{"unfolded digit member", enum(lit("7"), nl), 0, nil},
		{"index beyond side table", enum(lit("7"), nl), 7, nil},
		{"index inside side table", enum(lit("7"), nl), 8, map[string]int{"7": 7}},
		{"digits of another kind", enum(name("7"), nl), 8, nil},
		{"two digit lines", enum(lit("1"), nl, lit("2"), nl), 5, nil},
		{"digit with trailing token", enum(lit("1"), punct(","), nl), 5, nil},
		{"digit inside documentation", enum(token.New(token.DocumentRangeStart, ""), lit("1"), nl, token.New(token.DocumentRangeEnd, "")), 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range Modes {
				res := Render(tt.tokens, Options{Mode: mode, LeafCount: tt.leaves, ShowDocumentation: true})
				got := map[string]int{}
				for _, l := range res.Lines {
					if l.SectionKey != nil {
						got[TextOf(l.Display, mode)] = *l.SectionKey
					}
				}
				want := tt.want
				if want == nil {
					want = map[string]int{}
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("%s: section keys = %v, want %v", mode, got, want)
				}
			}
		})
	}
}

func TestRenderMalformed(t *testing.T) {
	tests := []struct {
		name   string
		tokens []token.Token
		lines  int
	}{
		{"stray end", []token.Token{lit("a"), ce, lit("b"), nl}, 2},
		{"unclosed start", []token.Token{token.Heading("h"), cs, lit("a"), nl}, 2},
		{"heading without content", []token.Token{token.Heading("h"), nl, lit("a"), nl}, 2},
		{"only markers", []token.Token{cs, cs, ce}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Render(tt.tokens, Options{Mode: ModeInteractive})
			if len(res.Lines) != tt.lines {
				t.Errorf("len(Lines) = %d, want %d", len(res.Lines), tt.lines)
			}
		})
	}
}

func TestRenderBlankLines(t *testing.T) {
	res := Render([]token.Token{lit("a"), nl, nl, lit("b"), nl}, Options{Mode: ModeText})
	if got := texts(res.Lines, ModeText); !reflect.DeepEqual(got, []string{"a", "", "b"}) {
		t.Errorf("lines = %q", got)
	}
}

func TestRenderDocumentationKinds(t *testing.T) {
	table := DefaultTable()
	table.DocumentationKinds[token.Comment] = true
	table.KindClasses[token.Keyword] = "has-keyword"

	tokens := []token.Token{kw("int"), ws(" "), name("X"), punct(";"), ws(" "), token.New(token.Comment, "// note"), nl, token.New(token.Comment, "// alone"), nl}

	hidden := Render(tokens, Options{Mode: ModeText, Table: table})
	if got := texts(hidden.Lines, ModeText); !reflect.DeepEqual(got, []string{"int X; "}) {
		t.Errorf("hidden = %q", got)
	}
	if hidden.Lines[0].Class != "has-keyword" {
		t.Errorf("class = %q", hidden.Lines[0].Class)
	}

	shown := Render(tokens, Options{Mode: ModeText, Table: table, ShowDocumentation: true})
	if got := texts(shown.Lines, ModeText); !reflect.DeepEqual(got, []string{"int X; // note", "// alone"}) {
		t.Errorf("shown = %q", got)
	}
}

func TestParseSectionKey(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1a", 0, false},
		{" 1", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseSectionKey(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSectionKey(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTextOf(t *testing.T) {
	tests := []struct {
		display string
		mode    Mode
		want    string
	}{
		{`<span class="keyword">a &amp; b</span>`, ModeInteractive, "a & b"},
		{`<a href="#x">List&lt;T&gt;</a>`, ModeReadOnly, "List<T>"},
		{`List<T>`, ModeText, "List<T>"},
		{`plain`, ModeInteractive, "plain"},
	}
	for _, tt := range tests {
		if got := TextOf(tt.display, tt.mode); got != tt.want {
			t.Errorf("TextOf(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}

func TestLineEqual(t *testing.T) {
	a := Line{Display: "x", ElementID: "id", Class: "c1", Number: intPtr(1)}
	b := Line{Display: "x", ElementID: "id", Class: "c2", Number: intPtr(9)}
	if !a.Equal(b) {
		t.Error("lines differing only in class and number should be equal")
	}
	if a.Equal(Line{Display: "x", ElementID: "other"}) {
		t.Error("lines with different ids should differ")
	}
	if a.String() != "x" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestMergeClasses(t *testing.T) {
	tests := []struct{ content, hierarchy, want string }{
		{"", "level_1_Child", "level_1_Child"},
		{"  diagnostic ", "level_1_Child", "diagnostic level_1_Child"},
		{"documentation", "", "documentation"},
		{"", "", ""},
		{"lit", "lit level_2_Child", "lit level_2_Child"},
	}
	for _, tt := range tests {
		if got := MergeClasses(tt.content, tt.hierarchy); got != tt.want {
			t.Errorf("MergeClasses(%q, %q) = %q, want %q", tt.content, tt.hierarchy, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		back, err := ParseMode(m.String())
		if err != nil || back != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), back, err)
		}
	}
	if m, err := ParseMode("Read-Only"); err != nil || m != ModeReadOnly {
		t.Errorf("ParseMode(Read-Only) = %v, %v", m, err)
	}
	if _, err := ParseMode("pdf"); err == nil {
		t.Error("ParseMode(pdf) should fail")
	}
}
