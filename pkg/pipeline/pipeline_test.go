package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/render"
)

const sampleEnvelope = `{
  // produced by a language parser
  "Name": "Azure.Sample",
  "Language": "C#",
  "Version": 19,
  "Tokens": [
    {"Kind": "FoldableSectionHeading", "Value": "namespace Azure.Sample", "DefinitionId": "N:Azure.Sample"},
    {"Kind": 1, "Value": ""},
    {"Kind": 18, "Value": ""},
    {"Kind": "Keyword", "Value": "class"},
    {"Kind": 2, "Value": " "},
    {"Kind": "TypeName", "Value": "Client", "DefinitionId": "T:Client"},
    {"Kind": 1, "Value": ""},
    {"Kind": 19, "Value": ""},
  ],
}`

func writeEnvelope(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.json")
	if err := os.WriteFile(path, []byte(sampleEnvelope), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"html", false},
		{"svg", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Path: "api.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}
	if opts.RenderMode() != render.ModeInteractive {
		t.Errorf("mode = %v, want interactive", opts.RenderMode())
	}
	if opts.Logger == nil || opts.Table == nil {
		t.Error("Logger and Table should be set")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad mode", Options{Path: "a.json", Mode: "pdf"}, errors.ErrCodeInvalidMode},
		{"bad format", Options{Path: "a.json", Format: "svg"}, errors.ErrCodeInvalidFormat},
		{"bad table", Options{Path: "a.json", TablePath: "missing.toml"}, errors.ErrCodeInvalidTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	path := writeEnvelope(t)
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(ctx, Options{Path: path, Mode: "text"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := "namespace Azure.Sample\nclass Client\n"
	if string(result.Artifact) != want {
		t.Errorf("artifact = %q, want %q", result.Artifact, want)
	}
	if result.Stats.TokenCount != 8 || result.Stats.LineCount != 2 || result.Stats.SectionCount != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Document.VersionString != "19" {
		t.Errorf("VersionString = %q", result.Document.VersionString)
	}
}

func TestExecuteSectionsExpand(t *testing.T) {
	ctx := context.Background()
	path := writeEnvelope(t)
	runner := NewRunner(nil, nil, nil)

	folded, err := runner.Execute(ctx, Options{Path: path, Mode: "text", HasSections: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(folded.Artifact) != "namespace Azure.Sample\n0\n" {
		t.Errorf("folded artifact = %q", folded.Artifact)
	}
	if folded.Stats.LeafCount != 1 {
		t.Errorf("LeafCount = %d", folded.Stats.LeafCount)
	}

	expanded, err := runner.Execute(ctx, Options{Path: path, Mode: "text", HasSections: true, Expand: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(expanded.Artifact) != "namespace Azure.Sample\nclass Client\n" {
		t.Errorf("expanded artifact = %q", expanded.Artifact)
	}
}

func TestExecuteCachesLines(t *testing.T) {
	ctx := context.Background()
	path := writeEnvelope(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{Path: path, Mode: "readonly", Format: "json"}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit || !second.CacheInfo.RenderHit {
		t.Errorf("hits = %v, %v; want false, true", first.CacheInfo.RenderHit, second.CacheInfo.RenderHit)
	}
	if !render.EqualLines(first.Lines, second.Lines) {
		t.Error("cached lines differ from rendered lines")
	}

	refreshed, err := runner.Execute(ctx, Options{Path: path, Mode: "readonly", Format: "json", Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}

	other, err := runner.Execute(ctx, Options{Path: path, Mode: "readonly", Format: "json", ShowDocumentation: true})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheInfo.RenderHit {
		t.Error("different options must not share an entry")
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Execute(ctx, Options{Path: filepath.Join(t.TempDir(), "missing.json")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	_, err = runner.Execute(ctx, Options{Data: []byte(`{"Tokens": [{"Kind": "Banner"}]}`)})
	if !errors.Is(err, errors.ErrCodeInvalidEnvelope) {
		t.Errorf("bad kind error = %v", err)
	}
}

func TestEncode(t *testing.T) {
	n := 1
	lines := []render.Line{
		{Display: `<span class="keyword">class</span> A&lt;T&gt;`, ElementID: "T:A", Class: "diagnostic", Number: &n},
	}

	data, err := Encode(lines, render.ModeInteractive, FormatJSON, "doc")
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if doc.Mode != "interactive" || len(doc.Lines) != 1 || doc.Lines[0].ElementID != "T:A" {
		t.Errorf("json = %+v", doc)
	}

	page, err := Encode(lines, render.ModeInteractive, FormatHTML, "doc <1>")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<title>doc &lt;1&gt;</title>",
		`<div class="code-line diagnostic" data-line-id="T:A"><span class="line-number">1</span><span class="keyword">class</span> A&lt;T&gt;</div>`,
	} {
		if !strings.Contains(string(page), want) {
			t.Errorf("html missing %q", want)
		}
	}

	text := []render.Line{{Display: "List<T>"}}
	page, _ = Encode(text, render.ModeText, FormatHTML, "doc")
	if !strings.Contains(string(page), "List&lt;T&gt;") {
		t.Error("text-mode lines should be escaped in html")
	}

	if _, err := Encode(lines, render.ModeText, "pdf", "doc"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	f, err := runner.Open(ctx, Options{Path: writeEnvelope(t), HasSections: true})
	if err != nil {
		t.Fatal(err)
	}
	lines, err := f.GetCodeLineSection(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || render.TextOf(lines[0].Display, render.ModeInteractive) != "class Client" {
		t.Errorf("section 0 = %+v", lines)
	}
}
