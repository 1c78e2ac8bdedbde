package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/token"
)

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTable(t *testing.T) {
	path := writeTable(t, `
documentation_kinds = ["Comment"]
deprecated_class = "obsolete"

[kind_classes]
Keyword = "kw"
TypeName = "type"

[diagnostic_classes]
error = "squiggle"
`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if !table.DocumentationKinds[token.Comment] {
		t.Error("Comment should be a documentation kind")
	}
	if got := table.KindClasses[token.Keyword]; got != "kw" {
		t.Errorf("Keyword class = %q", got)
	}
	if got := table.KindClasses[token.TypeName]; got != "type" {
		t.Errorf("TypeName class = %q", got)
	}
	if got := table.DiagnosticClasses[codefile.LevelError]; got != "squiggle" {
		t.Errorf("error class = %q", got)
	}
	if got := table.DiagnosticClasses[codefile.LevelWarning]; got != "diagnostic-warning" {
		t.Errorf("warning class = %q, want default", got)
	}
	if table.DeprecatedClass != "obsolete" || table.DocumentationClass != "documentation" {
		t.Errorf("range classes = %q, %q", table.DocumentationClass, table.DeprecatedClass)
	}
}

func TestLoadTableErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", `colour = "red"`},
		{"unknown kind", `documentation_kinds = ["Banner"]`},
		{"unknown level", "[diagnostic_classes]\nfatal = \"x\""},
		{"bad toml", `documentation_kinds = [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable(writeTable(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidTable) {
				t.Errorf("LoadTable() error = %v, want %s", err, errors.ErrCodeInvalidTable)
			}
		})
	}

	if _, err := LoadTable(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadTable on a missing file should fail")
	}
}

func TestTableTOMLRoundTrip(t *testing.T) {
	table := DefaultTable()
	table.DocumentationKinds[token.Comment] = true
	table.KindClasses[token.StringLiteral] = "str"

	var buf bytes.Buffer
	if err := table.WriteTOML(&buf); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}
	if !strings.Contains(buf.String(), "Comment") {
		t.Errorf("encoded table does not name kinds:\n%s", buf.String())
	}

	back, err := ParseTable(&buf)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if !back.DocumentationKinds[token.Comment] || back.KindClasses[token.StringLiteral] != "str" {
		t.Errorf("round trip lost entries: %+v", back)
	}
	if back.DiagnosticClasses[codefile.LevelInfo] != "diagnostic-info" {
		t.Errorf("info class = %q", back.DiagnosticClasses[codefile.LevelInfo])
	}
}
