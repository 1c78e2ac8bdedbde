package render

import (
	"io"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/token"
)

// Table classifies tokens and diagnostics for the renderer.
type Table struct {
	// DocumentationKinds are elided, like documentation ranges, when inline
	// documentation is hidden.
	DocumentationKinds map[token.Kind]bool

	// KindClasses maps a token kind to the class it adds to its line.
	KindClasses map[token.Kind]string

	// DiagnosticClasses maps a diagnostic level to the class added to the
	// line the diagnostic targets.
	DiagnosticClasses map[codefile.DiagnosticLevel]string

	// DocumentationClass and DeprecatedClass are added to lines inside the
	// corresponding ranges, and to markup spans in those ranges.
	DocumentationClass string
	DeprecatedClass    string
}

// DefaultTable returns the classification used when none is configured.
func DefaultTable() *Table {
	return &Table{
		DocumentationKinds: map[token.Kind]bool{},
		KindClasses:        map[token.Kind]string{},
		DiagnosticClasses: map[codefile.DiagnosticLevel]string{
			codefile.LevelDefault: "diagnostic",
			codefile.LevelInfo:    "diagnostic-info",
			codefile.LevelWarning: "diagnostic-warning",
			codefile.LevelError:   "diagnostic-error",
		},
		DocumentationClass: "documentation",
		DeprecatedClass:    "deprecated",
	}
}

// TableSpec is the serialized form of a Table, keyed by wire names.
type TableSpec struct {
	DocumentationKinds []string          `toml:"documentation_kinds" json:"documentation_kinds"`
	KindClasses        map[string]string `toml:"kind_classes" json:"kind_classes"`
	DiagnosticClasses  map[string]string `toml:"diagnostic_classes" json:"diagnostic_classes"`
	DocumentationClass string            `toml:"documentation_class" json:"documentation_class"`
	DeprecatedClass    string            `toml:"deprecated_class" json:"deprecated_class"`
}

// Spec returns the serialized form of t with deterministic ordering.
func (t *Table) Spec() TableSpec {
	s := TableSpec{
		KindClasses:        make(map[string]string, len(t.KindClasses)),
		DiagnosticClasses:  make(map[string]string, len(t.DiagnosticClasses)),
		DocumentationClass: t.DocumentationClass,
		DeprecatedClass:    t.DeprecatedClass,
	}
	for _, k := range slices.Sorted(maps.Keys(t.DocumentationKinds)) {
		if t.DocumentationKinds[k] {
			s.DocumentationKinds = append(s.DocumentationKinds, k.String())
		}
	}
	for k, c := range t.KindClasses {
		s.KindClasses[k.String()] = c
	}
	for l, c := range t.DiagnosticClasses {
		s.DiagnosticClasses[l.String()] = c
	}
	return s
}

// Table converts a spec back into a Table. Missing fields keep the
// defaults; unknown kind or level names are rejected.
func (s TableSpec) Table() (*Table, error) {
	t := DefaultTable()
	for _, name := range s.DocumentationKinds {
		k, err := token.ParseKind(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "documentation_kinds")
		}
		t.DocumentationKinds[k] = true
	}
	for name, class := range s.KindClasses {
		k, err := token.ParseKind(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "kind_classes")
		}
		t.KindClasses[k] = class
	}
	for name, class := range s.DiagnosticClasses {
		l, ok := codefile.ParseLevel(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidTable, "diagnostic_classes: unknown level %q", name)
		}
		t.DiagnosticClasses[l] = class
	}
	if s.DocumentationClass != "" {
		t.DocumentationClass = s.DocumentationClass
	}
	if s.DeprecatedClass != "" {
		t.DeprecatedClass = s.DeprecatedClass
	}
	return t, nil
}

// LoadTable reads a TOML classification table from path.
func LoadTable(path string) (*Table, error) {
	var s TableSpec
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "%s: unknown key %q", path, undecoded[0].String())
	}
	return s.Table()
}

// ParseTable reads a TOML classification table from r.
func ParseTable(r io.Reader) (*Table, error) {
	var s TableSpec
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "decode table")
	}
	return s.Table()
}

// WriteTOML encodes t as TOML.
func (t *Table) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(t.Spec())
}

func (t *Table) lineClassFor(k token.Kind) string {
	if t == nil {
		return ""
	}
	return t.KindClasses[k]
}
