package codefile

import (
	"encoding/json"
	"io"
	"os"

	"github.com/tailscale/hujson"

	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/fold"
)

// ReadOptions controls how a document is loaded.
type ReadOptions struct {
	// HasSections runs the folding pass right after decoding.
	HasSections bool

	// Strict rejects token streams whose section markers are not
	// well-nested. By default malformed streams load and fold as-is.
	Strict bool
}

// Read decodes a document from r.
func Read(r io.Reader, opts ReadOptions) (*CodeFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEnvelope, err, "read document")
	}
	return Decode(data, opts)
}

// Decode decodes a document from data.
func Decode(data []byte, opts ReadOptions) (*CodeFile, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEnvelope, err, "parse document")
	}

	var f CodeFile
	if err := json.Unmarshal(std, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEnvelope, err, "decode document")
	}
	f.Migrate()

	if opts.Strict && !fold.Build(f.Tokens).WellFormed() {
		return nil, errors.New(errors.ErrCodeInvalidEnvelope, "document %q has unbalanced section markers", f.Name)
	}
	if opts.HasSections && !f.Folded() {
		if err := f.Fold(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// ReadFile loads a document from path.
func ReadFile(path string, opts ReadOptions) (*CodeFile, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, opts)
}

// Write encodes f as indented JSON.
func Write(w io.Writer, f *CodeFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// WriteFile writes f to path.
func WriteFile(path string, f *CodeFile) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Write(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
