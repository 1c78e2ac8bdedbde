package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/observability"
)

// ReadInput returns the raw envelope named by opts: Data when set, otherwise
// the contents of Path.
func ReadInput(opts Options) ([]byte, error) {
	if opts.Data != nil {
		return opts.Data, nil
	}
	if err := errors.ValidatePath(opts.Path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(opts.Path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.Path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", opts.Path)
	}
	return data, nil
}

// Decode decodes an envelope and reports load and fold events.
func Decode(ctx context.Context, source string, data []byte, opts codefile.ReadOptions) (*codefile.CodeFile, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	doc, err := codefile.Decode(data, codefile.ReadOptions{Strict: opts.Strict})
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, source, len(doc.Tokens), time.Since(start), nil)

	if opts.HasSections && !doc.Folded() {
		foldStart := time.Now()
		if err := doc.Fold(); err != nil {
			return nil, err
		}
		hooks.OnFold(ctx, len(doc.LeafSections), time.Since(foldStart))
	}
	return doc, nil
}

func sourceName(opts Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	return "<data>"
}
