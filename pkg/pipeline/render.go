package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/render"
)

// RenderLines renders f with the validated options.
func RenderLines(ctx context.Context, f *cache.RenderedFile, opts Options) []render.Line {
	mode := opts.RenderMode()
	switch {
	case opts.Expand:
		return f.Expand(ctx, mode, opts.ShowDocumentation, opts.SkipDiff)
	case mode == render.ModeText:
		return f.RenderText(ctx, opts.ShowDocumentation, opts.SkipDiff)
	case opts.SkipDiff:
		return slices.Clone(f.RenderMode(ctx, mode, opts.ShowDocumentation, true).Lines)
	case mode == render.ModeReadOnly:
		return f.RenderReadOnly(ctx, opts.ShowDocumentation)
	}
	return f.Render(ctx, opts.ShowDocumentation)
}

// Document is the JSON form of a render.
type Document struct {
	Name  string        `json:"name,omitempty"`
	Mode  string        `json:"mode"`
	Lines []render.Line `json:"lines"`
}

// Encode writes lines in format. name titles JSON and HTML output.
func Encode(lines []render.Line, mode render.Mode, format, name string) ([]byte, error) {
	switch format {
	case FormatText:
		var buf bytes.Buffer
		for _, l := range lines {
			buf.WriteString(l.Display)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(Document{Name: name, Mode: mode.String(), Lines: lines}, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode lines")
		}
		return append(data, '\n'), nil
	case FormatHTML:
		return encodeHTML(lines, mode, name), nil
	}
	return nil, ValidateFormat(format)
}

const pageStyle = `body{font-family:monospace;margin:0}
.code-line{white-space:pre}
.line-number{display:inline-block;width:4em;color:#888;text-align:right;margin-right:1em}
.keyword{color:#0000ff}.type-name{color:#2b91af}.string{color:#a31515}.comment{color:#008000}
.documentation{color:#6a737d}.deprecated{text-decoration:line-through}
.diagnostic-error{background:#fdd}.diagnostic-warning{background:#ffd}`

func encodeHTML(lines []render.Line, mode render.Mode, name string) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n", html.EscapeString(name), pageStyle)
	for _, l := range lines {
		b.WriteString(`<div class="`)
		b.WriteString(html.EscapeString(render.MergeClasses("code-line", l.Class)))
		b.WriteByte('"')
		if l.ElementID != "" && mode == render.ModeInteractive {
			fmt.Fprintf(&b, ` data-line-id="%s"`, html.EscapeString(l.ElementID))
		}
		b.WriteString(`><span class="line-number">`)
		if l.Number != nil {
			fmt.Fprintf(&b, "%d", *l.Number)
		}
		b.WriteString("</span>")
		if mode.Markup() {
			b.WriteString(l.Display)
		} else {
			b.WriteString(html.EscapeString(l.Display))
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}
