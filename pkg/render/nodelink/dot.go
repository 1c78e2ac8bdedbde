package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/apiview/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the level, line number and section key to node labels.
	Detailed bool

	// AllLines draws every line instead of headings and placeholders only.
	AllLines bool

	// MaxLabel truncates labels to this many runes. Zero means 60.
	MaxLabel int
}

// ToDOT converts the section forest of res to Graphviz DOT.
func ToDOT(res *render.Result, opts Options) string {
	if opts.MaxLabel <= 0 {
		opts.MaxLabel = 60
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	var edges []string
	for _, root := range res.Roots {
		for n := range root.All() {
			if !opts.AllLines && !drawn(n) {
				continue
			}
			label := fmtLabel(n, res.Options.Mode, opts)
			fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n), strings.Join(fmtAttrs(n, label), ", "))
			if p := visibleParent(n, opts.AllLines); p != nil {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", nodeID(p), nodeID(n)))
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func drawn(n *render.Node) bool {
	return n.Line.Section != nil || n.Line.SectionKey != nil
}

func visibleParent(n *render.Node, all bool) *render.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if all || drawn(p) {
			return p
		}
	}
	return nil
}

func nodeID(n *render.Node) string {
	return "l" + strconv.Itoa(n.Index)
}

func fmtLabel(n *render.Node, mode render.Mode, opts Options) string {
	text := strings.TrimSpace(render.TextOf(n.Line.Display, mode))
	if r := []rune(text); len(r) > opts.MaxLabel {
		text = string(r[:opts.MaxLabel-1]) + "…"
	}
	if n.Line.SectionKey != nil {
		text = "leaf " + strconv.Itoa(*n.Line.SectionKey)
	}
	if !opts.Detailed {
		return text
	}

	parts := []string{fmt.Sprintf("level: %d", n.Level)}
	if n.Line.Number != nil {
		parts = append(parts, fmt.Sprintf("line: %d", *n.Line.Number))
	}
	if n.Line.Section != nil {
		parts = append(parts, fmt.Sprintf("section: %d", *n.Line.Section))
	}
	return text + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *render.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Line.SectionKey != nil {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
