package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/apiview/pkg/render"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleGutter      = lipgloss.NewStyle().Foreground(colorDim).Width(5).Align(lipgloss.Right).MarginRight(1)
	styleHeading     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stylePlaceholder = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	styleDoc         = lipgloss.NewStyle().Foreground(colorGray)
	styleDeprecated  = lipgloss.NewStyle().Strikethrough(true)
	styleDiagError   = lipgloss.NewStyle().Foreground(colorRed)
	styleDiagWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// statusOut receives status messages so command output on stdout stays
// pipeable.
var statusOut io.Writer = os.Stderr

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed detail line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printStats prints render statistics on a single line.
func printStats(lines, sections, leaves int, cached bool) {
	parts := []string{fmt.Sprintf("%d lines", lines)}
	if sections > 0 {
		parts = append(parts, fmt.Sprintf("%d sections", sections))
	}
	if leaves > 0 {
		parts = append(parts, fmt.Sprintf("%d leaves", leaves))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(statusOut, line+StyleDim.Render(" · ")+statusStyle.Render(status))
}

// =============================================================================
// Terminal Rendering
// =============================================================================

// termLine styles one rendered line for a terminal. Markup is reduced to its
// text; the line class picks the style.
func termLine(l render.Line, mode render.Mode, indent int) string {
	text := render.TextOf(l.Display, mode)
	classes := strings.Fields(l.Class)
	has := func(c string) bool {
		for _, x := range classes {
			if x == c {
				return true
			}
		}
		return false
	}

	style := lipgloss.NewStyle()
	switch {
	case l.SectionKey != nil:
		text = "⋯ leaf " + strconv.Itoa(*l.SectionKey)
		style = stylePlaceholder
	case l.Section != nil:
		style = styleHeading
	case has("documentation"):
		style = styleDoc
	}
	switch {
	case has("diagnostic-error"):
		style = style.Inherit(styleDiagError)
	case has("diagnostic-warning"):
		style = style.Inherit(styleDiagWarning)
	}
	if has("deprecated") {
		style = style.Inherit(styleDeprecated)
	}

	gutter := ""
	if l.Number != nil {
		gutter = strconv.Itoa(*l.Number)
	}
	return styleGutter.Render(gutter) + strings.Repeat("  ", indent) + style.Render(text)
}

// writeTerm writes lines styled for a terminal.
func writeTerm(w io.Writer, lines []render.Line, mode render.Mode) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, termLine(l, mode, 0)); err != nil {
			return err
		}
	}
	return nil
}

// levelOf returns the hierarchy depth named by a level_N_Child class, or 0.
func levelOf(class string) int {
	for _, c := range strings.Fields(class) {
		var n int
		if _, err := fmt.Sscanf(c, "level_%d_Child", &n); err == nil {
			return n
		}
	}
	return 0
}
