package codefile

import "strconv"

// NavigationItem is one entry of the outline shown beside a listing.
type NavigationItem struct {
	Text         string            `json:"Text"`
	NavigationID string            `json:"NavigationId,omitempty"`
	ChildItems   []NavigationItem  `json:"ChildItems,omitempty"`
	Tags         map[string]string `json:"Tags,omitempty"`
}

// Walk calls fn for item and its descendants in pre-order, stopping when fn
// returns false.
func (n NavigationItem) Walk(fn func(NavigationItem, int) bool) {
	n.walk(fn, 0)
}

func (n NavigationItem) walk(fn func(NavigationItem, int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.ChildItems {
		if !c.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// DiagnosticLevel orders diagnostics by severity.
type DiagnosticLevel int

const (
	LevelDefault DiagnosticLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

var levelNames = map[DiagnosticLevel]string{
	LevelDefault: "default",
	LevelInfo:    "info",
	LevelWarning: "warning",
	LevelError:   "error",
}

func (l DiagnosticLevel) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "DiagnosticLevel(" + strconv.Itoa(int(l)) + ")"
}

// ParseLevel resolves a level from its lower-case name.
func ParseLevel(s string) (DiagnosticLevel, bool) {
	for l, name := range levelNames {
		if name == s {
			return l, true
		}
	}
	return 0, false
}

// Diagnostic is a producer-reported finding attached to a line identity.
type Diagnostic struct {
	DiagnosticID string          `json:"DiagnosticId,omitempty"`
	TargetID     string          `json:"TargetId"`
	Text         string          `json:"Text"`
	HelpLinkURI  string          `json:"HelpLinkUri,omitempty"`
	Level        DiagnosticLevel `json:"Level"`
}

// DiagnosticsByTarget groups diagnostics by the line identity they target.
func DiagnosticsByTarget(diags []Diagnostic) map[string][]Diagnostic {
	out := make(map[string][]Diagnostic, len(diags))
	for _, d := range diags {
		if d.TargetID == "" {
			continue
		}
		out[d.TargetID] = append(out[d.TargetID], d)
	}
	return out
}
