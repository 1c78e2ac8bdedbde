package render

import (
	"strings"

	"github.com/matzehuels/apiview/pkg/errors"
)

// Mode selects the output form of a render.
type Mode int

const (
	// ModeInteractive produces HTML with navigation anchors and element ids.
	ModeInteractive Mode = iota
	// ModeReadOnly produces HTML without anchors or ids.
	ModeReadOnly
	// ModeText produces raw token values.
	ModeText
)

// Modes lists every mode in slot order.
var Modes = []Mode{ModeInteractive, ModeReadOnly, ModeText}

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeReadOnly:
		return "readonly"
	case ModeText:
		return "text"
	}
	return "unknown"
}

// Markup reports whether the mode produces HTML.
func (m Mode) Markup() bool { return m == ModeInteractive || m == ModeReadOnly }

// ParseMode resolves a mode name. Names are case-insensitive and
// "read-only" is accepted for ModeReadOnly.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "interactive", "html":
		return ModeInteractive, nil
	case "readonly", "read-only":
		return ModeReadOnly, nil
	case "text", "plain":
		return ModeText, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "invalid render mode %q (must be interactive, readonly, or text)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
