// Package compose defines the supported compositions and shapes incoming
// generation requests into the fixed input schema each composition expects.
package compose

import (
	"strings"

	"matchday/internal/pkg/errors"
)

// Kind identifies a named composition template.
type Kind string

const (
	KindGoal        Kind = "goal"
	KindFormation   Kind = "formation"
	KindFinalResult Kind = "final-result"
	KindLineup      Kind = "lineup"
)

// ParseKind validates a composition kind received on the wire.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case KindGoal:
		return KindGoal, nil
	case KindFormation:
		return KindFormation, nil
	case KindFinalResult:
		return KindFinalResult, nil
	case KindLineup:
		return KindLineup, nil
	default:
		return "", errors.Validationf("unknown composition kind: %q", s)
	}
}

// Props is the normalized field mapping handed to the renderer. No asset
// resolution happens during normalization; callers resolve references
// before or after depending on render mode.
type Props map[string]any

// LineupPlayer is one of the eleven entries of a lineup still.
type LineupPlayer struct {
	Number     int    `json:"number"`
	PlayerName string `json:"playerName"`
	IsCaptain  bool   `json:"isCaptain"`
}

// LineupSize is the only accepted number of players on a lineup graphic.
const LineupSize = 11

// Shirt number bounds. Out-of-range numbers are clamped, not rejected,
// preserving the form's auto-correct behavior.
const (
	MinShirtNumber = 1
	MaxShirtNumber = 99
)
