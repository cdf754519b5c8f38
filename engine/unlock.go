package engine

import (
	"fmt"

	"github.com/lac-hong-legacy/engage_api/shared"
)

// IsUnlocked reports whether units[index] is accessible. The chain is strictly
// linear: the first unit is always open, every later unit requires its
// predecessor to be completed.
func IsUnlocked(progress *Progress, units []string, index int) (bool, error) {
	if index < 0 || index >= len(units) {
		return false, fmt.Errorf("index %d outside catalog of %d units: %w", index, len(units), shared.ErrInvalidIndex)
	}
	if index == 0 {
		return true, nil
	}
	return progress.HasCompleted(units[index-1]), nil
}
