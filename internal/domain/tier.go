package domain

import "fmt"

// ModelTier is a named accuracy/resource level of the speech recognition
// model, ordered from cheapest to most accurate.
type ModelTier string

const (
	TierTiny   ModelTier = "tiny"
	TierBase   ModelTier = "base"
	TierSmall  ModelTier = "small"
	TierMedium ModelTier = "medium"
	TierLarge  ModelTier = "large"
)

// ParseTier validates a tier name against the closed set.
func ParseTier(s string) (ModelTier, error) {
	switch ModelTier(s) {
	case TierTiny, TierBase, TierSmall, TierMedium, TierLarge:
		return ModelTier(s), nil
	}
	return "", fmt.Errorf("unknown model tier %q (valid: tiny, base, small, medium, large)", s)
}
