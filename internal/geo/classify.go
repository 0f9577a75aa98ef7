package geo

import "github.com/fieldlog/geoverify/internal/model"

// Thresholds holds the proximity cutoffs for tier classification, in meters.
// Both bounds are inclusive.
type Thresholds struct {
	VerifiedMaxMeters float64
	ReviewMaxMeters   float64
}

// DefaultThresholds returns the standard 100m/300m cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{VerifiedMaxMeters: 100, ReviewMaxMeters: 300}
}

// Classify maps a distance to a verification tier.
// Rules:
//   - Verified: distance <= VerifiedMaxMeters
//   - Review: VerifiedMaxMeters < distance <= ReviewMaxMeters
//   - Out of Range: distance > ReviewMaxMeters
func Classify(distanceMeters float64, t Thresholds) model.Status {
	if distanceMeters <= t.VerifiedMaxMeters {
		return model.StatusVerified
	}
	if distanceMeters <= t.ReviewMaxMeters {
		return model.StatusReview
	}
	return model.StatusOutOfRange
}
