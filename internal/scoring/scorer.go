package scoring

import (
	"time"

	"fraud-review-system/internal/config"
	"fraud-review-system/internal/models"
)

// Reason codes, in the fixed order the checks are evaluated. Downstream
// consumers depend on the literal strings; change them in lockstep.
const (
	ReasonHighAmount    = "high_amount"
	ReasonVelocityCheck = "velocity_check"
	ReasonGeoMismatch   = "geo_mismatch"
)

// Scorer combines a feature vector into a risk score in [0,1] plus the
// reason codes that fired. Deterministic: identical input and policy always
// produce identical output, with reason codes appended in evaluation order
// (amount, velocity, geo).
type Scorer struct {
	policy config.RiskConfig
}

func NewScorer(policy config.RiskConfig) *Scorer {
	return &Scorer{policy: policy}
}

// Score evaluates the threshold policy against the feature vector.
func (s *Scorer) Score(fv models.FeatureVector) (float64, []string) {
	score := 0.0
	var codes []string

	if fv.Amount > s.policy.HighAmountThreshold {
		score += s.policy.AmountWeight
		codes = append(codes, ReasonHighAmount)
	}

	if fv.VelocityCount > s.policy.VelocityThreshold {
		score += s.policy.VelocityWeight
		codes = append(codes, ReasonVelocityCheck)
	}

	if !fv.GeoConsistency {
		score += s.policy.GeoMismatchPenalty
		codes = append(codes, ReasonGeoMismatch)
	}

	return clamp(score), codes
}

// Decide maps a score onto the automated outcome: flagged for human review
// above the flag threshold, otherwise completed. With ReviewAll the
// transaction stays pending for an analyst regardless of score.
func (s *Scorer) Decide(score float64) models.Status {
	if score > s.policy.FlagThreshold {
		return models.StatusFlagged
	}
	if s.policy.ReviewAll {
		return models.StatusPending
	}
	return models.StatusCompleted
}

// Evaluate runs Score and Decide together and stamps the result.
func (s *Scorer) Evaluate(fv models.FeatureVector, at time.Time) *models.ScoringResult {
	score, codes := s.Score(fv)
	return &models.ScoringResult{
		RiskScore:   score,
		ReasonCodes: codes,
		Status:      s.Decide(score),
		ScoredAt:    at,
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
