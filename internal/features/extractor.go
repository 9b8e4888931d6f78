package features

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fraud-review-system/internal/config"
	"fraud-review-system/internal/models"
)

// ErrMalformedTransaction marks input that must be dropped (dead-lettered)
// rather than retried. Validation runs before any history mutation, so a
// malformed transaction never leaves partial side effects.
var ErrMalformedTransaction = errors.New("malformed transaction")

// Extractor computes the behavioral feature vector for a transaction
// against its entity window. Pure: no I/O, no side effects, the window is
// never mutated.
type Extractor struct {
	velocityInterval time.Duration
}

func NewExtractor(cfg config.HistoryConfig) *Extractor {
	return &Extractor{velocityInterval: cfg.VelocityInterval}
}

// Validate rejects transactions whose amount is not a finite non-negative
// number or whose event timestamp is missing.
func Validate(tx *models.Transaction) error {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return fmt.Errorf("%w: amount is not finite", ErrMalformedTransaction)
	}
	if tx.Amount < 0 {
		return fmt.Errorf("%w: amount is negative", ErrMalformedTransaction)
	}
	if tx.TransactionID == "" {
		return fmt.Errorf("%w: missing transaction id", ErrMalformedTransaction)
	}
	if tx.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrMalformedTransaction)
	}
	return nil
}

// Extract computes the feature vector from the transaction and the window
// as passed in. Velocity is counted against the transaction's own event
// timestamp, not wall clock, so extraction is deterministic and replayable.
func (e *Extractor) Extract(tx *models.Transaction, window []models.EntitySummary, now time.Time) models.FeatureVector {
	fv := models.FeatureVector{
		Amount:    tx.Amount,
		AgeMillis: now.Sub(tx.Timestamp).Milliseconds(),
	}

	fv.RollingAverageAmount = rollingAverage(window)
	fv.RollingStdAmount = rollingStd(window, fv.RollingAverageAmount)
	fv.GeoConsistency = geoConsistency(tx, window)
	fv.VelocityCount = velocityCount(tx, window, e.velocityInterval)

	return fv
}

// rollingAverage is the arithmetic mean of the window amounts; 0 for an
// empty window, never NaN.
func rollingAverage(window []models.EntitySummary) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, entry := range window {
		sum += entry.Amount
	}
	return sum / float64(len(window))
}

// rollingStd is the population standard deviation of the window amounts;
// 0 when fewer than two entries.
func rollingStd(window []models.EntitySummary, mean float64) float64 {
	if len(window) < 2 {
		return 0
	}
	variance := 0.0
	for _, entry := range window {
		d := entry.Amount - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(window)))
}

// geoConsistency is true when the transaction's merchant tag matches at
// least one window entry, or when the window is empty: absence of history
// is not evidence of risk.
func geoConsistency(tx *models.Transaction, window []models.EntitySummary) bool {
	if len(window) == 0 {
		return true
	}
	for _, entry := range window {
		if entry.Merchant == tx.Merchant {
			return true
		}
	}
	return false
}

// velocityCount counts window entries within the trailing interval ending
// at the transaction's event timestamp.
func velocityCount(tx *models.Transaction, window []models.EntitySummary, interval time.Duration) int {
	if interval <= 0 {
		return 0
	}
	cutoff := tx.Timestamp.Add(-interval)
	count := 0
	for _, entry := range window {
		if !entry.Timestamp.Before(cutoff) && !entry.Timestamp.After(tx.Timestamp) {
			count++
		}
	}
	return count
}
